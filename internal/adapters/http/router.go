package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/ports"
	"github.com/xichaow/document-classification/internal/core/usecase"
	"github.com/xichaow/document-classification/internal/observability/metrics"
)

const healthProbeTimeout = 2 * time.Second

// ConfigInfo is the non-secret configuration snapshot served on /v1/config.
type ConfigInfo struct {
	ModelID                string            `json:"model_id"`
	ConfidenceThreshold    float64           `json:"confidence_threshold"`
	OCRConfidenceThreshold float64           `json:"ocr_confidence_threshold"`
	MinTextLength          int               `json:"min_text_length"`
	MaxFileSizeBytes       int64             `json:"max_file_size_bytes"`
	DocumentTypes          []domain.Category `json:"document_types"`
}

type Router struct {
	service string

	submitter   ports.DocumentSubmitter
	evalUC      *usecase.EvaluateBatchUseCase
	tasks       ports.TaskStore
	results     ports.ResultStore
	evaluations ports.EvaluationStore

	checks  map[string]ports.HealthChecker
	cfgInfo ConfigInfo
	metrics *metrics.HTTPServerMetrics
	logger  *slog.Logger
}

func NewRouter(
	service string,
	submitter ports.DocumentSubmitter,
	evalUC *usecase.EvaluateBatchUseCase,
	tasks ports.TaskStore,
	results ports.ResultStore,
	evaluations ports.EvaluationStore,
	checks map[string]ports.HealthChecker,
	cfgInfo ConfigInfo,
	logger *slog.Logger,
) *Router {
	return &Router{
		service:     service,
		submitter:   submitter,
		evalUC:      evalUC,
		tasks:       tasks,
		results:     results,
		evaluations: evaluations,
		checks:      checks,
		cfgInfo:     cfgInfo,
		logger:      logger,
	}
}

// WithMetrics attaches request instrumentation. Safe to skip in tests.
func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/tasks", rt.listTasks)
	mux.HandleFunc("/v1/tasks/", rt.cancelTask)
	mux.HandleFunc("/v1/evaluations", rt.createEvaluation)
	mux.HandleFunc("/v1/evaluations/", rt.getEvaluation)
	mux.HandleFunc("/v1/config", rt.configInfo)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, handler))
}

// healthz reports per-dependency status. A degraded dependency does not
// fail the probe: the pipeline still completes through its fallbacks.
func (rt *Router) healthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	checks := make(map[string]string, len(rt.checks))
	for name, checker := range rt.checks {
		probeCtx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		err := checker.HealthCheck(probeCtx)
		cancel()
		if err != nil {
			status = "degraded"
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"checks": checks,
	})
}

func (rt *Router) configInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, rt.cfgInfo)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
