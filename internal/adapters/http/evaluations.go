package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/usecase"
	"github.com/xichaow/document-classification/internal/infrastructure/report/xlsx"
)

const maxEvaluationFormMemory = 32 << 20

// createEvaluation accepts a multipart batch: repeated 'files' parts plus a
// 'labels' field holding a JSON object of filename to expected document
// type. The batch is scored on a background goroutine; the response carries
// the batch id to poll.
func (rt *Router) createEvaluation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := r.ParseMultipartForm(maxEvaluationFormMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	labelsRaw := r.FormValue("labels")
	if strings.TrimSpace(labelsRaw) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form field 'labels' is required"})
		return
	}
	var labels map[string]domain.Category
	if err := json.Unmarshal([]byte(labelsRaw), &labels); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form field 'labels' must be a JSON object of filename to document type"})
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one 'files' part is required"})
		return
	}

	docs := make([]usecase.LabeledDocument, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable upload: " + header.Filename})
			return
		}
		defer file.Close()

		docs = append(docs, usecase.LabeledDocument{
			Filename: header.Filename,
			Label:    labels[header.Filename],
			Body:     file,
		})
	}

	batch, err := rt.evalUC.Start(r.Context(), docs)
	if err != nil {
		writeError(w, err)
		return
	}

	go rt.runEvaluation(batch.ID, len(docs))

	writeJSON(w, http.StatusAccepted, batch)
}

// runEvaluation drives the batch to a terminal state detached from the
// request context.
func (rt *Router) runEvaluation(batchID string, documents int) {
	ctx := context.Background()
	if err := rt.evalUC.Run(ctx, batchID); err != nil {
		rt.logger.Error("evaluation_run_failed", "batch_id", batchID, "error", err)
	}

	if rt.metrics == nil {
		return
	}
	batch, err := rt.evaluations.GetEvaluation(ctx, batchID)
	if err != nil {
		return
	}
	rt.metrics.RecordEvaluationBatch(rt.service, string(batch.Status), documents)
}

func (rt *Router) getEvaluation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/evaluations/")
	if rest == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "evaluation id is required"})
		return
	}

	if id, ok := strings.CutSuffix(rest, "/report.xlsx"); ok {
		rt.downloadEvaluationReport(w, r, id)
		return
	}

	batch, err := rt.evaluations.GetEvaluation(r.Context(), rest)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (rt *Router) downloadEvaluationReport(w http.ResponseWriter, r *http.Request, id string) {
	batch, err := rt.evaluations.GetEvaluation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if batch.Report == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "evaluation has no report yet"})
		return
	}

	payload, err := xlsx.Render(batch.Report)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="evaluation-`+id+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
