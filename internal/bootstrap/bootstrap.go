package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	httpadapter "github.com/xichaow/document-classification/internal/adapters/http"
	"github.com/xichaow/document-classification/internal/config"
	"github.com/xichaow/document-classification/internal/core/domain"
	"github.com/xichaow/document-classification/internal/core/ports"
	"github.com/xichaow/document-classification/internal/core/usecase"
	"github.com/xichaow/document-classification/internal/infrastructure/classifier/rules"
	"github.com/xichaow/document-classification/internal/infrastructure/extractor/pdftext"
	"github.com/xichaow/document-classification/internal/infrastructure/llm/bedrock"
	"github.com/xichaow/document-classification/internal/infrastructure/ocr/textract"
	"github.com/xichaow/document-classification/internal/infrastructure/queue/nats"
	"github.com/xichaow/document-classification/internal/infrastructure/repository/memory"
	"github.com/xichaow/document-classification/internal/infrastructure/repository/postgres"
	"github.com/xichaow/document-classification/internal/infrastructure/resilience"
	"github.com/xichaow/document-classification/internal/infrastructure/storage/localfs"
	"github.com/xichaow/document-classification/internal/observability/logging"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue       ports.WorkQueue
	Tasks       ports.TaskStore
	Results     ports.ResultStore
	Evaluations ports.EvaluationStore

	SubmitUC  ports.DocumentSubmitter
	ProcessUC ports.DocumentProcessor
	EvalUC    *usecase.EvaluateBatchUseCase

	Checks map[string]ports.HealthChecker

	closeFn func()
}

func New(ctx context.Context, service string, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	tasks := postgres.NewTaskRepository(db)
	if err := tasks.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	results := postgres.NewResultRepository(db)
	evaluations := memory.NewEvaluationStore()

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ocrClient := textract.New(cfg.OCREndpoint, cfg.OCRConfidenceThreshold, textract.Options{
		RequestsPerSecond:  cfg.OCRRequestsPerSecond,
		ResilienceExecutor: executor,
	})
	pdfExtractor := pdftext.New()

	modelClient := bedrock.New(cfg.ModelEndpoint, cfg.ModelID, bedrock.Options{
		ResilienceExecutor: executor,
	})
	rulesClassifier, err := rules.New()
	if err != nil {
		return nil, fmt.Errorf("load classification rules: %w", err)
	}

	extraction := usecase.NewExtractionCascade(logger, cfg.MinTextLength, ocrClient, pdfExtractor)
	classification := usecase.NewClassificationCascade(logger, modelClient, rulesClassifier)
	validator := usecase.NewResultValidator(cfg.ConfidenceThreshold)

	submitUC := usecase.NewSubmitDocumentUseCase(tasks, storage, queue, cfg.MaxFileSize, logger)
	processUC := usecase.NewProcessDocumentUseCase(
		tasks, results, storage,
		extraction, classification, rulesClassifier, validator,
		cfg.MinTextLength, logger,
	)
	evalUC := usecase.NewEvaluateBatchUseCase(
		submitUC, tasks, results, evaluations,
		cfg.EvalWaitTimeout, cfg.EvalPollInterval, logger,
	)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:       queue,
		Tasks:       tasks,
		Results:     results,
		Evaluations: evaluations,

		SubmitUC:  submitUC,
		ProcessUC: processUC,
		EvalUC:    evalUC,

		Checks: map[string]ports.HealthChecker{
			"ocr":      ocrClient,
			"model":    modelClient,
			"database": databaseChecker{db: db},
		},

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// ConfigInfo is the non-secret snapshot served on the config endpoint.
func (a *App) ConfigInfo() httpadapter.ConfigInfo {
	return httpadapter.ConfigInfo{
		ModelID:                a.Config.ModelID,
		ConfidenceThreshold:    a.Config.ConfidenceThreshold,
		OCRConfidenceThreshold: a.Config.OCRConfidenceThreshold,
		MinTextLength:          a.Config.MinTextLength,
		MaxFileSizeBytes:       a.Config.MaxFileSize,
		DocumentTypes:          domain.Categories(),
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

type databaseChecker struct {
	db *sql.DB
}

func (c databaseChecker) HealthCheck(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
