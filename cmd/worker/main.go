package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xichaow/document-classification/internal/bootstrap"
	"github.com/xichaow/document-classification/internal/config"
	"github.com/xichaow/document-classification/internal/observability/metrics"
)

const serviceName = "worker"

const processTimeout = 5 * time.Minute

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, serviceName, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("worker metrics listening on :%s", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})
	group.Go(func() error {
		log.Printf("worker subscribed to %s", cfg.NATSSubject)
		return app.Queue.SubscribeTaskQueued(groupCtx, func(handlerCtx context.Context, taskID string) error {
			processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
			defer cancel()
			return processTask(processCtx, app, workerMetrics, taskID)
		})
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("worker error: %v", err)
	}
}

func processTask(ctx context.Context, app *bootstrap.App, workerMetrics *metrics.WorkerMetrics, taskID string) error {
	workerMetrics.StartDocument()
	start := time.Now()

	if task, err := app.Tasks.GetTask(ctx, taskID); err == nil {
		workerMetrics.ObserveQueueLag(serviceName, start.Sub(task.CreatedAt))
	}

	result, err := app.ProcessUC.ProcessByID(ctx, taskID)
	workerMetrics.FinishDocument(serviceName, time.Since(start), err)
	if err != nil || result == nil {
		return err
	}

	var (
		documentType string
		confidence   float64
		manualReview bool
	)
	if result.Classification != nil {
		documentType = string(result.Classification.Category)
		confidence = result.Classification.Confidence
		manualReview = result.Classification.NeedsManualReview
	}
	workerMetrics.ObservePipelineResult(
		serviceName,
		string(result.Metadata.ExtractionMethod),
		string(result.Metadata.ClassificationMethod),
		documentType,
		confidence,
		result.Metadata.DegradedFallback,
		manualReview,
	)
	return nil
}
