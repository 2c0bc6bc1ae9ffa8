package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec

	extractionTotal     *prometheus.CounterVec
	classificationTotal *prometheus.CounterVec
	degradedTotal       *prometheus.CounterVec
	manualReviewTotal   *prometheus.CounterVec
	confidence          *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docclass",
			Subsystem: "worker",
			Name:      "document_process_total",
			Help:      "Total processed documents by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docclass",
			Subsystem: "worker",
			Name:      "document_process_duration_seconds",
			Help:      "Document processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docclass",
			Subsystem: "worker",
			Name:      "document_process_in_flight",
			Help:      "Number of in-flight document processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docclass",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between task creation and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	extractionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docclass",
			Subsystem: "pipeline",
			Name:      "extraction_total",
			Help:      "Total extractions by method that produced the final text.",
		},
		[]string{"service", "method"},
	)
	classificationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docclass",
			Subsystem: "pipeline",
			Name:      "classification_total",
			Help:      "Total classifications by method and predicted document type.",
		},
		[]string{"service", "method", "document_type"},
	)
	degradedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docclass",
			Subsystem: "pipeline",
			Name:      "degraded_total",
			Help:      "Total documents completed through the degraded fallback path.",
		},
		[]string{"service"},
	)
	manualReviewTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docclass",
			Subsystem: "pipeline",
			Name:      "manual_review_total",
			Help:      "Total documents flagged for manual review.",
		},
		[]string{"service"},
	)
	confidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docclass",
			Subsystem: "pipeline",
			Name:      "classification_confidence",
			Help:      "Distribution of classification confidence scores.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1},
		},
		[]string{"service", "method"},
	)

	registry.MustRegister(
		processTotal,
		processDuration,
		processInFlight,
		queueLag,
		extractionTotal,
		classificationTotal,
		degradedTotal,
		manualReviewTotal,
		confidence,
	)

	return &WorkerMetrics{
		registry:            registry,
		processTotal:        processTotal,
		processDuration:     processDuration,
		processInFlight:     processInFlight,
		queueLag:            queueLag,
		extractionTotal:     extractionTotal,
		classificationTotal: classificationTotal,
		degradedTotal:       degradedTotal,
		manualReviewTotal:   manualReviewTotal,
		confidence:          confidence,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDocument() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishDocument(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObservePipelineResult(service, extractionMethod, classificationMethod, documentType string, confidence float64, degraded, manualReview bool) {
	if extractionMethod == "" {
		extractionMethod = "none"
	}
	if classificationMethod == "" {
		classificationMethod = "none"
	}
	if documentType == "" {
		documentType = "Unknown"
	}

	m.extractionTotal.WithLabelValues(service, extractionMethod).Inc()
	m.classificationTotal.WithLabelValues(service, classificationMethod, documentType).Inc()
	m.confidence.WithLabelValues(service, classificationMethod).Observe(confidence)

	if degraded {
		m.degradedTotal.WithLabelValues(service).Inc()
	}
	if manualReview {
		m.manualReviewTotal.WithLabelValues(service).Inc()
	}
}
