// Package evaluation scores batches of classification predictions against
// labeled ground truth. Everything here is pure and deterministic: the same
// samples always produce the same report.
package evaluation

import (
	"errors"
	"fmt"
	"time"

	"github.com/xichaow/document-classification/internal/core/domain"
)

// Sample is one scored prediction.
type Sample struct {
	Filename   string          `json:"filename"`
	TrueLabel  domain.Category `json:"true_label"`
	PredLabel  domain.Category `json:"predicted_label"`
	Confidence float64         `json:"confidence"`
}

// Correct reports whether the prediction matched ground truth.
func (s Sample) Correct() bool { return s.TrueLabel == s.PredLabel }

// ClassMetrics holds per-class precision/recall/F1 over the fixed taxonomy.
type ClassMetrics struct {
	Category  domain.Category `json:"document_type"`
	Precision float64         `json:"precision"`
	Recall    float64         `json:"recall"`
	F1        float64         `json:"f1_score"`
	Support   int             `json:"support"`
}

// Averages aggregates per-class metrics. Macro is the unweighted mean,
// Weighted is the support-weighted mean.
type Averages struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
}

// Report is the complete outcome of one batch evaluation.
type Report struct {
	OverallAccuracy float64         `json:"overall_accuracy"`
	PerClass        []ClassMetrics  `json:"per_class_metrics"`
	MacroAvg        Averages        `json:"macro_avg"`
	WeightedAvg     Averages        `json:"weighted_avg"`
	Confusion       ConfusionMatrix `json:"confusion_matrix"`
	Confidence      ConfidenceStats `json:"confidence_metrics"`
	Summary         Summary         `json:"summary"`
	TotalSamples    int             `json:"total_samples"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// ErrNoSamples is returned when evaluation is requested on an empty batch.
var ErrNoSamples = errors.New("evaluation requires at least one sample")

// Evaluate computes the full report for a batch of samples.
func Evaluate(samples []Sample) (*Report, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty input: %w", ErrNoSamples)
	}

	labels := domain.Categories()
	perClass := make([]ClassMetrics, 0, len(labels))

	correct := 0
	for _, s := range samples {
		if s.Correct() {
			correct++
		}
	}

	var macro Averages
	var weighted Averages
	totalSupport := 0

	for _, label := range labels {
		m := classMetrics(samples, label)
		perClass = append(perClass, m)

		macro.Precision += m.Precision
		macro.Recall += m.Recall
		macro.F1 += m.F1

		weighted.Precision += m.Precision * float64(m.Support)
		weighted.Recall += m.Recall * float64(m.Support)
		weighted.F1 += m.F1 * float64(m.Support)
		totalSupport += m.Support
	}

	n := float64(len(labels))
	macro.Precision /= n
	macro.Recall /= n
	macro.F1 /= n

	if totalSupport > 0 {
		weighted.Precision /= float64(totalSupport)
		weighted.Recall /= float64(totalSupport)
		weighted.F1 /= float64(totalSupport)
	}

	return &Report{
		OverallAccuracy: float64(correct) / float64(len(samples)),
		PerClass:        perClass,
		MacroAvg:        macro,
		WeightedAvg:     weighted,
		Confusion:       NewConfusionMatrix(samples),
		Confidence:      confidenceStats(samples),
		Summary:         summarize(samples),
		TotalSamples:    len(samples),
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

// classMetrics computes precision/recall/F1 for one label. Zero division is
// defined as 0 for classes absent from both the true and predicted sets.
func classMetrics(samples []Sample, label domain.Category) ClassMetrics {
	var tp, fp, fn int
	for _, s := range samples {
		switch {
		case s.PredLabel == label && s.TrueLabel == label:
			tp++
		case s.PredLabel == label:
			fp++
		case s.TrueLabel == label:
			fn++
		}
	}

	var precision, recall, f1 float64
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return ClassMetrics{
		Category:  label,
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		Support:   tp + fn,
	}
}
