package evaluation

import (
	"math"
	"sort"
)

// thresholds quantify the cost/benefit of raising the auto-approval bar.
var thresholds = []float64{0.5, 0.6, 0.7, 0.8, 0.9}

// ThresholdBucket reports accuracy restricted to samples at or above one
// confidence threshold.
type ThresholdBucket struct {
	Threshold  float64 `json:"threshold"`
	Accuracy   float64 `json:"accuracy"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ConfidenceStats describes how confidence relates to correctness across a
// batch.
type ConfidenceStats struct {
	Average          float64           `json:"average_confidence"`
	AverageCorrect   float64           `json:"average_confidence_correct"`
	AverageIncorrect float64           `json:"average_confidence_incorrect"`
	Min              float64           `json:"min"`
	Max              float64           `json:"max"`
	Median           float64           `json:"median"`
	StdDev           float64           `json:"std"`
	Thresholds       []ThresholdBucket `json:"threshold_analysis"`
}

func confidenceStats(samples []Sample) ConfidenceStats {
	stats := ConfidenceStats{
		Min: math.Inf(1),
		Max: math.Inf(-1),
	}

	var sum, sumCorrect, sumIncorrect float64
	var nCorrect, nIncorrect int
	values := make([]float64, 0, len(samples))

	for _, s := range samples {
		values = append(values, s.Confidence)
		sum += s.Confidence
		if s.Confidence < stats.Min {
			stats.Min = s.Confidence
		}
		if s.Confidence > stats.Max {
			stats.Max = s.Confidence
		}
		if s.Correct() {
			sumCorrect += s.Confidence
			nCorrect++
		} else {
			sumIncorrect += s.Confidence
			nIncorrect++
		}
	}

	n := float64(len(samples))
	stats.Average = sum / n
	if nCorrect > 0 {
		stats.AverageCorrect = sumCorrect / float64(nCorrect)
	}
	if nIncorrect > 0 {
		stats.AverageIncorrect = sumIncorrect / float64(nIncorrect)
	}

	var variance float64
	for _, v := range values {
		variance += (v - stats.Average) * (v - stats.Average)
	}
	stats.StdDev = math.Sqrt(variance / n)

	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		stats.Median = values[mid]
	} else {
		stats.Median = (values[mid-1] + values[mid]) / 2
	}

	for _, threshold := range thresholds {
		bucket := ThresholdBucket{Threshold: threshold}
		for _, s := range samples {
			if s.Confidence >= threshold {
				bucket.Count++
				if s.Correct() {
					bucket.Accuracy++
				}
			}
		}
		if bucket.Count > 0 {
			bucket.Accuracy /= float64(bucket.Count)
			bucket.Percentage = float64(bucket.Count) / n * 100
		}
		stats.Thresholds = append(stats.Thresholds, bucket)
	}

	return stats
}
