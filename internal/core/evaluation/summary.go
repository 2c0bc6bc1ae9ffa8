package evaluation

import "github.com/xichaow/document-classification/internal/core/domain"

// Summary is the high-level view of a batch: label distributions, per-class
// correctness and class balance.
type Summary struct {
	TrueDistribution      map[domain.Category]int `json:"true_distribution"`
	PredictedDistribution map[domain.Category]int `json:"predicted_distribution"`
	CorrectPerClass       map[domain.Category]int `json:"correct_per_class"`
	MostCommonTrueLabel   domain.Category         `json:"most_common_true_label"`
	MostCommonPredLabel   domain.Category         `json:"most_common_predicted_label"`
	ClassBalanceScore     float64                 `json:"class_balance_score"`
}

func summarize(samples []Sample) Summary {
	s := Summary{
		TrueDistribution:      make(map[domain.Category]int),
		PredictedDistribution: make(map[domain.Category]int),
		CorrectPerClass:       make(map[domain.Category]int),
	}

	for _, sample := range samples {
		s.TrueDistribution[sample.TrueLabel]++
		s.PredictedDistribution[sample.PredLabel]++
		if sample.Correct() {
			s.CorrectPerClass[sample.TrueLabel]++
		}
	}

	s.MostCommonTrueLabel = mostCommon(s.TrueDistribution)
	s.MostCommonPredLabel = mostCommon(s.PredictedDistribution)
	s.ClassBalanceScore = classBalance(s.TrueDistribution)
	return s
}

// mostCommon breaks count ties by taxonomy order so the result is stable.
func mostCommon(distribution map[domain.Category]int) domain.Category {
	best := domain.CategoryUnknown
	bestCount := -1
	for _, label := range domain.Categories() {
		if count := distribution[label]; count > bestCount {
			best = label
			bestCount = count
		}
	}
	return best
}

// classBalance is min-class-count / max-class-count, 1.0 when fewer than two
// distinct labels are present.
func classBalance(distribution map[domain.Category]int) float64 {
	if len(distribution) < 2 {
		return 1.0
	}
	minCount, maxCount := -1, 0
	for _, count := range distribution {
		if minCount < 0 || count < minCount {
			minCount = count
		}
		if count > maxCount {
			maxCount = count
		}
	}
	if maxCount == 0 {
		return 1.0
	}
	return float64(minCount) / float64(maxCount)
}
