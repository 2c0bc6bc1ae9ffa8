package evaluation

import "github.com/xichaow/document-classification/internal/core/domain"

// rowEpsilon guards row normalization against empty rows.
const rowEpsilon = 1e-10

// ConfusionMatrix is a true-label x predicted-label grid in the fixed
// taxonomy order: Raw[i][j] counts samples with true label i predicted as
// label j.
type ConfusionMatrix struct {
	Labels     []domain.Category `json:"class_names"`
	Raw        [][]int           `json:"raw_matrix"`
	Normalized [][]float64       `json:"normalized_matrix"`
	Percentage [][]float64       `json:"percentage_matrix"`
}

// NewConfusionMatrix builds all three views of the matrix from a batch.
func NewConfusionMatrix(samples []Sample) ConfusionMatrix {
	labels := domain.Categories()
	index := make(map[domain.Category]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	raw := make([][]int, len(labels))
	for i := range raw {
		raw[i] = make([]int, len(labels))
	}
	for _, s := range samples {
		i, iOK := index[s.TrueLabel]
		j, jOK := index[s.PredLabel]
		if !iOK || !jOK {
			continue
		}
		raw[i][j]++
	}

	normalized := make([][]float64, len(labels))
	percentage := make([][]float64, len(labels))
	for i, row := range raw {
		rowSum := 0
		for _, v := range row {
			rowSum += v
		}
		normalized[i] = make([]float64, len(labels))
		percentage[i] = make([]float64, len(labels))
		for j, v := range row {
			normalized[i][j] = float64(v) / (float64(rowSum) + rowEpsilon)
			percentage[i][j] = normalized[i][j] * 100
		}
	}

	return ConfusionMatrix{
		Labels:     labels,
		Raw:        raw,
		Normalized: normalized,
		Percentage: percentage,
	}
}

// Total returns the number of samples counted in the matrix.
func (m ConfusionMatrix) Total() int {
	total := 0
	for _, row := range m.Raw {
		for _, v := range row {
			total += v
		}
	}
	return total
}
