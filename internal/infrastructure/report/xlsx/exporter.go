// Package xlsx renders an evaluation report as a spreadsheet for the loan
// operations reviewers who consume the numbers outside the API.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/xichaow/document-classification/internal/core/evaluation"
)

const (
	sheetOverview   = "Overview"
	sheetPerClass   = "Per-Class Metrics"
	sheetConfusion  = "Confusion Matrix"
	sheetThresholds = "Threshold Analysis"
)

// Render produces the workbook bytes for one report.
func Render(report *evaluation.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return nil, fmt.Errorf("rename overview sheet: %w", err)
	}
	for _, sheet := range []string{sheetPerClass, sheetConfusion, sheetThresholds} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	if err := writeOverview(f, report); err != nil {
		return nil, err
	}
	if err := writePerClass(f, report); err != nil {
		return nil, err
	}
	if err := writeConfusion(f, report); err != nil {
		return nil, err
	}
	if err := writeThresholds(f, report); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeOverview(f *excelize.File, report *evaluation.Report) error {
	rows := [][]any{
		{"Generated At", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		{"Total Samples", report.TotalSamples},
		{"Overall Accuracy", report.OverallAccuracy},
		{},
		{"", "Precision", "Recall", "F1"},
		{"Macro Average", report.MacroAvg.Precision, report.MacroAvg.Recall, report.MacroAvg.F1},
		{"Weighted Average", report.WeightedAvg.Precision, report.WeightedAvg.Recall, report.WeightedAvg.F1},
		{},
		{"Average Confidence", report.Confidence.Average},
		{"Average Confidence (Correct)", report.Confidence.AverageCorrect},
		{"Average Confidence (Incorrect)", report.Confidence.AverageIncorrect},
		{"Class Balance Score", report.Summary.ClassBalanceScore},
		{"Most Common True Label", string(report.Summary.MostCommonTrueLabel)},
		{"Most Common Predicted Label", string(report.Summary.MostCommonPredLabel)},
	}
	return writeRows(f, sheetOverview, rows)
}

func writePerClass(f *excelize.File, report *evaluation.Report) error {
	rows := [][]any{{"Document Type", "Precision", "Recall", "F1", "Support", "Correct"}}
	for _, m := range report.PerClass {
		rows = append(rows, []any{
			string(m.Category), m.Precision, m.Recall, m.F1, m.Support,
			report.Summary.CorrectPerClass[m.Category],
		})
	}
	return writeRows(f, sheetPerClass, rows)
}

func writeConfusion(f *excelize.File, report *evaluation.Report) error {
	labels := report.Confusion.Labels

	header := []any{"True \\ Predicted"}
	for _, label := range labels {
		header = append(header, string(label))
	}
	rows := [][]any{header}
	for i, label := range labels {
		row := []any{string(label)}
		for j := range labels {
			row = append(row, report.Confusion.Raw[i][j])
		}
		rows = append(rows, row)
	}

	rows = append(rows, []any{}, []any{"Row-normalized"})
	for i, label := range labels {
		row := []any{string(label)}
		for j := range labels {
			row = append(row, report.Confusion.Normalized[i][j])
		}
		rows = append(rows, row)
	}
	return writeRows(f, sheetConfusion, rows)
}

func writeThresholds(f *excelize.File, report *evaluation.Report) error {
	rows := [][]any{{"Threshold", "Accuracy", "Samples", "Share of Batch (%)"}}
	for _, bucket := range report.Confidence.Thresholds {
		rows = append(rows, []any{bucket.Threshold, bucket.Accuracy, bucket.Count, bucket.Percentage})
	}
	return writeRows(f, sheetThresholds, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
