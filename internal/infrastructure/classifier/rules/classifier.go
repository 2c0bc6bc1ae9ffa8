package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/xichaow/document-classification/internal/core/domain"
)

const (
	keywordWeight = 1
	patternWeight = 2

	// minTextLength short-circuits classification of near-empty input.
	minTextLength = 10

	// Confidence is clamped into [0.3, 0.95] so a genuine rule match never
	// reports 0 and stays distinguishable from a model classification.
	confidenceFloor = 0.3
	confidenceCap   = 0.95
	confidenceScale = 0.8
)

// Classifier scores document text against the embedded rule sets. It is a
// pure function of its input: identical text always yields the identical
// category, confidence and reasoning.
type Classifier struct {
	sets []ruleSet
}

// New builds a Classifier from the embedded rule data.
func New() (*Classifier, error) {
	sets, err := loadRuleSets(rulesYAML)
	if err != nil {
		return nil, fmt.Errorf("load classification rules: %w", err)
	}
	return &Classifier{sets: sets}, nil
}

func (c *Classifier) Method() domain.ClassificationMethod {
	return domain.ClassificationRuleBased
}

// Classify scores the text against every category and picks the strict
// maximum; ties go to the first declared category.
func (c *Classifier) Classify(_ context.Context, text string) (domain.RawClassification, error) {
	if len(strings.TrimSpace(text)) < minTextLength {
		return domain.RawClassification{
			Category:   string(domain.CategoryUnknown),
			Confidence: 0.0,
			Reasoning:  "Insufficient text content for classification",
		}, nil
	}

	normalized := strings.ToLower(strings.TrimSpace(text))

	bestIdx := -1
	bestScore := 0
	var bestMatches []string

	for i, set := range c.sets {
		score, matches := c.score(set, normalized)
		if score > bestScore {
			bestIdx = i
			bestScore = score
			bestMatches = matches
		}
	}

	if bestIdx < 0 {
		return domain.RawClassification{
			Category:   string(domain.CategoryUnknown),
			Confidence: 0.0,
			Reasoning:  "No matching patterns found in document text",
		}, nil
	}

	best := c.sets[bestIdx]
	confidence := (float64(bestScore)/float64(best.maxScore()))*confidenceScale + confidenceFloor
	if confidence > confidenceCap {
		confidence = confidenceCap
	}

	return domain.RawClassification{
		Category:   best.Name,
		Confidence: confidence,
		Reasoning:  buildReasoning(best.Name, bestMatches),
		KeyInfo:    ExtractKeyInfo(text, domain.Category(best.Name)),
	}, nil
}

func (c *Classifier) score(set ruleSet, normalized string) (int, []string) {
	score := 0
	var matches []string

	for _, keyword := range set.Keywords {
		if strings.Contains(normalized, strings.ToLower(keyword)) {
			score += keywordWeight
			matches = append(matches, keyword)
		}
	}
	for _, pattern := range set.Patterns {
		if pattern.MatchString(normalized) {
			score += patternWeight
			matches = append(matches, "pattern: "+pattern.String())
		}
	}
	return score, matches
}

func buildReasoning(category string, matches []string) string {
	named := matches
	if len(named) > 3 {
		named = named[:3]
	}
	reasoning := fmt.Sprintf(
		"Classified as %s based on %d matching indicators: %s",
		category, len(matches), strings.Join(named, ", "),
	)
	if len(matches) > 3 {
		reasoning += fmt.Sprintf(" and %d others", len(matches)-3)
	}
	return reasoning + ". This is an offline classification using rule-based matching."
}
