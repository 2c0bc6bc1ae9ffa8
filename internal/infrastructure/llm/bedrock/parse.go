package bedrock

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/xichaow/document-classification/internal/core/domain"
)

// completionText pulls the model's text out of the response. Newer responses
// carry a content array of typed blocks; older ones a flat completion field.
func completionText(response invokeResponse) string {
	for _, block := range response.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return response.Completion
}

// parseClassification reads category, confidence and reasoning from the
// completion. Models mostly honor the JSON instruction but sometimes wrap
// the object in prose or answer in labeled lines, so parsing tries strict
// JSON on the outermost braces first and falls back to line scanning. A
// completion that yields neither comes back as Unknown with zero confidence
// so the cascade treats it as a miss rather than an error.
func parseClassification(completion string) domain.RawClassification {
	if parsed, ok := parseJSONClassification(completion); ok {
		return parsed
	}
	return parseLineClassification(completion)
}

func parseJSONClassification(completion string) (domain.RawClassification, bool) {
	start := strings.Index(completion, "{")
	end := strings.LastIndex(completion, "}")
	if start < 0 || end <= start {
		return domain.RawClassification{}, false
	}

	var body struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(completion[start:end+1]), &body); err != nil {
		return domain.RawClassification{}, false
	}

	result := domain.RawClassification{
		Category:   body.Category,
		Confidence: body.Confidence,
		Reasoning:  body.Reasoning,
	}
	if result.Category == "" {
		result.Category = string(domain.CategoryUnknown)
	}
	if result.Reasoning == "" {
		result.Reasoning = "No reasoning provided"
	}
	return result, true
}

func parseLineClassification(completion string) domain.RawClassification {
	result := domain.RawClassification{
		Category:  string(domain.CategoryUnknown),
		Reasoning: "Unable to parse response",
	}

	for _, line := range strings.Split(strings.TrimSpace(completion), "\n") {
		lower := strings.ToLower(line)
		value := strings.TrimSpace(line[strings.LastIndex(line, ":")+1:])
		switch {
		case strings.Contains(lower, "category"):
			result.Category = strings.Trim(value, `"'`)
		case strings.Contains(lower, "confidence"):
			if confidence, err := strconv.ParseFloat(value, 64); err == nil {
				result.Confidence = confidence
			}
		case strings.Contains(lower, "reasoning"):
			result.Reasoning = strings.Trim(value, `"'`)
		}
	}
	return result
}
