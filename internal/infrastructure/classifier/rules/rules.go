// Package rules implements the offline, dependency-free document classifier.
// It scores text against static per-category keyword and pattern rule sets
// and never calls out to an external service.
package rules

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

type ruleSet struct {
	Name     string
	Keywords []string
	// Patterns carry weight 2 against keyword weight 1, reflecting their
	// higher specificity.
	Patterns []*regexp.Regexp
}

// maxScore is the highest score this rule set can produce.
func (r ruleSet) maxScore() int {
	return len(r.Keywords) + len(r.Patterns)*patternWeight
}

type ruleSetYAML struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Patterns []string `yaml:"patterns"`
}

type rulesFileYAML struct {
	Categories []ruleSetYAML `yaml:"categories"`
}

// loadRuleSets parses and compiles the embedded rule data, preserving the
// declaration order used for tie-breaking.
func loadRuleSets(raw []byte) ([]ruleSet, error) {
	var file rulesFileYAML
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse rule sets: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("rule sets are empty")
	}

	out := make([]ruleSet, 0, len(file.Categories))
	for _, c := range file.Categories {
		set := ruleSet{
			Name:     c.Name,
			Keywords: c.Keywords,
			Patterns: make([]*regexp.Regexp, 0, len(c.Patterns)),
		}
		for _, p := range c.Patterns {
			compiled, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compile pattern %q for %s: %w", p, c.Name, err)
			}
			set.Patterns = append(set.Patterns, compiled)
		}
		out = append(out, set)
	}
	return out, nil
}
