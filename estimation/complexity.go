// Package estimation scores repository complexity and converts sizes into hours, costs and durations.
package estimation

import (
	"github.com/FlorianRuen/repo-cost-estimator/model"
)

// ComplexityInput holds every signal used to classify a repository
type ComplexityInput struct {
	Language     string
	SizeKB       int
	Components   int
	Dependencies int
	Features     int
}

// unlisted languages weight 1
const defaultLanguageWeight = 1

// DefaultLanguageWeights returns a fresh copy of the per language base scores
func DefaultLanguageWeights() map[string]int {
	return map[string]int{
		"TypeScript":  3,
		"JavaScript":  2,
		"Python":      2,
		"Java":        3,
		"Go":          3,
		"Rust":        4,
		"C++":         4,
		"C":           3,
		"C#":          3,
		"Kotlin":      3,
		"Swift":       3,
		"Scala":       4,
		"Haskell":     4,
		"PHP":         2,
		"Ruby":        2,
		"Dart":        2,
		"Elixir":      3,
		"Objective-C": 3,
	}
}

type Scorer struct {
	languageWeights map[string]int
}

func NewScorer(languageWeights map[string]int) Scorer {
	weights := make(map[string]int, len(languageWeights))
	for lang, w := range languageWeights {
		weights[lang] = w
	}
	return Scorer{languageWeights: weights}
}

func NewDefaultScorer() Scorer {
	return NewScorer(DefaultLanguageWeights())
}

// Score is monotonic in components, dependencies, size and features
func (s Scorer) Score(in ComplexityInput) int {
	score, ok := s.languageWeights[in.Language]
	if !ok {
		score = defaultLanguageWeight
	}

	switch {
	case in.Components > 50:
		score += 3
	case in.Components > 20:
		score += 2
	case in.Components > 10:
		score += 1
	}

	switch {
	case in.Dependencies > 100:
		score += 3
	case in.Dependencies > 50:
		score += 2
	case in.Dependencies > 20:
		score += 1
	}

	switch {
	case in.SizeKB > 10000:
		score += 2
	case in.SizeKB > 5000:
		score += 1
	}

	if in.Features > 0 {
		score += in.Features / 5
	}

	return score
}

func (s Scorer) Classify(in ComplexityInput) model.ComplexityLevel {
	return ClassifyScore(s.Score(in))
}

func ClassifyScore(score int) model.ComplexityLevel {
	switch {
	case score >= 8:
		return model.ComplexityHigh
	case score >= 4:
		return model.ComplexityMedium
	default:
		return model.ComplexityLow
	}
}
