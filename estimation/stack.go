package estimation

import (
	"github.com/FlorianRuen/repo-cost-estimator/model"
)

var techStacks = map[string][]string{
	"TypeScript": {"TypeScript", "React", "Node.js", "Tailwind CSS"},
	"JavaScript": {"JavaScript", "React", "Node.js", "CSS"},
	"Python":     {"Python", "Django/Flask", "PostgreSQL", "CSS"},
	"Java":       {"Java", "Spring Boot", "MySQL", "Thymeleaf"},
	"Go":         {"Go", "Gin/Echo", "PostgreSQL", "HTML/CSS"},
}

var defaultTechStack = []string{"JavaScript", "React", "Node.js", "CSS"}

// TechStackFor guesses a typical stack from the primary language only
func TechStackFor(language string) []string {
	stack, ok := techStacks[language]
	if !ok {
		stack = defaultTechStack
	}
	return append([]string(nil), stack...)
}

var (
	baseFeatures = []string{
		"User Interface Components",
		"Responsive Design",
		"State Management",
		"API Integration",
	}

	mediumFeatures = []string{
		"Authentication System",
		"Database Integration",
		"Form Validation",
		"Error Handling",
	}

	advancedFeatures = []string{
		"Real-time Updates",
		"Advanced Analytics",
		"File Upload/Management",
		"Third-party Integrations",
		"Custom Hooks/Utils",
		"Performance Optimization",
	}
)

// DefaultFeatures lists the features expected for a repository of this complexity
// when nothing more precise could be detected
func DefaultFeatures(complexity model.ComplexityLevel, components int) []string {
	features := append([]string(nil), baseFeatures...)

	if complexity == model.ComplexityMedium || complexity == model.ComplexityHigh {
		features = append(features, mediumFeatures...)
	}

	if complexity == model.ComplexityHigh {
		n := min(max(components/10, 0), len(advancedFeatures))
		features = append(features, advancedFeatures[:n]...)
	}

	return features
}
