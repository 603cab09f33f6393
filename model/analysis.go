package model

import (
	"sort"
)

// StructuralAnalysisResult is the aggregate produced by walking the repository tree
type StructuralAnalysisResult struct {
	ComponentCount  int
	DependencyCount int
	PackageManagers map[string]struct{}
	Features        map[string]struct{}
}

func NewStructuralAnalysisResult() StructuralAnalysisResult {
	return StructuralAnalysisResult{
		PackageManagers: map[string]struct{}{},
		Features:        map[string]struct{}{},
	}
}

// SortedPackageManagers returns package manager tags in a stable order for output
func (r StructuralAnalysisResult) SortedPackageManagers() []string {
	return sortedKeys(r.PackageManagers)
}

func (r StructuralAnalysisResult) SortedFeatures() []string {
	return sortedKeys(r.Features)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type ComplexityLevel string

const (
	ComplexityLow    ComplexityLevel = "Low"
	ComplexityMedium ComplexityLevel = "Medium"
	ComplexityHigh   ComplexityLevel = "High"
)

// Rank orders levels so they can be compared, Low < Medium < High
func (c ComplexityLevel) Rank() int {
	switch c {
	case ComplexityHigh:
		return 2
	case ComplexityMedium:
		return 1
	default:
		return 0
	}
}

type CostBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type CostEstimate struct {
	Junior CostBand `json:"junior"`
	Mid    CostBand `json:"mid"`
	Senior CostBand `json:"senior"`
	Team   CostBand `json:"team"`
}

type TimeEstimate struct {
	Solo string `json:"solo"`
	Team string `json:"team"`
}

type RepositorySummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
}

type Statistics struct {
	TotalLines       int             `json:"totalLines"`
	CustomComponents int             `json:"customComponents"`
	Dependencies     int             `json:"dependencies"`
	Complexity       ComplexityLevel `json:"complexity"`
}

// AnalysisStrategy records which path produced the report
type AnalysisStrategy string

const (
	StrategyFull     AnalysisStrategy = "full"
	StrategyFallback AnalysisStrategy = "fallback"
)

// AnalysisReport is the final output of a single analysis
type AnalysisReport struct {
	Repository   RepositorySummary `json:"repository"`
	Statistics   Statistics        `json:"statistics"`
	CostEstimate CostEstimate      `json:"costEstimate"`
	TimeEstimate TimeEstimate      `json:"timeEstimate"`
	TechStack    []string          `json:"techStack"`
	Features     []string          `json:"features"`
	Strategy     AnalysisStrategy  `json:"strategy"`
}
