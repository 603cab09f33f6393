package estimation

import (
	"fmt"

	"github.com/FlorianRuen/repo-cost-estimator/model"
)

// HourlyRate is a currency range per hour
type HourlyRate struct {
	Min int
	Max int
}

// Policy holds the constants converting repository sizes into hours and costs
// multipliers are percentages so that every computation stays in integers
type Policy struct {
	BytesPerLine        int
	MinimumLines        int
	LinesPerHour        int
	HoursPerComponent   int
	DependenciesPerHour int
	MinimumHours        int
	Multipliers         map[model.ComplexityLevel]int

	Junior HourlyRate
	Mid    HourlyRate
	Senior HourlyRate
	Team   HourlyRate

	SoloHoursPerWeek int
	TeamHoursPerWeek int

	Fallback FallbackPolicy
}

// FallbackPolicy derives a structure from the repository size when the tree cannot be walked
type FallbackPolicy struct {
	LinesPerKB               int
	MinimumLines             int
	LinesPerComponent        int
	MinimumComponents        int
	DependenciesPerComponent int
	MinimumDependencies      int
	HighSizeKB               int
	MediumSizeKB             int
	Multipliers              map[model.ComplexityLevel]int
}

type Estimate struct {
	BaseHours  int
	TotalHours int
	Cost       model.CostEstimate
	Time       model.TimeEstimate
}

func DefaultPolicy() Policy {
	return Policy{
		BytesPerLine:        25,
		MinimumLines:        100,
		LinesPerHour:        100,
		HoursPerComponent:   2,
		DependenciesPerHour: 10,
		MinimumHours:        40,
		Multipliers: map[model.ComplexityLevel]int{
			model.ComplexityHigh:   150,
			model.ComplexityMedium: 130,
			model.ComplexityLow:    100,
		},
		Junior:           HourlyRate{Min: 25, Max: 35},
		Mid:              HourlyRate{Min: 45, Max: 65},
		Senior:           HourlyRate{Min: 75, Max: 100},
		Team:             HourlyRate{Min: 60, Max: 85},
		SoloHoursPerWeek: 40,
		TeamHoursPerWeek: 160,
		Fallback: FallbackPolicy{
			LinesPerKB:               8,
			MinimumLines:             500,
			LinesPerComponent:        300,
			MinimumComponents:        3,
			DependenciesPerComponent: 2,
			MinimumDependencies:      10,
			HighSizeKB:               5000,
			MediumSizeKB:             1000,
			Multipliers: map[model.ComplexityLevel]int{
				model.ComplexityHigh:   160,
				model.ComplexityMedium: 130,
				model.ComplexityLow:    100,
			},
		},
	}
}

// EstimateLines converts the language histogram total into a line count
func (p Policy) EstimateLines(totalBytes int) int {
	return max(totalBytes/p.BytesPerLine, p.MinimumLines)
}

// BaseHours is never lower than MinimumHours
func (p Policy) BaseHours(lines, components, dependencies int) int {
	hours := lines/p.LinesPerHour + p.HoursPerComponent*components + dependencies/p.DependenciesPerHour
	return max(hours, p.MinimumHours)
}

func (p Policy) Estimate(lines, components, dependencies int, complexity model.ComplexityLevel) Estimate {
	return p.fromBaseHours(p.BaseHours(lines, components, dependencies), p.Multipliers[complexity])
}

// EstimateFallback weighs each dependency half an hour and applies the fallback multipliers
func (p Policy) EstimateFallback(lines, components, dependencies int, complexity model.ComplexityLevel) Estimate {
	// floor(lines/100 + 2c + 0.5d) computed on hundredths
	base := (lines + 100*p.HoursPerComponent*components + 50*dependencies) / 100
	return p.fromBaseHours(max(base, p.MinimumHours), p.Fallback.Multipliers[complexity])
}

func (p Policy) fromBaseHours(base int, multiplierPercent int) Estimate {
	if multiplierPercent <= 0 {
		multiplierPercent = 100
	}

	total := base * multiplierPercent / 100

	return Estimate{
		BaseHours:  base,
		TotalHours: total,
		Cost:       p.CostFor(total),
		Time:       p.TimeFor(total),
	}
}

func (p Policy) CostFor(hours int) model.CostEstimate {
	return model.CostEstimate{
		Junior: band(hours, p.Junior),
		Mid:    band(hours, p.Mid),
		Senior: band(hours, p.Senior),
		Team:   band(hours, p.Team),
	}
}

func band(hours int, rate HourlyRate) model.CostBand {
	return model.CostBand{Min: hours * rate.Min, Max: hours * rate.Max}
}

func (p Policy) TimeFor(hours int) model.TimeEstimate {
	return model.TimeEstimate{
		Solo: weeks(hours, p.SoloHoursPerWeek),
		Team: weeks(hours, p.TeamHoursPerWeek),
	}
}

func weeks(hours, hoursPerWeek int) string {
	return fmt.Sprintf("%d weeks", (hours+hoursPerWeek-1)/hoursPerWeek)
}

// FallbackStructure derives lines, components, dependencies and complexity from the size only
func (f FallbackPolicy) FallbackStructure(sizeKB int) (lines, components, dependencies int, complexity model.ComplexityLevel) {
	lines = max(sizeKB*f.LinesPerKB, f.MinimumLines)
	components = max(lines/f.LinesPerComponent, f.MinimumComponents)
	dependencies = max(components*f.DependenciesPerComponent, f.MinimumDependencies)

	switch {
	case sizeKB > f.HighSizeKB:
		complexity = model.ComplexityHigh
	case sizeKB > f.MediumSizeKB:
		complexity = model.ComplexityMedium
	default:
		complexity = model.ComplexityLow
	}

	return lines, components, dependencies, complexity
}
