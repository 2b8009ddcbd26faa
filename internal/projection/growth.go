// Package projection extrapolates historical population counts to a target
// year with a fixed compounding annual growth rate.
package projection

import (
	"fmt"
	"math"
)

// Growth is a compounding-growth model: p × (1 + Rate)^(TargetYear − BaseYear).
type Growth struct {
	Rate       float64
	BaseYear   int
	TargetYear int
}

// Default is the census 2011 → 2025 projection at 1.2% per year.
var Default = Growth{Rate: 0.012, BaseYear: 2011, TargetYear: 2025}

// Years returns the number of compounding periods.
func (g Growth) Years() int { return g.TargetYear - g.BaseYear }

// Factor returns (1 + Rate)^Years.
func (g Growth) Factor() float64 {
	return math.Pow(1+g.Rate, float64(g.Years()))
}

// Project returns the projected count rounded to the nearest integer
// (halves away from zero). A result outside the int64 range is an error.
func (g Growth) Project(base int64) (int64, error) {
	p := math.Round(float64(base) * g.Factor())
	if math.IsNaN(p) || p >= math.MaxInt64 || p < math.MinInt64 {
		return 0, fmt.Errorf("projection: %d at %s does not fit in int64", base, g)
	}
	return int64(p), nil
}

// Validate rejects models that cannot produce a meaningful projection.
func (g Growth) Validate() error {
	if math.IsNaN(g.Rate) || math.IsInf(g.Rate, 0) {
		return fmt.Errorf("projection: rate must be finite, got %v", g.Rate)
	}
	if g.Rate <= -1 {
		return fmt.Errorf("projection: rate %v would zero out or invert the population", g.Rate)
	}
	if g.TargetYear < g.BaseYear {
		return fmt.Errorf("projection: target year %d precedes base year %d", g.TargetYear, g.BaseYear)
	}
	return nil
}

func (g Growth) String() string {
	return fmt.Sprintf("%.2f%%/yr %d→%d", g.Rate*100, g.BaseYear, g.TargetYear)
}
