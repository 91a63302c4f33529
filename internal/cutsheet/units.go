package cutsheet

import (
	"math"
	"strconv"
)

// ConversionPolicy turns a quantity of units into yards. Breakpoints are
// looked up first; anything else is UnitYards × q.
type ConversionPolicy struct {
	Name        string            `json:"name"`
	UnitYards   float64           `json:"unit_yards"`
	Breakpoints map[int64]float64 `json:"breakpoints,omitempty"`
}

var (
	// HalfYard covers fabric and kits: one unit is half a yard.
	HalfYard = ConversionPolicy{Name: "half-yard", UnitYards: 0.5}

	// QuarterYard covers bundles. The named cuts currently agree with the
	// quarter-yard formula but are kept as a table so they can diverge.
	QuarterYard = ConversionPolicy{
		Name:      "quarter-yard",
		UnitYards: 0.25,
		Breakpoints: map[int64]float64{
			1: 0.25,
			2: 0.5,
			4: 1.0,
		},
	}
)

var policies = map[Category]ConversionPolicy{
	CategoryFabric: HalfYard,
	CategoryKit:    HalfYard,
	CategoryBundle: QuarterYard,
}

// PolicyFor returns the conversion table for a category. Unknown
// categories fall back to half-yard units.
func PolicyFor(c Category) ConversionPolicy {
	if p, ok := policies[c]; ok {
		return p
	}
	return HalfYard
}

// Length returns the yardage of a q-unit cut.
func (p ConversionPolicy) Length(q int64) float64 {
	if y, ok := p.Breakpoints[q]; ok {
		return y
	}
	return p.UnitYards * float64(q)
}

// FormatYards prints yardage the way cut sheets have always shown it:
// shortest decimal form, with ".0" kept on whole numbers (1.0, 4.0, 0.75).
func FormatYards(y float64) string {
	s := strconv.FormatFloat(y, 'f', -1, 64)
	if y == math.Trunc(y) && !math.IsInf(y, 0) {
		s += ".0"
	}
	return s
}
