package cutsheet

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is the product family a line belongs to. It decides whether
// colour is part of the grouping key and which yardage table applies.
type Category string

const (
	CategoryFabric Category = "FABRIC"
	CategoryKit    Category = "KIT"
	CategoryBundle Category = "BUNDLE"
)

// Categories lists every known category in report order.
var Categories = []Category{CategoryFabric, CategoryKit, CategoryBundle}

// ParseCategory standardizes a raw Brand cell. The second return is false
// for anything outside the closed set.
func ParseCategory(raw string) (Category, bool) {
	return standardizeBrand(cases.Upper(language.Und), raw)
}

// standardizeBrand takes the caser as an argument because a cases.Caser is
// stateful and must not be shared across goroutines.
func standardizeBrand(upper cases.Caser, raw string) (Category, bool) {
	c := Category(strings.TrimSpace(upper.String(raw)))
	switch c {
	case CategoryFabric, CategoryKit, CategoryBundle:
		return c, true
	}
	return c, false
}
