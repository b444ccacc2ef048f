// Package eco holds the static lookup tables behind eco-point and
// environmental-impact accounting. Everything here is a pure function of
// its inputs: no database access, no clock, and explicit fallback defaults
// for values outside the enumerated domains, so the functions are total
// over arbitrary strings.
package eco

import "strings"

// basePoints is the point value of an item before material and condition
// weighting.
const basePoints = 100

// materialWeightPct scales the base points by how resource-intensive the
// material is to produce, as an integer percentage. Integer percentages
// keep round-half-up exact; the float product 1.15 × 0.7 lands just below
// .5 and would round the wrong way.
var materialWeightPct = map[string]int{
	"jeans":     115,
	"denim":     115,
	"cotton":    100,
	"organic":   110,
	"wool":      120,
	"leather":   130,
	"silk":      125,
	"linen":     105,
	"polyester": 80,
	"nylon":     75,
	"acrylic":   70,
	"viscose":   85,
	"blend":     90,
}

// defaultMaterialWeightPct applies to unmapped materials.
const defaultMaterialWeightPct = 100

// conditionPct scales points by how much usable life the garment has left.
var conditionPct = map[string]int{
	"new":      100,
	"like new": 90,
	"good":     70,
	"fair":     50,
	"worn":     30,
}

// defaultConditionPct applies to unmapped conditions.
const defaultConditionPct = 50

// Impact bundles the environmental savings attributed to keeping one
// garment of a category in circulation instead of buying new.
type Impact struct {
	WaterSavedLiters int
	CO2SavedKg       float64
}

// categoryImpact maps garment categories to their savings. Figures follow
// the usual produce-one-garment estimates; unmapped categories fall back to
// defaultImpact.
var categoryImpact = map[string]Impact{
	"jeans":       {WaterSavedLiters: 7000, CO2SavedKg: 8.0},
	"t-shirt":     {WaterSavedLiters: 2500, CO2SavedKg: 2.1},
	"shirt":       {WaterSavedLiters: 2700, CO2SavedKg: 3.0},
	"dress":       {WaterSavedLiters: 4200, CO2SavedKg: 5.5},
	"skirt":       {WaterSavedLiters: 2000, CO2SavedKg: 2.5},
	"sweater":     {WaterSavedLiters: 3500, CO2SavedKg: 6.5},
	"jacket":      {WaterSavedLiters: 5000, CO2SavedKg: 10.0},
	"coat":        {WaterSavedLiters: 6000, CO2SavedKg: 12.0},
	"shoes":       {WaterSavedLiters: 8000, CO2SavedKg: 11.5},
	"accessories": {WaterSavedLiters: 500, CO2SavedKg: 0.8},
}

// defaultImpact applies to unmapped categories.
var defaultImpact = Impact{WaterSavedLiters: 1000, CO2SavedKg: 1.0}

// Points returns the eco-point value of an item given its material and
// condition: base × materialWeight × conditionMultiplier, rounded half up.
// The result is deterministic and identical across repeated calls.
func Points(material, condition string) int {
	wp, ok := materialWeightPct[normalize(material)]
	if !ok {
		wp = defaultMaterialWeightPct
	}
	cp, ok := conditionPct[normalize(condition)]
	if !ok {
		cp = defaultConditionPct
	}
	return (basePoints*wp*cp + 5000) / 10000
}

// ImpactFor returns the water and CO2 savings for a garment category,
// falling back to the default for unmapped values.
func ImpactFor(category string) Impact {
	if imp, ok := categoryImpact[normalize(category)]; ok {
		return imp
	}
	return defaultImpact
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
