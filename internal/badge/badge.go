// Package badge defines the ten fixed achievement badges and the threshold
// evaluation over aggregate user stats. Evaluation is pure; persistence and
// notification of awards belong to the caller.
package badge

import "github.com/rewear-hq/rewear/internal/model"

// Badge types. The set is fixed; a user earns each at most once.
const (
	FirstSwap      = "first_swap"
	SwapEnthusiast = "swap_enthusiast"
	SwapMaster     = "swap_master"
	FirstListing   = "first_listing"
	ClosetCurator  = "closet_curator"
	GenerousGiver  = "generous_giver"
	EcoWarrior     = "eco_warrior"
	PlanetSaver    = "planet_saver"
	WaterGuardian  = "water_guardian"
	CarbonCutter   = "carbon_cutter"
)

// Metrics a badge threshold can apply to.
const (
	metricSwaps     = "completed_swaps"
	metricListings  = "listed_items"
	metricDonations = "donations"
	metricPoints    = "eco_points"
	metricWater     = "water_saved_liters"
	metricCO2       = "co2_saved_kg"
)

// Definition describes one badge: the stat it watches and the threshold at
// which it is earned.
type Definition struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Metric      string  `json:"metric"`
	Threshold   float64 `json:"threshold"`
}

// Definitions lists all ten badges in award-display order.
var Definitions = []Definition{
	{FirstSwap, "First Swap", "Complete your first swap.", metricSwaps, 1},
	{SwapEnthusiast, "Swap Enthusiast", "Complete 5 swaps.", metricSwaps, 5},
	{SwapMaster, "Swap Master", "Complete 20 swaps.", metricSwaps, 20},
	{FirstListing, "First Listing", "List your first item.", metricListings, 1},
	{ClosetCurator, "Closet Curator", "List 10 items.", metricListings, 10},
	{GenerousGiver, "Generous Giver", "Donate 5 items.", metricDonations, 5},
	{EcoWarrior, "Eco Warrior", "Earn 1000 eco points.", metricPoints, 1000},
	{PlanetSaver, "Planet Saver", "Earn 5000 eco points.", metricPoints, 5000},
	{WaterGuardian, "Water Guardian", "Save 50000 litres of water.", metricWater, 50000},
	{CarbonCutter, "Carbon Cutter", "Save 100 kg of CO2.", metricCO2, 100},
}

// metricValue extracts the stat a definition watches.
func metricValue(s model.UserStats, metric string) float64 {
	switch metric {
	case metricSwaps:
		return float64(s.CompletedSwaps)
	case metricListings:
		return float64(s.ListedItems)
	case metricDonations:
		return float64(s.Donations)
	case metricPoints:
		return float64(s.EcoPoints)
	case metricWater:
		return float64(s.WaterSavedLiters)
	case metricCO2:
		return s.CO2SavedKg
	}
	return 0
}

// Evaluate returns the definitions a user newly satisfies: threshold met
// and badge not already held. The result preserves definition order so
// award notifications come out stable.
func Evaluate(stats model.UserStats, held map[string]bool) []Definition {
	var earned []Definition
	for _, d := range Definitions {
		if held[d.Type] {
			continue
		}
		if metricValue(stats, d.Metric) >= d.Threshold {
			earned = append(earned, d)
		}
	}
	return earned
}
