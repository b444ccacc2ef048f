package model

import "time"

// EcoImpact is an append-only ledger row in `eco_impact`. One row is
// written per item when a swap completes, or per item on donation (SwapID
// null). Rows are never mutated or deleted in normal operation.
//
// Fields:
//
//	ID               – primary key identifier.
//	UserID           – user credited with the impact (the item's giver).
//	SwapID           – completing swap, null for donations.
//	ItemID           – item that changed hands.
//	PointsAwarded    – eco points credited to the user.
//	WaterSavedLiters – litres of water saved (category table).
//	CO2SavedKg       – kilograms of CO2 saved (category table).
//	CreatedAt        – creation timestamp.
type EcoImpact struct {
	ID               uint64    // eco_impact.id
	UserID           uint64    // eco_impact.user_id
	SwapID           *uint64   // eco_impact.swap_id (nullable)
	ItemID           uint64    // eco_impact.item_id
	PointsAwarded    int       // eco_impact.points_awarded
	WaterSavedLiters int       // eco_impact.water_saved_liters
	CO2SavedKg       float64   // eco_impact.co2_saved_kg
	CreatedAt        time.Time // eco_impact.created_at
}

// UserStats aggregates a user's activity for profile display and badge
// threshold checks. It is recomputed from the ledger and lifecycle tables
// on demand rather than maintained incrementally.
type UserStats struct {
	CompletedSwaps   int     `json:"completed_swaps"`
	ListedItems      int     `json:"listed_items"`
	Donations        int     `json:"donations"`
	EcoPoints        int     `json:"eco_points"`
	WaterSavedLiters int     `json:"water_saved_liters"`
	CO2SavedKg       float64 `json:"co2_saved_kg"`
}
