package model

import "time"

// Item statuses. An item is listed as available, leaves circulation through
// a completed swap acceptance (swapped), a donation (donated) or a
// soft-removal (removed). Removed items are never hard-deleted while offers
// reference them.
const (
	ItemAvailable = "available"
	ItemSwapped   = "swapped"
	ItemDonated   = "donated"
	ItemRemoved   = "removed"
)

// Item represents a listed garment as stored in the `items` table.
// EcoPointsValue is derived from material and condition at listing time and
// is frozen afterwards, so later table tweaks never change what an existing
// listing is worth.
//
// Fields:
//
//	ID                 – primary key identifier.
//	OwnerID            – user who listed the item.
//	Title              – short listing title.
//	Description        – free-form listing text.
//	Category           – garment category (e.g. Jeans, T-Shirt).
//	Condition          – condition grade (e.g. New, Good, Fair).
//	Size               – label size (e.g. M, 42).
//	Material           – dominant material (e.g. Cotton, Denim).
//	PriceEstimateCents – owner's estimate of the item's value.
//	ImageURL           – reference to the item photo.
//	EcoPointsValue     – points awarded when the item changes hands.
//	Status             – lifecycle state, see constants above.
//	CreatedAt          – creation timestamp.
//	UpdatedAt          – last update timestamp.
type Item struct {
	ID                 uint64    // items.id
	OwnerID            uint64    // items.owner_id
	Title              string    // items.title
	Description        string    // items.description
	Category           string    // items.category
	Condition          string    // items.item_condition
	Size               string    // items.size
	Material           string    // items.material
	PriceEstimateCents uint32    // items.price_estimate_cents
	ImageURL           string    // items.image_url
	EcoPointsValue     int       // items.eco_points_value
	Status             string    // items.status
	CreatedAt          time.Time // items.created_at
	UpdatedAt          time.Time // items.updated_at
}
