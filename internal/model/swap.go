package model

import "time"

// Swap statuses. A swap starts in_progress when its offer is accepted and
// ends completed (awards eco impact) or cancelled (restores the items).
const (
	SwapInProgress = "in_progress"
	SwapCompleted  = "completed"
	SwapCancelled  = "cancelled"
)

// Sides of a swap_items row: FROM items were offered by the proposer, the
// TO item was the requested one.
const (
	SwapSideFrom = "FROM"
	SwapSideTo   = "TO"
)

// Swap represents an in-flight exchange as stored in `swaps`. It is created
// only as a side effect of offer acceptance, in the same transaction that
// flips the items to swapped.
//
// Fields:
//
//	ID          – primary key identifier.
//	OfferID     – the accepted offer that spawned this swap.
//	Reference   – external reference code shown to both parties.
//	FromUserID  – proposer of the originating offer.
//	ToUserID    – recipient of the originating offer.
//	Status      – lifecycle state, see constants above.
//	CompletedAt – when the swap completed (null until then).
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Swap struct {
	ID          uint64     // swaps.id
	OfferID     uint64     // swaps.offer_id
	Reference   string     // swaps.reference
	FromUserID  uint64     // swaps.from_user_id
	ToUserID    uint64     // swaps.to_user_id
	Status      string     // swaps.status
	CompletedAt *time.Time // swaps.completed_at (nullable)
	CreatedAt   time.Time  // swaps.created_at
	UpdatedAt   time.Time  // swaps.updated_at

	FromItemIDs []uint64 // swap_items rows with side FROM
	ToItemID    uint64   // swap_items row with side TO
}
