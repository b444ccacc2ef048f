package model

import "time"

// Swap offer statuses. pending is the only state transitions start from;
// accepted, rejected, cancelled and countered are all terminal. A counter
// closes the original offer and opens a fresh pending offer in the opposite
// direction, linked through SupersedesOfferID, so negotiation history is an
// immutable chain.
const (
	OfferPending   = "pending"
	OfferAccepted  = "accepted"
	OfferRejected  = "rejected"
	OfferCancelled = "cancelled"
	OfferCountered = "countered"
)

// SwapOffer represents a proposed exchange as stored in `swap_offers`. The
// offered item set lives in the `swap_offer_items` join table; the single
// requested item is referenced directly.
//
// Fields:
//
//	ID                – primary key identifier.
//	FromUserID        – proposer; owns every offered item.
//	ToUserID          – recipient; owns the requested item.
//	RequestedItemID   – the item the proposer wants.
//	Status            – lifecycle state, see constants above.
//	Message           – optional note to the recipient.
//	SupersedesOfferID – offer this one was countered from (nullable).
//	CreatedAt         – creation timestamp.
//	UpdatedAt         – last update timestamp.
type SwapOffer struct {
	ID                uint64    // swap_offers.id
	FromUserID        uint64    // swap_offers.from_user_id
	ToUserID          uint64    // swap_offers.to_user_id
	RequestedItemID   uint64    // swap_offers.requested_item_id
	Status            string    // swap_offers.status
	Message           string    // swap_offers.message
	SupersedesOfferID *uint64   // swap_offers.supersedes_offer_id (nullable)
	CreatedAt         time.Time // swap_offers.created_at
	UpdatedAt         time.Time // swap_offers.updated_at

	OfferedItemIDs []uint64 // from swap_offer_items, populated by the repository
}
