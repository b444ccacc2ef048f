package model

import "time"

// Notification types emitted by the swap lifecycle and its satellites.
const (
	NotifySwapOffer      = "swap_offer"
	NotifySwapResponse   = "swap_response"
	NotifySwapCompleted  = "swap_completed"
	NotifyBadgeAwarded   = "badge_awarded"
	NotifyRewardRedeemed = "reward_redeemed"
)

// Notification is a row in `notifications`. Rows are written synchronously
// by the lifecycle handlers; the message broker carries a copy for
// downstream consumers but is never the source of truth.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – recipient of the notification.
//	Type      – one of the Notify* constants.
//	Message   – human-readable text shown in the frontend.
//	IsRead    – whether the user has seen it.
//	CreatedAt – creation timestamp.
type Notification struct {
	ID        uint64    // notifications.id
	UserID    uint64    // notifications.user_id
	Type      string    // notifications.ntype
	Message   string    // notifications.message
	IsRead    bool      // notifications.is_read
	CreatedAt time.Time // notifications.created_at
}
