// Package queue defines the notification events exchanged over the message
// broker, the publisher that emits them and the background consumer that
// turns them into an audit log.
package queue

// NotificationEvent is published whenever the platform notifies a user:
// offer received, offer responded to, swap completed, badge awarded or
// reward redeemed. It carries enough for downstream consumers to log or
// fan out without querying the primary database.
type NotificationEvent struct {
	NotificationID uint64 `json:"notification_id"`
	UserID         uint64 `json:"user_id"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	OfferID        uint64 `json:"offer_id,omitempty"`
	SwapID         uint64 `json:"swap_id,omitempty"`
	BadgeType      string `json:"badge_type,omitempty"`
	RewardID       uint64 `json:"reward_id,omitempty"`
	CreatedAt      string `json:"created_at"`
}
