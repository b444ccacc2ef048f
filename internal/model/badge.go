package model

import "time"

// Badge records a single achievement award in `badges`. A user holds at
// most one badge per type; rows are created once and never updated.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – holder of the badge.
//	BadgeType – one of the ten fixed badge types (see internal/badge).
//	AwardedAt – when the badge was earned.
type Badge struct {
	ID        uint64    // badges.id
	UserID    uint64    // badges.user_id
	BadgeType string    // badges.badge_type
	AwardedAt time.Time // badges.awarded_at
}
