package model

import "time"

// Reward is a partner reward catalog entry in `rewards`. Inactive rewards
// stay in the table so existing redemptions keep their reference.
//
// Fields:
//
//	ID          – primary key identifier.
//	Partner     – partner brand offering the reward.
//	Title       – short reward title.
//	Description – redemption details shown to the user.
//	CostPoints  – eco points required to redeem.
//	IsActive    – whether the reward can currently be redeemed.
//	CreatedAt   – creation timestamp.
type Reward struct {
	ID          uint64    // rewards.id
	Partner     string    // rewards.partner
	Title       string    // rewards.title
	Description string    // rewards.description
	CostPoints  int       // rewards.cost_points
	IsActive    bool      // rewards.is_active
	CreatedAt   time.Time // rewards.created_at
}

// RewardRedemption records a spent redemption in `reward_redemptions`.
// PointsSpent snapshots the cost at redemption time.
type RewardRedemption struct {
	ID          uint64    // reward_redemptions.id
	RewardID    uint64    // reward_redemptions.reward_id
	UserID      uint64    // reward_redemptions.user_id
	PointsSpent int       // reward_redemptions.points_spent
	CreatedAt   time.Time // reward_redemptions.created_at
}
