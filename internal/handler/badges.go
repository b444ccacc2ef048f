package handler

import (
	"context"
	"log"

	"github.com/rewear-hq/rewear/internal/badge"
	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/queue"
	"github.com/rewear-hq/rewear/internal/repository"
)

// awardNewBadges re-evaluates a user's thresholds after a stat-changing
// operation and awards whatever is newly earned. Runs after the domain
// transaction committed; failures are logged, never surfaced, and the next
// evaluation catches anything missed.
func awardNewBadges(ctx context.Context, eco *repository.EcoRepo, badges *repository.BadgeRepo, notifs *repository.NotificationRepo, userID uint64) {
	stats, err := eco.StatsForUser(ctx, userID)
	if err != nil {
		log.Printf("badges: stats for user %d failed: %v", userID, err)
		return
	}
	held, err := badges.HeldTypes(ctx, userID)
	if err != nil {
		log.Printf("badges: held types for user %d failed: %v", userID, err)
		return
	}
	for _, def := range badge.Evaluate(stats, held) {
		if _, err := badges.Award(ctx, userID, def.Type); err != nil {
			if err != repository.ErrConflict {
				log.Printf("badges: award %s to user %d failed: %v", def.Type, userID, err)
			}
			continue
		}
		notify(ctx, notifs, userID, model.NotifyBadgeAwarded,
			"You earned the "+def.Name+" badge",
			queue.NotificationEvent{BadgeType: def.Type})
	}
}
