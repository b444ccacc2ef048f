package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/config"
	"github.com/rewear-hq/rewear/internal/database"
	"github.com/rewear-hq/rewear/internal/handler"
	"github.com/rewear-hq/rewear/internal/middleware"
	"github.com/rewear-hq/rewear/internal/queue"
	"github.com/rewear-hq/rewear/internal/repository"
	"github.com/rewear-hq/rewear/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	if err := database.EnsureAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		log.Fatalf("admin seed: %v", err)
	}
	if err := database.SeedRewards(ctx, db); err != nil {
		log.Fatalf("reward seed: %v", err)
	}

	// Redis is optional: cache and rate limiter degrade to no-ops without it.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	items := repository.NewItemRepo(db)
	offers := repository.NewOfferRepo(db)
	swaps := repository.NewSwapRepo(db)
	ecoRepo := repository.NewEcoRepo(db)
	badges := repository.NewBadgeRepo(db)
	notifs := repository.NewNotificationRepo(db)
	rewards := repository.NewRewardRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	itemH := handler.NewItemHandler(items, users, ecoRepo, badges, notifs)
	offerH := handler.NewOfferHandler(offers, items, swaps, notifs)
	swapH := handler.NewSwapHandler(swaps, items, users, ecoRepo, badges, notifs)
	profileH := handler.NewProfileHandler(ecoRepo, badges)
	notifH := handler.NewNotificationHandler(notifs)
	rewardH := handler.NewRewardHandler(rewards, users, notifs)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterCatalog(e, itemH, cfg.JWTSecret, cache)
	router.RegisterSwaps(e, offerH, swapH, cfg.JWTSecret)
	router.RegisterEngagement(e, profileH, notifH, rewardH, cfg.JWTSecret)
	router.RegisterAdmin(e, rewardH, notifH, cfg.JWTSecret)

	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
