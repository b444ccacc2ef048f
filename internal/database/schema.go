package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// schema is the full MySQL schema. Statements are idempotent so the
// migration can run on every startup. All timestamps are stored in UTC and
// written from application code rather than relying on vendor defaults.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		display_name  VARCHAR(120) NOT NULL DEFAULT '',
		role          VARCHAR(16)  NOT NULL DEFAULT 'USER',
		eco_points    INT          NOT NULL DEFAULT 0,
		created_at    DATETIME     NOT NULL,
		updated_at    DATETIME     NOT NULL,
		UNIQUE KEY uq_users_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL,
		KEY idx_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id                   BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		owner_id             BIGINT UNSIGNED NOT NULL,
		title                VARCHAR(200) NOT NULL,
		description          VARCHAR(2000) NOT NULL DEFAULT '',
		category             VARCHAR(32) NOT NULL,
		item_condition       VARCHAR(32) NOT NULL,
		size                 VARCHAR(16) NOT NULL DEFAULT '',
		material             VARCHAR(32) NOT NULL,
		price_estimate_cents INT UNSIGNED NOT NULL DEFAULT 0,
		image_url            VARCHAR(512) NOT NULL DEFAULT '',
		eco_points_value     INT          NOT NULL,
		status               VARCHAR(16)  NOT NULL DEFAULT 'available',
		created_at           DATETIME     NOT NULL,
		updated_at           DATETIME     NOT NULL,
		KEY idx_items_owner (owner_id),
		KEY idx_items_status (status)
	)`,
	`CREATE TABLE IF NOT EXISTS swap_offers (
		id                  BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		from_user_id        BIGINT UNSIGNED NOT NULL,
		to_user_id          BIGINT UNSIGNED NOT NULL,
		requested_item_id   BIGINT UNSIGNED NOT NULL,
		status              VARCHAR(16) NOT NULL DEFAULT 'pending',
		message             VARCHAR(500) NOT NULL DEFAULT '',
		supersedes_offer_id BIGINT UNSIGNED NULL,
		created_at          DATETIME NOT NULL,
		updated_at          DATETIME NOT NULL,
		KEY idx_swap_offers_from (from_user_id, status),
		KEY idx_swap_offers_to (to_user_id, status),
		KEY idx_swap_offers_requested (requested_item_id, status)
	)`,
	`CREATE TABLE IF NOT EXISTS swap_offer_items (
		id       BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		offer_id BIGINT UNSIGNED NOT NULL,
		item_id  BIGINT UNSIGNED NOT NULL,
		KEY idx_swap_offer_items_offer (offer_id)
	)`,
	`CREATE TABLE IF NOT EXISTS swaps (
		id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		offer_id     BIGINT UNSIGNED NOT NULL,
		reference    CHAR(36) NOT NULL,
		from_user_id BIGINT UNSIGNED NOT NULL,
		to_user_id   BIGINT UNSIGNED NOT NULL,
		status       VARCHAR(16) NOT NULL DEFAULT 'in_progress',
		completed_at DATETIME NULL,
		created_at   DATETIME NOT NULL,
		updated_at   DATETIME NOT NULL,
		UNIQUE KEY uq_swaps_offer (offer_id),
		KEY idx_swaps_from (from_user_id),
		KEY idx_swaps_to (to_user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS swap_items (
		id      BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		swap_id BIGINT UNSIGNED NOT NULL,
		item_id BIGINT UNSIGNED NOT NULL,
		side    VARCHAR(4) NOT NULL,
		KEY idx_swap_items_swap (swap_id),
		KEY idx_swap_items_item (item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS eco_impact (
		id                 BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		user_id            BIGINT UNSIGNED NOT NULL,
		swap_id            BIGINT UNSIGNED NULL,
		item_id            BIGINT UNSIGNED NOT NULL,
		points_awarded     INT    NOT NULL,
		water_saved_liters INT    NOT NULL,
		co2_saved_kg       DOUBLE NOT NULL,
		created_at         DATETIME NOT NULL,
		KEY idx_eco_impact_user (user_id),
		KEY idx_eco_impact_swap (swap_id)
	)`,
	`CREATE TABLE IF NOT EXISTS badges (
		id         BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		badge_type VARCHAR(32) NOT NULL,
		awarded_at DATETIME NOT NULL,
		UNIQUE KEY uq_badges_user_type (user_id, badge_type)
	)`,
	`CREATE TABLE IF NOT EXISTS rewards (
		id          BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		partner     VARCHAR(120) NOT NULL,
		title       VARCHAR(200) NOT NULL,
		description VARCHAR(1000) NOT NULL DEFAULT '',
		cost_points INT NOT NULL,
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reward_redemptions (
		id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		reward_id    BIGINT UNSIGNED NOT NULL,
		user_id      BIGINT UNSIGNED NOT NULL,
		points_spent INT NOT NULL,
		created_at   DATETIME NOT NULL,
		KEY idx_reward_redemptions_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		ntype      VARCHAR(32) NOT NULL,
		message    VARCHAR(500) NOT NULL,
		is_read    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL,
		KEY idx_notifications_user (user_id, is_read)
	)`,
}

// EnsureSchema applies the schema to the database. It is safe to call on
// every startup.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// EnsureAdmin creates the admin account when it does not exist yet. The
// credentials come from configuration; when either value is empty the seed
// is skipped. This replaces any runtime "ensure admin" logic: the account
// exists before the server accepts requests.
func EnsureAdmin(ctx context.Context, db *sql.DB, email, password string, bcryptCost int) error {
	if email == "" || password == "" {
		return nil
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return fmt.Errorf("checking admin account: %w", err)
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	now := time.Now().UTC()
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, display_name, role, eco_points, created_at, updated_at)
		 VALUES (?, ?, ?, 'ADMIN', 0, ?, ?)`,
		email, string(hash), "Administrator", now, now)
	if err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}
	return nil
}

// SeedRewards inserts the default partner reward catalog when the rewards
// table is empty. Admins can extend the catalog at runtime.
func SeedRewards(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rewards`).Scan(&n); err != nil {
		return fmt.Errorf("checking reward catalog: %w", err)
	}
	if n > 0 {
		return nil
	}
	defaults := []struct {
		partner, title, description string
		cost                        int
	}{
		{"GreenThread", "10% off sustainable basics", "Single-use discount code for the GreenThread web store.", 250},
		{"LoopWash", "Free eco laundry voucher", "One free wash at any participating LoopWash location.", 400},
		{"ReWear", "Priority listing boost", "Pin one of your items to the top of browse for a week.", 150},
		{"TreeFund", "Plant a tree", "We donate one tree planting on your behalf.", 500},
	}
	now := time.Now().UTC()
	for _, r := range defaults {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO rewards (partner, title, description, cost_points, is_active, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.partner, r.title, r.description, r.cost, true, now); err != nil {
			return fmt.Errorf("seeding reward catalog: %w", err)
		}
	}
	return nil
}
