package database

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// testSchema mirrors the MySQL schema for an in-memory SQLite database.
// Repository SQL sticks to the portable subset (? placeholders, no vendor
// functions in DML, timestamps bound from Go), so the same queries run
// against both engines.
var testSchema = []string{
	`CREATE TABLE users (
		id            INTEGER PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		display_name  TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL DEFAULT 'USER',
		eco_points    INTEGER NOT NULL DEFAULT 0,
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE refresh_tokens (
		id         INTEGER PRIMARY KEY,
		user_id    INTEGER NOT NULL,
		token_hash TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE items (
		id                   INTEGER PRIMARY KEY,
		owner_id             INTEGER NOT NULL,
		title                TEXT NOT NULL,
		description          TEXT NOT NULL DEFAULT '',
		category             TEXT NOT NULL,
		item_condition       TEXT NOT NULL,
		size                 TEXT NOT NULL DEFAULT '',
		material             TEXT NOT NULL,
		price_estimate_cents INTEGER NOT NULL DEFAULT 0,
		image_url            TEXT NOT NULL DEFAULT '',
		eco_points_value     INTEGER NOT NULL,
		status               TEXT NOT NULL DEFAULT 'available',
		created_at           DATETIME NOT NULL,
		updated_at           DATETIME NOT NULL
	)`,
	`CREATE TABLE swap_offers (
		id                  INTEGER PRIMARY KEY,
		from_user_id        INTEGER NOT NULL,
		to_user_id          INTEGER NOT NULL,
		requested_item_id   INTEGER NOT NULL,
		status              TEXT NOT NULL DEFAULT 'pending',
		message             TEXT NOT NULL DEFAULT '',
		supersedes_offer_id INTEGER,
		created_at          DATETIME NOT NULL,
		updated_at          DATETIME NOT NULL
	)`,
	`CREATE TABLE swap_offer_items (
		id       INTEGER PRIMARY KEY,
		offer_id INTEGER NOT NULL,
		item_id  INTEGER NOT NULL
	)`,
	`CREATE TABLE swaps (
		id           INTEGER PRIMARY KEY,
		offer_id     INTEGER NOT NULL UNIQUE,
		reference    TEXT NOT NULL,
		from_user_id INTEGER NOT NULL,
		to_user_id   INTEGER NOT NULL,
		status       TEXT NOT NULL DEFAULT 'in_progress',
		completed_at DATETIME,
		created_at   DATETIME NOT NULL,
		updated_at   DATETIME NOT NULL
	)`,
	`CREATE TABLE swap_items (
		id      INTEGER PRIMARY KEY,
		swap_id INTEGER NOT NULL,
		item_id INTEGER NOT NULL,
		side    TEXT NOT NULL
	)`,
	`CREATE TABLE eco_impact (
		id                 INTEGER PRIMARY KEY,
		user_id            INTEGER NOT NULL,
		swap_id            INTEGER,
		item_id            INTEGER NOT NULL,
		points_awarded     INTEGER NOT NULL,
		water_saved_liters INTEGER NOT NULL,
		co2_saved_kg       REAL NOT NULL,
		created_at         DATETIME NOT NULL
	)`,
	`CREATE TABLE badges (
		id         INTEGER PRIMARY KEY,
		user_id    INTEGER NOT NULL,
		badge_type TEXT NOT NULL,
		awarded_at DATETIME NOT NULL,
		UNIQUE (user_id, badge_type)
	)`,
	`CREATE TABLE rewards (
		id          INTEGER PRIMARY KEY,
		partner     TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		cost_points INTEGER NOT NULL,
		is_active   BOOLEAN NOT NULL DEFAULT 1,
		created_at  DATETIME NOT NULL
	)`,
	`CREATE TABLE reward_redemptions (
		id           INTEGER PRIMARY KEY,
		reward_id    INTEGER NOT NULL,
		user_id      INTEGER NOT NULL,
		points_spent INTEGER NOT NULL,
		created_at   DATETIME NOT NULL
	)`,
	`CREATE TABLE notifications (
		id         INTEGER PRIMARY KEY,
		user_id    INTEGER NOT NULL,
		ntype      TEXT NOT NULL,
		message    TEXT NOT NULL,
		is_read    BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
}

// NewTestDB creates a fresh in-memory SQLite database with the schema
// applied. A single connection is pinned so every statement sees the same
// in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		t.Fatalf("enabling foreign keys: %v", err)
	}
	for _, stmt := range testSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			t.Fatalf("creating test schema: %v", err)
		}
	}

	t.Cleanup(func() { db.Close() })

	return db
}
