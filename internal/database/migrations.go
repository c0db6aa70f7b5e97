package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createBookingsTable,
		createBookingsOwnerIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id UUID PRIMARY KEY,
    claim_id UUID NOT NULL,
    theatre VARCHAR(255) NOT NULL,
    movie VARCHAR(255) NOT NULL,
    showtime VARCHAR(20) NOT NULL,
    seats INTEGER[] NOT NULL,
    total_price BIGINT NOT NULL,
    payment_method VARCHAR(50) NOT NULL,
    owner_tag VARCHAR(255) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'CONFIRMED',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('CONFIRMED', 'CANCELLED'))
);`

const createBookingsOwnerIndex = `
CREATE INDEX IF NOT EXISTS bookings_owner_tag_idx ON bookings (owner_tag);`
