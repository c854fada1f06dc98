package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id              BIGSERIAL PRIMARY KEY,
		title           VARCHAR(255) NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		price_per_night NUMERIC(10, 2) NOT NULL,
		location        VARCHAR(255) NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         BIGSERIAL PRIMARY KEY,
		listing_id BIGINT NOT NULL REFERENCES listings (id) ON DELETE CASCADE,
		"user"     VARCHAR(255) NOT NULL,
		start_date DATE NOT NULL,
		end_date   DATE NOT NULL,
		status     VARCHAR(16) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id         BIGSERIAL PRIMARY KEY,
		listing_id BIGINT NOT NULL REFERENCES listings (id) ON DELETE CASCADE,
		"user"     VARCHAR(255) NOT NULL,
		rating     SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id                      BIGSERIAL PRIMARY KEY,
		booking_id              BIGINT NOT NULL REFERENCES bookings (id) ON DELETE CASCADE,
		tx_ref                  VARCHAR(128) NOT NULL UNIQUE,
		chapa_reference         VARCHAR(128) NOT NULL DEFAULT '',
		amount                  NUMERIC(10, 2) NOT NULL,
		currency                VARCHAR(8) NOT NULL DEFAULT 'ETB',
		customer_email          VARCHAR(254) NOT NULL DEFAULT '',
		customer_name           VARCHAR(255) NOT NULL DEFAULT '',
		status                  VARCHAR(16) NOT NULL DEFAULT 'pending',
		checkout_url            TEXT NOT NULL DEFAULT '',
		raw_initialize_response JSONB,
		raw_verify_response     JSONB,
		created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_listing_id ON bookings (listing_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_listing_id ON reviews (listing_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_booking_id ON payments (booking_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_payments_booking_success ON payments (booking_id) WHERE status = 'success'`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
