package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		user_type     TEXT NOT NULL CHECK (user_type IN ('store', 'assembler')),
		display_name  TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT '',
		phone         TEXT NOT NULL DEFAULT '',
		profile_data  JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_idx ON users (LOWER(username))`,
	`CREATE TABLE IF NOT EXISTS services (
		id                    BIGSERIAL PRIMARY KEY,
		requester_id          BIGINT NOT NULL REFERENCES users (id),
		provider_id           BIGINT REFERENCES users (id),
		title                 TEXT NOT NULL,
		description           TEXT NOT NULL DEFAULT '',
		location              TEXT NOT NULL DEFAULT '',
		price                 NUMERIC(12, 2) NOT NULL DEFAULT 0,
		material_type         TEXT NOT NULL DEFAULT '',
		start_date            TIMESTAMPTZ NOT NULL,
		end_date              TIMESTAMPTZ,
		status                TEXT NOT NULL DEFAULT 'open'
			CHECK (status IN ('open', 'in_progress', 'completed', 'cancelled')),
		payment_status        TEXT NOT NULL DEFAULT 'pending'
			CHECK (payment_status IN ('pending', 'proof_submitted', 'confirmed', 'rejected')),
		rating_required       BOOLEAN NOT NULL DEFAULT FALSE,
		requester_rating_done BOOLEAN NOT NULL DEFAULT FALSE,
		provider_rating_done  BOOLEAN NOT NULL DEFAULT FALSE,
		both_ratings_done     BOOLEAN GENERATED ALWAYS AS (requester_rating_done AND provider_rating_done) STORED,
		completed_at          TIMESTAMPTZ,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT services_completed_at_chk CHECK ((status = 'completed') = (completed_at IS NOT NULL)),
		CONSTRAINT services_paid_before_completion_chk CHECK (status <> 'completed' OR payment_status = 'confirmed'),
		CONSTRAINT services_provider_assigned_chk CHECK (status = 'open' OR status = 'cancelled' OR provider_id IS NOT NULL)
	)`,
	`CREATE INDEX IF NOT EXISTS services_status_material_idx ON services (status, LOWER(material_type))`,
	`CREATE TABLE IF NOT EXISTS applications (
		id          BIGSERIAL PRIMARY KEY,
		service_id  BIGINT NOT NULL REFERENCES services (id),
		provider_id BIGINT NOT NULL REFERENCES users (id),
		status      TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected')),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS applications_one_pending_idx
		ON applications (service_id, provider_id) WHERE status = 'pending'`,
	`CREATE TABLE IF NOT EXISTS messages (
		id           BIGSERIAL PRIMARY KEY,
		service_id   BIGINT NOT NULL REFERENCES services (id),
		sender_id    BIGINT NOT NULL REFERENCES users (id),
		message_type TEXT NOT NULL DEFAULT 'text'
			CHECK (message_type IN ('text', 'payment_proof', 'payment_confirmation')),
		content      TEXT NOT NULL DEFAULT '',
		attachment   JSONB NOT NULL DEFAULT '{}'::jsonb,
		sent_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS messages_service_sent_idx ON messages (service_id, sent_at)`,
	`CREATE TABLE IF NOT EXISTS message_reads (
		message_id BIGINT NOT NULL REFERENCES messages (id),
		user_id    BIGINT NOT NULL REFERENCES users (id),
		read_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (message_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id           BIGSERIAL PRIMARY KEY,
		service_id   BIGINT NOT NULL REFERENCES services (id),
		from_user_id BIGINT NOT NULL REFERENCES users (id),
		to_user_id   BIGINT NOT NULL REFERENCES users (id),
		from_role    TEXT NOT NULL CHECK (from_role IN ('store', 'assembler')),
		to_role      TEXT NOT NULL CHECK (to_role IN ('store', 'assembler')),
		score        SMALLINT NOT NULL CHECK (score BETWEEN 1 AND 5),
		punctuality  SMALLINT NOT NULL DEFAULT 5 CHECK (punctuality BETWEEN 1 AND 5),
		quality      SMALLINT NOT NULL DEFAULT 5 CHECK (quality BETWEEN 1 AND 5),
		compliance   SMALLINT NOT NULL DEFAULT 5 CHECK (compliance BETWEEN 1 AND 5),
		comment      TEXT NOT NULL DEFAULT '',
		is_latest    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT ratings_one_per_side UNIQUE (service_id, from_role)
	)`,
	`CREATE INDEX IF NOT EXISTS ratings_to_user_latest_idx ON ratings (to_user_id) WHERE is_latest`,
}

// Apply runs the schema statements against db.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Migrate applies the schema through a database/sql handle over the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return Apply(ctx, db)
}
