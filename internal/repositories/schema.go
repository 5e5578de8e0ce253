package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent. Contestant row changes are published on the
// row_changes channel for the realtime hub.
const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_sign_in_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS contests (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	start_date TIMESTAMPTZ NOT NULL,
	end_date TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL DEFAULT 'upcoming' CHECK (status IN ('active', 'finished', 'upcoming')),
	winner_id UUID,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS contestants (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	contest_id UUID NOT NULL REFERENCES contests(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	bio TEXT NOT NULL DEFAULT '',
	photo_url TEXT NOT NULL DEFAULT '',
	soundcloud_url TEXT NOT NULL DEFAULT '',
	instagram_url TEXT NOT NULL DEFAULT '',
	total_votes BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS contestants_total_votes_idx ON contestants (total_votes DESC);

CREATE TABLE IF NOT EXISTS votes (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	contest_id UUID NOT NULL REFERENCES contests(id) ON DELETE CASCADE,
	contestant_id UUID NOT NULL REFERENCES contestants(id) ON DELETE CASCADE,
	voted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	ip_address TEXT NOT NULL DEFAULT '',
	UNIQUE (user_id, contest_id)
);

CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	date TIMESTAMPTZ NOT NULL,
	start_time TEXT NOT NULL DEFAULT '',
	end_time TEXT NOT NULL DEFAULT '',
	venue TEXT NOT NULL,
	city TEXT NOT NULL,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	lineup TEXT[] NOT NULL DEFAULT '{}',
	status TEXT NOT NULL DEFAULT 'upcoming' CHECK (status IN ('upcoming', 'past')),
	description TEXT NOT NULL DEFAULT '',
	flyer_url TEXT NOT NULL DEFAULT '',
	ticket_link TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS media (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	url TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('photo', 'video')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
	images TEXT[] NOT NULL DEFAULT '{}',
	category TEXT NOT NULL DEFAULT '',
	inventory JSONB NOT NULL DEFAULT '{}',
	active BOOLEAN NOT NULL DEFAULT TRUE,
	stripe_product_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE OR REPLACE FUNCTION increment_vote(contestant_id UUID) RETURNS VOID AS $$
	UPDATE contestants SET total_votes = total_votes + 1 WHERE id = contestant_id;
$$ LANGUAGE SQL;

CREATE OR REPLACE FUNCTION contestant_change_record(c contestants) RETURNS JSON AS $$
	SELECT json_build_object(
		'id', c.id,
		'contest_id', c.contest_id,
		'name', left(c.name, 200),
		'photo_url', CASE WHEN octet_length(to_json(c.photo_url)::TEXT) <= 2048 THEN c.photo_url ELSE '' END,
		'total_votes', c.total_votes
	);
$$ LANGUAGE SQL IMMUTABLE;

-- pg_notify rejects payloads of 8000 bytes or more. Records carry only the
-- leaderboard fields, bounded above, and deletes only the id.
CREATE OR REPLACE FUNCTION notify_row_change() RETURNS TRIGGER AS $$
DECLARE
	payload JSON;
BEGIN
	payload := json_build_object(
		'table', TG_TABLE_NAME,
		'type', TG_OP,
		'record', CASE WHEN TG_OP = 'DELETE' THEN NULL ELSE contestant_change_record(NEW) END,
		'old_record', CASE WHEN TG_OP = 'INSERT' THEN NULL ELSE json_build_object('id', OLD.id) END
	);
	PERFORM pg_notify('row_changes', payload::TEXT);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS contestants_row_change ON contestants;
CREATE TRIGGER contestants_row_change
	AFTER INSERT OR UPDATE OR DELETE ON contestants
	FOR EACH ROW EXECUTE FUNCTION notify_row_change();
`

// Migrate creates the tables, functions and triggers inside one transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		tx.Rollback()
		return fmt.Errorf("applying schema: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	return nil
}
