package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS abi_snapshots (
	id             BIGSERIAL PRIMARY KEY,
	timestamp      TIMESTAMPTZ NOT NULL,
	name           TEXT        NOT NULL,
	symbol         TEXT        NOT NULL,
	source         TEXT        NOT NULL,
	content_hash   TEXT        NOT NULL,
	fragment_count INTEGER     NOT NULL,
	abi_json       JSONB       NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS abi_snapshots_name_ts_idx
	ON abi_snapshots (name, timestamp DESC);
`

// EnsureSchema creates the snapshot table if it does not exist.
func EnsureSchema(ctx context.Context, p *pgxpool.Pool) error {
	if _, err := p.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
