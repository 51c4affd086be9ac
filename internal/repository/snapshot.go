package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kjannette/fourmeme-abis/internal/models"
)

const snapshotColumns = `id, timestamp, name, symbol, source, content_hash, fragment_count, abi_json, created_at`

type SnapshotRepo struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepo(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

func (r *SnapshotRepo) Record(ctx context.Context, s *models.ABISnapshot) (*models.ABISnapshot, error) {
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	body := s.ABIJSON
	if len(body) == 0 {
		body = []byte("[]")
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO abi_snapshots
		 (timestamp, name, symbol, source, content_hash, fragment_count, abi_json)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+snapshotColumns,
		ts, s.Name, s.Symbol, s.Source, s.ContentHash, s.FragmentCount, string(body),
	)
	return scanSnapshot(row)
}

// GetLatest returns the newest snapshot for name, or nil if none exists.
func (r *SnapshotRepo) GetLatest(ctx context.Context, name string) (*models.ABISnapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM abi_snapshots
		 WHERE name = $1 ORDER BY timestamp DESC, id DESC LIMIT 1`,
		name,
	)
	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *SnapshotRepo) GetHistory(ctx context.Context, name string, limit int) ([]models.ABISnapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+` FROM abi_snapshots
		 WHERE name = $1 ORDER BY timestamp DESC, id DESC LIMIT $2`,
		name, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSnapshots(rows)
}

// LatestHashes returns the newest content hash recorded for each name.
func (r *SnapshotRepo) LatestHashes(ctx context.Context) (map[string]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT ON (name) name, content_hash FROM abi_snapshots
		 ORDER BY name, timestamp DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, hash string
		if err := rows.Scan(&name, &hash); err != nil {
			return nil, err
		}
		out[name] = hash
	}
	return out, rows.Err()
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSnapshot(row scannable) (*models.ABISnapshot, error) {
	var s models.ABISnapshot
	var body []byte
	err := row.Scan(
		&s.ID, &s.Timestamp, &s.Name, &s.Symbol, &s.Source,
		&s.ContentHash, &s.FragmentCount, &body, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.ABIJSON = body
	return &s, nil
}

func collectSnapshots(rows rowsIter) ([]models.ABISnapshot, error) {
	var out []models.ABISnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
