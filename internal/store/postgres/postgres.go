package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/prepwise/prepwise/server/internal/model"
	"github.com/prepwise/prepwise/server/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres-backed store on an existing connection.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db, now: time.Now} }

// Store implements store.Store on Postgres for the cloud-dev build target.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func (s *Store) Discovery() store.DiscoveryCache { return &discoveryCache{s} }
func (s *Store) Artifacts() store.Artifacts      { return &artifacts{s} }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap ensures the cache tables exist. Idempotent; safe to run on
// every startup.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS discovery_cache (
            cache_key TEXT PRIMARY KEY,
            payload BYTEA NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            ttl_minutes INTEGER NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS prep_artifacts (
            item_id TEXT PRIMARY KEY,
            source_kind TEXT NOT NULL,
            summary TEXT NOT NULL,
            model TEXT NOT NULL,
            generated_at TIMESTAMPTZ NOT NULL
        )`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// --- Discovery cache ---

type discoveryCache struct{ s *Store }

func (c *discoveryCache) Get(ctx context.Context, key string) (*store.CacheEntry, error) {
	row := c.s.db.QueryRowContext(ctx,
		`SELECT cache_key, payload, created_at, ttl_minutes FROM discovery_cache WHERE cache_key = $1`, key)
	var e store.CacheEntry
	if err := row.Scan(&e.Key, &e.Payload, &e.CreatedAt, &e.TTLMinutes); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if c.s.now().UTC().Sub(e.CreatedAt) > time.Duration(e.TTLMinutes)*time.Minute {
		return nil, nil
	}
	return &e, nil
}

func (c *discoveryCache) Put(ctx context.Context, key string, payload []byte, ttlMinutes int) error {
	_, err := c.s.db.ExecContext(ctx,
		`INSERT INTO discovery_cache (cache_key, payload, created_at, ttl_minutes) VALUES ($1,$2,$3,$4)
         ON CONFLICT (cache_key) DO UPDATE SET payload=EXCLUDED.payload, created_at=EXCLUDED.created_at, ttl_minutes=EXCLUDED.ttl_minutes`,
		key, payload, c.s.now().UTC(), ttlMinutes)
	return err
}

func (c *discoveryCache) Clear(ctx context.Context) error {
	_, err := c.s.db.ExecContext(ctx, `DELETE FROM discovery_cache`)
	return err
}

// --- Preparation artifacts ---

type artifacts struct{ s *Store }

func (a *artifacts) Get(ctx context.Context, itemID string) (*model.PreparationArtifact, error) {
	row := a.s.db.QueryRowContext(ctx,
		`SELECT item_id, source_kind, summary, model, generated_at FROM prep_artifacts WHERE item_id = $1`, itemID)
	var p model.PreparationArtifact
	if err := row.Scan(&p.ItemID, &p.SourceKind, &p.Summary, &p.Model, &p.GeneratedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (a *artifacts) Upsert(ctx context.Context, p *model.PreparationArtifact) error {
	_, err := a.s.db.ExecContext(ctx,
		`INSERT INTO prep_artifacts (item_id, source_kind, summary, model, generated_at) VALUES ($1,$2,$3,$4,$5)
         ON CONFLICT (item_id) DO UPDATE SET source_kind=EXCLUDED.source_kind, summary=EXCLUDED.summary, model=EXCLUDED.model, generated_at=EXCLUDED.generated_at`,
		p.ItemID, string(p.SourceKind), p.Summary, p.Model, p.GeneratedAt.UTC())
	return err
}

func (a *artifacts) Clear(ctx context.Context) error {
	_, err := a.s.db.ExecContext(ctx, `DELETE FROM prep_artifacts`)
	return err
}
