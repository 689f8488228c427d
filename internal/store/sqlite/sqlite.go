package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/prepwise/prepwise/server/internal/model"
	"github.com/prepwise/prepwise/server/internal/store"
)

// Store implements store.Store on SQLite for the local build target.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (or creates) a SQLite database file and ensures the schema.
func New(path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wires a store onto an existing connection (used by tests and
// the factory).
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Discovery() store.DiscoveryCache { return &discoveryCache{s} }
func (s *Store) Artifacts() store.Artifacts      { return &artifacts{s} }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Discovery cache ---

type discoveryCache struct{ s *Store }

func (c *discoveryCache) Get(ctx context.Context, key string) (*store.CacheEntry, error) {
	row := c.s.db.QueryRowContext(ctx,
		`SELECT CacheKey, Payload, CreatedAt, TTLMinutes FROM DiscoveryCache WHERE CacheKey = ?`, key)
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
		`INSERT INTO DiscoveryCache (CacheKey, Payload, CreatedAt, TTLMinutes) VALUES (?,?,?,?)
         ON CONFLICT(CacheKey) DO UPDATE SET Payload=excluded.Payload, CreatedAt=excluded.CreatedAt, TTLMinutes=excluded.TTLMinutes`,
		key, payload, c.s.now().UTC(), ttlMinutes)
	return err
}

func (c *discoveryCache) Clear(ctx context.Context) error {
	_, err := c.s.db.ExecContext(ctx, `DELETE FROM DiscoveryCache`)
	return err
}

// --- Preparation artifacts ---

type artifacts struct{ s *Store }

func (a *artifacts) Get(ctx context.Context, itemID string) (*model.PreparationArtifact, error) {
	row := a.s.db.QueryRowContext(ctx,
		`SELECT ItemId, SourceKind, Summary, Model, GeneratedAt FROM PrepArtifacts WHERE ItemId = ?`, itemID)
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
		`INSERT INTO PrepArtifacts (ItemId, SourceKind, Summary, Model, GeneratedAt) VALUES (?,?,?,?,?)
         ON CONFLICT(ItemId) DO UPDATE SET SourceKind=excluded.SourceKind, Summary=excluded.Summary, Model=excluded.Model, GeneratedAt=excluded.GeneratedAt`,
		p.ItemID, string(p.SourceKind), p.Summary, p.Model, p.GeneratedAt.UTC())
	return err
}

func (a *artifacts) Clear(ctx context.Context) error {
	_, err := a.s.db.ExecContext(ctx, `DELETE FROM PrepArtifacts`)
	return err
}
