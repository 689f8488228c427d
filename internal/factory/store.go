package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepwise/prepwise/server/internal/config"
	storepkg "github.com/prepwise/prepwise/server/internal/store"
	storepg "github.com/prepwise/prepwise/server/internal/store/postgres"
	storesqlite "github.com/prepwise/prepwise/server/internal/store/sqlite"
)

// NewStore selects the cache-store backend from cfg.StoreDriver.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		return storesqlite.New(cfg.SQLitePath)
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("PREP_BACKEND_POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		bootstrapCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := storepg.Bootstrap(bootstrapCtx, db); err != nil {
			log.Warn().Err(err).Msg("store bootstrap failed")
			_ = db.Close()
			return nil, err
		}
		return storepg.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.StoreDriver)
	}
}
