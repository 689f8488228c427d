// Package prepservice wires the discovery service together and runs the
// HTTP server.
package prepservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/prepwise/prepwise/server/internal/api"
	"github.com/prepwise/prepwise/server/internal/api/recovery"
	"github.com/prepwise/prepwise/server/internal/config"
	"github.com/prepwise/prepwise/server/internal/discovery"
	"github.com/prepwise/prepwise/server/internal/factory"
	"github.com/prepwise/prepwise/server/internal/graph"
	"github.com/prepwise/prepwise/server/internal/health"
	"github.com/prepwise/prepwise/server/internal/logger"
	"github.com/prepwise/prepwise/server/internal/oracle"
	"github.com/prepwise/prepwise/server/internal/prep"
	storepkg "github.com/prepwise/prepwise/server/internal/store"
)

// Run starts the prep service HTTP server and blocks until shutdown or
// error.
func Run() error {
	log := logger.New("prep-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("store_driver", cfg.StoreDriver).
		Int("http_port", cfg.HTTPPort).
		Str("graph_base_url", cfg.GraphBaseURL).
		Str("oracle_base_url", cfg.OracleBaseURL).
		Str("oracle_model", cfg.OracleModel).
		Msg("Prep service starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}

	graphClient := graph.New(cfg.GraphBaseURL, cfg.GraphToken, time.Duration(cfg.GraphTimeoutSeconds)*time.Second)
	oracleClient := oracle.New(cfg.OracleBaseURL, cfg.OracleModel, time.Duration(cfg.OracleTimeoutSeconds)*time.Second)

	discoverySvc := discovery.NewService(graphClient, oracleClient, st, discovery.Options{
		TTLMinutes:   cfg.DiscoveryTTLMinutes,
		LookbackDays: cfg.LookbackDays,
		FetchLimit:   cfg.FetchLimit,
	})
	prepSvc := prep.NewService(graphClient, oracleClient, st)

	router := buildRouter(st, discoverySvc, prepSvc)

	startHealthCheckers(ctx, cfg, log, st, graphClient, oracleClient)

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(st storepkg.Store, discoverySvc *discovery.Service, prepSvc *prep.Service) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	discoveryHandler := api.NewDiscoveryHandler(discoverySvc)
	root.HandleFunc("/api/discovery", discoveryHandler.HandleDiscovery).Methods("GET")
	root.HandleFunc("/api/cache/discovery", discoveryHandler.HandleClearCache).Methods("DELETE")

	prepHandler := api.NewPrepHandler(prepSvc)
	root.HandleFunc("/api/prep", prepHandler.HandleGenerateBrief).Methods("POST")
	root.HandleFunc("/api/cache/artifacts", prepHandler.HandleClearArtifacts).Methods("DELETE")

	healthHandler := api.NewHealthHandler(storePinger(st))
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	root.HandleFunc("/api/health/store", healthHandler.CheckStoreHealth).Methods("GET")

	return root
}

// startHealthCheckers starts component checkers and the service aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st storepkg.Store, graphClient *graph.Client, oracleClient *oracle.Client) {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	checkers := []health.HealthChecker{
		health.NewPingChecker("store", storePinger(st), log, probeTimeout),
		health.NewPingChecker("graph", graphClient, log, probeTimeout),
		health.NewPingChecker("oracle", oracleClient, log, probeTimeout),
	}
	for _, c := range checkers {
		go c.Start(ctx, interval)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
}

// storePinger adapts a store to the HealthPinger interface.
func storePinger(st storepkg.Store) health.HealthPinger {
	if p, ok := st.(health.HealthPinger); ok {
		return p
	}
	return pingFunc(func(ctx context.Context) error { return fmt.Errorf("store exposes no health probe") })
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) HealthPing(ctx context.Context) error { return f(ctx) }
