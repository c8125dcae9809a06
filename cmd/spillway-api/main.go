// @title         Spillway API
// @version       0.1.0
// @description   Multi-tenant intake and query service for overflow application logs

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spillway/internal/modkit/repokit"
	"spillway/internal/platform/config"
	"spillway/internal/platform/logger"
	phttp "spillway/internal/platform/net/http"
	"spillway/internal/platform/store"

	"spillway/internal/services/api"
)

func main() {
	// root config carries the domain keys; HTTP knobs live under CORE_API_*
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	dbCfg := root.Prefix("DB_")

	// bring up logging early
	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "spillway-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         dbCfg.MustString("URL"),
				MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 8)),
				SlowQueryMs: dbCfg.MayInt("SLOW_MS", 200),
				LogSQL:      dbCfg.MayBool("LOG_SQL", false),
				Migrate:     dbCfg.MayBool("MIGRATE", true),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// refuse to serve without a healthy pool
	repokit.MustGuard(context.Background(), st)

	// http server (reads CORE_API_HTTP_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PPROF", false),
		},
	)

	// serve until a signal lands, then drain in-flight requests
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			l.Panic().Err(err).Msg("http server stopped")
		}
	case <-ctx.Done():
		grace := root.MayDuration("SHUTDOWN_GRACE", 10*time.Second)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("graceful shutdown failed")
		}
		<-errCh
	}
}
