// Command spillway-sweep forces one maintenance pass and exits. Operators
// run it when retention must apply now instead of waiting for traffic to
// trip the opportunistic trigger.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"spillway/internal/modkit"
	"spillway/internal/modkit/module"
	"spillway/internal/modkit/repokit"
	"spillway/internal/platform/config"
	"spillway/internal/platform/logger"
	"spillway/internal/platform/store"

	maintdom "spillway/internal/services/maintenance/domain"
	maintmod "spillway/internal/services/maintenance/module"
)

func main() {
	root := config.New()
	dbCfg := root.Prefix("DB_")

	l := logger.Get()

	fTimeout := flag.Duration("timeout", 5*time.Minute, "overall pass deadline")
	flag.Parse()

	st, err := store.Open(context.Background(), store.Config{
		AppName: "spillway-sweep",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("URL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 200),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
			// migrations belong to the api binary
			Migrate: dbCfg.MayBool("MIGRATE", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuardWithin(context.Background(), st, 5*time.Second)

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	maint := maintmod.New(deps)
	module.Register(maint.Name(), maint.Ports())
	runner := module.MustPortsOf[maintmod.Ports](maint).Runner

	ctx, cancel := context.WithTimeout(context.Background(), *fTimeout)
	defer cancel()

	switch err := runner.Sweep(ctx); {
	case err == nil:
		l.Info().Msg("sweep completed")
	case errors.Is(err, maintdom.ErrLeaseBusy):
		l.Warn().Msg("sweep skipped: another pass holds the lease")
	default:
		// partial passes land here too; a step that failed must page someone
		l.Error().Err(err).Msg("sweep failed")
		os.Exit(1)
	}
}
