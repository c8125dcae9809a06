package store

import (
	"context"

	"spillway/internal/platform/logger"
	"spillway/internal/platform/store/pg"
	"spillway/migrations"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// migrate applies the embedded schema migrations through goose.
// Safe on every boot: versions already applied are skipped
func migrate(ctx context.Context, p *pg.PG, log logger.Logger) error {
	db := stdlib.OpenDBFromPool(p.Pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// gooseLogger routes goose output through zerolog
type gooseLogger struct{ log logger.Logger }

func (g gooseLogger) Fatalf(format string, v ...any) { g.log.Fatal().Msgf(format, v...) }
func (g gooseLogger) Printf(format string, v ...any) { g.log.Debug().Msgf(format, v...) }
