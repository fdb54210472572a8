package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/geodata/internal/config"
	"github.com/smallbiznis/geodata/internal/exporter"
	"github.com/smallbiznis/geodata/internal/geo"
	"github.com/smallbiznis/geodata/internal/importer"
	"github.com/smallbiznis/geodata/internal/migration"
	"github.com/smallbiznis/geodata/internal/observability"
	"github.com/smallbiznis/geodata/internal/seed"
	"github.com/smallbiznis/geodata/internal/server"
	"github.com/smallbiznis/geodata/pkg/db"
	"go.uber.org/fx"
)

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// infrastructure is shared by every command that touches the store.
func infrastructure(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
	)
}

func serveApp(cfg config.Config) *fx.App {
	return fx.New(
		infrastructure(cfg),
		server.Module,
		seed.Module,
	)
}

// runTask starts a short lived app without the HTTP server, fills targets
// and calls fn before stopping the app again.
func runTask(ctx context.Context, cfg config.Config, fn func() error, targets ...any) error {
	app := fx.New(
		infrastructure(cfg),
		geo.Module,
		importer.Module,
		exporter.Module,
		seed.Module,
		fx.NopLogger,
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}

	runErr := fn()

	if err := app.Stop(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
