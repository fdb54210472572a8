package main

import (
	"errors"
	"fmt"

	"github.com/smallbiznis/geodata/internal/config"
	"github.com/smallbiznis/geodata/internal/migration"
	"github.com/smallbiznis/geodata/internal/seed"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func getMigrateCmd(cfg func() config.Config) *cobra.Command {
	var down, withSeed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Long: `Migrate applies the embedded SQL migrations on PostgreSQL and creates the
tables from the models on MySQL and SQLite.

Use --down to revert every migration (PostgreSQL only) and --seed to load
the bundled reference data afterwards.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cfg()
			if down {
				return migrateDown(cmd, c)
			}

			var seeder *seed.Seeder
			return runTask(cmd.Context(), c, func() error {
				if !withSeed {
					fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
					return nil
				}
				summary, err := seeder.EnsureReferenceData(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema up to date, seeded %d countries, %d regions, %d cities and %d zip codes\n",
					summary.Countries, summary.Regions, summary.Cities, summary.ZipCodes)
				return nil
			}, &seeder)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "revert all migrations")
	cmd.Flags().BoolVar(&withSeed, "with-seed", false, "load the bundled reference data")
	return cmd
}

func migrateDown(cmd *cobra.Command, c config.Config) error {
	if c.DBType != "postgres" {
		return errors.New("--down is only available on postgres")
	}
	var conn *gorm.DB
	return runTask(cmd.Context(), c, func() error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := migration.Down(sqlDB); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations reverted")
		return nil
	}, &conn)
}
