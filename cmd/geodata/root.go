package main

import (
	"strings"

	"github.com/smallbiznis/geodata/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// getRootCmd builds the command tree. Flags, a config file and environment
// variables all feed one viper instance that is turned into config.Config
// before any subcommand runs.
func getRootCmd() *cobra.Command {
	v := viper.New()
	var cfg config.Config

	cmd := &cobra.Command{
		Use:     "geodata",
		Short:   "Multilingual countries, regions and cities",
		Long:    "geodata serves a searchable catalogue of countries, regions, cities and\nzip codes with their names in every supported language.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(v, cmd); err != nil {
				return err
			}
			cfg = config.FromViper(v)
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("db-type", "", "database dialect: postgres, mysql or sqlite")
	flags.String("db-path", "", "sqlite database file")
	flags.Bool("seed", false, "load the bundled reference data on start")

	current := func() config.Config { return cfg }
	cmd.AddCommand(
		getServeCmd(current),
		getMigrateCmd(current),
		getImportCmd(current),
		getExportCmd(current),
	)
	return cmd
}

func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix("GEODATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"database.type": "db-type",
		"database.path": "db-path",
		"seed.enabled":  "seed",
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}
