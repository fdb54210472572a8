package main

import (
	"github.com/smallbiznis/geodata/internal/config"
	"github.com/spf13/cobra"
)

func getServeCmd(cfg func() config.Config) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the upload pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cfg()
			if addr != "" {
				c.HTTPAddr = addr
			}
			app := serveApp(c)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, e.g. :8080")
	return cmd
}
