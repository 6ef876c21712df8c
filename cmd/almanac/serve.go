package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/almanac"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		host      string
		port      int
		staticDir string
		dev       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the magazine over HTTP",
		Long: `Serve the reader API, the live endpoint and the static
presentation bundle.

Configuration is read from almanac.json, then ALMANAC_* environment
variables, then flags.

Examples:
  almanac serve
  almanac serve --port=9000 --content=./magazine
  almanac serve --dev`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if host != "" {
				fc.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				fc.Server.Port = port
			}
			if staticDir != "" {
				abs, err := filepath.Abs(staticDir)
				if err != nil {
					return err
				}
				fc.Static.Dir = abs
			}
			if dev {
				fc.Dev = true
			}

			logger := newLogger(fc, cmd.ErrOrStderr())
			ctx := cmd.Context()
			cfg, err := almanac.FromFile(ctx, fc, logger)
			if err != nil {
				return err
			}
			app, err := almanac.New(ctx, cfg)
			if err != nil {
				return err
			}

			success(cmd, "%s serving %d editions", fc.Name, app.Registry().Len())
			info(cmd, "Reader:  %s", fc.URL())
			info(cmd, "API:     %s/api/view", fc.URL())
			if cfg.Metrics.Enabled {
				info(cmd, "Metrics: %s/metrics", fc.URL())
			}

			return app.Run(ctx, almanac.ServerOptions{
				Addr:         fc.Address(),
				ReadTimeout:  fc.ReadTimeout(),
				WriteTimeout: fc.WriteTimeout(),
			})
		},
	}

	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from almanac.json)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from almanac.json)")
	cmd.Flags().StringVar(&staticDir, "static", "", "Presentation bundle directory (overrides static.dir)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Development mode: no static caching, any origin")

	return cmd
}
