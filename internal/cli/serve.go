package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/seamcarve/internal/server"
	"github.com/matzehuels/seamcarve/pkg/cache"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resize API over HTTP",
		Long: `Serve the resize API over HTTP.

  POST /v1/resize?width=W&height=H[&format=png]   body: image bytes
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache, cache.NewScopedKeyer(nil, "api:"))
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger)
			srv.SetMaxBodyBytes(int64(c.Config.Server.MaxBodyMB) << 20)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
