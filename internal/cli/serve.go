package cli

import (
	"github.com/spf13/cobra"

	"github.com/paritytech/psvm/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve release mappings over HTTP",
		Long: `Serve release mappings over a read-only HTTP API:

  GET /healthz
  GET /v1/releases[?family=orml][&refresh=true]
  GET /v1/releases/{release}/crates[?source=plan|lockfile][&family=orml]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newCache()
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(c.newResolver(), c.newLister(store), c.Logger)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
