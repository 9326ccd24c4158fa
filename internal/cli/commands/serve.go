package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pyoutline/internal/api"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the outline API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := GetRuntime(cmd.Context())
			cfg := rt.Config
			if port != "" {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return api.Run(ctx, cfg, rt.Log)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default: PORT or 8090)")

	return cmd
}
