package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm/pokedex/internal/config"
	"github.com/pthm/pokedex/internal/server"
)

func serveCmd() *cobra.Command {
	cfg, loadErr := config.Load()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Pokedex web page",
		RunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			srv, err := server.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cfg.BindFlags(cmd.Flags())
	return cmd
}
