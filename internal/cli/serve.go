package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/api"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal as a JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}

			port := app.Config.Server.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}

			srv := api.New(api.Config{
				Log:            app.Logger,
				Journal:        svc,
				Port:           port,
				DevMode:        app.Config.Server.DevMode,
				AllowedOrigins: app.Config.Server.AllowedOrigins,
				Version:        Version,
			})

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()
			output.Success("✓ Listening on http://localhost:%d", port)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			output.Info("Server stopped")
			return nil
		},
	}
	cmd.Flags().IntP("port", "p", 8080, "listen port (default from config)")
	return cmd
}
