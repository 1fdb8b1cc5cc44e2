package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"options-advisor/internal/server"
)

// addServeCommand adds the HTTP API server command.
func addServeCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server exposing strategy recommendation, strike
selection, and trade calculation endpoints.`,
		Example: `  advisor serve
  advisor serve --host 0.0.0.0 --port 9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Data == nil {
				output.Error("Data store not available; cannot serve")
				return fmt.Errorf("store not initialized")
			}

			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")
			if host == "" {
				host = app.Config.Server.Host
			}
			if port == 0 {
				port = app.Config.Server.Port
			}

			srv := server.New(server.Config{
				Host:           host,
				Port:           port,
				AllowedOrigins: app.Config.Server.AllowedOrigins,
				DTETolerance:   app.Config.Selection.DTETolerance,
				Log:            app.Logger,
				Data:           app.Data,
				Selector:       app.Selector,
				Recommender:    app.Recommender,
			})

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			output.Info("Serving on %s:%d (Ctrl+C to stop)", host, port)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				output.Error("Server failed: %v", err)
				return err
			case sig := <-sigCh:
				app.Logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				output.Error("Shutdown error: %v", err)
				return err
			}

			output.Success("Server stopped")
			return nil
		},
	}

	cmd.Flags().String("host", "", "Bind address (default from config)")
	cmd.Flags().Int("port", 0, "Port (default from config)")

	rootCmd.AddCommand(cmd)
}
