// Serve command runs the taskbased HTTP API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbase/internal/server"
	"github.com/mesh-intelligence/taskbase/internal/service"
	"github.com/mesh-intelligence/taskbase/pkg/taskbase"
	"github.com/mesh-intelligence/taskbase/pkg/types"
)

var flagAddr string

// shutdownTimeout bounds how long in-flight requests get to drain.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		slog.SetDefault(logger)

		store, err := attachStore()
		if err != nil {
			fatalSys("serve", err)
		}
		defer store.Detach()

		addr := configServerAddr
		if flagAddr != "" {
			addr = flagAddr
		}

		svc := service.New(store, logger)
		srv := server.New(types.ServerConfig{Addr: addr}, svc, logger, taskbase.Version)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server starting", slog.String("addr", addr))
			errCh <- srv.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		case sig := <-sigCh:
			logger.Info("shutting down", slog.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config, \":8080\")")
}
