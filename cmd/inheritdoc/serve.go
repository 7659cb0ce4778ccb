package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/inheritdoc/internal/mcp"
	"github.com/dshills/inheritdoc/internal/metrics"
	"github.com/dshills/inheritdoc/internal/storage"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Run the Model Context Protocol server on stdin/stdout. Logs go to
stderr. With --metrics-addr, Prometheus metrics and a health check are
served over HTTP on that address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a.logger.Info("inheritdoc MCP server starting",
				zap.String("version", version),
				zap.String("build_mode", storage.BuildMode),
				zap.String("driver", storage.DriverName),
			)

			m := metrics.New()
			if addr := a.cfg.MetricsAddr; addr != "" {
				go func() {
					a.logger.Info("serving metrics", zap.String("addr", addr))
					if err := m.Serve(ctx, addr); err != nil {
						a.logger.Error("metrics server failed", zap.Error(err))
					}
				}()
			}

			server, err := mcp.NewServer(a.cfg, a.logger, m)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Serve(ctx)
			}()

			select {
			case <-ctx.Done():
				a.logger.Info("shutting down")
				return nil
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}
