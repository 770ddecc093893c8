package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xraph/depot/internal/bootstrap"
	"github.com/xraph/depot/internal/httpapi"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API backed by the service container.

Routes:
  GET  /healthz          container health
  GET  /services         registered services (?group=, ?lifecycle=)
  GET  /services/{name}  one service
  POST /login            {"username": "...", "password": "..."}
  GET  /metrics          Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			app.cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())

		c, err := bootstrap.NewContainer(ctx, app.cfg, app.logger, reg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              app.cfg.Server.Addr(),
			Handler:           httpapi.NewServer(c, reg, app.logger.Named("http")).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			app.logger.Info("listening", zap.String("addr", srv.Addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err = <-errCh:
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err = srv.Shutdown(shutdownCtx)
		}

		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		return errors.Join(err, c.Stop(context.Background()))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "P", 0, "Override server.port from the configuration")
}
