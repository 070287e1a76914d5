package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/rushteam/tagrec/api"
	"github.com/rushteam/tagrec/pkg/logging"
)

func serveCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			b, err := openBackend(ctx, s, reg)
			if err != nil {
				return err
			}
			defer func() {
				if err := b.close(context.Background()); err != nil {
					logging.Warn().Err(err).Msg("close store")
				}
			}()

			if seedPath != "" {
				stats, err := seedFile(ctx, b, seedPath)
				if err != nil {
					return err
				}
				logging.Info().Interface("seed", stats).Msg("seed loaded")
			}

			srv := &http.Server{
				Addr:         s.Server.Addr,
				Handler:      api.NewServer(b.svc, b.admin, api.WithGatherer(reg)).Handler(),
				ReadTimeout:  s.Server.ReadTimeout,
				WriteTimeout: s.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Info().Str("addr", s.Server.Addr).Msg("http server listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logging.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", "", "seed file (yaml) loaded before serving")
	return cmd
}
