package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"sprintlens/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

var httpAddr string

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Run the JSON API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.HTTPAddr
		if httpAddr != "" {
			addr = httpAddr
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewRouter(svc, log.Logger, !verbose),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Msg("HTTP API listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)
		case <-cmd.Context().Done():
		}

		log.Info().Msg("Shutting down HTTP API")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveHTTPCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (defaults to HTTP_ADDR)")
	rootCmd.AddCommand(serveHTTPCmd)
}
