package main

import (
	"context"
	"net/http"
	"time"

	"go-medscan/internal/container"
	"go-medscan/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a local normalizing proxy in front of the analysis service",
		Long: `Starts a local HTTP server exposing the analysis operations. Uploads are
validated locally, forwarded to the remote service, and answered with the
canonical result shape regardless of which response variant the backend
produced.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			c, err := container.NewContainer(cfg, tokenProvider(cfg))
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:    cfg.ServerAddress(),
				Handler: c.Handler(),
				// Write timeout must cover a full upload round trip
				ReadTimeout:  cfg.UploadTimeout,
				WriteTimeout: cfg.UploadTimeout + 10*time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.WithFields(logrus.Fields{
					"address":  cfg.ServerAddress(),
					"upstream": cfg.BaseURL,
				}).Info("Starting local proxy server")

				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			logger.Info("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}

			logger.Info("Server exited")
			return nil
		},
	}
}
