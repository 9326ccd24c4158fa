package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/pyoutline/internal/config"
	"github.com/dgallion1/pyoutline/internal/pathstore"
	"github.com/dgallion1/pyoutline/internal/pipeline"
)

// Run serves the API on cfg.Port until ctx is cancelled, then drains the pipeline and shuts the
// listener down.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var (
		ps  *pathstore.Client
		pub *pathstore.Publisher
	)
	if cfg.PublishEnabled() {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		pub = pathstore.NewPublisher(ps)
		log.Info("publishing enabled", "pathstore", cfg.PathstoreURL, "project", cfg.PathstoreProject)
	}

	orch := pipeline.NewOrchestrator(cfg, pub, log)
	orch.Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewServer(orch, log, cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting pyoutline", "port", cfg.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		orch.Stop()
		if ps != nil {
			ps.Close()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")

	// Drain in-flight requests before closing the job queue.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)

	orch.Stop()
	if ps != nil {
		ps.Close()
	}
	return err
}
