package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/blog-wizard/internal/config"
	"github.com/debemdeboas/blog-wizard/internal/db"
	"github.com/debemdeboas/blog-wizard/internal/logger"
	"github.com/debemdeboas/blog-wizard/internal/repository"
	"github.com/debemdeboas/blog-wizard/internal/repository/editor"
	"github.com/debemdeboas/blog-wizard/internal/server"
	"github.com/debemdeboas/blog-wizard/internal/storage"
	"github.com/debemdeboas/blog-wizard/internal/wizard"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file loaded")
	}

	if err := config.LoadConfig(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	log := logger.New(cfg.Logging.Level)
	setLoggers(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		// The store runs memory-only rather than refusing to start.
		log.Error().Err(err).Str("backend", cfg.Storage.Backend).Msg("Error opening storage backend")
	}

	store := repository.NewPostStore(backend,
		repository.WithKey(cfg.Storage.Key),
		repository.WithWriteTimeout(cfg.Storage.WriteTimeout),
	)
	defer store.Close()

	log.Info().
		Str("backend", store.BackendName()).
		Bool("durable", store.IsDurable()).
		Int("posts", store.Len()).
		Msg("Post store ready")

	sessions := editor.NewRegistry(cfg.Wizard.SessionTTL, cfg.Wizard.MaxSessions)
	go sweepSessions(ctx, sessions, cfg.Wizard.SessionTTL, log)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           server.New(store, sessions, cfg.Site.Name).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error shutting down server")
		}
	}()

	log.Info().Str("addr", srv.Addr).Str("site", cfg.Site.Name).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server stopped")
	}
	log.Info().Msg("Server stopped")
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l)
	db.SetLogger(l)
	storage.SetLogger(l)
	repository.SetLogger(l)
	wizard.SetLogger(l)
	server.SetLogger(l)
}

// sweepSessions drops idle wizard sessions until ctx is done.
func sweepSessions(ctx context.Context, sessions *editor.Registry, ttl time.Duration, log zerolog.Logger) {
	if ttl <= 0 {
		return
	}

	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				log.Debug().Int("sessions", n).Msg("Expired wizard sessions removed")
			}
		}
	}
}
