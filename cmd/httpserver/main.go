package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movielobby/httpserver"
	"movielobby/movie"
	"movielobby/nats"
	"movielobby/pkg/config"
	"movielobby/pkg/logger"
	"movielobby/pkg/sentry"
	"movielobby/storage"

	sentrygo "github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Fatalw("cannot init sentry", "error", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	if err := run(cfg, log); err != nil {
		sentry.Error(err)
		log.Errorw("server stopped with error", "error", err)
		sentrygo.Flush(sentry.FlushTime)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	server, err := httpserver.New(
		httpserver.WithConfig(cfg),
		httpserver.WithLogger(log),
		httpserver.WithMovieService(movie.NewUsecase(store, publisher)),
	)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server started", "addr", server.Addr, "driver", cfg.DB.Driver)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newPublisher returns a NATS publisher when NATS_URL is set.
func newPublisher(cfg *config.Config, log *zap.SugaredLogger) (movie.EventPublisher, func(), error) {
	if cfg.NATS.URL == "" {
		return movie.NopPublisher{}, func() {}, nil
	}

	conn, err := nats.Connect(nats.Options{URL: cfg.NATS.URL, Name: "movielobby"}, log)
	if err != nil {
		return nil, func() {}, err
	}

	log.Infow("publishing movie events", "url", cfg.NATS.URL, "subject", cfg.NATS.Subject)
	return nats.NewPublisher(conn, cfg.NATS.Subject, log), conn.Close, nil
}
