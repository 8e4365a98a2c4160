package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dartlink/caller-backend/internal/board"
	"github.com/dartlink/caller-backend/internal/config"
	"github.com/dartlink/caller-backend/internal/httpapi"
	"github.com/dartlink/caller-backend/internal/hub"
	"github.com/dartlink/caller-backend/internal/store"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic(err)
	}
	cfg := config.FromEnv()

	var logger *zap.Logger
	var err error
	if cfg.Dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := hub.Deps{
		Sink:          board.LogSink{Log: logger},
		AnnounceDelay: cfg.AnnounceDelay,
		Logger:        logger,
	}
	if cfg.DatabaseURL != "" {
		st, err := store.Open(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("opening history store", zap.Error(err))
		}
		deps.Recorder = st
		logger.Info("history store enabled")
	}

	h := hub.NewHub(ctx, deps)
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(h, logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
