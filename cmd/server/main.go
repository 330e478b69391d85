package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/game_shop/internal/config"
	"github.com/Skotchmaster/game_shop/internal/db"
	"github.com/Skotchmaster/game_shop/internal/events"
	"github.com/Skotchmaster/game_shop/internal/httpserver"
	"github.com/Skotchmaster/game_shop/internal/logging"
	"github.com/Skotchmaster/game_shop/internal/repo"
	"github.com/Skotchmaster/game_shop/internal/search"
	"github.com/Skotchmaster/game_shop/internal/seed"
	"github.com/Skotchmaster/game_shop/internal/service"
	"github.com/Skotchmaster/game_shop/internal/session"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: gdb}
	if cfg.Seed {
		if err := seed.Run(ctx, gormRepo); err != nil {
			log.Fatalf("seed error: %v", err)
		}
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if cfg.KafkaEnabled() {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
		logger.Info("kafka events enabled", "brokers", cfg.KafkaBrokers)
	}

	catalogueSvc := &service.CatalogueService{Repo: gormRepo, Events: publisher}
	if cfg.SearchEnabled() {
		client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		index := &search.Index{ES: client, Name: cfg.ESIndex}
		if err := index.Ping(ctx); err != nil {
			logger.Warn("elasticsearch unreachable, search uses the database", "error", err)
		} else {
			catalogueSvc.Index = index
			n, err := catalogueSvc.Reindex(ctx)
			if err != nil {
				logger.Warn("reindex failed", "error", err)
			} else {
				logger.Info("catalogue indexed", "games", n, "index", cfg.ESIndex)
			}
		}
	}

	jwtSecret := []byte(cfg.JWTSecret)
	sessions := &session.GormStore{DB: gdb}

	e, err := httpserver.New(&httpserver.Deps{
		DB:            gdb,
		Logger:        logger,
		Sessions:      sessions,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.CookieSecure,
		JWTSecret:     jwtSecret,
		Auth: &service.AuthService{
			Repo:          gormRepo,
			JWTSecret:     jwtSecret,
			RefreshSecret: []byte(cfg.JWTRefreshSecret),
			Events:        publisher,
		},
		Users:     &service.UserService{Repo: gormRepo, Events: publisher},
		Catalogue: catalogueSvc,
		Shop:      &service.ShopService{Repo: gormRepo, Events: publisher},
	})
	if err != nil {
		log.Fatalf("http server: %v", err)
	}
	srv := httpserver.NewServer(e, cfg.ServerAddr, cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout)

	bgCtx, stopBackground := context.WithCancel(ctx)
	go purgeSessions(bgCtx, sessions, time.Hour)

	go func() {
		logger.Info("http server listening", "addr", cfg.ServerAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	stopBackground()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close", "error", err)
	}
}

// purgeSessions removes expired sessions until ctx is cancelled.
func purgeSessions(ctx context.Context, store *session.GormStore, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				logging.FromContext(ctx).Error("session_purge_error", "error", err)
				continue
			}
			if n > 0 {
				logging.FromContext(ctx).Info("expired sessions purged", "count", n)
			}
		}
	}
}
