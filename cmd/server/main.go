package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/changecomm/admin-system/docs"
	"github.com/changecomm/admin-system/internal/api"
	"github.com/changecomm/admin-system/internal/infrastructure/config"
	mongodb "github.com/changecomm/admin-system/internal/infrastructure/db/mongo"
	redisdb "github.com/changecomm/admin-system/internal/infrastructure/db/redis"
	"github.com/changecomm/admin-system/internal/infrastructure/mail"
	"github.com/changecomm/admin-system/internal/infrastructure/queue"
	"github.com/changecomm/admin-system/pkg/logger"
)

// @title        Change Communication Admin API
// @version      1.0
// @description  Administrative backend: authentication, trainer management, and system settings.

// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	sender := mail.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.From, log)
	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, sender, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Options{
		DB:        db,
		Redis:     rdb,
		Mail:      dispatcher,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Logger:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("admin service started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("admin service stopped")
}
