package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Spok95/access-bot/internal/bot"
	"github.com/Spok95/access-bot/internal/config"
	"github.com/Spok95/access-bot/internal/dialog"
	"github.com/Spok95/access-bot/internal/domain/access"
	"github.com/Spok95/access-bot/internal/domain/users"
	"github.com/Spok95/access-bot/internal/infra/db"
	httpx "github.com/Spok95/access-bot/internal/infra/http"
	"github.com/Spok95/access-bot/internal/infra/logger"
	"github.com/Spok95/access-bot/internal/infra/telegram"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	usersRepo := users.NewRepo(pool)
	statesRepo := dialog.NewRepo(pool)
	accessRepo := access.NewRepo(pool)

	tgClient := telegram.NewClient(api)
	notifier := bot.NewNotifier(api, log, usersRepo, cfg.Telegram.OwnerID, cfg.Telegram.ErrorsChannelID)
	authz := bot.NewAuthorizer(usersRepo, cfg.Telegram.OwnerID)

	accessSvc := access.NewService(log, accessRepo, tgClient, tgClient, notifier, authz,
		cfg.Telegram.PrivateChannelID)

	b := bot.New(api, log, usersRepo, statesRepo, accessSvc, notifier,
		cfg.Telegram.OwnerID, cfg.Telegram.PrivateChannelID)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if err := b.Run(ctx, 30); err != nil && ctx.Err() == nil {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
