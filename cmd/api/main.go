package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/technohack/backend/internal/access"
	"github.com/technohack/backend/internal/api"
	"github.com/technohack/backend/internal/config"
	"github.com/technohack/backend/internal/identity"
	"github.com/technohack/backend/internal/logging"
	"github.com/technohack/backend/internal/notify"
	"github.com/technohack/backend/internal/registration"
	"github.com/technohack/backend/internal/storage"
	"gopkg.in/telebot.v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	setupConfig()
	logging.Init()

	cfg := config.New()
	logrus.Debugf("config: %+v", cfg)

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	migrateCtx, migrateCancel := context.WithTimeout(ctx, 10*time.Second)
	defer migrateCancel()

	if err := store.Migrate(migrateCtx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	authority := access.New(access.Allowlist{
		AdminEmails:     cfg.AdminEmailList(),
		SuperadminEmail: cfg.SuperadminEmail,
	}, store)

	resolver := identity.NewResolver(store, authority)
	verifier := identity.NewClient(cfg)

	var notifier registration.Notifier = notify.Noop{}
	if cfg.TelegramToken != "" {
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			logrus.Fatalf("Failed to create bot: %v", err)
		}
		notifier = notify.NewTelegram(bot, cfg.TelegramChatID)
	}

	registrations := registration.NewService(store, notifier)

	service := api.NewService(cfg, store, verifier, resolver, authority, registrations)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	service.Register(e)

	go func() {
		if err := e.Start(cfg.ListenAddress); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Failed to shut down server: %v", err)
	}
}

func setupConfig() {
	viper.BindEnv("identity_webhook_secret")
	viper.BindEnv("admin_emails")
	viper.BindEnv("superadmin_email")
	viper.BindEnv("telegram_token")
	viper.BindEnv("telegram_chat_id")
	config.SetupCommon()
}
