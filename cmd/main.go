package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"googly-bot/config"
	telegram "googly-bot/internal/api"
	"googly-bot/internal/container"
	"googly-bot/internal/infrastructure/logging"
	"googly-bot/internal/infrastructure/storage"
	"googly-bot/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		logrus.Fatalf("Failed to init logger: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Создаём хранилище пользователей
	userRepo := storage.NewMemoryUserRepository()

	// Детектор глаз; без OpenCV бот работает, но отвечает, что распознавание недоступно
	detector, err := vision.NewCascadeDetector(cfg.FaceCascade, cfg.EyeCascade)
	if err != nil {
		log.WithError(err).Fatal("Failed to load eye detector")
	}

	// Шаблон глаза строится здесь один раз; битая геометрия останавливает запуск
	appContainer, err := container.New(userRepo, detector, cfg.Sprite, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to build container")
	}
	defer func() {
		if err := appContainer.Close(); err != nil {
			log.WithError(err).Error("Failed to release resources")
		}
	}()

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, telegram.Options{
		Workers:            cfg.Workers,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"workers":    cfg.Workers,
		"size_scale": cfg.Sprite.SizeScale,
	}).Info("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		log.WithError(err).Error("Bot error")
	}
	log.Info("Bot stopped")
}
