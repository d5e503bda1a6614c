package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"googly-bot/internal/domain/entity"
)

type Config struct {
	TelegramToken      string
	Workers            int
	RateLimitPerMinute int
	FaceCascade        string
	EyeCascade         string
	LogLevel           string
	LogFile            string
	Sprite             entity.SpriteConfig
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		FaceCascade:   getEnv("FACE_CASCADE", "assets/haarcascade_frontalface_default.xml"),
		EyeCascade:    getEnv("EYE_CASCADE", "assets/haarcascade_eye.xml"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		Sprite:        entity.DefaultSpriteConfig(),
	}

	var err error
	if cfg.Workers, err = getInt("BOT_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 10); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("BOT_WORKERS must be positive, got %d", cfg.Workers)
	}

	// Геометрия глаза: файл YAML поверх значений по умолчанию.
	if path := os.Getenv("SPRITE_CONFIG"); path != "" {
		if cfg.Sprite, err = LoadSprite(path, cfg.Sprite); err != nil {
			return nil, err
		}
	}

	if raw := os.Getenv("SIZE_SCALE"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse SIZE_SCALE: %w", err)
		}
		cfg.Sprite.SizeScale = scale
	}

	return cfg, nil
}

// LoadSprite читает YAML с геометрией глаза; отсутствующие поля берутся из base.
func LoadSprite(path string, base entity.SpriteConfig) (entity.SpriteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read sprite config: %w", err)
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse sprite config %s: %w", path, err)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}
