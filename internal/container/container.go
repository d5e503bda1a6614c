package container

import (
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	app "googly-bot/internal/application"
	"googly-bot/internal/domain/entity"
	"googly-bot/internal/domain/port"
	"googly-bot/internal/infrastructure/overlay"
	"googly-bot/internal/infrastructure/sprite"
)

type Container struct {
	UserService   *app.UserService
	GooglyService *app.GooglyService

	// Template строится один раз и только читается всеми запросами.
	Template *sprite.Template

	closers []io.Closer
}

// New строит шаблон глаза и собирает сервисы. Ошибка конфигурации шаблона
// фатальна: бот не должен отвечать с битым шаблоном.
func New(userRepo port.UserRepository, detector port.EyeDetector, spriteCfg entity.SpriteConfig, log *logrus.Logger) (*Container, error) {
	template, err := sprite.NewTemplate(spriteCfg)
	if err != nil {
		return nil, err
	}

	generator := sprite.NewGenerator(template, sprite.NewRandom(uint64(time.Now().UnixNano())))
	userService := app.NewUserService(userRepo)
	googlyService := app.NewGooglyService(detector, generator, overlay.NewCompositor(), log)

	c := &Container{
		UserService:   userService,
		GooglyService: googlyService,
		Template:      template,
	}
	if closer, ok := detector.(io.Closer); ok {
		c.closers = append(c.closers, closer)
	}
	return c, nil
}

// Close освобождает детектор. Шаблон живёт, пока жив генератор.
func (c *Container) Close() error {
	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
