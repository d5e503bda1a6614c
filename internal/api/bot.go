package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	app "googly-bot/internal/application"
	"googly-bot/internal/container"
	"googly-bot/internal/infrastructure/vision"
)

const (
	// Максимальный размер скачиваемого фото.
	maxPhotoBytes = 20 << 20
	// Как часто забываются лимиты неактивных чатов.
	limiterSweepInterval = 10 * time.Minute
)

const (
	msgStart = `👀 Привет! Я наклеиваю мультяшные глаза на лица.

📸 Отправьте /googly, а затем фото с людьми, и я сделаю их немного смешнее.

📋 Команды:
/googly — обработать фото
/help — справка
/stats — сколько фото уже обработано
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /googly
2️⃣ Отправьте фото (можно файлом)
3️⃣ Вы получите то же фото с мультяшными глазами

Фото можно присылать одно за другим, пока не отправите /cancel.

💡 Рекомендации:
• Лица должны смотреть в камеру
• Чем крупнее лица, тем лучше

📋 Команды:
/googly — обработать фото
/cancel — отменить операцию`

	msgAwaitingPhoto    = "📸 Отправьте фото с лицами."
	msgCancelled        = "❌ Операция отменена. Отправьте /googly, чтобы начать заново."
	msgSendPhoto        = "📸 Пожалуйста, отправьте фото с лицами."
	msgGooglyFirst      = "👀 Сначала отправьте /googly."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing       = "⏳ Ищу глаза..."
	msgNoFaces          = "🤷 Лиц не нашлось. Попробуйте фото, где лица видны крупнее."
	msgBusy             = "⏳ Предыдущее фото ещё обрабатывается."
	msgRateLimited      = "🐢 Слишком много фото. Подождите немного."
	msgInvalidImage     = "⚠️ Не удалось прочитать изображение. Поддерживаются JPEG и PNG."
	msgDetectorDisabled = "⚠️ Распознавание лиц сейчас недоступно."
	msgProcessingError  = "⚠️ Не удалось обработать изображение. Попробуйте другое фото."
	msgStats            = "📊 Ваших фото: %d\nВсего обработано: %d"
	captionDone         = "👀 Лиц найдено: %d"
)

// Options настройки бота
type Options struct {
	Workers            int
	RateLimitPerMinute int
}

// Bot представляет Telegram-бота
type Bot struct {
	api     *tgbotapi.BotAPI
	users   *app.UserService
	googly  *app.GooglyService
	limiter *chatLimiter
	workers int
	log     *logrus.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, opts Options, log *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.WithField("account", api.Self.UserName).Info("authorized")

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Bot{
		api:     api,
		users:   c.UserService,
		googly:  c.GooglyService,
		limiter: newChatLimiter(opts.RateLimitPerMinute),
		workers: workers,
		log:     log,
	}, nil
}

// Run обрабатывает сообщения, пока не отменён ctx.
// Одновременно обрабатывается не больше workers сообщений.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	sweep := time.NewTicker(limiterSweepInterval)
	defer sweep.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case now := <-sweep.C:
			if n := b.limiter.Sweep(now); n > 0 {
				b.log.WithFields(logrus.Fields{"evicted": n, "active": b.limiter.Len()}).Debug("idle rate limiters evicted")
			}
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			g.Go(func() error {
				b.handleMessage(gctx, msg)
				return nil
			})
		}
	}

	return g.Wait()
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if fileID, ok := imageFileID(msg); ok {
		b.handlePhoto(ctx, msg, fileID)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, userID, chatID)
		if errors.Is(err, app.ErrUserBusy) {
			err = nil
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "googly":
		_, err = b.users.BeginGoogly(ctx, userID, chatID)
		err = b.replyState(chatID, err, msgAwaitingPhoto)

	case "cancel":
		_, err = b.users.Cancel(ctx, userID, chatID)
		err = b.replyState(chatID, err, msgCancelled)

	case "stats":
		err = b.sendStats(ctx, userID, chatID)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		b.log.WithFields(logrus.Fields{"command": msg.Command(), "user_id": userID}).WithError(err).Error("command failed")
	}
}

// replyState отвечает на смену состояния; занятость пользователя не считается ошибкой.
func (b *Bot) replyState(chatID int64, err error, text string) error {
	switch {
	case err == nil:
		b.sendMessage(chatID, text)
	case errors.Is(err, app.ErrUserBusy):
		b.sendMessage(chatID, msgBusy)
		return nil
	}
	return err
}

func (b *Bot) sendStats(ctx context.Context, userID, chatID int64) error {
	user, err := b.users.Get(ctx, userID, chatID)
	if err != nil {
		return err
	}
	total, err := b.users.TotalProcessed(ctx)
	if err != nil {
		return err
	}
	b.sendMessage(chatID, fmt.Sprintf(msgStats, user.Processed, total))
	return nil
}

// handlePhoto скачивает фото, наклеивает глаза и отправляет результат
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	log := b.log.WithFields(logrus.Fields{"user_id": userID, "chat_id": chatID})

	if _, err := b.users.StartProcessing(ctx, userID, chatID); err != nil {
		switch {
		case errors.Is(err, app.ErrUserBusy):
			b.sendMessage(chatID, msgBusy)
		case errors.Is(err, app.ErrNotAwaitingPhoto):
			b.sendMessage(chatID, msgGooglyFirst)
		default:
			log.WithError(err).Error("start processing")
			b.sendMessage(chatID, msgProcessingError)
		}
		return
	}

	ok := false
	defer func() {
		if _, err := b.users.FinishProcessing(context.WithoutCancel(ctx), userID, chatID, ok); err != nil {
			log.WithError(err).Error("finish processing")
		}
	}()

	if !b.limiter.Allow(chatID) {
		b.sendMessage(chatID, msgRateLimited)
		return
	}

	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.WithError(err).Error("download photo")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	out, err := b.googly.Decorate(ctx, imageData)
	if err != nil {
		log.WithError(err).Warn("decorate photo")
		b.sendMessage(chatID, errorMessage(err))
		return
	}

	if out.Faces == 0 {
		b.sendMessage(chatID, msgNoFaces)
		ok = true
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "googly.png", Bytes: out.Image})
	photo.Caption = fmt.Sprintf(captionDone, out.Faces)
	if _, err := b.api.Send(photo); err != nil {
		log.WithError(err).Error("send photo")
		return
	}

	ok = true
	log.WithField("faces", out.Faces).Info("photo sent")
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithField("chat_id", chatID).WithError(err).Error("send message")
	}
}

// imageFileID возвращает файл с максимальным разрешением из фото
// или документ-картинку, отправленную без сжатия.
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}

// errorMessage подбирает текст ответа по ошибке обработки.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrInvalidImage):
		return msgInvalidImage
	case errors.Is(err, app.ErrDetectorNotConfigured), errors.Is(err, vision.ErrGoCVDisabled):
		return msgDetectorDisabled
	default:
		return msgProcessingError
	}
}
