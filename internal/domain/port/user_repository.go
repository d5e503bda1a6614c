package port

import (
	"context"

	"googly-bot/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Update атомарно меняет пользователя через fn и возвращает результат.
	// Если fn вернула ошибку, изменения не сохраняются.
	Update(ctx context.Context, userID, chatID int64, fn func(*entity.User) error) (*entity.User, error)

	// TotalProcessed возвращает число обработанных фото по всем пользователям
	TotalProcessed(ctx context.Context) (int, error)
}
