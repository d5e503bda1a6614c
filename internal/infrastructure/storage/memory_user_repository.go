package storage

import (
	"context"
	"sync"

	"googly-bot/internal/domain/entity"
	"googly-bot/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей бота.
// Наружу отдаются копии; менять пользователя можно только через Update.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает копию пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.userLocked(userID, chatID)
	return &user, nil
}

// Update меняет пользователя под блокировкой: проверка и запись не разрываются
// другими обработчиками.
func (r *MemoryUserRepository) Update(ctx context.Context, userID, chatID int64, fn func(*entity.User) error) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.userLocked(userID, chatID)
	if err := fn(&user); err != nil {
		return nil, err
	}
	r.users[userID] = user

	return &user, nil
}

func (r *MemoryUserRepository) userLocked(userID, chatID int64) entity.User {
	user, exists := r.users[userID]
	if !exists {
		user = *entity.NewUser(userID, chatID)
		r.users[userID] = user
	}
	return user
}

// TotalProcessed суммирует счётчики обработанных фото
func (r *MemoryUserRepository) TotalProcessed(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, u := range r.users {
		total += u.Processed
	}
	return total, nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
