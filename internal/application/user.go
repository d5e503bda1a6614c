package app

import (
	"context"
	"errors"

	"googly-bot/internal/domain/entity"
	"googly-bot/internal/domain/port"
)

var (
	// ErrUserBusy для пользователя уже обрабатывается фото.
	ErrUserBusy = errors.New("user already has a photo in progress")
	// ErrNotAwaitingPhoto фото пришло без /googly.
	ErrNotAwaitingPhoto = errors.New("user is not awaiting a photo")
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState меняет состояние диалога. Пока идёт обработка фото, состояние не меняется.
func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) error {
		if u.IsBusy() {
			return ErrUserBusy
		}
		u.SetState(state)
		return nil
	})
}

func (s *UserService) BeginGoogly(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// StartProcessing переводит пользователя в обработку, если он ждёт фото и не занят другим.
func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) error {
		switch {
		case u.IsBusy():
			return ErrUserBusy
		case !u.IsAwaitingPhoto():
			return ErrNotAwaitingPhoto
		}
		u.SetState(entity.StateProcessing)
		return nil
	})
}

// FinishProcessing возвращает пользователя к ожиданию фото; успешные обработки идут в счётчик.
func (s *UserService) FinishProcessing(ctx context.Context, userID, chatID int64, ok bool) (*entity.User, error) {
	return s.repo.Update(ctx, userID, chatID, func(u *entity.User) error {
		u.FinishProcessing(ok)
		return nil
	})
}

// TotalProcessed число фото, обработанных ботом.
func (s *UserService) TotalProcessed(ctx context.Context) (int, error) {
	return s.repo.TotalProcessed(ctx)
}
