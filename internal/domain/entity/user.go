package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание фото с лицами
	StateProcessing    UserState = "processing"     // Наклеиваем глаза
)

// User представляет пользователя бота
type User struct {
	ID        int64     // Telegram User ID
	ChatID    int64     // Telegram Chat ID
	State     UserState // Текущее состояние пользователя
	Processed int       // Сколько фото уже обработано
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// IsBusy сообщает, что для пользователя уже идёт обработка фото.
func (u *User) IsBusy() bool {
	return u.State == StateProcessing
}

// IsAwaitingPhoto сообщает, что пользователь отправил /googly и ждёт обработки фото.
func (u *User) IsAwaitingPhoto() bool {
	return u.State == StateAwaitingPhoto
}

// FinishProcessing завершает обработку фото. Успешные обработки идут в счётчик.
// Пользователь остаётся в режиме ожидания фото, если его не сбросили раньше.
func (u *User) FinishProcessing(ok bool) {
	if ok {
		u.Processed++
	}
	if u.State == StateProcessing {
		u.State = StateAwaitingPhoto
	}
}
