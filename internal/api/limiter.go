package telegram

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// chatLimiter ограничивает число фото от одного чата.
type chatLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	every    rate.Limit
	burst    int
}

// newChatLimiter разрешает perMinute фото в минуту на чат; 0 отключает ограничение.
func newChatLimiter(perMinute int) *chatLimiter {
	every := rate.Inf
	burst := 0
	if perMinute > 0 {
		every = rate.Every(time.Minute / time.Duration(perMinute))
		burst = perMinute
	}
	return &chatLimiter{
		limiters: make(map[int64]*rate.Limiter),
		every:    every,
		burst:    burst,
	}
}

func (l *chatLimiter) Allow(chatID int64) bool {
	if l.every == rate.Inf {
		return true
	}

	l.mu.Lock()
	lim, ok := l.limiters[chatID]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[chatID] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}

// Sweep забывает чаты, чей лимит к моменту now полностью восстановился.
// Такой чат при следующем фото получит новый лимитер с тем же запасом.
func (l *chatLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for chatID, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, chatID)
			evicted++
		}
	}
	return evicted
}

func (l *chatLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
