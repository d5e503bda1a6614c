package sprite

import (
	"math/rand/v2"
	"sync"
)

const (
	minMultiplier = 0.75
	maxMultiplier = 1.25
)

// Random источник случайных углов и масштабов.
// Угол и масштаб вытягиваются под одним замком, чтобы параллельные
// запросы не перемешивали пары.
type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom создаёт детерминированный источник по seed.
func NewRandom(seed uint64) *Random {
	return &Random{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Draw возвращает угол в градусах из [0, 360) и множитель размера из [0.75, 1.25].
func (r *Random) Draw() (angle int, multiplier float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	angle = r.rnd.IntN(360)
	multiplier = minMultiplier + (maxMultiplier-minMultiplier)*r.rnd.Float64()
	return angle, multiplier
}
