package port

import "image"

// SpriteGenerator выдаёт случайный экземпляр глаза под заданное межглазное расстояние.
type SpriteGenerator interface {
	Generate(intraEyeDistance float64) *image.NRGBA
}

// Compositor накладывает спрайт на холст с учётом прозрачности.
type Compositor interface {
	// Composite центрирует sprite в точке center и возвращает изменённый canvas.
	Composite(canvas *image.RGBA, sprite image.Image, center image.Point) *image.RGBA
}
