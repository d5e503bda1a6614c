package sprite

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"googly-bot/internal/domain/port"
)

// Generator выдаёт случайно повёрнутые и отмасштабированные копии шаблона.
type Generator struct {
	template *Template
	rnd      *Random
}

// NewGenerator создаёт генератор поверх общего шаблона.
func NewGenerator(template *Template, rnd *Random) *Generator {
	return &Generator{template: template, rnd: rnd}
}

// Generate возвращает глаз под межглазное расстояние intraEyeDistance.
// При вырожденном размере возвращается пустой спрайт 0x0.
func (g *Generator) Generate(intraEyeDistance float64) *image.NRGBA {
	angle, multiplier := g.rnd.Draw()
	scale := multiplier * g.template.cfg.SizeScale
	size := EyeSize(intraEyeDistance * scale)
	return Rotate(Resize(g.template.img, size), angle)
}

// EyeSize округляет сторону спрайта вниз до чётного числа, чтобы у спрайта был центральный пиксель.
func EyeSize(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 2 {
		return 0
	}
	return 2 * int(math.Floor(v/2))
}

// Resize масштабирует src в квадрат size x size ближайшим соседом.
// Ближайший сосед сохраняет бинарную альфу шаблона.
func Resize(src image.Image, size int) *image.NRGBA {
	if size <= 0 {
		return image.NewNRGBA(image.Rectangle{})
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Rotate поворачивает src вокруг центра на angle градусов с сохранением размера.
// Всё, что уходит за квадрат, отбрасывается; открывшиеся углы остаются прозрачными.
func Rotate(src *image.NRGBA, angle int) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	if b.Empty() {
		return dst
	}

	sin, cos := sincosDeg(angle)
	cx := float64(b.Min.X) + float64(b.Dx())/2
	cy := float64(b.Min.Y) + float64(b.Dy())/2

	// dst = R * (src - c) + c
	m := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	draw.NearestNeighbor.Transform(dst, m, src, b, draw.Src, nil)
	return dst
}

// sincosDeg возвращает точные значения для углов, кратных 90°.
func sincosDeg(angle int) (sin, cos float64) {
	switch ((angle % 360) + 360) % 360 {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(float64(angle) * math.Pi / 180)
}

var _ port.SpriteGenerator = (*Generator)(nil)
