package overlay

import (
	"image"
	"image/color"

	"googly-bot/internal/domain/port"
)

// Compositor накладывает RGBA-спрайт на RGB-холст по альфа-каналу спрайта.
// Холст считается непрозрачным: меняются только R, G, B, альфа холста не трогается.
type Compositor struct{}

// NewCompositor создаёт компоновщик.
func NewCompositor() *Compositor {
	return &Compositor{}
}

// Composite центрирует sprite в точке center (X — столбец, Y — строка)
// и смешивает пиксели: dst = (1-a)*dst + a*src.
// Часть спрайта за границами холста отбрасывается.
func (c *Compositor) Composite(canvas *image.RGBA, sprite image.Image, center image.Point) *image.RGBA {
	if canvas == nil || sprite == nil {
		return canvas
	}

	dr, sp := Region(canvas.Bounds(), sprite.Bounds(), center)
	if dr.Empty() {
		return canvas
	}

	src, _ := sprite.(*image.NRGBA)
	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			var s color.NRGBA
			if src != nil {
				s = src.NRGBAAt(sp.X+x, sp.Y+y)
			} else {
				s = color.NRGBAModel.Convert(sprite.At(sp.X+x, sp.Y+y)).(color.NRGBA)
			}
			if s.A == 0 {
				continue
			}

			i := canvas.PixOffset(dr.Min.X+x, dr.Min.Y+y)
			px := canvas.Pix[i : i+3 : i+3]
			px[0] = blend(px[0], s.R, s.A)
			px[1] = blend(px[1], s.G, s.A)
			px[2] = blend(px[2], s.B, s.A)
		}
	}
	return canvas
}

// Region возвращает прямоугольник холста, куда ляжет спрайт, уже обрезанный
// по границам, и точку спрайта, соответствующую его левому верхнему углу.
func Region(canvas, sprite image.Rectangle, center image.Point) (image.Rectangle, image.Point) {
	if sprite.Empty() {
		return image.Rectangle{}, sprite.Min
	}

	m := sprite.Dy() / 2
	origin := center.Sub(image.Pt(m, m))
	full := image.Rectangle{Min: origin, Max: origin.Add(sprite.Size())}

	dr := full.Intersect(canvas)
	if dr.Empty() {
		return image.Rectangle{}, sprite.Min
	}
	return dr, sprite.Min.Add(dr.Min.Sub(origin))
}

// blend смешивает канал с альфой a в диапазоне [0, 255] с округлением.
func blend(dst, src, a uint8) uint8 {
	if a == 255 {
		return src
	}
	na := 255 - uint32(a)
	return uint8((uint32(dst)*na + uint32(src)*uint32(a) + 127) / 255)
}

var _ port.Compositor = (*Compositor)(nil)
