package sprite

import (
	"image"
	"image/color"

	"googly-bot/internal/domain/entity"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

// Template неизменяемый шаблон глаза. Строится один раз при старте
// и дальше только читается, поэтому безопасен для параллельных запросов.
type Template struct {
	img *image.NRGBA
	cfg entity.SpriteConfig
}

// NewTemplate проверяет конфигурацию и рисует шаблон: радужка, обводка, зрачок, блик.
func NewTemplate(cfg entity.SpriteConfig) (*Template, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Прозрачный фон: image.NewNRGBA заполняет всё нулями, альфа = 0.
	img := image.NewNRGBA(image.Rect(0, 0, cfg.TemplateSize, cfg.TemplateSize))

	fillDisc(img, cfg.Center, cfg.OuterRadius, white)
	strokeCircle(img, cfg.Center, cfg.OuterRadius, cfg.OutlineWidth, black)
	fillDisc(img, cfg.PupilCenter(), cfg.PupilRadius, black)
	fillDisc(img, cfg.HighlightCenter(), cfg.HighlightRadius, white)

	return &Template{img: img, cfg: cfg}, nil
}

// Image возвращает шаблон только для чтения.
func (t *Template) Image() image.Image {
	return t.img
}

// Config конфигурация, по которой построен шаблон.
func (t *Template) Config() entity.SpriteConfig {
	return t.cfg
}

// fillDisc закрашивает пиксели, центр которых лежит в круге радиуса r.
func fillDisc(img *image.NRGBA, c image.Point, r int, col color.NRGBA) {
	paintAnnulus(img, c, -1, r*r, r, col)
}

// strokeCircle рисует кольцо толщиной width, центрированное на окружности радиуса r.
func strokeCircle(img *image.NRGBA, c image.Point, r, width int, col color.NRGBA) {
	if width <= 0 {
		return
	}
	half := width / 2
	inner := r - half
	outer := r + width - half
	innerSq := -1
	if inner > 0 {
		innerSq = inner * inner
	}
	paintAnnulus(img, c, innerSq, outer*outer, outer, col)
}

// paintAnnulus закрашивает пиксели с innerSq < d² <= outerSq в пределах изображения.
func paintAnnulus(img *image.NRGBA, c image.Point, innerSq, outerSq, extent int, col color.NRGBA) {
	box := image.Rect(c.X-extent, c.Y-extent, c.X+extent+1, c.Y+extent+1).Intersect(img.Bounds())
	for y := box.Min.Y; y < box.Max.Y; y++ {
		dy := y - c.Y
		for x := box.Min.X; x < box.Max.X; x++ {
			dx := x - c.X
			d := dx*dx + dy*dy
			if d > innerSq && d <= outerSq {
				img.SetNRGBA(x, y, col)
			}
		}
	}
}
