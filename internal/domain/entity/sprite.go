package entity

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrInvalidSpriteConfig геометрия шаблона глаза вырождена или вывернута.
var ErrInvalidSpriteConfig = errors.New("invalid sprite config")

// SpriteConfig геометрия шаблона мультяшного глаза.
type SpriteConfig struct {
	TemplateSize     int         `yaml:"template_size"`      // сторона квадратного шаблона
	Center           image.Point `yaml:"center"`             // центр радужки
	OuterRadius      int         `yaml:"outer_radius"`       // радиус радужки
	OutlineWidth     int         `yaml:"outline_width"`      // толщина чёрной обводки
	PupilRadius      int         `yaml:"pupil_radius"`       // радиус зрачка
	HighlightRadius  int         `yaml:"highlight_radius"`   // радиус блика
	PupilOffset      int         `yaml:"pupil_offset"`       // сдвиг зрачка по X
	HighlightOffsetX int         `yaml:"highlight_offset_x"` // сдвиг блика от зрачка по X
	HighlightOffsetY int         `yaml:"highlight_offset_y"` // сдвиг блика от зрачка по Y
	SizeScale        float64     `yaml:"size_scale"`         // размер глаза относительно межглазного расстояния
}

// DefaultSpriteConfig возвращает стандартную геометрию глаза 1000x1000.
func DefaultSpriteConfig() SpriteConfig {
	return SpriteConfig{
		TemplateSize:     1000,
		Center:           image.Pt(500, 500),
		OuterRadius:      450,
		OutlineWidth:     40,
		PupilRadius:      250,
		HighlightRadius:  40,
		PupilOffset:      200,
		HighlightOffsetX: 115,
		HighlightOffsetY: -60,
		SizeScale:        0.75,
	}
}

// PupilCenter центр зрачка.
func (c SpriteConfig) PupilCenter() image.Point {
	return c.Center.Add(image.Pt(c.PupilOffset, 0))
}

// HighlightCenter центр блика.
func (c SpriteConfig) HighlightCenter() image.Point {
	return c.PupilCenter().Add(image.Pt(c.HighlightOffsetX, c.HighlightOffsetY))
}

// Validate проверяет, что шаблон получится невырожденным.
func (c SpriteConfig) Validate() error {
	if c.TemplateSize <= 0 {
		return fmt.Errorf("%w: template size must be positive, got %d", ErrInvalidSpriteConfig, c.TemplateSize)
	}
	if c.OuterRadius <= 0 || c.PupilRadius <= 0 || c.HighlightRadius <= 0 {
		return fmt.Errorf("%w: radii must be positive", ErrInvalidSpriteConfig)
	}
	if c.OutlineWidth < 0 {
		return fmt.Errorf("%w: outline width must not be negative", ErrInvalidSpriteConfig)
	}
	if !(c.OuterRadius > c.PupilRadius && c.PupilRadius > c.HighlightRadius) {
		return fmt.Errorf("%w: expected outer > pupil > highlight, got %d, %d, %d",
			ErrInvalidSpriteConfig, c.OuterRadius, c.PupilRadius, c.HighlightRadius)
	}
	if math.IsNaN(c.SizeScale) || math.IsInf(c.SizeScale, 0) || c.SizeScale <= 0 {
		return fmt.Errorf("%w: size scale must be positive and finite, got %v", ErrInvalidSpriteConfig, c.SizeScale)
	}

	bounds := image.Rect(0, 0, c.TemplateSize, c.TemplateSize)
	outer := discBounds(c.Center, c.OuterRadius)
	if !outer.In(bounds) {
		return fmt.Errorf("%w: iris %v does not fit into template %v", ErrInvalidSpriteConfig, outer, bounds)
	}
	if !discInside(c.PupilCenter(), c.PupilRadius, c.Center, c.OuterRadius) {
		return fmt.Errorf("%w: pupil leaves the iris", ErrInvalidSpriteConfig)
	}
	if !discInside(c.HighlightCenter(), c.HighlightRadius, c.Center, c.OuterRadius) {
		return fmt.Errorf("%w: highlight leaves the iris", ErrInvalidSpriteConfig)
	}
	return nil
}

func discBounds(center image.Point, radius int) image.Rectangle {
	return image.Rect(center.X-radius, center.Y-radius, center.X+radius+1, center.Y+radius+1)
}

// discInside проверяет, что круг (c, r) целиком лежит внутри круга (outer, R).
func discInside(c image.Point, r int, outer image.Point, R int) bool {
	d := math.Hypot(float64(c.X-outer.X), float64(c.Y-outer.Y))
	return d+float64(r) <= float64(R)
}
