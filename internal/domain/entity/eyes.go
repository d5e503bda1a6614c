package entity

import (
	"image"
	"math"
)

// EyeAnchorPair координаты левого и правого глаза одного лица в пикселях.
// X — столбец, Y — строка, как в пакете image.
type EyeAnchorPair struct {
	Left  image.Point
	Right image.Point
}

// Distance возвращает евклидово расстояние между глазами.
func (p EyeAnchorPair) Distance() float64 {
	dx := float64(p.Right.X - p.Left.X)
	dy := float64(p.Right.Y - p.Left.Y)
	return math.Hypot(dx, dy)
}

// ClampPoint прижимает точку к допустимому диапазону индексов изображения.
func ClampPoint(p image.Point, bounds image.Rectangle) image.Point {
	if bounds.Empty() {
		return bounds.Min
	}
	return image.Point{
		X: clamp(p.X, bounds.Min.X, bounds.Max.X-1),
		Y: clamp(p.Y, bounds.Min.Y, bounds.Max.Y-1),
	}
}

// RelativeToPixel переводит нормализованные координаты [0, 1] в индексы пикселей.
func RelativeToPixel(bounds image.Rectangle, x, y float64) image.Point {
	p := image.Point{
		X: bounds.Min.X + int(math.Floor(x*float64(bounds.Dx()))),
		Y: bounds.Min.Y + int(math.Floor(y*float64(bounds.Dy()))),
	}
	return ClampPoint(p, bounds)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
