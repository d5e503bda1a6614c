package vision

import (
	"errors"
	"image"
	"sort"

	"googly-bot/internal/domain/entity"
)

// ErrGoCVDisabled бинарь собран без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// Положение глаз на лице, если каскад глаз ничего не нашёл.
const (
	fallbackLeftX  = 0.3
	fallbackRightX = 0.7
	fallbackEyeY   = 0.4
)

// faceAnchors выбирает два глаза для лица face.
// eyes — найденные рамки глаз в координатах всего изображения.
func faceAnchors(face image.Rectangle, eyes []image.Rectangle, bounds image.Rectangle) entity.EyeAnchorPair {
	upper := image.Rect(face.Min.X, face.Min.Y, face.Max.X, face.Min.Y+face.Dy()/2+1)

	candidates := make([]image.Rectangle, 0, len(eyes))
	for _, e := range eyes {
		if rectCenter(e).In(upper) {
			candidates = append(candidates, e)
		}
	}

	var pair entity.EyeAnchorPair
	if len(candidates) >= 2 {
		// Два самых крупных кандидата, слева направо.
		sort.SliceStable(candidates, func(i, j int) bool {
			return area(candidates[i]) > area(candidates[j])
		})
		a, b := rectCenter(candidates[0]), rectCenter(candidates[1])
		if b.X < a.X {
			a, b = b, a
		}
		pair = entity.EyeAnchorPair{Left: a, Right: b}
	} else {
		pair = entity.EyeAnchorPair{
			Left:  entity.RelativeToPixel(face, fallbackLeftX, fallbackEyeY),
			Right: entity.RelativeToPixel(face, fallbackRightX, fallbackEyeY),
		}
	}

	pair.Left = entity.ClampPoint(pair.Left, bounds)
	pair.Right = entity.ClampPoint(pair.Right, bounds)
	return pair
}

func rectCenter(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
