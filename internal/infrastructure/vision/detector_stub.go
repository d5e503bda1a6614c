//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"googly-bot/internal/domain/entity"
	"googly-bot/internal/domain/port"
)

type CascadeDetector struct {
	MinFaceSide  int
	ScaleFactor  float64
	MinNeighbors int
}

// NewCascadeDetector создаёт детектор-заглушку (без OpenCV).
func NewCascadeDetector(faceModel, eyeModel string) (*CascadeDetector, error) {
	_ = faceModel
	_ = eyeModel
	return &CascadeDetector{
		MinFaceSide:  40,
		ScaleFactor:  1.1,
		MinNeighbors: 5,
	}, nil
}

// DetectEyes возвращает ошибку, если сборка без тега gocv.
func (d *CascadeDetector) DetectEyes(ctx context.Context, img image.Image) ([]entity.EyeAnchorPair, error) {
	_ = ctx
	_ = img
	return nil, ErrGoCVDisabled
}

// Close ничего не делает.
func (d *CascadeDetector) Close() error {
	return nil
}

var _ port.EyeDetector = (*CascadeDetector)(nil)
