package port

import (
	"context"
	"image"

	"googly-bot/internal/domain/entity"
)

// EyeDetector интерфейс детектора глаз
type EyeDetector interface {
	// DetectEyes находит лица и возвращает координаты обоих глаз каждого лица.
	// Координаты уже прижаты к границам изображения.
	DetectEyes(ctx context.Context, img image.Image) ([]entity.EyeAnchorPair, error)
}
