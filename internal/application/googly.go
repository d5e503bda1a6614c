package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"googly-bot/internal/domain/entity"
	"googly-bot/internal/domain/port"
)

var (
	// ErrInvalidImage входные байты не декодируются как JPEG/PNG.
	ErrInvalidImage = errors.New("invalid image")
	// ErrDetectorNotConfigured детектор глаз не подключён.
	ErrDetectorNotConfigured = errors.New("eye detector is not configured")
)

// GooglyService наклеивает мультяшные глаза на найденные лица.
type GooglyService struct {
	detector   port.EyeDetector
	generator  port.SpriteGenerator
	compositor port.Compositor
	log        *logrus.Logger
}

// DecorateOutput результат обработки фото.
type DecorateOutput struct {
	Image []byte // PNG
	Faces int    // сколько лиц найдено
}

// NewGooglyService создаёт сервис. Детектор может быть nil, тогда доступен только Process.
func NewGooglyService(detector port.EyeDetector, generator port.SpriteGenerator, compositor port.Compositor, log *logrus.Logger) *GooglyService {
	return &GooglyService{
		detector:   detector,
		generator:  generator,
		compositor: compositor,
		log:        log,
	}
}

// Process накладывает по паре глаз на каждое лицо в порядке detections.
// Холст меняется на месте и возвращается вызывающему; при перекрытии
// побеждает спрайт, наложенный последним.
func (s *GooglyService) Process(canvas *image.RGBA, detections []entity.EyeAnchorPair) *image.RGBA {
	for _, face := range detections {
		distance := face.Distance()

		// Левый и правый глаз — независимые экземпляры, не зеркальные.
		left := s.generator.Generate(distance)
		right := s.generator.Generate(distance)

		canvas = s.compositor.Composite(canvas, left, face.Left)
		canvas = s.compositor.Composite(canvas, right, face.Right)
	}
	return canvas
}

// Decorate декодирует фото, ищет глаза, наклеивает спрайты и кодирует результат в PNG.
func (s *GooglyService) Decorate(ctx context.Context, imageData []byte) (*DecorateOutput, error) {
	if s.detector == nil {
		return nil, ErrDetectorNotConfigured
	}

	requestID := uuid.NewString()
	log := s.log.WithField("request_id", requestID)

	canvas, err := DecodeCanvas(imageData)
	if err != nil {
		return nil, err
	}

	detections, err := s.detector.DetectEyes(ctx, canvas)
	if err != nil {
		return nil, fmt.Errorf("detect eyes: %w", err)
	}
	log.WithFields(logrus.Fields{
		"width":  canvas.Bounds().Dx(),
		"height": canvas.Bounds().Dy(),
		"faces":  len(detections),
	}).Info("eyes detected")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	canvas = s.Process(canvas, detections)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	log.WithField("bytes", buf.Len()).Debug("photo decorated")
	return &DecorateOutput{Image: buf.Bytes(), Faces: len(detections)}, nil
}

// DecodeCanvas декодирует JPEG/PNG в холст *image.RGBA с началом в (0, 0).
func DecodeCanvas(imageData []byte) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)
	return canvas, nil
}
