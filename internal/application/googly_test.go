package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"googly-bot/internal/domain/entity"
	"googly-bot/internal/domain/port"
	"googly-bot/internal/infrastructure/logging"
	"googly-bot/internal/infrastructure/overlay"
	"googly-bot/internal/infrastructure/sprite"
)

type fakeDetector struct {
	detections []entity.EyeAnchorPair
	err        error
}

func (d *fakeDetector) DetectEyes(ctx context.Context, img image.Image) ([]entity.EyeAnchorPair, error) {
	return d.detections, d.err
}

// solidGenerator выдаёт непрозрачные квадраты по очереди из палитры.
type solidGenerator struct {
	size      int
	palette   []color.NRGBA
	distances []float64
}

func (g *solidGenerator) Generate(d float64) *image.NRGBA {
	c := g.palette[len(g.distances)%len(g.palette)]
	g.distances = append(g.distances, d)

	img := image.NewNRGBA(image.Rect(0, 0, g.size, g.size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

type recordingCompositor struct {
	centers []image.Point
	next    *overlay.Compositor
}

func (c *recordingCompositor) Composite(canvas *image.RGBA, s image.Image, center image.Point) *image.RGBA {
	c.centers = append(c.centers, center)
	return c.next.Composite(canvas, s, center)
}

func whiteCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

func newRealService(t *testing.T, sizeScale float64, detector port.EyeDetector) *GooglyService {
	t.Helper()
	cfg := entity.DefaultSpriteConfig()
	cfg.SizeScale = sizeScale

	tpl, err := sprite.NewTemplate(cfg)
	require.NoError(t, err)

	return NewGooglyService(detector, sprite.NewGenerator(tpl, sprite.NewRandom(2024)), overlay.NewCompositor(), logging.Discard())
}

func TestGooglyService_ProcessEndToEnd(t *testing.T) {
	svc := newRealService(t, 0.5, nil)
	canvas := whiteCanvas(500, 200)
	face := entity.EyeAnchorPair{Left: image.Pt(80, 50), Right: image.Pt(220, 50)}

	got := svc.Process(canvas, []entity.EyeAnchorPair{face})
	require.Same(t, canvas, got)

	for _, eye := range []image.Point{face.Left, face.Right} {
		c := got.RGBAAt(eye.X, eye.Y)
		require.NotEqual(t, uint8(255), c.R, "eye center %v must be covered", eye)
		require.Equal(t, color.RGBA{A: 255}, c, "eye center %v is the pupil", eye)
	}

	// Сторона спрайта не больше 140*0.5*1.25, значит ниже 94-й строки ничего не меняется.
	for y := 94; y < 200; y++ {
		for x := 0; x < 500; x++ {
			require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got.RGBAAt(x, y), "pixel (%d, %d)", x, y)
		}
	}
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got.RGBAAt(450, 20))
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, got.RGBAAt(150, 50))
}

func TestGooglyService_ProcessNoDetections(t *testing.T) {
	svc := newRealService(t, 0.75, nil)
	canvas := whiteCanvas(64, 48)
	canvas.SetRGBA(3, 4, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	want := append([]byte(nil), canvas.Pix...)

	got := svc.Process(canvas, nil)
	require.Equal(t, want, got.Pix)
}

func TestGooglyService_ProcessOrderAndIndependentEyes(t *testing.T) {
	gen := &solidGenerator{size: 10, palette: []color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
	}}
	comp := &recordingCompositor{next: overlay.NewCompositor()}
	svc := NewGooglyService(nil, gen, comp, logging.Discard())

	faces := []entity.EyeAnchorPair{
		{Left: image.Pt(10, 10), Right: image.Pt(13, 14)},
		{Left: image.Pt(40, 40), Right: image.Pt(40, 40)},
	}
	canvas := svc.Process(whiteCanvas(60, 60), faces)

	require.Equal(t, []float64{5, 5, 0, 0}, gen.distances)
	require.Equal(t, []image.Point{{10, 10}, {13, 14}, {40, 40}, {40, 40}}, comp.centers)

	// Правый глаз первого лица лёг поверх левого.
	require.Equal(t, color.RGBA{G: 255, A: 255}, canvas.RGBAAt(12, 12))
	// Во втором лице оба глаза в одной точке, побеждает последний.
	require.Equal(t, color.RGBA{R: 255, G: 255, A: 255}, canvas.RGBAAt(40, 40))
}

func TestGooglyService_ProcessDegenerateFace(t *testing.T) {
	svc := newRealService(t, 0.75, nil)
	canvas := whiteCanvas(30, 30)
	want := append([]byte(nil), canvas.Pix...)

	// Глаза в одной точке: размер спрайта 0, холст не меняется.
	got := svc.Process(canvas, []entity.EyeAnchorPair{{Left: image.Pt(5, 5), Right: image.Pt(5, 5)}})
	require.Equal(t, want, got.Pix)
}

func TestGooglyService_ProcessEyesOnBorder(t *testing.T) {
	svc := newRealService(t, 1.0, nil)
	canvas := whiteCanvas(100, 80)

	require.NotPanics(t, func() {
		svc.Process(canvas, []entity.EyeAnchorPair{{Left: image.Pt(0, 0), Right: image.Pt(99, 79)}})
	})
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGooglyService_Decorate(t *testing.T) {
	detector := &fakeDetector{detections: []entity.EyeAnchorPair{
		{Left: image.Pt(80, 50), Right: image.Pt(220, 50)},
	}}
	svc := newRealService(t, 0.5, detector)

	out, err := svc.Decorate(context.Background(), encodePNG(t, whiteCanvas(500, 200)))
	require.NoError(t, err)
	require.Equal(t, 1, out.Faces)

	decoded, err := DecodeCanvas(out.Image)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 500, 200), decoded.Bounds())
	require.Equal(t, color.RGBA{A: 255}, decoded.RGBAAt(80, 50))
}

func TestGooglyService_DecorateErrors(t *testing.T) {
	ctx := context.Background()

	svc := newRealService(t, 0.5, nil)
	_, err := svc.Decorate(ctx, []byte("not an image"))
	require.ErrorIs(t, err, ErrDetectorNotConfigured)

	svc = newRealService(t, 0.5, &fakeDetector{})
	_, err = svc.Decorate(ctx, []byte("not an image"))
	require.ErrorIs(t, err, ErrInvalidImage)

	boom := errors.New("boom")
	svc = newRealService(t, 0.5, &fakeDetector{err: boom})
	_, err = svc.Decorate(ctx, encodePNG(t, whiteCanvas(10, 10)))
	require.ErrorIs(t, err, boom)
}

func TestDecodeCanvas_NormalizesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 15, 25))
	draw.Draw(src, src.Bounds(), &image.Uniform{C: color.RGBA{R: 9, A: 255}}, image.Point{}, draw.Src)

	canvas, err := DecodeCanvas(encodePNG(t, src))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 10, 20), canvas.Bounds())
	require.Equal(t, color.RGBA{R: 9, A: 255}, canvas.RGBAAt(0, 0))
}
