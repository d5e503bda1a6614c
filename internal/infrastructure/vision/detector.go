//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"googly-bot/internal/domain/entity"
	"googly-bot/internal/domain/port"
)

// CascadeDetector ищет лица и глаза каскадами Хаара из OpenCV.
type CascadeDetector struct {
	MinFaceSide  int
	ScaleFactor  float64
	MinNeighbors int

	// Каскады OpenCV не рассчитаны на параллельные вызовы.
	mu   sync.Mutex
	face gocv.CascadeClassifier
	eye  gocv.CascadeClassifier
}

// NewCascadeDetector загружает каскады лица и глаз из XML-файлов.
func NewCascadeDetector(faceModel, eyeModel string) (*CascadeDetector, error) {
	face := gocv.NewCascadeClassifier()
	if !face.Load(faceModel) {
		face.Close()
		return nil, fmt.Errorf("load face cascade %q", faceModel)
	}

	eye := gocv.NewCascadeClassifier()
	if !eye.Load(eyeModel) {
		face.Close()
		eye.Close()
		return nil, fmt.Errorf("load eye cascade %q", eyeModel)
	}

	return &CascadeDetector{
		MinFaceSide:  40,
		ScaleFactor:  1.1,
		MinNeighbors: 5,
		face:         face,
		eye:          eye,
	}, nil
}

// DetectEyes находит лица и возвращает пары глаз, прижатые к границам изображения.
func (d *CascadeDetector) DetectEyes(ctx context.Context, img image.Image) ([]entity.EyeAnchorPair, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, nil
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	// Выравниваем гистограмму, чтобы каскады меньше зависели от освещения.
	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(gray, &equalized)

	d.mu.Lock()
	defer d.mu.Unlock()

	minFace := image.Pt(d.MinFaceSide, d.MinFaceSide)
	faces := d.face.DetectMultiScaleWithParams(equalized, d.ScaleFactor, d.MinNeighbors, 0, minFace, image.Point{})

	// Mat начинается в (0, 0), а изображение может начинаться где угодно.
	offset := bounds.Min
	local := image.Rect(0, 0, bounds.Dx(), bounds.Dy())

	pairs := make([]entity.EyeAnchorPair, 0, len(faces))
	for _, f := range faces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f = f.Intersect(local)
		if f.Empty() {
			continue
		}

		upper := image.Rect(f.Min.X, f.Min.Y, f.Max.X, f.Min.Y+f.Dy()/2)
		roi := equalized.Region(upper)
		eyes := d.eye.DetectMultiScale(roi)
		roi.Close()

		for i := range eyes {
			eyes[i] = eyes[i].Add(upper.Min)
		}

		pair := faceAnchors(f, eyes, local)
		pairs = append(pairs, entity.EyeAnchorPair{
			Left:  pair.Left.Add(offset),
			Right: pair.Right.Add(offset),
		})
	}

	return pairs, nil
}

// Close освобождает каскады OpenCV.
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.face.Close(); err != nil {
		return err
	}
	return d.eye.Close()
}

var _ port.EyeDetector = (*CascadeDetector)(nil)
