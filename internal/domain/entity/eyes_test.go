package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEyeAnchorPairDistance(t *testing.T) {
	p := EyeAnchorPair{Left: image.Pt(80, 50), Right: image.Pt(220, 50)}
	require.InDelta(t, 140.0, p.Distance(), 1e-9)

	p = EyeAnchorPair{Left: image.Pt(0, 0), Right: image.Pt(3, 4)}
	require.InDelta(t, 5.0, p.Distance(), 1e-9)

	p = EyeAnchorPair{Left: image.Pt(7, 7), Right: image.Pt(7, 7)}
	require.Zero(t, p.Distance())
}

func TestRelativeToPixel(t *testing.T) {
	bounds := image.Rect(0, 0, 500, 200)
	require.Equal(t, image.Pt(165, 100), RelativeToPixel(bounds, 0.33, 0.5))
	require.Equal(t, image.Pt(499, 199), RelativeToPixel(bounds, 1.0, 1.0))
	require.Equal(t, image.Pt(0, 0), RelativeToPixel(bounds, -0.2, 0))
}

func TestClampPoint(t *testing.T) {
	bounds := image.Rect(0, 0, 10, 20)
	require.Equal(t, image.Pt(9, 19), ClampPoint(image.Pt(50, 50), bounds))
	require.Equal(t, image.Pt(0, 0), ClampPoint(image.Pt(-3, -1), bounds))
	require.Equal(t, image.Pt(4, 5), ClampPoint(image.Pt(4, 5), bounds))
}
