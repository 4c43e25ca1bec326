package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPixelsRoundTrip(t *testing.T) {
	cases := []struct {
		name                   string
		xmin, ymin, xmax, ymax float64
		pageW, pageH           float64
	}{
		{"letter page", 120.5, 340.25, 480.75, 402.5, 2550, 3300},
		{"tiny region", 1, 1, 2, 3, 800, 600},
		{"full page", 0, 0, 1240, 1754, 1240, 1754},
		{"a4 scan", 733.2, 91.8, 1180.1, 140.4, 1240, 1754},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			box := FromPixels(1, tc.xmin, tc.ymin, tc.xmax, tc.ymax, tc.pageW, tc.pageH)
			xmin, ymin, xmax, ymax := box.ToPixels(tc.pageW, tc.pageH)

			assert.InDelta(t, tc.xmin, xmin, 1e-9)
			assert.InDelta(t, tc.ymin, ymin, 1e-9)
			assert.InDelta(t, tc.xmax, xmax, 1e-9)
			assert.InDelta(t, tc.ymax, ymax, 1e-9)
		})
	}
}

func TestFromPixelsNormalizes(t *testing.T) {
	box := FromPixels(3, 500, 300, 1500, 900, 2000, 1200)

	assert.Equal(t, 3, box.Page)
	assert.InDelta(t, 0.25, box.X1, 1e-12)
	assert.InDelta(t, 0.25, box.Y1, 1e-12)
	assert.InDelta(t, 0.75, box.X2, 1e-12)
	assert.InDelta(t, 0.75, box.Y2, 1e-12)
}

func TestCanonicalSwapsInvertedCoordinates(t *testing.T) {
	box := BoundingBox{Page: 1, X1: 0.8, Y1: 0.2, X2: 0.3, Y2: 0.6}
	c := box.Canonical()

	assert.Equal(t, BoundingBox{Page: 1, X1: 0.3, Y1: 0.2, X2: 0.8, Y2: 0.6}, c)

	// Already-canonical boxes pass through unchanged.
	assert.Equal(t, c, c.Canonical())
}

func TestContainsToleratesInvertedBox(t *testing.T) {
	box := BoundingBox{Page: 1, X1: 0.9, Y1: 0.9, X2: 0.1, Y2: 0.1}

	assert.True(t, box.Contains(Point2D{X: 0.5, Y: 0.5}))
	assert.False(t, box.Contains(Point2D{X: 0.95, Y: 0.5}))
}

func TestTranslate(t *testing.T) {
	box := BoundingBox{Page: 2, X1: 0.1, Y1: 0.2, X2: 0.3, Y2: 0.4}
	moved := box.Translate(0.05, -0.1)

	require.Equal(t, 2, moved.Page)
	assert.InDelta(t, 0.15, moved.X1, 1e-12)
	assert.InDelta(t, 0.1, moved.Y1, 1e-12)
	assert.InDelta(t, 0.35, moved.X2, 1e-12)
	assert.InDelta(t, 0.3, moved.Y2, 1e-12)

	// Width and height are preserved by translation.
	assert.InDelta(t, box.Width(), moved.Width(), 1e-12)
	assert.InDelta(t, box.Height(), moved.Height(), 1e-12)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.2))
	assert.Equal(t, 1.0, Clamp01(1.7))
	assert.Equal(t, 0.42, Clamp01(0.42))
}
