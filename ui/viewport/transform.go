// Package viewport converts between screen, page-pixel, and normalized
// page coordinates for the document canvas.
package viewport

import (
	"invoice-review/pkg/geometry"
)

const (
	minZoom = 0.05
	maxZoom = 16.0

	// FrameRegion sizes the framed box to this fraction of the shorter
	// viewport dimension, never zooming past frameZoomCap.
	frameFraction = 0.3
	frameZoomCap  = 5.0
)

// Transform maps between three coordinate spaces: screen (viewport
// pixels), page pixels of the rendered page image, and normalized page
// coordinates in [0,1].
type Transform struct {
	Zoom             float64 // screen pixels per page pixel
	OffsetX, OffsetY float64 // screen position of the page's top-left corner
	PageW, PageH     float64 // rendered page size in pixels
	ViewW, ViewH     float64 // viewport size in pixels
}

// SetPage records the rendered page dimensions and fits it to the view.
func (t *Transform) SetPage(w, h float64) {
	t.PageW = w
	t.PageH = h
	t.Fit()
}

// SetViewport records the viewport size.
func (t *Transform) SetViewport(w, h float64) {
	t.ViewW = w
	t.ViewH = h
}

// Fit zooms so the whole page is visible, centered in the viewport.
func (t *Transform) Fit() {
	if t.PageW <= 0 || t.PageH <= 0 || t.ViewW <= 0 || t.ViewH <= 0 {
		t.Zoom = 1
		t.OffsetX = 0
		t.OffsetY = 0
		return
	}
	zx := t.ViewW / t.PageW
	zy := t.ViewH / t.PageH
	z := zx
	if zy < zx {
		z = zy
	}
	t.Zoom = clampZoom(z * 0.95) // small margin
	t.centerOn(0.5, 0.5)
}

// ScreenToPage converts viewport coordinates to page pixels.
func (t *Transform) ScreenToPage(sx, sy float64) (float64, float64) {
	return (sx - t.OffsetX) / t.Zoom, (sy - t.OffsetY) / t.Zoom
}

// PageToScreen converts page pixels to viewport coordinates.
func (t *Transform) PageToScreen(px, py float64) (float64, float64) {
	return px*t.Zoom + t.OffsetX, py*t.Zoom + t.OffsetY
}

// ScreenToNormalized converts viewport coordinates to normalized page
// coordinates. The second value is false when the point is off the page.
func (t *Transform) ScreenToNormalized(sx, sy float64) (geometry.Point2D, bool) {
	if t.PageW <= 0 || t.PageH <= 0 || t.Zoom <= 0 {
		return geometry.Point2D{}, false
	}
	px, py := t.ScreenToPage(sx, sy)
	nx := px / t.PageW
	ny := py / t.PageH
	if nx < 0 || nx > 1 || ny < 0 || ny > 1 {
		return geometry.Point2D{}, false
	}
	return geometry.Point2D{X: nx, Y: ny}, true
}

// NormalizedToScreen converts normalized page coordinates to viewport
// coordinates.
func (t *Transform) NormalizedToScreen(nx, ny float64) (float64, float64) {
	return t.PageToScreen(nx*t.PageW, ny*t.PageH)
}

// ZoomAt scales the zoom by factor, keeping the page point under the
// given screen position fixed.
func (t *Transform) ZoomAt(factor, sx, sy float64) {
	px, py := t.ScreenToPage(sx, sy)
	t.Zoom = clampZoom(t.Zoom * factor)
	t.OffsetX = sx - px*t.Zoom
	t.OffsetY = sy - py*t.Zoom
}

// PanBy shifts the view by a screen-space delta.
func (t *Transform) PanBy(dx, dy float64) {
	t.OffsetX += dx
	t.OffsetY += dy
}

// FrameRegion zooms and pans so the box fills a readable share of the
// viewport: its longer side takes frameFraction of the shorter viewport
// dimension, capped at frameZoomCap. Framing the same box twice leaves
// the view unchanged.
func (t *Transform) FrameRegion(box geometry.BoundingBox) {
	if t.PageW <= 0 || t.PageH <= 0 || t.ViewW <= 0 || t.ViewH <= 0 {
		return
	}
	b := box.Canonical()
	longer := b.Width() * t.PageW
	if h := b.Height() * t.PageH; h > longer {
		longer = h
	}

	if longer > 0 {
		short := t.ViewW
		if t.ViewH < short {
			short = t.ViewH
		}
		z := frameFraction * short / longer
		if z > frameZoomCap {
			z = frameZoomCap
		}
		t.Zoom = clampZoom(z)
	}

	c := b.Center()
	t.centerOn(c.X, c.Y)
}

// centerOn pans so the normalized point maps to the viewport center.
func (t *Transform) centerOn(nx, ny float64) {
	t.OffsetX = t.ViewW/2 - nx*t.PageW*t.Zoom
	t.OffsetY = t.ViewH/2 - ny*t.PageH*t.Zoom
}

func clampZoom(z float64) float64 {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}
