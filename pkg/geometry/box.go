package geometry

// BoundingBox is a page-anchored rectangle in normalized coordinates.
// Page is one-indexed; X1..Y2 are fractions of the page's pixel size.
// X1 <= X2 and Y1 <= Y2 hold for boxes at rest, but not necessarily for a
// box being resized mid-gesture; call Canonical when a gesture completes.
type BoundingBox struct {
	Page int     `json:"page"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

// FromPixels builds a normalized BoundingBox from a pixel-space rectangle
// on a page of the given pixel dimensions. Page is one-indexed.
func FromPixels(page int, xmin, ymin, xmax, ymax, pageW, pageH float64) BoundingBox {
	return BoundingBox{
		Page: page,
		X1:   xmin / pageW,
		Y1:   ymin / pageH,
		X2:   xmax / pageW,
		Y2:   ymax / pageH,
	}
}

// ToPixels converts the box back to pixel coordinates for a page of the
// given dimensions. Inverse of FromPixels.
func (b BoundingBox) ToPixels(pageW, pageH float64) (xmin, ymin, xmax, ymax float64) {
	return b.X1 * pageW, b.Y1 * pageH, b.X2 * pageW, b.Y2 * pageH
}

// Canonical returns the box with coordinates swapped so X1 <= X2 and
// Y1 <= Y2.
func (b BoundingBox) Canonical() BoundingBox {
	if b.X1 > b.X2 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y1 > b.Y2 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
	return b
}

// Width returns the normalized horizontal extent.
func (b BoundingBox) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the normalized vertical extent.
func (b BoundingBox) Height() float64 {
	return b.Y2 - b.Y1
}

// Center returns the normalized center point.
func (b BoundingBox) Center() Point2D {
	return Point2D{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

// Contains reports whether a normalized point falls inside the box.
func (b BoundingBox) Contains(p Point2D) bool {
	c := b.Canonical()
	return p.X >= c.X1 && p.X <= c.X2 && p.Y >= c.Y1 && p.Y <= c.Y2
}

// Translate returns the box shifted by a normalized delta.
func (b BoundingBox) Translate(dx, dy float64) BoundingBox {
	b.X1 += dx
	b.X2 += dx
	b.Y1 += dy
	b.Y2 += dy
	return b
}

// Clamp01 limits a normalized coordinate to [0,1]. Gridline drags clamp;
// bounding box drags deliberately do not.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
