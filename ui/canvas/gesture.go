package canvas

import (
	"invoice-review/internal/invoice"
	"invoice-review/pkg/geometry"
)

// Handle identifies which part of a box a pointer-down grabbed.
type Handle int

const (
	HandleNone Handle = iota
	HandleBody
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureMove
	gestureResize
	gestureDraw
)

// HitHandle tests a normalized point against a box's corner handles and
// body. Corners win over the body. Tolerances are in normalized units so
// the caller can derive them from the current zoom.
func HitHandle(box geometry.BoundingBox, p geometry.Point2D, tolX, tolY float64) Handle {
	b := box.Canonical()
	near := func(x, y float64) bool {
		dx := p.X - x
		dy := p.Y - y
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		return dx <= tolX && dy <= tolY
	}
	switch {
	case near(b.X1, b.Y1):
		return HandleTopLeft
	case near(b.X2, b.Y1):
		return HandleTopRight
	case near(b.X1, b.Y2):
		return HandleBottomLeft
	case near(b.X2, b.Y2):
		return HandleBottomRight
	case b.Contains(p):
		return HandleBody
	}
	return HandleNone
}

// Gesture tracks one in-progress box interaction. At most one gesture is
// active at a time; starting a new one replaces any leftover state.
//
// During a drag the working box may be inverted (a corner dragged past
// its opposite) and is only normalized when the gesture ends, so the
// grabbed corner keeps following the pointer.
type Gesture struct {
	kind   gestureKind
	target invoice.FieldLocator
	handle Handle
	anchor geometry.Point2D
	orig   geometry.BoundingBox
	cur    geometry.BoundingBox
}

// Active reports whether a gesture is in progress.
func (g *Gesture) Active() bool {
	return g.kind != gestureNone
}

// Target returns the locator being edited. Meaningless for draw gestures.
func (g *Gesture) Target() invoice.FieldLocator {
	return g.target
}

// StartMove begins dragging a whole box from a grab point inside it.
func (g *Gesture) StartMove(target invoice.FieldLocator, box geometry.BoundingBox, p geometry.Point2D) {
	g.kind = gestureMove
	g.target = target
	g.handle = HandleBody
	g.anchor = p
	g.orig = box.Canonical()
	g.cur = g.orig
}

// StartResize begins dragging one corner of a box.
func (g *Gesture) StartResize(target invoice.FieldLocator, box geometry.BoundingBox, handle Handle, p geometry.Point2D) {
	g.kind = gestureResize
	g.target = target
	g.handle = handle
	g.anchor = p
	g.orig = box.Canonical()
	g.cur = g.orig
}

// StartDraw begins rubber-banding a new box on the given page.
func (g *Gesture) StartDraw(page int, p geometry.Point2D) {
	g.kind = gestureDraw
	g.target = invoice.FieldLocator{}
	g.handle = HandleNone
	g.anchor = p
	g.cur = geometry.BoundingBox{Page: page, X1: p.X, Y1: p.Y, X2: p.X, Y2: p.Y}
}

// Update advances the gesture to a new on-page pointer position. Callers
// drop off-page positions, so a pointer that leaves the page simply
// holds the last delta until it returns.
func (g *Gesture) Update(p geometry.Point2D) {
	switch g.kind {
	case gestureMove:
		dx := p.X - g.anchor.X
		dy := p.Y - g.anchor.Y
		// Keep the whole box on the page.
		if g.orig.X1+dx < 0 {
			dx = -g.orig.X1
		}
		if g.orig.X2+dx > 1 {
			dx = 1 - g.orig.X2
		}
		if g.orig.Y1+dy < 0 {
			dy = -g.orig.Y1
		}
		if g.orig.Y2+dy > 1 {
			dy = 1 - g.orig.Y2
		}
		g.cur = g.orig.Translate(dx, dy)

	case gestureResize:
		g.cur = g.orig
		switch g.handle {
		case HandleTopLeft:
			g.cur.X1, g.cur.Y1 = p.X, p.Y
		case HandleTopRight:
			g.cur.X2, g.cur.Y1 = p.X, p.Y
		case HandleBottomLeft:
			g.cur.X1, g.cur.Y2 = p.X, p.Y
		case HandleBottomRight:
			g.cur.X2, g.cur.Y2 = p.X, p.Y
		}

	case gestureDraw:
		g.cur.X2, g.cur.Y2 = p.X, p.Y
	}
}

// Current returns the working box, possibly inverted mid-drag.
func (g *Gesture) Current() geometry.BoundingBox {
	return g.cur
}

// Drawing reports whether a new-box rubber band is in progress.
func (g *Gesture) Drawing() bool {
	return g.kind == gestureDraw
}

// End finishes the gesture and returns the normalized result. The second
// value is false when no gesture was active.
func (g *Gesture) End() (geometry.BoundingBox, bool) {
	if g.kind == gestureNone {
		return geometry.BoundingBox{}, false
	}
	box := g.cur.Canonical()
	g.kind = gestureNone
	return box, true
}

// Cancel discards the gesture without producing a result.
func (g *Gesture) Cancel() {
	g.kind = gestureNone
}
