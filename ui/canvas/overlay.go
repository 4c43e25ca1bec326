package canvas

import (
	"image"
	"image/color"

	"invoice-review/internal/invoice"
)

// Annotation palette. Low-confidence fields draw amber so they pull the
// reviewer's eye first.
var (
	colorBox      = color.RGBA{R: 0x2E, G: 0x8B, B: 0xE0, A: 255}
	colorBoxWeak  = color.RGBA{R: 0xFF, G: 0xB3, B: 0x00, A: 255}
	colorActive   = color.RGBA{R: 0xFF, G: 0x57, B: 0x22, A: 255}
	colorGridline = color.RGBA{R: 0x2E, G: 0xB8, B: 0x6B, A: 255}
	colorBand     = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// weakConfidence is the threshold below which a field counts as needing
// review.
const weakConfidence = 0.7

// drawAnnotations draws every box on the current page, the table
// gridlines, and any in-progress gesture. Caller holds pc.mu.
func (pc *PageCanvas) drawAnnotations(output *image.RGBA) {
	if pc.inv == nil || pc.page == 0 {
		return
	}

	activeDragged := pc.gesture.Active() && !pc.gesture.Drawing()

	for _, ref := range invoice.BoxesOnPage(pc.inv, pc.page) {
		isActive := pc.active != nil && *pc.active == ref.Locator
		if isActive && activeDragged && pc.gesture.Target() == ref.Locator {
			continue // drawn below at its dragged position
		}

		col := colorBox
		if md := ref.Locator.Metadata(pc.inv); md != nil && md.Confidence != nil && *md.Confidence < weakConfidence {
			col = colorBoxWeak
		}
		if isActive {
			col = colorActive
		}

		x1, y1 := pc.tr.NormalizedToScreen(ref.Box.X1, ref.Box.Y1)
		x2, y2 := pc.tr.NormalizedToScreen(ref.Box.X2, ref.Box.Y2)
		drawRectOutline(output, int(x1), int(y1), int(x2), int(y2), col, 2)
		if isActive {
			pc.drawHandles(output, int(x1), int(y1), int(x2), int(y2))
		}
	}

	for i := range pc.inv.Tables {
		pc.drawGrid(output, &pc.inv.Tables[i])
	}

	if pc.gesture.Active() {
		cur := pc.gesture.Current()
		x1, y1 := pc.tr.NormalizedToScreen(cur.X1, cur.Y1)
		x2, y2 := pc.tr.NormalizedToScreen(cur.X2, cur.Y2)
		if pc.gesture.Drawing() {
			drawDashedRect(output, int(x1), int(y1), int(x2), int(y2), colorBand)
		} else {
			drawRectOutline(output, int(x1), int(y1), int(x2), int(y2), colorActive, 2)
			pc.drawHandles(output, int(x1), int(y1), int(x2), int(y2))
		}
	}
}

// drawGrid draws a table's separator lines clipped to its area.
func (pc *PageCanvas) drawGrid(output *image.RGBA, t *invoice.Table) {
	if t.BoundingBox.Page != pc.page {
		return
	}
	b := t.BoundingBox.Canonical()
	x1, y1 := pc.tr.NormalizedToScreen(b.X1, b.Y1)
	x2, y2 := pc.tr.NormalizedToScreen(b.X2, b.Y2)

	for _, row := range t.Rows {
		_, sy := pc.tr.NormalizedToScreen(0, row)
		drawLine(output, int(x1), int(sy), int(x2), int(sy), colorGridline, 1)
	}
	for _, col := range t.Columns {
		sx, _ := pc.tr.NormalizedToScreen(col, 0)
		drawLine(output, int(sx), int(y1), int(sx), int(y2), colorGridline, 1)
	}
}

// drawHandles draws the four corner grab handles of the active box.
func (pc *PageCanvas) drawHandles(output *image.RGBA, x1, y1, x2, y2 int) {
	const r = 4
	drawFilledSquare(output, x1, y1, r, colorActive)
	drawFilledSquare(output, x2, y1, r, colorActive)
	drawFilledSquare(output, x1, y2, r, colorActive)
	drawFilledSquare(output, x2, y2, r, colorActive)
}
