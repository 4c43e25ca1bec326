// Package canvas provides the page canvas with pan, zoom, and box editing.
package canvas

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"invoice-review/internal/invoice"
	"invoice-review/pkg/geometry"
	"invoice-review/ui/viewport"
)

const zoomStep = 1.25

// Tool selects how pointer drags are interpreted.
type Tool int

const (
	// ToolPan drags the view.
	ToolPan Tool = iota
	// ToolEdit moves and resizes existing boxes and gridlines, or
	// rubber-bands a new box on empty page area.
	ToolEdit
)

// PageCanvas displays one document page with its annotation boxes and
// table gridlines. All mutation happens on the Fyne event thread.
type PageCanvas struct {
	widget.BaseWidget

	mu sync.Mutex

	pageImage image.Image
	page      int
	tr        viewport.Transform

	inv      *invoice.InvoiceData
	active   *invoice.FieldLocator
	tool     Tool
	gesture  Gesture
	gridDrag *GridDrag
	dragging bool
	modifier fyne.KeyModifier

	raster *fynecanvas.Raster

	onBoxCommitted func(loc invoice.FieldLocator, box geometry.BoundingBox)
	onBoxDrawn     func(box geometry.BoundingBox)
	onSelect       func(loc *invoice.FieldLocator)
	onGridChanged  func(tableIndex int)
}

// NewPageCanvas creates an empty page canvas.
func NewPageCanvas() *PageCanvas {
	pc := &PageCanvas{tool: ToolPan}
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.ExtendBaseWidget(pc)
	return pc
}

// SetPage shows a rendered page and fits it to the view.
func (pc *PageCanvas) SetPage(page int, img image.Image) {
	pc.mu.Lock()
	pc.page = page
	pc.pageImage = img
	if img != nil {
		b := img.Bounds()
		pc.tr.SetPage(float64(b.Dx()), float64(b.Dy()))
	}
	pc.gesture.Cancel()
	pc.gridDrag = nil
	pc.mu.Unlock()
	pc.raster.Refresh()
}

// SetInvoice points the canvas at the invoice being reviewed.
func (pc *PageCanvas) SetInvoice(inv *invoice.InvoiceData) {
	pc.mu.Lock()
	pc.inv = inv
	pc.mu.Unlock()
	pc.raster.Refresh()
}

// SetActive marks the locator whose box draws highlighted with handles.
func (pc *PageCanvas) SetActive(loc *invoice.FieldLocator) {
	pc.mu.Lock()
	pc.active = loc
	pc.mu.Unlock()
	pc.raster.Refresh()
}

// SetTool switches between panning and editing.
func (pc *PageCanvas) SetTool(tool Tool) {
	pc.mu.Lock()
	pc.tool = tool
	pc.mu.Unlock()
}

// Page returns the page currently shown, 0 when none.
func (pc *PageCanvas) Page() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.page
}

// FrameRegion zooms and pans so the box fills a readable share of the
// view. The box must be on the current page.
func (pc *PageCanvas) FrameRegion(box geometry.BoundingBox) {
	pc.mu.Lock()
	pc.tr.FrameRegion(box)
	pc.mu.Unlock()
	pc.raster.Refresh()
}

// FitToView resets zoom and pan to show the whole page.
func (pc *PageCanvas) FitToView() {
	pc.mu.Lock()
	pc.tr.Fit()
	pc.mu.Unlock()
	pc.raster.Refresh()
}

// OnBoxCommitted sets the callback fired when a move or resize ends.
func (pc *PageCanvas) OnBoxCommitted(fn func(loc invoice.FieldLocator, box geometry.BoundingBox)) {
	pc.onBoxCommitted = fn
}

// OnBoxDrawn sets the callback fired when a rubber-banded box completes.
func (pc *PageCanvas) OnBoxDrawn(fn func(box geometry.BoundingBox)) {
	pc.onBoxDrawn = fn
}

// OnSelect sets the callback fired when a box is clicked (nil = empty
// area clicked).
func (pc *PageCanvas) OnSelect(fn func(loc *invoice.FieldLocator)) {
	pc.onSelect = fn
}

// OnGridChanged sets the callback fired after a gridline edit.
func (pc *PageCanvas) OnGridChanged(fn func(tableIndex int)) {
	pc.onGridChanged = fn
}

// handleTolerance converts an 8px screen hit radius into normalized
// page units at the current zoom.
func (pc *PageCanvas) handleTolerance() (tolX, tolY float64) {
	const px = 8.0
	if pc.tr.Zoom <= 0 || pc.tr.PageW <= 0 || pc.tr.PageH <= 0 {
		return 0.01, 0.01
	}
	return px / (pc.tr.Zoom * pc.tr.PageW), px / (pc.tr.Zoom * pc.tr.PageH)
}

// beginDrag hit-tests the drag origin and starts a gesture. Gridlines
// win over boxes, the active box's handles win over other boxes.
// Returns the locator to select when the drag grabbed a non-active box;
// the caller fires onSelect after releasing the lock.
func (pc *PageCanvas) beginDrag(p geometry.Point2D) *invoice.FieldLocator {
	if pc.inv == nil {
		return nil
	}
	tolX, tolY := pc.handleTolerance()

	for i := range pc.inv.Tables {
		t := &pc.inv.Tables[i]
		if t.BoundingBox.Page != pc.page {
			continue
		}
		if axis, idx, ok := HitGridline(t, p, tolX, tolY); ok {
			pc.gridDrag = BeginGridDrag(t, axis, idx)
			if pc.gridDrag != nil {
				return nil
			}
		}
	}

	if pc.active != nil {
		if box := pc.active.Box(pc.inv); box != nil && box.Page == pc.page {
			switch h := HitHandle(*box, p, tolX, tolY); h {
			case HandleNone:
			case HandleBody:
				pc.gesture.StartMove(*pc.active, *box, p)
				return nil
			default:
				pc.gesture.StartResize(*pc.active, *box, h, p)
				return nil
			}
		}
	}

	for _, ref := range invoice.BoxesOnPage(pc.inv, pc.page) {
		if HitHandle(ref.Box, p, 0, 0) == HandleBody {
			pc.gesture.StartMove(ref.Locator, ref.Box, p)
			loc := ref.Locator
			return &loc
		}
	}

	pc.gesture.StartDraw(pc.page, p)
	return nil
}

// Dragged implements fyne.Draggable.
func (pc *PageCanvas) Dragged(ev *fyne.DragEvent) {
	pc.mu.Lock()
	sx := float64(ev.Position.X)
	sy := float64(ev.Position.Y)

	if pc.tool == ToolPan {
		pc.tr.PanBy(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
		pc.mu.Unlock()
		pc.raster.Refresh()
		return
	}

	var grabbed *invoice.FieldLocator
	if !pc.dragging {
		start, ok := pc.tr.ScreenToNormalized(sx-float64(ev.Dragged.DX), sy-float64(ev.Dragged.DY))
		if !ok {
			pc.mu.Unlock()
			return
		}
		pc.dragging = true
		grabbed = pc.beginDrag(start)
	}

	if p, ok := pc.tr.ScreenToNormalized(sx, sy); ok {
		if pc.gridDrag != nil {
			if pc.gridDrag.Axis == AxisRow {
				pc.gridDrag.DragTo(p.Y)
			} else {
				pc.gridDrag.DragTo(p.X)
			}
		} else if pc.gesture.Active() {
			pc.gesture.Update(p)
		}
	}
	pc.mu.Unlock()

	// Selection listeners may call back into the canvas.
	if grabbed != nil && pc.onSelect != nil {
		pc.onSelect(grabbed)
	}
	pc.raster.Refresh()
}

// DragEnd implements fyne.Draggable.
func (pc *PageCanvas) DragEnd() {
	pc.mu.Lock()
	pc.dragging = false

	if pc.gridDrag != nil {
		d := pc.gridDrag
		pc.gridDrag = nil
		d.End()
		idx := pc.tableIndex(d.Table)
		pc.mu.Unlock()
		if pc.onGridChanged != nil && idx >= 0 {
			pc.onGridChanged(idx)
		}
		pc.raster.Refresh()
		return
	}

	drawing := pc.gesture.Drawing()
	target := pc.gesture.Target()
	box, ok := pc.gesture.End()
	pc.mu.Unlock()

	if !ok {
		return
	}
	if drawing {
		// Ignore accidental click-sized bands.
		if box.Width() > 0.001 && box.Height() > 0.001 && pc.onBoxDrawn != nil {
			pc.onBoxDrawn(box)
		}
	} else if pc.onBoxCommitted != nil {
		pc.onBoxCommitted(target, box)
	}
	pc.raster.Refresh()
}

func (pc *PageCanvas) tableIndex(t *invoice.Table) int {
	for i := range pc.inv.Tables {
		if &pc.inv.Tables[i] == t {
			return i
		}
	}
	return -1
}

// Tapped selects the topmost box under the click, or clears the
// selection on empty page area.
func (pc *PageCanvas) Tapped(ev *fyne.PointEvent) {
	pc.mu.Lock()
	p, ok := pc.tr.ScreenToNormalized(float64(ev.Position.X), float64(ev.Position.Y))
	inv := pc.inv
	page := pc.page
	pc.mu.Unlock()

	if pc.onSelect == nil || inv == nil {
		return
	}
	if !ok {
		pc.onSelect(nil)
		return
	}

	var hit *invoice.FieldLocator
	for _, ref := range invoice.BoxesOnPage(inv, page) {
		if ref.Box.Canonical().Contains(p) {
			loc := ref.Locator
			hit = &loc
		}
	}
	pc.onSelect(hit)
}

// MouseDown records the modifier state; tap events do not carry it.
func (pc *PageCanvas) MouseDown(ev *desktop.MouseEvent) {
	pc.mu.Lock()
	pc.modifier = ev.Modifier
	pc.mu.Unlock()
}

// MouseUp implements desktop.Mouseable.
func (pc *PageCanvas) MouseUp(_ *desktop.MouseEvent) {}

// DoubleTapped inserts a gridline at the pointer into the table under
// it. Shift inserts a column, otherwise a row.
func (pc *PageCanvas) DoubleTapped(ev *fyne.PointEvent) {
	pc.mu.Lock()
	p, ok := pc.tr.ScreenToNormalized(float64(ev.Position.X), float64(ev.Position.Y))
	inv := pc.inv
	page := pc.page
	tool := pc.tool
	shift := pc.modifier&fyne.KeyModifierShift != 0
	pc.mu.Unlock()

	if !ok || inv == nil || tool != ToolEdit {
		return
	}
	for i := range inv.Tables {
		t := &inv.Tables[i]
		if t.BoundingBox.Page != page || !t.BoundingBox.Canonical().Contains(p) {
			continue
		}
		if shift {
			InsertGridline(t, AxisColumn, p.X)
		} else {
			InsertGridline(t, AxisRow, p.Y)
		}
		if pc.onGridChanged != nil {
			pc.onGridChanged(i)
		}
		pc.raster.Refresh()
		return
	}
}

// TappedSecondary deletes the gridline under the pointer.
func (pc *PageCanvas) TappedSecondary(ev *fyne.PointEvent) {
	pc.mu.Lock()
	p, ok := pc.tr.ScreenToNormalized(float64(ev.Position.X), float64(ev.Position.Y))
	inv := pc.inv
	page := pc.page
	tool := pc.tool
	tolX, tolY := pc.handleTolerance()
	pc.mu.Unlock()

	if !ok || inv == nil || tool != ToolEdit {
		return
	}
	for i := range inv.Tables {
		t := &inv.Tables[i]
		if t.BoundingBox.Page != page {
			continue
		}
		if axis, idx, hit := HitGridline(t, p, tolX, tolY); hit {
			DeleteGridline(t, axis, idx)
			if pc.onGridChanged != nil {
				pc.onGridChanged(i)
			}
			pc.raster.Refresh()
			return
		}
	}
}

// Scrolled zooms about the pointer position.
func (pc *PageCanvas) Scrolled(ev *fyne.ScrollEvent) {
	pc.mu.Lock()
	factor := zoomStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	}
	pc.tr.ZoomAt(factor, float64(ev.Position.X), float64(ev.Position.Y))
	pc.mu.Unlock()
	pc.raster.Refresh()
}

// draw is the raster drawing function.
func (pc *PageCanvas) draw(w, h int) image.Image {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.tr.ViewW != float64(w) || pc.tr.ViewH != float64(h) {
		first := pc.tr.ViewW == 0 && pc.tr.ViewH == 0
		pc.tr.SetViewport(float64(w), float64(h))
		if first {
			pc.tr.Fit()
		}
	}

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if pc.pageImage != nil {
		pc.compositePage(output, w, h)
	}
	pc.drawAnnotations(output)
	return output
}

// compositePage draws the page image through the viewport transform
// using nearest-neighbor sampling.
func (pc *PageCanvas) compositePage(output *image.RGBA, w, h int) {
	src := pc.pageImage
	srcBounds := src.Bounds()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px, py := pc.tr.ScreenToPage(float64(x), float64(y))
			srcX := int(px) + srcBounds.Min.X
			srcY := int(py) + srcBounds.Min.Y
			if srcX < srcBounds.Min.X || srcX >= srcBounds.Max.X ||
				srcY < srcBounds.Min.Y || srcY >= srcBounds.Max.Y {
				continue
			}
			output.Set(x, y, src.At(srcX, srcY))
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (pc *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &pageCanvasRenderer{canvas: pc}
}

type pageCanvasRenderer struct {
	canvas *PageCanvas
}

func (r *pageCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *pageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *pageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *pageCanvasRenderer) Destroy() {}
