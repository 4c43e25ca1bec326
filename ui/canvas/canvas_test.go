package canvas

import (
	"image"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-review/internal/invoice"
	"invoice-review/pkg/geometry"
)

// editCanvas builds a canvas showing a 500x400 page in a 1000x800 view
// with one line-item row box, ready for edit-tool drags.
func editCanvas(t *testing.T) (*PageCanvas, *invoice.InvoiceData) {
	t.Helper()
	test.NewApp()

	pc := NewPageCanvas()
	pc.SetTool(ToolEdit)
	pc.SetPage(1, image.NewRGBA(image.Rect(0, 0, 500, 400)))
	pc.draw(1000, 800)

	inv := invoice.New()
	b := box(0.2, 0.2, 0.4, 0.3)
	inv.LineItems = append(inv.LineItems, invoice.LineItem{BoundingBox: &b})
	pc.SetInvoice(&inv)
	return pc, &inv
}

func dragAt(pc *PageCanvas, nx, ny, dx, dy float64) {
	sx, sy := pc.tr.NormalizedToScreen(nx, ny)
	pc.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(float32(sx), float32(sy))},
		Dragged:    fyne.Delta{DX: float32(dx), DY: float32(dy)},
	})
}

// A drag starting on a non-active box selects it, and the selection
// listener may immediately call back into the canvas the way the main
// window's wiring does.
func TestDragSelectsBoxWithReentrantListener(t *testing.T) {
	pc, _ := editCanvas(t)

	var selected *invoice.FieldLocator
	pc.OnSelect(func(loc *invoice.FieldLocator) {
		selected = loc
		pc.SetActive(loc)
	})

	done := make(chan struct{})
	go func() {
		dragAt(pc, 0.3, 0.25, 0, 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dragged did not return with a reentrant selection listener")
	}

	require.NotNil(t, selected)
	assert.Equal(t, invoice.LineItemRow(0), *selected)
	require.NotNil(t, pc.active)
	assert.Equal(t, invoice.LineItemRow(0), *pc.active)
}

func TestDragMoveCommitsTranslatedBox(t *testing.T) {
	pc, _ := editCanvas(t)
	pc.OnSelect(func(loc *invoice.FieldLocator) { pc.SetActive(loc) })

	var committed *invoice.FieldLocator
	var got geometry.BoundingBox
	pc.OnBoxCommitted(func(loc invoice.FieldLocator, b geometry.BoundingBox) {
		committed = &loc
		got = b
	})

	dragAt(pc, 0.3, 0.25, 0, 0)
	dragAt(pc, 0.4, 0.35, 0, 0)
	pc.DragEnd()

	require.NotNil(t, committed)
	assert.Equal(t, invoice.LineItemRow(0), *committed)
	assert.InDelta(t, 0.3, got.X1, 1e-9)
	assert.InDelta(t, 0.3, got.Y1, 1e-9)
	assert.InDelta(t, 0.5, got.X2, 1e-9)
	assert.InDelta(t, 0.4, got.Y2, 1e-9)
}
