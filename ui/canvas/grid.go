package canvas

import (
	"sort"

	"invoice-review/internal/invoice"
	"invoice-review/pkg/geometry"
)

// Axis selects a gridline orientation.
type Axis int

const (
	AxisRow    Axis = iota // horizontal separator, a y coordinate
	AxisColumn             // vertical separator, an x coordinate
)

// HitGridline tests a normalized point against a table's separator
// lines. Rows are tested before columns. Lines only respond within the
// table's area, padded by the tolerance.
func HitGridline(t *invoice.Table, p geometry.Point2D, tolX, tolY float64) (Axis, int, bool) {
	b := t.BoundingBox.Canonical()
	inX := p.X >= b.X1-tolX && p.X <= b.X2+tolX
	inY := p.Y >= b.Y1-tolY && p.Y <= b.Y2+tolY

	if inX {
		for i, y := range t.Rows {
			d := p.Y - y
			if d < 0 {
				d = -d
			}
			if d <= tolY {
				return AxisRow, i, true
			}
		}
	}
	if inY {
		for i, x := range t.Columns {
			d := p.X - x
			if d < 0 {
				d = -d
			}
			if d <= tolX {
				return AxisColumn, i, true
			}
		}
	}
	return 0, 0, false
}

// GridDrag is one in-progress separator drag. The dragged line keeps its
// index while moving, even past a neighbor, so it stays under the
// pointer; the axis is re-sorted only when the drag ends.
type GridDrag struct {
	Table *invoice.Table
	Axis  Axis
	Index int
}

// BeginGridDrag starts dragging a separator line. Returns nil for an
// out-of-range index.
func BeginGridDrag(t *invoice.Table, axis Axis, index int) *GridDrag {
	lines := t.Rows
	if axis == AxisColumn {
		lines = t.Columns
	}
	if index < 0 || index >= len(lines) {
		return nil
	}
	return &GridDrag{Table: t, Axis: axis, Index: index}
}

// DragTo moves the line to a new coordinate, clamped to the table area.
func (d *GridDrag) DragTo(v float64) {
	b := d.Table.BoundingBox.Canonical()
	if d.Axis == AxisRow {
		if v < b.Y1 {
			v = b.Y1
		}
		if v > b.Y2 {
			v = b.Y2
		}
		d.Table.Rows[d.Index] = v
		return
	}
	if v < b.X1 {
		v = b.X1
	}
	if v > b.X2 {
		v = b.X2
	}
	d.Table.Columns[d.Index] = v
}

// End re-sorts the edited axis, restoring the ascending invariant.
func (d *GridDrag) End() {
	if d.Axis == AxisRow {
		sort.Float64s(d.Table.Rows)
		return
	}
	sort.Float64s(d.Table.Columns)
}

// InsertGridline adds a separator at the given coordinate, keeping the
// axis sorted. Coordinates outside the table area are clamped to it.
func InsertGridline(t *invoice.Table, axis Axis, v float64) {
	b := t.BoundingBox.Canonical()
	if axis == AxisRow {
		if v < b.Y1 {
			v = b.Y1
		}
		if v > b.Y2 {
			v = b.Y2
		}
		t.Rows = append(t.Rows, v)
		sort.Float64s(t.Rows)
		return
	}
	if v < b.X1 {
		v = b.X1
	}
	if v > b.X2 {
		v = b.X2
	}
	t.Columns = append(t.Columns, v)
	sort.Float64s(t.Columns)
}

// DeleteGridline removes a separator by index. Out-of-range indexes are
// a no-op.
func DeleteGridline(t *invoice.Table, axis Axis, index int) {
	if axis == AxisRow {
		if index < 0 || index >= len(t.Rows) {
			return
		}
		t.Rows = append(t.Rows[:index], t.Rows[index+1:]...)
		return
	}
	if index < 0 || index >= len(t.Columns) {
		return
	}
	t.Columns = append(t.Columns[:index], t.Columns[index+1:]...)
}
