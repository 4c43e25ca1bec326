package extraction

import (
	"sort"

	"invoice-review/internal/invoice"
	"invoice-review/pkg/geometry"
)

// Normalize folds a raw response into the canonical InvoiceData:
// pixel boxes divided by their page's dimensions, pages re-indexed from
// zero-based to one-based, line-item rows appended flat in page-then-row
// order, and one Table entry per page that carries a table_grid
// prediction. Fields absent from the response stay at their zero values
// with no metadata; the output shape never varies with extraction
// completeness.
func Normalize(resp *Response) invoice.InvoiceData {
	inv := invoice.New()
	if resp == nil {
		return inv
	}

	assignField(resp, LabelInvoiceNumber, &inv, invoice.InvoiceField(invoice.FieldInvoiceNumber))
	assignField(resp, LabelInvoiceDate, &inv, invoice.InvoiceField(invoice.FieldInvoiceDate))
	assignField(resp, LabelCurrency, &inv, invoice.InvoiceField(invoice.FieldCurrency))
	assignField(resp, LabelTotalValue, &inv, invoice.InvoiceField(invoice.FieldTotalDeclaredValue))
	assignField(resp, LabelShipperName, &inv, invoice.PartyField(invoice.Shipper, invoice.FieldPartyName))
	assignField(resp, LabelShipperAddress, &inv, invoice.PartyField(invoice.Shipper, invoice.FieldAddress))
	assignField(resp, LabelConsigneeName, &inv, invoice.PartyField(invoice.Consignee, invoice.FieldPartyName))
	assignField(resp, LabelConsigneeAddress, &inv, invoice.PartyField(invoice.Consignee, invoice.FieldAddress))

	for _, page := range resp.Pages {
		for _, table := range page.Tables {
			if table.Name != "" && table.Name != TableLineItems {
				continue
			}
			inv.LineItems = append(inv.LineItems, normalizeLineItems(page, table)...)
		}
		if t, ok := normalizeGrid(page); ok {
			inv.Tables = append(inv.Tables, t)
		}
	}

	return inv
}

// assignField scans page entries in order and applies the first
// prediction carrying the wanted label. Labels missing from the first
// page are picked up from later pages.
func assignField(resp *Response, label string, inv *invoice.InvoiceData, loc invoice.FieldLocator) {
	for _, page := range resp.Pages {
		for _, pred := range page.Predictions {
			if pred.Label != label {
				continue
			}
			loc.SetValue(inv, pred.Text)
			md := loc.EnsureMetadata(inv)
			score := pred.Score
			md.Confidence = &score
			if box, ok := normalizeBox(page, pred.XMin, pred.YMin, pred.XMax, pred.YMax); ok {
				md.BoundingBox = &box
			}
			return
		}
	}
}

// normalizeLineItems groups a table's cells by row index into LineItem
// records, ordered by row.
func normalizeLineItems(page PageExtraction, table TableExtraction) []invoice.LineItem {
	byRow := make(map[int][]Cell)
	for _, cell := range table.Cells {
		byRow[cell.Row] = append(byRow[cell.Row], cell)
	}

	rows := make([]int, 0, len(byRow))
	for r := range byRow {
		rows = append(rows, r)
	}
	sort.Ints(rows)

	items := make([]invoice.LineItem, 0, len(rows))
	for _, r := range rows {
		var item invoice.LineItem
		var rowBox *geometry.BoundingBox

		for _, cell := range byRow[r] {
			md := cellMetadata(page, cell)
			switch cell.Label {
			case LabelDescription:
				item.Description = cell.Text
				item.Fields.Description = md
			case LabelQuantity:
				item.Quantity = invoice.ParseAmount(cell.Text)
				item.Fields.Quantity = md
			case LabelUnitPrice:
				item.UnitPrice = invoice.ParseAmount(cell.Text)
				item.Fields.UnitPrice = md
			case LabelTotalPrice:
				item.TotalPrice = invoice.ParseAmount(cell.Text)
				item.Fields.TotalPrice = md
			case LabelCountryOfOrigin:
				item.CountryOfOrigin = cell.Text
				item.Fields.CountryOfOrigin = md
			case LabelHSCode:
				item.HSCode = cell.Text
				item.Fields.HSCode = md
			default:
				continue
			}
			if md != nil && md.BoundingBox != nil {
				rowBox = unionBox(rowBox, *md.BoundingBox)
			}
		}

		item.BoundingBox = rowBox
		items = append(items, item)
	}
	return items
}

// normalizeGrid converts a page's table_grid prediction, if present, into
// one Table: its own box normalized, row offsets divided by page height,
// column offsets by page width. Separator arrays come out sorted.
func normalizeGrid(page PageExtraction) (invoice.Table, bool) {
	for _, pred := range page.Predictions {
		if pred.Label != LabelTableGrid {
			continue
		}
		box, ok := normalizeBox(page, pred.XMin, pred.YMin, pred.XMax, pred.YMax)
		if !ok {
			return invoice.Table{}, false
		}

		t := invoice.Table{
			BoundingBox: box,
			Rows:        make([]float64, 0, len(pred.Rows)),
			Columns:     make([]float64, 0, len(pred.Columns)),
		}
		for _, y := range pred.Rows {
			t.Rows = append(t.Rows, y/page.Height)
		}
		for _, x := range pred.Columns {
			t.Columns = append(t.Columns, x/page.Width)
		}
		sort.Float64s(t.Rows)
		sort.Float64s(t.Columns)
		return t, true
	}
	return invoice.Table{}, false
}

func cellMetadata(page PageExtraction, cell Cell) *invoice.FieldMetadata {
	if box, ok := normalizeBox(page, cell.XMin, cell.YMin, cell.XMax, cell.YMax); ok {
		return invoice.Confident(box, cell.Score)
	}
	score := cell.Score
	return &invoice.FieldMetadata{Confidence: &score}
}

// normalizeBox divides a pixel rectangle by the page dimensions and
// re-indexes the page to one-based. Degenerate page dimensions or an
// all-zero rectangle yield no box.
func normalizeBox(page PageExtraction, xmin, ymin, xmax, ymax float64) (geometry.BoundingBox, bool) {
	if page.Width <= 0 || page.Height <= 0 {
		return geometry.BoundingBox{}, false
	}
	if xmin == 0 && ymin == 0 && xmax == 0 && ymax == 0 {
		return geometry.BoundingBox{}, false
	}
	return geometry.FromPixels(page.Page+1, xmin, ymin, xmax, ymax, page.Width, page.Height), true
}

func unionBox(acc *geometry.BoundingBox, b geometry.BoundingBox) *geometry.BoundingBox {
	if acc == nil {
		return &b
	}
	if b.Page != acc.Page {
		return acc
	}
	u := *acc
	if b.X1 < u.X1 {
		u.X1 = b.X1
	}
	if b.Y1 < u.Y1 {
		u.Y1 = b.Y1
	}
	if b.X2 > u.X2 {
		u.X2 = b.X2
	}
	if b.Y2 > u.Y2 {
		u.Y2 = b.Y2
	}
	return &u
}
