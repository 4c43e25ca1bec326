// Package panels provides the side panels of the review window.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"invoice-review/internal/app"
	"invoice-review/internal/invoice"
)

// fieldEntry is an Entry that reports focus, so the window can frame the
// field's region on the page.
type fieldEntry struct {
	widget.Entry
	locator invoice.FieldLocator
	onFocus func(loc invoice.FieldLocator)
}

func newFieldEntry(loc invoice.FieldLocator, onFocus func(invoice.FieldLocator)) *fieldEntry {
	e := &fieldEntry{locator: loc, onFocus: onFocus}
	e.ExtendBaseWidget(e)
	return e
}

func (e *fieldEntry) FocusGained() {
	e.Entry.FocusGained()
	if e.onFocus != nil {
		e.onFocus(e.locator)
	}
}

// FieldsPanel shows every editable invoice field, bound to the shared
// application state.
type FieldsPanel struct {
	state *app.State
	box   *fyne.Container

	onFocusField func(loc invoice.FieldLocator)

	scalars []*fieldEntry

	itemList     *widget.List
	selectedItem int
	itemEntries  []*fieldEntry

	refreshing bool
}

// NewFieldsPanel creates the fields panel.
func NewFieldsPanel(state *app.State, onFocusField func(loc invoice.FieldLocator)) *FieldsPanel {
	fp := &FieldsPanel{
		state:        state,
		onFocusField: onFocusField,
		selectedItem: -1,
	}

	header := widget.NewForm(
		fp.formRow("Invoice #", invoice.InvoiceField(invoice.FieldInvoiceNumber)),
		fp.formRow("Date", invoice.InvoiceField(invoice.FieldInvoiceDate)),
		fp.formRow("Currency", invoice.InvoiceField(invoice.FieldCurrency)),
		fp.formRow("Total value", invoice.InvoiceField(invoice.FieldTotalDeclaredValue)),
	)

	shipper := widget.NewForm(
		fp.formRow("Name", invoice.PartyField(invoice.Shipper, invoice.FieldPartyName)),
		fp.formRow("Address", invoice.PartyField(invoice.Shipper, invoice.FieldAddress)),
	)
	consignee := widget.NewForm(
		fp.formRow("Name", invoice.PartyField(invoice.Consignee, invoice.FieldPartyName)),
		fp.formRow("Address", invoice.PartyField(invoice.Consignee, invoice.FieldAddress)),
	)

	fp.itemList = widget.NewList(
		func() int { return len(fp.state.Invoice.LineItems) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			it := fp.state.Invoice.LineItems[id]
			text := it.Description
			if text == "" {
				text = fmt.Sprintf("item %d", id+1)
			}
			obj.(*widget.Label).SetText(text)
		},
	)
	fp.itemList.OnSelected = func(id widget.ListItemID) {
		fp.selectItem(id)
	}

	itemDetail := fp.buildItemDetail()

	fp.box = container.NewVBox(
		widget.NewCard("Invoice", "", header),
		widget.NewCard("Shipper", "", shipper),
		widget.NewCard("Consignee", "", consignee),
		widget.NewCard("Line items", "", container.NewBorder(nil, itemDetail, nil, nil,
			container.NewVScroll(fp.itemList))),
	)

	state.On(app.EventInvoiceChanged, func(interface{}) { fp.Refresh() })
	state.On(app.EventExtractionComplete, func(interface{}) {
		fp.selectedItem = -1
		fp.itemList.UnselectAll()
		fp.Refresh()
	})

	return fp
}

// Widget returns the panel's root widget.
func (fp *FieldsPanel) Widget() fyne.CanvasObject {
	return container.NewVScroll(fp.box)
}

// formRow builds one labeled entry bound to a locator.
func (fp *FieldsPanel) formRow(label string, loc invoice.FieldLocator) *widget.FormItem {
	entry := newFieldEntry(loc, fp.onFocusField)
	entry.OnChanged = func(text string) {
		if fp.refreshing {
			return
		}
		fp.state.SetFieldValue(loc, text)
	}
	fp.scalars = append(fp.scalars, entry)
	return widget.NewFormItem(label, entry)
}

// buildItemDetail builds the editor for the selected line item. The
// entries rebind by index when the selection changes.
func (fp *FieldsPanel) buildItemDetail() fyne.CanvasObject {
	names := []struct {
		label string
		field invoice.FieldName
	}{
		{"Description", invoice.FieldDescription},
		{"Quantity", invoice.FieldQuantity},
		{"Unit price", invoice.FieldUnitPrice},
		{"Total price", invoice.FieldTotalPrice},
		{"Origin", invoice.FieldCountryOfOrigin},
		{"HS code", invoice.FieldHSCode},
	}

	items := make([]*widget.FormItem, 0, len(names))
	for _, n := range names {
		field := n.field
		entry := newFieldEntry(invoice.LineItemField(-1, field), fp.onFocusField)
		entry.OnChanged = func(text string) {
			if fp.refreshing || fp.selectedItem < 0 {
				return
			}
			fp.state.SetFieldValue(invoice.LineItemField(fp.selectedItem, field), text)
		}
		fp.itemEntries = append(fp.itemEntries, entry)
		items = append(items, widget.NewFormItem(n.label, entry))
	}
	return widget.NewForm(items...)
}

// selectItem rebinds the detail form to line item idx.
func (fp *FieldsPanel) selectItem(idx int) {
	if idx < 0 || idx >= len(fp.state.Invoice.LineItems) {
		return
	}
	fp.selectedItem = idx

	fp.refreshing = true
	for _, e := range fp.itemEntries {
		e.locator = invoice.LineItemField(idx, e.locator.Field)
		e.SetText(e.locator.Value(&fp.state.Invoice))
	}
	fp.refreshing = false

	if fp.onFocusField != nil {
		fp.onFocusField(invoice.LineItemRow(idx))
	}
}

// Refresh reloads every entry from the state without echoing edits back.
func (fp *FieldsPanel) Refresh() {
	fp.refreshing = true
	for _, e := range fp.scalars {
		text := e.locator.Value(&fp.state.Invoice)
		if e.Text != text {
			e.SetText(text)
		}
	}
	if fp.selectedItem >= 0 && fp.selectedItem < len(fp.state.Invoice.LineItems) {
		for _, e := range fp.itemEntries {
			text := e.locator.Value(&fp.state.Invoice)
			if e.Text != text {
				e.SetText(text)
			}
		}
	}
	fp.itemList.Refresh()
	fp.refreshing = false
}
