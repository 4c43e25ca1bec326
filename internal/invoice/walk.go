package invoice

import (
	"invoice-review/pkg/geometry"
)

// BoxRef pairs a locator with the box it currently addresses.
type BoxRef struct {
	Locator FieldLocator
	Box     geometry.BoundingBox
}

// WalkBoxes visits every bounding box present in the tree, whole-record
// boxes and per-field boxes alike, in a fixed order: top-level fields,
// shipper, consignee, line items (row box first, then fields), tables.
// The annotation overlay renders directly from this enumeration.
func WalkBoxes(inv *InvoiceData, visit func(BoxRef)) {
	emit := func(loc FieldLocator, md *FieldMetadata) {
		if md != nil && md.BoundingBox != nil {
			visit(BoxRef{Locator: loc, Box: *md.BoundingBox})
		}
	}

	emit(InvoiceField(FieldInvoiceNumber), inv.Fields.InvoiceNumber)
	emit(InvoiceField(FieldInvoiceDate), inv.Fields.InvoiceDate)
	emit(InvoiceField(FieldCurrency), inv.Fields.Currency)
	emit(InvoiceField(FieldTotalDeclaredValue), inv.Fields.TotalDeclaredValue)

	for _, role := range []PartyRole{Shipper, Consignee} {
		p := &inv.Shipper
		if role == Consignee {
			p = &inv.Consignee
		}
		emit(PartyField(role, FieldPartyName), p.Fields.Name)
		emit(PartyField(role, FieldAddress), p.Fields.Address)
	}

	for i := range inv.LineItems {
		it := &inv.LineItems[i]
		if it.BoundingBox != nil {
			visit(BoxRef{Locator: LineItemRow(i), Box: *it.BoundingBox})
		}
		emit(LineItemField(i, FieldDescription), it.Fields.Description)
		emit(LineItemField(i, FieldQuantity), it.Fields.Quantity)
		emit(LineItemField(i, FieldUnitPrice), it.Fields.UnitPrice)
		emit(LineItemField(i, FieldTotalPrice), it.Fields.TotalPrice)
		emit(LineItemField(i, FieldCountryOfOrigin), it.Fields.CountryOfOrigin)
		emit(LineItemField(i, FieldHSCode), it.Fields.HSCode)
	}

	for i := range inv.Tables {
		visit(BoxRef{Locator: TableArea(i), Box: inv.Tables[i].BoundingBox})
	}
}

// BoxesOnPage collects the boxes anchored to one page, in walk order.
func BoxesOnPage(inv *InvoiceData, page int) []BoxRef {
	var refs []BoxRef
	WalkBoxes(inv, func(ref BoxRef) {
		if ref.Box.Page == page {
			refs = append(refs, ref)
		}
	})
	return refs
}

// Confidences collects every confidence value present in the tree, in
// walk order over metadata entries.
func Confidences(inv *InvoiceData) []float64 {
	var scores []float64
	collect := func(md *FieldMetadata) {
		if md != nil && md.Confidence != nil {
			scores = append(scores, *md.Confidence)
		}
	}

	collect(inv.Fields.InvoiceNumber)
	collect(inv.Fields.InvoiceDate)
	collect(inv.Fields.Currency)
	collect(inv.Fields.TotalDeclaredValue)
	collect(inv.Shipper.Fields.Name)
	collect(inv.Shipper.Fields.Address)
	collect(inv.Consignee.Fields.Name)
	collect(inv.Consignee.Fields.Address)
	for i := range inv.LineItems {
		f := &inv.LineItems[i].Fields
		collect(f.Description)
		collect(f.Quantity)
		collect(f.UnitPrice)
		collect(f.TotalPrice)
		collect(f.CountryOfOrigin)
		collect(f.HSCode)
	}
	return scores
}

// EachMetadata visits every non-nil metadata entry in the tree. Template
// reconciliation uses this to adjust confidences wholesale.
func EachMetadata(inv *InvoiceData, visit func(*FieldMetadata)) {
	apply := func(md *FieldMetadata) {
		if md != nil {
			visit(md)
		}
	}

	apply(inv.Fields.InvoiceNumber)
	apply(inv.Fields.InvoiceDate)
	apply(inv.Fields.Currency)
	apply(inv.Fields.TotalDeclaredValue)
	apply(inv.Shipper.Fields.Name)
	apply(inv.Shipper.Fields.Address)
	apply(inv.Consignee.Fields.Name)
	apply(inv.Consignee.Fields.Address)
	for i := range inv.LineItems {
		f := &inv.LineItems[i].Fields
		apply(f.Description)
		apply(f.Quantity)
		apply(f.UnitPrice)
		apply(f.TotalPrice)
		apply(f.CountryOfOrigin)
		apply(f.HSCode)
	}
}
