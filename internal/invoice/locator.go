package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"invoice-review/pkg/geometry"
)

// FieldName identifies a scalar field within its owning record.
type FieldName string

const (
	FieldInvoiceNumber      FieldName = "invoiceNumber"
	FieldInvoiceDate        FieldName = "invoiceDate"
	FieldCurrency           FieldName = "currency"
	FieldTotalDeclaredValue FieldName = "totalDeclaredValue"
	FieldPartyName          FieldName = "name"
	FieldAddress            FieldName = "address"
	FieldDescription        FieldName = "description"
	FieldQuantity           FieldName = "quantity"
	FieldUnitPrice          FieldName = "unitPrice"
	FieldTotalPrice         FieldName = "totalPrice"
	FieldCountryOfOrigin    FieldName = "countryOfOrigin"
	FieldHSCode             FieldName = "hsCode"
)

// PartyRole selects which Party a locator refers to.
type PartyRole int

const (
	Shipper PartyRole = iota
	Consignee
)

func (r PartyRole) String() string {
	if r == Consignee {
		return "consignee"
	}
	return "shipper"
}

// LocatorKind discriminates the FieldLocator union.
type LocatorKind int

const (
	// LocInvoiceField addresses a top-level scalar of InvoiceData.
	LocInvoiceField LocatorKind = iota
	// LocPartyField addresses a scalar of the shipper or consignee.
	LocPartyField
	// LocLineItemField addresses a scalar of one line item.
	LocLineItemField
	// LocLineItemRow addresses a line item's whole-row bounding box.
	LocLineItemRow
	// LocTable addresses a table's grid-area bounding box.
	LocTable
)

// FieldLocator addresses one independently editable piece of an
// InvoiceData tree: a scalar value, its metadata, or a whole-record box.
// It replaces dotted-string paths with a small discriminated union that a
// dispatch switch resolves.
type FieldLocator struct {
	Kind  LocatorKind
	Field FieldName
	Party PartyRole
	Index int
}

// InvoiceField locates a top-level scalar.
func InvoiceField(name FieldName) FieldLocator {
	return FieldLocator{Kind: LocInvoiceField, Field: name}
}

// PartyField locates a shipper or consignee scalar.
func PartyField(role PartyRole, name FieldName) FieldLocator {
	return FieldLocator{Kind: LocPartyField, Party: role, Field: name}
}

// LineItemField locates a scalar of line item index.
func LineItemField(index int, name FieldName) FieldLocator {
	return FieldLocator{Kind: LocLineItemField, Index: index, Field: name}
}

// LineItemRow locates the whole-row box of line item index.
func LineItemRow(index int) FieldLocator {
	return FieldLocator{Kind: LocLineItemRow, Index: index}
}

// TableArea locates the grid-area box of table index.
func TableArea(index int) FieldLocator {
	return FieldLocator{Kind: LocTable, Index: index}
}

// String renders a stable human-readable form, e.g. "lineItems[2].hsCode".
func (l FieldLocator) String() string {
	switch l.Kind {
	case LocInvoiceField:
		return string(l.Field)
	case LocPartyField:
		return l.Party.String() + "." + string(l.Field)
	case LocLineItemField:
		return fmt.Sprintf("lineItems[%d].%s", l.Index, l.Field)
	case LocLineItemRow:
		return fmt.Sprintf("lineItems[%d]", l.Index)
	case LocTable:
		return fmt.Sprintf("tables[%d]", l.Index)
	}
	return "?"
}

func (l FieldLocator) party(inv *InvoiceData) *Party {
	if l.Party == Consignee {
		return &inv.Consignee
	}
	return &inv.Shipper
}

func (l FieldLocator) item(inv *InvoiceData) *LineItem {
	if l.Index < 0 || l.Index >= len(inv.LineItems) {
		return nil
	}
	return &inv.LineItems[l.Index]
}

// metadataSlot returns the address of the metadata pointer the locator
// refers to, or nil for whole-record locators and out-of-range indexes.
func (l FieldLocator) metadataSlot(inv *InvoiceData) **FieldMetadata {
	switch l.Kind {
	case LocInvoiceField:
		switch l.Field {
		case FieldInvoiceNumber:
			return &inv.Fields.InvoiceNumber
		case FieldInvoiceDate:
			return &inv.Fields.InvoiceDate
		case FieldCurrency:
			return &inv.Fields.Currency
		case FieldTotalDeclaredValue:
			return &inv.Fields.TotalDeclaredValue
		}
	case LocPartyField:
		p := l.party(inv)
		switch l.Field {
		case FieldPartyName:
			return &p.Fields.Name
		case FieldAddress:
			return &p.Fields.Address
		}
	case LocLineItemField:
		it := l.item(inv)
		if it == nil {
			return nil
		}
		switch l.Field {
		case FieldDescription:
			return &it.Fields.Description
		case FieldQuantity:
			return &it.Fields.Quantity
		case FieldUnitPrice:
			return &it.Fields.UnitPrice
		case FieldTotalPrice:
			return &it.Fields.TotalPrice
		case FieldCountryOfOrigin:
			return &it.Fields.CountryOfOrigin
		case FieldHSCode:
			return &it.Fields.HSCode
		}
	}
	return nil
}

// Metadata returns the field's metadata entry, or nil when absent or when
// the locator addresses a whole-record box.
func (l FieldLocator) Metadata(inv *InvoiceData) *FieldMetadata {
	slot := l.metadataSlot(inv)
	if slot == nil {
		return nil
	}
	return *slot
}

// EnsureMetadata returns the field's metadata entry, creating it first if
// needed. Returns nil only for locators that carry no metadata.
func (l FieldLocator) EnsureMetadata(inv *InvoiceData) *FieldMetadata {
	slot := l.metadataSlot(inv)
	if slot == nil {
		return nil
	}
	if *slot == nil {
		*slot = &FieldMetadata{}
	}
	return *slot
}

// Box returns the bounding box the locator addresses, or nil when absent.
func (l FieldLocator) Box(inv *InvoiceData) *geometry.BoundingBox {
	switch l.Kind {
	case LocLineItemRow:
		if it := l.item(inv); it != nil {
			return it.BoundingBox
		}
		return nil
	case LocTable:
		if l.Index >= 0 && l.Index < len(inv.Tables) {
			return &inv.Tables[l.Index].BoundingBox
		}
		return nil
	default:
		if md := l.Metadata(inv); md != nil {
			return md.BoundingBox
		}
		return nil
	}
}

// SetBox writes the bounding box the locator addresses, creating the
// metadata entry for field locators when needed.
func (l FieldLocator) SetBox(inv *InvoiceData, box geometry.BoundingBox) {
	switch l.Kind {
	case LocLineItemRow:
		if it := l.item(inv); it != nil {
			it.BoundingBox = &box
		}
	case LocTable:
		if l.Index >= 0 && l.Index < len(inv.Tables) {
			inv.Tables[l.Index].BoundingBox = box
		}
	default:
		if md := l.EnsureMetadata(inv); md != nil {
			md.BoundingBox = &box
		}
	}
}

// Value returns the scalar value as display text. Whole-record locators
// return "".
func (l FieldLocator) Value(inv *InvoiceData) string {
	switch l.Kind {
	case LocInvoiceField:
		switch l.Field {
		case FieldInvoiceNumber:
			return inv.InvoiceNumber
		case FieldInvoiceDate:
			return inv.InvoiceDate
		case FieldCurrency:
			return inv.Currency
		case FieldTotalDeclaredValue:
			return formatAmount(inv.TotalDeclaredValue)
		}
	case LocPartyField:
		p := l.party(inv)
		switch l.Field {
		case FieldPartyName:
			return p.Name
		case FieldAddress:
			return p.Address
		}
	case LocLineItemField:
		it := l.item(inv)
		if it == nil {
			return ""
		}
		switch l.Field {
		case FieldDescription:
			return it.Description
		case FieldQuantity:
			return formatAmount(it.Quantity)
		case FieldUnitPrice:
			return formatAmount(it.UnitPrice)
		case FieldTotalPrice:
			return formatAmount(it.TotalPrice)
		case FieldCountryOfOrigin:
			return it.CountryOfOrigin
		case FieldHSCode:
			return it.HSCode
		}
	}
	return ""
}

// SetValue writes a scalar from display text. Numeric fields parse with
// thousands separators tolerated; unparseable input stores 0.
func (l FieldLocator) SetValue(inv *InvoiceData, text string) {
	switch l.Kind {
	case LocInvoiceField:
		switch l.Field {
		case FieldInvoiceNumber:
			inv.InvoiceNumber = text
		case FieldInvoiceDate:
			inv.InvoiceDate = text
		case FieldCurrency:
			inv.Currency = text
		case FieldTotalDeclaredValue:
			inv.TotalDeclaredValue = ParseAmount(text)
		}
	case LocPartyField:
		p := l.party(inv)
		switch l.Field {
		case FieldPartyName:
			p.Name = text
		case FieldAddress:
			p.Address = text
		}
	case LocLineItemField:
		it := l.item(inv)
		if it == nil {
			return
		}
		switch l.Field {
		case FieldDescription:
			it.Description = text
		case FieldQuantity:
			it.Quantity = ParseAmount(text)
		case FieldUnitPrice:
			it.UnitPrice = ParseAmount(text)
		case FieldTotalPrice:
			it.TotalPrice = ParseAmount(text)
		case FieldCountryOfOrigin:
			it.CountryOfOrigin = text
		case FieldHSCode:
			it.HSCode = text
		}
	}
}

// ParseAmount parses a numeric field from OCR or user text. Thousands
// separators are stripped; parse failure yields 0.
func ParseAmount(text string) float64 {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
