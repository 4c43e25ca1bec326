// Package invoice defines the canonical reviewed-invoice data model.
//
// Every collaborator (extraction normalizer, template store, annotation
// surface, declaration exporter) exchanges this shape. The schema is
// invariant: fields absent from an extraction are zero values, never
// missing keys.
package invoice

import (
	"invoice-review/pkg/geometry"
)

// FieldMetadata carries the extraction provenance of one scalar field.
// Either part may be absent: a field can be extracted with no located
// region, or located with no usable confidence.
type FieldMetadata struct {
	BoundingBox *geometry.BoundingBox `json:"boundingBox,omitempty"`
	Confidence  *float64              `json:"confidence,omitempty"`
}

// Confident builds a FieldMetadata with both parts set.
func Confident(box geometry.BoundingBox, score float64) *FieldMetadata {
	return &FieldMetadata{BoundingBox: &box, Confidence: &score}
}

// PartyFields holds per-field metadata for a Party.
type PartyFields struct {
	Name    *FieldMetadata `json:"name,omitempty"`
	Address *FieldMetadata `json:"address,omitempty"`
}

// Party is one side of the transaction (shipper or consignee).
type Party struct {
	Name    string      `json:"name"`
	Address string      `json:"address"`
	Fields  PartyFields `json:"fields"`
}

// LineItemFields holds per-field metadata for a LineItem.
type LineItemFields struct {
	Description     *FieldMetadata `json:"description,omitempty"`
	Quantity        *FieldMetadata `json:"quantity,omitempty"`
	UnitPrice       *FieldMetadata `json:"unitPrice,omitempty"`
	TotalPrice      *FieldMetadata `json:"totalPrice,omitempty"`
	CountryOfOrigin *FieldMetadata `json:"countryOfOrigin,omitempty"`
	HSCode          *FieldMetadata `json:"hsCode,omitempty"`
}

// LineItem is one row of the invoice goods table.
type LineItem struct {
	Description     string  `json:"description"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	TotalPrice      float64 `json:"totalPrice"`
	CountryOfOrigin string  `json:"countryOfOrigin"`
	HSCode          string  `json:"hsCode"`

	// BoundingBox locates the whole row on its page.
	BoundingBox *geometry.BoundingBox `json:"boundingBox,omitempty"`
	Fields      LineItemFields        `json:"fields"`
}

// Table describes the detected grid of one goods table: its overall area
// plus the normalized coordinates of each separator line. Rows holds the
// y of every horizontal separator, Columns the x of every vertical one.
// Both arrays are kept sorted ascending after every completed edit.
type Table struct {
	BoundingBox geometry.BoundingBox `json:"boundingBox"`
	Rows        []float64            `json:"rows"`
	Columns     []float64            `json:"columns"`
}

// InvoiceFields holds per-field metadata for the top-level scalars.
type InvoiceFields struct {
	InvoiceNumber      *FieldMetadata `json:"invoiceNumber,omitempty"`
	InvoiceDate        *FieldMetadata `json:"invoiceDate,omitempty"`
	Currency           *FieldMetadata `json:"currency,omitempty"`
	TotalDeclaredValue *FieldMetadata `json:"totalDeclaredValue,omitempty"`
}

// InvoiceData is the canonical reviewed data model.
type InvoiceData struct {
	InvoiceNumber      string  `json:"invoiceNumber"`
	InvoiceDate        string  `json:"invoiceDate"`
	Currency           string  `json:"currency"`
	TotalDeclaredValue float64 `json:"totalDeclaredValue"`

	Shipper   Party `json:"shipper"`
	Consignee Party `json:"consignee"`

	LineItems []LineItem `json:"lineItems"`
	Tables    []Table    `json:"tables"`

	Fields InvoiceFields `json:"fields"`
}

// New returns an empty InvoiceData with non-nil slices, so the canonical
// shape serializes the same whether or not extraction found anything.
func New() InvoiceData {
	return InvoiceData{
		LineItems: []LineItem{},
		Tables:    []Table{},
	}
}
