package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-review/pkg/geometry"
)

func boxOn(page int, y float64) geometry.BoundingBox {
	return geometry.BoundingBox{Page: page, X1: 0.1, Y1: y, X2: 0.9, Y2: y + 0.05}
}

func TestWalkBoxesCollectsFieldAndRecordBoxes(t *testing.T) {
	inv := sampleInvoice()

	InvoiceField(FieldInvoiceNumber).SetBox(&inv, boxOn(1, 0.05))
	PartyField(Shipper, FieldPartyName).SetBox(&inv, boxOn(1, 0.15))
	LineItemRow(0).SetBox(&inv, boxOn(1, 0.4))
	LineItemField(0, FieldHSCode).SetBox(&inv, boxOn(1, 0.4))
	LineItemField(1, FieldHSCode).SetBox(&inv, boxOn(2, 0.1))
	inv.Tables = append(inv.Tables, Table{BoundingBox: boxOn(2, 0.3)})

	var seen []string
	WalkBoxes(&inv, func(ref BoxRef) {
		seen = append(seen, ref.Locator.String())
	})

	assert.Equal(t, []string{
		"invoiceNumber",
		"shipper.name",
		"lineItems[0]",
		"lineItems[0].hsCode",
		"lineItems[1].hsCode",
		"tables[0]",
	}, seen)
}

func TestBoxesOnPageFilters(t *testing.T) {
	inv := sampleInvoice()
	LineItemField(0, FieldHSCode).SetBox(&inv, boxOn(1, 0.4))
	LineItemField(1, FieldHSCode).SetBox(&inv, boxOn(2, 0.1))

	page1 := BoxesOnPage(&inv, 1)
	require.Len(t, page1, 1)
	assert.Equal(t, "lineItems[0].hsCode", page1[0].Locator.String())

	assert.Empty(t, BoxesOnPage(&inv, 3))
}

func TestConfidencesAndEachMetadata(t *testing.T) {
	inv := sampleInvoice()
	for i, loc := range []FieldLocator{
		InvoiceField(FieldInvoiceNumber),
		PartyField(Shipper, FieldPartyName),
		LineItemField(0, FieldQuantity),
	} {
		md := loc.EnsureMetadata(&inv)
		score := 0.5 + float64(i)*0.1
		md.Confidence = &score
	}

	assert.Equal(t, []float64{0.5, 0.6, 0.7}, Confidences(&inv))

	EachMetadata(&inv, func(md *FieldMetadata) {
		one := 1.0
		md.Confidence = &one
	})
	assert.Equal(t, []float64{1, 1, 1}, Confidences(&inv))
}
