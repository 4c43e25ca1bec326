package app

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-review/internal/extraction"
	"invoice-review/internal/invoice"
	"invoice-review/internal/template"
	"invoice-review/pkg/geometry"
)

func writeDocument(t *testing.T, pages int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < pages; i++ {
		f, err := os.Create(filepath.Join(dir, string(rune('a'+i))+".png"))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 60))))
		require.NoError(t, f.Close())
	}
	return dir
}

func writeSidecar(t *testing.T, dir string, resp extraction.Response) {
	t.Helper()
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extraction.json"), data, 0644))
}

func sidecarResponse(vendor string) extraction.Response {
	return extraction.Response{Pages: []extraction.PageExtraction{{
		Page: 0, Width: 800, Height: 1000,
		Predictions: []extraction.Prediction{
			{Label: extraction.LabelInvoiceNumber, Text: "INV-77", Score: 0.9, XMin: 10, YMin: 10, XMax: 110, YMax: 30},
			{Label: extraction.LabelShipperName, Text: vendor, Score: 0.8, XMin: 10, YMin: 50, XMax: 210, YMax: 70},
		},
	}}}
}

func TestOpenDocumentResetsReview(t *testing.T) {
	s := NewState(nil)
	s.Invoice.InvoiceNumber = "stale"
	s.AppliedVendor = "stale vendor"
	s.Modified = true

	var loaded, paged bool
	s.On(EventDocumentLoaded, func(interface{}) { loaded = true })
	s.On(EventPageChanged, func(data interface{}) { paged = data.(int) == 1 })

	dir := writeDocument(t, 2)
	require.NoError(t, s.OpenDocument(dir))

	assert.True(t, loaded)
	assert.True(t, paged)
	assert.Equal(t, 2, s.PageCount())
	assert.Equal(t, 1, s.CurrentPage)
	assert.Empty(t, s.Invoice.InvoiceNumber)
	assert.Empty(t, s.AppliedVendor)
	assert.False(t, s.Modified)
}

func TestOpenDocumentFailureKeepsState(t *testing.T) {
	s := NewState(nil)
	dir := writeDocument(t, 1)
	require.NoError(t, s.OpenDocument(dir))
	s.Invoice.InvoiceNumber = "INV-1"

	err := s.OpenDocument(t.TempDir()) // no page images
	require.Error(t, err)
	assert.Equal(t, "INV-1", s.Invoice.InvoiceNumber)
}

func TestSetPageBounds(t *testing.T) {
	s := NewState(nil)
	dir := writeDocument(t, 3)
	require.NoError(t, s.OpenDocument(dir))

	var events []int
	s.On(EventPageChanged, func(data interface{}) { events = append(events, data.(int)) })

	s.SetPage(2)
	s.SetPage(2) // no-op
	s.SetPage(0) // out of range
	s.SetPage(4) // out of range
	assert.Equal(t, []int{2}, events)
	assert.Equal(t, 2, s.CurrentPage)
}

func TestRunExtractionPopulatesInvoice(t *testing.T) {
	s := NewState(nil)
	dir := writeDocument(t, 1)
	require.NoError(t, s.OpenDocument(dir))
	writeSidecar(t, dir, sidecarResponse("Acme Exports"))

	var extracted, changed bool
	s.On(EventExtractionComplete, func(interface{}) { extracted = true })
	s.On(EventInvoiceChanged, func(interface{}) { changed = true })

	err := s.RunExtraction(context.Background(), extraction.NewFileService(), nil)
	require.NoError(t, err)

	assert.True(t, extracted)
	assert.True(t, changed)
	assert.Equal(t, "INV-77", s.Invoice.InvoiceNumber)
	assert.Equal(t, "Acme Exports", s.Invoice.Shipper.Name)
	assert.Empty(t, s.AppliedVendor)
}

func TestRunExtractionFailureLeavesInvoice(t *testing.T) {
	s := NewState(nil)
	dir := writeDocument(t, 1) // no sidecar file
	require.NoError(t, s.OpenDocument(dir))
	s.Invoice.InvoiceNumber = "hand-corrected"

	err := s.RunExtraction(context.Background(), extraction.NewFileService(), nil)
	require.Error(t, err)
	assert.Equal(t, "hand-corrected", s.Invoice.InvoiceNumber)
}

func TestRunExtractionAppliesTemplate(t *testing.T) {
	store := template.OpenStore(filepath.Join(t.TempDir(), "templates.json"))
	corrected := invoice.New()
	corrected.InvoiceNumber = "CORR-1"
	corrected.Shipper.Name = "Acme Exports"
	require.NoError(t, store.SaveByVendor(template.New("Acme Exports", corrected)))

	s := NewState(store)
	dir := writeDocument(t, 1)
	require.NoError(t, s.OpenDocument(dir))
	writeSidecar(t, dir, sidecarResponse("ACME EXPORTS"))

	var applied string
	s.On(EventTemplateApplied, func(data interface{}) { applied = data.(string) })

	require.NoError(t, s.RunExtraction(context.Background(), extraction.NewFileService(), nil))
	assert.Equal(t, "Acme Exports", applied)
	assert.Equal(t, "Acme Exports", s.AppliedVendor)
	assert.Equal(t, "CORR-1", s.Invoice.InvoiceNumber)
}

func TestSetFieldValueAndBox(t *testing.T) {
	s := NewState(nil)
	loc := invoice.InvoiceField(invoice.FieldInvoiceNumber)

	var modified bool
	s.On(EventModified, func(data interface{}) { modified = data.(bool) })

	s.SetFieldValue(loc, "INV-9")
	assert.Equal(t, "INV-9", s.Invoice.InvoiceNumber)
	assert.True(t, modified)

	// Inverted boxes come back canonical.
	s.SetFieldBox(loc, geometry.BoundingBox{Page: 1, X1: 0.8, Y1: 0.6, X2: 0.2, Y2: 0.1})
	box := loc.Box(&s.Invoice)
	require.NotNil(t, box)
	assert.Equal(t, geometry.BoundingBox{Page: 1, X1: 0.2, Y1: 0.1, X2: 0.8, Y2: 0.6}, *box)
	assert.True(t, s.Modified)
}

func TestSaveTemplateRequiresShipper(t *testing.T) {
	store := template.OpenStore(filepath.Join(t.TempDir(), "templates.json"))
	s := NewState(store)

	_, err := s.SaveTemplate()
	require.Error(t, err)

	s.Invoice.Shipper.Name = "Nordic Trading AB"
	s.Invoice.InvoiceNumber = "N-100"
	tpl, err := s.SaveTemplate()
	require.NoError(t, err)
	assert.Equal(t, "Nordic Trading AB", tpl.VendorName)
	assert.NotEmpty(t, tpl.ID)
	assert.Equal(t, "Nordic Trading AB", s.AppliedVendor)

	found, ok := store.FindByVendor("nordic trading ab")
	require.True(t, ok)
	assert.Equal(t, "N-100", found.Invoice.InvoiceNumber)
}
