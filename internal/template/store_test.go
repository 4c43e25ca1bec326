package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-review/internal/invoice"
)

func TestStoreSaveListDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "templates.json")
	s := OpenStore(path)
	assert.Empty(t, s.List())

	tmpl := New("Acme GmbH", invoice.New())
	require.NoError(t, s.SaveByVendor(tmpl))
	require.Len(t, s.List(), 1)
	assert.NotEmpty(t, s.List()[0].ID)

	// Saving the same vendor (different case) updates in place and
	// keeps the original ID.
	updated := New("ACME GMBH", invoice.New())
	updated.Invoice.InvoiceNumber = "INV-2"
	require.NoError(t, s.SaveByVendor(updated))
	all := s.List()
	require.Len(t, all, 1)
	assert.Equal(t, tmpl.ID, all[0].ID)
	assert.Equal(t, "INV-2", all[0].Invoice.InvoiceNumber)

	require.NoError(t, s.DeleteByID(tmpl.ID))
	assert.Empty(t, s.List())

	// Deleting an unknown ID is a no-op.
	require.NoError(t, s.DeleteByID("missing"))
}

func TestStoreRoundTripsThroughDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	s := OpenStore(path)
	inv := invoice.New()
	inv.InvoiceNumber = "INV-7"
	require.NoError(t, s.SaveByVendor(New("Widget Corp", inv)))

	reopened := OpenStore(path)
	got, ok := reopened.FindByVendor("widget corp")
	require.True(t, ok)
	assert.Equal(t, "INV-7", got.Invoice.InvoiceNumber)
}

func TestStoreCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{not json"), 0o644))

	s := OpenStore(path)
	assert.Empty(t, s.List())

	// The store stays usable after degrading.
	require.NoError(t, s.SaveByVendor(New("Acme", invoice.New())))
	assert.Len(t, s.List(), 1)
}

func TestFindByVendorMiss(t *testing.T) {
	s := OpenStore(filepath.Join(t.TempDir(), "templates.json"))
	_, ok := s.FindByVendor("Nobody")
	assert.False(t, ok)
}
