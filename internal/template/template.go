// Package template provides vendor-template storage and reconciliation.
//
// A vendor template is a previously human-corrected InvoiceData for one
// vendor. It is reapplied wholesale, not diffed: when a template matches,
// its data replaces the fresh extraction entirely.
package template

import (
	"github.com/google/uuid"

	"invoice-review/internal/invoice"
)

// VendorTemplate is one saved correction, keyed by vendor name.
type VendorTemplate struct {
	ID         string              `json:"id"`
	VendorName string              `json:"vendorName"`
	Invoice    invoice.InvoiceData `json:"invoiceData"`
}

// New creates a template with a fresh ID.
func New(vendorName string, inv invoice.InvoiceData) VendorTemplate {
	return VendorTemplate{
		ID:         uuid.NewString(),
		VendorName: vendorName,
		Invoice:    inv,
	}
}
