package template

import (
	"invoice-review/internal/invoice"
)

const (
	// templateConfidence is applied to every field of template-provided
	// data, standing in for a template-guided extraction pass.
	templateConfidence = 0.99

	// unguidedCap is the ceiling applied to a fixed subset of fields
	// when no template matched, standing in for the lower accuracy of
	// unguided extraction. Capping (rather than scaling) keeps the rule
	// idempotent.
	unguidedCap = 0.55
)

// Result is the reconciled data to surface to the reviewer.
type Result struct {
	Invoice invoice.InvoiceData
	// AppliedVendor is the vendor name of the template that supplied the
	// data, or "" when none matched.
	AppliedVendor string
}

// Reconcile decides which data to surface: a caller-preselected template
// beats an auto-match on shipper name, which beats the raw extraction.
// Template-provided data comes back wholesale with every confidence
// boosted; raw data comes back with the unguided weakening applied.
func Reconcile(extracted invoice.InvoiceData, preselected *VendorTemplate, store *Store) Result {
	if preselected != nil {
		return Result{
			Invoice:       BoostConfidence(preselected.Invoice),
			AppliedVendor: preselected.VendorName,
		}
	}

	if store != nil && extracted.Shipper.Name != "" {
		if tmpl, ok := store.FindByVendor(extracted.Shipper.Name); ok {
			return Result{
				Invoice:       BoostConfidence(tmpl.Invoice),
				AppliedVendor: tmpl.VendorName,
			}
		}
	}

	return Result{Invoice: weakenUnguided(extracted)}
}

// BoostConfidence forces every present confidence to the template level.
// Applying it twice yields the same result as applying it once.
func BoostConfidence(inv invoice.InvoiceData) invoice.InvoiceData {
	out := clone(inv)
	invoice.EachMetadata(&out, func(md *invoice.FieldMetadata) {
		score := templateConfidence
		md.Confidence = &score
	})
	return out
}

// weakenUnguided caps the confidence of the identity-critical fields.
// Which fields get weakened is a placeholder policy; only the branch it
// runs in is contractual.
func weakenUnguided(inv invoice.InvoiceData) invoice.InvoiceData {
	out := clone(inv)
	for _, md := range []*invoice.FieldMetadata{
		out.Fields.InvoiceNumber,
		out.Fields.InvoiceDate,
		out.Fields.TotalDeclaredValue,
	} {
		if md == nil || md.Confidence == nil {
			continue
		}
		if *md.Confidence > unguidedCap {
			capped := unguidedCap
			md.Confidence = &capped
		}
	}
	return out
}

// clone deep-copies an InvoiceData so reconciliation never aliases the
// caller's metadata pointers.
func clone(inv invoice.InvoiceData) invoice.InvoiceData {
	out := inv

	out.Fields.InvoiceNumber = cloneMeta(inv.Fields.InvoiceNumber)
	out.Fields.InvoiceDate = cloneMeta(inv.Fields.InvoiceDate)
	out.Fields.Currency = cloneMeta(inv.Fields.Currency)
	out.Fields.TotalDeclaredValue = cloneMeta(inv.Fields.TotalDeclaredValue)
	out.Shipper.Fields.Name = cloneMeta(inv.Shipper.Fields.Name)
	out.Shipper.Fields.Address = cloneMeta(inv.Shipper.Fields.Address)
	out.Consignee.Fields.Name = cloneMeta(inv.Consignee.Fields.Name)
	out.Consignee.Fields.Address = cloneMeta(inv.Consignee.Fields.Address)

	out.LineItems = make([]invoice.LineItem, len(inv.LineItems))
	for i, it := range inv.LineItems {
		c := it
		if it.BoundingBox != nil {
			box := *it.BoundingBox
			c.BoundingBox = &box
		}
		c.Fields.Description = cloneMeta(it.Fields.Description)
		c.Fields.Quantity = cloneMeta(it.Fields.Quantity)
		c.Fields.UnitPrice = cloneMeta(it.Fields.UnitPrice)
		c.Fields.TotalPrice = cloneMeta(it.Fields.TotalPrice)
		c.Fields.CountryOfOrigin = cloneMeta(it.Fields.CountryOfOrigin)
		c.Fields.HSCode = cloneMeta(it.Fields.HSCode)
		out.LineItems[i] = c
	}

	out.Tables = make([]invoice.Table, len(inv.Tables))
	for i, t := range inv.Tables {
		c := t
		c.Rows = append([]float64(nil), t.Rows...)
		c.Columns = append([]float64(nil), t.Columns...)
		out.Tables[i] = c
	}

	return out
}

func cloneMeta(md *invoice.FieldMetadata) *invoice.FieldMetadata {
	if md == nil {
		return nil
	}
	c := invoice.FieldMetadata{}
	if md.BoundingBox != nil {
		box := *md.BoundingBox
		c.BoundingBox = &box
	}
	if md.Confidence != nil {
		score := *md.Confidence
		c.Confidence = &score
	}
	return &c
}
