// Package export serializes reviewed invoice data into a customs
// declaration text document. Pure templating over the canonical model;
// it knows nothing of annotation or extraction internals.
package export

import (
	"fmt"
	"strings"
	"text/template"

	"invoice-review/internal/invoice"
)

const declarationTemplate = `CUSTOMS DECLARATION
===================

Invoice No:      {{escape .InvoiceNumber}}
Invoice Date:    {{escape .InvoiceDate}}
Currency:        {{escape .Currency}}
Declared Value:  {{amount .TotalDeclaredValue}}

SHIPPER
  {{escape .Shipper.Name}}
  {{escape .Shipper.Address}}

CONSIGNEE
  {{escape .Consignee.Name}}
  {{escape .Consignee.Address}}

GOODS
{{- range $i, $item := .LineItems}}
{{printf "%3d" (inc $i)}}. {{escape $item.Description}}
     HS {{escape $item.HSCode}}  Origin {{escape $item.CountryOfOrigin}}
     {{amount $item.Quantity}} x {{amount $item.UnitPrice}} = {{amount $item.TotalPrice}}
{{- end}}

Line items: {{len .LineItems}}
`

var declTmpl = template.Must(template.New("declaration").Funcs(template.FuncMap{
	"escape": escapeValue,
	"amount": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"inc":    func(i int) int { return i + 1 },
}).Parse(declarationTemplate))

// Declaration renders InvoiceData as declaration document text.
func Declaration(inv invoice.InvoiceData) (string, error) {
	var sb strings.Builder
	if err := declTmpl.Execute(&sb, inv); err != nil {
		return "", fmt.Errorf("render declaration: %w", err)
	}
	return sb.String(), nil
}

// escapeValue keeps reviewed free text from breaking the line-oriented
// document format: newlines collapse to "; " and empty values render as
// a placeholder.
func escapeValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "; ")
	return s
}
