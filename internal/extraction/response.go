// Package extraction consumes raw machine-extraction output and folds it
// into the canonical invoice model.
//
// The raw response is pixel-addressed and zero-indexed by page, one entry
// per page, exactly as the upstream inference service emits it. Responses
// are best-effort: malformed or missing pieces degrade to zero values,
// never to an error.
package extraction

import (
	"encoding/json"
	"fmt"
	"os"
)

// Prediction labels the normalizer understands.
const (
	LabelInvoiceNumber    = "invoice_number"
	LabelInvoiceDate      = "invoice_date"
	LabelCurrency         = "currency"
	LabelTotalValue       = "total_value"
	LabelShipperName      = "shipper_name"
	LabelShipperAddress   = "shipper_address"
	LabelConsigneeName    = "consignee_name"
	LabelConsigneeAddress = "consignee_address"
	LabelTableGrid        = "table_grid"

	// Cell labels inside a line_items table.
	LabelDescription     = "description"
	LabelQuantity        = "quantity"
	LabelUnitPrice       = "unit_price"
	LabelTotalPrice      = "total_price"
	LabelCountryOfOrigin = "country_of_origin"
	LabelHSCode          = "hs_code"

	// TableLineItems names the goods table in a page's table list.
	TableLineItems = "line_items"
)

// Prediction is one labeled region on a page, pixel-addressed. For a
// table_grid prediction, Rows and Columns carry the pixel offsets of the
// detected separator lines; for every other label they are empty.
type Prediction struct {
	Label string  `json:"label"`
	Text  string  `json:"ocr_text"`
	Score float64 `json:"score"`

	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`

	Rows    []float64 `json:"rows,omitempty"`
	Columns []float64 `json:"columns,omitempty"`
}

// Cell is one labeled, row/col-addressed table cell.
type Cell struct {
	Label string  `json:"label"`
	Text  string  `json:"text"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Score float64 `json:"score"`

	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// TableExtraction is a flat list of cells belonging to one table.
type TableExtraction struct {
	Name  string `json:"name"`
	Cells []Cell `json:"cells"`
}

// PageExtraction is the raw output for one page. Page is zero-indexed in
// the wire format; the normalizer re-indexes to one-based.
type PageExtraction struct {
	Page   int     `json:"page"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Predictions []Prediction      `json:"predictions"`
	Tables      []TableExtraction `json:"tables"`
}

// Response is a full machine-extraction response, one entry per page.
type Response struct {
	Pages []PageExtraction `json:"pages"`
}

// LoadResponse reads a sidecar extraction response from a JSON file.
// Unknown fields are ignored; the format is producer-owned.
func LoadResponse(path string) (*Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extraction response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}
	return &resp, nil
}
