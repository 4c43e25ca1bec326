package extraction

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"invoice-review/internal/invoice"
)

// QualityReport summarizes the confidence scores present in a normalized
// invoice. It drives the status-bar summary and nothing else; reviewed
// data is authoritative regardless of these numbers.
type QualityReport struct {
	Fields int
	Mean   float64
	StdDev float64
	Min    float64
}

// Quality computes confidence statistics over every metadata entry.
func Quality(inv *invoice.InvoiceData) QualityReport {
	scores := invoice.Confidences(inv)
	if len(scores) == 0 {
		return QualityReport{}
	}

	r := QualityReport{
		Fields: len(scores),
		Mean:   stat.Mean(scores, nil),
		Min:    scores[0],
	}
	if len(scores) > 1 {
		r.StdDev = stat.StdDev(scores, nil)
	}
	for _, s := range scores[1:] {
		if s < r.Min {
			r.Min = s
		}
	}
	return r
}

func (r QualityReport) String() string {
	if r.Fields == 0 {
		return "no extracted fields"
	}
	return fmt.Sprintf("%d fields, mean confidence %.2f (min %.2f)", r.Fields, r.Mean, r.Min)
}
