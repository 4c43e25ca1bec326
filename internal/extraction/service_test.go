package extraction

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileServiceReadsSidecar(t *testing.T) {
	dir := t.TempDir()
	sidecar := `{"pages":[{"page":0,"width":800,"height":1200,"predictions":[
		{"label":"invoice_number","ocr_text":"INV-9","score":0.9,"xmin":10,"ymin":10,"xmax":90,"ymax":30}
	]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extraction.json"), []byte(sidecar), 0o644))

	svc := NewFileService()
	resp, err := svc.Extract(context.Background(), []string{filepath.Join(dir, "page-001.png")})
	require.NoError(t, err)
	require.Len(t, resp.Pages, 1)
	assert.Equal(t, "INV-9", resp.Pages[0].Predictions[0].Text)
}

func TestFileServiceMissingSidecar(t *testing.T) {
	svc := NewFileService()
	_, err := svc.Extract(context.Background(), []string{filepath.Join(t.TempDir(), "page-001.png")})
	assert.ErrorIs(t, err, ErrNoResult)

	_, err = svc.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestFileServiceCorruptSidecar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extraction.json"), []byte("{nope"), 0o644))

	svc := NewFileService()
	_, err := svc.Extract(context.Background(), []string{filepath.Join(dir, "page-001.png")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
}

func TestFileServiceHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewFileService()
	_, err := svc.Extract(ctx, []string{"whatever.png"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLabelWords(t *testing.T) {
	w := func(text string, x int, conf float64) word {
		return word{Text: text, Box: image.Rect(x, 100, x+60, 130), Confidence: conf}
	}

	words := []word{
		w("COMMERCIAL", 0, 0.9),
		w("INVOICE", 70, 0.9),
		w("No.", 140, 0.8),
		w("A-4471", 200, 0.85),
		w("2024-03-15", 300, 0.92),
		w("EUR", 400, 0.95),
		w("1,234.50", 500, 0.83),
		w("9,870.00", 600, 0.81),
	}

	preds := LabelWords(words)
	byLabel := map[string]Prediction{}
	for _, p := range preds {
		byLabel[p.Label] = p
	}

	assert.Equal(t, "A-4471", byLabel[LabelInvoiceNumber].Text)
	assert.Equal(t, "2024-03-15", byLabel[LabelInvoiceDate].Text)
	assert.Equal(t, "EUR", byLabel[LabelCurrency].Text)
	// The last amount-shaped word wins as the total.
	assert.Equal(t, "9,870.00", byLabel[LabelTotalValue].Text)
	assert.Equal(t, 300.0, byLabel[LabelInvoiceDate].XMin)
}
