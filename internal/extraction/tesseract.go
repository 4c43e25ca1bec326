package extraction

import (
	"context"
	"fmt"
	"image"
	"regexp"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// TesseractEngine is a local, best-effort extraction service built on
// Tesseract word detection. It exists so the reviewer works without an
// external inference run; its labeling is keyword-driven and produces no
// table cells. Quality is not a goal here, the reviewer is.
type TesseractEngine struct {
	client *gosseract.Client
}

// NewTesseractEngine creates a local extraction engine.
func NewTesseractEngine() (*TesseractEngine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language: %w", err)
	}

	// Invoice numbers and HS codes are not dictionary words; stop
	// Tesseract from "correcting" them.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &TesseractEngine{client: client}, nil
}

// Close releases OCR resources.
func (e *TesseractEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Extract runs word detection over every page image and labels the words
// it can recognize as invoice fields.
func (e *TesseractEngine) Extract(ctx context.Context, pagePaths []string) (*Response, error) {
	resp := &Response{}

	for i, path := range pagePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := e.extractPage(i, path)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		resp.Pages = append(resp.Pages, page)
	}

	if len(resp.Pages) == 0 {
		return nil, ErrNoResult
	}
	return resp, nil
}

// word is one detected word with its pixel box.
type word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

func (e *TesseractEngine) extractPage(index int, path string) (PageExtraction, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return PageExtraction{}, fmt.Errorf("unreadable image %s", path)
	}
	defer img.Close()

	page := PageExtraction{
		Page:   index,
		Width:  float64(img.Cols()),
		Height: float64(img.Rows()),
	}

	processed := preprocessForOCR(img)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return PageExtraction{}, fmt.Errorf("encode page: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return PageExtraction{}, fmt.Errorf("set PSM: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return PageExtraction{}, fmt.Errorf("set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return PageExtraction{}, fmt.Errorf("word detection: %w", err)
	}

	var words []word
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		words = append(words, word{
			Text:       text,
			Box:        box.Box,
			Confidence: box.Confidence / 100,
		})
	}

	page.Predictions = LabelWords(words)
	return page, nil
}

// preprocessForOCR prepares a page image for word detection: grayscale,
// CLAHE contrast enhancement, Otsu binarization.
func preprocessForOCR(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{X: 8, Y: 8})
	defer clahe.Close()

	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()

	return result
}

var (
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$|^\d{2}[./]\d{2}[./]\d{4}$`)
	amountRe   = regexp.MustCompile(`^\d{1,3}(,\d{3})*(\.\d+)?$|^\d+\.\d{2}$`)
	numberWord = regexp.MustCompile(`\d`)
)

var currencyCodes = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "CHF": true, "CAD": true, "AUD": true,
}

// LabelWords assigns field labels to detected words by keyword anchors:
// the word after "INVOICE"/"INV" that carries a digit becomes the invoice
// number, the first date-shaped word the date, the first known currency
// code the currency, and the last amount-shaped word the total.
func LabelWords(words []word) []Prediction {
	var preds []Prediction
	add := func(label string, w word) {
		preds = append(preds, Prediction{
			Label: label,
			Text:  w.Text,
			Score: w.Confidence,
			XMin:  float64(w.Box.Min.X),
			YMin:  float64(w.Box.Min.Y),
			XMax:  float64(w.Box.Max.X),
			YMax:  float64(w.Box.Max.Y),
		})
	}

	var haveNumber, haveDate, haveCurrency bool
	var total *word

	for i, w := range words {
		upper := strings.ToUpper(strings.Trim(w.Text, ".:#"))

		if !haveNumber && (upper == "INVOICE" || upper == "INV") {
			for _, next := range words[i+1 : min(i+4, len(words))] {
				if numberWord.MatchString(next.Text) {
					add(LabelInvoiceNumber, next)
					haveNumber = true
					break
				}
			}
		}
		if !haveDate && dateRe.MatchString(w.Text) {
			add(LabelInvoiceDate, w)
			haveDate = true
		}
		if !haveCurrency && currencyCodes[upper] {
			add(LabelCurrency, w)
			haveCurrency = true
		}
		if amountRe.MatchString(w.Text) {
			cand := w
			total = &cand
		}
	}

	if total != nil {
		add(LabelTotalValue, *total)
	}
	return preds
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
