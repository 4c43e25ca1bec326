// Package render models the page rasterization collaborator: something
// that turns a page number into a bitmap with known pixel dimensions,
// cancelable mid-flight.
package render

import (
	"context"
	"errors"
	"image"
)

// ErrDocument indicates the document itself could not be opened or a
// page could not be rasterized. Distinct from extraction failures; when
// it surfaces, no partial page state is kept.
var ErrDocument = errors.New("document cannot be rendered")

// PageImage is one rendered page with its intrinsic pixel dimensions.
type PageImage struct {
	Page   int // one-indexed
	Image  image.Image
	Width  int
	Height int
}

// Rasterizer renders document pages on demand.
type Rasterizer interface {
	// PageCount reports how many pages the document has.
	PageCount() int
	// RenderPage rasterizes the one-indexed page, honoring ctx
	// cancellation.
	RenderPage(ctx context.Context, page int) (*PageImage, error)
}
