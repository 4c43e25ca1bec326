package render

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/tiff"
)

// maxRenderDim caps the longer edge of a rendered page. High-DPI scans
// are downscaled for display; annotation coordinates are normalized, so
// the cap never affects stored geometry.
const maxRenderDim = 2400

var pageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// ImageDir rasterizes a document stored as one image file per page in a
// directory, ordered by filename.
type ImageDir struct {
	dir   string
	pages []string
}

// OpenImageDir scans a directory for page images. An empty or unreadable
// directory is a document error.
func OpenImageDir(dir string) (*ImageDir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocument, err)
	}

	var pages []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			pages = append(pages, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(pages)

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no page images in %s", ErrDocument, dir)
	}
	return &ImageDir{dir: dir, pages: pages}, nil
}

// Dir returns the document directory.
func (d *ImageDir) Dir() string {
	return d.dir
}

// PagePaths returns the page image files in page order. The extraction
// service consumes these.
func (d *ImageDir) PagePaths() []string {
	out := make([]string, len(d.pages))
	copy(out, d.pages)
	return out
}

// PageCount reports the number of page images found.
func (d *ImageDir) PageCount() int {
	return len(d.pages)
}

// RenderPage decodes the one-indexed page, downscaling oversized scans.
func (d *ImageDir) RenderPage(ctx context.Context, page int) (*PageImage, error) {
	if page < 1 || page > len(d.pages) {
		return nil, fmt.Errorf("%w: page %d of %d", ErrDocument, page, len(d.pages))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(d.pages[page-1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocument, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrDocument, d.pages[page-1], err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxRenderDim || bounds.Dy() > maxRenderDim {
		img = imaging.Fit(img, maxRenderDim, maxRenderDim, imaging.Lanczos)
		bounds = img.Bounds()
	}

	return &PageImage{
		Page:   page,
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
