package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoResult indicates the extraction service produced nothing usable.
// Distinct from a document parse failure; callers must leave previously
// reviewed data untouched when they see it.
var ErrNoResult = errors.New("extraction produced no result")

// Service produces a raw machine-extraction response for a document's
// page images. Implementations are fallible and honor ctx cancellation.
type Service interface {
	Extract(ctx context.Context, pagePaths []string) (*Response, error)
}

// FileService reads a pre-computed response from a sidecar JSON file next
// to the document (produced by an external inference run).
type FileService struct {
	// Filename of the sidecar within the document directory.
	Filename string
}

// NewFileService returns a FileService with the default sidecar name.
func NewFileService() *FileService {
	return &FileService{Filename: "extraction.json"}
}

// Extract loads the sidecar next to the first page image.
func (s *FileService) Extract(ctx context.Context, pagePaths []string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(pagePaths) == 0 {
		return nil, ErrNoResult
	}

	path := filepath.Join(filepath.Dir(pagePaths[0]), s.Filename)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: no sidecar at %s", ErrNoResult, path)
	}

	resp, err := LoadResponse(path)
	if err != nil {
		return nil, err
	}
	if len(resp.Pages) == 0 {
		return nil, ErrNoResult
	}
	return resp, nil
}
