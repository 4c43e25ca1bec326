// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"context"
	"fmt"
	"sync"

	"invoice-review/internal/extraction"
	"invoice-review/internal/invoice"
	"invoice-review/internal/render"
	"invoice-review/internal/template"
	"invoice-review/pkg/geometry"
)

// State holds the application state including the open document, the
// invoice under review, and the applied vendor template.
type State struct {
	mu sync.RWMutex

	// Document
	Document    *render.ImageDir
	CurrentPage int // one-indexed; 0 when no document is open
	Modified    bool

	// Review data
	Invoice       invoice.InvoiceData
	AppliedVendor string

	// Current selection, nil when nothing is selected
	Selection *invoice.FieldLocator

	// Templates
	Templates *template.Store

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventExtractionComplete
	EventInvoiceChanged
	EventPageChanged
	EventTemplateApplied
	EventSelectionChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState(templates *template.Store) *State {
	return &State{
		Invoice:   invoice.New(),
		Templates: templates,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the review session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// OpenDocument opens a page-image directory for review. The previous
// invoice data is discarded and the view resets to the first page.
func (s *State) OpenDocument(dir string) error {
	doc, err := render.OpenImageDir(dir)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}

	s.mu.Lock()
	s.Document = doc
	s.CurrentPage = 1
	s.Invoice = invoice.New()
	s.AppliedVendor = ""
	s.Selection = nil
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventDocumentLoaded, dir)
	s.Emit(EventPageChanged, 1)
	return nil
}

// PageCount returns the number of pages in the open document.
func (s *State) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Document == nil {
		return 0
	}
	return s.Document.PageCount()
}

// SetPage switches the current page. Out-of-range pages are ignored.
func (s *State) SetPage(page int) {
	s.mu.Lock()
	if s.Document == nil || page < 1 || page > s.Document.PageCount() || page == s.CurrentPage {
		s.mu.Unlock()
		return
	}
	s.CurrentPage = page
	s.mu.Unlock()

	s.Emit(EventPageChanged, page)
}

// RunExtraction extracts the open document and reconciles the result
// against the template store. On failure the current invoice data is
// left untouched so in-progress corrections are never lost.
func (s *State) RunExtraction(ctx context.Context, svc extraction.Service, preselected *template.VendorTemplate) error {
	s.mu.RLock()
	doc := s.Document
	store := s.Templates
	s.mu.RUnlock()

	if doc == nil {
		return fmt.Errorf("no document open")
	}

	resp, err := svc.Extract(ctx, doc.PagePaths())
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	extracted := extraction.Normalize(resp)
	result := template.Reconcile(extracted, preselected, store)

	s.mu.Lock()
	s.Invoice = result.Invoice
	s.AppliedVendor = result.AppliedVendor
	s.Selection = nil
	s.mu.Unlock()

	s.Emit(EventExtractionComplete, nil)
	if result.AppliedVendor != "" {
		s.Emit(EventTemplateApplied, result.AppliedVendor)
	}
	s.Emit(EventInvoiceChanged, nil)
	return nil
}

// Select marks a field as the active selection. A nil locator clears it.
func (s *State) Select(loc *invoice.FieldLocator) {
	s.mu.Lock()
	s.Selection = loc
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, loc)
}

// SetFieldValue updates the text value behind a locator.
func (s *State) SetFieldValue(loc invoice.FieldLocator, value string) {
	s.mu.Lock()
	loc.SetValue(&s.Invoice, value)
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventInvoiceChanged, loc)
}

// SetFieldBox updates the bounding box behind a locator.
func (s *State) SetFieldBox(loc invoice.FieldLocator, box geometry.BoundingBox) {
	s.mu.Lock()
	loc.SetBox(&s.Invoice, box.Canonical())
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventInvoiceChanged, loc)
}

// SaveTemplate persists the current invoice as the vendor template for
// its shipper, or updates the existing one.
func (s *State) SaveTemplate() (*template.VendorTemplate, error) {
	s.mu.RLock()
	vendor := ""
	if s.Invoice.Shipper.Name != "" {
		vendor = s.Invoice.Shipper.Name
	}
	inv := s.Invoice
	store := s.Templates
	s.mu.RUnlock()

	if vendor == "" {
		return nil, fmt.Errorf("shipper name is empty")
	}
	if store == nil {
		return nil, fmt.Errorf("no template store configured")
	}

	tpl := template.New(vendor, inv)
	if err := store.SaveByVendor(tpl); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}

	s.mu.Lock()
	s.AppliedVendor = vendor
	s.mu.Unlock()

	s.Emit(EventTemplateApplied, vendor)
	// Updates keep the original ID, so re-read the stored copy.
	stored, _ := store.FindByVendor(vendor)
	return &stored, nil
}

// Quality computes the confidence report for the current invoice.
func (s *State) Quality() extraction.QualityReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return extraction.Quality(&s.Invoice)
}
