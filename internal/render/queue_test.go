package render

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-review/pkg/geometry"
)

// gatedRasterizer blocks each render until its page is released, so
// tests can control completion order.
type gatedRasterizer struct {
	mu    sync.Mutex
	gates map[int]chan struct{}
	fail  map[int]bool
}

func newGatedRasterizer() *gatedRasterizer {
	return &gatedRasterizer{gates: make(map[int]chan struct{}), fail: make(map[int]bool)}
}

func (r *gatedRasterizer) gate(page int) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.gates[page]; !ok {
		r.gates[page] = make(chan struct{})
	}
	return r.gates[page]
}

func (r *gatedRasterizer) release(page int) {
	close(r.gate(page))
}

func (r *gatedRasterizer) PageCount() int { return 99 }

func (r *gatedRasterizer) RenderPage(ctx context.Context, page int) (*PageImage, error) {
	select {
	case <-r.gate(page):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	r.mu.Lock()
	fail := r.fail[page]
	r.mu.Unlock()
	if fail {
		return nil, fmt.Errorf("%w: page %d", ErrDocument, page)
	}
	return &PageImage{Page: page, Width: 1000, Height: 1500}, nil
}

func collectQueue(r Rasterizer) (*Queue, chan *PageImage, chan geometry.BoundingBox, chan error) {
	pages := make(chan *PageImage, 8)
	frames := make(chan geometry.BoundingBox, 8)
	errs := make(chan error, 8)

	q := NewQueue(r)
	q.OnPage = func(p *PageImage) { pages <- p }
	q.OnFrame = func(b geometry.BoundingBox) { frames <- b }
	q.OnError = func(err error) { errs <- err }
	return q, pages, frames, errs
}

func waitPage(t *testing.T, ch chan *PageImage) *PageImage {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for page")
		return nil
	}
}

func TestQueueDiscardsSupersededRender(t *testing.T) {
	r := newGatedRasterizer()
	q, pages, _, _ := collectQueue(r)

	q.Request(1)
	q.Request(2) // cancels the page-1 job

	// Let the canceled job finish first; its frame must not surface.
	r.release(1)
	r.release(2)

	got := waitPage(t, pages)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 2, q.CurrentPage())

	select {
	case stale := <-pages:
		t.Fatalf("stale page %d delivered", stale.Page)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestQueueDefersFrameUntilPageReady(t *testing.T) {
	r := newGatedRasterizer()
	q, pages, frames, _ := collectQueue(r)

	box := geometry.BoundingBox{Page: 3, X1: 0.2, Y1: 0.2, X2: 0.4, Y2: 0.3}
	q.Request(3)
	q.DeferFrame(box)

	select {
	case <-frames:
		t.Fatal("frame fired before the page rendered")
	case <-time.After(50 * time.Millisecond):
	}

	r.release(3)
	waitPage(t, pages)

	select {
	case got := <-frames:
		assert.Equal(t, box, got)
	case <-time.After(2 * time.Second):
		t.Fatal("deferred frame never fired")
	}

	// Applied exactly once.
	select {
	case <-frames:
		t.Fatal("frame fired twice")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestQueuePendingFrameLastWriteWins(t *testing.T) {
	r := newGatedRasterizer()
	q, pages, frames, _ := collectQueue(r)

	first := geometry.BoundingBox{Page: 2, X1: 0.1, Y1: 0.1, X2: 0.2, Y2: 0.2}
	second := geometry.BoundingBox{Page: 2, X1: 0.5, Y1: 0.5, X2: 0.7, Y2: 0.6}

	q.Request(2)
	q.DeferFrame(first)
	q.DeferFrame(second)

	r.release(2)
	waitPage(t, pages)

	select {
	case got := <-frames:
		assert.Equal(t, second, got)
	case <-time.After(2 * time.Second):
		t.Fatal("deferred frame never fired")
	}
}

func TestQueueFramesCurrentPageImmediately(t *testing.T) {
	r := newGatedRasterizer()
	q, pages, frames, _ := collectQueue(r)

	q.Request(1)
	r.release(1)
	waitPage(t, pages)

	box := geometry.BoundingBox{Page: 1, X1: 0.3, Y1: 0.3, X2: 0.5, Y2: 0.4}
	q.DeferFrame(box)

	select {
	case got := <-frames:
		assert.Equal(t, box, got)
	case <-time.After(2 * time.Second):
		t.Fatal("frame for current page did not fire")
	}
}

func TestQueueReportsRenderErrors(t *testing.T) {
	r := newGatedRasterizer()
	r.fail[4] = true
	q, _, _, errs := collectQueue(r)

	q.Request(4)
	r.release(4)

	select {
	case err := <-errs:
		require.ErrorIs(t, err, ErrDocument)
	case <-time.After(2 * time.Second):
		t.Fatal("render error never surfaced")
	}
	assert.Equal(t, 0, q.CurrentPage())
}

func TestQueueCancelDropsEverything(t *testing.T) {
	r := newGatedRasterizer()
	q, pages, frames, _ := collectQueue(r)

	q.Request(1)
	q.DeferFrame(geometry.BoundingBox{Page: 1})
	q.Cancel()
	r.release(1)

	select {
	case <-pages:
		t.Fatal("canceled render delivered a page")
	case <-frames:
		t.Fatal("canceled render delivered a frame")
	case <-time.After(150 * time.Millisecond):
	}
	assert.Equal(t, 0, q.CurrentPage())
}
