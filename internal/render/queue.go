package render

import (
	"context"
	"sync"

	"invoice-review/pkg/geometry"
)

// Queue serializes page rendering for one viewport: at most one render
// in flight, a new request cancels the previous one, and a late result
// from a canceled job is discarded so a stale frame can never overwrite
// a newer one.
//
// It also holds at most one pending frame-region request (last write
// wins). A frame request targeting a page other than the current one is
// deferred until that page's render completes, then delivered exactly
// once.
type Queue struct {
	mu sync.Mutex

	rasterizer Rasterizer

	// Callbacks; delivered from the render goroutine.
	OnPage  func(*PageImage)
	OnError func(error)
	OnFrame func(geometry.BoundingBox)

	inflight *renderJob
	pending  *geometry.BoundingBox
	current  int // last successfully rendered page, 0 before any
	seq      int
}

type renderJob struct {
	seq    int
	page   int
	cancel context.CancelFunc
}

// NewQueue creates a render queue over a rasterizer.
func NewQueue(r Rasterizer) *Queue {
	return &Queue{rasterizer: r}
}

// CurrentPage returns the last successfully rendered page, or 0.
func (q *Queue) CurrentPage() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}

// Request starts rendering a page, canceling any in-flight render first.
// Requesting the page already in flight restarts it.
func (q *Queue) Request(page int) {
	q.mu.Lock()
	if q.inflight != nil {
		q.inflight.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	q.seq++
	job := &renderJob{seq: q.seq, page: page, cancel: cancel}
	q.inflight = job
	q.mu.Unlock()

	go q.run(ctx, job)
}

// Cancel aborts any in-flight render and drops the pending frame
// request. Used when the document is closed or fails to parse.
func (q *Queue) Cancel() {
	q.mu.Lock()
	if q.inflight != nil {
		q.inflight.cancel()
		q.inflight = nil
	}
	q.pending = nil
	q.current = 0
	q.mu.Unlock()
}

// DeferFrame records a frame-region request. If the box's page is
// already the current one and nothing is in flight, it fires
// immediately; otherwise it replaces any earlier pending request and
// fires when the page arrives.
func (q *Queue) DeferFrame(box geometry.BoundingBox) {
	q.mu.Lock()
	if q.current == box.Page && q.inflight == nil {
		q.mu.Unlock()
		if q.OnFrame != nil {
			q.OnFrame(box)
		}
		return
	}
	q.pending = &box
	q.mu.Unlock()
}

func (q *Queue) run(ctx context.Context, job *renderJob) {
	img, err := q.rasterizer.RenderPage(ctx, job.page)

	q.mu.Lock()
	if q.inflight == nil || q.inflight.seq != job.seq || ctx.Err() != nil {
		// Superseded while rendering; drop the result.
		q.mu.Unlock()
		return
	}
	q.inflight = nil

	if err != nil {
		q.mu.Unlock()
		if q.OnError != nil {
			q.OnError(err)
		}
		return
	}

	q.current = job.page
	var frame *geometry.BoundingBox
	if q.pending != nil && q.pending.Page == job.page {
		frame = q.pending
		q.pending = nil
	}
	q.mu.Unlock()

	if q.OnPage != nil {
		q.OnPage(img)
	}
	if frame != nil && q.OnFrame != nil {
		q.OnFrame(*frame)
	}
}
