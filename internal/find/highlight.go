package find

import (
	"context"
	"sync"
	"time"

	"github.com/dl/findedit/internal/scan"
)

// highlighter paints match indicators over the visible viewport plus one
// viewport height of slack on each side, and remembers the painted window so
// scroll jitter does not trigger repaints. A dirty flag (set on any query or
// document change) forces one full-buffer indicator clear before the next
// paint. Repaint requests are debounced on their own clock, independent of
// the query debounce, so scrolling never blocks a pending recount and vice
// versa.
type highlighter struct {
	f *Finder

	mu    sync.Mutex
	timer *time.Timer
	gen   int64

	dirty      bool
	painted    scan.Span
	hasPainted bool
}

func newHighlighter(f *Finder) *highlighter { return &highlighter{f: f, dirty: true} }

// markDirty forces a full clear before the next paint. Host loop only.
func (h *highlighter) markDirty() { h.dirty = true }

// requestRefresh schedules a repaint after the scroll-debounce quiet period.
// Safe to call from any goroutine.
func (h *highlighter) requestRefresh() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	gen := h.gen
	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(h.f.opts.ScrollDelay, func() {
		h.f.host.post(func() { h.run(gen) })
	})
}

func (h *highlighter) run(gen int64) {
	h.mu.Lock()
	stale := gen != h.gen
	h.mu.Unlock()
	if !stale {
		h.paint()
	}
}

// stop invalidates any pending repaint.
func (h *highlighter) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

// paint runs on the host loop. Cost is bounded by the viewport size and the
// highlight cap, never by the document size.
func (h *highlighter) paint() {
	f := h.f

	if h.dirty {
		f.view.ClearIndicator(0, f.view.Length())
		h.dirty = false
		h.hasPainted = false
	}
	if f.pattern == nil {
		return
	}

	start, end := h.bufferedRange()
	if sb, se := f.searchBounds(); true {
		if start < sb {
			start = sb
		}
		if end > se {
			end = se
		}
		if end < start {
			end = start
		}
	}

	if h.hasPainted && withinTolerance(h.painted, start, end) {
		return
	}

	if h.hasPainted {
		f.view.ClearIndicator(h.painted.Start, h.painted.End)
	}

	res, err := f.pattern.Scan(context.Background(), f.view.Text(), start, end, scan.CapHighlight)
	if err == nil {
		for _, sp := range res.Spans {
			if sp.Len() == 0 {
				continue
			}
			f.view.ApplyIndicator(sp.Start, sp.End)
		}
	}

	h.painted = scan.Span{Start: start, End: end}
	h.hasPainted = true
}

// bufferedRange is the viewport extended by one viewport height above and
// below, in byte offsets.
func (h *highlighter) bufferedRange() (int, int) {
	v := h.f.view
	first := v.FirstVisibleLine()
	rows := v.LinesOnScreen()

	startLine := first - rows
	if startLine < 0 {
		startLine = 0
	}
	// LineStart clamps lines past the end to the document length.
	return v.LineStart(startLine), v.LineStart(first + 2*rows)
}

// withinTolerance reports whether the requested window is close enough to
// the painted one (both edges within a quarter of the window width) for the
// repaint to be pure scroll jitter.
func withinTolerance(painted scan.Span, start, end int) bool {
	tol := (end - start) / 4
	return absDiff(start, painted.Start) <= tol && absDiff(end, painted.End) <= tol
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
