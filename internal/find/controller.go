package find

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dl/findedit/internal/scan"
)

// controller owns the debounce -> scan -> apply pipeline for the count pass.
// Each keystroke or option toggle restarts the debounce window and bumps the
// generation; only a worker carrying the current generation may apply its
// result. The worker never touches the View or the Session: it scans a
// snapshot and posts a closure back to the host loop.
type controller struct {
	f *Finder

	mu     sync.Mutex
	timer  *time.Timer
	gen    int64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newController(f *Finder) *controller { return &controller{f: f} }

// restart opens a new debounce window, invalidating any pending timer and
// cancelling any in-flight worker.
func (c *controller) restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.timer = time.AfterFunc(c.f.opts.QueryDelay, func() {
		c.f.host.post(func() { c.spawn(gen) })
	})
}

// stop invalidates all pending and in-flight work and waits for the worker
// goroutine to finish scanning. A result it already posted is discarded by
// the generation check in apply.
func (c *controller) stop() {
	c.mu.Lock()
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// spawn runs on the host loop once the debounce window closes. It snapshots
// the document, caret, and bounds, then hands the count pass to a background
// worker. The snapshot is a copy: the host loop may mutate the document while
// the worker reads.
func (c *controller) spawn(gen int64) {
	f := c.f
	pattern := f.pattern
	if pattern == nil {
		return
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	text := append([]byte(nil), f.view.Text()...)
	caret := f.view.CaretPos()
	start, end := f.searchBounds()

	if len(text) > f.opts.AsyncThreshold {
		f.host.status("Searching...")
	}

	go func() {
		res, err := pattern.Scan(ctx, text, start, end, scan.CapCount)
		// Scanning is done before the result is posted, so a caller that
		// stops the controller and waits is guaranteed no scan is touching
		// the snapshot; the posted apply is generation-guarded.
		c.wg.Done()

		if err != nil {
			if errors.Is(err, scan.ErrTimeout) {
				// Pathological pattern: degrade to an empty result.
				f.host.post(func() { c.apply(gen, outcome{index: -1}) })
			}
			// Cancellation: discard silently, no UI update.
			return
		}
		f.host.post(func() { c.apply(gen, countOutcome(res, caret)) })
	}()
}

type outcome struct {
	total     int
	truncated bool
	index     int
	start     int // span start of the match index points at
}

// countOutcome reduces a scan result to the session counters: the total, the
// cap flag, and the index of the first match at or after the caret (counting
// the matches preceding it), wrapped to the first match when the caret is
// past them all. The indexed match's start position rides along so the first
// navigation can tell whether it landed where the count predicted.
func countOutcome(res scan.Result, caret int) outcome {
	o := outcome{total: len(res.Spans), truncated: res.Truncated, index: -1}
	if o.total == 0 {
		return o
	}
	before := 0
	for _, sp := range res.Spans {
		if sp.Start >= caret {
			break
		}
		before++
	}
	o.index = before % o.total
	o.start = res.Spans[o.index].Start
	return o
}

// apply runs on the host loop and installs a worker result, unless a newer
// generation superseded it while the worker ran.
func (c *controller) apply(gen int64, o outcome) {
	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		return
	}

	f := c.f
	f.session.TotalCount = o.total
	f.session.Truncated = o.truncated
	f.session.CurrentIndex = o.index
	f.predicted = o.index >= 0
	f.predictedStart = o.start
	f.host.status(f.session.StatusText())
	f.hl.paint()
}
