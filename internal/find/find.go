package find

import (
	"time"

	"github.com/dl/findedit/internal/scan"
)

// Defaults for the engine's three independent clocks and the async cutover.
const (
	// DefaultQueryDelay is the quiet period after a keystroke or option
	// toggle before the count pass runs.
	DefaultQueryDelay = 150 * time.Millisecond
	// DefaultScrollDelay is the quiet period after a viewport change before
	// indicators are repainted.
	DefaultScrollDelay = 50 * time.Millisecond
	// DefaultAsyncThreshold is the document size above which the count pass
	// announces itself with a transient "Searching..." status.
	DefaultAsyncThreshold = 100_000
)

// Options tunes the engine's timing. The zero value selects the defaults;
// tests shrink the delays.
type Options struct {
	QueryDelay     time.Duration
	ScrollDelay    time.Duration
	AsyncThreshold int
}

func (o Options) withDefaults() Options {
	if o.QueryDelay <= 0 {
		o.QueryDelay = DefaultQueryDelay
	}
	if o.ScrollDelay <= 0 {
		o.ScrollDelay = DefaultScrollDelay
	}
	if o.AsyncThreshold <= 0 {
		o.AsyncThreshold = DefaultAsyncThreshold
	}
	return o
}

// Finder is the find/replace engine instance for one document view.
// All methods must be called on the host loop (the same goroutine that
// owns the View); the engine's own background work re-enters through
// Host.Post.
type Finder struct {
	view View
	host Host
	opts Options

	session Session
	pattern *scan.Pattern
	// predicted is set when CurrentIndex came from the count pass rather
	// than navigation. predictedStart is where that indexed match begins:
	// the first Next keeps CurrentIndex only when it actually lands there,
	// since the seek origin may step past a match the count pass indexed.
	predicted      bool
	predictedStart int

	ctrl    *controller
	hl      *highlighter
	visible bool
}

// New creates an engine bound to view and host.
func New(view View, host Host, opts Options) *Finder {
	f := &Finder{
		view:    view,
		host:    host,
		opts:    opts.withDefaults(),
		session: emptySession(),
	}
	f.ctrl = newController(f)
	f.hl = newHighlighter(f)
	return f
}

// Show opens the find session. When prefillFromSelection is set and the
// current selection is non-empty, the selected text becomes the pattern.
// Returns the active pattern for the host to display.
func (f *Finder) Show(prefillFromSelection bool) string {
	f.visible = true
	if prefillFromSelection {
		if start, end := f.view.Selection(); end > start {
			f.SetPattern(string(f.view.Text()[start:end]))
			return f.session.Query.Pattern
		}
	}
	f.refresh()
	return f.session.Query.Pattern
}

// Hide closes the find session: pending work is cancelled, indicators are
// cleared, and the session resets to empty.
func (f *Finder) Hide() {
	f.visible = false
	f.ctrl.stop()
	f.hl.stop()
	f.view.ClearIndicator(0, f.view.Length())
	f.session = emptySession()
	f.pattern = nil
	f.host.status("")
}

// Session returns a copy of the current query session.
func (f *Finder) Session() Session { return f.session }

// Pattern returns the compiled pattern, or nil when the query is empty or
// does not compile.
func (f *Finder) Pattern() *scan.Pattern { return f.pattern }

// SetPattern updates the query text and re-enters the debounce cycle.
func (f *Finder) SetPattern(pattern string) {
	if f.session.Query.Pattern == pattern {
		return
	}
	f.session.Query.Pattern = pattern
	f.refresh()
}

// SetMatchCase toggles case sensitivity.
func (f *Finder) SetMatchCase(on bool) {
	f.session.Query.MatchCase = on
	f.refresh()
}

// SetWholeWord toggles whole-word matching.
func (f *Finder) SetWholeWord(on bool) {
	f.session.Query.WholeWord = on
	f.refresh()
}

// SetRegex toggles regular-expression mode.
func (f *Finder) SetRegex(on bool) {
	f.session.Query.Regex = on
	f.refresh()
}

// SetPCRE toggles the backtracking regex engine.
func (f *Finder) SetPCRE(on bool) {
	f.session.Query.PCRE = on
	if on {
		f.session.Query.Regex = false
	}
	f.refresh()
}

// SetInSelection restricts the search to the selection. Toggling it on
// snapshots the live selection as the anchor for all subsequent scans; an
// empty live selection keeps the previous snapshot unchanged.
func (f *Finder) SetInSelection(on bool) {
	f.session.Query.InSelection = on
	if on {
		if start, end := f.view.Selection(); end > start {
			f.session.Query.SelStart = start
			f.session.Query.SelEnd = end
		}
	}
	f.refresh()
}

// OnBufferMutated must be invoked by the host after any document edit the
// engine did not make itself; it forces a recount against the new content.
func (f *Finder) OnBufferMutated() {
	if !f.active() {
		return
	}
	f.hl.markDirty()
	f.ctrl.restart()
}

// OnViewportChanged must be invoked by the host on scroll or resize.
func (f *Finder) OnViewportChanged() {
	if !f.active() {
		return
	}
	f.hl.requestRefresh()
}

// OnDocumentSwapped must be invoked when the view now shows a different
// document: the highlight window resets and a full re-scan runs.
func (f *Finder) OnDocumentSwapped() {
	f.session.Query.SelStart = 0
	f.session.Query.SelEnd = 0
	f.session.Query.InSelection = false
	f.refresh()
}

// Close releases the engine's timers and waits for background work to stop.
func (f *Finder) Close() {
	f.ctrl.stop()
	f.hl.stop()
}

func (f *Finder) active() bool {
	return f.pattern != nil
}

// refresh recompiles the query and re-enters the debounce cycle. Compilation
// happens inline (it is microseconds); only counting is deferred to the
// worker. A pattern that fails to compile degrades to an inert session that
// reports "No results".
func (f *Finder) refresh() {
	f.pattern = nil
	if f.session.Query.Pattern != "" {
		if p, err := scan.Compile(f.session.Query); err == nil {
			f.pattern = p
		}
	}
	f.session.TotalCount = 0
	f.session.Truncated = false
	f.session.CurrentIndex = -1
	f.hl.markDirty()

	if f.pattern == nil {
		f.ctrl.stop()
		f.host.status(f.session.StatusText())
		f.hl.requestRefresh() // clears stale indicators
		return
	}
	f.ctrl.restart()
}

// searchBounds returns the byte range scans operate over: the in-selection
// snapshot when active, the whole document otherwise. Clamped because the
// snapshot may predate edits that shrank the document.
func (f *Finder) searchBounds() (int, int) {
	length := f.view.Length()
	if !f.session.Query.InSelection {
		return 0, length
	}
	start, end := f.session.Query.SelStart, f.session.Query.SelEnd
	if start > length {
		start = length
	}
	if end > length {
		end = length
	}
	if start > end {
		start = end
	}
	return start, end
}
