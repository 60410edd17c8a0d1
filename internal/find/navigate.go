package find

import (
	"context"

	"github.com/dl/findedit/internal/scan"
	"github.com/dl/findedit/internal/textpos"
)

// Next selects the next match after the caret/selection, wrapping to the
// start of the search range. Returns false (a silent no-op) when the query
// is empty, invalid, or absent from the document.
func (f *Finder) Next() bool {
	if f.pattern == nil {
		return false
	}
	return f.seekForward(f.seekOrigin(f.view.Text()))
}

// seekForward finds and selects the first match at or after from, wrapping
// to the start of the search range.
func (f *Finder) seekForward(from int) bool {
	text := f.view.Text()
	ctx := context.Background()
	sb, se := f.searchBounds()

	if from < sb {
		from = sb
	}
	if from > se {
		from = se
	}

	sp, ok := f.pattern.Next(ctx, text, from, se)
	wrapped := false
	if !ok {
		sp, ok = f.pattern.Next(ctx, text, sb, from)
		wrapped = true
	}
	if !ok {
		return false
	}

	f.selectMatch(sp)
	switch {
	case f.predicted && sp.Start == f.predictedStart:
		// The count pass already pointed CurrentIndex at this match.
	case wrapped:
		f.session.CurrentIndex = 0
	default:
		f.stepIndex(1)
	}
	f.predicted = false
	f.host.status(f.session.StatusText())
	return true
}

// Prev is the mirror of Next: it selects the last match before the
// caret/selection, wrapping to the end of the search range.
func (f *Finder) Prev() bool {
	if f.pattern == nil {
		return false
	}
	text := f.view.Text()
	ctx := context.Background()
	sb, se := f.searchBounds()

	before, _ := f.view.Selection()
	if before > se {
		before = se
	}
	if before < sb {
		before = sb
	}

	sp, ok := f.pattern.Prev(ctx, text, sb, before)
	wrapped := false
	if !ok {
		sp, ok = f.pattern.Prev(ctx, text, before, se)
		wrapped = true
	}
	if !ok {
		return false
	}

	f.selectMatch(sp)
	f.predicted = false
	if wrapped && f.session.TotalCount > 0 {
		f.session.CurrentIndex = f.session.TotalCount - 1
	} else {
		f.stepIndex(-1)
	}
	f.host.status(f.session.StatusText())
	return true
}

// seekOrigin is where a forward seek begins: the end of the selection, or
// just past the caret when nothing is selected so a match sitting under the
// caret is not found again.
func (f *Finder) seekOrigin(text []byte) int {
	start, end := f.view.Selection()
	if end > start {
		return end
	}
	return textpos.NextBoundary(text, f.view.CaretPos())
}

func (f *Finder) selectMatch(sp scan.Span) {
	f.view.SetSelection(sp.Start, sp.End)
	f.view.ScrollCaret()
	f.hl.requestRefresh()
}

// stepIndex moves CurrentIndex by delta modulo TotalCount, never negative.
func (f *Finder) stepIndex(delta int) {
	t := f.session.TotalCount
	if t <= 0 {
		return
	}
	idx := f.session.CurrentIndex
	if idx < 0 {
		if delta >= 0 {
			idx = 0
		} else {
			idx = t - 1
		}
	} else {
		idx = ((idx+delta)%t + t) % t
	}
	f.session.CurrentIndex = idx
}
