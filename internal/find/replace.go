package find

import (
	"context"
	"fmt"

	"github.com/dl/findedit/internal/textpos"
)

// ReplaceCurrent substitutes the replacement for the selected match and
// advances to the next one. Before substituting it verifies that the
// selection still equals a live match of the current query; if the buffer
// changed underneath the UI the stale selection is not replaced and the call
// silently degrades to a find-next. Returns true if a replacement was made.
func (f *Finder) ReplaceCurrent(replacement string) bool {
	if f.pattern == nil {
		return false
	}
	f.ctrl.stop()

	text := f.view.Text()
	selStart, selEnd := f.view.Selection()

	sp, ok := f.pattern.Next(context.Background(), text, selStart, selEnd)
	if !ok || sp.Start != selStart || sp.End != selEnd {
		f.Next()
		return false
	}

	expanded := f.pattern.Expand(text, sp, replacement)
	f.view.BeginUndoAction()
	f.view.ReplaceRange(sp.Start, sp.End, expanded)
	f.view.EndUndoAction()

	// Advance from the caret itself, not past it: the next match may start
	// exactly where the replacement ended.
	f.seekForward(f.view.CaretPos())
	return true
}

// ReplaceAll substitutes every match in the search range under a single undo
// group and returns the number of replacements. After each substitution the
// cursor advances past the inserted text and the range end shifts by the
// length delta, keeping later match boundaries consistent with the mutated
// buffer. A mid-loop scan failure (backtracking timeout) stops the loop;
// whatever was already substituted stays applied and remains reversible as
// one undo step.
func (f *Finder) ReplaceAll(replacement string) int {
	if f.pattern == nil {
		return 0
	}
	// Quiesce the background scanner: no scan may observe the buffer while
	// the replace transaction mutates it.
	f.ctrl.stop()
	f.hl.stop()

	ctx := context.Background()
	pos, end := f.searchBounds()
	count := 0

	f.view.BeginUndoAction()
	for pos <= end {
		text := f.view.Text()
		res, err := f.pattern.Scan(ctx, text, pos, end, 1)
		if err != nil || len(res.Spans) == 0 {
			break
		}
		sp := res.Spans[0]

		expanded := f.pattern.Expand(text, sp, replacement)
		f.view.ReplaceRange(sp.Start, sp.End, expanded)
		count++

		end += len(expanded) - sp.Len()
		next := sp.Start + len(expanded)
		if sp.Len() == 0 {
			// An empty match must advance at least one position or the
			// pattern would hit the same spot forever.
			advanced := textpos.NextBoundary(f.view.Text(), next)
			if advanced == next {
				break // end of document
			}
			next = advanced
		}
		pos = next
	}
	f.view.EndUndoAction()

	f.hl.markDirty()
	f.ctrl.restart()
	f.host.status(fmt.Sprintf("Replaced %d occurrences", count))
	return count
}
