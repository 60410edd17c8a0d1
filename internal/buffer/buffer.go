// Package buffer is an in-memory document that exposes the editing-widget
// capability surface the find engine depends on: text access, caret and
// selection, indicator painting, line/viewport mapping, and grouped undo.
// It backs the CLI, the TUI host, and the engine's tests.
package buffer

import "sort"

// Buffer holds a mutable UTF-8 document plus the widget state around it.
// It is not safe for concurrent use; the owning event loop serializes access.
type Buffer struct {
	doc []byte

	anchor int // selection anchor
	caret  int // selection end and caret position

	indicators []Range

	lineStarts []int // lazily built; nil means stale
	firstLine  int   // first visible line of the viewport
	screenRows int   // lines on screen

	undo      []undoGroup
	groupOpen int // BeginUndoAction nesting depth

	onMutate func()
}

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// New creates a Buffer with its own copy of doc and a default viewport.
func New(doc []byte) *Buffer {
	b := &Buffer{
		doc:        append([]byte(nil), doc...),
		screenRows: 24,
	}
	return b
}

// SetText replaces the whole document, clearing selection, indicators, and
// undo history. Used when the host swaps documents.
func (b *Buffer) SetText(doc []byte) {
	b.doc = append(b.doc[:0], doc...)
	b.anchor = 0
	b.caret = 0
	b.indicators = nil
	b.lineStarts = nil
	b.undo = nil
	b.groupOpen = 0
	b.notifyMutate()
}

// OnMutate registers a callback invoked after every document mutation.
// The host wires this to the find engine's buffer-mutated hook.
func (b *Buffer) OnMutate(fn func()) { b.onMutate = fn }

func (b *Buffer) notifyMutate() {
	if b.onMutate != nil {
		b.onMutate()
	}
}

// Length returns the document length in bytes.
func (b *Buffer) Length() int { return len(b.doc) }

// Text returns the document bytes. Callers must not mutate the slice.
func (b *Buffer) Text() []byte { return b.doc }

// TextRange returns the bytes in [start, end), clamped to the document.
func (b *Buffer) TextRange(start, end int) []byte {
	start, end = b.clamp(start), b.clamp(end)
	if start > end {
		start = end
	}
	return b.doc[start:end]
}

// CaretPos returns the caret position.
func (b *Buffer) CaretPos() int { return b.caret }

// Selection returns the selection as an ordered (start, end) pair.
// An empty selection has start == end == caret.
func (b *Buffer) Selection() (int, int) {
	if b.anchor <= b.caret {
		return b.anchor, b.caret
	}
	return b.caret, b.anchor
}

// SetSelection selects [anchor, caret) and places the caret at caret.
func (b *Buffer) SetSelection(anchor, caret int) {
	b.anchor = b.clamp(anchor)
	b.caret = b.clamp(caret)
}

// GotoPos collapses the selection onto pos.
func (b *Buffer) GotoPos(pos int) {
	pos = b.clamp(pos)
	b.anchor = pos
	b.caret = pos
}

func (b *Buffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(b.doc) {
		return len(b.doc)
	}
	return pos
}

// ReplaceRange substitutes text for the bytes in [start, end) and returns the
// length of the inserted text. The caret moves to the end of the insertion.
// The edit is recorded for undo; if no undo group is open it forms a group of
// its own.
func (b *Buffer) ReplaceRange(start, end int, text string) int {
	start, end = b.clamp(start), b.clamp(end)
	if start > end {
		start, end = end, start
	}

	removed := append([]byte(nil), b.doc[start:end]...)
	b.recordEdit(edit{pos: start, removed: removed, inserted: []byte(text)})

	tail := append([]byte(text), b.doc[end:]...)
	b.doc = append(b.doc[:start], tail...)

	b.lineStarts = nil
	b.GotoPos(start + len(text))
	b.shiftIndicators(start, end, len(text))
	b.notifyMutate()
	return len(text)
}

// shiftIndicators keeps painted ranges positioned across an edit that
// replaced [start, end) with delta' bytes. Ranges touching the edited region
// are dropped; later ranges slide by the length delta.
func (b *Buffer) shiftIndicators(start, end, insertedLen int) {
	delta := insertedLen - (end - start)
	kept := b.indicators[:0]
	for _, r := range b.indicators {
		switch {
		case r.End <= start:
			kept = append(kept, r)
		case r.Start >= end:
			kept = append(kept, Range{r.Start + delta, r.End + delta})
		}
	}
	b.indicators = kept
}

// ApplyIndicator paints the indicator over [start, end).
func (b *Buffer) ApplyIndicator(start, end int) {
	start, end = b.clamp(start), b.clamp(end)
	if end < start {
		start, end = end, start
	}
	b.indicators = append(b.indicators, Range{start, end})
}

// ClearIndicator removes any painted indicator inside [start, end),
// trimming ranges that straddle the boundary.
func (b *Buffer) ClearIndicator(start, end int) {
	start, end = b.clamp(start), b.clamp(end)
	var kept []Range
	for _, r := range b.indicators {
		if r.End <= start || r.Start >= end {
			kept = append(kept, r)
			continue
		}
		if r.Start < start {
			kept = append(kept, Range{r.Start, start})
		}
		if r.End > end {
			kept = append(kept, Range{end, r.End})
		}
	}
	b.indicators = kept
}

// Indicators returns the painted ranges sorted by start offset.
func (b *Buffer) Indicators() []Range {
	out := append([]Range(nil), b.indicators...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// IndicatorAt reports whether pos is inside a painted range.
func (b *Buffer) IndicatorAt(pos int) bool {
	for _, r := range b.indicators {
		if pos >= r.Start && pos < r.End {
			return true
		}
	}
	return false
}
