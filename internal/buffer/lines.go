package buffer

import "sort"

// Line mapping. The index of line start offsets is rebuilt lazily the first
// time it is needed after an edit; documents mutate far less often than they
// are scanned, so a flat sorted index beats incremental bookkeeping.

func (b *Buffer) lineIndex() []int {
	if b.lineStarts != nil {
		return b.lineStarts
	}
	starts := []int{0}
	for i, c := range b.doc {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	b.lineStarts = starts
	return starts
}

// LineCount returns the number of lines. An empty document has one line.
func (b *Buffer) LineCount() int { return len(b.lineIndex()) }

// LineStart returns the byte offset of the first character of line (0-based).
// Out-of-range lines clamp to the document bounds.
func (b *Buffer) LineStart(line int) int {
	starts := b.lineIndex()
	if line < 0 {
		return 0
	}
	if line >= len(starts) {
		return len(b.doc)
	}
	return starts[line]
}

// LineEnd returns the byte offset just past line's content, excluding the
// trailing newline.
func (b *Buffer) LineEnd(line int) int {
	starts := b.lineIndex()
	if line < 0 {
		return 0
	}
	if line+1 < len(starts) {
		return starts[line+1] - 1
	}
	return len(b.doc)
}

// LineFromPos returns the 0-based line containing pos.
func (b *Buffer) LineFromPos(pos int) int {
	pos = b.clamp(pos)
	starts := b.lineIndex()
	// First start strictly greater than pos, minus one.
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > pos })
	return i - 1
}

// Viewport state. The buffer models a simple non-wrapping view; the TUI keeps
// these in sync with the terminal, tests set them directly.

// SetViewport sets the first visible line and the number of lines on screen.
func (b *Buffer) SetViewport(firstLine, rows int) {
	if firstLine < 0 {
		firstLine = 0
	}
	if rows < 1 {
		rows = 1
	}
	b.firstLine = firstLine
	b.screenRows = rows
}

// FirstVisibleLine returns the top line of the viewport.
func (b *Buffer) FirstVisibleLine() int { return b.firstLine }

// LinesOnScreen returns the viewport height in lines.
func (b *Buffer) LinesOnScreen() int { return b.screenRows }

// ScrollCaret scrolls the minimal amount needed to bring the caret's line
// into the viewport.
func (b *Buffer) ScrollCaret() {
	line := b.LineFromPos(b.caret)
	if line < b.firstLine {
		b.firstLine = line
	} else if line >= b.firstLine+b.screenRows {
		b.firstLine = line - b.screenRows + 1
	}
}
