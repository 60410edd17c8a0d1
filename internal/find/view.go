// Package find is the incremental find/replace engine. It owns the current
// query, debounces recomputation as the user types, paints match indicators
// over the visible viewport only, navigates matches with wrap-around, and
// performs single and all-occurrence replacement under one undo group.
//
// The engine talks to its host editing widget exclusively through the View
// interface and marshals all state mutation onto the host's event loop
// through Host.Post. All positions crossing View are byte offsets.
package find

// View is the capability surface the engine requires from the editing
// widget. Implementations: buffer.Buffer (in-memory, tests and CLI) and the
// TUI viewer. The engine reads the document through Text and mutates it only
// through ReplaceRange inside an undo group.
type View interface {
	// Length returns the document length in bytes.
	Length() int
	// Text returns the document content. The engine treats the slice as
	// read-only and only holds it across goroutines as an explicit copy.
	Text() []byte

	CaretPos() int
	// Selection returns the ordered (start, end) selection; start == end
	// means no selection.
	Selection() (start, end int)
	// SetSelection selects [anchor, caret) and moves the caret to caret.
	SetSelection(anchor, caret int)
	// ScrollCaret brings the caret into the viewport.
	ScrollCaret()

	// ApplyIndicator paints the match indicator over [start, end).
	ApplyIndicator(start, end int)
	// ClearIndicator removes the match indicator from [start, end).
	ClearIndicator(start, end int)

	FirstVisibleLine() int
	LinesOnScreen() int
	// LineStart returns the byte offset of the given 0-based line, clamping
	// past-the-end lines to the document length.
	LineStart(line int) int
	LineCount() int

	// BeginUndoAction and EndUndoAction bracket edits into one undoable group.
	BeginUndoAction()
	EndUndoAction()
	// ReplaceRange substitutes text for [start, end) and returns the inserted
	// byte length.
	ReplaceRange(start, end int, text string) int
}

// Host connects the engine to the host application's event loop and status
// display. Both fields may be nil: a nil Post runs closures inline (callers
// then provide their own serialization), a nil Status drops status text.
type Host struct {
	// Post schedules fn on the UI-affinity event loop. Everything that
	// mutates engine state or touches View runs through here.
	Post func(fn func())
	// Status receives user-facing status text ("3 of 120", "No results",
	// "Replaced 7 occurrences", "Searching...").
	Status func(text string)
}

func (h Host) post(fn func()) {
	if h.Post != nil {
		h.Post(fn)
		return
	}
	fn()
}

func (h Host) status(text string) {
	if h.Status != nil {
		h.Status(text)
	}
}
