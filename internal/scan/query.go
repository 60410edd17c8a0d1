package scan

// Match caps. A scan stops enumerating once it has collected this many spans
// and reports truncation instead of walking the rest of the document.
const (
	// CapFind bounds full match enumeration (navigation, replace-all preflight).
	CapFind = 10000
	// CapCount bounds the counting pass behind the "N of M" status.
	CapCount = 99999
	// CapHighlight bounds how many indicators a single viewport repaint may add.
	CapHighlight = 500
)

// Query describes one search: the pattern plus every option that affects
// which spans match. It is a value type; the controller snapshots it per scan
// so an in-flight scan never sees a half-updated query.
type Query struct {
	Pattern     string
	MatchCase   bool
	WholeWord   bool
	Regex       bool
	PCRE        bool // backtracking engine: lookaround, backreferences
	InSelection bool
	SelStart    int // selection snapshot, byte offsets; only valid when InSelection
	SelEnd      int
}

// Span is one match, as byte offsets into the document. End >= Start.
// Zero-length spans are legal (empty regex matches).
type Span struct {
	Start int
	End   int
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Result holds the spans found by one scan, in document order,
// non-overlapping. Truncated is set when the cap was hit before the
// range was exhausted.
type Result struct {
	Spans     []Span
	Truncated bool
}

// Count returns the number of spans found.
func (r Result) Count() int { return len(r.Spans) }
