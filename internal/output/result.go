package output

import (
	"bytes"

	"github.com/dl/findedit/internal/scan"
	"github.com/dl/findedit/internal/textpos"
)

// Match is one occurrence located within a document, resolved to the
// line it sits on for display.
type Match struct {
	Line   int // 1-based line number
	Column int // 1-based column in characters, not bytes
	Start  int // byte offset of the occurrence in the document
	End    int
	// LineText is the full line containing the occurrence, without the
	// trailing newline. Aliases the document.
	LineText []byte
	// LineStart is the byte offset of LineText within the document.
	LineStart int
}

// spanInLine returns the occurrence bounds relative to LineText,
// clipped to the line.
func (m Match) spanInLine() (int, int) {
	start := m.Start - m.LineStart
	end := m.End - m.LineStart
	if start < 0 {
		start = 0
	}
	if end > len(m.LineText) {
		end = len(m.LineText)
	}
	return start, end
}

// Locate resolves raw spans to line/column matches against text. Spans
// must be sorted by start offset, which is how the scanner returns them.
func Locate(text []byte, spans []scan.Span) []Match {
	matches := make([]Match, 0, len(spans))
	line := 1
	lineStart := 0
	pos := 0

	for _, sp := range spans {
		for pos < sp.Start {
			nl := bytes.IndexByte(text[pos:sp.Start], '\n')
			if nl < 0 {
				pos = sp.Start
				break
			}
			pos += nl + 1
			line++
			lineStart = pos
		}
		lineEnd := len(text)
		if nl := bytes.IndexByte(text[lineStart:], '\n'); nl >= 0 {
			lineEnd = lineStart + nl
		}
		matches = append(matches, Match{
			Line:      line,
			Column:    textpos.ByteToChar(text[lineStart:], sp.Start-lineStart) + 1,
			Start:     sp.Start,
			End:       sp.End,
			LineText:  text[lineStart:lineEnd],
			LineStart: lineStart,
		})
	}
	return matches
}
