package scan

import (
	"bytes"
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// scanLiteral runs the indexed substring engine over text[start:end).
func (p *Pattern) scanLiteral(ctx context.Context, text []byte, start, end, max int) (Result, error) {
	window := text[start:end]
	hay := window
	needle := p.literal

	if !p.matchCase {
		low := bytes.ToLower(window)
		if len(low) != len(window) {
			// Case folding changed byte lengths (e.g. U+0130), so offsets in
			// the lowered copy would not map back. Take the rune-wise path.
			return p.scanLiteralFold(ctx, text, start, end, max)
		}
		hay = low
		needle = p.litFolded
	}

	var res Result
	pos := 0
	for pos <= len(hay) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		idx := bytes.Index(hay[pos:], needle)
		if idx < 0 {
			break
		}
		sp := Span{Start: start + pos + idx, End: start + pos + idx + len(needle)}
		if p.wholeWord && !isWordBounded(text, sp) {
			pos += idx + 1
			continue
		}
		if max > 0 && len(res.Spans) == max {
			res.Truncated = true
			return res, nil
		}
		res.Spans = append(res.Spans, sp)
		pos += idx + len(needle)
	}
	return res, nil
}

// scanLiteralFold is the slow case-insensitive path for text where folding
// does not preserve byte length. Compares folded runes position by position.
func (p *Pattern) scanLiteralFold(ctx context.Context, text []byte, start, end, max int) (Result, error) {
	needle := []rune(strings.ToLower(string(p.literal)))
	var res Result

	for pos := start; pos < end; {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if matchEnd, ok := foldMatchAt(text, pos, end, needle); ok {
			sp := Span{Start: pos, End: matchEnd}
			if !p.wholeWord || isWordBounded(text, sp) {
				if max > 0 && len(res.Spans) == max {
					res.Truncated = true
					return res, nil
				}
				res.Spans = append(res.Spans, sp)
				pos = matchEnd
				continue
			}
		}
		_, size := utf8.DecodeRune(text[pos:])
		if size == 0 {
			size = 1
		}
		pos += size
	}
	return res, nil
}

// foldMatchAt reports whether the folded runes of text starting at pos equal
// needle, and if so where the match ends.
func foldMatchAt(text []byte, pos, end int, needle []rune) (int, bool) {
	i := pos
	for _, want := range needle {
		if i >= end {
			return 0, false
		}
		r, size := utf8.DecodeRune(text[i:])
		if unicode.ToLower(r) != want {
			return 0, false
		}
		i += size
	}
	return i, true
}

// isWordBounded reports whether the runes adjacent to sp (when they exist)
// are both non-word characters.
func isWordBounded(text []byte, sp Span) bool {
	if sp.Start > 0 {
		r, _ := utf8.DecodeLastRune(text[:sp.Start])
		if isWordRune(r) {
			return false
		}
	}
	if sp.End < len(text) {
		r, _ := utf8.DecodeRune(text[sp.End:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

// isWordRune matches the \w class the regex engines use for \b, so the
// literal and regex whole-word modes agree.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
