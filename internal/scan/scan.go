// Package scan locates occurrences of a search pattern inside a byte buffer.
// All positions are byte offsets. Scans are pure functions over the supplied
// range: ordered, non-overlapping, cancelable per iteration, and bounded by
// an explicit cap so a huge document can never pin the caller.
package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"go.elara.ws/pcre"
)

// ErrTimeout is returned when a backtracking match exceeds its watchdog
// budget. Callers degrade it to an empty result, same as a bad pattern.
var ErrTimeout = errors.New("scan: match timed out")

// Pattern is a compiled Query. Exactly one of the three engines is active:
// indexed byte search for literals, RE2 for regex, PCRE2 for patterns that
// need lookaround or backreferences.
type Pattern struct {
	literal   []byte // literal engine when non-nil
	litFolded []byte // lowercased copy for case-insensitive search
	matchCase bool
	wholeWord bool

	re  *regexp.Regexp
	pre *pcre.Regexp
}

// Compile builds a Pattern from q. Selection logic follows the same order the
// options escalate in cost:
//   - PCRE flag -> pcre engine (backtracking, watchdog-guarded)
//   - Regex flag -> RE2, multiline, whole-word wrapped in \b(?:...)\b
//   - otherwise  -> indexed literal search with a word-boundary post-check
//
// Whole-word regex is handled at compile time rather than by post-filtering:
// quantifiers produce variable-length matches that defeat boundary checks
// done after the fact.
func Compile(q Query) (*Pattern, error) {
	if q.Pattern == "" {
		return nil, errors.New("scan: empty pattern")
	}

	if q.PCRE {
		var opts pcre.CompileOption = pcre.Multiline
		if !q.MatchCase {
			opts |= pcre.Caseless
		}
		pat := q.Pattern
		if q.WholeWord {
			pat = `\b(?:` + pat + `)\b`
		}
		pre, err := pcre.CompileOpts(pat, opts)
		if err != nil {
			return nil, fmt.Errorf("scan: compile pcre: %w", err)
		}
		return &Pattern{pre: pre}, nil
	}

	if q.Regex {
		pat := q.Pattern
		if q.WholeWord {
			pat = `\b(?:` + pat + `)\b`
		}
		flags := "(?m)"
		if !q.MatchCase {
			flags = "(?im)"
		}
		re, err := regexp.Compile(flags + pat)
		if err != nil {
			return nil, fmt.Errorf("scan: compile regex: %w", err)
		}
		return &Pattern{re: re}, nil
	}

	p := &Pattern{
		literal:   []byte(q.Pattern),
		matchCase: q.MatchCase,
		wholeWord: q.WholeWord,
	}
	if !q.MatchCase {
		p.litFolded = bytes.ToLower(p.literal)
	}
	return p, nil
}

// Scan enumerates matches of p in text[start:end), in order, up to max spans
// (max <= 0 means unbounded). The range is clamped to the buffer. ctx is
// checked at every match iteration so cancellation is never delayed by more
// than one step through the loop.
func (p *Pattern) Scan(ctx context.Context, text []byte, start, end, max int) (Result, error) {
	start, end = clampRange(text, start, end)
	if p.literal != nil {
		return p.scanLiteral(ctx, text, start, end, max)
	}
	return p.scanRegexp(ctx, text, start, end, max)
}

// Next returns the first match of p in text[from:end), if any.
func (p *Pattern) Next(ctx context.Context, text []byte, from, end int) (Span, bool) {
	res, err := p.Scan(ctx, text, from, end, 1)
	if err != nil || len(res.Spans) == 0 {
		return Span{}, false
	}
	return res.Spans[0], true
}

// Prev returns the last match of p in text[start:before), if any. There is no
// native backward primitive for either engine, so this enumerates forward
// through the bounded range and keeps the final hit.
func (p *Pattern) Prev(ctx context.Context, text []byte, start, before int) (Span, bool) {
	res, err := p.Scan(ctx, text, start, before, 0)
	if err != nil || len(res.Spans) == 0 {
		return Span{}, false
	}
	return res.Spans[len(res.Spans)-1], true
}

// Expand renders the replacement text for a match. Literal patterns return
// template unchanged. Regex patterns substitute $1 / ${name} references in
// template with the match's capture groups.
func (p *Pattern) Expand(text []byte, sp Span, template string) string {
	if p.literal != nil {
		return template
	}
	if p.re != nil {
		matched := text[sp.Start:sp.End]
		m := p.re.FindSubmatchIndex(matched)
		if m == nil {
			return template
		}
		return string(p.re.Expand(nil, []byte(template), matched, m))
	}
	// Lookarounds inspect text beyond the span, so the PCRE engine re-matches
	// from the span start against the rest of the document.
	tail := text[sp.Start:]
	m := p.pre.FindSubmatchIndex(tail)
	if m == nil || m[0] != 0 {
		return template
	}
	return expandTemplate(tail, m, template, p.pre.SubexpIndex)
}

// expandTemplate substitutes capture references in template against the
// submatch index pairs in m, the same $1 / ${name} syntax the pcre package
// applies in its own ReplaceAll.
func expandTemplate(src []byte, m []int, template string, subexpIndex func(string) int) string {
	return os.Expand(template, func(name string) string {
		i, err := strconv.Atoi(name)
		if err != nil {
			i = subexpIndex(name)
		}
		if i < 0 || 2*i+1 >= len(m) || m[2*i] < 0 {
			return ""
		}
		return string(src[m[2*i]:m[2*i+1]])
	})
}

// IsRegex reports whether p uses a regex engine (RE2 or PCRE).
func (p *Pattern) IsRegex() bool { return p.literal == nil }

func clampRange(text []byte, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(text) || end < 0 {
		end = len(text)
	}
	if start > end {
		start = end
	}
	return start, end
}
