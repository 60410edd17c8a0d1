package scan

import (
	"bytes"
	"context"
	"time"
)

// matchTimeout bounds a single backtracking match pass. RE2 runs in linear
// time and needs no guard; PCRE patterns can backtrack catastrophically, so
// a pass that exceeds this budget is abandoned and reported as ErrTimeout.
const matchTimeout = time.Second

// scanRegexp runs either regex engine over text[start:end). Anchors and \b
// must see the document's own line context, not the range edges, so the
// engine window extends to whole lines; spans outside the requested range
// are then discarded. The pass is bounded by max, with spans rebased onto
// document offsets and a cancellation check per match.
func (p *Pattern) scanRegexp(ctx context.Context, text []byte, start, end, max int) (Result, error) {
	wStart := lineStart(text, start)
	window := text[wStart:lineEnd(text, end)]
	n := -1
	if max > 0 {
		// One extra to detect truncation, plus budget for matches in the
		// leading margin before start (at most one per byte).
		n = max + 1 + (start - wStart)
	}

	var locs [][]int
	if p.re != nil {
		locs = p.re.FindAllIndex(window, n)
	} else {
		var err error
		locs, err = p.pcreFindAll(ctx, window, n)
		if err != nil {
			return Result{}, err
		}
	}

	var res Result
	last := -1
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		sp := Span{Start: wStart + loc[0], End: wStart + loc[1]}
		if sp.Start < start {
			continue
		}
		if sp.End > end {
			// Matches are ordered, so nothing after this fits either.
			break
		}
		// The engines already step past empty matches; this guards against a
		// span that fails to advance so iteration can never stall.
		if sp.Start <= last && sp.Len() == 0 {
			continue
		}
		last = sp.Start
		if max > 0 && len(res.Spans) == max {
			res.Truncated = true
			return res, nil
		}
		res.Spans = append(res.Spans, sp)
	}
	return res, nil
}

// lineStart is the offset just past the newline preceding pos.
func lineStart(text []byte, pos int) int {
	return bytes.LastIndexByte(text[:pos], '\n') + 1
}

// lineEnd is the offset of the newline at or after pos, or the buffer end.
func lineEnd(text []byte, pos int) int {
	if i := bytes.IndexByte(text[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(text)
}

// pcreFindAll runs the PCRE pass under a watchdog. The match runs in its own
// goroutine; if it outlives the budget or the context, the result is
// abandoned (the goroutine finishes into a buffered channel and is dropped).
func (p *Pattern) pcreFindAll(ctx context.Context, window []byte, n int) ([][]int, error) {
	done := make(chan [][]int, 1)
	go func() {
		done <- p.pre.FindAllIndex(window, n)
	}()

	timer := time.NewTimer(matchTimeout)
	defer timer.Stop()

	select {
	case locs := <-done:
		return locs, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
