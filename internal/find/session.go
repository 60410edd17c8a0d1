package find

import (
	"fmt"

	"github.com/dl/findedit/internal/scan"
)

// Session is the engine's view of the current query: what is being searched
// for and what the last completed count pass found. It is owned by the
// engine and only ever mutated on the host loop; workers report back through
// generation-checked closures and never write it directly.
type Session struct {
	Query      scan.Query
	TotalCount int
	Truncated  bool
	// CurrentIndex is the 0-based index of the match at the caret,
	// -1 when there is none.
	CurrentIndex int
}

func emptySession() Session {
	return Session{CurrentIndex: -1}
}

// StatusText renders the session as the find bar's status line.
func (s Session) StatusText() string {
	if s.Query.Pattern == "" {
		return ""
	}
	if s.TotalCount == 0 {
		return "No results"
	}
	suffix := ""
	if s.Truncated {
		suffix = "+"
	}
	cur := s.CurrentIndex + 1
	if cur < 1 {
		cur = 1
	}
	return fmt.Sprintf("%d of %d%s", cur, s.TotalCount, suffix)
}
