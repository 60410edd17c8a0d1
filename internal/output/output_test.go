package output

import (
	"strings"
	"testing"

	"github.com/dl/findedit/internal/scan"
)

func TestLocate(t *testing.T) {
	text := []byte("one two\nthree one\nfour\n")

	tests := []struct {
		name     string
		spans    []scan.Span
		wantLine []int
		wantCol  []int
		wantText []string
	}{
		{
			name:     "first line",
			spans:    []scan.Span{{Start: 0, End: 3}},
			wantLine: []int{1},
			wantCol:  []int{1},
			wantText: []string{"one two"},
		},
		{
			name:     "second line mid",
			spans:    []scan.Span{{Start: 14, End: 17}},
			wantLine: []int{2},
			wantCol:  []int{7},
			wantText: []string{"three one"},
		},
		{
			name:     "multiple lines",
			spans:    []scan.Span{{Start: 0, End: 3}, {Start: 14, End: 17}, {Start: 18, End: 22}},
			wantLine: []int{1, 2, 3},
			wantCol:  []int{1, 7, 1},
			wantText: []string{"one two", "three one", "four"},
		},
		{
			name:     "two on one line",
			spans:    []scan.Span{{Start: 0, End: 1}, {Start: 4, End: 5}},
			wantLine: []int{1, 1},
			wantCol:  []int{1, 5},
			wantText: []string{"one two", "one two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := Locate(text, tt.spans)
			if len(matches) != len(tt.spans) {
				t.Fatalf("got %d matches, want %d", len(matches), len(tt.spans))
			}
			for i, m := range matches {
				if m.Line != tt.wantLine[i] {
					t.Errorf("match %d line = %d, want %d", i, m.Line, tt.wantLine[i])
				}
				if m.Column != tt.wantCol[i] {
					t.Errorf("match %d column = %d, want %d", i, m.Column, tt.wantCol[i])
				}
				if string(m.LineText) != tt.wantText[i] {
					t.Errorf("match %d line text = %q, want %q", i, m.LineText, tt.wantText[i])
				}
			}
		})
	}
}

func TestLocate_MultibyteColumn(t *testing.T) {
	// Column counts characters, not bytes.
	text := []byte("日本語 match\n")
	start := len("日本語 ") // 10 bytes, 4 chars before the occurrence
	matches := Locate(text, []scan.Span{{Start: start, End: start + 5}})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Column != 5 {
		t.Errorf("column = %d, want 5", matches[0].Column)
	}
}

func TestTextFormatter_List(t *testing.T) {
	text := []byte("alpha beta\ngamma beta\n")
	matches := Locate(text, []scan.Span{{Start: 6, End: 10}, {Start: 17, End: 21}})

	f := NewTextFormatter(false, false)
	got := string(f.Format(nil, matches))
	want := "1:7: alpha beta\n2:7: gamma beta\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestTextFormatter_Count(t *testing.T) {
	matches := make([]Match, 3)
	f := NewTextFormatter(true, false)
	if got := string(f.Format(nil, matches)); got != "3\n" {
		t.Errorf("Format() = %q, want %q", got, "3\n")
	}
}

func TestTextFormatter_ColorHighlightsMatch(t *testing.T) {
	text := []byte("say hello\n")
	matches := Locate(text, []scan.Span{{Start: 4, End: 9}})

	f := NewTextFormatter(false, true)
	got := string(f.Format(nil, matches))
	if !strings.Contains(got, "hello") {
		t.Errorf("output %q lost the match text", got)
	}
	// Plain formatter output must stay free of escapes.
	plain := string(NewTextFormatter(false, false).Format(nil, matches))
	if strings.Contains(plain, "\x1b") {
		t.Errorf("uncolored output %q contains escape sequences", plain)
	}
}

func TestTextFormatter_BufferReuse(t *testing.T) {
	text := []byte("x\n")
	matches := Locate(text, []scan.Span{{Start: 0, End: 1}})
	f := NewTextFormatter(false, false)

	buf := f.Format(nil, matches)
	first := string(buf)
	buf = f.Format(buf[:0], matches)
	if string(buf) != first {
		t.Errorf("reused buffer = %q, want %q", buf, first)
	}
}
