package textpos

import (
	"testing"
	"unicode/utf8"
)

func TestByteToChar(t *testing.T) {
	tests := []struct {
		name    string
		buf     string
		bytePos int
		want    int
	}{
		{name: "ascii start", buf: "hello", bytePos: 0, want: 0},
		{name: "ascii middle", buf: "hello", bytePos: 3, want: 3},
		{name: "ascii end", buf: "hello", bytePos: 5, want: 5},
		{name: "two-byte rune", buf: "héllo", bytePos: 3, want: 2},
		{name: "three-byte rune", buf: "日本語x", bytePos: 9, want: 3},
		{name: "four-byte rune", buf: "a𝔘b", bytePos: 5, want: 2},
		{name: "negative clamps", buf: "abc", bytePos: -4, want: 0},
		{name: "past end clamps", buf: "abc", bytePos: 99, want: 3},
		{name: "empty", buf: "", bytePos: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByteToChar([]byte(tt.buf), tt.bytePos)
			if got != tt.want {
				t.Errorf("ByteToChar(%q, %d) = %d, want %d", tt.buf, tt.bytePos, got, tt.want)
			}
		})
	}
}

func TestCharToByte(t *testing.T) {
	tests := []struct {
		name    string
		buf     string
		charPos int
		want    int
	}{
		{name: "ascii", buf: "hello", charPos: 3, want: 3},
		{name: "two-byte rune", buf: "héllo", charPos: 2, want: 3},
		{name: "three-byte runes", buf: "日本語x", charPos: 3, want: 9},
		{name: "negative clamps", buf: "abc", charPos: -1, want: 0},
		{name: "past end clamps", buf: "abc", charPos: 10, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CharToByte([]byte(tt.buf), tt.charPos)
			if got != tt.want {
				t.Errorf("CharToByte(%q, %d) = %d, want %d", tt.buf, tt.charPos, got, tt.want)
			}
		})
	}
}

// Every rune boundary must survive the byte -> char -> byte round trip exactly.
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain ascii text",
		"héllo wörld",
		"日本語のテキスト",
		"mixed 日本 and 𝔘𝔫𝔦 codepoints",
	}

	for _, in := range inputs {
		buf := []byte(in)
		for p := 0; p <= len(buf); p++ {
			if !IsBoundary(buf, p) {
				continue
			}
			got := CharToByte(buf, ByteToChar(buf, p))
			if got != p {
				t.Errorf("round trip %q at %d: got %d", in, p, got)
			}
		}
	}
}

func TestNextBoundary(t *testing.T) {
	buf := []byte("a日b")
	// "a" at 0, "日" at 1..3, "b" at 4.
	if got := NextBoundary(buf, 0); got != 1 {
		t.Errorf("NextBoundary(0) = %d, want 1", got)
	}
	if got := NextBoundary(buf, 1); got != 4 {
		t.Errorf("NextBoundary(1) = %d, want 4", got)
	}
	if got := NextBoundary(buf, 4); got != 5 {
		t.Errorf("NextBoundary(4) = %d, want 5", got)
	}
	if got := NextBoundary(buf, 5); got != 5 {
		t.Errorf("NextBoundary(len) = %d, want 5", got)
	}
}

func TestPrevBoundary(t *testing.T) {
	buf := []byte("a日b")
	if got := PrevBoundary(buf, 4); got != 1 {
		t.Errorf("PrevBoundary(4) = %d, want 1", got)
	}
	if got := PrevBoundary(buf, 1); got != 0 {
		t.Errorf("PrevBoundary(1) = %d, want 0", got)
	}
	if got := PrevBoundary(buf, 0); got != 0 {
		t.Errorf("PrevBoundary(0) = %d, want 0", got)
	}
}

func TestBoundariesAgreeWithUTF8(t *testing.T) {
	buf := []byte("ab日本𝔘c")
	for p := 0; p <= len(buf); p++ {
		want := p == 0 || p == len(buf) || utf8.RuneStart(buf[p])
		if got := IsBoundary(buf, p); got != want {
			t.Errorf("IsBoundary(%d) = %v, want %v", p, got, want)
		}
	}
}
