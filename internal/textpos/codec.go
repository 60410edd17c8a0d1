// Package textpos converts between byte offsets and character (rune) offsets
// in UTF-8 text. The document buffer and its search target API speak bytes;
// anything user-facing (columns, counts) speaks characters. Every crossing
// converts exactly once; positions are never mixed.
package textpos

import "unicode/utf8"

// ByteToChar returns the rune offset of the rune starting at bytePos in buf.
// bytePos is clamped to [0, len(buf)]. bytePos must lie on a rune boundary;
// behavior for mid-rune positions is undefined (callers only pass positions
// obtained from the buffer's own APIs).
func ByteToChar(buf []byte, bytePos int) int {
	if bytePos < 0 {
		return 0
	}
	if bytePos > len(buf) {
		bytePos = len(buf)
	}
	return utf8.RuneCount(buf[:bytePos])
}

// CharToByte returns the byte offset of the charPos'th rune in buf.
// charPos is clamped to [0, rune count].
func CharToByte(buf []byte, charPos int) int {
	if charPos <= 0 {
		return 0
	}
	pos := 0
	for charPos > 0 && pos < len(buf) {
		_, size := utf8.DecodeRune(buf[pos:])
		pos += size
		charPos--
	}
	return pos
}

// IsBoundary reports whether bytePos is a rune boundary in buf.
// Both ends of the buffer count as boundaries.
func IsBoundary(buf []byte, bytePos int) bool {
	if bytePos <= 0 || bytePos >= len(buf) {
		return true
	}
	return !isContinuation(buf[bytePos])
}

// NextBoundary returns the smallest rune boundary strictly greater than
// bytePos, or len(buf) if none exists. Used to advance past zero-length
// matches without splitting a rune.
func NextBoundary(buf []byte, bytePos int) int {
	if bytePos < 0 {
		return 0
	}
	pos := bytePos + 1
	for pos < len(buf) && isContinuation(buf[pos]) {
		pos++
	}
	if pos > len(buf) {
		pos = len(buf)
	}
	return pos
}

// PrevBoundary returns the largest rune boundary strictly less than bytePos,
// or 0 if none exists.
func PrevBoundary(buf []byte, bytePos int) int {
	if bytePos > len(buf) {
		bytePos = len(buf)
	}
	pos := bytePos - 1
	for pos > 0 && isContinuation(buf[pos]) {
		pos--
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}
