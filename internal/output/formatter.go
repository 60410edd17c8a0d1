package output

// Formatter renders located matches into bytes for output.
// buf is a reusable buffer: implementations append to it and return the
// result, so callers can pass buf[:0] to reuse the backing array.
type Formatter interface {
	Format(buf []byte, matches []Match) []byte
}
