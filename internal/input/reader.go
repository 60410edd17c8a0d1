package input

// ReadResult holds raw file content and a cleanup function. Data stays
// valid until Closer is called; for memory-mapped files Closer unmaps.
type ReadResult struct {
	Data   []byte
	Closer func() error
}

// noopCloser is a package-level no-op closer shared by readers that
// return heap-allocated data.
func noopCloser() error { return nil }

// Reader reads file content into a byte slice.
type Reader interface {
	Read(path string) (ReadResult, error)
}

// Document is a file loaded for editing: its content normalized to
// UTF-8 plus the encoding it was stored in, so a save path can write
// it back the same way.
type Document struct {
	Text     []byte
	Encoding Encoding
}

// Load reads path through r and normalizes the content to UTF-8.
// The returned Document owns its bytes; the underlying ReadResult is
// released before Load returns.
func Load(path string, r Reader) (Document, error) {
	res, err := r.Read(path)
	if err != nil {
		return Document{}, err
	}
	defer res.Closer()

	text, enc := Normalize(res.Data)
	// Normalize aliases the input for UTF-8 content, with or without a BOM;
	// only the UTF-16 paths decode into fresh memory. Copy the aliased cases
	// so the document outlives the mmap.
	switch enc {
	case EncodingUTF8, EncodingUTF8BOM:
		text = append([]byte(nil), text...)
	}
	return Document{Text: text, Encoding: enc}, nil
}
