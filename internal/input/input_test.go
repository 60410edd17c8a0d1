package input

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBufferedReader_Read(t *testing.T) {
	content := []byte("hello world\nline two\n")
	path := writeTemp(t, "test.txt", content)

	r := NewBufferedReader()
	result, err := r.Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	defer result.Closer()

	if !bytes.Equal(result.Data, content) {
		t.Errorf("data = %q, want %q", result.Data, content)
	}
}

func TestBufferedReader_EmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.txt", nil)

	r := NewBufferedReader()
	result, err := r.Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	defer result.Closer()

	if result.Data != nil {
		t.Errorf("data = %v, want nil for empty file", result.Data)
	}
}

func TestBufferedReader_NonexistentFile(t *testing.T) {
	r := NewBufferedReader()
	_, err := r.Read("/nonexistent/path/file.txt")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestMmapReader_Read(t *testing.T) {
	content := bytes.Repeat([]byte("abcdefghij\n"), 10000) // past page size
	path := writeTemp(t, "large.txt", content)

	r := NewMmapReader()
	result, err := r.Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	if !bytes.Equal(result.Data, content) {
		t.Errorf("data length = %d, want %d", len(result.Data), len(content))
	}
	if err := result.Closer(); err != nil {
		t.Errorf("Closer() error: %v", err)
	}
}

func TestAdaptiveReader(t *testing.T) {
	small := []byte("small file\n")
	large := bytes.Repeat([]byte("x"), 2*1024)

	r := NewAdaptiveReader(1024)
	for _, tt := range []struct {
		name    string
		content []byte
	}{
		{"below threshold", small},
		{"above threshold", large},
	} {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "f.txt", tt.content)
			result, err := r.Read(path)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			defer result.Closer()
			if !bytes.Equal(result.Data, tt.content) {
				t.Errorf("data length = %d, want %d", len(result.Data), len(tt.content))
			}
		})
	}
}

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Encoding
	}{
		{"plain", []byte("hello"), EncodingUTF8},
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, EncodingUTF8BOM},
		{"utf16le", []byte{0xFF, 0xFE, 'h', 0x00}, EncodingUTF16LE},
		{"utf16be", []byte{0xFE, 0xFF, 0x00, 'h'}, EncodingUTF16BE},
		{"empty", nil, EncodingUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectEncoding(tt.data); got != tt.want {
				t.Errorf("DetectEncoding() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize_UTF16(t *testing.T) {
	// "hi\n" little-endian with BOM.
	le := []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00, '\n', 0x00}
	text, enc := Normalize(le)
	if enc != EncodingUTF16LE {
		t.Fatalf("encoding = %v, want EncodingUTF16LE", enc)
	}
	if string(text) != "hi\n" {
		t.Errorf("text = %q, want %q", text, "hi\n")
	}

	be := []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'}
	text, enc = Normalize(be)
	if enc != EncodingUTF16BE {
		t.Fatalf("encoding = %v, want EncodingUTF16BE", enc)
	}
	if string(text) != "hi" {
		t.Errorf("text = %q, want %q", text, "hi")
	}
}

func TestNormalize_StripsUTF8BOM(t *testing.T) {
	data := []byte{0xEF, 0xBB, 0xBF, 'a', 'b'}
	text, enc := Normalize(data)
	if enc != EncodingUTF8BOM {
		t.Fatalf("encoding = %v, want EncodingUTF8BOM", enc)
	}
	if string(text) != "ab" {
		t.Errorf("text = %q, want %q", text, "ab")
	}
}

func TestEncodeFor_RoundTrip(t *testing.T) {
	text := []byte("héllo\nwörld")
	for _, enc := range []Encoding{EncodingUTF8, EncodingUTF8BOM, EncodingUTF16LE, EncodingUTF16BE} {
		t.Run(enc.String(), func(t *testing.T) {
			stored, err := EncodeFor(text, enc)
			if err != nil {
				t.Fatalf("EncodeFor() error: %v", err)
			}
			back, got := Normalize(stored)
			if got != enc {
				t.Fatalf("round-trip encoding = %v, want %v", got, enc)
			}
			if !bytes.Equal(back, text) {
				t.Errorf("round-trip text = %q, want %q", back, text)
			}
		})
	}
}

func TestLoad_TranscodesAndOwns(t *testing.T) {
	le := []byte{0xFF, 0xFE, 'o', 0x00, 'k', 0x00}
	path := writeTemp(t, "utf16.txt", le)

	doc, err := Load(path, NewAdaptiveReader(1))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(doc.Text) != "ok" {
		t.Errorf("text = %q, want %q", doc.Text, "ok")
	}
	if doc.Encoding != EncodingUTF16LE {
		t.Errorf("encoding = %v, want EncodingUTF16LE", doc.Encoding)
	}
}

func TestLoad_BOMFileOverMmap(t *testing.T) {
	body := bytes.Repeat([]byte("bom mapped line\n"), 512)
	content := append([]byte{0xEF, 0xBB, 0xBF}, body...)
	path := writeTemp(t, "bom.txt", content)

	doc, err := Load(path, NewAdaptiveReader(1))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if doc.Encoding != EncodingUTF8BOM {
		t.Fatalf("encoding = %v, want EncodingUTF8BOM", doc.Encoding)
	}
	// The mapping is unmapped by the time Load returns; every byte of the
	// document must still be readable.
	if !bytes.Equal(doc.Text, body) {
		t.Errorf("text = %d bytes, want %d matching bytes", len(doc.Text), len(body))
	}
}

func TestIsText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"empty", nil, true},
		{"ascii", []byte("plain text\n"), true},
		{"utf8", []byte("日本語"), true},
		{"utf16 bom", []byte{0xFF, 0xFE, 'h', 0x00}, true},
		{"nul byte", []byte("ab\x00cd"), false},
		{"mostly control", bytes.Repeat([]byte{0xC0, 0x01, 0x02, 0x03}, 16), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsText(tt.data); got != tt.want {
				t.Errorf("IsText() = %v, want %v", got, tt.want)
			}
		})
	}
}
