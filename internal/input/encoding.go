package input

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	sniffSampleSize              = 4096
	nonPrintableThresholdPercent = 30
)

// Encoding identifies how a document was stored on disk.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8BOM:
		return "utf-8 bom"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return "utf-8"
	}
}

// DetectEncoding sniffs a BOM at the start of data. Absent any BOM the
// content is treated as UTF-8.
func DetectEncoding(data []byte) Encoding {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return EncodingUTF8BOM
	}
	if len(data) >= 2 {
		switch {
		case data[0] == 0xFF && data[1] == 0xFE:
			return EncodingUTF16LE
		case data[0] == 0xFE && data[1] == 0xFF:
			return EncodingUTF16BE
		}
	}
	return EncodingUTF8
}

// Normalize converts BOM-marked content to plain UTF-8 and reports the
// source encoding. Plain UTF-8 input is returned as-is without copying.
func Normalize(data []byte) ([]byte, Encoding) {
	enc := DetectEncoding(data)
	switch enc {
	case EncodingUTF8BOM:
		return data[3:], enc
	case EncodingUTF16LE:
		return decodeUTF16(data, unicode.LittleEndian), enc
	case EncodingUTF16BE:
		return decodeUTF16(data, unicode.BigEndian), enc
	default:
		return data, enc
	}
}

func decodeUTF16(data []byte, endian unicode.Endianness) []byte {
	out, err := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder().Bytes(data)
	if err != nil {
		// Undecodable despite the BOM; keep the raw bytes. Copied so every
		// UTF-16 result owns its memory.
		return append([]byte(nil), data...)
	}
	return out
}

// EncodeFor converts UTF-8 text back to the given on-disk encoding,
// restoring the BOM the file originally carried.
func EncodeFor(text []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8BOM:
		out := make([]byte, 0, len(text)+3)
		out = append(out, 0xEF, 0xBB, 0xBF)
		return append(out, text...), nil
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes(text)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes(text)
	default:
		return text, nil
	}
}

// IsText reports whether content looks like text rather than binary.
func IsText(content []byte) bool {
	if len(content) == 0 {
		return true
	}

	sample := content
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}

	if DetectEncoding(sample) != EncodingUTF8 {
		return true
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if !isCommonTextByte(b) {
			nonPrintable++
		}
	}
	return nonPrintable*100/len(sample) < nonPrintableThresholdPercent
}

func isCommonTextByte(b byte) bool {
	switch {
	case b == 0x09 || b == 0x0A || b == 0x0D:
		return true
	case b >= 0x20 && b <= 0x7E:
		return true
	case b >= 0x80:
		return true
	default:
		return false
	}
}
