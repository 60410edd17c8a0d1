package output

import (
	"encoding/json"
)

// JSONFormatter formats matches as JSON Lines, one object per occurrence.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// jsonMatch is the JSON serialization format for one occurrence.
type jsonMatch struct {
	Type       string `json:"type"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	ByteOffset int    `json:"byte_offset"`
	ByteEnd    int    `json:"byte_end"`
	Text       string `json:"text"`
}

func (f *JSONFormatter) Format(buf []byte, matches []Match) []byte {
	for _, m := range matches {
		jm := jsonMatch{
			Type:       "match",
			Line:       m.Line,
			Column:     m.Column,
			ByteOffset: m.Start,
			ByteEnd:    m.End,
			Text:       string(m.LineText),
		}
		data, _ := json.Marshal(jm)
		buf = append(buf, data...)
		buf = append(buf, '\n')
	}
	return buf
}

var _ Formatter = (*JSONFormatter)(nil)
