package output

import (
	"strconv"
)

// TextFormatter formats matches as human-readable text with optional
// color, one `line:column: text` entry per occurrence.
type TextFormatter struct {
	countOnly bool
	styles    Styles
	useColor  bool
}

// NewTextFormatter creates a TextFormatter.
func NewTextFormatter(countOnly bool, useColor bool) *TextFormatter {
	styles := NoStyles()
	if useColor {
		styles = NewStyles()
	}
	return &TextFormatter{
		countOnly: countOnly,
		styles:    styles,
		useColor:  useColor,
	}
}

func (f *TextFormatter) Format(buf []byte, matches []Match) []byte {
	if f.countOnly {
		buf = strconv.AppendInt(buf, int64(len(matches)), 10)
		buf = append(buf, '\n')
		return buf
	}

	for _, m := range matches {
		buf = f.formatMatch(buf, m)
	}
	return buf
}

func (f *TextFormatter) formatMatch(buf []byte, m Match) []byte {
	pos := strconv.Itoa(m.Line) + ":" + strconv.Itoa(m.Column)
	if f.useColor {
		buf = append(buf, f.styles.LineNum.Render(pos)...)
		buf = append(buf, f.styles.Separator.Render(":")...)
	} else {
		buf = append(buf, pos...)
		buf = append(buf, ':')
	}
	buf = append(buf, ' ')

	start, end := m.spanInLine()
	if f.useColor && end > start {
		buf = append(buf, m.LineText[:start]...)
		buf = append(buf, f.styles.Match.Render(string(m.LineText[start:end]))...)
		buf = append(buf, m.LineText[end:]...)
	} else {
		buf = append(buf, m.LineText...)
	}

	buf = append(buf, '\n')
	return buf
}

var _ Formatter = (*TextFormatter)(nil)
