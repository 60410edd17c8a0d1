package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var (
	styleText      = tcell.StyleDefault
	styleIndicator = tcell.StyleDefault.Background(tcell.ColorDarkGoldenrod).Foreground(tcell.ColorBlack)
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleBar       = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	styleNotice    = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorYellow)
)

func (a *App) render() {
	a.screen.Clear()

	w, h := a.screen.Size()
	rows := contentHeight(h)
	first := a.buf.FirstVisibleLine()
	selStart, selEnd := a.buf.Selection()

	for row := 0; row < rows; row++ {
		line := first + row
		if line >= a.buf.LineCount() {
			break
		}
		a.drawLine(row, w, a.buf.LineStart(line), a.buf.LineEnd(line), selStart, selEnd)
	}

	a.drawStatusBar(w, h)
	a.screen.Show()
}

// drawLine renders one document line, styling indicator and selection
// ranges per cell.
func (a *App) drawLine(row, width, lineStart, lineEnd, selStart, selEnd int) {
	text := a.buf.Text()
	col := 0
	pos := lineStart

	for pos < lineEnd && col < width {
		r, size := utf8.DecodeRune(text[pos:])
		if r == utf8.RuneError && size <= 1 {
			r = '�'
			size = 1
		}

		style := styleText
		switch {
		case pos >= selStart && pos < selEnd:
			style = styleSelection
		case a.buf.IndicatorAt(pos):
			style = styleIndicator
		}

		if r == '\t' {
			// Expand tabs to the next 8-column stop.
			next := (col/8 + 1) * 8
			for ; col < next && col < width; col++ {
				a.screen.SetContent(col, row, ' ', nil, style)
			}
		} else {
			a.screen.SetContent(col, row, r, nil, style)
			col += runewidth.RuneWidth(r)
		}
		pos += size
	}

	// Collapsed caret on this line shows as a reverse cell.
	if selStart == selEnd && selStart >= lineStart && selStart <= lineEnd {
		a.drawCaret(row, lineStart, selStart, width)
	}
}

func (a *App) drawCaret(row, lineStart, caret, width int) {
	text := a.buf.Text()
	col := 0
	for pos := lineStart; pos < caret; {
		r, size := utf8.DecodeRune(text[pos:])
		if size <= 0 {
			break
		}
		if r == '\t' {
			col = (col/8 + 1) * 8
		} else {
			col += runewidth.RuneWidth(r)
		}
		pos += size
	}
	if col < width {
		a.screen.ShowCursor(col, row)
	}
}

func (a *App) drawStatusBar(w, h int) {
	row := h - 1
	if row < 0 {
		return
	}

	var left string
	style := styleBar
	switch a.mode {
	case modeFind:
		left = "/" + string(a.prompt) + a.optionFlags()
	case modeReplace:
		left = "replace with: " + string(a.prompt) + "  (enter: one, ctrl-a: all)"
	default:
		if a.notice != "" {
			left = a.notice
			style = styleNotice
		} else {
			line := a.buf.LineFromPos(a.buf.CaretPos()) + 1
			left = fmt.Sprintf("%s  %d/%d", a.opts.Path, line, a.buf.LineCount())
		}
	}

	right := a.status

	for col := 0; col < w; col++ {
		a.screen.SetContent(col, row, ' ', nil, style)
	}
	col := 0
	for _, r := range left {
		if col >= w {
			break
		}
		a.screen.SetContent(col, row, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
	if rw := runewidth.StringWidth(right); rw > 0 && w-rw > col+1 {
		col = w - rw
		for _, r := range right {
			a.screen.SetContent(col, row, r, nil, style)
			col += runewidth.RuneWidth(r)
		}
	}
}

// optionFlags renders the active search toggles for the prompt line.
func (a *App) optionFlags() string {
	q := a.finder.Session().Query
	var on []string
	if q.MatchCase {
		on = append(on, "Aa")
	}
	if q.WholeWord {
		on = append(on, "w")
	}
	if q.PCRE {
		on = append(on, "pcre")
	} else if q.Regex {
		on = append(on, "re")
	}
	if q.InSelection {
		on = append(on, "sel")
	}
	if len(on) == 0 {
		return ""
	}
	return "  [" + strings.Join(on, " ") + "]"
}
