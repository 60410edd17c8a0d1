package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dl/findedit/internal/textpos"
)

func (a *App) handleKey(ev *tcell.EventKey) {
	switch a.mode {
	case modeFind:
		a.handleFindKey(ev)
	case modeReplace:
		a.handleReplaceKey(ev)
	default:
		a.handleNormalKey(ev)
	}
}

func (a *App) handleNormalKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyEscape:
		// First Escape dismisses an active search, second quits.
		if a.finder.Pattern() != nil {
			a.finder.Hide()
		} else {
			a.quit = true
		}
	case tcell.KeyLeft:
		a.moveCaret(textpos.PrevBoundary(a.buf.Text(), a.buf.CaretPos()))
	case tcell.KeyRight:
		a.moveCaret(textpos.NextBoundary(a.buf.Text(), a.buf.CaretPos()))
	case tcell.KeyUp:
		a.moveLine(-1)
	case tcell.KeyDown:
		a.moveLine(1)
	case tcell.KeyPgUp:
		a.moveLine(-a.buf.LinesOnScreen())
	case tcell.KeyPgDn:
		a.moveLine(a.buf.LinesOnScreen())
	case tcell.KeyHome:
		a.moveCaret(a.buf.LineStart(a.buf.LineFromPos(a.buf.CaretPos())))
	case tcell.KeyEnd:
		a.moveCaret(a.buf.LineEnd(a.buf.LineFromPos(a.buf.CaretPos())))
	case tcell.KeyCtrlH:
		if a.finder.Pattern() != nil {
			a.mode = modeReplace
			a.prompt = nil
		} else {
			a.notice = "no active search"
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.quit = true
		case '/':
			a.mode = modeFind
			a.prompt = []rune(a.finder.Show(true))
		case 'n':
			a.finder.Next()
		case 'N':
			a.finder.Prev()
		case 'g':
			a.moveCaret(0)
		case 'G':
			a.moveCaret(a.buf.Length())
		case 'u':
			if !a.buf.Undo() {
				a.notice = "nothing to undo"
			}
		}
	}
}

func (a *App) handleFindKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.finder.Hide()
		a.mode = modeNormal
	case tcell.KeyEnter:
		a.finder.Next()
		a.mode = modeNormal
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.prompt) > 0 {
			a.prompt = a.prompt[:len(a.prompt)-1]
			a.finder.SetPattern(string(a.prompt))
		}
	case tcell.KeyCtrlT:
		a.finder.SetMatchCase(!a.finder.Session().Query.MatchCase)
	case tcell.KeyCtrlW:
		a.finder.SetWholeWord(!a.finder.Session().Query.WholeWord)
	case tcell.KeyCtrlR:
		a.finder.SetRegex(!a.finder.Session().Query.Regex)
	case tcell.KeyCtrlP:
		a.finder.SetPCRE(!a.finder.Session().Query.PCRE)
	case tcell.KeyCtrlX:
		a.finder.SetInSelection(!a.finder.Session().Query.InSelection)
	case tcell.KeyRune:
		a.prompt = append(a.prompt, ev.Rune())
		a.finder.SetPattern(string(a.prompt))
	}
}

func (a *App) handleReplaceKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.mode = modeNormal
	case tcell.KeyEnter:
		a.finder.ReplaceCurrent(string(a.prompt))
	case tcell.KeyCtrlA:
		a.finder.ReplaceAll(string(a.prompt))
		a.mode = modeNormal
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.prompt) > 0 {
			a.prompt = a.prompt[:len(a.prompt)-1]
		}
	case tcell.KeyRune:
		a.prompt = append(a.prompt, ev.Rune())
	}
}

func (a *App) moveCaret(pos int) {
	a.buf.GotoPos(pos)
	first := a.buf.FirstVisibleLine()
	a.buf.ScrollCaret()
	if a.buf.FirstVisibleLine() != first {
		a.finder.OnViewportChanged()
	}
}

// moveLine moves the caret delta lines, landing on the start of the
// target line.
func (a *App) moveLine(delta int) {
	line := a.buf.LineFromPos(a.buf.CaretPos()) + delta
	if line < 0 {
		line = 0
	}
	if max := a.buf.LineCount() - 1; line > max {
		line = max
	}
	a.moveCaret(a.buf.LineStart(line))
}
