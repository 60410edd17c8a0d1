package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dl/findedit/internal/find"
)

func newTestApp(t *testing.T, content string) *App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	scr := tcell.NewSimulationScreen("")
	if err := scr.Init(); err != nil {
		t.Fatal(err)
	}
	scr.SetSize(80, 24)

	app, err := newApp(scr, Options{Path: path}, find.Options{
		QueryDelay:  time.Millisecond,
		ScrollDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("newApp() error: %v", err)
	}
	t.Cleanup(func() {
		app.close()
		scr.Fini()
	})
	return app
}

// drain runs everything the engine posted to the event loop.
func (a *App) drain() {
	for {
		select {
		case fn := <-a.postCh:
			fn()
		default:
			return
		}
	}
}

// settle pumps posted engine work until cond holds.
func (a *App) settle(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		select {
		case fn := <-a.postCh:
			fn()
		case <-time.After(time.Millisecond):
		}
	}
}

func (a *App) counted(n int) func() bool {
	return func() bool { return a.finder.Session().TotalCount == n }
}

func keyRune(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestApp_LoadsDocument(t *testing.T) {
	app := newTestApp(t, "one\ntwo\nthree\n")
	if got := string(app.buf.Text()); got != "one\ntwo\nthree\n" {
		t.Errorf("buffer = %q", got)
	}
	if app.buf.LinesOnScreen() != 23 {
		t.Errorf("content rows = %d, want 23", app.buf.LinesOnScreen())
	}
}

func TestApp_RejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin")
	if err := os.WriteFile(path, []byte{0x7F, 'E', 'L', 'F', 0x00, 0x01}, 0644); err != nil {
		t.Fatal(err)
	}
	scr := tcell.NewSimulationScreen("")
	if err := scr.Init(); err != nil {
		t.Fatal(err)
	}
	defer scr.Fini()

	if _, err := newApp(scr, Options{Path: path}, find.Options{}); err == nil {
		t.Error("newApp() accepted a binary file")
	}
}

func TestApp_SlashOpensFindPrompt(t *testing.T) {
	app := newTestApp(t, "alpha beta alpha\n")

	app.handleKey(keyRune('/'))
	if app.mode != modeFind {
		t.Fatalf("mode = %d, want modeFind", app.mode)
	}

	for _, r := range "alpha" {
		app.handleKey(keyRune(r))
	}
	if got := string(app.prompt); got != "alpha" {
		t.Errorf("prompt = %q, want %q", got, "alpha")
	}
	if app.finder.Pattern() == nil {
		t.Error("typing in the prompt did not arm the pattern")
	}
}

func TestApp_EnterRunsNext(t *testing.T) {
	app := newTestApp(t, "x one x two\n")

	app.handleKey(keyRune('/'))
	app.handleKey(keyRune('x'))
	app.settle(t, "count pass", app.counted(2))

	// The caret sits on the first match; Enter seeks strictly past it.
	app.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	app.drain()
	if app.mode != modeNormal {
		t.Errorf("mode = %d, want modeNormal after enter", app.mode)
	}
	if s, e := app.buf.Selection(); s != 6 || e != 7 {
		t.Errorf("selection = (%d, %d), want (6, 7)", s, e)
	}
	if app.status != "2 of 2" {
		t.Errorf("status = %q, want %q", app.status, "2 of 2")
	}

	// n wraps back to the first occurrence.
	app.handleKey(keyRune('n'))
	app.drain()
	if s, e := app.buf.Selection(); s != 0 || e != 1 {
		t.Errorf("selection = (%d, %d), want (0, 1)", s, e)
	}
	if app.status != "1 of 2" {
		t.Errorf("status = %q, want %q", app.status, "1 of 2")
	}
}

func TestApp_EscapeDismissesSearchThenQuits(t *testing.T) {
	app := newTestApp(t, "abc\n")

	app.handleKey(keyRune('/'))
	app.handleKey(keyRune('a'))
	app.settle(t, "count pass", app.counted(1))
	app.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	app.drain()

	app.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if app.quit {
		t.Fatal("first escape quit instead of dismissing the search")
	}
	if app.finder.Pattern() != nil {
		t.Fatal("search still active after escape")
	}

	app.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if !app.quit {
		t.Error("second escape did not quit")
	}
}

func TestApp_ReplaceCurrentFromPrompt(t *testing.T) {
	app := newTestApp(t, "cat dog cat\n")

	app.handleKey(keyRune('/'))
	for _, r := range "cat" {
		app.handleKey(keyRune(r))
	}
	app.settle(t, "count pass", app.counted(2))
	app.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	app.drain()

	// Enter seeks past the match under the caret, onto the second one.
	if s, e := app.buf.Selection(); s != 8 || e != 11 {
		t.Fatalf("selection = (%d, %d), want (8, 11)", s, e)
	}

	app.handleKey(tcell.NewEventKey(tcell.KeyCtrlH, 0, tcell.ModNone))
	if app.mode != modeReplace {
		t.Fatalf("mode = %d, want modeReplace", app.mode)
	}
	for _, r := range "owl" {
		app.handleKey(keyRune(r))
	}
	app.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	app.drain()

	if got := string(app.buf.Text()); got != "cat dog owl\n" {
		t.Errorf("doc = %q, want %q", got, "cat dog owl\n")
	}
}

func TestApp_MoveLineClamps(t *testing.T) {
	app := newTestApp(t, "one\ntwo\nthree")

	app.moveLine(100)
	if line := app.buf.LineFromPos(app.buf.CaretPos()); line != 2 {
		t.Errorf("line = %d, want 2", line)
	}
	app.moveLine(-100)
	if line := app.buf.LineFromPos(app.buf.CaretPos()); line != 0 {
		t.Errorf("line = %d, want 0", line)
	}
}

func TestApp_UndoAfterReplace(t *testing.T) {
	app := newTestApp(t, "aa aa\n")

	app.handleKey(keyRune('/'))
	for _, r := range "aa" {
		app.handleKey(keyRune(r))
	}
	app.settle(t, "count pass", app.counted(2))
	app.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	app.drain()

	app.handleKey(tcell.NewEventKey(tcell.KeyCtrlH, 0, tcell.ModNone))
	for _, r := range "b" {
		app.handleKey(keyRune(r))
	}
	app.handleKey(tcell.NewEventKey(tcell.KeyCtrlA, 0, tcell.ModNone))
	app.drain()
	if got := string(app.buf.Text()); got != "b b\n" {
		t.Fatalf("doc = %q, want %q", got, "b b\n")
	}

	app.handleKey(keyRune('u'))
	app.drain()
	if got := string(app.buf.Text()); got != "aa aa\n" {
		t.Errorf("doc after undo = %q, want %q", got, "aa aa\n")
	}
}
