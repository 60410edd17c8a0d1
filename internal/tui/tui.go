// Package tui is the interactive viewer: a read-mostly document pane
// with incremental find, replace, and on-disk change reload.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dl/findedit/internal/buffer"
	"github.com/dl/findedit/internal/find"
	"github.com/dl/findedit/internal/input"
	"github.com/dl/findedit/internal/watch"
)

// Options configures the viewer.
type Options struct {
	Path          string
	Watch         bool
	MmapThreshold int64
}

// mode is the input focus of the viewer.
type mode int

const (
	modeNormal mode = iota
	modeFind
	modeReplace
)

// App owns the screen, the document and the find engine. All state is
// touched only on the event loop goroutine; background work reaches it
// through postCh.
type App struct {
	screen  tcell.Screen
	opts    Options
	buf     *buffer.Buffer
	finder  *find.Finder
	watcher *watch.Watcher

	mode    mode
	prompt  []rune
	status  string
	notice  string // transient message, cleared on next keypress
	quit    bool

	postCh chan func()
}

// Run opens path in the viewer and blocks until the user quits.
func Run(opts Options) error {
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	app, err := newApp(screen, opts, find.Options{})
	if err != nil {
		return err
	}
	defer app.close()

	app.loop()
	return nil
}

func newApp(screen tcell.Screen, opts Options, fopts find.Options) (*App, error) {
	threshold := opts.MmapThreshold
	if threshold <= 0 {
		threshold = 1 << 20
	}
	doc, err := input.Load(opts.Path, input.NewAdaptiveReader(threshold))
	if err != nil {
		return nil, err
	}
	if !input.IsText(doc.Text) {
		return nil, fmt.Errorf("%s: binary file", opts.Path)
	}

	app := &App{
		screen: screen,
		opts:   opts,
		buf:    buffer.New(doc.Text),
		postCh: make(chan func(), 128),
	}

	_, h := screen.Size()
	app.buf.SetViewport(0, contentHeight(h))

	app.finder = find.New(app.buf, find.Host{
		Post:   app.post,
		Status: func(s string) { app.status = s },
	}, fopts)
	app.buf.OnMutate(app.finder.OnBufferMutated)

	if opts.Watch {
		w, err := watch.New(opts.Path)
		if err != nil {
			return nil, err
		}
		app.watcher = w
	}

	return app, nil
}

// post hands fn to the event loop goroutine. Never runs fn inline.
func (a *App) post(fn func()) {
	select {
	case a.postCh <- fn:
	default:
		go func() { a.postCh <- fn }()
	}
}

func (a *App) close() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.finder.Close()
}

func (a *App) loop() {
	a.render()

	eventCh := make(chan tcell.Event)
	go func() {
		for {
			eventCh <- a.screen.PollEvent()
		}
	}()

	var watchCh <-chan watch.Event
	if a.watcher != nil {
		watchCh = a.watcher.Events()
	}

	for !a.quit {
		select {
		case ev := <-eventCh:
			a.handleEvent(ev)
		case fn := <-a.postCh:
			fn()
		case evt, ok := <-watchCh:
			if !ok {
				watchCh = nil
				continue
			}
			a.handleWatch(evt)
		}

		// Drain any work the handler queued before redrawing.
		for {
			select {
			case fn := <-a.postCh:
				fn()
				continue
			default:
			}
			break
		}

		a.render()
	}
}

func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.notice = ""
		a.handleKey(ev)
	case *tcell.EventResize:
		_, h := ev.Size()
		a.buf.SetViewport(a.buf.FirstVisibleLine(), contentHeight(h))
		a.finder.OnViewportChanged()
		a.screen.Sync()
	}
}

func (a *App) handleWatch(evt watch.Event) {
	if evt.Err != nil {
		a.notice = fmt.Sprintf("watch: %v", evt.Err)
		return
	}
	switch evt.Type {
	case watch.EventModified, watch.EventReplaced:
		a.reload()
	case watch.EventDeleted:
		a.notice = "file removed on disk"
	}
}

// reload swaps in the on-disk content, dropping local edits.
func (a *App) reload() {
	doc, err := input.Load(a.opts.Path, input.NewAdaptiveReader(1<<20))
	if err != nil {
		a.notice = fmt.Sprintf("reload: %v", err)
		return
	}
	a.buf.SetText(doc.Text)
	a.finder.OnDocumentSwapped()
	a.notice = "reloaded"
}

// contentHeight is the rows left for text after the status bar.
func contentHeight(screenRows int) int {
	if screenRows <= 1 {
		return 1
	}
	return screenRows - 1
}
