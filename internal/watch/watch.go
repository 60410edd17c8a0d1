// Package watch notifies an open document's owner when the file changes
// on disk, using raw inotify + epoll.
package watch

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Event represents a change to the watched document.
type Event struct {
	Type EventType
	Err  error
}

// EventType identifies the kind of file change.
type EventType int

const (
	// EventModified fires when the file is written in place.
	EventModified EventType = iota
	// EventReplaced fires when an editor-style atomic save renames a
	// new file over the watched path. The old watch descriptor is dead
	// and gets re-armed automatically.
	EventReplaced
	// EventDeleted fires when the file is removed and nothing replaces it.
	EventDeleted
)

// Watcher watches a single file for on-disk changes. Atomic saves
// (write temp, rename over) are detected by also watching the parent
// directory for the file's name.
type Watcher struct {
	path      string // absolute
	base      string
	inotifyFd int
	epollFd   int
	fileWd    int // -1 while the file does not exist
	dirWd     int
	done      chan struct{}
}

const fileMask = unix.IN_CLOSE_WRITE | unix.IN_MODIFY | unix.IN_MOVE_SELF | unix.IN_DELETE_SELF

// New creates a watcher for path. The parent directory must exist; the
// file itself may not, in which case the first event is EventReplaced
// when it appears.
func New(path string) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	ifd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("inotify_init1: %w", err)
	}

	efd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		unix.Close(ifd)
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}
	event := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(ifd)}
	if err := unix.EpollCtl(efd, unix.EPOLL_CTL_ADD, ifd, &event); err != nil {
		unix.Close(efd)
		unix.Close(ifd)
		return nil, fmt.Errorf("epoll_ctl: %w", err)
	}

	w := &Watcher{
		path:      absPath,
		base:      filepath.Base(absPath),
		inotifyFd: ifd,
		epollFd:   efd,
		fileWd:    -1,
		done:      make(chan struct{}),
	}

	dir := filepath.Dir(absPath)
	dirWd, err := unix.InotifyAddWatch(ifd, dir, unix.IN_CREATE|unix.IN_MOVED_TO)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("inotify_add_watch %s: %w", dir, err)
	}
	w.dirWd = dirWd

	// Best effort: the file may appear later via the directory watch.
	if wd, err := unix.InotifyAddWatch(ifd, absPath, fileMask); err == nil {
		w.fileWd = wd
	}

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Events returns a channel of change events. The goroutine feeding it
// exits, closing the channel, when Close is called.
func (w *Watcher) Events() <-chan Event {
	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 4096)
		events := make([]unix.EpollEvent, 1)

		for {
			select {
			case <-w.done:
				return
			default:
			}

			// 100ms timeout so the done channel is polled.
			n, err := unix.EpollWait(w.epollFd, events, 100)
			if err != nil {
				if err == unix.EINTR {
					continue
				}
				ch <- Event{Err: fmt.Errorf("epoll_wait: %w", err)}
				return
			}
			if n == 0 {
				continue
			}

			nbytes, err := unix.Read(w.inotifyFd, buf)
			if err != nil {
				if err == unix.EAGAIN {
					continue
				}
				ch <- Event{Err: fmt.Errorf("read inotify: %w", err)}
				return
			}

			w.parseEvents(buf[:nbytes], ch)
		}
	}()
	return ch
}

// inotify event header layout:
//   int32  wd       (offset 0)
//   uint32 mask     (offset 4)
//   uint32 cookie   (offset 8)
//   uint32 len      (offset 12)
//   char   name[]   (offset 16)
const inotifyEventSize = 16

func (w *Watcher) parseEvents(buf []byte, ch chan<- Event) {
	offset := 0
	for offset+inotifyEventSize <= len(buf) {
		wd := int(int32(binary.LittleEndian.Uint32(buf[offset:])))
		mask := binary.LittleEndian.Uint32(buf[offset+4:])
		nameLen := int(binary.LittleEndian.Uint32(buf[offset+12:]))

		var name string
		if nameLen > 0 {
			nameStart := offset + inotifyEventSize
			nameEnd := nameStart + nameLen
			if nameEnd > len(buf) {
				break
			}
			nameBytes := buf[nameStart:nameEnd]
			for i, b := range nameBytes {
				if b == 0 {
					nameBytes = nameBytes[:i]
					break
				}
			}
			name = string(nameBytes)
		}
		offset += inotifyEventSize + nameLen

		switch {
		case wd == w.dirWd:
			if name != w.base {
				continue
			}
			// A new inode landed at our path. Re-arm the file watch.
			w.rearm()
			ch <- Event{Type: EventReplaced}
		case wd == w.fileWd:
			switch {
			case mask&(unix.IN_CLOSE_WRITE|unix.IN_MODIFY) != 0:
				ch <- Event{Type: EventModified}
			case mask&(unix.IN_DELETE_SELF|unix.IN_MOVE_SELF) != 0:
				w.fileWd = -1
				ch <- Event{Type: EventDeleted}
			}
		}
	}
}

// rearm re-attaches the file watch after the inode at path changed.
func (w *Watcher) rearm() {
	if w.fileWd >= 0 {
		unix.InotifyRmWatch(w.inotifyFd, uint32(w.fileWd))
		w.fileWd = -1
	}
	if wd, err := unix.InotifyAddWatch(w.inotifyFd, w.path, fileMask); err == nil {
		w.fileWd = wd
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	unix.Close(w.epollFd)
	return unix.Close(w.inotifyFd)
}
