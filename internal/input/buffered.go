package input

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// BufferedReader reads a whole file with unix.Pread into a heap buffer.
// Suited to documents small enough that a copy is cheaper than a map.
type BufferedReader struct{}

// NewBufferedReader creates a new BufferedReader.
func NewBufferedReader() *BufferedReader {
	return &BufferedReader{}
}

func (r *BufferedReader) Read(path string) (ReadResult, error) {
	fd, size, err := openAndStat(path)
	if err != nil {
		return ReadResult{}, err
	}
	if size == 0 {
		unix.Close(fd)
		return ReadResult{Data: nil, Closer: noopCloser}, nil
	}
	return readBuffered(fd, size)
}

// readBuffered reads an already-open fd of known size. Takes ownership
// of fd.
func readBuffered(fd int, size int64) (ReadResult, error) {
	buf := make([]byte, size)

	var total int
	for total < int(size) {
		n, err := unix.Pread(fd, buf[total:], int64(total))
		if err != nil {
			unix.Close(fd)
			return ReadResult{}, err
		}
		if n == 0 {
			break // EOF, file shrank under us
		}
		total += n
	}
	unix.Close(fd)

	return ReadResult{Data: buf[:total], Closer: noopCloser}, nil
}

// openAndStat opens path read-only and returns the fd plus its size.
func openAndStat(path string) (int, int64, error) {
	fd, err := openFile(path)
	if err != nil {
		return -1, 0, fmt.Errorf("open %s: %w", path, err)
	}
	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return fd, stat.Size, nil
}

// openFile opens a file with O_NOATIME, falling back without it.
func openFile(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY, 0)
	}
	return fd, err
}
