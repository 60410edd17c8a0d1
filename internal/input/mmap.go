package input

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// MmapReader memory-maps files read-only. The mapping is private, so
// scanning a large document never copies it into the Go heap.
type MmapReader struct{}

// NewMmapReader creates a new MmapReader.
func NewMmapReader() *MmapReader {
	return &MmapReader{}
}

func (r *MmapReader) Read(path string) (ReadResult, error) {
	fd, size, err := openAndStat(path)
	if err != nil {
		return ReadResult{}, err
	}
	if size == 0 {
		unix.Close(fd)
		return ReadResult{Data: nil, Closer: noopCloser}, nil
	}
	return readMmap(fd, size)
}

// readMmap maps an already-open fd of known size. Takes ownership of fd.
func readMmap(fd int, size int64) (ReadResult, error) {
	unix.Fadvise(fd, 0, size, unix.FADV_SEQUENTIAL)

	data, err := syscall.Mmap(fd, 0, int(size), syscall.PROT_READ, syscall.MAP_PRIVATE|syscall.MAP_POPULATE)
	if err != nil {
		// Some filesystems refuse mmap; fall back to a plain read.
		return readBuffered(fd, size)
	}
	unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return ReadResult{
		Data: data,
		Closer: func() error {
			unix.Madvise(data, unix.MADV_DONTNEED)
			syscall.Munmap(data)
			unix.Close(fd)
			return nil
		},
	}, nil
}

// NewAdaptiveReader returns a Reader that picks buffered or mmap I/O by
// file size. Files at or above mmapThreshold bytes are mapped.
func NewAdaptiveReader(mmapThreshold int64) Reader {
	return &adaptiveReader{threshold: mmapThreshold}
}

type adaptiveReader struct {
	threshold int64
}

func (r *adaptiveReader) Read(path string) (ReadResult, error) {
	fd, size, err := openAndStat(path)
	if err != nil {
		return ReadResult{}, err
	}
	if size == 0 {
		unix.Close(fd)
		return ReadResult{Data: nil, Closer: noopCloser}, nil
	}
	if size >= r.threshold {
		return readMmap(fd, size)
	}
	return readBuffered(fd, size)
}
