package fs

import (
	"os"

	"golang.org/x/sys/unix"
)

// MmapReadOnly memory-maps path for read-only access, returning the
// mapped bytes and a closer that unmaps them. Used for the reference
// and version buffers a diff or apply operation reads (spec §5: "Input
// buffers R and V are read-only and may be memory-mapped; no writes to
// them"). Not part of the [FS] interface - mmap is a special-purpose
// read path for large, read-only inputs, not a general filesystem
// operation subject to fault-injection testing.
func MmapReadOnly(path string) (data []byte, closer func() error, err error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	size := info.Size()
	if size == 0 {
		// mmap of a zero-length file fails on most platforms; an empty
		// reference/version buffer is valid input (spec §8 empty-version
		// / empty-reference), so handle it without mapping anything.
		return []byte{}, func() error { return nil }, nil
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}

	return mapped, func() error { return unix.Munmap(mapped) }, nil
}
