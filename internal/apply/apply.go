// Package apply reconstructs V from R and a placed command sequence,
// either into a fresh output buffer or in place inside a buffer that
// starts out holding R (spec §4.7).
package apply

import (
	"errors"
	"fmt"

	"godelta/internal/command"
)

// ErrMalformedDelta is returned when a placed command references bytes
// outside R or outside the declared version size (spec §7: apply
// errors are a malformed-delta error, not a distinct class).
var ErrMalformedDelta = errors.New("apply: malformed delta")

// Placed standard apply: no source/destination overlap is possible,
// since sources read from R and destinations write to a fresh buffer.
func Placed(r []byte, placed []command.PlacedCommand, versionSize uint32) ([]byte, error) {
	out := make([]byte, versionSize)

	for _, p := range placed {
		if uint64(p.Dst)+uint64(p.Length) > uint64(versionSize) {
			return nil, fmt.Errorf("%w: dst %d+%d exceeds version_size %d", ErrMalformedDelta, p.Dst, p.Length, versionSize)
		}

		switch p.Kind {
		case command.KindCopy:
			if uint64(p.Src)+uint64(p.Length) > uint64(len(r)) {
				return nil, fmt.Errorf("%w: src %d+%d exceeds |R| %d", ErrMalformedDelta, p.Src, p.Length, len(r))
			}

			copy(out[p.Dst:p.Dst+p.Length], r[p.Src:p.Src+p.Length])
		case command.KindAdd:
			if uint32(len(p.Data)) != p.Length { //nolint:gosec
				return nil, fmt.Errorf("%w: add length %d does not match payload %d bytes", ErrMalformedDelta, p.Length, len(p.Data))
			}

			copy(out[p.Dst:p.Dst+p.Length], p.Data)
		}
	}

	return out, nil
}

// PlacedInplace reconstructs V inside a single buffer that starts out
// holding R (spec §4.7). The topological ordering from [inplace.MakeInplace]
// guarantees every read precedes any overwrite of its source, so an
// overlap-safe move (memmove semantics) is all PlacedCopy needs.
func PlacedInplace(r []byte, placed []command.PlacedCommand, versionSize uint32) ([]byte, error) {
	size := uint32(len(r)) //nolint:gosec
	if versionSize > size {
		size = versionSize
	}

	buf := make([]byte, size)
	copy(buf, r)

	for _, p := range placed {
		if uint64(p.Dst)+uint64(p.Length) > uint64(size) {
			return nil, fmt.Errorf("%w: dst %d+%d exceeds buffer size %d", ErrMalformedDelta, p.Dst, p.Length, size)
		}

		switch p.Kind {
		case command.KindCopy:
			if uint64(p.Src)+uint64(p.Length) > uint64(size) {
				return nil, fmt.Errorf("%w: src %d+%d exceeds buffer size %d", ErrMalformedDelta, p.Src, p.Length, size)
			}

			moveOverlapping(buf, p.Src, p.Dst, p.Length)
		case command.KindAdd:
			if uint32(len(p.Data)) != p.Length { //nolint:gosec
				return nil, fmt.Errorf("%w: add length %d does not match payload %d bytes", ErrMalformedDelta, p.Length, len(p.Data))
			}

			copy(buf[p.Dst:p.Dst+p.Length], p.Data)
		}
	}

	return buf[:versionSize], nil
}

// moveOverlapping copies length bytes from src to dst within buf. The
// builtin copy is memmove-equivalent - the source and destination are
// permitted to overlap - so no manual direction handling is needed.
func moveOverlapping(buf []byte, src, dst, length uint32) {
	copy(buf[dst:dst+length], buf[src:src+length])
}
