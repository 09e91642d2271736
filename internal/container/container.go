// Package container implements the binary delta format (spec §6.1): a
// fixed big-endian header followed by a COPY/ADD/END command stream.
// All target-language implementations must round-trip each other's
// deltas bit for bit, so every field width and byte order here is part
// of the wire contract, not an implementation detail.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"

	"godelta/internal/command"
)

// Magic is the four-byte delta file signature.
var Magic = [4]byte{'D', 'L', 'T', 0x01}

const (
	flagInplace = 0x01

	cmdEnd  = 0x00
	cmdCopy = 0x01
	cmdAdd  = 0x02

	headerSize = 4 + 1 + 4 // magic + flags + version_size
)

// ErrFraming is the decode-only error class for any malformed header or
// command stream (spec §7): short header, bad magic, truncated
// command, truncated payload, or an unknown command byte.
var ErrFraming = errors.New("container: framing error")

// Encode writes placed commands in the caller-provided order, followed
// by one END byte, after the fixed header (spec §6.1).
func Encode(placed []command.PlacedCommand, inplace bool, versionSize uint32) []byte {
	size := headerSize + 1
	for _, p := range placed {
		if p.Kind == command.KindCopy {
			size += 1 + 12
		} else {
			size += 1 + 8 + len(p.Data)
		}
	}

	buf := make([]byte, 0, size)
	buf = append(buf, Magic[:]...)

	var flags byte
	if inplace {
		flags = flagInplace
	}

	buf = append(buf, flags)
	buf = binary.BigEndian.AppendUint32(buf, versionSize)

	for _, p := range placed {
		switch p.Kind {
		case command.KindCopy:
			buf = append(buf, cmdCopy)
			buf = binary.BigEndian.AppendUint32(buf, p.Src)
			buf = binary.BigEndian.AppendUint32(buf, p.Dst)
			buf = binary.BigEndian.AppendUint32(buf, p.Length)
		case command.KindAdd:
			buf = append(buf, cmdAdd)
			buf = binary.BigEndian.AppendUint32(buf, p.Dst)
			buf = binary.BigEndian.AppendUint32(buf, p.Length)
			buf = append(buf, p.Data...)
		}
	}

	buf = append(buf, cmdEnd)

	return buf
}

// Decode parses a delta produced by [Encode] (spec §6.1). It returns a
// framing error on any of: short header, unknown magic, truncated
// payload, unknown command byte, or a declared length extending past
// the buffer.
func Decode(data []byte) (placed []command.PlacedCommand, inplace bool, versionSize uint32, err error) {
	if len(data) < headerSize {
		return nil, false, 0, fmt.Errorf("%w: header needs %d bytes, got %d", ErrFraming, headerSize, len(data))
	}

	if [4]byte(data[:4]) != Magic {
		return nil, false, 0, fmt.Errorf("%w: bad magic", ErrFraming)
	}

	flags := data[4]
	inplace = flags&flagInplace != 0
	versionSize = binary.BigEndian.Uint32(data[5:9])

	pos := headerSize

	for {
		if pos >= len(data) {
			return nil, false, 0, fmt.Errorf("%w: command stream missing END at position %d", ErrFraming, pos)
		}

		tag := data[pos]
		pos++

		switch tag {
		case cmdEnd:
			return placed, inplace, versionSize, nil

		case cmdCopy:
			if pos+12 > len(data) {
				return nil, false, 0, fmt.Errorf("%w: truncated COPY payload at position %d", ErrFraming, pos)
			}

			src := binary.BigEndian.Uint32(data[pos:])
			dst := binary.BigEndian.Uint32(data[pos+4:])
			length := binary.BigEndian.Uint32(data[pos+8:])
			pos += 12

			placed = append(placed, command.PlacedCopy(src, dst, length))

		case cmdAdd:
			if pos+8 > len(data) {
				return nil, false, 0, fmt.Errorf("%w: truncated ADD header at position %d", ErrFraming, pos)
			}

			dst := binary.BigEndian.Uint32(data[pos:])
			length := binary.BigEndian.Uint32(data[pos+4:])
			pos += 8

			if uint64(pos)+uint64(length) > uint64(len(data)) {
				return nil, false, 0, fmt.Errorf("%w: ADD payload of %d bytes extends past buffer at position %d", ErrFraming, length, pos)
			}

			payload := make([]byte, length)
			copy(payload, data[pos:pos+int(length)])
			pos += int(length)

			placed = append(placed, command.PlacedAdd(dst, payload))

		default:
			return nil, false, 0, fmt.Errorf("%w: unknown command byte 0x%02x at position %d", ErrFraming, tag, pos-1)
		}
	}
}

// IsInplaceDelta reports whether data is (at minimum, framing-wise) an
// in-place delta, without fully decoding the command stream (spec
// §6.1: "size >= 5 && magic matches && (flags & 0x01) != 0").
func IsInplaceDelta(data []byte) bool {
	return len(data) >= 5 && [4]byte(data[:4]) == Magic && data[4]&flagInplace != 0
}
