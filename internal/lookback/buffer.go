// Package lookback implements the bounded double-ended queue of
// provisional commands used by the correcting engine's 1.5-pass tail
// correction (spec §3, §4.5).
package lookback

import "godelta/internal/command"

// DefaultCapacity is the cross-implementation lookback buffer capacity.
// Changing it changes the emitted commands for certain inputs, so it is
// part of the interface contract (spec §9), not a tunable default.
const DefaultCapacity = 256

// Entry is a provisional command annotated with the V-range it covers.
// Dummy marks an entry that has been trimmed to nothing by a backward
// absorption and must be skipped on commit, rather than spliced out of
// the slice mid-walk.
type Entry struct {
	VStart, VEnd uint32
	Cmd          command.Command
	Dummy        bool
}

// Buffer is the lookback queue. Entries older than the buffer capacity
// are evicted in FIFO order and become immutable committed commands.
type Buffer struct {
	capacity  int
	entries   []Entry
	committed []command.Command
}

// New creates a lookback buffer with the given capacity. A capacity of
// 0 uses [DefaultCapacity].
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Buffer{capacity: capacity}
}

// PushAdd appends a fresh Add entry covering [vStart, vEnd), evicting
// the oldest entry (committing it) if the buffer is at capacity.
func (b *Buffer) PushAdd(vStart, vEnd uint32, data []byte) {
	b.push(Entry{VStart: vStart, VEnd: vEnd, Cmd: command.Add(data)})
}

// PushCopy appends a Copy entry covering [vStart, vEnd), evicting the
// oldest entry (committing it) if the buffer is at capacity.
func (b *Buffer) PushCopy(vStart, vEnd, offset, length uint32) {
	b.push(Entry{VStart: vStart, VEnd: vEnd, Cmd: command.Copy(offset, length)})
}

func (b *Buffer) push(e Entry) {
	b.entries = append(b.entries, e)

	if len(b.entries) > b.capacity {
		b.commitOldest()
	}
}

// commitOldest evicts the front (oldest) entry into the committed list.
func (b *Buffer) commitOldest() {
	front := b.entries[0]
	b.entries = b.entries[1:]

	if !front.Dummy {
		b.committed = append(b.committed, front.Cmd)
	}
}

// AbsorbBackward implements case (6b) of the correcting engine's tail
// correction: the new match [vm, vm+ml) overlaps commands still
// provisional in the buffer. It walks from the most recently pushed
// entry backward, dropping entries wholly contained in the new match's
// range, trimming a partially-overlapped Add entry to end at vm, and
// stopping (without reclaiming) at a partially-overlapped Copy entry.
//
// vS is the V-end of the buffer's tip before the walk starts (the
// caller's current v_s). When the walk reclaims nothing - either
// because the buffer is empty or because it stops immediately at an
// unreclaimable Copy entry that straddles vm - the region [vm, vS) is
// already covered by entries left untouched, so the caller only needs
// to encode the genuinely new tail [vS, vm+ml). effectiveStart must
// therefore default to vS, not vm+ml: defaulting to vm+ml would make
// the caller emit a zero-length Copy and silently drop that tail.
//
// Returns the smallest v_start absorbed - the effective start of the
// region the caller must now encode as a single Copy.
func (b *Buffer) AbsorbBackward(vS, vm, vmPlusML uint32) (effectiveStart uint32) {
	effectiveStart = vS

	for len(b.entries) > 0 {
		last := &b.entries[len(b.entries)-1]

		if last.VEnd <= vm {
			break // no overlap with the new match; stop the walk.
		}

		if last.VStart >= vm {
			// Wholly contained in [vm, vmPlusML): drop entirely.
			effectiveStart = last.VStart
			b.entries = b.entries[:len(b.entries)-1]

			continue
		}

		// Partial overlap: last.VStart < vm < last.VEnd.
		if last.Cmd.Kind == command.KindAdd {
			trimLen := vm - last.VStart
			last.Cmd.Data = last.Cmd.Data[:trimLen]
			last.Cmd.Length = trimLen
			last.VEnd = vm
			effectiveStart = vm
		}

		// A Copy entry that partially overlaps cannot be trimmed (its
		// source bytes are fixed by offset); stop without reclaiming.
		break
	}

	return effectiveStart
}

// DropTrailingDummies removes zero-length dummy entries left at the
// tail by AbsorbBackward trimming an entry down to nothing. Not
// currently required by the correcting algorithm (trims always leave a
// positive-length prefix) but kept as a defensive no-op path for
// forward compatibility with alternative trimming strategies.
func (b *Buffer) DropTrailingDummies() {
	for len(b.entries) > 0 && b.entries[len(b.entries)-1].Dummy {
		b.entries = b.entries[:len(b.entries)-1]
	}
}

// Len reports the number of entries currently buffered.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Flush commits all remaining non-dummy entries, in order, and returns
// the full committed command list accumulated over the buffer's
// lifetime (prior commits via eviction, plus this flush).
func (b *Buffer) Flush() []command.Command {
	for _, e := range b.entries {
		if !e.Dummy {
			b.committed = append(b.committed, e.Cmd)
		}
	}

	b.entries = nil

	return b.committed
}

// Committed returns the commands committed so far (via eviction),
// without flushing the remaining buffered entries.
func (b *Buffer) Committed() []command.Command {
	return b.committed
}
