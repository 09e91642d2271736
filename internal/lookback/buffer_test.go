package lookback_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"godelta/internal/command"
	"godelta/internal/lookback"
)

func TestBuffer_FlushCommitsInOrder(t *testing.T) {
	b := lookback.New(4)

	b.PushAdd(0, 2, []byte("ab"))
	b.PushCopy(2, 5, 10, 3)

	got := b.Flush()
	want := []command.Command{
		command.Add([]byte("ab")),
		command.Copy(10, 3),
	}

	require.Equal(t, want, got)
}

func TestBuffer_EvictsOldestAtCapacity(t *testing.T) {
	b := lookback.New(2)

	b.PushAdd(0, 1, []byte("a"))
	b.PushAdd(1, 2, []byte("b"))
	// at capacity; this push evicts the first entry into committed.
	b.PushAdd(2, 3, []byte("c"))

	require.Equal(t, []command.Command{command.Add([]byte("a"))}, b.Committed())
	require.Equal(t, 2, b.Len())

	got := b.Flush()
	want := []command.Command{
		command.Add([]byte("a")),
		command.Add([]byte("b")),
		command.Add([]byte("c")),
	}
	require.Equal(t, want, got)
}

func TestBuffer_AbsorbBackward_DropsWhollyContained(t *testing.T) {
	b := lookback.New(16)

	b.PushAdd(0, 5, []byte("abcde"))
	b.PushCopy(5, 10, 100, 5)

	// new match covers [3, 12): the copy entry [5,10) is wholly
	// contained and dropped; the add entry [0,5) is only partially
	// overlapped (tail [3,5)) and is trimmed down to [0,3).
	effStart := b.AbsorbBackward(10, 3, 12)

	require.EqualValues(t, 3, effStart)
	require.Equal(t, 1, b.Len())

	flushed := b.Flush()
	require.Len(t, flushed, 1)
	require.Equal(t, []byte("abc"), flushed[0].Data)
}

func TestBuffer_AbsorbBackward_DropsThenTrimsThenStops(t *testing.T) {
	b := lookback.New(16)

	b.PushCopy(0, 5, 100, 5)
	b.PushAdd(5, 10, []byte("abcde"))
	b.PushAdd(10, 15, []byte("fghij"))

	// new match [8, 20): the trailing add [10,15) is wholly contained
	// and dropped; the middle add [5,10) is only partially overlapped
	// (tail [8,10)) and is trimmed to [5,8); the walk then stops since
	// the remaining entry (the leading copy, [0,5)) cannot overlap a
	// contiguous buffer at offset 8 and is left untouched.
	effStart := b.AbsorbBackward(15, 8, 20)

	require.EqualValues(t, 8, effStart)
	require.Equal(t, 2, b.Len())

	flushed := b.Flush()
	require.Len(t, flushed, 2)
	require.Equal(t, command.KindCopy, flushed[0].Kind)
	require.Equal(t, command.KindAdd, flushed[1].Kind)
	require.Equal(t, []byte("abc"), flushed[1].Data)
}

func TestBuffer_AbsorbBackward_StopsAtPartiallyOverlappingCopy(t *testing.T) {
	b := lookback.New(16)

	b.PushCopy(0, 10, 100, 10)

	// new match [5, 15) partially overlaps the copy [0,10); a Copy
	// cannot be trimmed, so the walk stops without reclaiming anything.
	// effectiveStart must fall back to the buffer's pre-walk V-end (10,
	// the copy's VEnd), not the new match's own end (15) - the range
	// [0,10) is already covered by the untouched copy entry, and only
	// [10,15) is genuinely new.
	effStart := b.AbsorbBackward(10, 5, 15)

	require.EqualValues(t, 10, effStart, "no entry absorbed, effectiveStart falls back to the pre-walk V-end")
	require.Equal(t, 1, b.Len())
}
