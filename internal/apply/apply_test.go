package apply_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"godelta/internal/apply"
	"godelta/internal/command"
)

func TestPlaced_RoundTrip(t *testing.T) {
	r := []byte("ABCDEFGHIJ")
	placed := []command.PlacedCommand{
		command.PlacedAdd(0, []byte("xy")),
		command.PlacedCopy(0, 2, 5),
	}

	out, err := apply.Placed(r, placed, 7)
	require.NoError(t, err)
	require.Equal(t, []byte("xyABCDE"), out)
}

func TestPlaced_DstOutOfRange(t *testing.T) {
	placed := []command.PlacedCommand{command.PlacedAdd(5, []byte("ab"))}

	_, err := apply.Placed(nil, placed, 5)
	require.ErrorIs(t, err, apply.ErrMalformedDelta)
}

func TestPlaced_SrcOutOfRange(t *testing.T) {
	placed := []command.PlacedCommand{command.PlacedCopy(8, 0, 4)}

	_, err := apply.Placed([]byte("short"), placed, 4)
	require.ErrorIs(t, err, apply.ErrMalformedDelta)
}

func TestPlacedInplace_OverlappingForwardMove(t *testing.T) {
	r := []byte("ABCDEFGHIJ")
	// dst > src: classic forward-overlap memmove case.
	placed := []command.PlacedCommand{command.PlacedCopy(0, 3, 7)}

	out, err := apply.PlacedInplace(r, placed, 10)
	require.NoError(t, err)
	require.Equal(t, []byte("ABCABCDEFG"), out)
}

func TestPlacedInplace_OverlappingBackwardMove(t *testing.T) {
	r := []byte("ABCDEFGHIJ")
	// dst < src: classic backward-overlap memmove case.
	placed := []command.PlacedCommand{command.PlacedCopy(3, 0, 7)}

	out, err := apply.PlacedInplace(r, placed, 10)
	require.NoError(t, err)
	require.Equal(t, []byte("DEFGHIJHIJ"), out)
}

func TestPlacedInplace_GrowsBufferPastReferenceSize(t *testing.T) {
	r := []byte("AB")
	placed := []command.PlacedCommand{
		command.PlacedCopy(0, 0, 2),
		command.PlacedAdd(2, []byte("CDE")),
	}

	out, err := apply.PlacedInplace(r, placed, 5)
	require.NoError(t, err)
	require.Equal(t, []byte("ABCDE"), out)
}

func TestPlacedInplace_AddLengthMismatch(t *testing.T) {
	placed := []command.PlacedCommand{
		{Kind: command.KindAdd, Dst: 0, Length: 3, Data: []byte("ab")},
	}

	_, err := apply.PlacedInplace(nil, placed, 3)
	require.ErrorIs(t, err, apply.ErrMalformedDelta)
}
