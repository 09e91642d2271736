package inplace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"godelta/internal/command"
	"godelta/internal/inplace"
)

// applyInplace is a minimal reference apply used only by these tests to
// check round-trip correctness of MakeInplace's output (the real
// apply.ApplyPlacedInplace is exercised end to end elsewhere).
func applyInplace(r []byte, placed []command.PlacedCommand, versionSize int) []byte {
	size := len(r)
	if versionSize > size {
		size = versionSize
	}

	buf := make([]byte, size)
	copy(buf, r)

	for _, p := range placed {
		if p.Kind == command.KindAdd {
			copy(buf[p.Dst:int(p.Dst)+len(p.Data)], p.Data)
			continue
		}

		// Overlap-safe move, equivalent to memmove.
		src := buf[p.Src : p.Src+p.Length]
		tmp := make([]byte, len(src))
		copy(tmp, src)
		copy(buf[p.Dst:int(p.Dst)+len(tmp)], tmp)
	}

	return buf[:versionSize]
}

func totalAddBytes(placed []command.PlacedCommand) int {
	n := 0
	for _, p := range placed {
		if p.Kind == command.KindAdd {
			n += len(p.Data)
		}
	}

	return n
}

func TestMakeInplace_NoCyclesRoundTrips(t *testing.T) {
	r := []byte("ABCDEFGHIJ")
	cmds := []command.Command{
		command.Copy(5, 5), // FGHIJ
		command.Copy(0, 5), // ABCDE
	}

	v := []byte("FGHIJABCDE")

	for _, policy := range []inplace.Policy{inplace.LocalMin, inplace.Constant} {
		placed := inplace.MakeInplace(r, cmds, policy)
		require.Equal(t, v, applyInplace(r, placed, len(v)), "policy %v", policy)
	}
}

func TestMakeInplace_ReverseBlockCycleRoundTrips(t *testing.T) {
	// A full byte-for-byte swap of two equal-size blocks is a classic
	// CRWI cycle: the copy writing block A's destination reads from
	// where block B currently sits, and vice versa.
	a := []byte("AAAAAAAAAA")
	b := []byte("BBBBBBBBBB")
	r := append(append([]byte(nil), a...), b...)
	v := append(append([]byte(nil), b...), a...)

	cmds := []command.Command{
		command.Copy(10, 10), // B -> dst 0
		command.Copy(0, 10),  // A -> dst 10
	}

	for _, policy := range []inplace.Policy{inplace.LocalMin, inplace.Constant} {
		placed := inplace.MakeInplace(r, cmds, policy)
		require.Equal(t, v, applyInplace(r, placed, len(v)), "policy %v", policy)
	}
}

func TestMakeInplace_PolicyOrdering(t *testing.T) {
	a := []byte("AAAAAAAAAA")
	b := []byte("BBBBBBBBBB")
	r := append(append([]byte(nil), a...), b...)

	cmds := []command.Command{
		command.Copy(10, 10),
		command.Copy(0, 10),
	}

	localMin := inplace.MakeInplace(r, cmds, inplace.LocalMin)
	constant := inplace.MakeInplace(r, cmds, inplace.Constant)

	require.LessOrEqual(t, totalAddBytes(localMin), totalAddBytes(constant))
}

func TestMakeInplace_EmptyCommands(t *testing.T) {
	placed := inplace.MakeInplace(nil, nil, inplace.LocalMin)
	require.Empty(t, placed)
}
