package container_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"godelta/internal/command"
	"godelta/internal/container"
)

func samplePlaced() []command.PlacedCommand {
	return []command.PlacedCommand{
		command.PlacedAdd(0, []byte("hi")),
		command.PlacedCopy(10, 2, 5),
		command.PlacedAdd(7, []byte{}),
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	placed := samplePlaced()

	for _, inplace := range []bool{false, true} {
		data := container.Encode(placed, inplace, 42)

		gotPlaced, gotInplace, gotSize, err := container.Decode(data)
		require.NoError(t, err)
		require.Equal(t, inplace, gotInplace)
		require.EqualValues(t, 42, gotSize)

		if diff := cmp.Diff(placed, gotPlaced); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestEncodeDecode_EmptyCommandList(t *testing.T) {
	data := container.Encode(nil, false, 0)

	placed, inplace, size, err := container.Decode(data)
	require.NoError(t, err)
	require.False(t, inplace)
	require.EqualValues(t, 0, size)
	require.Empty(t, placed)
}

func TestIsInplaceDelta(t *testing.T) {
	for _, inplace := range []bool{false, true} {
		data := container.Encode(nil, inplace, 0)
		require.Equal(t, inplace, container.IsInplaceDelta(data))
	}
}

func TestDecode_FramingFailures(t *testing.T) {
	valid := container.Encode(samplePlaced(), false, 42)

	cases := map[string][]byte{
		"short header":        valid[:3],
		"bad magic":           append([]byte{'X', 'L', 'T', 0x01}, valid[4:]...),
		"truncated command":   valid[:len(valid)-1],
		"unknown command tag": append(append([]byte{}, valid[:9]...), 0x7f),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := container.Decode(data)
			require.ErrorIs(t, err, container.ErrFraming)
		})
	}
}

func TestDecode_TruncatedAddPayload(t *testing.T) {
	placed := []command.PlacedCommand{command.PlacedAdd(0, []byte("hello world"))}
	data := container.Encode(placed, false, 11)

	_, _, _, err := container.Decode(data[:len(data)-5])
	require.ErrorIs(t, err, container.ErrFraming)
}

func FuzzDecode_NeverPanics(f *testing.F) {
	f.Add(container.Encode(samplePlaced(), true, 42))
	f.Add([]byte{})
	f.Add([]byte{'D', 'L', 'T', 0x01, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _, _, _ = container.Decode(data) //nolint:dogsled
	})
}
