package diagnostics_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"godelta/internal/diagnostics"
)

func TestLogger_DisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer

	l := diagnostics.New(&buf, false)
	l.Printf("diffing %d bytes", 42)

	require.Empty(t, buf.String())
	require.False(t, l.Enabled())
}

func TestLogger_EnabledWritesPrefixedLine(t *testing.T) {
	var buf bytes.Buffer

	l := diagnostics.New(&buf, true)
	l.Printf("diffing %d bytes", 42)

	require.Equal(t, "[godelta] diffing 42 bytes\n", buf.String())
	require.True(t, l.Enabled())
}
