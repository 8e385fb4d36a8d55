package compression

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	require.Contains(t, Available(), "none")
	require.Contains(t, Available(), "lz4")

	_, err := Get("zstd")
	require.Error(t, err)
}

func TestLZ4Roundtrip(t *testing.T) {
	comp, err := Get("lz4")
	require.NoError(t, err)

	// Highly compressible data.
	data := bytes.Repeat([]byte("marketplace"), 1000)
	packed, err := comp.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(packed), len(data))

	unpacked, err := comp.Decompress(packed)
	require.NoError(t, err)
	require.Equal(t, data, unpacked)
}

func TestLZ4IncompressibleStoredRaw(t *testing.T) {
	comp, err := Get("lz4")
	require.NoError(t, err)

	data := make([]byte, 512)
	_, err = rand.Read(data)
	require.NoError(t, err)

	packed, err := comp.Compress(data)
	require.NoError(t, err)
	unpacked, err := comp.Decompress(packed)
	require.NoError(t, err)
	require.Equal(t, data, unpacked)
}

func TestLZ4EmptyValue(t *testing.T) {
	comp, err := Get("lz4")
	require.NoError(t, err)

	packed, err := comp.Compress(nil)
	require.NoError(t, err)
	unpacked, err := comp.Decompress(packed)
	require.NoError(t, err)
	require.Empty(t, unpacked)
}
