package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4"
)

// NoCompressor is a pass-through compressor.
type NoCompressor struct{}

func (c *NoCompressor) Name() string {
	return "none"
}

func (c *NoCompressor) Compress(data []byte) ([]byte, error) {
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

func (c *NoCompressor) Decompress(data []byte) ([]byte, error) {
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// LZ4Compressor implements LZ4 block compression. The uncompressed size is
// prepended as a uvarint so decompression can allocate exactly.
type LZ4Compressor struct{}

func (c *LZ4Compressor) Name() string {
	return "lz4"
}

func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	header := binary.AppendUvarint(nil, uint64(len(data)))
	if len(data) == 0 {
		return header, nil
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	size, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if size == 0 || size >= len(data) {
		// Incompressible; store raw with a zero-length marker.
		out := binary.AppendUvarint(header, 0)
		return append(out, data...), nil
	}
	out := binary.AppendUvarint(header, uint64(size))
	return append(out, compressed[:size]...), nil
}

func (c *LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	rawSize, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("lz4: malformed size header")
	}
	data = data[n:]
	if rawSize == 0 {
		return []byte{}, nil
	}

	compSize, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("lz4: malformed block header")
	}
	data = data[n:]
	if compSize == 0 {
		// Stored raw.
		if uint64(len(data)) != rawSize {
			return nil, fmt.Errorf("lz4: raw block size mismatch")
		}
		result := make([]byte, len(data))
		copy(result, data)
		return result, nil
	}

	decompressed := make([]byte, rawSize)
	size, err := lz4.UncompressBlock(data, decompressed)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	return decompressed[:size], nil
}
