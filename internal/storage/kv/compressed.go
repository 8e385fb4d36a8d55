package kv

import (
	"context"

	"github.com/geomarket/geomarketd/internal/storage/kv/compression"
)

// compressedDB wraps a DB, compressing values on the way in and
// decompressing on the way out. Keys are never compressed.
type compressedDB struct {
	inner DB
	comp  compression.Compressor
}

// WithCompression wraps a database with a named compressor. The "none"
// compressor returns the database unchanged.
func WithCompression(inner DB, name string) (DB, error) {
	if name == "" || name == "none" {
		return inner, nil
	}
	comp, err := compression.Get(name)
	if err != nil {
		return nil, err
	}
	return &compressedDB{inner: inner, comp: comp}, nil
}

func (c *compressedDB) Read(ctx context.Context, key []byte) ([]byte, error) {
	data, err := c.inner.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	return c.comp.Decompress(data)
}

func (c *compressedDB) Write(ctx context.Context, key, value []byte) error {
	compressed, err := c.comp.Compress(value)
	if err != nil {
		return err
	}
	return c.inner.Write(ctx, key, compressed)
}

func (c *compressedDB) Delete(ctx context.Context, key []byte) error {
	return c.inner.Delete(ctx, key)
}

func (c *compressedDB) Batch(ctx context.Context, ops []BatchOperation) error {
	out := make([]BatchOperation, len(ops))
	for i, op := range ops {
		out[i] = op
		if op.Type == BatchPut {
			compressed, err := c.comp.Compress(op.Value)
			if err != nil {
				return err
			}
			out[i].Value = compressed
		}
	}
	return c.inner.Batch(ctx, out)
}

func (c *compressedDB) Iterator(ctx context.Context, start, end []byte) (Iterator, error) {
	inner, err := c.inner.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &compressedIterator{inner: inner, comp: c.comp}, nil
}

type compressedIterator struct {
	inner Iterator
	comp  compression.Compressor
	value []byte
	err   error
}

func (it *compressedIterator) Next() bool {
	if !it.inner.Next() {
		return false
	}
	value, err := it.comp.Decompress(it.inner.Value())
	if err != nil {
		it.err = err
		return false
	}
	it.value = value
	return true
}

func (it *compressedIterator) Key() []byte   { return it.inner.Key() }
func (it *compressedIterator) Value() []byte { return it.value }

func (it *compressedIterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.inner.Error()
}

func (it *compressedIterator) Close() error { return it.inner.Close() }
