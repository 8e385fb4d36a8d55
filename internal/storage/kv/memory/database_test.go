package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geomarket/geomarketd/internal/storage/kv"
)

func TestReadWriteDelete(t *testing.T) {
	ctx := context.Background()
	db := NewDB()

	_, err := db.Read(ctx, []byte("missing"))
	require.ErrorIs(t, err, kv.ErrKeyNotFound)

	require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))
	got, err := db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	require.NoError(t, db.Delete(ctx, []byte("k")))
	_, err = db.Read(ctx, []byte("k"))
	require.ErrorIs(t, err, kv.ErrKeyNotFound)
}

func TestBatchIsAtomicOrder(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	require.NoError(t, db.Write(ctx, []byte("drop"), []byte("x")))

	err := db.Batch(ctx, []kv.BatchOperation{
		{Type: kv.BatchPut, Key: []byte("a"), Value: []byte("1")},
		{Type: kv.BatchDelete, Key: []byte("drop")},
		{Type: kv.BatchPut, Key: []byte("a"), Value: []byte("2")},
	})
	require.NoError(t, err)

	got, err := db.Read(ctx, []byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), got)
	_, err = db.Read(ctx, []byte("drop"))
	require.ErrorIs(t, err, kv.ErrKeyNotFound)
}

func TestIteratorRange(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	for _, k := range []string{"a/1", "a/2", "a/3", "b/1"} {
		require.NoError(t, db.Write(ctx, []byte(k), []byte(k)))
	}

	iter, err := db.Iterator(ctx, []byte("a/"), []byte("a0"))
	require.NoError(t, err)
	defer iter.Close()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	require.Equal(t, []string{"a/1", "a/2", "a/3"}, keys)
}
