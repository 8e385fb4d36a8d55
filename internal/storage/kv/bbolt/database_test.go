package bbolt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geomarket/geomarketd/internal/storage/kv"
)

func TestManagerRoundtrip(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(t.TempDir())
	defer manager.Close()

	db, err := manager.OpenDB("market")
	require.NoError(t, err)

	_, err = db.Read(ctx, []byte("missing"))
	require.ErrorIs(t, err, kv.ErrKeyNotFound)

	err = db.Batch(ctx, []kv.BatchOperation{
		{Type: kv.BatchPut, Key: []byte("a"), Value: []byte("1")},
		{Type: kv.BatchPut, Key: []byte("b"), Value: []byte("2")},
		{Type: kv.BatchDelete, Key: []byte("a")},
	})
	require.NoError(t, err)

	_, err = db.Read(ctx, []byte("a"))
	require.ErrorIs(t, err, kv.ErrKeyNotFound)
	got, err := db.Read(ctx, []byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), got)
}
