package pebble

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

	require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))
	got, err := db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	// Reopening by name returns the same database.
	again, err := manager.OpenDB("market")
	require.NoError(t, err)
	got, err = again.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}

func TestIteratorBounds(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(t.TempDir())
	defer manager.Close()

	db, err := manager.OpenDB("market")
	require.NoError(t, err)
	for _, k := range []string{"l/1", "l/2", "o/1"} {
		require.NoError(t, db.Write(ctx, []byte(k), []byte(k)))
	}

	iter, err := db.Iterator(ctx, []byte("l/"), []byte("l0"))
	require.NoError(t, err)
	defer iter.Close()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	require.Equal(t, []string{"l/1", "l/2"}, keys)
}
