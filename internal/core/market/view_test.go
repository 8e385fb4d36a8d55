package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geomarket/geomarketd/internal/storage/kv"
	"github.com/geomarket/geomarketd/internal/storage/kv/memory"
)

func TestStateTableOverlaysBase(t *testing.T) {
	ctx := context.Background()
	base := memory.NewDB()
	require.NoError(t, base.Write(ctx, []byte("a"), []byte("old")))

	table := newStateTable(ctx, base)

	got, err := table.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("old"), got)

	require.NoError(t, table.Set([]byte("a"), []byte("new")))
	require.NoError(t, table.Set([]byte("b"), []byte("inserted")))
	require.NoError(t, table.Delete([]byte("a")))

	// The overlay sees its own changes.
	got, err = table.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, got)
	ok, err := table.Has([]byte("b"))
	require.NoError(t, err)
	require.True(t, ok)

	// The base is untouched until the batch commits.
	got, err = base.Read(ctx, []byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("old"), got)
	_, err = base.Read(ctx, []byte("b"))
	require.ErrorIs(t, err, kv.ErrKeyNotFound)

	require.NoError(t, base.Batch(ctx, table.ops()))
	_, err = base.Read(ctx, []byte("a"))
	require.ErrorIs(t, err, kv.ErrKeyNotFound)
	got, err = base.Read(ctx, []byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte("inserted"), got)
}

func TestStateTableForgetsInsertThenDelete(t *testing.T) {
	ctx := context.Background()
	base := memory.NewDB()
	table := newStateTable(ctx, base)

	require.NoError(t, table.Set([]byte("tmp"), []byte("x")))
	require.NoError(t, table.Delete([]byte("tmp")))

	// An entry inserted and deleted inside one transaction produces no
	// batch operation at all.
	require.Empty(t, table.ops())
}

func TestStateTableEraseThenSet(t *testing.T) {
	ctx := context.Background()
	base := memory.NewDB()
	require.NoError(t, base.Write(ctx, []byte("k"), []byte("v1")))

	table := newStateTable(ctx, base)
	require.NoError(t, table.Delete([]byte("k")))
	require.NoError(t, table.Set([]byte("k"), []byte("v2")))

	ops := table.ops()
	require.Len(t, ops, 1)
	require.Equal(t, kv.BatchPut, ops[0].Type)
	require.Equal(t, []byte("v2"), ops[0].Value)
}

func TestStateTableCachedReadsProduceNoOps(t *testing.T) {
	ctx := context.Background()
	base := memory.NewDB()
	require.NoError(t, base.Write(ctx, []byte("k"), []byte("v")))

	table := newStateTable(ctx, base)
	_, err := table.Get([]byte("k"))
	require.NoError(t, err)
	require.Empty(t, table.ops())
}
