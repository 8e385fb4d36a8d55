package market

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingRoyaltySource struct {
	calls     int
	recipient Address
	amount    uint64
	err       error
}

func (s *countingRoyaltySource) RoyaltyInfo(view StateView, collection string, item uint64, salePrice uint64) (Address, uint64, error) {
	s.calls++
	if s.err != nil {
		return "", 0, s.err
	}
	return s.recipient, s.amount, nil
}

func TestRoyaltyCacheMemoizes(t *testing.T) {
	source := &countingRoyaltySource{recipient: "creator", amount: 50}
	cached, err := NewCachingRoyaltySource(source, 16)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		recipient, amount, err := cached.RoyaltyInfo(nil, "tickets", 1, 1000)
		require.NoError(t, err)
		require.Equal(t, Address("creator"), recipient)
		require.Equal(t, uint64(50), amount)
	}
	require.Equal(t, 1, source.calls)

	// A different sale price is a different entry.
	_, _, err = cached.RoyaltyInfo(nil, "tickets", 1, 2000)
	require.NoError(t, err)
	require.Equal(t, 2, source.calls)
}

func TestRoyaltyCacheDoesNotCacheFailures(t *testing.T) {
	source := &countingRoyaltySource{err: errors.New("unconfigured")}
	cached, err := NewCachingRoyaltySource(source, 16)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err := cached.RoyaltyInfo(nil, "tickets", 1, 1000)
		require.Error(t, err)
	}
	require.Equal(t, 2, source.calls)
}

func TestRoyaltyCacheInvalidateCollection(t *testing.T) {
	source := &countingRoyaltySource{recipient: "creator", amount: 50}
	cached, err := NewCachingRoyaltySource(source, 16)
	require.NoError(t, err)

	_, _, err = cached.RoyaltyInfo(nil, "tickets", 1, 1000)
	require.NoError(t, err)
	_, _, err = cached.RoyaltyInfo(nil, "posters", 1, 1000)
	require.NoError(t, err)
	require.Equal(t, 2, source.calls)

	// Terms change for one collection.
	source.amount = 75
	cached.InvalidateCollection("tickets")

	_, amount, err := cached.RoyaltyInfo(nil, "tickets", 1, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(75), amount)
	require.Equal(t, 3, source.calls)

	// The other collection's entry survived.
	_, amount, err = cached.RoyaltyInfo(nil, "posters", 1, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(50), amount)
	require.Equal(t, 3, source.calls)
}
