package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeQuantity(t *testing.T) {
	// Single-unit assets collapse any nonzero request to one unit.
	require.Equal(t, uint64(0), NormalizeQuantity(ClassSingleUnit, 0))
	require.Equal(t, uint64(1), NormalizeQuantity(ClassSingleUnit, 1))
	require.Equal(t, uint64(1), NormalizeQuantity(ClassSingleUnit, 5))
	require.Equal(t, uint64(1), NormalizeQuantity(ClassSingleUnit, math.MaxUint64))

	// Multi-unit requests pass through untouched.
	require.Equal(t, uint64(0), NormalizeQuantity(ClassMultiUnit, 0))
	require.Equal(t, uint64(7), NormalizeQuantity(ClassMultiUnit, 7))
}

func TestMulPrice(t *testing.T) {
	total, ok := MulPrice(4, 100)
	require.True(t, ok)
	require.Equal(t, uint64(400), total)

	_, ok = MulPrice(math.MaxUint64, 2)
	require.False(t, ok)

	total, ok = MulPrice(0, math.MaxUint64)
	require.True(t, ok)
	require.Equal(t, uint64(0), total)
}

func TestFungibilityClassValid(t *testing.T) {
	require.True(t, ClassSingleUnit.Valid())
	require.True(t, ClassMultiUnit.Valid())
	require.False(t, FungibilityClass(0).Valid())
	require.False(t, FungibilityClass(3).Valid())
}
