package market

import "math/bits"

// Address identifies an account in the marketplace. Addresses are opaque
// strings; validity beyond non-emptiness is the platform's concern.
type Address string

// Currency identifies a fungible currency ledger. The native sentinel is
// rewritten to the configured wrapped currency wherever raw native value
// cannot be used (offers, outbound payouts to wrap-only recipients).
type Currency string

// CurrencyNative is the sentinel for the platform's native currency.
const CurrencyNative Currency = "native"

// FungibilityClass describes whether a listed asset is a unique single-unit
// item or a multi-unit balance.
type FungibilityClass uint8

const (
	// ClassSingleUnit assets always carry quantity 1.
	ClassSingleUnit FungibilityClass = iota + 1
	// ClassMultiUnit assets carry an arbitrary positive quantity.
	ClassMultiUnit
)

// Valid reports whether the class is one of the known fungibility classes.
func (c FungibilityClass) Valid() bool {
	return c == ClassSingleUnit || c == ClassMultiUnit
}

func (c FungibilityClass) String() string {
	switch c {
	case ClassSingleUnit:
		return "single-unit"
	case ClassMultiUnit:
		return "multi-unit"
	default:
		return "unknown"
	}
}

// MulPrice multiplies a quantity by a per-unit price, reporting overflow.
func MulPrice(quantity, pricePerUnit uint64) (uint64, bool) {
	hi, lo := bits.Mul64(quantity, pricePerUnit)
	if hi != 0 {
		return 0, false
	}
	return lo, true
}

// mulDiv computes value * num / den without intermediate overflow.
// den must be nonzero and the quotient must fit in 64 bits; callers bound
// num <= den so the quotient never exceeds value.
func mulDiv(value, num, den uint64) uint64 {
	hi, lo := bits.Mul64(value, num)
	quo, _ := bits.Div64(hi, lo, den)
	return quo
}
