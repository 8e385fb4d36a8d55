package market

// NormalizeQuantity enforces the fungibility-class invariant: single-unit
// assets carry quantity 1 regardless of the requested amount, so any nonzero
// request collapses to 1. Multi-unit requests pass through. A zero result
// means the request was invalid.
func NormalizeQuantity(class FungibilityClass, requested uint64) uint64 {
	if class == ClassSingleUnit {
		if requested == 0 {
			return 0
		}
		return 1
	}
	return requested
}
