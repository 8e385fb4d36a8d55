package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// RequireTxSuccess asserts that a submission was applied.
func RequireTxSuccess(t *testing.T, res market.SubmitResult) {
	t.Helper()
	require.Equal(t, market.ResultOK, res.Code,
		"expected transaction success, got %s (err: %v)", res.Code, res.Err)
}

// RequireTxFail asserts that a submission failed with the expected code.
func RequireTxFail(t *testing.T, res market.SubmitResult, expected market.Result) {
	t.Helper()
	require.Equal(t, expected, res.Code,
		"expected result %s, got %s (err: %v)", expected, res.Code, res.Err)
}

// RequireBalance asserts an account's currency balance.
func RequireBalance(t *testing.T, env *TestEnv, holder market.Address, currency market.Currency, expected uint64) {
	t.Helper()
	require.Equal(t, expected, env.Balance(holder, currency),
		"balance mismatch for %s in %s", holder, currency)
}

// RequireHolding asserts an account's asset holding.
func RequireHolding(t *testing.T, env *TestEnv, owner market.Address, collection string, item uint64, expected uint64) {
	t.Helper()
	require.Equal(t, expected, env.Holding(owner, collection, item),
		"holding mismatch for %s in %s/%d", owner, collection, item)
}

// RequireEvent asserts that a submission published an event of the given
// type and returns it.
func RequireEvent(t *testing.T, res market.SubmitResult, eventType string) market.Event {
	t.Helper()
	for _, env := range res.Events {
		if env.Type == eventType {
			return env.Event
		}
	}
	require.Failf(t, "missing event", "no %s event published (got %d events)", eventType, len(res.Events))
	return nil
}
