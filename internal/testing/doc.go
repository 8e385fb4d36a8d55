// Package testing provides test infrastructure for market transaction
// testing.
//
// The package provides:
//   - TestEnv: an in-memory market environment with store-backed registries
//   - ManualClock: a controllable clock for time-dependent behavior
//   - Assertions: helpers for common result and balance checks
//
// Basic usage:
//
//	func TestBuy(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//	    env.MintAsset("alice", "tickets", 1, 10)
//	    env.Fund("bob", "USD", 1000)
//
//	    res := env.Submit(&listing.Create{ ... })
//	    testing.RequireTxSuccess(t, res)
//	}
//
// Feature tests live in subpackages (listing, offer, settlement) so each
// area keeps its own helpers.
package testing
