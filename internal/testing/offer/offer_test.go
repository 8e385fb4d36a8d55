package offer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geomarket/geomarketd/internal/core/market"
	mtest "github.com/geomarket/geomarketd/internal/testing"
)

const (
	alice = market.Address("alice")
	bob   = market.Address("bob")
	carol = market.Address("carol")
	usd   = market.Currency("USD")
)

func TestSubmitStoresOffer(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 5, usd)

	res := env.Submit(env.SubmitOffer(bob, id, 4, 3, usd))
	mtest.RequireTxSuccess(t, res)
	ev := mtest.RequireEvent(t, res, market.NewOffer{}.EventType()).(market.NewOffer)
	require.Equal(t, uint64(12), ev.TotalOffered)

	o := env.Offer(id, bob)
	require.NotNil(t, o)
	require.Equal(t, uint64(4), o.Quantity)
	require.Equal(t, uint64(3), o.PricePerUnit)
	require.Equal(t, usd, o.Currency)
}

func TestSubmitReplacesPreviousOffer(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 5, usd)

	mtest.RequireTxSuccess(t, env.Submit(env.SubmitOffer(bob, id, 4, 3, usd)))
	mtest.RequireTxSuccess(t, env.Submit(env.SubmitOffer(bob, id, 2, 6, usd)))

	o := env.Offer(id, bob)
	require.Equal(t, uint64(2), o.Quantity)
	require.Equal(t, uint64(6), o.PricePerUnit)

	// Offers from different accounts coexist.
	env.Fund(carol, usd, 1000)
	mtest.RequireTxSuccess(t, env.Submit(env.SubmitOffer(carol, id, 1, 7, usd)))
	require.NotNil(t, env.Offer(id, bob))
	require.NotNil(t, env.Offer(id, carol))
}

func TestSubmitInactiveListing(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 5, usd)

	env.Advance(25 * time.Hour)
	mtest.RequireTxFail(t, env.Submit(env.SubmitOffer(bob, id, 1, 5, usd)), market.ResultListingInactive)
}

func TestSubmitChecks(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 10)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 5, usd)

	// Unknown listing.
	mtest.RequireTxFail(t, env.Submit(env.SubmitOffer(bob, id+1, 1, 5, usd)), market.ResultNotFound)

	// Owner bidding on their own listing.
	mtest.RequireTxFail(t, env.Submit(env.SubmitOffer(alice, id, 1, 5, usd)), market.ResultNotAuthorized)

	// More than listed.
	mtest.RequireTxFail(t, env.Submit(env.SubmitOffer(bob, id, 11, 1, usd)), market.ResultInsufficientListedQuantity)

	// Offeror cannot cover the total.
	mtest.RequireTxFail(t, env.Submit(env.SubmitOffer(bob, id, 3, 4, usd)), market.ResultInsufficientFunds)

	// Attached native value on a non-payable operation.
	withValue := env.SubmitOffer(bob, id, 1, 5, usd)
	withValue.Value = 5
	mtest.RequireTxFail(t, env.Submit(withValue), market.ResultUnexpectedValue)

	// Bad location code.
	badLoc := env.SubmitOffer(bob, id, 1, 5, usd)
	badLoc.LocationCode = "nowhere"
	mtest.RequireTxFail(t, env.Submit(badLoc), market.ResultInvalidLocationCode)
}

func TestSubmitExpirationInPast(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 5, usd)

	offer := env.SubmitOffer(bob, id, 1, 5, usd)
	offer.Expiration = env.Now() - 1
	mtest.RequireTxFail(t, env.Submit(offer), market.ResultOfferExpired)

	offer.Expiration = env.Now() + 3600
	mtest.RequireTxSuccess(t, env.Submit(offer))
}

func TestSubmitNativeRewrittenToWrapper(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, mtest.Wrapper, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 5, market.CurrencyNative)

	res := env.Submit(env.SubmitOffer(bob, id, 2, 5, market.CurrencyNative))
	mtest.RequireTxSuccess(t, res)

	// The standing offer is held in the wrapped currency.
	require.Equal(t, mtest.Wrapper, env.Offer(id, bob).Currency)
}
