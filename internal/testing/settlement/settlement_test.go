package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geomarket/geomarketd/internal/core/market"
	mtest "github.com/geomarket/geomarketd/internal/testing"
)

const (
	alice    = market.Address("alice")
	bob      = market.Address("bob")
	platform = market.Address("platform")
	creator  = market.Address("creator")
	usd      = market.Currency("USD")
)

// feeEnv builds an environment with a 250 bps platform fee and a 500 bps
// royalty on the tickets collection.
func feeEnv(t *testing.T) *mtest.TestEnv {
	env := mtest.NewTestEnvConfig(t, market.EngineConfig{
		Operator:            mtest.Operator,
		NativeWrapper:       mtest.Wrapper,
		GraceSeconds:        mtest.GraceSeconds,
		DefaultFeeRecipient: platform,
		DefaultFeeBps:       250,
	})
	env.SetRoyalty("tickets", creator, 500)
	return env
}

func TestBuySplitsProceeds(t *testing.T) {
	env := feeEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	res := env.Submit(env.Buy(bob, id, 4, 100))
	mtest.RequireTxSuccess(t, res)
	sale := mtest.RequireEvent(t, res, market.NewSale{}.EventType()).(market.NewSale)
	require.Equal(t, uint64(400), sale.TotalPrice)
	require.Equal(t, uint64(4), sale.Quantity)

	// 400 total: 10 platform (250 bps), 20 royalty (500 bps), 370 seller.
	mtest.RequireBalance(t, env, platform, usd, 10)
	mtest.RequireBalance(t, env, creator, usd, 20)
	mtest.RequireBalance(t, env, alice, usd, 370)
	mtest.RequireBalance(t, env, bob, usd, 600)

	mtest.RequireHolding(t, env, bob, "tickets", 1, 4)
	mtest.RequireHolding(t, env, alice, "tickets", 1, 6)
	require.Equal(t, uint64(6), env.Listing(id).Quantity)
}

func TestBuyExhaustsListing(t *testing.T) {
	env := feeEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	mtest.RequireTxSuccess(t, env.Submit(env.Buy(bob, id, 10, 100)))
	mtest.RequireHolding(t, env, bob, "tickets", 1, 10)

	// A sold-out listing stays in storage at quantity zero, unbuyable,
	// until the owner cancels it.
	require.NotNil(t, env.Listing(id))
	require.Zero(t, env.Listing(id).Quantity)
	mtest.RequireTxFail(t, env.Submit(env.Buy(bob, id, 1, 100)), market.ResultInvalidQuantity)
}

func TestBuyForRecipient(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	buy := env.Buy(bob, id, 3, 100)
	buy.Recipient = market.Address("carol")
	res := env.Submit(buy)
	mtest.RequireTxSuccess(t, res)

	// Bob pays, carol receives.
	mtest.RequireBalance(t, env, bob, usd, 700)
	mtest.RequireHolding(t, env, market.Address("carol"), "tickets", 1, 3)
	mtest.RequireHolding(t, env, bob, "tickets", 1, 0)

	sale := mtest.RequireEvent(t, res, market.NewSale{}.EventType()).(market.NewSale)
	require.Equal(t, market.Address("carol"), sale.Buyer)
}

func TestBuyPriceMismatch(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	for _, expected := range []uint64{0, 99, 101} {
		mtest.RequireTxFail(t, env.Submit(env.Buy(bob, id, 1, expected)), market.ResultPriceMismatch)
	}

	// A restated currency must match the listing; empty accepts the
	// posted one.
	buy := env.Buy(bob, id, 1, 100)
	buy.ExpectedCurrency = mtest.Wrapper
	mtest.RequireTxFail(t, env.Submit(buy), market.ResultPriceMismatch)
	buy.ExpectedCurrency = usd
	mtest.RequireTxSuccess(t, env.Submit(buy))

	mtest.RequireTxSuccess(t, env.Submit(env.Buy(bob, id, 1, 100)))
}

func TestBuyQuantityBounds(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 10000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	mtest.RequireTxFail(t, env.Submit(env.Buy(bob, id, 0, 100)), market.ResultInvalidQuantity)
	mtest.RequireTxFail(t, env.Submit(env.Buy(bob, id, 11, 100)), market.ResultInvalidQuantity)
}

func TestBuySingleUnitTakesExactQuantity(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 7, 1)
	env.Fund(bob, usd, 1000)

	res := env.Submit(env.CreateSingleListing(alice, "tickets", 7, 100, usd))
	mtest.RequireTxSuccess(t, res)
	id := mtest.RequireEvent(t, res, market.ListingAdded{}.EventType()).(market.ListingAdded).ListingID
	env.Advance(time.Second)

	// Asking for more than the single listed unit is rejected, never
	// collapsed down to one.
	mtest.RequireTxFail(t, env.Submit(env.Buy(bob, id, 5, 100)), market.ResultInvalidQuantity)
	mtest.RequireTxSuccess(t, env.Submit(env.Buy(bob, id, 1, 100)))
}

func TestBuyOutsideSaleWindow(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	env.Advance(25 * time.Hour)
	mtest.RequireTxFail(t, env.Submit(env.Buy(bob, id, 1, 100)), market.ResultOutsideSaleWindow)
}

func TestBuyOwnListingRejected(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(alice, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	mtest.RequireTxFail(t, env.Submit(env.Buy(alice, id, 1, 100)), market.ResultNotAuthorized)
}

func TestBuyNativeRequiresExactValue(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, market.CurrencyNative, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, market.CurrencyNative)

	buy := env.Buy(bob, id, 2, 100)
	mtest.RequireTxFail(t, env.Submit(buy), market.ResultValueMismatch)

	buy.Value = 199
	mtest.RequireTxFail(t, env.Submit(buy), market.ResultValueMismatch)

	buy.Value = 200
	mtest.RequireTxSuccess(t, env.Submit(buy))
	mtest.RequireBalance(t, env, alice, market.CurrencyNative, 200)
}

func TestBuyValueOnNonNativeListing(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	buy := env.Buy(bob, id, 1, 100)
	buy.Value = 100
	mtest.RequireTxFail(t, env.Submit(buy), market.ResultUnexpectedValue)
}

func TestBuyFailureRollsBackEverything(t *testing.T) {
	env := feeEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 100) // covers one unit, not four
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	mtest.RequireTxFail(t, env.Submit(env.Buy(bob, id, 4, 100)), market.ResultInsufficientFunds)

	// Nothing moved: the funds check rejects the sale before any payout.
	mtest.RequireBalance(t, env, bob, usd, 100)
	mtest.RequireBalance(t, env, platform, usd, 0)
	mtest.RequireBalance(t, env, creator, usd, 0)
	mtest.RequireBalance(t, env, alice, usd, 0)
	mtest.RequireHolding(t, env, alice, "tickets", 1, 10)
	require.Equal(t, uint64(10), env.Listing(id).Quantity)
}

func TestBuyStaleCustody(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	// The asset moves out from under the listing.
	require.NoError(t, env.Assets.Transfer(env.View(), "tickets", 1, alice, market.Address("dave"), 8, market.ClassMultiUnit))

	mtest.RequireTxFail(t, env.Submit(env.Buy(bob, id, 4, 100)), market.ResultInsufficientCustody)
	mtest.RequireTxSuccess(t, env.Submit(env.Buy(bob, id, 2, 100)))
}

func TestAcceptOfferSettlesAtOfferTerms(t *testing.T) {
	env := feeEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	// Bob offers below the listed price; alice takes it.
	mtest.RequireTxSuccess(t, env.Submit(env.SubmitOffer(bob, id, 4, 80, usd)))
	res := env.Submit(env.Accept(alice, id, bob))
	mtest.RequireTxSuccess(t, res)
	sale := mtest.RequireEvent(t, res, market.NewSale{}.EventType()).(market.NewSale)
	require.Equal(t, uint64(320), sale.TotalPrice)

	// 320 total: 8 platform, 16 royalty, 296 seller.
	mtest.RequireBalance(t, env, platform, usd, 8)
	mtest.RequireBalance(t, env, creator, usd, 16)
	mtest.RequireBalance(t, env, alice, usd, 296)
	mtest.RequireBalance(t, env, bob, usd, 680)
	mtest.RequireHolding(t, env, bob, "tickets", 1, 4)

	require.Nil(t, env.Offer(id, bob))
	require.Equal(t, uint64(6), env.Listing(id).Quantity)
}

func TestAcceptOnlyListingOwner(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)
	mtest.RequireTxSuccess(t, env.Submit(env.SubmitOffer(bob, id, 1, 80, usd)))

	mtest.RequireTxFail(t, env.Submit(env.Accept(bob, id, bob)), market.ResultNotOwner)
	mtest.RequireTxFail(t, env.Submit(env.Accept(alice, id, market.Address("carol"))), market.ResultNotFound)
}

func TestAcceptRestatedTermsMustMatch(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)
	mtest.RequireTxSuccess(t, env.Submit(env.SubmitOffer(bob, id, 4, 80, usd)))

	// Alice accepts at terms the standing offer no longer carries.
	accept := env.Accept(alice, id, bob)
	accept.ExpectedPricePerUnit = 90
	mtest.RequireTxFail(t, env.Submit(accept), market.ResultPriceMismatch)
	require.NotNil(t, env.Offer(id, bob))

	accept.ExpectedPricePerUnit = 80
	accept.ExpectedCurrency = mtest.Wrapper
	mtest.RequireTxFail(t, env.Submit(accept), market.ResultPriceMismatch)
	require.NotNil(t, env.Offer(id, bob))

	accept.ExpectedCurrency = usd
	mtest.RequireTxSuccess(t, env.Submit(accept))
}

func TestAcceptExpiredOfferFails(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	offer := env.SubmitOffer(bob, id, 1, 80, usd)
	offer.Expiration = env.Now() + 60
	mtest.RequireTxSuccess(t, env.Submit(offer))

	env.Advance(2 * time.Minute)
	mtest.RequireTxFail(t, env.Submit(env.Accept(alice, id, bob)), market.ResultOfferExpired)

	// A failed acceptance never removes the offer, expired or not. The
	// record lingers, unacceptable, until the offeror replaces it.
	require.NotNil(t, env.Offer(id, bob))
}

func TestAcceptFailureKeepsOfferIntact(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 400)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)
	mtest.RequireTxSuccess(t, env.Submit(env.SubmitOffer(bob, id, 4, 100, usd)))

	// Bob's funds leave between offer and acceptance.
	require.NoError(t, env.Ledger.TransferWithNativeFallback(env.View(), usd, bob, market.Address("dave"), 350, mtest.Wrapper))

	mtest.RequireTxFail(t, env.Submit(env.Accept(alice, id, bob)), market.ResultInsufficientFunds)

	// Rollback restored the offer the acceptance had removed.
	require.NotNil(t, env.Offer(id, bob))
	require.Equal(t, uint64(10), env.Listing(id).Quantity)
	mtest.RequireHolding(t, env, alice, "tickets", 1, 10)
}

func TestAcceptQuantityExceedsRemaining(t *testing.T) {
	env := mtest.NewTestEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	env.Fund(market.Address("carol"), usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	mtest.RequireTxSuccess(t, env.Submit(env.SubmitOffer(bob, id, 5, 90, usd)))
	mtest.RequireTxSuccess(t, env.Submit(env.Buy(market.Address("carol"), id, 8, 100)))

	mtest.RequireTxFail(t, env.Submit(env.Accept(alice, id, bob)), market.ResultInvalidQuantity)
	require.NotNil(t, env.Offer(id, bob))
}

func TestRoyaltyLookupFailureMeansNoRoyalty(t *testing.T) {
	// Platform fee configured, but no royalty terms for the collection:
	// the failed lookup costs the sale nothing.
	env := mtest.NewTestEnvConfig(t, market.EngineConfig{
		Operator:            mtest.Operator,
		NativeWrapper:       mtest.Wrapper,
		GraceSeconds:        mtest.GraceSeconds,
		DefaultFeeRecipient: platform,
		DefaultFeeBps:       250,
	})
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	mtest.RequireTxSuccess(t, env.Submit(env.Buy(bob, id, 4, 100)))
	mtest.RequireBalance(t, env, platform, usd, 10)
	mtest.RequireBalance(t, env, alice, usd, 390)
}

func TestRoyaltyUpdateAppliesToNextSale(t *testing.T) {
	env := feeEnv(t)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	// First sale warms the royalty cache at this sale price.
	mtest.RequireTxSuccess(t, env.Submit(env.Buy(bob, id, 1, 100)))
	mtest.RequireBalance(t, env, creator, usd, 5)

	// Doubling the royalty must reach the very next sale, not a cached
	// copy of the old terms.
	env.SetRoyalty("tickets", creator, 1000)
	mtest.RequireTxSuccess(t, env.Submit(env.Buy(bob, id, 1, 100)))
	mtest.RequireBalance(t, env, creator, usd, 15)
}

func TestFeesExceedPrice(t *testing.T) {
	env := mtest.NewTestEnvConfig(t, market.EngineConfig{
		Operator:            mtest.Operator,
		NativeWrapper:       mtest.Wrapper,
		GraceSeconds:        mtest.GraceSeconds,
		DefaultFeeRecipient: platform,
		DefaultFeeBps:       500,
	})
	env.SetRoyalty("tickets", creator, market.MaxFeeBps)
	env.MintAsset(alice, "tickets", 1, 10)
	env.Fund(bob, usd, 1000)
	id := env.MustCreateListing(alice, "tickets", 1, 10, 100, usd)

	mtest.RequireTxFail(t, env.Submit(env.Buy(bob, id, 1, 100)), market.ResultFeesExceedPrice)
}
