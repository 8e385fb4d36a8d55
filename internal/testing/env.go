package testing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/geomarket/geomarketd/internal/core/market"
	"github.com/geomarket/geomarketd/internal/registry"
	"github.com/geomarket/geomarketd/internal/storage/kv/memory"

	_ "github.com/geomarket/geomarketd/internal/core/market/admin"
	_ "github.com/geomarket/geomarketd/internal/core/market/listing"
	_ "github.com/geomarket/geomarketd/internal/core/market/offer"
	_ "github.com/geomarket/geomarketd/internal/core/market/settle"
)

// Operator is the marketplace account in every test environment.
const Operator = market.Address("operator")

// Wrapper is the wrapped native currency in every test environment.
const Wrapper = market.Currency("WNATIVE")

// GraceSeconds is the listing start grace window in every test environment.
const GraceSeconds = 900

// TestEnv manages an in-memory market environment: an engine over a memory
// store with the store-backed registries as collaborators. Seeding methods
// write directly to the store; transactions go through Submit.
type TestEnv struct {
	t       *testing.T
	clock   *ManualClock
	engine  *market.Engine
	royalty *market.CachingRoyaltySource

	Authz     *registry.Authorizer
	Assets    *registry.AssetRegistry
	Ledger    *registry.CurrencyLedger
	Royalties *registry.RoyaltyTable
}

// NewTestEnv creates a test environment with an open listing policy and no
// platform fee.
func NewTestEnv(t *testing.T) *TestEnv {
	return NewTestEnvConfig(t, market.EngineConfig{
		Operator:      Operator,
		NativeWrapper: Wrapper,
		GraceSeconds:  GraceSeconds,
	})
}

// NewTestEnvConfig creates a test environment with the given engine
// configuration.
func NewTestEnvConfig(t *testing.T, config market.EngineConfig) *TestEnv {
	t.Helper()

	store := memory.NewDB()
	clock := NewManualClock()

	env := &TestEnv{
		t:         t,
		clock:     clock,
		Authz:     &registry.Authorizer{Open: true},
		Assets:    &registry.AssetRegistry{Operator: config.Operator},
		Ledger:    &registry.CurrencyLedger{},
		Royalties: &registry.RoyaltyTable{},
	}
	royalty, err := market.NewCachingRoyaltySource(env.Royalties, 256)
	if err != nil {
		t.Fatalf("royalty cache: %v", err)
	}
	env.royalty = royalty
	env.engine = market.NewEngine(store, config, clock, market.Collaborators{
		Authorizer: env.Authz,
		Custody:    env.Assets,
		Currency:   env.Ledger,
		Royalty:    env.royalty,
	}, nil)
	return env
}

// Engine returns the underlying engine.
func (env *TestEnv) Engine() *market.Engine {
	return env.engine
}

// Submit applies one transaction.
func (env *TestEnv) Submit(t market.Tx) market.SubmitResult {
	return env.engine.Submit(context.Background(), t)
}

// Now returns the current environment time as a unix timestamp.
func (env *TestEnv) Now() uint64 {
	return uint64(env.clock.Now().Unix())
}

// Advance moves the environment clock forward.
func (env *TestEnv) Advance(d time.Duration) {
	env.clock.Advance(d)
}

// View returns an untracked view over the store, for seeding and checks.
func (env *TestEnv) View() market.StateView {
	return env.engine.View(context.Background())
}

// MintAsset credits quantity units of an asset to an owner and approves the
// marketplace operator to move them.
func (env *TestEnv) MintAsset(owner market.Address, collection string, item uint64, quantity uint64) {
	env.t.Helper()
	view := env.View()
	if err := env.Assets.Mint(view, owner, collection, item, quantity); err != nil {
		env.t.Fatalf("mint %s/%d for %s: %v", collection, item, owner, err)
	}
	if err := env.Assets.SetApproval(view, owner, collection, Operator, true); err != nil {
		env.t.Fatalf("approve %s for %s: %v", collection, owner, err)
	}
}

// Fund credits currency to an account and grants the marketplace an
// unbounded allowance over it, so funded accounts can pay without a
// separate approval step.
func (env *TestEnv) Fund(holder market.Address, currency market.Currency, amount uint64) {
	env.t.Helper()
	view := env.View()
	if err := env.Ledger.Credit(view, holder, currency, amount); err != nil {
		env.t.Fatalf("fund %s with %d %s: %v", holder, amount, currency, err)
	}
	if err := env.Ledger.SetAllowance(view, holder, Operator, currency, math.MaxUint64); err != nil {
		env.t.Fatalf("approve spending for %s in %s: %v", holder, currency, err)
	}
}

// SetRoyalty configures the royalty terms for a collection and drops any
// cached splits for it.
func (env *TestEnv) SetRoyalty(collection string, recipient market.Address, bps uint64) {
	env.t.Helper()
	if err := env.Royalties.SetRoyalty(env.View(), collection, recipient, bps); err != nil {
		env.t.Fatalf("set royalty for %s: %v", collection, err)
	}
	env.royalty.InvalidateCollection(collection)
}

// Listing reads a listing, nil when absent.
func (env *TestEnv) Listing(id uint64) *market.Listing {
	env.t.Helper()
	l, err := env.engine.GetListing(context.Background(), id)
	if err != nil {
		env.t.Fatalf("read listing %d: %v", id, err)
	}
	return l
}

// Offer reads the offer for (listing, offeror), nil when absent.
func (env *TestEnv) Offer(listingID uint64, offeror market.Address) *market.Offer {
	env.t.Helper()
	o, code := market.LoadOffer(env.View(), listingID, offeror)
	switch code {
	case market.ResultOK:
		return o
	case market.ResultNotFound:
		return nil
	default:
		env.t.Fatalf("read offer %d/%s: %s", listingID, offeror, code)
		return nil
	}
}

// Balance returns an account's currency balance.
func (env *TestEnv) Balance(holder market.Address, currency market.Currency) uint64 {
	env.t.Helper()
	balance, err := env.Ledger.BalanceOf(env.View(), holder, currency)
	if err != nil {
		env.t.Fatalf("read balance %s/%s: %v", holder, currency, err)
	}
	return balance
}

// Holding returns how many units of an asset the owner holds.
func (env *TestEnv) Holding(owner market.Address, collection string, item uint64) uint64 {
	env.t.Helper()
	held, err := env.Assets.Holding(env.View(), owner, collection, item)
	if err != nil {
		env.t.Fatalf("read holding %s/%s/%d: %v", owner, collection, item, err)
	}
	return held
}
