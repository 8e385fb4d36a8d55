package market

// The marketplace never holds assets or currency itself: custody checks and
// transfers are delegated to external collaborators behind these interfaces.
// Each call receives the transaction's StateView so implementations backed
// by the marketplace store (standalone mode, tests) participate in the
// transaction's atomicity; remote implementations may ignore the view and
// abort the enclosing transaction by returning an error.

// Authorizer answers the listing policy predicates.
type Authorizer interface {
	// MayList reports whether the account may create listings.
	MayList(view StateView, account Address) (bool, error)

	// AssetEligible reports whether the asset collection may be listed.
	AssetEligible(view StateView, collection string) (bool, error)
}

// AssetCustody observes and commands the external asset registry.
type AssetCustody interface {
	// OwnsAndApproved reports whether owner currently holds quantity units
	// of the asset and has approved the marketplace to transfer them.
	OwnsAndApproved(view StateView, owner Address, collection string, item uint64, quantity uint64, class FungibilityClass) (bool, error)

	// Transfer moves quantity units of the asset from one account to
	// another. An error aborts the enclosing transaction.
	Transfer(view StateView, collection string, item uint64, from, to Address, quantity uint64, class FungibilityClass) error
}

// CurrencyLedger observes and commands the external fungible-currency
// ledgers.
type CurrencyLedger interface {
	// BalanceOf returns the holder's balance in the currency.
	BalanceOf(view StateView, holder Address, currency Currency) (uint64, error)

	// Allowance returns how much of the holder's balance the spender may
	// move on the holder's behalf.
	Allowance(view StateView, holder, spender Address, currency Currency) (uint64, error)

	// TransferWithNativeFallback moves amount from one account to another.
	// If currency is the native sentinel and the recipient cannot accept
	// raw native value, the wrapped currency is used instead.
	TransferWithNativeFallback(view StateView, currency Currency, from, to Address, amount uint64, wrapper Currency) error
}

// RoyaltySource looks up the royalty terms for a sale. The lookup is best
// effort: callers wrap it in a failure boundary and treat any error (or
// panic) as "no royalty".
type RoyaltySource interface {
	RoyaltyInfo(view StateView, collection string, item uint64, salePrice uint64) (Address, uint64, error)
}

// Collaborators bundles the external interfaces the engine consumes.
type Collaborators struct {
	Authorizer Authorizer
	Custody    AssetCustody
	Currency   CurrencyLedger
	Royalty    RoyaltySource
}
