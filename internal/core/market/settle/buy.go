package settle

import (
	"errors"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// Buy purchases units directly from a listing at its posted price. The
// sender restates the per-unit price they expect to pay so a concurrent
// price change by the owner fails the purchase instead of surprising them.
type Buy struct {
	market.BaseTx

	ListingID            uint64 `json:"listing_id"`
	Quantity             uint64 `json:"quantity"`
	ExpectedPricePerUnit uint64 `json:"expected_price_per_unit"`

	// ExpectedCurrency must match the listing's currency when set. Empty
	// means the buyer accepts whatever currency the listing posts; the
	// per-unit price restatement above is always required, so a silent
	// terms change still fails the purchase.
	ExpectedCurrency market.Currency `json:"expected_currency,omitempty"`

	// Recipient optionally receives the asset instead of the sender. The
	// sender still pays.
	Recipient market.Address `json:"recipient,omitempty"`
}

func (b *Buy) TxType() market.Type {
	return market.TypeBuy
}

func (b *Buy) Validate() error {
	if err := b.BaseTx.Validate(); err != nil {
		return err
	}
	if b.ListingID == 0 {
		return errors.New("missing listing id")
	}
	return nil
}

func (b *Buy) Apply(ctx *market.ApplyContext) market.Result {
	buyer := b.Account()

	record, code := market.LoadListing(ctx.View, b.ListingID)
	if !code.OK() {
		return code
	}
	if record.Owner == buyer {
		return market.ResultNotAuthorized
	}

	// The requested quantity is taken literally. A single-unit listing
	// holds quantity one, so asking for more fails the bound check
	// instead of quietly collapsing to one.
	quantity := b.Quantity

	if b.ExpectedPricePerUnit != record.PricePerUnit {
		return market.ResultPriceMismatch
	}
	if b.ExpectedCurrency != "" && b.ExpectedCurrency != record.Currency {
		return market.ResultPriceMismatch
	}

	total, ok := market.MulPrice(quantity, record.PricePerUnit)
	if !ok {
		return market.ResultPriceMismatch
	}

	if record.Currency != market.CurrencyNative && b.AttachedValue() != 0 {
		return market.ResultUnexpectedValue
	}

	receiver := b.Recipient
	if receiver == "" {
		receiver = buyer
	}
	return executeSale(ctx, record, buyer, receiver, quantity, record.Currency, total, b.AttachedValue())
}
