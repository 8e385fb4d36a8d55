package settle

import (
	"errors"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// Accept settles a listing against one of its outstanding offers. Only
// the listing owner may accept, and the offer's terms are revalidated at
// acceptance time: expiration, remaining quantity, and the offeror's
// funds are checked now, not when the offer was submitted.
type Accept struct {
	market.BaseTx

	ListingID uint64         `json:"listing_id"`
	Offeror   market.Address `json:"offeror"`

	// ExpectedCurrency and ExpectedPricePerUnit, when set, must match the
	// standing offer. They protect the owner against accepting an offer
	// the offeror silently replaced with worse terms.
	ExpectedCurrency     market.Currency `json:"expected_currency,omitempty"`
	ExpectedPricePerUnit uint64          `json:"expected_price_per_unit,omitempty"`
}

func (a *Accept) TxType() market.Type {
	return market.TypeOfferAccept
}

func (a *Accept) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	if a.ListingID == 0 {
		return errors.New("missing listing id")
	}
	if a.Offeror == "" {
		return errors.New("missing offeror")
	}
	return nil
}

func (a *Accept) Apply(ctx *market.ApplyContext) market.Result {
	if a.AttachedValue() != 0 {
		return market.ResultUnexpectedValue
	}

	record, code := market.LoadListing(ctx.View, a.ListingID)
	if !code.OK() {
		return code
	}
	if record.Owner != a.Account() {
		return market.ResultNotOwner
	}

	offer, code := market.LoadOffer(ctx.View, a.ListingID, a.Offeror)
	if !code.OK() {
		return code
	}

	if offer.Expiration != 0 && offer.Expiration <= ctx.Now {
		return market.ResultOfferExpired
	}

	if a.ExpectedCurrency != "" && a.ExpectedCurrency != offer.Currency {
		return market.ResultPriceMismatch
	}
	if a.ExpectedPricePerUnit != 0 && a.ExpectedPricePerUnit != offer.PricePerUnit {
		return market.ResultPriceMismatch
	}

	total, ok := market.MulPrice(offer.Quantity, offer.PricePerUnit)
	if !ok {
		return market.ResultPriceMismatch
	}

	// Remove the offer before settling. A settlement failure rolls the
	// whole transaction back, so the offer reappears untouched.
	if err := ctx.View.Delete(market.OfferKey(a.ListingID, a.Offeror)); err != nil {
		return market.ResultInternal
	}

	return executeSale(ctx, record, offer.Offeror, offer.Offeror, offer.Quantity, offer.Currency, total, 0)
}
