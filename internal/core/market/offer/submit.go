// Package offer implements third-party offers against existing listings.
package offer

import (
	"errors"

	"github.com/geomarket/geomarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeOfferSubmit, func() market.Tx { return &Submit{} })
}

// Submit places (or replaces) an offer by the sender against a listing.
// A later offer by the same offeror on the same listing overwrites the
// earlier one; the listing owner accepts at their discretion.
type Submit struct {
	market.BaseTx

	ListingID    uint64          `json:"listing_id"`
	Quantity     uint64          `json:"quantity"`
	Currency     market.Currency `json:"currency"`
	PricePerUnit uint64          `json:"price_per_unit"`
	Expiration   uint64          `json:"expiration,omitempty"`
	LocationCode string          `json:"location_code"`
}

func (s *Submit) TxType() market.Type {
	return market.TypeOfferSubmit
}

func (s *Submit) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.ListingID == 0 {
		return errors.New("missing listing id")
	}
	return nil
}

func (s *Submit) Apply(ctx *market.ApplyContext) market.Result {
	offeror := s.Account()
	if s.AttachedValue() != 0 {
		return market.ResultUnexpectedValue
	}

	record, code := market.LoadListing(ctx.View, s.ListingID)
	if !code.OK() {
		return code
	}
	if record.Owner == offeror {
		return market.ResultNotAuthorized
	}
	if !record.ActiveAt(ctx.Now) {
		return market.ResultListingInactive
	}

	quantity := market.NormalizeQuantity(record.Class, s.Quantity)
	if quantity == 0 || quantity > record.Quantity {
		return market.ResultInsufficientListedQuantity
	}

	if s.Expiration != 0 && s.Expiration <= ctx.Now {
		return market.ResultOfferExpired
	}

	if !market.ValidLocationCode(s.LocationCode) {
		return market.ResultInvalidLocationCode
	}

	total, ok := market.MulPrice(quantity, s.PricePerUnit)
	if !ok {
		return market.ResultPriceMismatch
	}

	// A native-denominated offer is held in the wrapper currency so the
	// eventual settlement works against a normal ledger balance.
	currency := s.Currency
	if currency == market.CurrencyNative {
		currency = ctx.Config.NativeWrapper
	}

	if code := market.PayerCanCover(ctx, offeror, currency, total); !code.OK() {
		return code
	}

	record2 := market.Offer{
		ListingID:    s.ListingID,
		Offeror:      offeror,
		Quantity:     quantity,
		Currency:     currency,
		PricePerUnit: s.PricePerUnit,
		Expiration:   s.Expiration,
		LocationCode: s.LocationCode,
	}
	if code := market.StoreOffer(ctx.View, &record2); !code.OK() {
		return code
	}

	ctx.Emit(market.NewOffer{
		ListingID:    s.ListingID,
		Collection:   record.Collection,
		Offeror:      offeror,
		Quantity:     quantity,
		Currency:     currency,
		PricePerUnit: s.PricePerUnit,
		TotalOffered: total,
		Expiration:   s.Expiration,
	})
	return market.ResultOK
}
