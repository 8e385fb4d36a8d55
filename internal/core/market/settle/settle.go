// Package settle implements the two entry points into atomic settlement:
// a direct buy against a listing, and the owner accepting an offer. Both
// converge on a single sale routine so the payout and custody semantics
// cannot drift apart.
package settle

import (
	"github.com/geomarket/geomarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeBuy, func() market.Tx { return &Buy{} })
	market.Register(market.TypeOfferAccept, func() market.Tx { return &Accept{} })
}

// executeSale moves quantity units from the listing's owner to the receiver
// and pays the seller, platform, and royalty recipient out of the payer's
// funds. The caller has already validated the price terms; everything else
// is re-validated here, at settlement time, because the listing and the
// seller's custody can both have changed since the terms were agreed. Any
// failure leaves every touched record exactly as it was.
func executeSale(ctx *market.ApplyContext, record *market.Listing, payer, receiver market.Address, quantity uint64, currency market.Currency, totalPrice uint64, attachedValue uint64) market.Result {
	if code := ctx.BeginSettlement(); !code.OK() {
		return code
	}
	defer ctx.EndSettlement()

	if record.Kind != market.KindDirect {
		return market.ResultNotFound
	}
	if quantity == 0 || quantity > record.Quantity {
		return market.ResultInvalidQuantity
	}
	if !record.ActiveAt(ctx.Now) {
		return market.ResultOutsideSaleWindow
	}

	if currency == market.CurrencyNative {
		if attachedValue != totalPrice {
			return market.ResultValueMismatch
		}
	} else if code := market.PayerCanCover(ctx, payer, currency, totalPrice); !code.OK() {
		return code
	}

	// The seller must still hold and have approved what they listed.
	// Listings go stale when the asset moves out from under them.
	if ok, err := ctx.Custody.OwnsAndApproved(ctx.View, record.Owner, record.Collection, record.Item, quantity, record.Class); err != nil {
		return market.ResultInternal
	} else if !ok {
		return market.ResultInsufficientCustody
	}

	if code := market.DistributeProceeds(ctx, payer, record.Owner, currency, totalPrice, record.Collection, record.Item); !code.OK() {
		return code
	}

	if err := ctx.Custody.Transfer(ctx.View, record.Collection, record.Item, record.Owner, receiver, quantity, record.Class); err != nil {
		return market.ResultInternal
	}

	// Selling out never deletes the record. A listing at quantity zero
	// stays in storage, unbuyable, until the owner cancels it.
	record.Quantity -= quantity
	if code := market.StoreListing(ctx.View, record); !code.OK() {
		return code
	}

	ctx.Emit(market.NewSale{
		ListingID:  record.ID,
		Collection: record.Collection,
		Seller:     record.Owner,
		Buyer:      receiver,
		Quantity:   quantity,
		TotalPrice: totalPrice,
	})
	return market.ResultOK
}
