package listing

import (
	"errors"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// Update replaces the mutable fields of an existing listing. Zero-valued
// time fields preserve the current schedule, an empty location code
// preserves the stored one; everything else is taken from the transaction
// as-is.
type Update struct {
	market.BaseTx

	ListingID       uint64          `json:"listing_id"`
	StartTime       uint64          `json:"start_time"`
	DurationSeconds uint64          `json:"duration_seconds"`
	Quantity        uint64          `json:"quantity"`
	Currency        market.Currency `json:"currency"`
	PricePerUnit    uint64          `json:"price_per_unit"`
	LocationCode    string          `json:"location_code"`
}

func (u *Update) TxType() market.Type {
	return market.TypeListingUpdate
}

func (u *Update) Validate() error {
	if err := u.BaseTx.Validate(); err != nil {
		return err
	}
	if u.ListingID == 0 {
		return errors.New("missing listing id")
	}
	return nil
}

func (u *Update) Apply(ctx *market.ApplyContext) market.Result {
	record, code := market.LoadListing(ctx.View, u.ListingID)
	if !code.OK() {
		return code
	}
	if record.Owner != u.Account() {
		return market.ResultNotOwner
	}

	start := record.StartTime
	if u.StartTime != 0 {
		var code market.Result
		start, code = ctx.ResolveStartTime(u.StartTime)
		if !code.OK() {
			return code
		}
	}
	end := record.EndTime
	if u.DurationSeconds != 0 {
		end = start + u.DurationSeconds
	}
	if end <= start {
		return market.ResultInvalidStartTime
	}

	quantity := market.NormalizeQuantity(record.Class, u.Quantity)
	if quantity == 0 {
		return market.ResultInvalidQuantity
	}
	if quantity != record.Quantity {
		if ok, err := ctx.Custody.OwnsAndApproved(ctx.View, record.Owner, record.Collection, record.Item, quantity, record.Class); err != nil {
			return market.ResultInternal
		} else if !ok {
			return market.ResultInsufficientCustody
		}
	}

	// An empty location code preserves the stored one, like the zero
	// time fields preserve the schedule.
	location := record.LocationCode
	if u.LocationCode != "" {
		if !market.ValidLocationCode(u.LocationCode) {
			return market.ResultInvalidLocationCode
		}
		location = u.LocationCode
	}

	record.StartTime = start
	record.EndTime = end
	record.Quantity = quantity
	record.Currency = u.Currency
	record.PricePerUnit = u.PricePerUnit
	record.LocationCode = location
	if code := market.StoreListing(ctx.View, record); !code.OK() {
		return code
	}

	ctx.Emit(market.ListingUpdated{
		ListingID:  record.ID,
		Collection: record.Collection,
		Owner:      record.Owner,
		Listing:    *record,
	})
	return market.ResultOK
}
