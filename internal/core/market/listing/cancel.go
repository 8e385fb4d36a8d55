package listing

import (
	"errors"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// Cancel removes a listing. Outstanding offers against it stay in place
// and are rejected lazily when their owner tries to accept them.
type Cancel struct {
	market.BaseTx

	ListingID uint64 `json:"listing_id"`
}

func (c *Cancel) TxType() market.Type {
	return market.TypeListingCancel
}

func (c *Cancel) Validate() error {
	if err := c.BaseTx.Validate(); err != nil {
		return err
	}
	if c.ListingID == 0 {
		return errors.New("missing listing id")
	}
	return nil
}

func (c *Cancel) Apply(ctx *market.ApplyContext) market.Result {
	record, code := market.LoadListing(ctx.View, c.ListingID)
	if !code.OK() {
		return code
	}
	if record.Owner != c.Account() {
		return market.ResultNotOwner
	}

	if err := ctx.View.Delete(market.ListingKey(c.ListingID)); err != nil {
		return market.ResultInternal
	}

	ctx.Emit(market.ListingRemoved{
		ListingID:  record.ID,
		Collection: record.Collection,
		Owner:      record.Owner,
	})
	return market.ResultOK
}
