package listing

import (
	"errors"

	"github.com/geomarket/geomarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeListingCreate, func() market.Tx { return &Create{} })
	market.Register(market.TypeListingUpdate, func() market.Tx { return &Update{} })
	market.Register(market.TypeListingCancel, func() market.Tx { return &Cancel{} })
}

// Create lists a fixed quantity of an asset for sale at a fixed per-unit
// price, anchored to a location code.
type Create struct {
	market.BaseTx

	Collection      string                  `json:"collection"`
	Item            uint64                  `json:"item"`
	StartTime       uint64                  `json:"start_time"`
	DurationSeconds uint64                  `json:"duration_seconds"`
	Quantity        uint64                  `json:"quantity"`
	Currency        market.Currency         `json:"currency"`
	PricePerUnit    uint64                  `json:"price_per_unit"`
	LocationCode    string                  `json:"location_code"`
	Class           market.FungibilityClass `json:"class"`
}

func (c *Create) TxType() market.Type {
	return market.TypeListingCreate
}

// Validate performs stateless preflight checks.
func (c *Create) Validate() error {
	if err := c.BaseTx.Validate(); err != nil {
		return err
	}
	if c.Collection == "" {
		return errors.New("missing asset collection")
	}
	if c.DurationSeconds == 0 {
		return errors.New("listing duration must be positive")
	}
	if !c.Class.Valid() {
		return errors.New("unknown fungibility class")
	}
	return nil
}

// Apply creates the listing. Every check runs before any state is written.
func (c *Create) Apply(ctx *market.ApplyContext) market.Result {
	owner := c.Account()

	quantity := market.NormalizeQuantity(c.Class, c.Quantity)
	if quantity == 0 {
		return market.ResultInvalidQuantity
	}

	if ok, err := ctx.Authz.MayList(ctx.View, owner); err != nil {
		return market.ResultInternal
	} else if !ok {
		return market.ResultNotAuthorized
	}
	if ok, err := ctx.Authz.AssetEligible(ctx.View, c.Collection); err != nil {
		return market.ResultInternal
	} else if !ok {
		return market.ResultNotAuthorized
	}

	start, code := ctx.ResolveStartTime(c.StartTime)
	if !code.OK() {
		return code
	}

	if ok, err := ctx.Custody.OwnsAndApproved(ctx.View, owner, c.Collection, c.Item, quantity, c.Class); err != nil {
		return market.ResultInternal
	} else if !ok {
		return market.ResultInsufficientCustody
	}

	if !market.ValidLocationCode(c.LocationCode) {
		return market.ResultInvalidLocationCode
	}

	id, code := ctx.NextListingID()
	if !code.OK() {
		return code
	}

	record := market.Listing{
		ID:           id,
		Owner:        owner,
		Collection:   c.Collection,
		Item:         c.Item,
		StartTime:    start,
		EndTime:      start + c.DurationSeconds,
		Quantity:     quantity,
		Currency:     c.Currency,
		PricePerUnit: c.PricePerUnit,
		LocationCode: c.LocationCode,
		Class:        c.Class,
		Kind:         market.KindDirect,
	}
	if code := market.StoreListing(ctx.View, &record); !code.OK() {
		return code
	}

	ctx.Emit(market.ListingAdded{
		ListingID:  id,
		Collection: c.Collection,
		Owner:      owner,
		Listing:    record,
	})
	return market.ResultOK
}
