package testing

import (
	"time"

	"github.com/geomarket/geomarketd/internal/core/market"
	"github.com/geomarket/geomarketd/internal/core/market/listing"
	"github.com/geomarket/geomarketd/internal/core/market/offer"
	"github.com/geomarket/geomarketd/internal/core/market/settle"
)

// Location is a valid location code for tests that don't care about the
// geography.
const Location = "P11ABCDEFGH"

// CreateListing builds a multi-unit listing starting now and open for a
// day.
func (env *TestEnv) CreateListing(owner market.Address, collection string, item uint64, quantity, price uint64, currency market.Currency) *listing.Create {
	return &listing.Create{
		BaseTx:          market.BaseTx{From: owner},
		Collection:      collection,
		Item:            item,
		StartTime:       env.Now(),
		DurationSeconds: uint64(24 * time.Hour / time.Second),
		Quantity:        quantity,
		Currency:        currency,
		PricePerUnit:    price,
		LocationCode:    Location,
		Class:           market.ClassMultiUnit,
	}
}

// CreateSingleListing builds a single-unit listing starting now and open
// for a day.
func (env *TestEnv) CreateSingleListing(owner market.Address, collection string, item uint64, price uint64, currency market.Currency) *listing.Create {
	c := env.CreateListing(owner, collection, item, 1, price, currency)
	c.Class = market.ClassSingleUnit
	return c
}

// SubmitOffer builds an offer against a listing.
func (env *TestEnv) SubmitOffer(offeror market.Address, listingID uint64, quantity, price uint64, currency market.Currency) *offer.Submit {
	return &offer.Submit{
		BaseTx:       market.BaseTx{From: offeror},
		ListingID:    listingID,
		Quantity:     quantity,
		Currency:     currency,
		PricePerUnit: price,
		LocationCode: Location,
	}
}

// Buy builds a direct purchase at the given expected price.
func (env *TestEnv) Buy(buyer market.Address, listingID uint64, quantity, expectedPrice uint64) *settle.Buy {
	return &settle.Buy{
		BaseTx:               market.BaseTx{From: buyer},
		ListingID:            listingID,
		Quantity:             quantity,
		ExpectedPricePerUnit: expectedPrice,
	}
}

// Accept builds an offer acceptance.
func (env *TestEnv) Accept(owner market.Address, listingID uint64, offeror market.Address) *settle.Accept {
	return &settle.Accept{
		BaseTx:    market.BaseTx{From: owner},
		ListingID: listingID,
		Offeror:   offeror,
	}
}

// MustCreateListing submits a default listing and returns its id. The
// clock advances one second so the sale window is open on return.
func (env *TestEnv) MustCreateListing(owner market.Address, collection string, item uint64, quantity, price uint64, currency market.Currency) uint64 {
	env.t.Helper()
	res := env.Submit(env.CreateListing(owner, collection, item, quantity, price, currency))
	RequireTxSuccess(env.t, res)
	added := RequireEvent(env.t, res, market.ListingAdded{}.EventType()).(market.ListingAdded)
	env.Advance(time.Second)
	return added.ListingID
}
