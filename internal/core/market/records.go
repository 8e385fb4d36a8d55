package market

import (
	"github.com/ugorji/go/codec"
)

// ListingKind distinguishes listing flavors. Only fixed-price location
// listings exist today; settlement re-checks the kind so records written by
// a future flavor can never settle through the direct-sale path.
type ListingKind uint8

const (
	KindDirect ListingKind = iota + 1
)

// Listing is a seller's standing offer to sell a fixed quantity of an asset
// at a fixed per-unit price, active within a time window and anchored to a
// location code.
type Listing struct {
	ID           uint64           `codec:"id" json:"id"`
	Owner        Address          `codec:"owner" json:"owner"`
	Collection   string           `codec:"collection" json:"collection"`
	Item         uint64           `codec:"item" json:"item"`
	StartTime    uint64           `codec:"start" json:"start_time"`
	EndTime      uint64           `codec:"end" json:"end_time"`
	Quantity     uint64           `codec:"qty" json:"quantity"`
	Currency     Currency         `codec:"currency" json:"currency"`
	PricePerUnit uint64           `codec:"price" json:"price_per_unit"`
	LocationCode string           `codec:"location" json:"location_code"`
	Class        FungibilityClass `codec:"class" json:"class"`
	Kind         ListingKind      `codec:"kind" json:"kind"`
}

// ActiveAt reports whether the listing's sale window is open at the given
// time. The window is open strictly between start and end.
func (l *Listing) ActiveAt(now uint64) bool {
	return now > l.StartTime && now < l.EndTime
}

// Offer is a prospective buyer's standing bid against a listing. At most one
// offer exists per (listing, offeror) pair; resubmission replaces it.
type Offer struct {
	ListingID    uint64   `codec:"listing" json:"listing_id"`
	Offeror      Address  `codec:"offeror" json:"offeror"`
	Quantity     uint64   `codec:"qty" json:"quantity"`
	Currency     Currency `codec:"currency" json:"currency"`
	PricePerUnit uint64   `codec:"price" json:"price_per_unit"`
	Expiration   uint64   `codec:"expiry" json:"expiration"`
	LocationCode string   `codec:"location" json:"location_code"`
}

// FeeInfo is the platform fee configuration: a recipient and a cut expressed
// in basis points of the total sale price.
type FeeInfo struct {
	Recipient Address `codec:"recipient" json:"recipient"`
	Bps       uint64  `codec:"bps" json:"bps"`
}

// MaxFeeBps bounds the platform fee.
const MaxFeeBps = 10000

var recordHandle codec.MsgpackHandle

// EncodeRecord serializes a stored record as msgpack.
func EncodeRecord(v interface{}) ([]byte, error) {
	var out []byte
	enc := codec.NewEncoderBytes(&out, &recordHandle)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeRecord deserializes a stored record.
func DecodeRecord(data []byte, v interface{}) error {
	dec := codec.NewDecoderBytes(data, &recordHandle)
	return dec.Decode(v)
}

func readListing(view StateView, id uint64) (*Listing, Result) {
	data, err := view.Get(ListingKey(id))
	if err != nil {
		return nil, ResultInternal
	}
	if data == nil {
		return nil, ResultNotFound
	}
	var l Listing
	if err := DecodeRecord(data, &l); err != nil {
		return nil, ResultInternal
	}
	// A record without a collection identifier does not exist.
	if l.Collection == "" {
		return nil, ResultNotFound
	}
	return &l, ResultOK
}

// LoadListing reads a listing through the view. The second return is
// ResultNotFound when the listing is absent.
func LoadListing(view StateView, id uint64) (*Listing, Result) {
	return readListing(view, id)
}

// StoreListing writes a listing through the view.
func StoreListing(view StateView, l *Listing) Result {
	data, err := EncodeRecord(l)
	if err != nil {
		return ResultInternal
	}
	if err := view.Set(ListingKey(l.ID), data); err != nil {
		return ResultInternal
	}
	return ResultOK
}

// LoadOffer reads the offer for (listing, offeror) through the view.
func LoadOffer(view StateView, listingID uint64, offeror Address) (*Offer, Result) {
	data, err := view.Get(OfferKey(listingID, offeror))
	if err != nil {
		return nil, ResultInternal
	}
	if data == nil {
		return nil, ResultNotFound
	}
	var o Offer
	if err := DecodeRecord(data, &o); err != nil {
		return nil, ResultInternal
	}
	return &o, ResultOK
}

// StoreOffer writes (or overwrites) the offer for (listing, offeror).
func StoreOffer(view StateView, o *Offer) Result {
	data, err := EncodeRecord(o)
	if err != nil {
		return ResultInternal
	}
	if err := view.Set(OfferKey(o.ListingID, o.Offeror), data); err != nil {
		return ResultInternal
	}
	return ResultOK
}
