package market

import "encoding/binary"

// Storage key layout. Listings and offers live under fixed prefixes so the
// query paths can range-scan them; metadata singletons live under "m/".
//
//	l/<id BE64>              listing record
//	o/<id BE64>/<offeror>    offer record
//	m/next_listing_id        monotonic id counter (BE64)
//	m/fee_info               platform fee record
//	m/metadata_uri           contract-level metadata URI
var (
	listingPrefix    = []byte("l/")
	offerPrefix      = []byte("o/")
	NextListingIDKey = []byte("m/next_listing_id")
	FeeInfoKey       = []byte("m/fee_info")
	MetadataURIKey   = []byte("m/metadata_uri")
)

// ListingKey returns the storage key for a listing id.
func ListingKey(id uint64) []byte {
	key := make([]byte, 0, len(listingPrefix)+8)
	key = append(key, listingPrefix...)
	return binary.BigEndian.AppendUint64(key, id)
}

// OfferKey returns the storage key for the offer a specific offeror holds
// against a listing.
func OfferKey(listingID uint64, offeror Address) []byte {
	key := make([]byte, 0, len(offerPrefix)+8+1+len(offeror))
	key = append(key, offerPrefix...)
	key = binary.BigEndian.AppendUint64(key, listingID)
	key = append(key, '/')
	return append(key, offeror...)
}

// ListingRange returns the [start, end) key bounds covering all listings.
func ListingRange() (start, end []byte) {
	return keyRange(listingPrefix)
}

// OfferRange returns the [start, end) key bounds covering all offers against
// one listing.
func OfferRange(listingID uint64) (start, end []byte) {
	prefix := make([]byte, 0, len(offerPrefix)+8+1)
	prefix = append(prefix, offerPrefix...)
	prefix = binary.BigEndian.AppendUint64(prefix, listingID)
	prefix = append(prefix, '/')
	return keyRange(prefix)
}

// keyRange converts a prefix into iterator bounds.
func keyRange(prefix []byte) (start, end []byte) {
	start = prefix
	end = make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return start, end[:i+1]
		}
	}
	return start, nil
}

func beBytes(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

func beUint64(data []byte) uint64 {
	return binary.BigEndian.Uint64(data)
}

// ListingIDFromKey extracts the listing id from a listing storage key.
func ListingIDFromKey(key []byte) (uint64, bool) {
	if len(key) != len(listingPrefix)+8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(listingPrefix):]), true
}
