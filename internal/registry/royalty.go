package registry

import (
	"fmt"
	"math/bits"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// RoyaltyTable answers royalty lookups from per-collection terms kept in
// the store. A collection with no terms configured is a lookup error; the
// settlement path treats that as "no royalty".
type RoyaltyTable struct{}

func royaltyKey(collection string) []byte {
	return append([]byte("rg/r/"), collection...)
}

// SetRoyalty records the royalty terms for a collection.
func (t *RoyaltyTable) SetRoyalty(view market.StateView, collection string, recipient market.Address, bps uint64) error {
	data, err := market.EncodeRecord(&market.FeeInfo{Recipient: recipient, Bps: bps})
	if err != nil {
		return err
	}
	return view.Set(royaltyKey(collection), data)
}

func (t *RoyaltyTable) RoyaltyInfo(view market.StateView, collection string, item uint64, salePrice uint64) (market.Address, uint64, error) {
	data, err := view.Get(royaltyKey(collection))
	if err != nil {
		return "", 0, err
	}
	if data == nil {
		return "", 0, fmt.Errorf("no royalty terms for collection %s", collection)
	}
	var info market.FeeInfo
	if err := market.DecodeRecord(data, &info); err != nil {
		return "", 0, err
	}
	if info.Bps > market.MaxFeeBps {
		return "", 0, fmt.Errorf("royalty terms out of range for collection %s", collection)
	}
	hi, lo := bits.Mul64(salePrice, info.Bps)
	amount, _ := bits.Div64(hi, lo, market.MaxFeeBps)
	return info.Recipient, amount, nil
}
