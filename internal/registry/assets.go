package registry

import (
	"encoding/binary"
	"fmt"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// AssetRegistry is a store-backed asset custodian. It tracks per-owner
// holdings of (collection, item) assets and per-collection operator
// approvals. Operator is the marketplace account holdings must be
// approved for before the registry will move them on a sale.
type AssetRegistry struct {
	Operator market.Address
}

func holdingKey(collection string, item uint64, owner market.Address) []byte {
	key := make([]byte, 0, 8+len(collection)+8+len(owner))
	key = append(key, "rg/n/"...)
	key = append(key, collection...)
	key = append(key, '/')
	key = binary.BigEndian.AppendUint64(key, item)
	key = append(key, '/')
	key = append(key, owner...)
	return key
}

func approvalKey(collection string, owner, operator market.Address) []byte {
	key := make([]byte, 0, 8+len(collection)+len(owner)+len(operator))
	key = append(key, "rg/ap/"...)
	key = append(key, collection...)
	key = append(key, '/')
	key = append(key, owner...)
	key = append(key, '/')
	key = append(key, operator...)
	return key
}

func readUint64(view market.StateView, key []byte) (uint64, error) {
	data, err := view.Get(key)
	if err != nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(data), nil
}

func writeUint64(view market.StateView, key []byte, value uint64) error {
	if value == 0 {
		return view.Delete(key)
	}
	return view.Set(key, binary.BigEndian.AppendUint64(nil, value))
}

// Mint credits quantity units of an asset to an owner.
func (r *AssetRegistry) Mint(view market.StateView, owner market.Address, collection string, item uint64, quantity uint64) error {
	key := holdingKey(collection, item, owner)
	held, err := readUint64(view, key)
	if err != nil {
		return err
	}
	return writeUint64(view, key, held+quantity)
}

// SetApproval grants or revokes an operator's right to move the owner's
// holdings in a collection.
func (r *AssetRegistry) SetApproval(view market.StateView, owner market.Address, collection string, operator market.Address, approved bool) error {
	key := approvalKey(collection, owner, operator)
	if !approved {
		return view.Delete(key)
	}
	return view.Set(key, []byte{1})
}

// Holding returns how many units of the asset the owner holds.
func (r *AssetRegistry) Holding(view market.StateView, owner market.Address, collection string, item uint64) (uint64, error) {
	return readUint64(view, holdingKey(collection, item, owner))
}

func (r *AssetRegistry) OwnsAndApproved(view market.StateView, owner market.Address, collection string, item uint64, quantity uint64, class market.FungibilityClass) (bool, error) {
	held, err := readUint64(view, holdingKey(collection, item, owner))
	if err != nil {
		return false, err
	}
	if held < quantity {
		return false, nil
	}
	return view.Has(approvalKey(collection, owner, r.Operator))
}

func (r *AssetRegistry) Transfer(view market.StateView, collection string, item uint64, from, to market.Address, quantity uint64, class market.FungibilityClass) error {
	approved, err := view.Has(approvalKey(collection, from, r.Operator))
	if err != nil {
		return err
	}
	if !approved {
		return fmt.Errorf("asset transfer not approved: %s by %s", collection, from)
	}

	fromKey := holdingKey(collection, item, from)
	held, err := readUint64(view, fromKey)
	if err != nil {
		return err
	}
	if held < quantity {
		return fmt.Errorf("insufficient holding: %s/%d has %d, want %d", collection, item, held, quantity)
	}
	if err := writeUint64(view, fromKey, held-quantity); err != nil {
		return err
	}

	toKey := holdingKey(collection, item, to)
	received, err := readUint64(view, toKey)
	if err != nil {
		return err
	}
	return writeUint64(view, toKey, received+quantity)
}
