// Package registry provides collaborator implementations backed by the
// marketplace's own store. They serve standalone deployments and tests;
// production deployments substitute adapters to the real external systems.
// Every method works through the caller's state view, so mutations made
// during a transaction roll back with it.
package registry

import (
	"github.com/geomarket/geomarketd/internal/core/market"
)

// Authorizer gates listing by allow-lists kept in the store. With Open set
// it answers yes to everything, which is the standalone default.
type Authorizer struct {
	Open bool
}

func listerKey(account market.Address) []byte {
	return append([]byte("rg/al/"), account...)
}

func collectionKey(collection string) []byte {
	return append([]byte("rg/ac/"), collection...)
}

// GrantLister adds an account to the lister allow-list.
func (a *Authorizer) GrantLister(view market.StateView, account market.Address) error {
	return view.Set(listerKey(account), []byte{1})
}

// RevokeLister removes an account from the lister allow-list.
func (a *Authorizer) RevokeLister(view market.StateView, account market.Address) error {
	return view.Delete(listerKey(account))
}

// AllowCollection adds a collection to the eligible set.
func (a *Authorizer) AllowCollection(view market.StateView, collection string) error {
	return view.Set(collectionKey(collection), []byte{1})
}

func (a *Authorizer) MayList(view market.StateView, account market.Address) (bool, error) {
	if a.Open {
		return true, nil
	}
	return view.Has(listerKey(account))
}

func (a *Authorizer) AssetEligible(view market.StateView, collection string) (bool, error) {
	if a.Open {
		return true, nil
	}
	return view.Has(collectionKey(collection))
}
