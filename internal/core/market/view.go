package market

import (
	"context"
	"errors"

	"github.com/geomarket/geomarketd/internal/storage/kv"
)

// StateView provides read/write access to marketplace state. Get returns
// nil for absent keys. Within a transaction the view is an overlay that
// tracks every change so a failed apply leaves the base store untouched.
type StateView interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

type action int

const (
	actionCache action = iota
	actionInsert
	actionModify
	actionErase
)

type trackedEntry struct {
	action   action
	original []byte
	current  []byte
}

// stateTable overlays a base store and tracks all modifications, similar to
// an apply-state table: nothing reaches the base until ops() is committed as
// a single batch.
type stateTable struct {
	ctx   context.Context
	base  kv.DB
	items map[string]*trackedEntry
}

func newStateTable(ctx context.Context, base kv.DB) *stateTable {
	return &stateTable{
		ctx:   ctx,
		base:  base,
		items: make(map[string]*trackedEntry),
	}
}

func (t *stateTable) load(key []byte) (*trackedEntry, error) {
	if entry, ok := t.items[string(key)]; ok {
		return entry, nil
	}
	data, err := t.base.Read(t.ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entry := &trackedEntry{action: actionCache, original: data, current: data}
	t.items[string(key)] = entry
	return entry, nil
}

func (t *stateTable) Get(key []byte) ([]byte, error) {
	entry, err := t.load(key)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.action == actionErase {
		return nil, nil
	}
	return entry.current, nil
}

func (t *stateTable) Has(key []byte) (bool, error) {
	data, err := t.Get(key)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

func (t *stateTable) Set(key, value []byte) error {
	entry, err := t.load(key)
	if err != nil {
		return err
	}
	if entry == nil {
		t.items[string(key)] = &trackedEntry{action: actionInsert, current: value}
		return nil
	}
	switch entry.action {
	case actionInsert:
		entry.current = value
	case actionErase:
		if entry.original == nil {
			entry.action = actionInsert
		} else {
			entry.action = actionModify
		}
		entry.current = value
	default:
		entry.action = actionModify
		entry.current = value
	}
	return nil
}

func (t *stateTable) Delete(key []byte) error {
	entry, err := t.load(key)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	if entry.action == actionInsert && entry.original == nil {
		// Inserted within this transaction; forget it entirely.
		delete(t.items, string(key))
		return nil
	}
	entry.action = actionErase
	entry.current = nil
	return nil
}

// ops returns the batch that commits all tracked changes to the base store.
func (t *stateTable) ops() []kv.BatchOperation {
	var ops []kv.BatchOperation
	for key, entry := range t.items {
		switch entry.action {
		case actionInsert, actionModify:
			ops = append(ops, kv.BatchOperation{
				Type:  kv.BatchPut,
				Key:   []byte(key),
				Value: entry.current,
			})
		case actionErase:
			ops = append(ops, kv.BatchOperation{
				Type: kv.BatchDelete,
				Key:  []byte(key),
			})
		}
	}
	return ops
}

// storeView is a StateView directly over the base store, used outside of
// transactions (query paths, standalone seeding).
type storeView struct {
	ctx  context.Context
	base kv.DB
}

// NewStoreView returns a StateView that reads and writes the store directly,
// with no transactional tracking.
func NewStoreView(ctx context.Context, base kv.DB) StateView {
	return &storeView{ctx: ctx, base: base}
}

func (v *storeView) Get(key []byte) ([]byte, error) {
	data, err := v.base.Read(v.ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (v *storeView) Has(key []byte) (bool, error) {
	data, err := v.Get(key)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

func (v *storeView) Set(key, value []byte) error {
	return v.base.Write(v.ctx, key, value)
}

func (v *storeView) Delete(key []byte) error {
	return v.base.Delete(v.ctx, key)
}
