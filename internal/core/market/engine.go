package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/geomarket/geomarketd/internal/storage/kv"
)

// Clock supplies the engine's notion of now. Tests substitute a manual
// clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// SubmitResult is the outcome of one submission.
type SubmitResult struct {
	Code Result
	// Err carries detail for Malformed and Internal outcomes.
	Err error
	// Events holds the envelopes published by a committed transaction, in
	// emission order.
	Events []Envelope
}

// Engine applies market transactions against the store, one at a time, each
// all-or-nothing. Many callers may submit concurrently; the engine
// serializes them into a total order.
type Engine struct {
	mu     sync.Mutex
	store  kv.DB
	config EngineConfig
	clock  Clock
	bus    *Bus
	collab Collaborators

	// settling guards against re-entrant settlement within a single
	// invocation. Top-level submissions are already serialized by mu.
	settling bool
}

// NewEngine creates an engine over the given store and collaborators.
func NewEngine(store kv.DB, config EngineConfig, clock Clock, collab Collaborators, bus *Bus) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if bus == nil {
		bus = NewBus()
	}
	return &Engine{
		store:  store,
		config: config,
		clock:  clock,
		collab: collab,
		bus:    bus,
	}
}

// Bus returns the engine's event bus.
func (e *Engine) Bus() *Bus {
	return e.bus
}

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Submit validates and applies one transaction. On success all tracked
// changes commit as a single storage batch and buffered events publish; any
// failure leaves the store untouched.
func (e *Engine) Submit(ctx context.Context, t Tx) SubmitResult {
	if err := t.Validate(); err != nil {
		return SubmitResult{Code: ResultMalformed, Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	table := newStateTable(ctx, e.store)
	now := uint64(e.clock.Now().Unix())
	actx := &ApplyContext{
		View:     table,
		Config:   e.config,
		Now:      now,
		Authz:    e.collab.Authorizer,
		Custody:  e.collab.Custody,
		Currency: e.collab.Currency,
		Royalty:  e.collab.Royalty,
		engine:   e,
	}

	code := t.Apply(actx)
	if !code.OK() {
		return SubmitResult{Code: code}
	}

	if ops := table.ops(); len(ops) > 0 {
		if err := e.store.Batch(ctx, ops); err != nil {
			return SubmitResult{Code: ResultInternal, Err: fmt.Errorf("commit: %w", err)}
		}
	}

	envelopes := make([]Envelope, 0, len(actx.events))
	for _, ev := range actx.events {
		envelopes = append(envelopes, e.bus.Publish(now, ev))
	}
	return SubmitResult{Code: ResultOK, Events: envelopes}
}

// GetListing reads a listing outside of any transaction. Returns nil when
// absent.
func (e *Engine) GetListing(ctx context.Context, id uint64) (*Listing, error) {
	l, code := LoadListing(NewStoreView(ctx, e.store), id)
	switch code {
	case ResultOK:
		return l, nil
	case ResultNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("read listing %d: %s", id, code)
	}
}

// Listings scans listings in id order, starting after the given id,
// returning at most limit records.
func (e *Engine) Listings(ctx context.Context, after uint64, limit int) ([]Listing, error) {
	start, end := ListingRange()
	if after > 0 {
		start = ListingKey(after + 1)
	}
	iter, err := e.store.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Listing
	for iter.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		var l Listing
		if err := DecodeRecord(iter.Value(), &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, iter.Error()
}

// OffersForListing returns every standing offer against a listing.
func (e *Engine) OffersForListing(ctx context.Context, listingID uint64) ([]Offer, error) {
	start, end := OfferRange(listingID)
	iter, err := e.store.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Offer
	for iter.Next() {
		var o Offer
		if err := DecodeRecord(iter.Value(), &o); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, iter.Error()
}

// FeeInfo returns the current platform fee configuration.
func (e *Engine) FeeInfo(ctx context.Context) (FeeInfo, error) {
	info, code := CurrentFeeInfo(NewStoreView(ctx, e.store), e.config)
	if !code.OK() {
		return FeeInfo{}, fmt.Errorf("read fee info: %s", code)
	}
	return info, nil
}

// MetadataURI returns the contract-level metadata URI, empty if unset.
func (e *Engine) MetadataURI(ctx context.Context) (string, error) {
	data, err := NewStoreView(ctx, e.store).Get(MetadataURIKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// View returns an untracked view over the store, for standalone seeding and
// query helpers.
func (e *Engine) View(ctx context.Context) StateView {
	return NewStoreView(ctx, e.store)
}
