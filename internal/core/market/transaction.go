package market

import (
	"errors"
	"sync"
)

// Type identifies a market transaction type.
type Type string

const (
	TypeListingCreate  Type = "ListingCreate"
	TypeListingUpdate  Type = "ListingUpdate"
	TypeListingCancel  Type = "ListingCancel"
	TypeOfferSubmit    Type = "OfferSubmit"
	TypeBuy            Type = "Buy"
	TypeOfferAccept    Type = "OfferAccept"
	TypeSetPlatformFee Type = "SetPlatformFee"
	TypeSetMetadataURI Type = "SetMetadataURI"
)

// Tx is a market transaction. Validate performs stateless preflight checks;
// Apply runs against the transaction's tracked state view and returns a
// result code. A non-OK result discards every change made through the view.
type Tx interface {
	TxType() Type
	Account() Address
	AttachedValue() uint64
	Validate() error
	Apply(ctx *ApplyContext) Result
}

// BaseTx carries the fields common to every market transaction: the calling
// account and any native value attached to the call.
type BaseTx struct {
	From  Address `json:"from"`
	Value uint64  `json:"value,omitempty"`
}

// Account returns the calling account.
func (b *BaseTx) Account() Address {
	return b.From
}

// AttachedValue returns the native value attached to the submission.
func (b *BaseTx) AttachedValue() uint64 {
	return b.Value
}

// Validate checks the common fields.
func (b *BaseTx) Validate() error {
	if b.From == "" {
		return errors.New("missing from account")
	}
	return nil
}

// Factory constructs an empty transaction of a registered type, ready to be
// decoded from a submission payload.
type Factory func() Tx

var (
	registryMu sync.RWMutex
	registry   = make(map[Type]Factory)
)

// Register registers a transaction factory for a type. Called from init() in
// the transaction family packages.
func Register(t Type, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t] = factory
}

// NewTx returns an empty transaction of the given type.
func NewTx(t Type) (Tx, bool) {
	registryMu.RLock()
	factory, ok := registry[t]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// RegisteredTypes returns the registered transaction type names.
func RegisteredTypes() []Type {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	return types
}
