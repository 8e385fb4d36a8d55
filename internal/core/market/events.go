package market

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Event is a notification emitted by a committed transaction. Events are
// observational only; nothing in the core reads them back.
type Event interface {
	EventType() string
}

// ListingAdded is emitted when a listing is created.
type ListingAdded struct {
	ListingID  uint64  `json:"listing_id"`
	Collection string  `json:"collection"`
	Owner      Address `json:"owner"`
	Listing    Listing `json:"listing"`
}

func (ListingAdded) EventType() string { return "listing_added" }

// ListingUpdated is emitted when a listing's terms are replaced.
type ListingUpdated struct {
	ListingID  uint64  `json:"listing_id"`
	Collection string  `json:"collection"`
	Owner      Address `json:"owner"`
	Listing    Listing `json:"listing"`
}

func (ListingUpdated) EventType() string { return "listing_updated" }

// ListingRemoved is emitted when a listing is cancelled by its owner.
type ListingRemoved struct {
	ListingID  uint64  `json:"listing_id"`
	Collection string  `json:"collection"`
	Owner      Address `json:"owner"`
}

func (ListingRemoved) EventType() string { return "listing_removed" }

// NewOffer is emitted when an offer is submitted or replaced.
type NewOffer struct {
	ListingID    uint64   `json:"listing_id"`
	Collection   string   `json:"collection"`
	Offeror      Address  `json:"offeror"`
	Quantity     uint64   `json:"quantity"`
	Currency     Currency `json:"currency"`
	PricePerUnit uint64   `json:"price_per_unit"`
	TotalOffered uint64   `json:"total_offered"`
	Expiration   uint64   `json:"expiration"`
}

func (NewOffer) EventType() string { return "new_offer" }

// NewSale is the sale record: emitted on settlement, never persisted by the
// core.
type NewSale struct {
	ListingID  uint64  `json:"listing_id"`
	Collection string  `json:"collection"`
	Seller     Address `json:"seller"`
	Buyer      Address `json:"buyer"`
	Quantity   uint64  `json:"quantity"`
	TotalPrice uint64  `json:"total_price"`
}

func (NewSale) EventType() string { return "new_sale" }

// PlatformFeeUpdated is emitted when the operator changes the platform fee.
type PlatformFeeUpdated struct {
	Recipient Address `json:"recipient"`
	Bps       uint64  `json:"bps"`
}

func (PlatformFeeUpdated) EventType() string { return "platform_fee_updated" }

// Envelope wraps a published event with an id and timestamp.
type Envelope struct {
	ID    string `json:"id"`
	Time  uint64 `json:"time"`
	Type  string `json:"type"`
	Event Event  `json:"event"`
}

// Bus fans committed events out to subscribers. Publishing never blocks the
// engine: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Envelope
	next int
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Envelope)}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// cancel function removes the subscription and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Envelope, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Envelope, buffer)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish wraps the event in an envelope and delivers it to all subscribers.
func (b *Bus) Publish(now uint64, ev Event) Envelope {
	env := Envelope{
		ID:    uuid.NewString(),
		Time:  now,
		Type:  ev.EventType(),
		Event: ev,
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		select {
		case sub <- env:
		default:
			log.Printf("event bus: subscriber full, dropping %s event %s", env.Type, env.ID)
		}
	}
	return env
}
