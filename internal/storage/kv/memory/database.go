package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/geomarket/geomarketd/internal/storage/kv"
)

// DB is an in-memory kv.DB, used by tests and standalone mode.
type DB struct {
	mu     sync.RWMutex
	items  map[string][]byte
	closed bool
}

func NewDB() *DB {
	return &DB{items: make(map[string][]byte)}
}

func (m *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, kv.ErrDBClosed
	}
	value, ok := m.items[string(key)]
	if !ok {
		return nil, kv.ErrKeyNotFound
	}
	valCopy := make([]byte, len(value))
	copy(valCopy, value)
	return valCopy, nil
}

func (m *DB) Write(ctx context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return kv.ErrDBClosed
	}
	valCopy := make([]byte, len(value))
	copy(valCopy, value)
	m.items[string(key)] = valCopy
	return nil
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return kv.ErrDBClosed
	}
	delete(m.items, string(key))
	return nil
}

func (m *DB) Batch(ctx context.Context, ops []kv.BatchOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return kv.ErrDBClosed
	}
	for _, op := range ops {
		switch op.Type {
		case kv.BatchPut:
			valCopy := make([]byte, len(op.Value))
			copy(valCopy, op.Value)
			m.items[string(op.Key)] = valCopy
		case kv.BatchDelete:
			delete(m.items, string(op.Key))
		}
	}
	return nil
}

func (m *DB) Iterator(ctx context.Context, start, end []byte) (kv.Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, kv.ErrDBClosed
	}

	keys := make([]string, 0, len(m.items))
	for key := range m.items {
		if start != nil && bytes.Compare([]byte(key), start) < 0 {
			continue
		}
		if end != nil && bytes.Compare([]byte(key), end) >= 0 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		value := m.items[key]
		valCopy := make([]byte, len(value))
		copy(valCopy, value)
		entries = append(entries, entry{key: []byte(key), value: valCopy})
	}
	return &Iterator{entries: entries, pos: -1}, nil
}

// Close marks the database closed.
func (m *DB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.items = nil
	return nil
}

type entry struct {
	key, value []byte
}

type Iterator struct {
	entries []entry
	pos     int
}

func (it *Iterator) Next() bool {
	if it.pos+1 >= len(it.entries) {
		return false
	}
	it.pos++
	return true
}

func (it *Iterator) Key() []byte {
	return it.entries[it.pos].key
}

func (it *Iterator) Value() []byte {
	return it.entries[it.pos].value
}

func (it *Iterator) Error() error { return nil }

func (it *Iterator) Close() error { return nil }
