package store

import (
	"context"
	"sync"

	"github.com/example/freshmart/pkg/catalog"
)

// MemoryStore keeps carts and sessions in plain process-local maps. Event
// handling is strictly sequential, but the ops gateway reads from another
// goroutine, so access is guarded anyway.
type MemoryStore struct {
	mu       sync.RWMutex
	catalog  *catalog.Catalog
	carts    map[int64]Cart
	sessions map[int64]Session
}

func NewMemoryStore(cat *catalog.Catalog) *MemoryStore {
	return &MemoryStore{
		catalog:  cat,
		carts:    make(map[int64]Cart),
		sessions: make(map[int64]Session),
	}
}

func (m *MemoryStore) AddItem(_ context.Context, customerID int64, itemName string) (Line, error) {
	item, ok := m.catalog.Find(itemName)
	if !ok {
		return Line{}, ErrItemNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cart := m.carts[customerID]
	if cart == nil {
		cart = make(Cart)
		m.carts[customerID] = cart
	}

	line, ok := cart[itemName]
	if ok {
		line.Quantity++
	} else {
		line = Line{
			Item:     item.Name,
			Price:    item.Price,
			Unit:     item.Unit,
			Quantity: 1,
		}
	}
	cart[itemName] = line
	return line, nil
}

func (m *MemoryStore) Cart(_ context.Context, customerID int64) (Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.carts[customerID].Clone(), nil
}

func (m *MemoryStore) ClearCart(_ context.Context, customerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, customerID)
	return nil
}

func (m *MemoryStore) Session(_ context.Context, customerID int64) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[customerID], nil
}

func (m *MemoryStore) SetSession(_ context.Context, customerID int64, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[customerID] = s
	return nil
}
