package shopping

import (
	"context"
	"fmt"
	"sync"
)

// In-memory collaborators. Used by tests and as seed fixtures; each is safe
// for the one-turn-at-a-time access pattern the dialog core guarantees.

type MemoryCatalog struct {
	Products []Product
}

func (m *MemoryCatalog) ReadAll(ctx context.Context) ([]Product, error) {
	return m.Products, nil
}

type MemoryPromotions struct {
	Promos []Promotion
}

func (m *MemoryPromotions) GetAvailable(ctx context.Context, orderAmount int) ([]Promotion, error) {
	var out []Promotion
	for _, p := range m.Promos {
		if p.OrderThreshold <= orderAmount {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryPromotions) GetAll(ctx context.Context) ([]Promotion, error) {
	return m.Promos, nil
}

type MemorySlots struct {
	Slots []DeliverySlot
}

func (m *MemorySlots) GetAvailable(ctx context.Context) ([]DeliverySlot, error) {
	return m.Slots, nil
}

type MemoryAddresses struct {
	Addresses []Address
}

func (m *MemoryAddresses) List(ctx context.Context) ([]Address, error) {
	return m.Addresses, nil
}

func (m *MemoryAddresses) GetByIndex(ctx context.Context, index int) (*Address, error) {
	if index < 1 || index > len(m.Addresses) {
		return nil, nil
	}
	a := m.Addresses[index-1]
	return &a, nil
}

type MemoryLoyalty struct {
	mu       sync.Mutex
	Balances map[string]int
}

func NewMemoryLoyalty(balances map[string]int) *MemoryLoyalty {
	if balances == nil {
		balances = make(map[string]int)
	}
	return &MemoryLoyalty{Balances: balances}
}

func (m *MemoryLoyalty) Balance(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Balances[userID], nil
}

func (m *MemoryLoyalty) Spend(ctx context.Context, userID string, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance := m.Balances[userID]
	if points > balance {
		return fmt.Errorf("insufficient loyalty balance: have %d, need %d", balance, points)
	}
	m.Balances[userID] = balance - points
	return nil
}

type MemorySessionStore struct {
	mu   sync.Mutex
	Data map[string]map[string]any
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{Data: make(map[string]map[string]any)}
}

func (m *MemorySessionStore) Load(ctx context.Context, userID string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Data[userID], nil
}

func (m *MemorySessionStore) Save(ctx context.Context, userID string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[userID] = data
	return nil
}
