// Package shopping holds the domain records the assistant sells against and
// the collaborator interfaces the dialog core calls out to. The core treats
// every collaborator as external: it never mutates catalog, promotion, slot
// or address data, and the loyalty balance is only ever decremented through
// Spend.
package shopping

import "context"

type Product struct {
	ID         string
	Name       string
	Brand      string
	Price      int
	PromoPrice int // 0 means no promotional price
	Keywords   []string
}

// EffectivePrice is the unit price a cart line is charged at.
func (p Product) EffectivePrice() int {
	if p.PromoPrice > 0 && p.PromoPrice < p.Price {
		return p.PromoPrice
	}
	return p.Price
}

type Promotion struct {
	ID              string
	Name            string
	OrderThreshold  int
	DiscountAmount  int
	DiscountPercent int
}

type DeliverySlot struct {
	ID    string
	Label string
	Fee   int
}

type Address struct {
	ID      string
	Label   string
	Default bool
}

type Catalog interface {
	ReadAll(ctx context.Context) ([]Product, error)
}

type Promotions interface {
	// GetAvailable returns promotions whose threshold is met by orderAmount.
	GetAvailable(ctx context.Context, orderAmount int) ([]Promotion, error)
	GetAll(ctx context.Context) ([]Promotion, error)
}

type DeliverySlots interface {
	GetAvailable(ctx context.Context) ([]DeliverySlot, error)
}

type AddressDirectory interface {
	List(ctx context.Context) ([]Address, error)
	// GetByIndex resolves a 1-based index. Out of range returns nil, not an error.
	GetByIndex(ctx context.Context, index int) (*Address, error)
}

type Loyalty interface {
	Balance(ctx context.Context, userID string) (int, error)
	Spend(ctx context.Context, userID string, points int) error
}

// SessionStore persists the durable slice of a session between conversations.
type SessionStore interface {
	Load(ctx context.Context, userID string) (map[string]any, error)
	Save(ctx context.Context, userID string, data map[string]any) error
}
