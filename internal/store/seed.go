package store

import (
	"context"

	"gorm.io/gorm"
)

// Seed loads demo data on an empty database so the assistant has something
// to sell out of the box. Existing rows are left alone.
func (s *Store) Seed(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&ProductRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []ProductRecord{
		{ID: "p-milk", Name: "Whole Milk 1L", Brand: "Green Meadow", Price: 100, Keywords: "milk,dairy"},
		{ID: "p-bread", Name: "Sliced Bread", Brand: "Baker's Own", Price: 150, PromoPrice: 120, Keywords: "bread,bakery"},
		{ID: "p-eggs", Name: "Free Range Eggs 10pk", Brand: "Green Meadow", Price: 200, Keywords: "eggs"},
		{ID: "p-rice", Name: "Short Grain Rice 2kg", Brand: "Harvest", Price: 800, Keywords: "rice"},
		{ID: "p-coffee", Name: "Ground Coffee 500g", Brand: "Morning Ritual", Price: 600, PromoPrice: 540, Keywords: "coffee"},
	}
	promos := []PromotionRecord{
		{ID: "c-1000", Name: "Big order discount", OrderThreshold: 1000, DiscountAmount: 100},
		{ID: "c-3000", Name: "Pantry stock-up", OrderThreshold: 3000, DiscountPercent: 10},
	}
	slots := []SlotRecord{
		{ID: "d-am", Label: "Tomorrow morning, 8 to 12", Fee: 300},
		{ID: "d-pm", Label: "Tomorrow afternoon, 12 to 6", Fee: 150},
		{ID: "d-ev", Label: "Tomorrow evening, 6 to 9", Fee: 0},
	}
	addresses := []AddressRecord{
		{ID: "a-home", Label: "Home", IsDefault: true},
	}
	loyalty := []LoyaltyRecord{
		{UserID: "demo-user", Points: 500},
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, batch := range []any{&products, &promos, &slots, &addresses, &loyalty} {
			if err := tx.Create(batch).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
