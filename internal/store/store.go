// Package store backs the collaborator interfaces with sqlite via gorm:
// catalog, promotions, delivery slots, addresses, loyalty balances and the
// per-user durable session snapshot.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/voicecart/voicecart/internal/shopping"
)

type ProductRecord struct {
	ID         string `gorm:"primaryKey"`
	Name       string
	Brand      string
	Price      int
	PromoPrice int
	Keywords   string // comma separated
}

type PromotionRecord struct {
	ID              string `gorm:"primaryKey"`
	Name            string
	OrderThreshold  int
	DiscountAmount  int
	DiscountPercent int
}

type SlotRecord struct {
	ID    string `gorm:"primaryKey"`
	Label string
	Fee   int
}

type AddressRecord struct {
	ID        string `gorm:"primaryKey"`
	Label     string
	IsDefault bool
}

type LoyaltyRecord struct {
	UserID string `gorm:"primaryKey"`
	Points int
}

type SessionRecord struct {
	UserID    string `gorm:"primaryKey"`
	Data      string
	UpdatedAt time.Time
}

// Store implements every shopping collaborator against one sqlite database.
type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(
		&ProductRecord{}, &PromotionRecord{}, &SlotRecord{},
		&AddressRecord{}, &LoyaltyRecord{}, &SessionRecord{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) ReadAll(ctx context.Context) ([]shopping.Product, error) {
	var records []ProductRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]shopping.Product, 0, len(records))
	for _, r := range records {
		p := shopping.Product{ID: r.ID, Name: r.Name, Brand: r.Brand, Price: r.Price, PromoPrice: r.PromoPrice}
		if r.Keywords != "" {
			p.Keywords = strings.Split(r.Keywords, ",")
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) GetAvailable(ctx context.Context, orderAmount int) ([]shopping.Promotion, error) {
	var records []PromotionRecord
	if err := s.db.WithContext(ctx).
		Where("order_threshold <= ?", orderAmount).
		Order("order_threshold").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return promotions(records), nil
}

func (s *Store) GetAll(ctx context.Context) ([]shopping.Promotion, error) {
	var records []PromotionRecord
	if err := s.db.WithContext(ctx).Order("order_threshold").Find(&records).Error; err != nil {
		return nil, err
	}
	return promotions(records), nil
}

// Slots returns the delivery-slot view of the store.
func (s *Store) Slots() shopping.DeliverySlots {
	return slotView{s}
}

type slotView struct{ *Store }

func (v slotView) GetAvailable(ctx context.Context) ([]shopping.DeliverySlot, error) {
	var records []SlotRecord
	if err := v.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]shopping.DeliverySlot, 0, len(records))
	for _, r := range records {
		out = append(out, shopping.DeliverySlot{ID: r.ID, Label: r.Label, Fee: r.Fee})
	}
	return out, nil
}

func (s *Store) List(ctx context.Context) ([]shopping.Address, error) {
	var records []AddressRecord
	if err := s.db.WithContext(ctx).Order("is_default desc, id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]shopping.Address, 0, len(records))
	for _, r := range records {
		out = append(out, shopping.Address{ID: r.ID, Label: r.Label, Default: r.IsDefault})
	}
	return out, nil
}

func (s *Store) GetByIndex(ctx context.Context, index int) (*shopping.Address, error) {
	addresses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(addresses) {
		return nil, nil
	}
	return &addresses[index-1], nil
}

func (s *Store) Balance(ctx context.Context, userID string) (int, error) {
	var record LoyaltyRecord
	err := s.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.Points, nil
}

func (s *Store) Spend(ctx context.Context, userID string, points int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record LoyaltyRecord
		if err := tx.First(&record, "user_id = ?", userID).Error; err != nil {
			return fmt.Errorf("load loyalty balance: %w", err)
		}
		if record.Points < points {
			return fmt.Errorf("insufficient loyalty balance: have %d, need %d", record.Points, points)
		}
		record.Points -= points
		return tx.Save(&record).Error
	})
}

func (s *Store) Load(ctx context.Context, userID string) (map[string]any, error) {
	var record SessionRecord
	err := s.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(record.Data), &data); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, userID string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}
	record := SessionRecord{UserID: userID, Data: string(raw), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&record).Error
}

func promotions(records []PromotionRecord) []shopping.Promotion {
	out := make([]shopping.Promotion, 0, len(records))
	for _, r := range records {
		out = append(out, shopping.Promotion{
			ID:              r.ID,
			Name:            r.Name,
			OrderThreshold:  r.OrderThreshold,
			DiscountAmount:  r.DiscountAmount,
			DiscountPercent: r.DiscountPercent,
		})
	}
	return out
}
