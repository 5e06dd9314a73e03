// Package checkout computes cart totals, promotion eligibility and final
// payable amounts, and executes payment. The loyalty-balance decrement in
// CreatePayment is the only durable side effect in the package.
package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/voicecart/voicecart/internal/cart"
	"github.com/voicecart/voicecart/internal/shopping"
)

// RewardRate is the fixed points-per-currency-unit reward rule: one reward
// point per 200 spent after all deductions.
const RewardRate = 200

type Line struct {
	Item      cart.Item
	UnitPrice int
	LineTotal int
}

type Quote struct {
	Lines           []Line
	ItemsTotal      int
	DeliveryFee     int
	Subtotal        int
	AvailablePromos []shopping.Promotion
}

type Summary struct {
	Quote
	Discount int
	Total    int
	Text     string
}

type Amounts struct {
	Total            int
	PointsUsed       int
	TotalAfterPoints int
	RewardPoints     int
}

type Payment struct {
	OrderID      string
	Amount       int
	PointsUsed   int
	RewardPoints int
}

type Calculator struct {
	catalog shopping.Catalog
	promos  shopping.Promotions
	loyalty shopping.Loyalty
}

func NewCalculator(catalog shopping.Catalog, promos shopping.Promotions, loyalty shopping.Loyalty) *Calculator {
	return &Calculator{catalog: catalog, promos: promos, loyalty: loyalty}
}

// Calculate resolves each cart line against the live catalog, preferring the
// promotional unit price when it is lower, and asks the promotion
// collaborator which promotions the items total already qualifies for.
func (c *Calculator) Calculate(ctx context.Context, items cart.Cart, deliveryFee int) (Quote, error) {
	products, err := c.catalog.ReadAll(ctx)
	if err != nil {
		return Quote{}, fmt.Errorf("read catalog: %w", err)
	}

	byID := make(map[string]shopping.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	quote := Quote{DeliveryFee: deliveryFee}
	for _, line := range items {
		unit := effectivePrice(line, byID)
		l := Line{Item: line, UnitPrice: unit, LineTotal: unit * line.Quantity}
		quote.Lines = append(quote.Lines, l)
		quote.ItemsTotal += l.LineTotal
	}
	quote.Subtotal = quote.ItemsTotal + deliveryFee

	quote.AvailablePromos, err = c.promos.GetAvailable(ctx, quote.ItemsTotal)
	if err != nil {
		return Quote{}, fmt.Errorf("get available promotions: %w", err)
	}
	return quote, nil
}

// Finalize applies the chosen promotion to a fresh quote, flooring the total
// at zero, and renders the spoken summary.
func (c *Calculator) Finalize(ctx context.Context, items cart.Cart, deliveryFee int, promo *shopping.Promotion) (Summary, error) {
	quote, err := c.Calculate(ctx, items, deliveryFee)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Quote: quote}
	if promo != nil {
		sum.Discount = promo.DiscountAmount
		if sum.Discount == 0 && promo.DiscountPercent > 0 {
			sum.Discount = quote.ItemsTotal * promo.DiscountPercent / 100
		}
	}
	sum.Total = quote.Subtotal - sum.Discount
	if sum.Total < 0 {
		sum.Total = 0
	}
	sum.Text = summaryText(sum, promo)
	return sum, nil
}

// ComputeFinalAmounts deducts the loyalty points actually used and derives
// the reward points earned. Points only count when the user elected to use
// them.
func ComputeFinalAmounts(sum Summary, usePoints bool, points int) Amounts {
	a := Amounts{Total: sum.Total}
	if usePoints && points > 0 {
		a.PointsUsed = points
	}
	a.TotalAfterPoints = a.Total - a.PointsUsed
	if a.TotalAfterPoints < 0 {
		a.TotalAfterPoints = 0
	}
	a.RewardPoints = a.TotalAfterPoints / RewardRate
	return a
}

// CreatePayment charges the final amount. Payment itself always succeeds
// unless a collaborator reports failure; on success the used loyalty points
// are deducted from the stored balance.
func (c *Calculator) CreatePayment(ctx context.Context, userID string, items cart.Cart, deliveryFee int, promo *shopping.Promotion, usePoints bool, points int) (Payment, error) {
	sum, err := c.Finalize(ctx, items, deliveryFee, promo)
	if err != nil {
		return Payment{}, err
	}
	amounts := ComputeFinalAmounts(sum, usePoints, points)

	if amounts.PointsUsed > 0 {
		if err := c.loyalty.Spend(ctx, userID, amounts.PointsUsed); err != nil {
			return Payment{}, fmt.Errorf("spend loyalty points: %w", err)
		}
	}

	return Payment{
		OrderID:      uuid.NewString(),
		Amount:       amounts.TotalAfterPoints,
		PointsUsed:   amounts.PointsUsed,
		RewardPoints: amounts.RewardPoints,
	}, nil
}

func effectivePrice(line cart.Item, catalog map[string]shopping.Product) int {
	if p, ok := catalog[line.ProductID]; ok {
		return p.EffectivePrice()
	}
	// Line not in the live catalog anymore; charge the price captured when
	// it was added.
	if line.PromoPrice > 0 && line.PromoPrice < line.UnitPrice {
		return line.PromoPrice
	}
	return line.UnitPrice
}

func summaryText(sum Summary, promo *shopping.Promotion) string {
	text := fmt.Sprintf("Your items come to %d", sum.ItemsTotal)
	if sum.DeliveryFee > 0 {
		text += fmt.Sprintf(", plus a delivery fee of %d", sum.DeliveryFee)
	}
	if promo != nil && sum.Discount > 0 {
		text += fmt.Sprintf(", minus %d for %s", sum.Discount, promo.Name)
	}
	text += fmt.Sprintf(". The total is %d.", sum.Total)
	return text
}
