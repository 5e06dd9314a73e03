package checkout

import (
	"context"
	"testing"

	"github.com/voicecart/voicecart/internal/cart"
	"github.com/voicecart/voicecart/internal/shopping"
)

func fixtureCalculator(balances map[string]int) (*Calculator, *shopping.MemoryLoyalty) {
	catalog := &shopping.MemoryCatalog{Products: []shopping.Product{
		{ID: "p1", Name: "Milk", Price: 100},
		{ID: "p2", Name: "Bread", Price: 150, PromoPrice: 120},
	}}
	promos := &shopping.MemoryPromotions{Promos: []shopping.Promotion{
		{ID: "c1", Name: "Big order discount", OrderThreshold: 1000, DiscountAmount: 100},
	}}
	loyalty := shopping.NewMemoryLoyalty(balances)
	return NewCalculator(catalog, promos, loyalty), loyalty
}

func TestCalculate_SimpleCart(t *testing.T) {
	calc, _ := fixtureCalculator(nil)
	items := cart.Cart{{ProductID: "p1", Name: "Milk", UnitPrice: 100, Quantity: 2}}

	quote, err := calc.Calculate(context.Background(), items, 0)
	if err != nil {
		t.Fatal(err)
	}
	if quote.ItemsTotal != 200 {
		t.Errorf("expected items total 200, got %d", quote.ItemsTotal)
	}
	if quote.Subtotal != 200 {
		t.Errorf("expected subtotal 200, got %d", quote.Subtotal)
	}
	if len(quote.AvailablePromos) != 0 {
		t.Errorf("expected no promos under threshold, got %d", len(quote.AvailablePromos))
	}
}

func TestCalculate_PrefersLowerPromoPrice(t *testing.T) {
	calc, _ := fixtureCalculator(nil)
	items := cart.Cart{{ProductID: "p2", Name: "Bread", UnitPrice: 150, Quantity: 3}}

	quote, err := calc.Calculate(context.Background(), items, 0)
	if err != nil {
		t.Fatal(err)
	}
	if quote.Lines[0].UnitPrice != 120 {
		t.Errorf("expected promo price 120, got %d", quote.Lines[0].UnitPrice)
	}
	if quote.ItemsTotal != 360 {
		t.Errorf("expected items total 360, got %d", quote.ItemsTotal)
	}
}

func TestCalculate_AddsDeliveryFeeAndFindsPromos(t *testing.T) {
	calc, _ := fixtureCalculator(nil)
	items := cart.Cart{{ProductID: "p1", UnitPrice: 100, Quantity: 12}}

	quote, err := calc.Calculate(context.Background(), items, 300)
	if err != nil {
		t.Fatal(err)
	}
	if quote.ItemsTotal != 1200 {
		t.Errorf("expected items total 1200, got %d", quote.ItemsTotal)
	}
	if quote.Subtotal != 1500 {
		t.Errorf("expected subtotal 1500, got %d", quote.Subtotal)
	}
	if len(quote.AvailablePromos) != 1 {
		t.Errorf("expected promo available at 1200, got %d", len(quote.AvailablePromos))
	}
}

func TestFinalize_SubtractsPromoAndFloorsAtZero(t *testing.T) {
	calc, _ := fixtureCalculator(nil)
	items := cart.Cart{{ProductID: "p1", UnitPrice: 100, Quantity: 1}}

	promo := &shopping.Promotion{ID: "c9", Name: "Mega", DiscountAmount: 500}
	sum, err := calc.Finalize(context.Background(), items, 0, promo)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 0 {
		t.Errorf("total must floor at 0, got %d", sum.Total)
	}
}

func TestFinalize_PercentDiscount(t *testing.T) {
	calc, _ := fixtureCalculator(nil)
	items := cart.Cart{{ProductID: "p1", UnitPrice: 100, Quantity: 10}}

	promo := &shopping.Promotion{ID: "c2", Name: "Ten percent", DiscountPercent: 10}
	sum, err := calc.Finalize(context.Background(), items, 0, promo)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Discount != 100 {
		t.Errorf("expected discount 100, got %d", sum.Discount)
	}
	if sum.Total != 900 {
		t.Errorf("expected total 900, got %d", sum.Total)
	}
}

func TestComputeFinalAmounts_RewardBoundaries(t *testing.T) {
	cases := []struct {
		total  int
		reward int
	}{
		{0, 0},
		{199, 0},
		{200, 1},
		{399, 1},
		{400, 2},
	}
	for _, tc := range cases {
		a := ComputeFinalAmounts(Summary{Total: tc.total}, false, 0)
		if a.RewardPoints != tc.reward {
			t.Errorf("total %d: expected %d reward points, got %d", tc.total, tc.reward, a.RewardPoints)
		}
	}
}

func TestComputeFinalAmounts_PointsOnlyCountWhenElected(t *testing.T) {
	a := ComputeFinalAmounts(Summary{Total: 500}, false, 100)
	if a.PointsUsed != 0 || a.TotalAfterPoints != 500 {
		t.Errorf("points must not apply when not elected: %+v", a)
	}

	a = ComputeFinalAmounts(Summary{Total: 500}, true, 100)
	if a.PointsUsed != 100 || a.TotalAfterPoints != 400 {
		t.Errorf("expected 100 points applied: %+v", a)
	}
	if a.RewardPoints != 2 {
		t.Errorf("expected 2 reward points on 400, got %d", a.RewardPoints)
	}
}

func TestComputeFinalAmounts_FloorsAtZero(t *testing.T) {
	a := ComputeFinalAmounts(Summary{Total: 50}, true, 100)
	if a.TotalAfterPoints != 0 {
		t.Errorf("total after points must floor at 0, got %d", a.TotalAfterPoints)
	}
}

func TestCreatePayment_DecrementsLoyaltyBalance(t *testing.T) {
	calc, loyalty := fixtureCalculator(map[string]int{"u1": 500})
	items := cart.Cart{{ProductID: "p1", UnitPrice: 100, Quantity: 5}}

	payment, err := calc.CreatePayment(context.Background(), "u1", items, 0, nil, true, 100)
	if err != nil {
		t.Fatal(err)
	}
	if payment.Amount != 400 {
		t.Errorf("expected charged amount 400, got %d", payment.Amount)
	}
	if payment.OrderID == "" {
		t.Error("expected an order id")
	}

	balance, _ := loyalty.Balance(context.Background(), "u1")
	if balance != 400 {
		t.Errorf("expected balance 400 after spend, got %d", balance)
	}
}

func TestCreatePayment_NoPointsLeavesBalanceAlone(t *testing.T) {
	calc, loyalty := fixtureCalculator(map[string]int{"u1": 500})
	items := cart.Cart{{ProductID: "p1", UnitPrice: 100, Quantity: 2}}

	if _, err := calc.CreatePayment(context.Background(), "u1", items, 0, nil, false, 0); err != nil {
		t.Fatal(err)
	}
	balance, _ := loyalty.Balance(context.Background(), "u1")
	if balance != 500 {
		t.Errorf("balance must be untouched, got %d", balance)
	}
}
