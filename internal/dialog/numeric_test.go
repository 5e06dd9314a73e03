package dialog

import (
	"strings"
	"testing"

	"github.com/voicecart/voicecart/internal/session"
)

func number(n string) map[string]string {
	return map[string]string{SlotNumber: n}
}

func TestNumeric_DeclinesWithoutContext(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()

	resp := f.turn(s, IntentSelectNumber, number("2"))

	if resp.SpokenText != MsgHelp {
		t.Errorf("expected generic fallback, got %q", resp.SpokenText)
	}
}

func TestNumeric_SearchProductIndexAsksQuantity(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()

	f.turn(s, IntentSearchProduct, map[string]string{SlotProductName: "milk"})
	resp := f.turn(s, IntentSelectNumber, number("1"))

	if !strings.Contains(resp.SpokenText, "How many") {
		t.Errorf("expected quantity question, got %q", resp.SpokenText)
	}
	if s.LastAction != session.ActionAddCart {
		t.Errorf("expected add-cart step, got %s", s.LastAction)
	}
}

func TestNumeric_AddCartQuantityCompletesAdd(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()

	f.turn(s, IntentSearchProduct, map[string]string{SlotProductName: "milk"})
	f.turn(s, IntentSelectNumber, number("1"))
	resp := f.turn(s, IntentSelectNumber, number("3"))

	if len(s.Cart) != 1 || s.Cart[0].Quantity != 3 {
		t.Fatalf("expected 3 milk in cart, got %+v", s.Cart)
	}
	if !strings.Contains(resp.SpokenText, "added") && !strings.Contains(resp.SpokenText, "I added") {
		t.Errorf("expected add confirmation, got %q", resp.SpokenText)
	}
}

func TestNumeric_OutOfRangeIndexRepromptsWithBounds(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()

	// "bread" matches exactly one product.
	f.turn(s, IntentSearchProduct, map[string]string{SlotProductName: "bread"})
	if len(s.Products) != 1 {
		t.Fatalf("fixture: expected 1 match, got %d", len(s.Products))
	}

	resp := f.turn(s, IntentSelectNumber, number("2"))

	if !strings.Contains(resp.SpokenText, "from 1 to 1") {
		t.Errorf("expected bounds restated, got %q", resp.SpokenText)
	}
	if len(s.Cart) != 0 {
		t.Error("cart must be unchanged on out-of-range selection")
	}
	if resp.EndSession {
		t.Error("out-of-range selection must not end the session")
	}
}

func TestNumeric_DeleteCartQuantity(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()

	f.turn(s, IntentAddCart, map[string]string{SlotProductName: "milk", SlotQuantity: "5"})
	f.turn(s, IntentDeleteCart, map[string]string{SlotProductName: "milk"})
	resp := f.turn(s, IntentSelectNumber, number("2"))

	if s.Cart[0].Quantity != 3 {
		t.Errorf("expected 3 remaining, got %d", s.Cart[0].Quantity)
	}
	if !strings.Contains(resp.SpokenText, "3 remain") {
		t.Errorf("expected remaining count, got %q", resp.SpokenText)
	}
}

func TestNumeric_SlotIndexSelectsDeliverySlot(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()
	f.turn(s, IntentAddCart, map[string]string{SlotProductName: "milk", SlotQuantity: "1"})

	f.turn(s, IntentSearchDeliverySlot, nil)
	f.turn(s, IntentSelectNumber, number("1"))

	if s.Delivery == nil || s.Delivery.ID != "d1" {
		t.Errorf("expected slot d1 chosen, got %+v", s.Delivery)
	}
}

func TestNumeric_PaymentMethodIndex(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()
	f.turn(s, IntentAddCart, map[string]string{SlotProductName: "milk", SlotQuantity: "1"})

	f.turn(s, IntentStartPayment, nil)
	resp := f.turn(s, IntentSelectNumber, number("1"))

	if s.Payment == nil || s.Payment.Method != "credit card" {
		t.Errorf("expected credit card selected, got %+v", s.Payment)
	}
	// Balance is positive, so the points question follows.
	if !strings.Contains(resp.SpokenText, "points") {
		t.Errorf("expected points question, got %q", resp.SpokenText)
	}
}

func TestNumeric_PointsCountAfterElectingPoints(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()
	f.turn(s, IntentAddCart, map[string]string{SlotProductName: "milk", SlotQuantity: "5"})
	f.turn(s, IntentStartPayment, nil)
	f.turn(s, IntentSelectNumber, number("1")) // method → arms use-points
	f.turn(s, IntentYes, nil)                  // yes → how many points

	resp := f.turn(s, IntentSelectNumber, number("100"))

	if s.Payment.Points != 100 {
		t.Errorf("expected 100 points elected, got %d", s.Payment.Points)
	}
	if !s.HasPending() || s.PendingData.Kind != session.PendingUseShareholderCard {
		t.Errorf("expected shareholder question armed, got %+v", s.PendingData)
	}
	if resp.SpokenText != MsgAskShareholder {
		t.Errorf("expected shareholder question, got %q", resp.SpokenText)
	}
}

func TestNumeric_PointsOutOfRangeReprompts(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()
	f.turn(s, IntentAddCart, map[string]string{SlotProductName: "milk", SlotQuantity: "5"})
	f.turn(s, IntentStartPayment, nil)
	f.turn(s, IntentSelectNumber, number("1"))
	f.turn(s, IntentYes, nil)

	resp := f.turn(s, IntentSelectNumber, number("9999"))

	if !strings.Contains(resp.SpokenText, "between 1 and 500") {
		t.Errorf("expected points bounds, got %q", resp.SpokenText)
	}
	if s.Payment.Points != 0 {
		t.Error("out-of-range points must not be stored")
	}
}

func TestNumeric_AddressIndexAfterList(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()
	f.turn(s, IntentAddCart, map[string]string{SlotProductName: "milk", SlotQuantity: "1"})

	f.turn(s, IntentSearchDeliveryAddress, nil)
	if len(s.Addresses) != 2 {
		t.Fatalf("expected 2 listed addresses, got %d", len(s.Addresses))
	}

	f.turn(s, IntentSelectNumber, number("2"))
	if s.DeliveryAddress == nil || s.DeliveryAddress.ID != "a2" {
		t.Errorf("expected Office chosen, got %+v", s.DeliveryAddress)
	}
}

func TestNumeric_PromotionIndex(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()
	// 12 x 100 = 1200 reaches the 1000 threshold.
	f.turn(s, IntentAddCart, map[string]string{SlotProductName: "milk", SlotQuantity: "12"})

	f.turn(s, IntentSearchPromotion, nil)
	if len(s.Promos) != 1 {
		t.Fatalf("expected 1 available promo, got %d", len(s.Promos))
	}

	resp := f.turn(s, IntentSelectNumber, number("1"))

	if s.AppliedPromo == nil || s.AppliedPromo.ID != "c1" {
		t.Errorf("expected promo applied, got %+v", s.AppliedPromo)
	}
	if !strings.Contains(resp.SpokenText, MsgAskProceedPay) {
		t.Errorf("expected proceed-to-payment question, got %q", resp.SpokenText)
	}
}

func TestNumeric_UnparsableNumberRepromptsWithBounds(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()
	f.turn(s, IntentSearchProduct, map[string]string{SlotProductName: "milk"})
	if len(s.Products) != 1 {
		t.Fatalf("fixture: expected 1 match, got %d", len(s.Products))
	}

	resp := f.turn(s, IntentSelectNumber, number("banana"))

	// Unparsable input is treated as missing, so the step restates its own
	// valid range instead of apologizing.
	if !strings.Contains(resp.SpokenText, "from 1 to 1") {
		t.Errorf("expected bounds restated, got %q", resp.SpokenText)
	}
	if len(s.Cart) != 0 {
		t.Error("cart must be unchanged on unparsable input")
	}
}

func TestNumeric_PointsCountWhileUsePointsQuestionOpen(t *testing.T) {
	f := newFixture(twoAddresses())
	s := session.New()
	f.turn(s, IntentAddCart, map[string]string{SlotProductName: "milk", SlotQuantity: "5"})
	f.turn(s, IntentStartPayment, nil)
	f.turn(s, IntentSelectNumber, number("1")) // method → arms use-points

	// Answering the use-points question with a number straight away: the
	// yes is implied, the number is the point count.
	resp := f.turn(s, IntentSelectNumber, number("100"))

	if !s.Payment.UsePoints {
		t.Error("a point count must imply electing to use points")
	}
	if s.Payment.Points != 100 {
		t.Errorf("expected 100 points elected, got %d", s.Payment.Points)
	}
	if !s.HasPending() || s.PendingData.Kind != session.PendingUseShareholderCard {
		t.Errorf("expected shareholder question armed, got %+v", s.PendingData)
	}
	if resp.SpokenText != MsgAskShareholder {
		t.Errorf("expected shareholder question, got %q", resp.SpokenText)
	}
}
