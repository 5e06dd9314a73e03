package session

import (
	"encoding/json"

	"github.com/voicecart/voicecart/internal/cart"
	"github.com/voicecart/voicecart/internal/shopping"
)

// snapshot is the durable slice of a session: only what must survive across
// conversations. Candidate lists and pending confirmations never persist.
type snapshot struct {
	Cart     cart.Cart         `json:"cart,omitempty"`
	Delivery *slotSnapshot     `json:"delivery,omitempty"`
	Address  *addressSnapshot  `json:"address,omitempty"`
	Promo    *promoSnapshot    `json:"promo,omitempty"`
	Payment  *paymentSnapshot  `json:"payment,omitempty"`
}

type slotSnapshot struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Fee   int    `json:"fee"`
}

type addressSnapshot struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type promoSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Amount  int    `json:"amount"`
	Percent int    `json:"percent,omitempty"`
}

type paymentSnapshot struct {
	Method             string `json:"method,omitempty"`
	UsePoints          bool   `json:"usePoints"`
	Points             int    `json:"points"`
	UseShareholderCard bool   `json:"useShareholderCard"`
}

// BuildCartData extracts the durable fields of the session as a plain JSON
// object. The result is JSON-normalized so it compares cleanly against a
// snapshot read back from the store.
func BuildCartData(s *State) map[string]any {
	snap := snapshot{Cart: s.Cart}

	if s.Delivery != nil {
		snap.Delivery = &slotSnapshot{ID: s.Delivery.ID, Label: s.Delivery.Label, Fee: s.Delivery.Fee}
	}
	if s.DeliveryAddress != nil {
		snap.Address = &addressSnapshot{ID: s.DeliveryAddress.ID, Label: s.DeliveryAddress.Label}
	}
	if s.AppliedPromo != nil {
		snap.Promo = &promoSnapshot{
			ID:      s.AppliedPromo.ID,
			Name:    s.AppliedPromo.Name,
			Amount:  s.AppliedPromo.DiscountAmount,
			Percent: s.AppliedPromo.DiscountPercent,
		}
	}
	if s.Payment != nil {
		snap.Payment = &paymentSnapshot{
			Method:             s.Payment.Method,
			UsePoints:          s.Payment.UsePoints,
			Points:             s.Payment.Points,
			UseShareholderCard: s.Payment.UseShareholderCard,
		}
	}

	return toObject(snap)
}

// Restore rebuilds the durable fields from a previously persisted object and
// remembers it for the turn-end comparison.
func Restore(s *State, data map[string]any) {
	s.Persisted = data
	if data == nil {
		return
	}

	var snap snapshot
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return
	}

	s.Cart = snap.Cart
	if snap.Delivery != nil {
		s.Delivery = &shopping.DeliverySlot{ID: snap.Delivery.ID, Label: snap.Delivery.Label, Fee: snap.Delivery.Fee}
	}
	if snap.Address != nil {
		s.DeliveryAddress = &shopping.Address{ID: snap.Address.ID, Label: snap.Address.Label}
	}
	if snap.Promo != nil {
		s.AppliedPromo = &shopping.Promotion{
			ID:              snap.Promo.ID,
			Name:            snap.Promo.Name,
			DiscountAmount:  snap.Promo.Amount,
			DiscountPercent: snap.Promo.Percent,
		}
	}
	if snap.Payment != nil {
		s.Payment = &PaymentFlow{
			Status:             PaymentInProgress,
			Method:             snap.Payment.Method,
			UsePoints:          snap.Payment.UsePoints,
			Points:             snap.Payment.Points,
			UseShareholderCard: snap.Payment.UseShareholderCard,
		}
	}
}

// ShouldSave decides whether the durable snapshot must be rewritten: an
// explicit dirty flag, nothing previously persisted, or any structural
// difference. Null and absent are equivalent at every level; arrays compare
// index-wise.
func ShouldSave(s *State, prev map[string]any) bool {
	if s.Dirty {
		return true
	}
	if prev == nil {
		return true
	}
	return !deepEqual(BuildCartData(s), prev)
}

func toObject(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}

// deepEqual compares JSON-shaped values. Numbers compare by value regardless
// of concrete type; nil, missing keys, empty maps and empty slices are all
// treated as absent.
func deepEqual(a, b any) bool {
	if absent(a) && absent(b) {
		return true
	}
	if absent(a) || absent(b) {
		return false
	}

	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok {
			return false
		}
		for key := range av {
			if !deepEqual(av[key], bv[key]) {
				return false
			}
		}
		for key := range bv {
			if _, ok := av[key]; !ok && !absent(bv[key]) {
				return false
			}
		}
		return true

	case []any:
		bv, ok := b.([]any)
		if !ok {
			return false
		}
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true

	case string:
		bv, ok := b.(string)
		return ok && av == bv

	case bool:
		bv, ok := b.(bool)
		return ok && av == bv

	default:
		an, aok := asFloat(a)
		bn, bok := asFloat(b)
		if aok && bok {
			return an == bn
		}
		return a == b
	}
}

func absent(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
