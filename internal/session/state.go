// Package session defines the single mutable state blob that threads through
// a conversation, the pending-confirmation tagged union that gates yes/no
// resumption, and the durable-snapshot extraction with dirty tracking.
package session

import (
	"github.com/voicecart/voicecart/internal/cart"
	"github.com/voicecart/voicecart/internal/shopping"
)

// Action names the pipeline step that last completed. It is the dispatch key
// for bare-number utterances and, together with the pending tuple, encodes
// the position in the checkout pipeline.
type Action string

const (
	ActionNone                  Action = ""
	ActionSearchProduct         Action = "search-product"
	ActionAddCart               Action = "add-cart"
	ActionDeleteCart            Action = "delete-cart"
	ActionReadCart              Action = "read-cart"
	ActionSearchDeliverySlot    Action = "search-delivery-slot"
	ActionSelectDeliverySlot    Action = "select-delivery-slot"
	ActionSearchDeliveryAddress Action = "search-delivery-address"
	ActionConfirmAddress        Action = "confirm-address"
	ActionSearchPromotion       Action = "search-promotion"
	ActionSelectPromotion       Action = "select-promotion"
	ActionStartPayment          Action = "start-payment"
	ActionSelectPaymentMethod   Action = "select-payment-method"
	ActionSpecifyPoints         Action = "specify-points"
	ActionOrderSummary          Action = "order-summary"
)

// PendingKind tags the pending-confirmation union. The set is closed: the
// dispatcher refuses anything outside it.
type PendingKind string

const (
	PendingClearCart          PendingKind = "cart-clear"
	PendingStopOrder          PendingKind = "order-stop"
	PendingDefaultAddress     PendingKind = "default-address-confirm"
	PendingUsePoints          PendingKind = "use-loyalty-points"
	PendingUseShareholderCard PendingKind = "use-shareholder-card"
	PendingFinalizePayment    PendingKind = "finalize-payment"
)

// PendingData is the payload stored alongside a pending confirmation.
// AddressIndex is only meaningful for PendingDefaultAddress.
type PendingData struct {
	Kind         PendingKind `json:"kind"`
	AddressIndex int         `json:"addressIndex,omitempty"`
}

// PaymentStatus tracks how far the incremental payment flow has advanced.
type PaymentStatus string

const (
	PaymentSelectingMethod PaymentStatus = "selecting-method"
	PaymentInProgress      PaymentStatus = "in-progress"
	PaymentConfirming      PaymentStatus = "confirming"
)

// PaymentFlow is built up across several turns. Each field moves from unset
// to set once per checkout unless the user restarts payment.
type PaymentFlow struct {
	Status             PaymentStatus `json:"status"`
	Method             string        `json:"method,omitempty"`
	UsePoints          bool          `json:"usePoints"`
	Points             int           `json:"points"`
	UseShareholderCard bool          `json:"useShareholderCard"`
}

// State is loaded once per turn, mutated by exactly one handler, optionally
// flagged dirty, conditionally saved at turn end, then discarded.
type State struct {
	Cart            cart.Cart              `json:"cart,omitempty"`
	Delivery        *shopping.DeliverySlot `json:"cartDelivery,omitempty"`
	DeliveryAddress *shopping.Address      `json:"cartDeliveryAddress,omitempty"`
	AppliedPromo    *shopping.Promotion    `json:"appliedPromo,omitempty"`
	Payment         *PaymentFlow           `json:"paymentFlow,omitempty"`

	Pending     bool         `json:"pending"`
	PendingData *PendingData `json:"pendingData,omitempty"`
	LastAction  Action       `json:"lastAction,omitempty"`

	// Transient candidate lists, refreshed by search steps and consumed by
	// 1-based index selection. Never persisted.
	Products  []shopping.Product      `json:"availableProducts,omitempty"`
	Slots     []shopping.DeliverySlot `json:"availableDeliverySlots,omitempty"`
	Addresses []shopping.Address      `json:"availableDeliveryAddresses,omitempty"`
	Promos    []shopping.Promotion    `json:"availablePromos,omitempty"`

	// PendingProductID / PendingQty carry the in-flight add or delete while
	// the assistant waits for a quantity utterance.
	PendingProductID string `json:"pendingProductId,omitempty"`

	Dirty bool `json:"-"`

	// Persisted holds the snapshot loaded at conversation start; ShouldSave
	// compares against it at turn end.
	Persisted map[string]any `json:"-"`
}

func New() *State {
	return &State{}
}

// ArmPending arms a confirmation, replacing any previous one. At most one
// confirmation is armed at a time.
func (s *State) ArmPending(data PendingData) {
	s.Pending = true
	s.PendingData = &data
}

// TakePending clears and returns the armed confirmation. Clearing happens
// before the resumed action runs so a failure mid-resume cannot re-trigger
// the same confirmation.
func (s *State) TakePending() *PendingData {
	data := s.PendingData
	s.Pending = false
	s.PendingData = nil
	return data
}

// HasPending reports whether a confirmation is armed with a usable payload.
func (s *State) HasPending() bool {
	return s.Pending && s.PendingData != nil
}

// MarkDirty flags the durable snapshot as stale.
func (s *State) MarkDirty() {
	s.Dirty = true
}

// ClearOrder drops everything order-related after a successful payment or a
// confirmed stop.
func (s *State) ClearOrder() {
	s.Cart = nil
	s.Delivery = nil
	s.DeliveryAddress = nil
	s.AppliedPromo = nil
	s.Payment = nil
	s.PendingProductID = ""
	s.Promos = nil
	s.Slots = nil
	s.MarkDirty()
}

// DeliveryFee is the fee of the chosen slot, zero when none is chosen yet.
func (s *State) DeliveryFee() int {
	if s.Delivery != nil {
		return s.Delivery.Fee
	}
	return 0
}

// EnsurePayment returns the payment flow, creating it on first use.
func (s *State) EnsurePayment() *PaymentFlow {
	if s.Payment == nil {
		s.Payment = &PaymentFlow{Status: PaymentSelectingMethod}
	}
	return s.Payment
}
