// Package dialog is the turn-by-turn conversation core: the intent registry,
// the checkout pipeline handlers, the pending-confirmation dispatcher and
// the bare-number disambiguation router. One turn event enters, one spoken
// response and an updated session leave.
package dialog

import "github.com/voicecart/voicecart/internal/session"

// Intent names delivered by the voice front-end.
const (
	IntentLaunch                = "LaunchRequest"
	IntentSessionEnd            = "SessionEndedRequest"
	IntentSearchProduct         = "SearchProductIntent"
	IntentAddCart               = "AddCartIntent"
	IntentDeleteCart            = "DeleteCartIntent"
	IntentReadCart              = "ReadCartIntent"
	IntentClearCart             = "ClearCartIntent"
	IntentSearchDeliverySlot    = "SearchDeliverySlotIntent"
	IntentSelectDeliverySlot    = "SelectDeliverySlotIntent"
	IntentSearchDeliveryAddress = "SearchDeliveryAddressIntent"
	IntentSelectDeliveryAddress = "SelectDeliveryAddressIntent"
	IntentSearchPromotion       = "SearchPromotionIntent"
	IntentSelectPromotion       = "SelectPromotionIntent"
	IntentStartPayment          = "StartPaymentIntent"
	IntentSelectPaymentMethod   = "SelectPaymentMethodIntent"
	IntentSpecifyPoints         = "SpecifyPointsIntent"
	IntentSelectNumber          = "SelectNumberIntent"
	IntentYes                   = "AMAZON.YesIntent"
	IntentNo                    = "AMAZON.NoIntent"
	IntentStopOrder             = "StopOrderIntent"
	IntentHelp                  = "AMAZON.HelpIntent"
	IntentStop                  = "AMAZON.StopIntent"
)

// Slot keys.
const (
	SlotProductName = "productName"
	SlotQuantity    = "quantity"
	SlotNumber      = "number"
	SlotPoints      = "points"
	SlotMethod      = "method"
)

// TurnEvent is one resolved utterance: intent, slots and the caller's
// session state.
type TurnEvent struct {
	Intent          string            `json:"intent"`
	Slots           map[string]string `json:"slots,omitempty"`
	UserID          string            `json:"userId"`
	NewConversation bool              `json:"new"`
	Session         *session.State    `json:"session,omitempty"`
}

// Slot returns the named slot value, "" when missing.
func (e TurnEvent) Slot(key string) string {
	return e.Slots[key]
}

// TurnResponse carries the spoken reply and the updated session back to the
// front-end.
type TurnResponse struct {
	SpokenText   string         `json:"spokenText"`
	RepromptText string         `json:"repromptText,omitempty"`
	EndSession   bool           `json:"endSession"`
	Session      *session.State `json:"session"`
}

// result is the handler-internal response shape before the session is
// attached.
type result struct {
	speak    string
	reprompt string
	end      bool
}

func ask(text, reprompt string) *result {
	return &result{speak: text, reprompt: reprompt}
}
