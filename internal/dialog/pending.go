package dialog

import (
	"context"

	"go.uber.org/zap"

	"github.com/voicecart/voicecart/internal/session"
)

// resumePending is the single entry point for a yes/no answer while a
// confirmation is armed. The pending state is cleared before the resumed
// action runs, so a failure mid-resume can never re-trigger the same
// confirmation. Exactly one branch executes per call.
func (e *Engine) resumePending(ctx context.Context, ev TurnEvent, s *session.State, yes bool) (*result, error) {
	data := s.TakePending()
	e.logger.Info("resuming pending confirmation",
		zap.String("kind", string(data.Kind)), zap.Bool("answer", yes))

	switch data.Kind {
	case session.PendingClearCart:
		if !yes {
			return ask(MsgCartKept, MsgHelp), nil
		}
		s.Cart = nil
		s.PendingProductID = ""
		s.MarkDirty()
		return ask(MsgCartCleared+" "+MsgWhatToSearch, MsgWhatToSearch), nil

	case session.PendingStopOrder:
		if !yes {
			return ask(MsgOrderKept, MsgHelp), nil
		}
		s.ClearOrder()
		return &result{speak: MsgOrderStopped, end: true}, nil

	case session.PendingDefaultAddress:
		if !yes {
			return ask(MsgAddressCancel, MsgHelp), nil
		}
		address, err := e.addresses.GetByIndex(ctx, data.AddressIndex)
		if err != nil {
			return nil, err
		}
		if address == nil {
			return ask(MsgApology, MsgApology), nil
		}
		s.DeliveryAddress = address
		s.LastAction = session.ActionConfirmAddress
		s.MarkDirty()
		return ask(msgAddressChosen(*address), MsgAskPromotions), nil

	case session.PendingUsePoints:
		flow := s.EnsurePayment()
		if !yes {
			flow.UsePoints = false
			flow.Points = 0
			// Chain straight into the shareholder-card question.
			s.ArmPending(session.PendingData{Kind: session.PendingUseShareholderCard})
			return ask(MsgAskShareholder, MsgAskShareholder), nil
		}
		flow.UsePoints = true
		s.LastAction = session.ActionSpecifyPoints
		balance, err := e.loyalty.Balance(ctx, ev.UserID)
		if err != nil {
			return nil, err
		}
		q := msgAskHowManyPoints(balance)
		return ask(q, q), nil

	case session.PendingUseShareholderCard:
		flow := s.EnsurePayment()
		flow.UseShareholderCard = yes
		s.MarkDirty()
		return e.orderSummary(ctx, ev, s)

	case session.PendingFinalizePayment:
		if !yes {
			return ask(MsgPaymentCancel, MsgHelp), nil
		}
		return e.executePayment(ctx, ev, s)

	default:
		// Unrecognized kind: a programming error. Apologize tersely and
		// keep the conversation open.
		e.logger.Error("unknown pending confirmation kind", zap.String("kind", string(data.Kind)))
		return ask(MsgApology, MsgApology), nil
	}
}
