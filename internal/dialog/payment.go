package dialog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/voicecart/voicecart/internal/checkout"
	"github.com/voicecart/voicecart/internal/numparse"
	"github.com/voicecart/voicecart/internal/session"
)

// paymentMethods is the fixed menu presented at the start of payment,
// selected by 1-based index.
var paymentMethods = []string{"credit card", "electronic money", "cash on delivery"}

func (e *Engine) handleStartPayment(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Cart) == 0 {
		return nil, NewFailedPrecondition(MsgCartEmpty + " There's nothing to pay for yet.")
	}

	flow := s.EnsurePayment()
	flow.Status = session.PaymentSelectingMethod
	s.LastAction = session.ActionStartPayment

	return ask(msgMethodList(paymentMethods), msgRange(len(paymentMethods))), nil
}

func (e *Engine) handleSelectPaymentMethod(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if method := strings.TrimSpace(ev.Slot(SlotMethod)); method != "" {
		for _, m := range paymentMethods {
			if strings.EqualFold(m, method) {
				return e.selectPaymentMethod(ctx, ev, s, m)
			}
		}
		return nil, NewInvalidArgument("I don't know that payment method. " + msgMethodList(paymentMethods))
	}

	index, ok := numparse.Number(ev.Slot(SlotNumber))
	if !ok {
		return nil, NewInvalidArgument(msgRange(len(paymentMethods)))
	}
	return e.selectPaymentMethodByIndex(ctx, ev, s, index)
}

func (e *Engine) selectPaymentMethodByIndex(ctx context.Context, ev TurnEvent, s *session.State, index int) (*result, error) {
	if index < 1 || index > len(paymentMethods) {
		return nil, NewInvalidArgument(msgRange(len(paymentMethods)))
	}
	return e.selectPaymentMethod(ctx, ev, s, paymentMethods[index-1])
}

func (e *Engine) selectPaymentMethod(ctx context.Context, ev TurnEvent, s *session.State, method string) (*result, error) {
	flow := s.EnsurePayment()
	flow.Method = method
	flow.Status = session.PaymentInProgress
	s.LastAction = session.ActionSelectPaymentMethod
	s.MarkDirty()
	e.logger.Info("payment method chosen", zap.String("method", method))

	balance, err := e.loyalty.Balance(ctx, ev.UserID)
	if err != nil {
		return nil, err
	}
	if balance > 0 {
		s.ArmPending(session.PendingData{Kind: session.PendingUsePoints})
		q := msgAskUsePoints(balance)
		return ask(q, q), nil
	}

	// No points to offer; go straight to the shareholder-card question.
	flow.UsePoints = false
	flow.Points = 0
	s.ArmPending(session.PendingData{Kind: session.PendingUseShareholderCard})
	return ask(MsgAskShareholder, MsgAskShareholder), nil
}

func (e *Engine) handleSpecifyPoints(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	raw := ev.Slot(SlotPoints)
	if raw == "" {
		raw = ev.Slot(SlotNumber)
	}
	points, ok := numparse.Number(raw)
	if !ok {
		balance, berr := e.loyalty.Balance(ctx, ev.UserID)
		if berr != nil {
			return nil, berr
		}
		return nil, NewInvalidArgument(msgPointsRange(balance))
	}
	return e.specifyPoints(ctx, ev, s, points)
}

func (e *Engine) specifyPoints(ctx context.Context, ev TurnEvent, s *session.State, points int) (*result, error) {
	flow := s.Payment
	if flow == nil {
		return nil, NewFailedPrecondition("Let's pick a payment method first. Say: start payment.")
	}

	// A number spoken while the use-points question is still open answers
	// it: the yes is implied, the number is the point count.
	if !flow.UsePoints {
		if !s.HasPending() || s.PendingData.Kind != session.PendingUsePoints {
			return nil, NewFailedPrecondition("Let's pick a payment method first. Say: start payment.")
		}
		s.TakePending()
		flow.UsePoints = true
	}

	balance, err := e.loyalty.Balance(ctx, ev.UserID)
	if err != nil {
		return nil, err
	}
	if points < 1 || points > balance {
		return nil, NewInvalidArgument(msgPointsRange(balance))
	}

	flow.Points = points
	s.LastAction = session.ActionSpecifyPoints
	s.MarkDirty()
	e.logger.Info("loyalty points elected", zap.Int("points", points))

	s.ArmPending(session.PendingData{Kind: session.PendingUseShareholderCard})
	return ask(MsgAskShareholder, MsgAskShareholder), nil
}

// orderSummary is the final recap before payment: full amounts including
// points, plus the reward points to earn, then arms the final confirmation.
func (e *Engine) orderSummary(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	flow := s.Payment
	if flow == nil {
		return nil, NewFailedPrecondition("Let's start the payment first. Say: start payment.")
	}

	sum, err := e.calc.Finalize(ctx, s.Cart, s.DeliveryFee(), s.AppliedPromo)
	if err != nil {
		return nil, err
	}
	amounts := checkout.ComputeFinalAmounts(sum, flow.UsePoints, flow.Points)

	flow.Status = session.PaymentConfirming
	s.LastAction = session.ActionOrderSummary
	s.ArmPending(session.PendingData{Kind: session.PendingFinalizePayment})

	return ask(msgOrderSummary(sum.Text, amounts.PointsUsed, amounts.RewardPoints, amounts.TotalAfterPoints),
		"Shall I complete the payment?"), nil
}

// executePayment runs the final charge. On success everything order-related
// is cleared, in session and durable store alike. On failure nothing is
// cleared and no confirmation is re-armed; the user restarts payment to
// retry.
func (e *Engine) executePayment(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	flow := s.Payment
	if flow == nil {
		return nil, NewFailedPrecondition("Let's start the payment first. Say: start payment.")
	}

	payment, err := e.calc.CreatePayment(ctx, ev.UserID, s.Cart, s.DeliveryFee(), s.AppliedPromo, flow.UsePoints, flow.Points)
	if err != nil {
		e.logger.Error("payment failed", zap.String("user_id", ev.UserID), zap.Error(err))
		return ask(MsgPaymentFailed, MsgPaymentFailed), nil
	}

	e.logger.Info("payment complete",
		zap.String("order_id", payment.OrderID),
		zap.Int("amount", payment.Amount),
		zap.Int("reward_points", payment.RewardPoints))

	s.ClearOrder()
	s.LastAction = session.ActionNone
	return ask(msgPaid(payment.Amount, payment.RewardPoints), MsgWhatToSearch), nil
}
