package dialog

import (
	"context"

	"go.uber.org/zap"

	"github.com/voicecart/voicecart/internal/numparse"
	"github.com/voicecart/voicecart/internal/session"
)

func (e *Engine) handleSearchPromotion(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Cart) == 0 {
		return nil, NewFailedPrecondition(MsgCartEmpty + " Add something before checking promotions.")
	}

	quote, err := e.calc.Calculate(ctx, s.Cart, s.DeliveryFee())
	if err != nil {
		return nil, err
	}

	if len(quote.AvailablePromos) > 0 {
		s.Promos = quote.AvailablePromos
		s.LastAction = session.ActionSearchPromotion
		return ask(msgPromoAvailable(quote.AvailablePromos), msgRange(len(quote.AvailablePromos))), nil
	}

	// Nothing reached: enumerate the unreached promotions with the exact
	// shortfall per promotion rather than a bare "none available".
	all, err := e.promos.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.Promos = nil
	s.LastAction = session.ActionSearchPromotion
	if len(all) == 0 {
		return ask(MsgNoPromotions+" Shall I start the payment?", MsgAskProceedPay), nil
	}
	return ask(msgPromoShortfall(all, quote.ItemsTotal), MsgHelp), nil
}

func (e *Engine) handleSelectPromotion(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Promos) == 0 {
		return nil, NewFailedPrecondition("There's no promotion to choose from. Say: search promotions.")
	}
	index, ok := numparse.Number(ev.Slot(SlotNumber))
	if !ok {
		return nil, NewInvalidArgument(msgRange(len(s.Promos)))
	}
	return e.selectPromotion(ctx, s, index)
}

// selectPromotion applies the chosen promotion, computes the final total
// right away and moves straight to the proceed-to-payment question. There is
// no intermediate summary step.
func (e *Engine) selectPromotion(ctx context.Context, s *session.State, index int) (*result, error) {
	if len(s.Promos) == 0 {
		return nil, NewFailedPrecondition("There's no promotion to choose from. Say: search promotions.")
	}
	if index < 1 || index > len(s.Promos) {
		return nil, NewInvalidArgument(msgRange(len(s.Promos)))
	}

	promo := s.Promos[index-1]
	s.AppliedPromo = &promo
	s.LastAction = session.ActionSelectPromotion
	s.MarkDirty()
	e.logger.Info("promotion applied", zap.String("promo_id", promo.ID))

	sum, err := e.calc.Finalize(ctx, s.Cart, s.DeliveryFee(), s.AppliedPromo)
	if err != nil {
		return nil, err
	}
	return ask(sum.Text+" "+MsgAskProceedPay, MsgAskProceedPay), nil
}
