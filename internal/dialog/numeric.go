package dialog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/voicecart/voicecart/internal/numparse"
	"github.com/voicecart/voicecart/internal/session"
)

// numericHandler resolves a bare number against the step that last ran.
type numericHandler func(ctx context.Context, ev TurnEvent, s *session.State, n int) (*result, error)

// numericRouter maps lastAction to the meaning of a bare-number utterance.
// The table is fixed at startup; an utterance with no matching entry is
// declined so a generic fallback can claim it.
type numericRouter struct {
	engine *Engine
	table  map[session.Action]numericHandler
}

func newNumericRouter(e *Engine) *numericRouter {
	return &numericRouter{
		engine: e,
		table: map[session.Action]numericHandler{
			session.ActionSearchProduct: func(ctx context.Context, ev TurnEvent, s *session.State, n int) (*result, error) {
				return e.selectSearchedProduct(ctx, ev, s, n)
			},
			session.ActionAddCart: func(ctx context.Context, ev TurnEvent, s *session.State, n int) (*result, error) {
				return e.quantityForPendingAdd(ctx, ev, s, n)
			},
			session.ActionDeleteCart: func(ctx context.Context, ev TurnEvent, s *session.State, n int) (*result, error) {
				return e.quantityForPendingDelete(ctx, ev, s, n)
			},
			session.ActionSearchDeliverySlot: func(ctx context.Context, ev TurnEvent, s *session.State, n int) (*result, error) {
				return e.selectDeliverySlot(ctx, s, n)
			},
			session.ActionSearchDeliveryAddress: func(ctx context.Context, ev TurnEvent, s *session.State, n int) (*result, error) {
				return e.selectDeliveryAddress(ctx, s, n)
			},
			session.ActionSearchPromotion: func(ctx context.Context, ev TurnEvent, s *session.State, n int) (*result, error) {
				return e.selectPromotion(ctx, s, n)
			},
			session.ActionStartPayment: func(ctx context.Context, ev TurnEvent, s *session.State, n int) (*result, error) {
				return e.selectPaymentMethodByIndex(ctx, ev, s, n)
			},
			session.ActionSelectPaymentMethod: func(ctx context.Context, ev TurnEvent, s *session.State, n int) (*result, error) {
				return e.specifyPoints(ctx, ev, s, n)
			},
			session.ActionSpecifyPoints: func(ctx context.Context, ev TurnEvent, s *session.State, n int) (*result, error) {
				return e.specifyPoints(ctx, ev, s, n)
			},
		},
	}
}

// dispatch maps the bare number through the lastAction table. Lookup misses
// decline politely; a panicking delegate is contained and answered with a
// terse processing apology.
func (r *numericRouter) dispatch(ctx context.Context, ev TurnEvent, s *session.State) (res *result, err error) {
	handler, ok := r.table[s.LastAction]
	if !ok {
		r.engine.logger.Info("bare number with no routable context",
			zap.String("last_action", string(s.LastAction)))
		return ask(MsgHelp, MsgHelp), nil
	}

	// Unparsable input counts as missing, not zero: every delegate rejects
	// a zero with its own bounds restated, which is the right re-prompt.
	n, _ := numparse.Number(ev.Slot(SlotNumber))

	defer func() {
		if rec := recover(); rec != nil {
			r.engine.logger.Error("numeric handler panicked",
				zap.String("last_action", string(s.LastAction)), zap.Any("panic", rec))
			res = ask(MsgProcessingErr, MsgProcessingErr)
			err = nil
		}
	}()

	res, err = handler(ctx, ev, s, n)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code != StatusInternal {
			return nil, err
		}
		r.engine.logger.Error("numeric handler failed",
			zap.String("last_action", string(s.LastAction)), zap.Error(err))
		return ask(MsgProcessingErr, MsgProcessingErr), nil
	}
	return res, nil
}

// selectSearchedProduct treats the number as an index into the last product
// search and hands over to the cart-add flow.
func (e *Engine) selectSearchedProduct(ctx context.Context, ev TurnEvent, s *session.State, index int) (*result, error) {
	if len(s.Products) == 0 {
		return nil, NewFailedPrecondition(MsgWhatToSearch)
	}
	if index < 1 || index > len(s.Products) {
		return nil, NewInvalidArgument(msgRange(len(s.Products)))
	}

	product := s.Products[index-1]
	if qty, ok := numparse.Number(ev.Slot(SlotQuantity)); ok && qty >= 1 {
		return e.addToCart(s, product, qty)
	}

	s.PendingProductID = product.ID
	s.LastAction = session.ActionAddCart
	return ask(product.Name+". "+MsgAskQuantity, MsgAskQuantity), nil
}

func (e *Engine) quantityForPendingAdd(ctx context.Context, ev TurnEvent, s *session.State, qty int) (*result, error) {
	if s.PendingProductID == "" {
		return nil, NewFailedPrecondition(MsgWhatToSearch)
	}
	if qty < 1 {
		return nil, NewInvalidArgument("The quantity must be at least 1. " + MsgAskQuantity)
	}

	product, err := e.resolveProduct(ctx, TurnEvent{}, s)
	if err != nil {
		return nil, err
	}
	return e.addToCart(s, *product, qty)
}

func (e *Engine) quantityForPendingDelete(ctx context.Context, ev TurnEvent, s *session.State, qty int) (*result, error) {
	if s.PendingProductID == "" {
		return nil, NewFailedPrecondition(MsgHelp)
	}
	if qty < 1 {
		return nil, NewInvalidArgument("The quantity must be at least 1. " + MsgAskRemoveQty)
	}
	return e.removeFromCart(s, s.PendingProductID, qty, false)
}
