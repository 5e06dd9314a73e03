package dialog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/voicecart/voicecart/internal/checkout"
	"github.com/voicecart/voicecart/internal/session"
	"github.com/voicecart/voicecart/internal/shopping"
)

// Engine routes turn events into the checkout pipeline and owns the
// conditional save at turn end. One turn is processed to completion before
// the next; the hosting environment serializes turns per session.
type Engine struct {
	catalog   shopping.Catalog
	promos    shopping.Promotions
	slots     shopping.DeliverySlots
	addresses shopping.AddressDirectory
	loyalty   shopping.Loyalty
	store     shopping.SessionStore
	calc      *checkout.Calculator
	router    *Router
	numeric   *numericRouter
	logger    *zap.Logger
}

func NewEngine(
	catalog shopping.Catalog,
	promos shopping.Promotions,
	slots shopping.DeliverySlots,
	addresses shopping.AddressDirectory,
	loyalty shopping.Loyalty,
	store shopping.SessionStore,
	calc *checkout.Calculator,
	logger *zap.Logger,
) *Engine {
	e := &Engine{
		catalog:   catalog,
		promos:    promos,
		slots:     slots,
		addresses: addresses,
		loyalty:   loyalty,
		store:     store,
		calc:      calc,
		logger:    logger,
	}
	e.router = NewRouter().
		On(IntentLaunch, e.handleLaunch).
		On(IntentHelp, e.handleHelp).
		On(IntentStop, e.handleStop).
		On(IntentSessionEnd, e.handleSessionEnd).
		On(IntentSearchProduct, e.handleSearchProduct).
		On(IntentAddCart, e.handleAddCart).
		On(IntentDeleteCart, e.handleDeleteCart).
		On(IntentReadCart, e.handleReadCart).
		On(IntentClearCart, e.handleClearCart).
		On(IntentSearchDeliverySlot, e.handleSearchDeliverySlot).
		On(IntentSelectDeliverySlot, e.handleSelectDeliverySlot).
		On(IntentSearchDeliveryAddress, e.handleSearchDeliveryAddress).
		On(IntentSelectDeliveryAddress, e.handleSelectDeliveryAddress).
		On(IntentSearchPromotion, e.handleSearchPromotion).
		On(IntentSelectPromotion, e.handleSelectPromotion).
		On(IntentStartPayment, e.handleStartPayment).
		On(IntentSelectPaymentMethod, e.handleSelectPaymentMethod).
		On(IntentSpecifyPoints, e.handleSpecifyPoints).
		On(IntentStopOrder, e.handleStopOrder)
	e.numeric = newNumericRouter(e)
	return e
}

// Routes exposes the registered intents for startup logging.
func (e *Engine) Routes() []string {
	return e.router.Routes()
}

// HandleTurn processes one turn: restore durable state on a new
// conversation, dispatch, then conditionally persist. Persistence failures
// are logged and swallowed; the conversation must continue.
func (e *Engine) HandleTurn(ctx context.Context, ev TurnEvent) TurnResponse {
	s := ev.Session
	if s == nil {
		s = session.New()
	}

	if ev.NewConversation {
		data, err := e.store.Load(ctx, ev.UserID)
		if err != nil {
			e.logger.Warn("session load failed, continuing without durable state",
				zap.String("user_id", ev.UserID), zap.Error(err))
			data = nil
		}
		session.Restore(s, data)
	} else if s.Persisted == nil {
		// The prior snapshot doesn't survive serialization through the turn
		// surface. Reload it so the turn-end comparison can still skip
		// writes that change nothing durable.
		data, err := e.store.Load(ctx, ev.UserID)
		if err != nil {
			e.logger.Warn("session load failed, save check degraded",
				zap.String("user_id", ev.UserID), zap.Error(err))
		} else {
			s.Persisted = data
		}
	}

	e.logger.Info("handling turn",
		zap.String("intent", ev.Intent),
		zap.String("user_id", ev.UserID),
		zap.Bool("pending", s.Pending),
		zap.String("last_action", string(s.LastAction)))

	res, err := e.dispatch(ctx, ev, s)
	if err != nil {
		res = e.recoverResult(ev, err)
	}
	if res == nil {
		res = ask(MsgHelp, MsgHelp)
	}

	e.persist(ctx, ev.UserID, s)

	return TurnResponse{
		SpokenText:   res.speak,
		RepromptText: res.reprompt,
		EndSession:   res.end,
		Session:      s,
	}
}

func (e *Engine) dispatch(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	switch ev.Intent {
	case IntentYes, IntentNo:
		answer := ev.Intent == IntentYes
		if s.HasPending() {
			return e.resumePending(ctx, ev, s, answer)
		}
		return e.handleBareYesNo(ctx, ev, s, answer)

	case IntentSelectNumber:
		return e.numeric.dispatch(ctx, ev, s)
	}

	if h, ok := e.router.Lookup(ev.Intent); ok {
		return h(ctx, ev, s)
	}

	e.logger.Warn("no route for intent", zap.String("intent", ev.Intent))
	return ask(MsgHelp, MsgHelp), nil
}

// recoverResult turns handler errors into spoken responses. Validation
// errors re-prompt with their own message; everything else is a generic
// apology. The conversation always stays open.
func (e *Engine) recoverResult(ev TurnEvent, err error) *result {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case StatusInvalidArgument, StatusFailedPrecondition:
			e.logger.Info("recovered input error",
				zap.String("intent", ev.Intent), zap.String("message", cmdErr.Message))
			return ask(cmdErr.Message, cmdErr.Message)
		}
	}
	e.logger.Error("turn failed", zap.String("intent", ev.Intent), zap.Error(err))
	return ask(MsgApology, MsgApology)
}

func (e *Engine) persist(ctx context.Context, userID string, s *session.State) {
	if !session.ShouldSave(s, s.Persisted) {
		return
	}
	data := session.BuildCartData(s)
	if err := e.store.Save(ctx, userID, data); err != nil {
		e.logger.Error("session save failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	s.Persisted = data
	s.Dirty = false
}

func (e *Engine) handleLaunch(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Cart) > 0 {
		quote, err := e.calc.Calculate(ctx, s.Cart, s.DeliveryFee())
		if err == nil {
			return ask(MsgWelcome+" "+msgCartContents(s.Cart, quote.ItemsTotal), MsgHelp), nil
		}
	}
	return ask(MsgWelcome, MsgHelp), nil
}

func (e *Engine) handleHelp(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	return ask(MsgHelp, MsgHelp), nil
}

func (e *Engine) handleStop(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	return &result{speak: MsgGoodbye, end: true}, nil
}

func (e *Engine) handleSessionEnd(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	return &result{end: true}, nil
}

// handleBareYesNo interprets yes/no when no confirmation is armed, based on
// where the pipeline last stood.
func (e *Engine) handleBareYesNo(ctx context.Context, ev TurnEvent, s *session.State, yes bool) (*result, error) {
	if !yes {
		return ask(MsgNothingToDo, MsgHelp), nil
	}
	switch s.LastAction {
	case session.ActionSelectPromotion:
		return e.handleStartPayment(ctx, ev, s)
	case session.ActionConfirmAddress, session.ActionSelectDeliverySlot:
		return e.handleSearchPromotion(ctx, ev, s)
	case session.ActionAddCart, session.ActionReadCart:
		return ask(MsgWhatToSearch, MsgWhatToSearch), nil
	default:
		return ask(MsgHelp, MsgHelp), nil
	}
}
