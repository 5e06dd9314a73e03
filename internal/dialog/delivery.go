package dialog

import (
	"context"

	"go.uber.org/zap"

	"github.com/voicecart/voicecart/internal/numparse"
	"github.com/voicecart/voicecart/internal/session"
)

func (e *Engine) handleSearchDeliverySlot(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Cart) == 0 {
		return nil, NewFailedPrecondition(MsgCartEmpty + " Add something before choosing a delivery slot.")
	}

	slots, err := e.slots.GetAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return ask("There are no delivery slots available right now. Please try again later.", MsgHelp), nil
	}

	s.Slots = slots
	s.LastAction = session.ActionSearchDeliverySlot
	return ask(msgSlotList(slots), msgRange(len(slots))), nil
}

func (e *Engine) handleSelectDeliverySlot(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Slots) == 0 {
		return nil, NewFailedPrecondition("Let's look at delivery slots first. Say: search delivery slots.")
	}
	index, ok := numparse.Number(ev.Slot(SlotNumber))
	if !ok {
		return nil, NewInvalidArgument(msgRange(len(s.Slots)))
	}
	return e.selectDeliverySlot(ctx, s, index)
}

func (e *Engine) selectDeliverySlot(ctx context.Context, s *session.State, index int) (*result, error) {
	if len(s.Slots) == 0 {
		return nil, NewFailedPrecondition("Let's look at delivery slots first. Say: search delivery slots.")
	}
	if index < 1 || index > len(s.Slots) {
		return nil, NewInvalidArgument(msgRange(len(s.Slots)))
	}

	slot := s.Slots[index-1]
	s.Delivery = &slot
	s.LastAction = session.ActionSelectDeliverySlot
	s.MarkDirty()
	e.logger.Info("delivery slot chosen", zap.String("slot_id", slot.ID))

	// No address on file yet: silently chain into address search. This is
	// the only step that starts another step without asking first.
	if s.DeliveryAddress == nil {
		chained, err := e.handleSearchDeliveryAddress(ctx, TurnEvent{}, s)
		if err != nil {
			return nil, err
		}
		chained.speak = msgSlotChosen(slot) + " " + chained.speak
		return chained, nil
	}

	return ask(msgSlotChosen(slot)+" "+MsgAskPromotions, MsgAskPromotions), nil
}

func (e *Engine) handleSearchDeliveryAddress(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	addresses, err := e.addresses.List(ctx)
	if err != nil {
		return nil, err
	}

	switch len(addresses) {
	case 0:
		return ask(MsgNoAddress, MsgHelp), nil

	case 1:
		// A single address short-circuits the numbered menu into a yes/no
		// default-address confirmation.
		s.ArmPending(session.PendingData{Kind: session.PendingDefaultAddress, AddressIndex: 1})
		confirm := msgConfirmDefaultAddress(addresses[0])
		return ask(confirm, confirm), nil

	default:
		s.Addresses = addresses
		s.LastAction = session.ActionSearchDeliveryAddress
		return ask(msgAddressList(addresses), msgRange(len(addresses))), nil
	}
}

func (e *Engine) handleSelectDeliveryAddress(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Addresses) == 0 {
		return nil, NewFailedPrecondition("Let's look at your addresses first. Say: search delivery addresses.")
	}
	index, ok := numparse.Number(ev.Slot(SlotNumber))
	if !ok {
		return nil, NewInvalidArgument(msgRange(len(s.Addresses)))
	}
	return e.selectDeliveryAddress(ctx, s, index)
}

func (e *Engine) selectDeliveryAddress(ctx context.Context, s *session.State, index int) (*result, error) {
	if len(s.Addresses) == 0 {
		return nil, NewFailedPrecondition("Let's look at your addresses first. Say: search delivery addresses.")
	}
	if index < 1 || index > len(s.Addresses) {
		return nil, NewInvalidArgument(msgRange(len(s.Addresses)))
	}

	address := s.Addresses[index-1]
	s.DeliveryAddress = &address
	s.LastAction = session.ActionConfirmAddress
	s.MarkDirty()
	e.logger.Info("delivery address chosen", zap.String("address_id", address.ID))

	return ask(msgAddressChosen(address), MsgAskPromotions), nil
}
