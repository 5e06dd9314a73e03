package dialog

import (
	"fmt"
	"strings"

	"github.com/voicecart/voicecart/internal/cart"
	"github.com/voicecart/voicecart/internal/shopping"
)

// Spoken message constants and builders. Every user-facing string lives
// here so handlers stay free of copy.
const (
	MsgWelcome = "Welcome to Voice Cart. You can search for products, manage your cart, or say checkout when you're ready."
	MsgHelp    = "You can say things like: search for milk, add two to my cart, read my cart, choose a delivery slot, or start payment. What would you like to do?"
	MsgGoodbye = "Thank you for shopping with Voice Cart. Goodbye."

	MsgApology        = "Sorry, something went wrong. Please try again."
	MsgProcessingErr  = "Sorry, there was an error while processing. Please try again."
	MsgNothingToDo    = "Okay. What would you like to do next?"
	MsgWhatToSearch   = "What would you like to search for?"
	MsgAskQuantity    = "How many would you like?"
	MsgAskRemoveQty   = "How many should I remove? You can also say all."
	MsgCartEmpty      = "Your cart is empty."
	MsgCartKept       = "Okay, I kept your cart as it is."
	MsgCartCleared    = "Your cart has been cleared."
	MsgOrderStopped   = "Your order has been stopped and your cart cleared. Goodbye."
	MsgOrderKept      = "Okay, your order continues. What would you like to do next?"
	MsgAddressCancel  = "Okay, I won't use that address. You can choose another delivery address whenever you like."
	MsgNoAddress      = "You don't have a delivery address on file. Please register one in the companion app first."
	MsgAskShareholder = "Do you have a shareholder card?"
	MsgPaymentCancel  = "Okay, I won't complete the payment. Your cart is unchanged."
	MsgPaymentFailed  = "I'm sorry, the payment could not be completed. Please try again."
	MsgAskProceedPay  = "Shall I proceed to payment?"
	MsgAskPromotions  = "Shall I check available promotions?"
	MsgNoPromotions   = "There are no promotions available right now."
)

func msgRange(n int) string {
	return fmt.Sprintf("Please say a number from 1 to %d.", n)
}

func msgProductList(products []shopping.Product) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("I found %d products. ", len(products)))
	for i, p := range products {
		b.WriteString(fmt.Sprintf("%d: %s, %d. ", i+1, p.Name, p.EffectivePrice()))
	}
	b.WriteString("Which number would you like?")
	return b.String()
}

func msgAdded(res cart.AddResult, totalItems int) string {
	return fmt.Sprintf("I added %d of %s. Your cart now has %d items. Anything else?",
		res.Line.Quantity, res.Line.Name, totalItems)
}

func msgMerged(res cart.AddResult, totalItems int) string {
	return fmt.Sprintf("I added more %s; you now have %d of it and %d items in total. Anything else?",
		res.Line.Name, res.NewQuantity, totalItems)
}

func msgRemoved(res cart.RemoveResult) string {
	if res.RemovedCompletely {
		return fmt.Sprintf("I removed %s from your cart.", res.Line.Name)
	}
	return fmt.Sprintf("I removed some %s; %d remain in your cart.", res.Line.Name, res.Remaining)
}

func msgNotInCart(name string) string {
	return fmt.Sprintf("%s isn't in your cart.", name)
}

func msgCartContents(items cart.Cart, itemsTotal int) string {
	var b strings.Builder
	b.WriteString("Your cart has: ")
	for i, line := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%d of %s", line.Quantity, line.Name))
	}
	b.WriteString(fmt.Sprintf(". The items total is %d.", itemsTotal))
	return b.String()
}

func msgConfirmClear(totalItems int) string {
	return fmt.Sprintf("Your cart has %d items. Are you sure you want to clear it?", totalItems)
}

func msgSlotList(slots []shopping.DeliverySlot) string {
	var b strings.Builder
	b.WriteString("Here are the available delivery slots. ")
	for i, s := range slots {
		if s.Fee > 0 {
			b.WriteString(fmt.Sprintf("%d: %s, fee %d. ", i+1, s.Label, s.Fee))
		} else {
			b.WriteString(fmt.Sprintf("%d: %s, free delivery. ", i+1, s.Label))
		}
	}
	b.WriteString("Which number would you like?")
	return b.String()
}

func msgSlotChosen(slot shopping.DeliverySlot) string {
	return fmt.Sprintf("Your delivery is set to %s.", slot.Label)
}

func msgAddressList(addresses []shopping.Address) string {
	var b strings.Builder
	b.WriteString("You have these delivery addresses. ")
	for i, a := range addresses {
		b.WriteString(fmt.Sprintf("%d: %s. ", i+1, a.Label))
	}
	b.WriteString("Which number should I deliver to?")
	return b.String()
}

func msgConfirmDefaultAddress(a shopping.Address) string {
	return fmt.Sprintf("I found one address on file: %s. Should I deliver there?", a.Label)
}

func msgAddressChosen(a shopping.Address) string {
	return fmt.Sprintf("I'll deliver to %s. %s", a.Label, MsgAskPromotions)
}

func msgPromoAvailable(promos []shopping.Promotion) string {
	var b strings.Builder
	b.WriteString("These promotions are available. ")
	for i, p := range promos {
		b.WriteString(fmt.Sprintf("%d: %s, %d off. ", i+1, p.Name, p.DiscountAmount))
	}
	b.WriteString("Say the number to apply one, or say start payment.")
	return b.String()
}

func msgPromoShortfall(promos []shopping.Promotion, itemsTotal int) string {
	var b strings.Builder
	b.WriteString("No promotion applies to your order yet. ")
	for _, p := range promos {
		shortfall := p.OrderThreshold - itemsTotal
		b.WriteString(fmt.Sprintf("%s needs an order of %d; you're %d short. ", p.Name, p.OrderThreshold, shortfall))
	}
	b.WriteString("Would you like to keep shopping?")
	return b.String()
}

func msgMethodList(methods []string) string {
	var b strings.Builder
	b.WriteString("How would you like to pay? ")
	for i, m := range methods {
		b.WriteString(fmt.Sprintf("%d: %s. ", i+1, m))
	}
	b.WriteString("Which number would you like?")
	return b.String()
}

func msgAskUsePoints(balance int) string {
	return fmt.Sprintf("You have %d loyalty points. Would you like to use them?", balance)
}

func msgAskHowManyPoints(balance int) string {
	return fmt.Sprintf("How many of your %d points would you like to use?", balance)
}

func msgPointsRange(balance int) string {
	return fmt.Sprintf("Please say a number of points between 1 and %d.", balance)
}

func msgOrderSummary(text string, pointsUsed, rewardPoints, finalTotal int) string {
	var b strings.Builder
	b.WriteString(text)
	if pointsUsed > 0 {
		b.WriteString(fmt.Sprintf(" Using %d loyalty points, you'll pay %d.", pointsUsed, finalTotal))
	}
	b.WriteString(fmt.Sprintf(" You'll earn %d reward points. Shall I complete the payment?", rewardPoints))
	return b.String()
}

func msgPaid(amount, rewardPoints int) string {
	return fmt.Sprintf("Your payment of %d is complete and you earned %d reward points. Thank you for your order!", amount, rewardPoints)
}
