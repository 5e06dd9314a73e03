package dialog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/voicecart/voicecart/internal/cart"
	"github.com/voicecart/voicecart/internal/numparse"
	"github.com/voicecart/voicecart/internal/session"
	"github.com/voicecart/voicecart/internal/shopping"
)

const maxSearchResults = 5

func (e *Engine) handleSearchProduct(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	query := strings.TrimSpace(ev.Slot(SlotProductName))
	if query == "" {
		return ask(MsgWhatToSearch, MsgWhatToSearch), nil
	}

	products, err := e.catalog.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := searchProducts(products, query)
	if len(matches) == 0 {
		return ask("I couldn't find anything matching "+query+". "+MsgWhatToSearch, MsgWhatToSearch), nil
	}
	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}

	s.Products = matches
	s.LastAction = session.ActionSearchProduct
	e.logger.Info("product search", zap.String("query", query), zap.Int("matches", len(matches)))

	return ask(msgProductList(matches), msgRange(len(matches))), nil
}

// handleAddCart adds a product to the cart. The product comes from the name
// slot or from a prior search selection; the quantity from the quantity slot
// or a follow-up number utterance.
func (e *Engine) handleAddCart(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	product, err := e.resolveProduct(ctx, ev, s)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return ask(MsgWhatToSearch, MsgWhatToSearch), nil
	}

	qty, ok := numparse.Number(ev.Slot(SlotQuantity))
	if !ok {
		// Park the add and wait for a quantity utterance.
		s.PendingProductID = product.ID
		s.LastAction = session.ActionAddCart
		return ask(product.Name+". "+MsgAskQuantity, MsgAskQuantity), nil
	}
	if qty < 1 {
		return nil, NewInvalidArgument("The quantity must be at least 1. " + MsgAskQuantity)
	}

	return e.addToCart(s, *product, qty)
}

func (e *Engine) addToCart(s *session.State, product shopping.Product, qty int) (*result, error) {
	newCart, res := cart.AddOrMerge(s.Cart, product, qty)
	s.Cart = newCart
	s.PendingProductID = ""
	s.LastAction = session.ActionAddCart
	s.MarkDirty()

	e.logger.Info("item added",
		zap.String("product_id", product.ID), zap.Int("quantity", qty), zap.Bool("merged", res.Merged))

	total := cart.TotalQuantity(s.Cart)
	if res.Merged {
		return ask(msgMerged(res, total), MsgHelp), nil
	}
	return ask(msgAdded(res, total), MsgHelp), nil
}

func (e *Engine) handleDeleteCart(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Cart) == 0 {
		return ask(MsgCartEmpty, MsgWhatToSearch), nil
	}

	name := strings.TrimSpace(ev.Slot(SlotProductName))
	line, found := cart.Item{}, false
	switch {
	case name != "":
		line, found = findCartLine(s.Cart, name)
		if !found {
			return ask(msgNotInCart(name), MsgHelp), nil
		}
	case s.PendingProductID != "":
		line, found = cart.Find(s.Cart, s.PendingProductID)
		if !found {
			return ask(MsgNothingToDo, MsgHelp), nil
		}
	default:
		return ask("Which product should I remove?", "Which product should I remove?"), nil
	}

	rawQty := ev.Slot(SlotQuantity)
	if numparse.IsAll(rawQty) {
		return e.removeFromCart(s, line.ProductID, 0, true)
	}
	qty, ok := numparse.Number(rawQty)
	if !ok {
		s.PendingProductID = line.ProductID
		s.LastAction = session.ActionDeleteCart
		return ask(line.Name+". "+MsgAskRemoveQty, MsgAskRemoveQty), nil
	}
	return e.removeFromCart(s, line.ProductID, qty, false)
}

func (e *Engine) removeFromCart(s *session.State, productID string, qty int, all bool) (*result, error) {
	newCart, res := cart.RemoveOrReduce(s.Cart, productID, qty, all)
	if !res.Found {
		return ask(msgNotInCart(productID), MsgHelp), nil
	}
	s.Cart = newCart
	s.PendingProductID = ""
	s.LastAction = session.ActionDeleteCart
	s.MarkDirty()

	e.logger.Info("item removed",
		zap.String("product_id", productID), zap.Int("quantity", qty), zap.Bool("complete", res.RemovedCompletely))

	return ask(msgRemoved(res), MsgHelp), nil
}

func (e *Engine) handleReadCart(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Cart) == 0 {
		return ask(MsgCartEmpty+" "+MsgWhatToSearch, MsgWhatToSearch), nil
	}

	quote, err := e.calc.Calculate(ctx, s.Cart, s.DeliveryFee())
	if err != nil {
		return nil, err
	}
	s.LastAction = session.ActionReadCart
	return ask(msgCartContents(s.Cart, quote.ItemsTotal), MsgHelp), nil
}

func (e *Engine) handleClearCart(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Cart) == 0 {
		return ask(MsgCartEmpty, MsgWhatToSearch), nil
	}
	s.ArmPending(session.PendingData{Kind: session.PendingClearCart})
	confirm := msgConfirmClear(cart.TotalQuantity(s.Cart))
	return ask(confirm, confirm), nil
}

func (e *Engine) handleStopOrder(ctx context.Context, ev TurnEvent, s *session.State) (*result, error) {
	if len(s.Cart) == 0 && s.Payment == nil {
		return ask("There's no order in progress. "+MsgWhatToSearch, MsgWhatToSearch), nil
	}
	s.ArmPending(session.PendingData{Kind: session.PendingStopOrder})
	return ask("Should I stop your order and clear the cart?", "Should I stop your order?"), nil
}

// resolveProduct finds the product to add: explicit name slot first, then
// the selection parked by a prior search or quantity prompt.
func (e *Engine) resolveProduct(ctx context.Context, ev TurnEvent, s *session.State) (*shopping.Product, error) {
	name := strings.TrimSpace(ev.Slot(SlotProductName))
	if name == "" && s.PendingProductID == "" {
		return nil, nil
	}

	products, err := e.catalog.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	if name != "" {
		matches := searchProducts(products, name)
		if len(matches) == 0 {
			return nil, NewInvalidArgument("I couldn't find " + name + ". " + MsgWhatToSearch)
		}
		return &matches[0], nil
	}

	for i := range products {
		if products[i].ID == s.PendingProductID {
			return &products[i], nil
		}
	}
	return nil, NewFailedPrecondition(MsgWhatToSearch)
}

func searchProducts(products []shopping.Product, query string) []shopping.Product {
	query = strings.ToLower(query)
	var matches []shopping.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Brand), query) ||
			matchesKeyword(p, query) {
			matches = append(matches, p)
		}
	}
	return matches
}

func matchesKeyword(p shopping.Product, query string) bool {
	for _, k := range p.Keywords {
		if strings.ToLower(k) == query {
			return true
		}
	}
	return false
}

func findCartLine(c cart.Cart, name string) (cart.Item, bool) {
	name = strings.ToLower(name)
	for _, line := range c {
		if strings.Contains(strings.ToLower(line.Name), name) {
			return line, true
		}
	}
	return cart.Item{}, false
}
