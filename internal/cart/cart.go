// Package cart implements the pure cart arithmetic: merging added quantities
// into existing lines and splitting or removing lines on delete. Functions
// here never touch collaborators and never mutate their inputs.
package cart

import "github.com/voicecart/voicecart/internal/shopping"

type Item struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Brand      string `json:"brand,omitempty"`
	UnitPrice  int    `json:"unitPrice"`
	PromoPrice int    `json:"promoPrice,omitempty"`
	Quantity   int    `json:"quantity"`
}

// Cart is insertion-ordered; order is the read-aloud order. Product IDs are
// unique within a cart.
type Cart []Item

type AddResult struct {
	Line        Item
	NewQuantity int
	Merged      bool
}

type RemoveResult struct {
	Line              Item
	Remaining         int
	RemovedCompletely bool
	Found             bool
}

// AddOrMerge increments the existing line for the product or appends a new
// one. Caller validates qty >= 1.
func AddOrMerge(c Cart, p shopping.Product, qty int) (Cart, AddResult) {
	out := make(Cart, len(c))
	copy(out, c)

	for i := range out {
		if out[i].ProductID == p.ID {
			out[i].Quantity += qty
			return out, AddResult{Line: out[i], NewQuantity: out[i].Quantity, Merged: true}
		}
	}

	line := Item{
		ProductID:  p.ID,
		Name:       p.Name,
		Brand:      p.Brand,
		UnitPrice:  p.Price,
		PromoPrice: p.PromoPrice,
		Quantity:   qty,
	}
	out = append(out, line)
	return out, AddResult{Line: line, NewQuantity: qty}
}

// RemoveOrReduce decrements the line for productID by qty, removing it when
// the reduction reaches zero. all=true removes the line regardless of qty.
// An unknown productID is a no-op with Found=false; callers must treat that
// as "not found", not as "removed".
func RemoveOrReduce(c Cart, productID string, qty int, all bool) (Cart, RemoveResult) {
	for i, line := range c {
		if line.ProductID != productID {
			continue
		}

		if all || qty >= line.Quantity {
			out := make(Cart, 0, len(c)-1)
			out = append(out, c[:i]...)
			out = append(out, c[i+1:]...)
			return out, RemoveResult{Line: line, Remaining: 0, RemovedCompletely: true, Found: true}
		}

		out := make(Cart, len(c))
		copy(out, c)
		out[i].Quantity -= qty
		return out, RemoveResult{Line: out[i], Remaining: out[i].Quantity, Found: true}
	}

	return c, RemoveResult{}
}

// Find returns the line for productID, if present.
func Find(c Cart, productID string) (Item, bool) {
	for _, line := range c {
		if line.ProductID == productID {
			return line, true
		}
	}
	return Item{}, false
}

// TotalQuantity sums line quantities across the cart.
func TotalQuantity(c Cart) int {
	var total int
	for _, line := range c {
		total += line.Quantity
	}
	return total
}
