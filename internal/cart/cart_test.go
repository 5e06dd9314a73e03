package cart

import (
	"testing"

	"github.com/voicecart/voicecart/internal/shopping"
)

var milk = shopping.Product{ID: "p1", Name: "Milk", Brand: "Dairy Farm", Price: 100}
var bread = shopping.Product{ID: "p2", Name: "Bread", Price: 150, PromoPrice: 120}

func TestAddOrMerge_AppendsNewLine(t *testing.T) {
	c, res := AddOrMerge(nil, milk, 2)

	if len(c) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c))
	}
	if res.Merged {
		t.Error("expected new line, not a merge")
	}
	if res.NewQuantity != 2 {
		t.Errorf("expected quantity 2, got %d", res.NewQuantity)
	}
	if c[0].UnitPrice != 100 {
		t.Errorf("expected unit price 100, got %d", c[0].UnitPrice)
	}
}

func TestAddOrMerge_MergesExistingLine(t *testing.T) {
	c, _ := AddOrMerge(nil, milk, 2)
	c, res := AddOrMerge(c, milk, 3)

	if len(c) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c))
	}
	if !res.Merged {
		t.Error("expected merge")
	}
	if res.NewQuantity != 5 {
		t.Errorf("expected quantity 5, got %d", res.NewQuantity)
	}
}

func TestAddOrMerge_RepeatedAddsSumQuantities(t *testing.T) {
	for _, pair := range [][2]int{{1, 1}, {1, 5}, {3, 4}, {10, 1}} {
		c, _ := AddOrMerge(nil, milk, pair[0])
		c, res := AddOrMerge(c, milk, pair[1])
		if res.NewQuantity != pair[0]+pair[1] {
			t.Errorf("add %d then %d: expected %d, got %d", pair[0], pair[1], pair[0]+pair[1], res.NewQuantity)
		}
		if c[0].Quantity != pair[0]+pair[1] {
			t.Errorf("cart line quantity mismatch: %d", c[0].Quantity)
		}
	}
}

func TestAddOrMerge_PreservesInsertionOrder(t *testing.T) {
	c, _ := AddOrMerge(nil, milk, 1)
	c, _ = AddOrMerge(c, bread, 1)
	c, _ = AddOrMerge(c, milk, 1)

	if c[0].ProductID != "p1" || c[1].ProductID != "p2" {
		t.Errorf("insertion order not preserved: %+v", c)
	}
}

func TestAddOrMerge_DoesNotMutateInput(t *testing.T) {
	orig, _ := AddOrMerge(nil, milk, 2)
	AddOrMerge(orig, milk, 3)

	if orig[0].Quantity != 2 {
		t.Errorf("input cart mutated: quantity %d", orig[0].Quantity)
	}
}

func TestRemoveOrReduce_ReducesQuantity(t *testing.T) {
	c, _ := AddOrMerge(nil, milk, 5)
	c, res := RemoveOrReduce(c, "p1", 2, false)

	if !res.Found {
		t.Fatal("expected line to be found")
	}
	if res.RemovedCompletely {
		t.Error("expected partial reduction")
	}
	if res.Remaining != 3 {
		t.Errorf("expected remaining 3, got %d", res.Remaining)
	}
	if c[0].Quantity != 3 {
		t.Errorf("expected cart quantity 3, got %d", c[0].Quantity)
	}
}

func TestRemoveOrReduce_RemovesWhenQuantityReachesZero(t *testing.T) {
	c, _ := AddOrMerge(nil, milk, 2)
	c, res := RemoveOrReduce(c, "p1", 2, false)

	if !res.RemovedCompletely {
		t.Error("expected complete removal")
	}
	if len(c) != 0 {
		t.Errorf("expected empty cart, got %d lines", len(c))
	}
}

func TestRemoveOrReduce_RemovesWhenQuantityExceedsCurrent(t *testing.T) {
	c, _ := AddOrMerge(nil, milk, 2)
	c, res := RemoveOrReduce(c, "p1", 99, false)

	if !res.RemovedCompletely {
		t.Error("expected complete removal")
	}
	if res.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", res.Remaining)
	}
	if _, ok := Find(c, "p1"); ok {
		t.Error("line still present after removal")
	}
}

func TestRemoveOrReduce_AllRemovesEntireLine(t *testing.T) {
	c, _ := AddOrMerge(nil, milk, 7)
	c, res := RemoveOrReduce(c, "p1", 0, true)

	if !res.RemovedCompletely {
		t.Error("expected complete removal with all=true")
	}
	if len(c) != 0 {
		t.Errorf("expected empty cart, got %d lines", len(c))
	}
}

func TestRemoveOrReduce_UnknownProductIsNoop(t *testing.T) {
	c, _ := AddOrMerge(nil, milk, 1)
	out, res := RemoveOrReduce(c, "missing", 1, false)

	if res.Found {
		t.Error("expected Found=false for unknown product")
	}
	if res.RemovedCompletely {
		t.Error("unknown product must not report removal")
	}
	if len(out) != 1 {
		t.Errorf("cart changed on unknown product: %+v", out)
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	base, _ := AddOrMerge(nil, bread, 3)

	c, _ := AddOrMerge(base, milk, 4)
	c, _ = RemoveOrReduce(c, "p1", 4, false)

	if len(c) != len(base) {
		t.Fatalf("round trip changed cart size: %d vs %d", len(c), len(base))
	}
	for i := range base {
		if c[i] != base[i] {
			t.Errorf("line %d differs after round trip: %+v vs %+v", i, c[i], base[i])
		}
	}
}
