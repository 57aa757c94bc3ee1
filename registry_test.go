package amount

import (
	"testing"
	"time"
)

func TestFind_Interns(t *testing.T) {
	r := NewRegistry()
	a := r.Find("USD", true)
	b := r.Find("USD", true)
	if a != b {
		t.Error("Find must return the same commodity for the same symbol")
	}
	if r.Find("GBP", false) != nil {
		t.Error("Find without autoCreate must miss")
	}
	if r.Find("", true) != r.Null() {
		t.Error("the empty symbol is the null commodity")
	}
}

func TestFind_DistinctRegistries(t *testing.T) {
	// commodities never leak across registries: same symbol, distinct
	// identities, so amounts in real commodities from different registries
	// are incomparable
	r1, r2 := NewRegistry(), NewRegistry()
	if r1.Find("USD", true) == r2.Find("USD", true) {
		t.Error("two registries must intern distinct commodities")
	}
}

func TestIdents(t *testing.T) {
	r := NewRegistry()
	r.Find("$", true)
	r.Find("EUR", true)
	var idents []uint32
	r.Commodities(func(c *Commodity) bool {
		idents = append(idents, c.ident)
		return true
	})
	// the null commodity is interned first
	want := []uint32{1, 2, 3}
	if len(idents) != len(want) {
		t.Fatalf("got %d commodities, want %d", len(idents), len(want))
	}
	for i := range want {
		if idents[i] != want[i] {
			t.Errorf("ident[%d] = %d, want %d", i, idents[i], want[i])
		}
	}
}

func TestClose(t *testing.T) {
	r := NewRegistry()
	c := r.Find("$", true)
	c.SetUpdater(&recorder{reg: r})
	price := mustParse(t, r, "EUR 0.90")
	cell := price.quantity
	c.AddPrice(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), price)

	tv := r.trueValue
	r.Close()

	if cell.refs != 0 {
		t.Errorf("history price cell refs = %d, want 0 after Close", cell.refs)
	}
	if tv.refs != 0 {
		t.Errorf("true cell refs = %d, want 0 after Close", tv.refs)
	}
	if r.Find("$", false) != nil {
		t.Error("commodities must be gone after Close")
	}
}
