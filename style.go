package amount

import (
	"strings"

	"github.com/Rhymond/go-money"
)

// SetCurrencyDefaults seeds the commodity's style from the ISO-4217
// currency table when its symbol is a known currency code: display
// precision, digit grouping, decimal separator and symbol placement. It
// reports whether the symbol was recognized.
//
// Precision is raise-only, and flags are only added, so defaults never
// undo a style already established by parsing.
func (c *Commodity) SetCurrencyDefaults() bool {
	cur := money.GetCurrency(c.symbol)
	if cur == nil {
		return false
	}
	c.SetPrecision(uint16(cur.Fraction))
	var flags Style
	if cur.Decimal == "," {
		flags |= European
	}
	if cur.Thousand != "" {
		flags |= Thousands
	}
	// Template is "$1" for prefix notations and "1 $" for suffix ones.
	if i := strings.Index(cur.Template, "1"); i == 0 {
		flags |= Suffixed
		if strings.Contains(cur.Template, " ") {
			flags |= Separated
		}
	}
	c.SetFlags(flags)
	return true
}

// FindCurrency interns the commodity for an ISO-4217 code, seeding its
// style from the currency table on first sight.
func (r *Registry) FindCurrency(code string) *Commodity {
	c, ok := r.commodities[code]
	if ok {
		return c
	}
	c = r.Find(code, true)
	c.SetCurrencyDefaults()
	return c
}
