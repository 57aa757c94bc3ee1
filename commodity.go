package amount

import (
	"sort"
	"time"
)

// Style is the set of display flags attached to a commodity. Flags are only
// ever added: parsing a new notation for a commodity enriches its style.
type Style uint16

const (
	// Suffixed prints the symbol after the digits instead of before.
	Suffixed Style = 1 << iota
	// Separated prints whitespace between the symbol and the digits.
	Separated
	// Thousands groups the integer digits in threes.
	Thousands
	// European swaps the roles of '.' and ',' in the output.
	European
	// NoMarket excludes the commodity from price lookup: Value returns
	// the amount unchanged.
	NoMarket
)

// Has reports whether all flags in s are set.
func (f Style) Has(s Style) bool { return f&s == s }

// An Updater is consulted on every valuation so an external source may
// refresh the price history or adjust the returned price.
//
// moment is the requested time, date the timestamp of the matched history
// row (zero when none matched), last the newest timestamp in the history
// (zero when empty). The updater may overwrite price, including setting a
// price where none was found. It must not call back into Value on the same
// commodity.
type Updater interface {
	Update(c *Commodity, moment, date, last time.Time, price *Amount)
}

// A Commodity is an interned symbol with a display style and a dated price
// history. Commodities are compared by identity: two amounts share a
// commodity iff their pointers are equal. Use a Registry to obtain one;
// never construct a Commodity directly.
type Commodity struct {
	symbol    string
	quoted    bool
	precision uint16
	flags     Style
	history   []pricePoint
	updater   Updater
	ident     uint32
}

// pricePoint is one row of a commodity's price history: the price of one
// unit of the commodity, expressed in some other commodity, at a given
// time. Rows are kept sorted by time.
type pricePoint struct {
	when  time.Time
	price Amount
}

// Symbol returns the commodity's symbol, without quotes.
func (c *Commodity) Symbol() string { return c.symbol }

// Quoted reports whether the symbol must be re-emitted in double quotes.
func (c *Commodity) Quoted() bool { return c.quoted }

// Precision returns the display precision. It only ever grows: parsing an
// amount with more fractional digits raises it.
func (c *Commodity) Precision() uint16 { return c.precision }

// Flags returns the commodity's display style.
func (c *Commodity) Flags() Style { return c.flags }

// SetFlags adds display flags to the commodity's style.
func (c *Commodity) SetFlags(s Style) { c.flags |= s }

// SetPrecision raises the display precision. Lower values are ignored.
func (c *Commodity) SetPrecision(p uint16) {
	if p > c.precision {
		c.precision = p
	}
}

// SetUpdater installs the hook consulted on every valuation.
func (c *Commodity) SetUpdater(u Updater) { c.updater = u }

// isNull reports whether this is the registry's dimensionless commodity.
func (c *Commodity) isNull() bool { return c.symbol == "" }

// AddPrice records the price of one unit of the commodity at the given
// time, replacing any price already recorded at that exact time.
//
// The history takes ownership of price: the caller must not Release it.
func (c *Commodity) AddPrice(when time.Time, price Amount) {
	i := sort.Search(len(c.history), func(i int) bool {
		return !c.history[i].when.Before(when)
	})
	if i < len(c.history) && c.history[i].when.Equal(when) {
		old := c.history[i].price
		c.history[i].price = price
		old.Release()
		return
	}
	c.history = append(c.history, pricePoint{})
	copy(c.history[i+1:], c.history[i:])
	c.history[i] = pricePoint{when: when, price: price}
}

// Prices iterates the history in chronological order.
func (c *Commodity) Prices(yield func(when time.Time, price Amount) bool) {
	for _, p := range c.history {
		if !yield(p.when, p.price) {
			return
		}
	}
}

// Value returns the price of one unit of the commodity at the given
// moment: the most recent history row not after moment, or the newest row
// when moment is the zero time. The updater, if any, is consulted and may
// override the result. The returned amount is owned by the caller; it is
// empty when no price is known.
func (c *Commodity) Value(moment time.Time) Amount {
	var date time.Time
	var price Amount
	for i := len(c.history) - 1; i >= 0; i-- {
		if moment.IsZero() || !c.history[i].when.After(moment) {
			date = c.history[i].when
			price = c.history[i].price.Clone()
			break
		}
	}
	if c.updater != nil {
		var last time.Time
		if n := len(c.history); n > 0 {
			last = c.history[n-1].when
		}
		c.updater.Update(c, moment, date, last, &price)
	}
	return price
}

// Valid audits the commodity's history: every price must itself be valid.
// It never mutates.
func (c *Commodity) Valid() bool {
	for _, p := range c.history {
		if !p.price.Valid() {
			return false
		}
	}
	return true
}
