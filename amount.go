package amount

import (
	"fmt"
	"math/big"
	"time"
)

// An Amount is a decimal quantity in a commodity. The zero Amount has no
// quantity and no commodity and stands for "no value": it is the additive
// identity, compares like zero, and serializes as a single byte.
//
// Amounts share their underlying storage. Clone shares, Release gives the
// reference back, and every mutating operation copies on write first, so a
// shared cell is never changed under another holder. An Amount obtained
// from Clone, Round, Value or a constructor owns its reference; a plain
// struct copy does not own anything and must not be Released.
type Amount struct {
	quantity  *bigint
	commodity *Commodity
}

// Commodity returns the amount's commodity, or nil when the amount is
// empty.
func (a Amount) Commodity() *Commodity { return a.commodity }

// Empty reports whether the amount has no quantity.
func (a Amount) Empty() bool { return a.quantity == nil }

// Clone returns an amount sharing this amount's storage. The clone owns
// its reference and must eventually be Released (or handed to an owner
// such as a price history).
func (a Amount) Clone() Amount {
	if a.quantity != nil {
		a.quantity.refs++
	}
	return a
}

// Release gives back the amount's reference to its storage cell,
// destroying the cell when this was the last one. The amount is left
// empty.
func (a *Amount) Release() {
	if a.quantity != nil {
		a.release()
	}
	a.quantity = nil
	a.commodity = nil
}

// release drops one reference from the quantity cell, destroying it at
// zero. Bulk cells are destroyed in place; their slot belongs to the pool.
func (a *Amount) release() {
	q := a.quantity
	q.refs--
	if q.refs == 0 {
		q.destroy()
	}
}

// dup detaches the quantity cell if it is shared, so the caller may
// mutate it in place.
func (a *Amount) dup() {
	if a.quantity.refs > 1 {
		q := copyBigint(a.quantity)
		a.quantity.refs--
		a.quantity = q
	}
}

// Sign returns -1, 0 or +1 according to the sign of the quantity. An
// empty amount has sign 0.
func (a Amount) Sign() int {
	if a.quantity == nil {
		return 0
	}
	return a.quantity.mag.Sign()
}

// IsZero reports whether the amount, truncated to its commodity's display
// precision, is zero. This is the boolean coercion of the engine: an
// amount is "false" when nothing of it would be displayed.
func (a Amount) IsZero() bool {
	if a.quantity == nil {
		return true
	}
	q := a.quantity
	if q.prec <= a.commodity.precision {
		return q.mag.Sign() == 0
	}
	t := new(big.Int).Quo(q.mag, pow10(int(q.prec)-int(a.commodity.precision)))
	return t.Sign() == 0
}

// Add adds amt to a in place. Adding an empty amount is the identity;
// adding to an empty amount shares amt's storage. Both commodities must be
// the same interned object, otherwise ErrCommodityMismatch is returned and
// a is left untouched. The result carries the larger of the two scales.
func (a *Amount) Add(amt Amount) error {
	if amt.quantity == nil {
		return nil
	}
	if a.quantity == nil {
		a.quantity = amt.quantity
		a.quantity.refs++
		a.commodity = amt.commodity
		return nil
	}
	if a.commodity != amt.commodity {
		return fmt.Errorf("adding %q and %q: %w", a.commodity.symbol, amt.commodity.symbol, ErrCommodityMismatch)
	}
	a.dup()
	a.combine(amt, (*big.Int).Add)
	return nil
}

// Sub subtracts amt from a in place, under the same rules as Add.
// Subtracting from an empty amount yields amt negated.
func (a *Amount) Sub(amt Amount) error {
	if amt.quantity == nil {
		return nil
	}
	if a.quantity == nil {
		a.quantity = copyBigint(amt.quantity)
		a.quantity.mag.Neg(a.quantity.mag)
		a.commodity = amt.commodity
		return nil
	}
	if a.commodity != amt.commodity {
		return fmt.Errorf("subtracting %q from %q: %w", amt.commodity.symbol, a.commodity.symbol, ErrCommodityMismatch)
	}
	a.dup()
	a.combine(amt, (*big.Int).Sub)
	return nil
}

// combine applies op to the two magnitudes at a common scale. The receiver
// cell is already unshared.
func (a *Amount) combine(amt Amount, op func(z, x, y *big.Int) *big.Int) {
	q, p := a.quantity, amt.quantity
	switch {
	case q.prec == p.prec:
		op(q.mag, q.mag, p.mag)
	case q.prec < p.prec:
		q.resize(p.prec)
		op(q.mag, q.mag, p.mag)
	default:
		scaled := new(big.Int).Mul(p.mag, pow10(int(q.prec)-int(p.prec)))
		op(q.mag, q.mag, scaled)
	}
}

// Mul multiplies a by amt in place. When either side is empty the receiver
// is left unchanged. The result's scale is the sum of the scales, rounded
// back to the commodity's precision plus the internal headroom when it
// exceeds it.
func (a *Amount) Mul(amt Amount) {
	if amt.quantity == nil || a.quantity == nil {
		return
	}
	a.dup()
	q := a.quantity
	q.mag.Mul(q.mag, amt.quantity.mag)
	q.prec += amt.quantity.prec
	a.trim()
}

// Div divides a by amt in place. It fails with ErrDivideByZero when the
// divisor is empty. The dividend gains extraPrecision fractional digits to
// capture the fractional part, then is rounded like Mul.
func (a *Amount) Div(amt Amount) error {
	if amt.quantity == nil {
		return fmt.Errorf("dividing an amount: %w", ErrDivideByZero)
	}
	if a.quantity == nil {
		return nil
	}
	a.dup()
	q := a.quantity
	q.mag.Mul(q.mag, pow10(int(amt.quantity.prec)+extraPrecision))
	q.mag.Quo(q.mag, amt.quantity.mag)
	q.prec += extraPrecision
	a.trim()
	return nil
}

// trim rounds the quantity back to the commodity's precision plus the
// internal headroom when an operation pushed the scale beyond it.
func (a *Amount) trim() {
	q := a.quantity
	limit := a.commodity.precision + extraPrecision
	if q.prec > limit {
		q.mag = roundTo(q.mag, q.prec, limit)
		q.prec = limit
	}
}

// Neg negates the amount in place.
func (a *Amount) Neg() {
	if a.quantity == nil {
		return
	}
	a.dup()
	a.quantity.mag.Neg(a.quantity.mag)
}

// Round returns the amount rounded half away from zero to the given
// scale. Amounts already at or below that scale are returned as shared
// copies. The result is owned by the caller.
func (a Amount) Round(prec uint16) Amount {
	if a.quantity == nil || a.quantity.prec <= prec {
		return a.Clone()
	}
	q := copyBigint(a.quantity)
	q.mag = roundTo(q.mag, q.prec, prec)
	q.prec = prec
	return Amount{quantity: q, commodity: a.commodity}
}

// Rescale returns the amount at exactly the given scale, truncating when
// scaling down and appending zero digits when scaling up. The scale is
// capped at maxPrecision. The result is owned by the caller.
func (a Amount) Rescale(prec uint16) Amount {
	if prec > maxPrecision {
		prec = maxPrecision
	}
	if a.quantity == nil || a.quantity.prec == prec {
		return a.Clone()
	}
	q := copyBigint(a.quantity)
	q.resize(prec)
	return Amount{quantity: q, commodity: a.commodity}
}

// Value converts the amount through its commodity's price history at the
// given moment (the zero time meaning "latest"). When the amount is empty,
// the commodity carries the NoMarket flag, or no price is known, the
// amount is returned unchanged; otherwise the result is price times
// quantity, rounded to the commodity's display precision. The result is
// owned by the caller.
func (a Amount) Value(moment time.Time) Amount {
	if a.quantity == nil || a.commodity.flags.Has(NoMarket) {
		return a.Clone()
	}
	price := a.commodity.Value(moment)
	if price.quantity == nil {
		return a.Clone()
	}
	price.Mul(a)
	res := price.Round(a.commodity.precision)
	price.Release()
	return res
}

// cmp compares the two amounts at a common scale. The second return is
// false when the amounts are incomparable: both carry a quantity and their
// commodities differ and are both non-null. An empty side compares as
// zero.
func (a Amount) cmp(amt Amount) (int, bool) {
	if a.quantity == nil && amt.quantity == nil {
		return 0, true
	}
	if a.quantity == nil {
		return -amt.quantity.mag.Sign(), true
	}
	if amt.quantity == nil {
		return a.quantity.mag.Sign(), true
	}
	if a.commodity != amt.commodity && !a.commodity.isNull() && !amt.commodity.isNull() {
		return 0, false
	}
	q, p := a.quantity, amt.quantity
	switch {
	case q.prec == p.prec:
		return q.mag.Cmp(p.mag), true
	case q.prec < p.prec:
		scaled := new(big.Int).Mul(q.mag, pow10(int(p.prec)-int(q.prec)))
		return scaled.Cmp(p.mag), true
	default:
		scaled := new(big.Int).Mul(p.mag, pow10(int(q.prec)-int(p.prec)))
		return q.mag.Cmp(scaled), true
	}
}

// Equal reports whether the two amounts denote the same value. Amounts in
// different real commodities are incomparable and never equal.
func (a Amount) Equal(amt Amount) bool {
	c, ok := a.cmp(amt)
	return ok && c == 0
}

// LessThan reports a < amt. False when incomparable.
func (a Amount) LessThan(amt Amount) bool {
	c, ok := a.cmp(amt)
	return ok && c < 0
}

// LessThanOrEqual reports a <= amt. False when incomparable.
func (a Amount) LessThanOrEqual(amt Amount) bool {
	c, ok := a.cmp(amt)
	return ok && c <= 0
}

// GreaterThan reports a > amt. False when incomparable.
func (a Amount) GreaterThan(amt Amount) bool {
	c, ok := a.cmp(amt)
	return ok && c > 0
}

// GreaterThanOrEqual reports a >= amt. False when incomparable.
func (a Amount) GreaterThanOrEqual(amt Amount) bool {
	c, ok := a.cmp(amt)
	return ok && c >= 0
}

// Valid audits the amount: quantity and commodity must be present
// together, and a present cell must still be referenced. It never
// mutates.
func (a Amount) Valid() bool {
	if a.quantity != nil {
		if a.commodity == nil {
			return false
		}
		if a.quantity.refs == 0 {
			return false
		}
	} else if a.commodity != nil {
		return false
	}
	return true
}
