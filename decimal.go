package amount

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimal returns the amount's quantity as a decimal. The decimal's
// exponent is the negated scale, so no precision is lost. The empty
// amount converts to decimal zero.
func (a Amount) Decimal() decimal.Decimal {
	if a.quantity == nil {
		return decimal.Decimal{}
	}
	// copy the magnitude: the cell may later be mutated in place
	return decimal.NewFromBigInt(new(big.Int).Set(a.quantity.mag), -int32(a.quantity.prec))
}

// FromDecimal returns an amount of the given symbol's commodity holding
// d. The decimal's exponent carries the scale explicitly, which is why
// there is no float constructor: a float does not say how many fractional
// digits it means. Scales beyond maxPrecision are rounded half away from
// zero to maxPrecision.
//
// As with parsing, the commodity's display precision is raised when d
// carries more fractional digits.
func (r *Registry) FromDecimal(d decimal.Decimal, symbol string) Amount {
	c := r.Find(symbol, true)

	if d.Exponent() < -maxPrecision {
		d = d.Round(maxPrecision) // half away from zero, like the engine
	}
	q := newBigint()
	exp := d.Exponent()
	if exp >= 0 {
		q.mag = new(big.Int).Mul(d.Coefficient(), pow10(int(exp)))
	} else {
		q.mag = new(big.Int).Set(d.Coefficient())
		q.prec = uint16(-exp)
	}
	if q.prec > c.precision {
		c.precision = q.prec
	}
	return Amount{quantity: q, commodity: c}
}
