package amount

import (
	"math/big"
	"strings"
)

// String renders the amount under its commodity's style: the quantity is
// rounded to the display precision, the symbol placed and quoted as the
// style dictates, integer digits grouped when the style groups them, and
// the fraction zero padded to the display precision. The empty amount
// renders as the empty string.
//
// The whole string is built in one buffer, so width and fill applied by a
// formatting verb cover the symbol and the digits together.
func (a Amount) String() string {
	if a.quantity == nil {
		return ""
	}
	c, q := a.commodity, a.quantity

	// round to the display precision, then split around the point
	var at *big.Int
	switch {
	case c.precision < q.prec:
		at = roundTo(q.mag, q.prec, c.precision)
	case c.precision > q.prec:
		at = new(big.Int).Mul(q.mag, pow10(int(c.precision)-int(q.prec)))
	default:
		at = new(big.Int).Set(q.mag)
	}
	whole, frac := at, new(big.Int)
	if c.precision > 0 {
		whole.QuoRem(at, pow10(int(c.precision)), frac)
	}
	negative := whole.Sign() < 0 || frac.Sign() < 0
	whole.Abs(whole)
	frac.Abs(frac)

	var out strings.Builder
	if !c.flags.Has(Suffixed) {
		writeSymbol(&out, c)
		if c.flags.Has(Separated) {
			out.WriteByte(' ')
		}
	}
	if negative {
		out.WriteByte('-')
	}

	digits := whole.String()
	if c.flags.Has(Thousands) {
		sep := byte(',')
		if c.flags.Has(European) {
			sep = '.'
		}
		writeGrouped(&out, digits, sep)
	} else {
		out.WriteString(digits)
	}

	if c.precision > 0 {
		if c.flags.Has(European) {
			out.WriteByte(',')
		} else {
			out.WriteByte('.')
		}
		f := frac.String()
		for i := len(f); i < int(c.precision); i++ {
			out.WriteByte('0')
		}
		out.WriteString(f)
	}

	if c.flags.Has(Suffixed) {
		if c.flags.Has(Separated) {
			out.WriteByte(' ')
		}
		writeSymbol(&out, c)
	}
	return out.String()
}

func writeSymbol(out *strings.Builder, c *Commodity) {
	if c.quoted {
		out.WriteByte('"')
		out.WriteString(c.symbol)
		out.WriteByte('"')
	} else {
		out.WriteString(c.symbol)
	}
}

// writeGrouped emits the integer digits in groups of three from the
// right.
func writeGrouped(out *strings.Builder, digits string, sep byte) {
	first := len(digits) % 3
	if first == 0 {
		first = 3
	}
	if first >= len(digits) {
		out.WriteString(digits)
		return
	}
	out.WriteString(digits[:first])
	for i := first; i < len(digits); i += 3 {
		out.WriteByte(sep)
		out.WriteString(digits[i : i+3])
	}
}
