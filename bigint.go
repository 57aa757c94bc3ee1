package amount

import "math/big"

// A bigint is the shared storage cell behind an Amount: an arbitrary
// precision magnitude and the number of decimal digits it carries after the
// point. The represented value is mag × 10^(-prec).
//
// Cells are reference counted. Arithmetic copies on write when a cell is
// shared, so two amounts may point at the same cell until one of them
// mutates. Cells read from a binary cache are bulk allocated from a Pool and
// keep a back pointer to it so the registry can evacuate them before the
// pool goes away.
type bigint struct {
	mag   *big.Int
	prec  uint16
	flags uint16
	refs  uint32
	index uint32 // 1-based identifier assigned on first binary write
	pool  *Pool  // set iff bulk allocated
}

const bigintBulkAlloc = 0x0001

// extraPrecision is the internal headroom: multiplication and division keep
// this many fractional digits beyond the commodity's display precision
// before rounding.
const extraPrecision = 6

// maxPrecision bounds the scale of any cell.
const maxPrecision = 255

func newBigint() *bigint {
	return &bigint{mag: new(big.Int), refs: 1}
}

// copyBigint clones the magnitude and scale into a fresh heap cell. The
// copy starts unshared, unindexed and heap owned, whatever the source was.
func copyBigint(other *bigint) *bigint {
	return &bigint{mag: new(big.Int).Set(other.mag), prec: other.prec, refs: 1}
}

// destroy runs the cell's end of life. Heap cells simply drop their
// magnitude; bulk cells are destroyed in place because their slot belongs
// to the pool.
func (b *bigint) destroy() {
	b.mag = nil
}

// resize changes the cell's scale without rounding: scaling down truncates,
// scaling up multiplies. The caller must hold the only reference.
func (b *bigint) resize(prec uint16) {
	if prec == b.prec {
		return
	}
	if prec < b.prec {
		b.mag.Quo(b.mag, pow10(int(b.prec)-int(prec)))
	} else {
		b.mag.Mul(b.mag, pow10(int(prec)-int(b.prec)))
	}
	b.prec = prec
}

var pow10cache []*big.Int

// pow10 returns 10^n. The result is shared; callers must not mutate it.
func pow10(n int) *big.Int {
	for len(pow10cache) <= n {
		switch len(pow10cache) {
		case 0:
			pow10cache = append(pow10cache, big.NewInt(1))
		default:
			last := pow10cache[len(pow10cache)-1]
			pow10cache = append(pow10cache, new(big.Int).Mul(last, big.NewInt(10)))
		}
	}
	return pow10cache[n]
}

// roundTo rounds v, carrying `from` fractional digits, down to `to` digits,
// half away from zero. It requires from > to and returns a fresh integer at
// the target scale.
func roundTo(v *big.Int, from, to uint16) *big.Int {
	div := pow10(int(from) - int(to))
	r := new(big.Int).Rem(v, div) // truncated toward zero, sign follows v
	half := new(big.Int).Mul(big.NewInt(5), pow10(int(from)-int(to)-1))

	out := new(big.Int)
	if r.Sign() < 0 {
		if r.Cmp(half.Neg(half)) <= 0 {
			// round away from zero: drop the remainder and one more unit
			out.Sub(v, new(big.Int).Add(div, r))
		} else {
			out.Sub(v, r)
		}
	} else {
		if r.Cmp(half) >= 0 {
			out.Add(v, new(big.Int).Sub(div, r))
		} else {
			out.Sub(v, r)
		}
	}
	return out.Quo(out, div)
}
