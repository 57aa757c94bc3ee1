package amount

import (
	"math/big"
)

// A Registry interns commodities by symbol and owns the process-lifetime
// cells of the engine: the null commodity used by dimensionless amounts
// and the pinned cell behind boolean true. Every parse, format and
// valuation runs against exactly one registry; commodities from different
// registries never compare equal.
//
// A registry is not safe for concurrent use.
type Registry struct {
	commodities map[string]*Commodity
	ordered     []*Commodity // in interning order; index+1 is the ident
	null        *Commodity
	trueValue   *bigint
	nextIndex   uint32 // last 1-based index assigned by a binary writer
}

// NewRegistry returns a ready registry with its null commodity interned.
func NewRegistry() *Registry {
	r := &Registry{
		commodities: make(map[string]*Commodity),
		trueValue:   &bigint{mag: big.NewInt(1), refs: 1},
	}
	r.null = r.Find("", true)
	return r
}

// Null returns the dimensionless commodity, used by amounts parsed without
// a symbol and by integer and boolean constructors.
func (r *Registry) Null() *Commodity { return r.null }

// Find returns the commodity interned for symbol. On a miss it creates
// one when autoCreate is set, and returns nil otherwise.
func (r *Registry) Find(symbol string, autoCreate bool) *Commodity {
	if c, ok := r.commodities[symbol]; ok {
		return c
	}
	if !autoCreate {
		return nil
	}
	c := &Commodity{symbol: symbol, ident: uint32(len(r.ordered) + 1)}
	r.commodities[symbol] = c
	r.ordered = append(r.ordered, c)
	return c
}

// Commodities iterates the interned commodities in interning order.
func (r *Registry) Commodities(yield func(c *Commodity) bool) {
	for _, c := range r.ordered {
		if !yield(c) {
			return
		}
	}
}

// Close tears the registry down: updaters are dropped, histories released,
// the map cleared and the true cell unpinned. The registry must not be
// used afterwards.
func (r *Registry) Close() {
	for _, c := range r.ordered {
		c.updater = nil
		for i := range c.history {
			c.history[i].price.Release()
		}
		c.history = nil
	}
	r.commodities = nil
	r.ordered = nil
	r.null = nil
	if r.trueValue != nil {
		r.trueValue.refs--
		r.trueValue = nil
	}
}

// NewInt returns an amount of the null commodity holding the given
// integer. Zero yields the empty amount.
func (r *Registry) NewInt(v int64) Amount {
	if v == 0 {
		return Amount{}
	}
	q := newBigint()
	q.mag.SetInt64(v)
	return Amount{quantity: q, commodity: r.null}
}

// NewBool returns boolean true as an amount sharing the registry's pinned
// unit cell, or the empty amount for false.
func (r *Registry) NewBool(v bool) Amount {
	if !v {
		return Amount{}
	}
	r.trueValue.refs++
	return Amount{quantity: r.trueValue, commodity: r.null}
}

// New returns an amount of the given commodity with quantity
// mag × 10^(-prec). The magnitude is copied.
func New(c *Commodity, mag *big.Int, prec uint16) Amount {
	if prec > maxPrecision {
		prec = maxPrecision
	}
	q := newBigint()
	q.mag.Set(mag)
	q.prec = prec
	return Amount{quantity: q, commodity: c}
}

// CleanHistory evacuates every history price whose cell was bulk
// allocated from pool: the cell is copied to the heap, the bulk cell
// released (and destroyed in place when that was the last reference), and
// the copy installed. Call it before dropping a pool whose cells may
// still be referenced by commodity histories.
func (r *Registry) CleanHistory(pool *Pool) {
	for _, c := range r.ordered {
		for i := range c.history {
			q := c.history[i].price.quantity
			if q == nil || q.flags&bigintBulkAlloc == 0 || q.pool != pool {
				continue
			}
			cell := copyBigint(q)
			if q.refs--; q.refs == 0 {
				q.destroy()
			}
			c.history[i].price.quantity = cell
		}
	}
}
