package amount

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// The binary cache stores quantities as a self-delimiting stream of
// records, one per amount, with no header:
//
//	0x00                                        empty amount
//	0x01 len:u16 mag[len] sign:u8 prec:u16      first sight of a cell
//	0x02 index:u32                              reference to a cell
//
// The magnitude is the absolute value exported as big-endian 16-bit
// limbs; len, prec and index are little-endian. A zero magnitude is
// written as len 0 with no trailing sign or scale. Cells are
// deduplicated: the first write assigns the next 1-based index, and
// every later write of the same cell emits a 5-byte reference instead.

// A Writer serializes quantities to a binary cache. Cell indices are
// assigned from the registry, so one registry feeds one cache stream.
type Writer struct {
	w io.Writer
	r *Registry
}

// NewWriter returns a Writer emitting to w.
func (r *Registry) NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, r: r}
}

// WriteQuantity emits one quantity record for a.
func (wr *Writer) WriteQuantity(a Amount) error {
	q := a.quantity
	if q == nil {
		_, err := wr.w.Write([]byte{0})
		return err
	}

	if q.index != 0 {
		var buf [5]byte
		buf[0] = 2
		binary.LittleEndian.PutUint32(buf[1:], q.index)
		_, err := wr.w.Write(buf[:])
		return err
	}

	wr.r.nextIndex++
	q.index = wr.r.nextIndex

	mag := q.mag.Bytes() // absolute value, big-endian
	if len(mag)%2 == 1 {
		mag = append([]byte{0}, mag...)
	}
	var head [3]byte
	head[0] = 1
	binary.LittleEndian.PutUint16(head[1:], uint16(len(mag)))
	if _, err := wr.w.Write(head[:]); err != nil {
		return err
	}
	if len(mag) == 0 {
		return nil
	}
	if _, err := wr.w.Write(mag); err != nil {
		return err
	}
	var tail [3]byte
	if q.mag.Sign() < 0 {
		tail[0] = 1
	}
	binary.LittleEndian.PutUint16(tail[1:], q.prec)
	_, err := wr.w.Write(tail[:])
	return err
}

// A Pool is the bulk arena behind a cache read: cells are bump allocated
// from a fixed slab, and destroyed in place when released, so the slab's
// storage stays put until the pool itself is dropped. Size the pool with
// the cell count recorded alongside the cache.
type Pool struct {
	cells []bigint
	next  int
}

// NewPool returns a pool with room for n cells.
func NewPool(n int) *Pool {
	p := &Pool{cells: make([]bigint, n)}
	for i := range p.cells {
		p.cells[i].pool = p
	}
	return p
}

// alloc bump-allocates the next cell. It returns nil when the slab is
// exhausted.
func (p *Pool) alloc() *bigint {
	if p.next >= len(p.cells) {
		return nil
	}
	c := &p.cells[p.next]
	p.next++
	c.mag = new(big.Int)
	c.prec = 0
	c.flags = bigintBulkAlloc
	c.refs = 1
	c.index = 0
	return c
}

// cell returns the i-th allocated cell (0-based), or nil when i is out of
// range or the cell was never allocated.
func (p *Pool) cell(i int) *bigint {
	if i < 0 || i >= p.next {
		return nil
	}
	return &p.cells[i]
}

// A Reader deserializes quantities from a binary cache held in memory
// (typically a mapped file), bulk allocating cells from its pool.
type Reader struct {
	data []byte
	off  int
	pool *Pool
}

// NewReader returns a Reader over data, allocating cells from pool.
func NewReader(data []byte, pool *Pool) *Reader {
	return &Reader{data: data, pool: pool}
}

// Pool returns the reader's bulk pool.
func (rd *Reader) Pool() *Pool { return rd.pool }

func (rd *Reader) take(n int) ([]byte, error) {
	if rd.off+n > len(rd.data) {
		return nil, fmt.Errorf("at offset %d: truncated record: %w", rd.off, ErrBinaryFormat)
	}
	b := rd.data[rd.off : rd.off+n]
	rd.off += n
	return b, nil
}

// ReadQuantity reads one quantity record into a. The amount's commodity
// is left untouched: the caller attaches it from whatever commodity table
// accompanies the cache.
func (rd *Reader) ReadQuantity(a *Amount) error {
	tag, err := rd.take(1)
	if err != nil {
		return err
	}
	switch tag[0] {
	case 0:
		a.quantity = nil
		return nil

	case 1:
		b, err := rd.take(2)
		if err != nil {
			return err
		}
		n := int(binary.LittleEndian.Uint16(b))
		q := rd.pool.alloc()
		if q == nil {
			return fmt.Errorf("at offset %d: bulk pool exhausted: %w", rd.off, ErrBinaryFormat)
		}
		a.quantity = q
		if n == 0 {
			return nil
		}
		mag, err := rd.take(n)
		if err != nil {
			return err
		}
		q.mag.SetBytes(mag)
		tail, err := rd.take(3)
		if err != nil {
			return err
		}
		if tail[0] != 0 {
			q.mag.Neg(q.mag)
		}
		q.prec = binary.LittleEndian.Uint16(tail[1:])
		return nil

	case 2:
		b, err := rd.take(4)
		if err != nil {
			return err
		}
		index := binary.LittleEndian.Uint32(b)
		q := rd.pool.cell(int(index) - 1)
		if q == nil {
			return fmt.Errorf("at offset %d: reference to unknown cell %d: %w", rd.off, index, ErrBinaryFormat)
		}
		q.refs++
		a.quantity = q
		return nil

	default:
		return fmt.Errorf("at offset %d: tag byte %#x: %w", rd.off-1, tag[0], ErrBinaryFormat)
	}
}
