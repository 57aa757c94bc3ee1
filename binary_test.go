package amount

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestWriteQuantity_Empty(t *testing.T) {
	r := NewRegistry()
	var buf bytes.Buffer
	w := r.NewWriter(&buf)
	if err := w.WriteQuantity(Amount{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0}) {
		t.Errorf("empty amount = % x, want a single zero byte", buf.Bytes())
	}

	pool := NewPool(1)
	var a Amount
	if err := NewReader(buf.Bytes(), pool).ReadQuantity(&a); err != nil {
		t.Fatal(err)
	}
	if !a.Empty() {
		t.Error("read back amount is not empty")
	}
}

func TestWriteQuantity_SharedCell(t *testing.T) {
	r := NewRegistry()
	a := mustParse(t, r, "$5.00")
	b := a.Clone()

	var buf bytes.Buffer
	w := r.NewWriter(&buf)
	if err := w.WriteQuantity(a); err != nil {
		t.Fatal(err)
	}
	first := buf.Len()
	if err := w.WriteQuantity(b); err != nil {
		t.Fatal(err)
	}

	// the second record is exactly a tag byte and a 32-bit index
	ref := buf.Bytes()[first:]
	want := []byte{0x02, 0x01, 0x00, 0x00, 0x00}
	if !bytes.Equal(ref, want) {
		t.Errorf("reference record = % x, want % x", ref, want)
	}

	pool := NewPool(2)
	rd := NewReader(buf.Bytes(), pool)
	var x, y Amount
	if err := rd.ReadQuantity(&x); err != nil {
		t.Fatal(err)
	}
	if err := rd.ReadQuantity(&y); err != nil {
		t.Fatal(err)
	}
	if x.quantity != y.quantity {
		t.Error("shared cells must be shared again after reading")
	}
	if x.quantity.refs != 2 {
		t.Errorf("cell refs = %d, want 2", x.quantity.refs)
	}
	if x.quantity.flags&bigintBulkAlloc == 0 {
		t.Error("cells read from a cache are bulk allocated")
	}
	x.commodity = a.commodity
	if got := x.quantity.mag.String(); got != "500" {
		t.Errorf("magnitude = %s, want 500", got)
	}
	if x.quantity.prec != 2 {
		t.Errorf("scale = %d, want 2", x.quantity.prec)
	}
}

func TestQuantity_RoundTrip(t *testing.T) {
	r := NewRegistry()
	inputs := []string{"$5.00", "$-1,234.56", "0.000001", "$0.00"}
	var amounts []Amount
	var buf bytes.Buffer
	w := r.NewWriter(&buf)
	for _, in := range inputs {
		a := mustParse(t, r, in)
		amounts = append(amounts, a)
		if err := w.WriteQuantity(a); err != nil {
			t.Fatal(err)
		}
	}

	pool := NewPool(len(inputs))
	rd := NewReader(buf.Bytes(), pool)
	for i, in := range inputs {
		var got Amount
		if err := rd.ReadQuantity(&got); err != nil {
			t.Fatalf("reading %q back: %v", in, err)
		}
		got.commodity = amounts[i].commodity
		if !got.Equal(amounts[i]) {
			t.Errorf("%q read back as %s", in, got)
		}
		// a zero magnitude is written as a bare length and loses its
		// scale, which denotes the same value
		if got.Sign() != 0 && got.quantity.prec != amounts[i].quantity.prec {
			t.Errorf("%q scale = %d, want %d", in, got.quantity.prec, amounts[i].quantity.prec)
		}
	}
}

func TestReadQuantity_Errors(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"bad tag", []byte{3}},
		{"truncated length", []byte{1, 2}},
		{"truncated magnitude", []byte{1, 4, 0, 0xab}},
		{"truncated tail", []byte{1, 2, 0, 0xab, 0xcd}},
		{"truncated index", []byte{2, 1, 0}},
		{"unknown index", []byte{2, 7, 0, 0, 0}},
		{"zero index", []byte{2, 0, 0, 0, 0}},
		{"empty input", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var a Amount
			err := NewReader(tc.data, NewPool(4)).ReadQuantity(&a)
			if !errors.Is(err, ErrBinaryFormat) {
				t.Errorf("ReadQuantity(% x) = %v, want ErrBinaryFormat", tc.data, err)
			}
		})
	}
}

func TestPool_Exhausted(t *testing.T) {
	r := NewRegistry()
	var buf bytes.Buffer
	w := r.NewWriter(&buf)
	for _, in := range []string{"$1.00", "$2.00"} {
		if err := w.WriteQuantity(mustParse(t, r, in)); err != nil {
			t.Fatal(err)
		}
	}
	rd := NewReader(buf.Bytes(), NewPool(1))
	var a, b Amount
	if err := rd.ReadQuantity(&a); err != nil {
		t.Fatal(err)
	}
	if err := rd.ReadQuantity(&b); !errors.Is(err, ErrBinaryFormat) {
		t.Errorf("reading past the pool = %v, want ErrBinaryFormat", err)
	}
}

func TestCleanHistory_Evacuates(t *testing.T) {
	r := NewRegistry()
	price := mustParse(t, r, "EUR 0.90")

	var buf bytes.Buffer
	if err := r.NewWriter(&buf).WriteQuantity(price); err != nil {
		t.Fatal(err)
	}

	pool := NewPool(1)
	var read Amount
	if err := NewReader(buf.Bytes(), pool).ReadQuantity(&read); err != nil {
		t.Fatal(err)
	}
	read.commodity = price.commodity

	c := r.Find("$", true)
	c.AddPrice(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), read)

	bulk := read.quantity
	r.CleanHistory(pool)

	moved := c.history[0].price.quantity
	if moved == bulk {
		t.Fatal("the bulk cell was not evacuated")
	}
	if moved.flags&bigintBulkAlloc != 0 {
		t.Error("the evacuated copy must be a heap cell")
	}
	if bulk.refs != 0 || bulk.mag != nil {
		t.Error("the bulk cell must be destroyed in place once unreferenced")
	}
	if got := c.Value(time.Time{}).String(); got != "EUR 0.90" {
		t.Errorf("price after evacuation = %q, want EUR 0.90", got)
	}

	// heap cells and cells of other pools are left alone
	other := NewPool(1)
	r.CleanHistory(other)
	if c.history[0].price.quantity != moved {
		t.Error("evacuation must only touch cells of the given pool")
	}
}
