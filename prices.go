package amount

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// DateFormat is the format used to represent price dates as strings in
// ISO-8601 format.
const DateFormat = "2006-01-02"

// Price histories are persisted as a JSONL file, one price per line, so
// the store stays human-readable and git-friendly:
//
//	{"commodity":"$","date":"2024-01-01","price":"EUR 0.90"}
//
// The price field is an amount in the engine's own textual form, so
// decoding it establishes the pricing commodity's style exactly as
// parsing a journal would.

// jprice is the object read from one line using the json parser.
type jprice struct {
	Commodity string `json:"commodity"`
	Date      string `json:"date"`
	Price     string `json:"price"`
}

// DecodePrices reads a JSONL price stream into the registry's commodity
// histories. filename is for error messages only.
func (r *Registry) DecodePrices(filename string, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var jp jprice
		if err := json.Unmarshal([]byte(text), &jp); err != nil {
			return fmt.Errorf("format error in %q on line %d: %w", filename, line, err)
		}
		when, err := time.Parse(DateFormat, jp.Date)
		if err != nil {
			return fmt.Errorf("format error in %q on line %d: bad date %q: %w", filename, line, jp.Date, err)
		}
		price, err := r.Parse(jp.Price)
		if err != nil {
			return fmt.Errorf("format error in %q on line %d: bad price %q: %w", filename, line, jp.Price, err)
		}
		r.Find(jp.Commodity, true).AddPrice(when, price)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %q: %w", filename, err)
	}
	return nil
}

// EncodePrices writes every commodity's history back as JSONL,
// commodities sorted by symbol and rows in chronological order, so the
// output is deterministic.
func (r *Registry) EncodePrices(out io.Writer) error {
	symbols := make([]string, 0, len(r.ordered))
	for _, c := range r.ordered {
		if len(c.history) > 0 {
			symbols = append(symbols, c.symbol)
		}
	}
	sort.Strings(symbols)

	w := bufio.NewWriter(out)
	for _, symbol := range symbols {
		c := r.commodities[symbol]
		for _, p := range c.history {
			b, err := json.Marshal(jprice{
				Commodity: c.symbol,
				Date:      p.when.Format(DateFormat),
				Price:     p.price.String(),
			})
			if err != nil {
				return err
			}
			w.Write(b)
			w.WriteByte('\n')
		}
	}
	return w.Flush()
}
