package amount

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// A WebQuote is an Updater that refreshes a commodity's price from a JSON
// HTTP endpoint. The URL is a template where %s is replaced by the
// commodity's symbol, and Path is the JSONPath of the quote inside the
// response document. The quote is recorded in the Currency commodity.
//
// The updater only fetches when the requested moment is "latest" (the
// zero time) and the known history does not already cover today; a failed
// fetch is logged and the price from the history is returned unchanged.
type WebQuote struct {
	Registry *Registry
	Client   *http.Client
	URL      string // quote endpoint, %s replaced by the symbol
	Path     string // JSONPath of the quote value in the response
	Currency string // symbol of the commodity the quote is expressed in
}

// Update implements Updater.
func (w *WebQuote) Update(c *Commodity, moment, date, last time.Time, price *Amount) {
	if !moment.IsZero() {
		return
	}
	today := time.Now().Truncate(24 * time.Hour)
	if !last.Before(today) {
		return
	}
	quote, err := w.fetch(c.Symbol())
	if err != nil {
		log.Printf("quote for %q not refreshed: %v", c.Symbol(), err)
		return
	}
	fresh := w.Registry.FromDecimal(quote, w.Currency)
	c.AddPrice(today, fresh)
	price.Release()
	*price = fresh.Clone()
}

// fetch retrieves the endpoint's JSON document and extracts the quote.
func (w *WebQuote) fetch(symbol string) (decimal.Decimal, error) {
	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	addr := fmt.Sprintf(w.URL, symbol)
	resp, err := client.Get(addr)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error in wget %q: %w", addr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return decimal.Decimal{}, fmt.Errorf("error in wget %q: %s", addr, resp.Status)
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("error decoding %q: %w", addr, err)
	}
	jval, err := jsonpath.Get(w.Path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error parsing %q: %q %w", symbol, w.Path, err)
	}
	// because jsonpath is never clear about whether it returns a list of
	// one answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// sometimes these weird APIs return the value as a string
		v = strings.ReplaceAll(v, ",", ".")
		v = strings.ReplaceAll(v, " ", "")
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("cannot read value for %q: invalid string %q: %w", symbol, v, err)
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("cannot read value for %q: %q is neither a float nor a string: %v", symbol, w.Path, jval)
	}
}
