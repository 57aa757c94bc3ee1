package amount

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddPrice_KeepsHistorySorted(t *testing.T) {
	r := NewRegistry()
	c := r.Find("$", true)

	// out of order on purpose
	c.AddPrice(day(2024, time.June, 1), mustParse(t, r, "EUR 0.95"))
	c.AddPrice(day(2024, time.January, 1), mustParse(t, r, "EUR 0.90"))
	c.AddPrice(day(2024, time.March, 1), mustParse(t, r, "EUR 0.92"))

	var dates []time.Time
	c.Prices(func(when time.Time, price Amount) bool {
		dates = append(dates, when)
		return true
	})
	if len(dates) != 3 {
		t.Fatalf("history has %d rows, want 3", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Errorf("history out of order: %v before %v", dates[i-1], dates[i])
		}
	}
}

func TestAddPrice_ReplacesSameDate(t *testing.T) {
	r := NewRegistry()
	c := r.Find("$", true)
	when := day(2024, time.January, 1)

	old := mustParse(t, r, "EUR 0.90")
	cell := old.quantity
	c.AddPrice(when, old)
	c.AddPrice(when, mustParse(t, r, "EUR 0.91"))

	if len(c.history) != 1 {
		t.Fatalf("history has %d rows, want 1", len(c.history))
	}
	if got := c.Value(time.Time{}).String(); got != "EUR 0.91" {
		t.Errorf("price = %q, want EUR 0.91", got)
	}
	if cell.refs != 0 {
		t.Errorf("replaced price cell refs = %d, want 0", cell.refs)
	}
}

func TestValue_Monotone(t *testing.T) {
	// a later moment never selects an older history row
	r := NewRegistry()
	c := r.Find("$", true)
	days := []time.Time{
		day(2024, time.January, 1),
		day(2024, time.April, 1),
		day(2024, time.July, 1),
	}
	prices := []string{"EUR 0.90", "EUR 0.92", "EUR 0.95"}
	for i, d := range days {
		c.AddPrice(d, mustParse(t, r, prices[i]))
	}

	last := ""
	for _, moment := range []time.Time{
		day(2024, time.January, 1),
		day(2024, time.February, 10),
		day(2024, time.April, 1),
		day(2024, time.May, 5),
		day(2024, time.December, 31),
	} {
		got := c.Value(moment).String()
		if got < last { // EUR 0.90 < 0.92 < 0.95 sorts lexically too
			t.Errorf("value at %v = %q went backwards from %q", moment, got, last)
		}
		last = got
	}
}

// recorder is an Updater capturing its invocation.
type recorder struct {
	calls  int
	moment time.Time
	date   time.Time
	last   time.Time
	force  string // when set, overrides the price with this amount text
	reg    *Registry
}

func (u *recorder) Update(c *Commodity, moment, date, last time.Time, price *Amount) {
	u.calls++
	u.moment, u.date, u.last = moment, date, last
	if u.force != "" {
		price.Release()
		p, err := u.reg.Parse(u.force)
		if err != nil {
			panic(err)
		}
		*price = p
	}
}

func TestValue_UpdaterHook(t *testing.T) {
	r := NewRegistry()
	c := r.Find("$", true)
	jan := day(2024, time.January, 1)
	jun := day(2024, time.June, 1)
	c.AddPrice(jan, mustParse(t, r, "EUR 0.90"))
	c.AddPrice(jun, mustParse(t, r, "EUR 0.95"))

	u := &recorder{reg: r}
	c.SetUpdater(u)

	mar := day(2024, time.March, 15)
	c.Value(mar)
	if u.calls != 1 {
		t.Fatalf("updater called %d times, want 1", u.calls)
	}
	if !u.moment.Equal(mar) || !u.date.Equal(jan) || !u.last.Equal(jun) {
		t.Errorf("updater saw (moment %v, date %v, last %v)", u.moment, u.date, u.last)
	}

	// when no row matches, the matched date is the zero time
	c.Value(day(2023, time.May, 1))
	if !u.date.IsZero() {
		t.Errorf("matched date = %v, want zero when nothing matched", u.date)
	}

	// the hook may override the price
	u.force = "EUR 0.99"
	if got := c.Value(mar).String(); got != "EUR 0.99" {
		t.Errorf("overridden price = %q, want EUR 0.99", got)
	}
}

func TestValue_UpdaterSuppliesMissingPrice(t *testing.T) {
	r := NewRegistry()
	c := r.Find("$", true)
	u := &recorder{reg: r, force: "EUR 0.80"}
	c.SetUpdater(u)

	a := mustParse(t, r, "$10.00")
	if got := a.Value(time.Time{}).String(); got != "EUR 8.00" {
		t.Errorf("value = %q, want EUR 8.00", got)
	}
}
