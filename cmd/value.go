package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/amount"
	"github.com/google/subcommands"
)

type valueCmd struct {
	date string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "converts an amount at a historical price" }
func (*valueCmd) Usage() string {
	return `amt value [-d <date>] <amount>

  Converts the amount through its commodity's price history: the most
  recent price on or before the date applies. Without -d the newest
  price wins. Amounts whose commodity has no recorded price are printed
  unchanged.

Usage Examples:
$ amt value -d 2024-03-15 '$100'
EUR 90.00

`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Valuation date (YYYY-MM-DD). Defaults to the latest known price.")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one amount\n")
		return subcommands.ExitUsageError
	}
	var moment time.Time
	if c.date != "" {
		var err error
		moment, err = time.Parse(amount.DateFormat, c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: bad date %q: %v\n", c.date, err)
			return subcommands.ExitUsageError
		}
	}
	reg, err := OpenRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load prices: %v\n", err)
		return subcommands.ExitFailure
	}
	a, err := reg.Parse(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(a.Value(moment).String())
	return subcommands.ExitSuccess
}
