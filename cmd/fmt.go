package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/amount"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "reformats amounts into their canonical form"
}
func (*fmtCmd) Usage() string {
	return `amt fmt <amount>...

  Parses each amount and prints it back under its commodity's
  established style, one per line. Parsing all arguments first means a
  later notation (say, thousands grouping) applies to earlier amounts of
  the same commodity too.

Usage Examples:
$ amt fmt '1234.5 USD' 'USD 1,000.00'
1,234.50 USD
1,000.00 USD

`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: expected at least one amount\n")
		return subcommands.ExitUsageError
	}
	reg, err := OpenRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load prices: %v\n", err)
		return subcommands.ExitFailure
	}
	amounts := make([]amount.Amount, 0, f.NArg())
	for _, arg := range f.Args() {
		a, err := reg.Parse(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		amounts = append(amounts, a)
	}
	for _, a := range amounts {
		fmt.Println(a.String())
	}
	return subcommands.ExitSuccess
}
