package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type evalCmd struct{}

func (*evalCmd) Name() string     { return "eval" }
func (*evalCmd) Synopsis() string { return "evaluate an expression of amounts" }
func (*evalCmd) Usage() string {
	return `amt eval <amount> [<op> <amount>]...

  Parses the amounts and folds them left to right with the given
  operators (+ - x /). The result prints under the style established by
  the operands.

Usage Examples:
$ amt eval '$10.00' + '$2.50'
$12.50
$ amt eval '$10.00' / 3
$3.33

`
}

func (*evalCmd) SetFlags(f *flag.FlagSet) {}

func (c *evalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) == 0 || len(args)%2 == 0 {
		fmt.Fprintf(os.Stderr, "Error: expected <amount> [<op> <amount>]...\n")
		return subcommands.ExitUsageError
	}
	reg, err := OpenRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load prices: %v\n", err)
		return subcommands.ExitFailure
	}

	acc, err := reg.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for i := 1; i < len(args); i += 2 {
		rhs, err := reg.Parse(args[i+1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		switch args[i] {
		case "+":
			err = acc.Add(rhs)
		case "-":
			err = acc.Sub(rhs)
		case "x", "*":
			acc.Mul(rhs)
		case "/":
			err = acc.Div(rhs)
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown operator %q\n", args[i])
			return subcommands.ExitUsageError
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		rhs.Release()
	}
	fmt.Println(acc.String())
	return subcommands.ExitSuccess
}
