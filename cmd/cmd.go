package cmd

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/amount"
	"github.com/google/subcommands"
)

// Commands lists the subcommands of the amt tool.
var Commands = []subcommands.Command{
	&evalCmd{},
	&fmtCmd{},
	&valueCmd{},
	&pricesCmd{},
	&topicCmd{},
}

var pricesFile = flag.String("prices", "prices.jsonl", "Path to the price history file (JSONL format)")

// OpenRegistry is the central function to open a registry loaded with the
// price history file.
func OpenRegistry() (*amount.Registry, error) {
	r := amount.NewRegistry()
	f, err := os.Open(*pricesFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, price file does not exist, starting with an empty history")
		return r, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := r.DecodePrices(*pricesFile, f); err != nil {
		return nil, err
	}
	return r, nil
}
