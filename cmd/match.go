package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/capgains"
	"github.com/google/subcommands"
)

// matchCmd holds the flags for the 'match' subcommand.
type matchCmd struct {
	input string
	jsonl bool
}

func (*matchCmd) Name() string     { return "match" }
func (*matchCmd) Synopsis() string { return "pair sales with buys and write the gains files" }
func (*matchCmd) Usage() string {
	return `cgs match [-i <fills-file>] [-jsonl]

  Runs the matching pass over the fills file and writes, next to it:
  the unpaired orders (for carry-forward into a future run), the paired
  orders, and the capital gains per sale. Output files are prefixed with
  the configured cutoff year.
`
}

func (c *matchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Fills file to process (CSV or JSON). Overrides the configured input.")
	f.BoolVar(&c.jsonl, "jsonl", false, "Also write the matched pairs as JSONL.")
}

func (c *matchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(c.input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	fields, orders, err := importFills(cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading fills %q: %v\n", cfg.Input, err)
		return subcommands.ExitFailure
	}

	remaining, pairs, err := capgains.Match(orders, cfg.Policies, cfg.MaxYear)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching: %v\n", err)
		return subcommands.ExitFailure
	}

	if fields == nil {
		// JSON input has no source header; write the core columns.
		fields = []string{"trade id", "product", "side", "created at", "size", "price"}
	}

	if err := writeOutputs(cfg, fields, orders, remaining, pairs, c.jsonl); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Matched %d pairs, %d orders carried forward.\n", len(pairs), len(remaining))
	return subcommands.ExitSuccess
}

// outputName builds the conventional output file name: the input file name
// without its extension, prefixed with the cutoff year and suffixed with
// the content kind.
func outputName(input string, maxYear int, kind string) string {
	dir := filepath.Dir(input)
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, fmt.Sprintf("%d.%s.%s", maxYear, base, kind))
}

func writeOutputs(cfg *capgains.Config, fields []string, orders, remaining []capgains.Order, pairs []capgains.MatchedPair, jsonl bool) error {
	write := func(name string, fn func(f *os.File) error) error {
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("cannot create %q: %w", name, err)
		}
		defer f.Close()
		if err := fn(f); err != nil {
			return fmt.Errorf("cannot write %q: %w", name, err)
		}
		return nil
	}

	err := write(outputName(cfg.Input, cfg.MaxYear, "unpaired_orders.csv"), func(f *os.File) error {
		return capgains.ExportOrders(f, fields, remaining)
	})
	if err != nil {
		return err
	}

	err = write(outputName(cfg.Input, cfg.MaxYear, "paired_orders.csv"), func(f *os.File) error {
		return capgains.ExportOrders(f, fields, pairedOrders(orders, pairs))
	})
	if err != nil {
		return err
	}

	err = write(outputName(cfg.Input, cfg.MaxYear, "cap_gains_per_sale.csv"), func(f *os.File) error {
		return capgains.ExportPairs(f, pairs)
	})
	if err != nil {
		return err
	}

	if jsonl {
		err = write(outputName(cfg.Input, cfg.MaxYear, "cap_gains_per_sale.jsonl"), func(f *os.File) error {
			return capgains.EncodePairs(f, pairs)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// pairedOrders flattens the matched pairs into buy/sale order rows, the
// paired-orders file layout: for each pair, the consumed buy fragment
// followed by the covered sale fragment. Rows are the source orders with
// the size reduced to the fragment, so the carried-through columns survive.
func pairedOrders(orders []capgains.Order, pairs []capgains.MatchedPair) []capgains.Order {
	byID := make(map[string]capgains.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	var out []capgains.Order
	for _, p := range pairs {
		buy, sale := byID[p.BuyID], byID[p.SaleID]
		buy.Quantity, sale.Quantity = p.Quantity, p.Quantity
		out = append(out, buy, sale)
	}
	return out
}
