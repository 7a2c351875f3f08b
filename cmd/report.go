package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	input   string
	matches bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "render the capital gains report" }
func (*reportCmd) Usage() string {
	return `cgs report [-i <fills-file>] [-matches]

  Runs the matching pass in memory and renders the yearly capital gains
  summary on the terminal. With -matches, also lists every matched pair.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Fills file to process (CSV or JSON). Overrides the configured input.")
	f.BoolVar(&c.matches, "matches", false, "List every matched buy/sale pair.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	md, status := reportMarkdown(c.input, c.matches)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// reportMarkdown runs the matching pass and builds the report markdown.
// Shared with the 'explain' subcommand.
func reportMarkdown(input string, matches bool) (string, subcommands.ExitStatus) {
	cfg, err := loadConfig(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return "", subcommands.ExitUsageError
	}

	_, orders, err := importFills(cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading fills %q: %v\n", cfg.Input, err)
		return "", subcommands.ExitFailure
	}

	remaining, pairs, err := capgains.Match(orders, cfg.Policies, cfg.MaxYear)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching: %v\n", err)
		return "", subcommands.ExitFailure
	}

	md := renderer.SummaryMarkdown(pairs, remaining, cfg.MaxYear)
	if matches {
		md += "\n" + renderer.MatchesMarkdown(pairs)
	}
	return md, subcommands.ExitSuccess
}
