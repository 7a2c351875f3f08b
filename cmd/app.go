// Package cmd implements the CLI application to compute capital gains.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/capgains"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&matchCmd{}, "matching")
	c.Register(&reportCmd{}, "reporting")
	c.Register(&explainCmd{}, "reporting")
	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "capgains.yaml", "Path to the YAML run configuration (input, max_year, policies)")

// loadConfig reads the app run configuration, applying the -i override for
// the input file.
func loadConfig(inputOverride string) (*capgains.Config, error) {
	cfg, err := capgains.LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if inputOverride != "" {
		cfg.Input = inputOverride
	}
	if cfg.Input == "" {
		return nil, fmt.Errorf("no input file: set 'input' in %s or pass -i", *configFile)
	}
	return cfg, nil
}

// importFills reads the orders from the configured input file, picking the
// decoder from the file extension.
func importFills(path string) ([]string, []capgains.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open fills file %q: %w", path, err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".json") {
		orders, err := capgains.ImportFillsJSON(f)
		return nil, orders, err
	}
	return capgains.ImportFills(f)
}

// printMarkdown renders markdown to the terminal. On rendering errors the
// raw markdown is printed instead.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

// fprintMarkdown is printMarkdown for an explicit writer, used by tests.
func fprintMarkdown(w io.Writer, md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprintln(w, md)
		return
	}
	fmt.Fprint(w, out)
}
