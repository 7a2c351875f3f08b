package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/capgains/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion. Install it
// with COMP_INSTALL=1 cgs.
var completion = &complete.Command{
	Flags: map[string]complete.Predictor{
		"config": predict.Files("*.yaml"),
	},
	Sub: map[string]*complete.Command{
		"match": {Flags: map[string]complete.Predictor{
			"i":     predict.Files("*"),
			"jsonl": predict.Nothing,
		}},
		"report": {Flags: map[string]complete.Predictor{
			"i":       predict.Files("*"),
			"matches": predict.Nothing,
		}},
		"explain": {Flags: map[string]complete.Predictor{
			"i": predict.Files("*"),
			"q": predict.Something,
		}},
		"topic": {},
	},
}

func main() {
	completion.Complete("cgs")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
