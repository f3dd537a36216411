// Command ctd maintains a cost basis ledger of investment transactions and
// reports realized capital gains.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/custodian/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion installs shell completion for ctd. It returns immediately unless
// the process is invoked by the shell completion machinery.
func completion() {
	reporting := map[string]complete.Predictor{
		"c": predict.Nothing,
		"l": predict.Files("*.jsonl"),
	}
	ctd := &complete.Command{
		Sub: map[string]*complete.Command{
			"process": {Flags: map[string]complete.Predictor{
				"c":        predict.Nothing,
				"l":        predict.Files("*.jsonl"),
				"snapshot": predict.Files("*.jsonl"),
				"gains":    predict.Files("*.jsonl"),
				"d":        predict.Nothing,
			}},
			"holdings": {Flags: reporting},
			"gains":    {Flags: reporting},
			"fmt":      {Flags: map[string]complete.Predictor{"l": predict.Files("*.jsonl")}},
			"topic":    {},
			"import": {Flags: map[string]complete.Predictor{
				"format":  predict.Set{"csv", "json"},
				"mapping": predict.Files("*.yaml"),
				"o":       predict.Files("*.jsonl"),
			}},
		},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
		},
	}
	ctd.Complete("ctd")
}
