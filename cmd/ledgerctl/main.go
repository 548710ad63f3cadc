// Command ledgerctl prints balances and spending straight from a splitledger
// SQLite database, without going through the server.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/mmynk/splitledger/pkg/logging"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&balancesCmd{}, "")
	commander.Register(&statsCmd{}, "")

	flag.Parse()
	logging.Setup(os.Stderr, os.Getenv("LOG_LEVEL"), "text")
	os.Exit(int(commander.Execute(context.Background())))
}
