package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/mmynk/splitledger/internal/ledger"
)

type statsCmd struct {
	common
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "print total spending per payer" }
func (*statsCmd) Usage() string {
	return `ledgerctl stats -viewer <name> [-project <id>] [-db <path>]

  Sums the purchases of a project, or of every project of the viewer, and
  breaks the total down by payer. Direct payments are not spending.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) { c.common.setFlags(f) }

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, viewerID, err := c.open(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	defer store.Close()

	if err := c.run(ctx, ledger.NewEngine(store), viewerID, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var errNotParticipant = errors.New("viewer is not an active participant")

func (c *statsCmd) run(ctx context.Context, engine *ledger.Engine, viewerID string, w io.Writer) error {
	stats, ok, err := engine.Spending(ctx, viewerID, c.project)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("project %s: %w", c.project, errNotParticipant)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, p := range stats.ByPayer {
		fmt.Fprintf(tw, "%s\t%s\t\n", p.Name, formatAmount(p.Amount, c.currency))
	}
	fmt.Fprintf(tw, "Total\t%s\t\n", formatAmount(stats.Total, c.currency))
	return tw.Flush()
}
