package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/mmynk/splitledger/internal/ledger"
)

type balancesCmd struct {
	common
	mine bool
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "print who pays whom to settle up" }
func (*balancesCmd) Usage() string {
	return `ledgerctl balances -viewer <name> [-project <id>] [-mine] [-db <path>]

  Computes the settlement plan the viewer would see: for one project, or for
  every project the viewer is an active participant of. With -mine, only
  transactions involving the viewer are printed.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	c.common.setFlags(f)
	f.BoolVar(&c.mine, "mine", false, "Only print transactions involving the viewer.")
}

func (c *balancesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

func (c *balancesCmd) run(ctx context.Context, engine *ledger.Engine, viewerID string, w io.Writer) error {
	q := ledger.Query{ViewerID: viewerID, ProjectID: c.project}
	if c.mine {
		q.FilterUserID = viewerID
	}
	res, err := engine.Compute(ctx, q)
	if err != nil {
		return err
	}
	if !res.Authorized {
		return fmt.Errorf("%s is not an active participant of project %s", c.viewer, c.project)
	}
	if len(res.Transactions) == 0 {
		fmt.Fprintln(w, "All settled up.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, tx := range res.Transactions {
		fmt.Fprintf(tw, "%s\tpays\t%s\t%s\t\n", tx.FromName, tx.ToName, formatAmount(tx.Amount, c.currency))
	}
	return tw.Flush()
}
