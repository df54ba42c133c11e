package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display open holdings and portfolio metrics" }
func (*summaryCmd) Usage() string {
	return `fundctl summary

  Values every open holding at its latest price and prints the portfolio totals.
`
}

func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fundService, portfolioService, closeFn, err := openServices(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data source: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	summary, err := portfolioService.Summary(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing summary: %v\n", err)
		return subcommands.ExitFailure
	}

	funds, err := fundService.Funds(ctx)
	if err != nil {
		// Symbols stand in for missing names.
		fmt.Fprintf(os.Stderr, "Warning: could not load fund names: %v\n", err)
	}

	printMarkdown(renderer.SummaryMarkdown(summary, funds))
	return subcommands.ExitSuccess
}
