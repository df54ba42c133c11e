package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/renderer"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/timewindow"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	symbol string
	window string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the price history of a fund" }
func (*historyCmd) Usage() string {
	return `fundctl history -s <symbol> [-w <window>]

  Prints the published prices of a fund, most recent first, limited to a window:
  week, month, 3_months, 6_months, year, 3_years, since_new_year or all.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Fund symbol")
	f.StringVar(&c.window, "w", string(timewindow.Default), "Time window")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -s is required")
		return subcommands.ExitUsageError
	}
	window, err := request.ParseWindow(c.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	fundService, _, closeFn, err := openServices(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data source: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	symbol := strings.ToUpper(c.symbol)
	series, err := fundService.History(ctx, symbol, window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading history: %v\n", err)
		return subcommands.ExitFailure
	}

	funds, _ := fundService.Funds(ctx)
	printMarkdown(renderer.HistoryMarkdown(symbol, funds.Name(symbol), window, series))
	return subcommands.ExitSuccess
}
