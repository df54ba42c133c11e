package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/renderer"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/repository"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/tefas"
)

// refreshCmd holds the flags for the 'refresh' subcommand.
type refreshCmd struct {
	baseURL string
	timeout time.Duration
	noSync  bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch new prices from TEFAS into the database" }
func (*refreshCmd) Usage() string {
	return `fundctl refresh [-url <base url>] [-timeout <duration>] [-no-sync]

  Syncs the fund directory from the TEFAS fund list (unless -no-sync or SYNC_FUND_LIST=false),
  then downloads every day not yet stored for each fund in the database.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.baseURL, "url", "", "TEFAS base URL (defaults to TEFAS_BASE_URL)")
	f.DurationVar(&c.timeout, "timeout", 15*time.Minute, "Abort the refresh after this long")
	f.BoolVar(&c.noSync, "no-sync", false, "Skip the fund list sync")
}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	baseURL := c.baseURL
	if baseURL == "" {
		baseURL = cfg.Refresh.TefasBaseURL
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	db, err := openDatabase(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	refreshService := service.NewRefreshService(
		repository.NewFundRepository(db),
		repository.NewHistoryRepository(db),
		tefas.NewHistoryClient(baseURL),
	)
	if cfg.Refresh.SyncFundList && !c.noSync {
		refreshService.WithFundList(newFundLister("", ""))
	}

	result, err := refreshService.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing funds: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RefreshMarkdown(result))
	if !result.Success {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
