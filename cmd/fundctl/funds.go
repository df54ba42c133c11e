package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/renderer"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/repository"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/tefas"
)

// fundsCmd holds the flags for the 'funds' subcommand.
type fundsCmd struct {
	listURL    string
	extraFunds string
	timeout    time.Duration
	noSync     bool
}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "sync the fund directory from the TEFAS fund list" }
func (*fundsCmd) Usage() string {
	return `fundctl funds [-url <list url>] [-extra <file>] [-timeout <duration>] [-no-sync]

  Adds every fund on the Takasbank TEFAS listing, plus the extra funds file, to the
  database and prints the directory.
`
}

func (c *fundsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.listURL, "url", "", "Fund list URL (defaults to FUND_LIST_URL)")
	f.StringVar(&c.extraFunds, "extra", "", "Extra funds JSON file (defaults to EXTRA_FUNDS_FILE)")
	f.DurationVar(&c.timeout, "timeout", 5*time.Minute, "Abort the sync after this long")
	f.BoolVar(&c.noSync, "no-sync", false, "Only print the stored directory")
}

func (c *fundsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	db, err := openDatabase(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	fundRepo := repository.NewFundRepository(db)

	added := 0
	if !c.noSync {
		refreshService := service.NewRefreshService(
			fundRepo,
			repository.NewHistoryRepository(db),
			tefas.NewHistoryClient(cfg.Refresh.TefasBaseURL),
		).WithFundList(c.lister())

		added, err = refreshService.SyncFunds(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error syncing funds: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	funds, err := fundRepo.Funds(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing funds: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.FundsMarkdown(model.FundDirectory(funds), added))
	return subcommands.ExitSuccess
}

func (c *fundsCmd) lister() *tefas.FundListClient {
	return newFundLister(c.listURL, c.extraFunds)
}

// newFundLister builds the fund list client, falling back to the configured URL and file.
func newFundLister(listURL, extraFunds string) *tefas.FundListClient {
	if listURL == "" {
		listURL = cfg.Refresh.FundListURL
	}
	if extraFunds == "" {
		extraFunds = cfg.Refresh.ExtraFundsFile
	}
	return tefas.NewFundListClient(listURL).WithExtraFunds(extraFunds)
}
