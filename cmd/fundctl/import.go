package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/mockdata"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/renderer"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	dir string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load a mock data directory into the database" }
func (*importCmd) Usage() string {
	return `fundctl import [-dir <directory>]

  Copies funds/funds.json, the per-fund histories and portfolios/my_transactions.json
  into the SQLite database. Days and transactions already stored are skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Mock data directory (defaults to -data)")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dir := c.dir
	if dir == "" {
		dir = selectedMockDir()
	}
	if _, err := os.Stat(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", dir, err)
		return subcommands.ExitUsageError
	}

	db, err := openDatabase(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	result, err := service.NewImportService(db).Import(ctx, mockdata.NewStore(dir), selectedPortfolio())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", dir, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ImportMarkdown(result))
	return subcommands.ExitSuccess
}
