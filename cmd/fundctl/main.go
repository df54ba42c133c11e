// Command fundctl inspects and maintains the fund dashboard data from the command line.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/config"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/database"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/mockdata"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/repository"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
)

var (
	cfg *config.Config

	dbPath      = flag.String("db", "", "Path to the SQLite database (defaults to DB_PATH)")
	useMock     = flag.Bool("mock", false, "Read from the mock data directory instead of the database")
	mockDir     = flag.String("data", "", "Mock data directory (defaults to MOCK_DATA_DIR)")
	portfolioID = flag.Int64("portfolio", 0, "Portfolio id (defaults to PORTFOLIO_ID)")
	plain       = flag.Bool("plain", false, "Print raw markdown instead of rendering it")
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&summaryCmd{}, "portfolio")
	commander.Register(&historyCmd{}, "funds")
	commander.Register(&refreshCmd{}, "funds")
	commander.Register(&fundsCmd{}, "funds")
	commander.Register(&importCmd{}, "data")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func selectedPortfolio() int64 {
	if *portfolioID > 0 {
		return *portfolioID
	}
	return cfg.Data.PortfolioID
}

func selectedMockDir() string {
	if *mockDir != "" {
		return *mockDir
	}
	return cfg.Data.MockDataDir
}

// openDatabase opens and migrates the SQLite database.
func openDatabase(ctx context.Context) (*sql.DB, error) {
	p := *dbPath
	if p == "" {
		p = cfg.Database.Path
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := database.Open(p)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// openServices builds the read services over the selected data source.
// The returned close function releases the database, if one was opened.
func openServices(ctx context.Context) (*service.FundService, *service.PortfolioService, func(), error) {
	if *useMock || cfg.Data.UseMockData {
		store := mockdata.NewStore(selectedMockDir())
		return service.NewFundService(store, store, store),
			service.NewPortfolioService(store, store, selectedPortfolio()),
			func() {}, nil
	}

	db, err := openDatabase(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	historyRepo := repository.NewHistoryRepository(db)
	return service.NewFundService(repository.NewFundRepository(db), historyRepo, historyRepo),
		service.NewPortfolioService(repository.NewTransactionRepository(db), historyRepo, selectedPortfolio()),
		func() { db.Close() }, nil
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	if *plain {
		fmt.Print(md)
		return
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
