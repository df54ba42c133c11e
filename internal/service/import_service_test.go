package service_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/mockdata"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/repository"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/testutil"
)

func importFS() fstest.MapFS {
	return fstest.MapFS{
		"funds/funds.json": {Data: []byte(`["AFT.json", "TCD.json", "NOF.json"]`)},
		"funds/AFT.json": {Data: []byte(`[
			{"Date": "2024-03-04", "Price": "0.16", "NumberOfShares": 1000, "NumberOfInvestors": 13, "PortfolioSize": 160},
			{"Date": "2024-03-01", "Price": 0.15, "NumberOfShares": 1000, "NumberOfInvestors": 12, "PortfolioSize": 150}
		]`)},
		"funds/TCD.json": {Data: []byte(`[{"Date": "2024-03-04", "Price": 4.2}]`)},
		"portfolios/my_transactions.json": {Data: []byte(`[
			{"id": 1, "symbol": "AFT", "date": "2024-01-01", "type": "buy", "quantity": 100},
			{"id": 2, "symbol": "TCD", "date": "2024-01-02", "type": "buy", "quantity": 5}
		]`)},
	}
}

// TestImportService_Import tests the Import method.
//
// WHY: Importing a mock data directory seeds a fresh database for the SQLite store.
// It must keep names already fetched from TEFAS and be safe to run twice.
func TestImportService_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("copies funds histories and transactions", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := service.NewImportService(db)

		// Execute
		result, err := svc.Import(ctx, mockdata.NewStoreFS(importFS()), 3)

		// Assert
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		want := service.ImportResult{Funds: 3, HistoryPoints: 3, Transactions: 2}
		if diff := cmp.Diff(want, result); diff != "" {
			t.Errorf("Import() mismatch (-want +got):\n%s", diff)
		}

		transactions, err := repository.NewTransactionRepository(db).Transactions(ctx, 3)
		if err != nil {
			t.Fatalf("Transactions() error = %v", err)
		}
		if len(transactions) != 2 || transactions[0].PortfolioID != 3 {
			t.Errorf("Expected 2 transactions in portfolio 3, got %+v", transactions)
		}

		price, err := repository.NewHistoryRepository(db).LatestPrice(ctx, "AFT")
		if err != nil {
			t.Fatalf("LatestPrice() error = %v", err)
		}
		if price != 0.16 {
			t.Errorf("Expected latest AFT price 0.16, got %v", price)
		}
	})

	t.Run("second run skips what is stored", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := service.NewImportService(db)
		if _, err := svc.Import(ctx, mockdata.NewStoreFS(importFS()), 1); err != nil {
			t.Fatalf("first Import() error = %v", err)
		}

		// Execute
		result, err := svc.Import(ctx, mockdata.NewStoreFS(importFS()), 1)

		// Assert
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		want := service.ImportResult{SkippedTransactions: 2}
		if diff := cmp.Diff(want, result); diff != "" {
			t.Errorf("Import() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("same ids import into another portfolio", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := service.NewImportService(db)
		if _, err := svc.Import(ctx, mockdata.NewStoreFS(importFS()), 1); err != nil {
			t.Fatalf("first Import() error = %v", err)
		}

		// Execute
		result, err := svc.Import(ctx, mockdata.NewStoreFS(importFS()), 2)

		// Assert
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if result.Transactions != 2 || result.SkippedTransactions != 0 {
			t.Errorf("Expected 2 imported and 0 skipped, got %+v", result)
		}
	})

	t.Run("keeps existing fund names", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		testutil.NewFund().WithSymbol("AFT").WithName("Ak Portföy Yeni Teknolojiler").Build(t, db)

		// Execute
		result, err := service.NewImportService(db).Import(ctx, mockdata.NewStoreFS(importFS()), 1)

		// Assert
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if result.Funds != 2 {
			t.Errorf("Expected 2 new funds, got %d", result.Funds)
		}
		fund, err := repository.NewFundRepository(db).GetFund(ctx, "AFT")
		if err != nil {
			t.Fatalf("GetFund() error = %v", err)
		}
		if fund.DisplayName != "Ak Portföy Yeni Teknolojiler" {
			t.Errorf("Expected name to be kept, got %q", fund.DisplayName)
		}
	})

	t.Run("missing fund list fails without writing", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)

		// Execute
		_, err := service.NewImportService(db).Import(ctx, mockdata.NewStoreFS(fstest.MapFS{}), 1)

		// Assert
		if err == nil {
			t.Fatal("Expected error for missing fund list")
		}
		funds, _ := repository.NewFundRepository(db).Funds(ctx)
		if len(funds) != 0 {
			t.Errorf("Expected no funds, got %v", funds)
		}
	})
}
