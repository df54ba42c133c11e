package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/repository"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/tefas"
)

// TestNow is the fixed reference time used by the service constructors below.
var TestNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// FixedClock returns a clock that always reports now.
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// NewTestPortfolioService creates a PortfolioService for portfolio 1 backed by db,
// with its clock fixed at TestNow.
func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewTransactionRepository(db),
		repository.NewHistoryRepository(db),
		1,
	).WithClock(FixedClock(TestNow))
}

// NewTestFundService creates a FundService backed by db, with its clock fixed at TestNow.
func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()

	historyRepo := repository.NewHistoryRepository(db)

	return service.NewFundService(
		repository.NewFundRepository(db),
		historyRepo,
		historyRepo,
	).WithClock(FixedClock(TestNow))
}

// NewTestRefreshService creates a RefreshService backed by db and the given TEFAS client,
// with its clock fixed at TestNow.
func NewTestRefreshService(t *testing.T, db *sql.DB, client tefas.Client) *service.RefreshService {
	t.Helper()

	return service.NewRefreshService(
		repository.NewFundRepository(db),
		repository.NewHistoryRepository(db),
		client,
	).WithClock(FixedClock(TestNow))
}

// NewTestSystemService creates a SystemService backed by db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// MakeSymbol generates a unique fund symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("TST")
//	// Returns: "TST4K9Z"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TST"
	}
	return base + randomAlphanumeric(4)
}

// MakeFundName generates a unique fund name for testing.
//
// Example usage:
//
//	name := testutil.MakeFundName("Test Fund")
//	// Returns: "Test Fund ABC123"
func MakeFundName(base string) string {
	if base == "" {
		base = "Fund"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
