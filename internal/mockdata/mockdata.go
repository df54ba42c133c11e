// Package mockdata serves the dashboard from a directory of static JSON snapshots
// laid out as:
//
//	funds/funds.json                 list of "<SYMBOL>.json" file names
//	funds/<SYMBOL>.json              descending price history of one fund
//	portfolios/my_transactions.json  the transaction log
//
// The files are never written. Transactions appended at runtime live in memory only.
package mockdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

const (
	fundListFile     = "funds/funds.json"
	transactionsFile = "portfolios/my_transactions.json"
)

// Store reads mock data from a file system.
type Store struct {
	fsys fs.FS

	mu       sync.Mutex
	appended []model.Transaction
}

// NewStore returns a Store reading from the directory dir.
func NewStore(dir string) *Store {
	return NewStoreFS(os.DirFS(dir))
}

// NewStoreFS returns a Store reading from fsys.
func NewStoreFS(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// Funds returns the fund directory. Mock funds are named after their symbol.
func (s *Store) Funds(_ context.Context) (map[string]string, error) {
	var files []string
	if err := s.readJSON(fundListFile, &files); err != nil {
		return nil, err
	}

	funds := make(map[string]string, len(files))
	for _, file := range files {
		symbol := strings.TrimSuffix(path.Base(file), ".json")
		if symbol == "" {
			continue
		}
		funds[symbol] = symbol
	}
	return funds, nil
}

// History returns the stored history of symbol in file order (descending by date).
// Returns ErrFundNotFound when no file exists for symbol.
func (s *Store) History(_ context.Context, symbol string) ([]model.HistoricalDataPoint, error) {
	if !validSymbol(symbol) {
		return nil, apperrors.ErrFundNotFound
	}

	var records []historyRecord
	err := s.readJSON(path.Join("funds", symbol+".json"), &records)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.ErrFundNotFound
	}
	if err != nil {
		return nil, err
	}

	series := make([]model.HistoricalDataPoint, 0, len(records))
	for i, r := range records {
		point, err := r.point()
		if err != nil {
			return nil, fmt.Errorf("%w: %s.json record %d: %w", apperrors.ErrDataInconsistency, symbol, i, err)
		}
		series = append(series, point)
	}
	return series, nil
}

// LatestPrice returns the price of the first history record of symbol.
// Returns ErrFundHistoryNotFound when the history is empty.
func (s *Store) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	series, err := s.History(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if len(series) == 0 {
		return 0, apperrors.ErrFundHistoryNotFound
	}
	return series[0].Price, nil
}

// Transactions returns the transaction log from disk followed by any transactions
// appended since the store was created.
func (s *Store) Transactions(_ context.Context, portfolioID int64) ([]model.Transaction, error) {
	var stored []model.Transaction
	err := s.readJSON(transactionsFile, &stored)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	transactions := make([]model.Transaction, 0, len(stored)+len(s.appended))
	for _, t := range stored {
		// Snapshots written before portfolios had ids carry no portfolio_id.
		if t.PortfolioID != 0 && t.PortfolioID != portfolioID {
			continue
		}
		transactions = append(transactions, t)
	}
	for _, t := range s.appended {
		if t.PortfolioID == portfolioID {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

// AppendTransaction records t in memory.
func (s *Store) AppendTransaction(_ context.Context, t model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.appended, func(x model.Transaction) bool { return x.ID == t.ID }) {
		return fmt.Errorf("%w: transaction %d", apperrors.ErrDuplicateEntry, t.ID)
	}
	s.appended = append(s.appended, t)
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// validSymbol rejects names that would escape the funds directory.
func validSymbol(symbol string) bool {
	return symbol != "" && fs.ValidPath(symbol) && !strings.ContainsAny(symbol, `/\.`)
}
