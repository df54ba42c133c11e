package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/repository"
)

// ImportSource is a read-only data set that can be copied into the database,
// typically a mock data directory.
type ImportSource interface {
	FundDirectory
	HistorySource
	Transactions(ctx context.Context, portfolioID int64) ([]model.Transaction, error)
}

// ImportResult counts what an import stored.
type ImportResult struct {
	Funds               int `json:"funds"`
	HistoryPoints       int `json:"historyPoints"`
	Transactions        int `json:"transactions"`
	SkippedTransactions int `json:"skippedTransactions"`
}

// ImportService copies funds, histories and transactions into the database.
type ImportService struct {
	db              *sql.DB
	fundRepo        *repository.FundRepository
	historyRepo     *repository.HistoryRepository
	transactionRepo *repository.TransactionRepository
}

// NewImportService creates a new ImportService writing to db.
func NewImportService(db *sql.DB) *ImportService {
	return &ImportService{
		db:              db,
		fundRepo:        repository.NewFundRepository(db),
		historyRepo:     repository.NewHistoryRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// Import stores every fund, history point and transaction of src in a single
// database transaction, assigning the transactions to portfolioID.
// Existing fund names and history days are kept. Transactions whose ID is already
// stored are skipped, so running an import twice is harmless.
func (s *ImportService) Import(ctx context.Context, src ImportSource, portfolioID int64) (ImportResult, error) {
	var result ImportResult

	funds, err := src.Funds(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportFunds, err)
	}
	transactions, err := src.Transactions(ctx, portfolioID)
	if err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("failed to roll back import: %v", err)
		}
	}()

	fundRepo := s.fundRepo.WithTx(tx)
	historyRepo := s.historyRepo.WithTx(tx)
	transactionRepo := s.transactionRepo.WithTx(tx)

	symbols := make([]string, 0, len(funds))
	for symbol := range funds {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)

	for _, symbol := range symbols {
		_, err := fundRepo.GetFund(ctx, symbol)
		switch {
		case errors.Is(err, apperrors.ErrFundNotFound):
			if err := fundRepo.UpsertFund(ctx, model.Fund{Symbol: symbol, DisplayName: model.FundDirectory(funds).Name(symbol)}); err != nil {
				return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportFunds, err)
			}
			result.Funds++
		case err != nil:
			return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportFunds, err)
		}

		series, err := src.History(ctx, symbol)
		if errors.Is(err, apperrors.ErrFundNotFound) {
			log.Printf("no history for %s, skipping", symbol)
			continue
		}
		if err != nil {
			return result, fmt.Errorf("%w: %s: %w", apperrors.ErrFailedToImportFunds, symbol, err)
		}

		added, err := historyRepo.InsertHistory(ctx, symbol, series)
		if err != nil {
			return result, fmt.Errorf("%w: %s: %w", apperrors.ErrFailedToImportFunds, symbol, err)
		}
		result.HistoryPoints += added
	}

	for _, t := range transactions {
		t.PortfolioID = portfolioID
		err := transactionRepo.AppendTransaction(ctx, t)
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			result.SkippedTransactions++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, err)
		}
		result.Transactions++
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit import: %w", err)
	}

	log.Printf("imported %d funds, %d history points, %d transactions (%d skipped)",
		result.Funds, result.HistoryPoints, result.Transactions, result.SkippedTransactions)
	return result, nil
}
