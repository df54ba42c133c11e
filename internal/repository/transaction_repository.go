package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Transactions returns the transaction log of a portfolio in the order it was recorded.
// Returns an empty slice if the portfolio has no transactions.
func (r *TransactionRepository) Transactions(ctx context.Context, portfolioID int64) ([]model.Transaction, error) {
	query := `
		SELECT id, portfolio_id, symbol, date, type, quantity
		FROM "transaction"
		WHERE portfolio_id = ?
		ORDER BY id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var dateStr, typeStr string
		var t model.Transaction

		err := rows.Scan(
			&t.ID,
			&t.PortfolioID,
			&t.Symbol,
			&dateStr,
			&typeStr,
			&t.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}

		t.Date, err = ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		t.Type = model.TransactionType(typeStr)

		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// AppendTransaction stores t. The caller assigns its ID.
// Returns ErrDuplicateEntry if the ID is already taken.
func (r *TransactionRepository) AppendTransaction(ctx context.Context, t model.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, portfolio_id, symbol, date, type, quantity)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.PortfolioID,
		t.Symbol,
		t.Date.String(),
		string(t.Type),
		t.Quantity,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: transaction %d", apperrors.ErrDuplicateEntry, t.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}
