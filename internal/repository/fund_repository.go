package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// FundRepository provides data access methods for the fund table.
type FundRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFundRepository creates a new FundRepository with the provided database connection.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *FundRepository) WithTx(tx *sql.Tx) *FundRepository {
	return &FundRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *FundRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Funds returns the fund directory as a symbol -> display name map.
// Returns an empty map if no funds are stored.
func (r *FundRepository) Funds(ctx context.Context) (map[string]string, error) {
	query := `SELECT symbol, name FROM fund ORDER BY symbol ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund table: %w", err)
	}
	defer rows.Close()

	funds := make(map[string]string)
	for rows.Next() {
		var symbol, name string
		if err := rows.Scan(&symbol, &name); err != nil {
			return nil, fmt.Errorf("failed to scan fund table results: %w", err)
		}
		funds[symbol] = name
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund table: %w", err)
	}

	return funds, nil
}

// GetFund retrieves a single fund by symbol.
// Returns ErrFundNotFound if no fund carries the symbol.
func (r *FundRepository) GetFund(ctx context.Context, symbol string) (model.Fund, error) {
	query := `SELECT symbol, name FROM fund WHERE symbol = ?`

	var f model.Fund
	err := r.getQuerier().QueryRowContext(ctx, query, symbol).Scan(&f.Symbol, &f.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fund{}, apperrors.ErrFundNotFound
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to query fund table: %w", err)
	}
	return f, nil
}

// UpsertFund inserts a fund or renames an existing one.
func (r *FundRepository) UpsertFund(ctx context.Context, f model.Fund) error {
	query := `
		INSERT INTO fund (symbol, name)
		VALUES (?, ?)
		ON CONFLICT(symbol) DO UPDATE SET name = excluded.name
	`

	if _, err := r.getQuerier().ExecContext(ctx, query, f.Symbol, f.DisplayName); err != nil {
		return fmt.Errorf("failed to upsert fund: %w", err)
	}
	return nil
}
