package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// HistoryRepository provides data access methods for the fund_history table.
type HistoryRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHistoryRepository creates a new HistoryRepository with the provided database connection.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *HistoryRepository) WithTx(tx *sql.Tx) *HistoryRepository {
	return &HistoryRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HistoryRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// History returns the stored history of symbol ordered by date descending, so
// element 0 is the current price. Returns an empty slice for an unknown symbol.
func (r *HistoryRepository) History(ctx context.Context, symbol string) ([]model.HistoricalDataPoint, error) {
	query := `
		SELECT date, price, shares, investors, portfolio_size
		FROM fund_history
		WHERE symbol = ?
		ORDER BY date DESC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_history table: %w", err)
	}
	defer rows.Close()

	series := []model.HistoricalDataPoint{}
	for rows.Next() {
		var dateStr string
		var p model.HistoricalDataPoint

		err := rows.Scan(
			&dateStr,
			&p.Price,
			&p.SharesOutstanding,
			&p.InvestorCount,
			&p.PortfolioSize,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund_history table results: %w", err)
		}

		p.Date, err = ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		series = append(series, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_history table: %w", err)
	}

	return series, nil
}

// LatestPrice returns the price of the most recent stored point of symbol.
// Returns ErrFundHistoryNotFound when symbol has no history.
func (r *HistoryRepository) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	query := `
		SELECT price
		FROM fund_history
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT 1
	`

	var price float64
	err := r.getQuerier().QueryRowContext(ctx, query, symbol).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.ErrFundHistoryNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query latest price: %w", err)
	}
	return price, nil
}

// LatestDate returns the date of the most recent stored point of symbol.
// The boolean is false when symbol has no history.
func (r *HistoryRepository) LatestDate(ctx context.Context, symbol string) (model.Date, bool, error) {
	query := `SELECT MAX(date) FROM fund_history WHERE symbol = ?`

	var dateStr sql.NullString
	if err := r.getQuerier().QueryRowContext(ctx, query, symbol).Scan(&dateStr); err != nil {
		return model.Date{}, false, fmt.Errorf("failed to query latest date: %w", err)
	}
	if !dateStr.Valid {
		return model.Date{}, false, nil
	}

	d, err := ParseDate(dateStr.String)
	if err != nil {
		return model.Date{}, false, err
	}
	return d, true, nil
}

// InsertHistory stores points for symbol, skipping days that are already stored.
// Returns the number of points actually added.
func (r *HistoryRepository) InsertHistory(ctx context.Context, symbol string, points []model.HistoricalDataPoint) (int, error) {
	query := `
		INSERT INTO fund_history (id, symbol, date, price, shares, investors, portfolio_size)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO NOTHING
	`

	added := 0
	for _, p := range points {
		result, err := r.getQuerier().ExecContext(ctx, query,
			uuid.New().String(),
			symbol,
			p.Date.String(),
			p.Price,
			p.SharesOutstanding,
			p.InvestorCount,
			p.PortfolioSize,
		)
		if err != nil {
			return added, fmt.Errorf("failed to insert fund_history: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return added, fmt.Errorf("failed to get rows affected: %w", err)
		}
		added += int(n)
	}

	return added, nil
}
