package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// querier is the subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ParseDate parses a stored date column in "2006-01-02" or RFC3339 format.
// SQLite hands DATE columns back as text and some drivers append a time part.
func ParseDate(str string) (model.Date, error) {
	d, err := model.ParseDate(strings.TrimSpace(str))
	if err != nil {
		return model.Date{}, fmt.Errorf("failed to parse date: %w", err)
	}
	return d, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
