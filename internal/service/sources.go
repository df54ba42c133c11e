package service

import (
	"context"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// TransactionSource stores the transaction log of a portfolio.
type TransactionSource interface {
	Transactions(ctx context.Context, portfolioID int64) ([]model.Transaction, error)
	AppendTransaction(ctx context.Context, t model.Transaction) error
}

// PriceSource reports the current price of a fund: the first element of its
// descending history.
type PriceSource interface {
	LatestPrice(ctx context.Context, symbol string) (float64, error)
}

// HistorySource returns a fund's full history, most recent first.
type HistorySource interface {
	History(ctx context.Context, symbol string) ([]model.HistoricalDataPoint, error)
}

// FundDirectory lists the known funds as symbol -> display name.
type FundDirectory interface {
	Funds(ctx context.Context) (map[string]string, error)
}
