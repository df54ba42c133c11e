// Package dashboard holds the explicit state of the portfolio and fund views and the
// reducers that move it forward. Reducers never mutate the state they are given.
package dashboard

import (
	"slices"
	"time"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/timewindow"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/valuation"
)

// PortfolioState is the portfolio view: the transaction log, the prices used to value it
// and the metrics derived from both.
type PortfolioState struct {
	PortfolioID   int64
	Transactions  []model.Transaction
	CurrentPrices model.PriceMap
	Items         []model.PortfolioItem
	Metrics       model.PortfolioMetrics
	Loaded        bool
	Loading       bool
	Error         error
}

// NewPortfolioState returns an empty, not yet loaded portfolio.
func NewPortfolioState(portfolioID int64) PortfolioState {
	return PortfolioState{
		PortfolioID:   portfolioID,
		Transactions:  []model.Transaction{},
		CurrentPrices: model.PriceMap{},
		Items:         []model.PortfolioItem{},
	}
}

// ReducePortfolio applies e to s. Events that do not concern the portfolio return s unchanged.
func ReducePortfolio(s PortfolioState, e Event, now time.Time) PortfolioState {
	switch e := e.(type) {
	case PortfolioRequested:
		s.Loading = true
		s.Error = nil

	case PortfolioLoaded:
		transactions := slices.Clone(e.Transactions)
		if transactions == nil {
			transactions = []model.Transaction{}
		}
		prices := make(model.PriceMap, len(e.Prices))
		for k, v := range e.Prices {
			prices[k] = v
		}
		s.Transactions = transactions
		s.CurrentPrices = prices
		s.Items, s.Metrics = valuation.ComputeMetrics(transactions, prices, now)
		s.Loaded = true
		s.Loading = false
		s.Error = nil

	case PortfolioFailed:
		// Keep whatever was loaded before; metrics are never recomputed from partial inputs.
		s.Loading = false
		s.Error = e.Err

	case TransactionAdded:
		result := valuation.AddTransaction(s.Transactions, e.Entry, e.Price, s.CurrentPrices, s.PortfolioID, now)
		s.Transactions = result.Transactions
		s.CurrentPrices = result.Prices
		s.Items = result.Items
		s.Metrics = result.Metrics
	}
	return s
}

// FundState is the fund chart view.
type FundState struct {
	Funds          model.FundDirectory
	SelectedFund   string
	HistoricalData []model.HistoricalDataPoint
	TimeFilter     timewindow.Window
	Loading        bool
	Error          error
}

// NewFundState returns the initial fund view with the default window selected.
func NewFundState() FundState {
	return FundState{
		Funds:          model.FundDirectory{},
		HistoricalData: []model.HistoricalDataPoint{},
		TimeFilter:     timewindow.Default,
	}
}

// ReduceFunds applies e to s. Events that do not concern the fund view return s unchanged.
func ReduceFunds(s FundState, e Event) FundState {
	switch e := e.(type) {
	case FundsRequested:
		s.Loading = true
		s.Error = nil

	case FundsLoaded:
		funds := make(model.FundDirectory, len(e.Funds))
		for k, v := range e.Funds {
			funds[k] = v
		}
		s.Funds = funds
		s.Loading = false

	case FundsFailed:
		s.Loading = false
		s.Error = e.Err

	case FundSelected:
		if e.Symbol != s.SelectedFund {
			s.SelectedFund = e.Symbol
			s.HistoricalData = []model.HistoricalDataPoint{}
		}
		s.Loading = true
		s.Error = nil

	case TimeFilterChanged:
		s.TimeFilter = e.Window

	case HistoryLoaded:
		// A response for a fund that is no longer selected is stale.
		if e.Symbol != s.SelectedFund {
			return s
		}
		s.HistoricalData = slices.Clone(e.Series)
		s.Loading = false
		s.Error = nil

	case HistoryFailed:
		s.Loading = false
		s.Error = e.Err
	}
	return s
}

// FilteredHistory returns the selected fund's history narrowed to the current window.
func (s FundState) FilteredHistory(now time.Time) []model.HistoricalDataPoint {
	return timewindow.Filter(s.HistoricalData, s.TimeFilter, now)
}

// CurrentPrice returns the latest price of the selected fund, or 0 when no history is loaded.
func (s FundState) CurrentPrice() float64 {
	return model.LatestPrice(s.HistoricalData)
}
