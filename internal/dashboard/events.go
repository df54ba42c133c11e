package dashboard

import (
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/timewindow"
)

// Event is something that happened to the dashboard. Reducers fold events into state.
type Event interface {
	event()
}

// PortfolioRequested marks the start of a portfolio load.
type PortfolioRequested struct{}

// PortfolioLoaded carries the transaction log and current prices of the portfolio.
type PortfolioLoaded struct {
	Transactions []model.Transaction
	Prices       model.PriceMap
}

// PortfolioFailed reports that loading the portfolio failed.
type PortfolioFailed struct {
	Err error
}

// TransactionAdded carries a newly recorded entry and the price observed for its fund.
type TransactionAdded struct {
	Entry model.NewTransaction
	Price float64
}

// FundsRequested marks the start of a fund directory load.
type FundsRequested struct{}

// FundsLoaded carries the fund directory.
type FundsLoaded struct {
	Funds model.FundDirectory
}

// FundsFailed reports that loading the fund directory failed.
type FundsFailed struct {
	Err error
}

// FundSelected changes the fund being charted.
type FundSelected struct {
	Symbol string
}

// TimeFilterChanged changes the charting window.
type TimeFilterChanged struct {
	Window timewindow.Window
}

// HistoryLoaded carries the full descending history of a fund.
type HistoryLoaded struct {
	Symbol string
	Series []model.HistoricalDataPoint
}

// HistoryFailed reports that loading a fund's history failed.
type HistoryFailed struct {
	Err error
}

func (PortfolioRequested) event() {}
func (PortfolioLoaded) event()    {}
func (PortfolioFailed) event()    {}
func (TransactionAdded) event()   {}
func (FundsRequested) event()     {}
func (FundsLoaded) event()        {}
func (FundsFailed) event()        {}
func (FundSelected) event()       {}
func (TimeFilterChanged) event()  {}
func (HistoryLoaded) event()      {}
func (HistoryFailed) event()      {}
