package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/dashboard"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/timewindow"
)

// FundService handles fund directory and price history lookups.
type FundService struct {
	directory FundDirectory
	history   HistorySource
	prices    PriceSource
	now       func() time.Time
}

// NewFundService creates a new FundService with the provided sources.
func NewFundService(directory FundDirectory, history HistorySource, prices PriceSource) *FundService {
	return &FundService{
		directory: directory,
		history:   history,
		prices:    prices,
		now:       time.Now,
	}
}

// WithClock replaces the reference time used for window cutoffs.
func (s *FundService) WithClock(now func() time.Time) *FundService {
	s.now = now
	return s
}

// Funds returns the fund directory.
func (s *FundService) Funds(ctx context.Context) (model.FundDirectory, error) {
	funds, err := s.directory.Funds(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveFunds, err)
	}
	return model.FundDirectory(funds), nil
}

// History returns the history of symbol narrowed to window, most recent first.
// Returns ErrFundNotFound when symbol is not in the directory.
func (s *FundService) History(ctx context.Context, symbol string, window timewindow.Window) ([]model.HistoricalDataPoint, error) {
	state := dashboard.NewFundState()

	funds, err := s.Funds(ctx)
	if err != nil {
		return nil, err
	}
	state = dashboard.ReduceFunds(state, dashboard.FundsLoaded{Funds: funds})

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if _, ok := state.Funds[symbol]; !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, symbol)
	}

	state = dashboard.ReduceFunds(state, dashboard.FundSelected{Symbol: symbol})
	state = dashboard.ReduceFunds(state, dashboard.TimeFilterChanged{Window: window})

	series, err := s.history.History(ctx, symbol)
	if err != nil {
		state = dashboard.ReduceFunds(state, dashboard.HistoryFailed{Err: err})
		if errors.Is(err, apperrors.ErrFundNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveFundHistory, state.Error)
	}
	state = dashboard.ReduceFunds(state, dashboard.HistoryLoaded{Symbol: symbol, Series: series})

	return state.FilteredHistory(s.now()), nil
}

// LatestPrice returns the current price of symbol.
// Returns ErrFundNotFound when symbol is unknown or has no published price.
func (s *FundService) LatestPrice(ctx context.Context, symbol string) (model.FundPrice, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	price, err := s.prices.LatestPrice(ctx, symbol)
	if errors.Is(err, apperrors.ErrFundNotFound) || errors.Is(err, apperrors.ErrFundHistoryNotFound) {
		return model.FundPrice{}, fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, symbol)
	}
	if err != nil {
		return model.FundPrice{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveFundPrice, err)
	}
	return model.FundPrice{Symbol: symbol, Price: price}, nil
}
