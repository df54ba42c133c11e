package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/dashboard"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/valuation"
)

// maxConcurrentPriceLookups bounds the fan-out when loading current prices.
const maxConcurrentPriceLookups = 8

// PortfolioService owns the portfolio view. All loads and recomputes are serialized,
// so an added transaction always sees the latest log and prices.
type PortfolioService struct {
	transactions TransactionSource
	prices       PriceSource
	now          func() time.Time

	mu    sync.Mutex
	state dashboard.PortfolioState
}

// NewPortfolioService creates a PortfolioService for the given portfolio.
func NewPortfolioService(transactions TransactionSource, prices PriceSource, portfolioID int64) *PortfolioService {
	return &PortfolioService{
		transactions: transactions,
		prices:       prices,
		now:          time.Now,
		state:        dashboard.NewPortfolioState(portfolioID),
	}
}

// WithClock replaces the reference time used for holding periods.
func (s *PortfolioService) WithClock(now func() time.Time) *PortfolioService {
	s.now = now
	return s
}

// Load fetches the transaction log and the current price of every fund in it, then
// recomputes the portfolio. A fund whose price cannot be fetched is valued at 0.
func (s *PortfolioService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *PortfolioService) load(ctx context.Context) error {
	s.dispatch(dashboard.PortfolioRequested{})

	transactions, err := s.transactions.Transactions(ctx, s.state.PortfolioID)
	if err != nil {
		s.dispatch(dashboard.PortfolioFailed{Err: err})
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	prices, err := s.loadPrices(ctx, distinctSymbols(transactions))
	if err != nil {
		s.dispatch(dashboard.PortfolioFailed{Err: err})
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrievePrices, err)
	}

	s.dispatch(dashboard.PortfolioLoaded{Transactions: transactions, Prices: prices})
	return nil
}

// loadPrices fetches the latest price of every symbol concurrently. Only cancellation
// of ctx fails the load; individual lookup failures degrade to a price of 0.
func (s *PortfolioService) loadPrices(ctx context.Context, symbols []string) (model.PriceMap, error) {
	type lookup struct {
		price float64
		found bool
	}
	results := make([]lookup, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPriceLookups)

	for i, symbol := range symbols {
		g.Go(func() error {
			price, err := s.prices.LatestPrice(gctx, symbol)
			switch {
			case err == nil:
				results[i] = lookup{price: price, found: true}
			case errors.Is(err, apperrors.ErrFundHistoryNotFound):
				// No published price yet.
			default:
				log.Printf("failed to fetch price for %s: %v", symbol, err)
				results[i] = lookup{found: true}
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prices := make(model.PriceMap, len(symbols))
	for i, symbol := range symbols {
		if results[i].found {
			prices[symbol] = results[i].price
		}
	}
	return prices, nil
}

// ensureLoaded loads the portfolio on first use. Callers must hold s.mu.
func (s *PortfolioService) ensureLoaded(ctx context.Context) error {
	if s.state.Loaded {
		return nil
	}
	return s.load(ctx)
}

// Summary returns the open holdings and aggregate metrics, valued at the current time.
func (s *PortfolioService) Summary(ctx context.Context) (model.PortfolioSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return model.PortfolioSummary{}, err
	}

	// Holding periods move with the clock, so recompute rather than serve the cached view.
	items, metrics := valuation.ComputeMetrics(s.state.Transactions, s.state.CurrentPrices, s.now())
	return model.PortfolioSummary{Items: items, Metrics: metrics}, nil
}

// Transactions returns the transaction log.
func (s *PortfolioService) Transactions(ctx context.Context) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(s.state.Transactions), nil
}

// Prices returns the current price of every fund in the transaction log.
func (s *PortfolioService) Prices(ctx context.Context) (model.PriceMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return maps.Clone(s.state.CurrentPrices), nil
}

// AddTransaction records entry and recomputes the portfolio. When price is nil the
// fund's latest price is looked up; a fund without any published price is rejected.
func (s *PortfolioService) AddTransaction(ctx context.Context, entry model.NewTransaction, price *float64) (valuation.Ingestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return valuation.Ingestion{}, err
	}

	entry.Symbol = strings.ToUpper(strings.TrimSpace(entry.Symbol))

	var observed float64
	if price != nil {
		observed = *price
	} else {
		p, err := s.prices.LatestPrice(ctx, entry.Symbol)
		switch {
		case errors.Is(err, apperrors.ErrFundNotFound), errors.Is(err, apperrors.ErrFundHistoryNotFound):
			return valuation.Ingestion{}, fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, entry.Symbol)
		case err != nil:
			log.Printf("failed to fetch price for %s: %v", entry.Symbol, err)
		}
		observed = p
	}

	now := s.now()
	result := valuation.AddTransaction(s.state.Transactions, entry, observed, s.state.CurrentPrices, s.state.PortfolioID, now)

	if err := s.transactions.AppendTransaction(ctx, result.Transaction); err != nil {
		return valuation.Ingestion{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToCreateTransaction, err)
	}

	s.state = dashboard.ReducePortfolio(s.state, dashboard.TransactionAdded{Entry: entry, Price: observed}, now)
	log.Printf("recorded %s of %g %s (transaction %d)", result.Transaction.Type, result.Transaction.Quantity, result.Transaction.Symbol, result.Transaction.ID)

	return result, nil
}

// Invalidate drops the cached view so the next read reloads it.
func (s *PortfolioService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loaded = false
}

func (s *PortfolioService) dispatch(e dashboard.Event) {
	s.state = dashboard.ReducePortfolio(s.state, e, s.now())
}

// distinctSymbols returns the symbols of transactions in order of first appearance.
func distinctSymbols(transactions []model.Transaction) []string {
	seen := make(map[string]bool, len(transactions))
	symbols := make([]string, 0, len(transactions))
	for _, t := range transactions {
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			symbols = append(symbols, t.Symbol)
		}
	}
	return symbols
}
