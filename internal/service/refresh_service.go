package service

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/repository"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/tefas"
)

const (
	// maxConcurrentFetches bounds the number of funds fetched from TEFAS at once.
	maxConcurrentFetches = 4
	// initialHistoryYears is how far back a fund with no stored history is fetched.
	initialHistoryYears = 5
	// scheduledRefreshTimeout caps a single scheduled run.
	scheduledRefreshTimeout = 15 * time.Minute
)

// RefreshService pulls new daily fund data from TEFAS into the SQLite store.
type RefreshService struct {
	fundRepo    *repository.FundRepository
	historyRepo *repository.HistoryRepository
	client      tefas.Client
	lister      tefas.FundLister
	now         func() time.Time

	running   atomic.Bool
	mu        sync.Mutex
	listeners []func(context.Context)
	cron      *cron.Cron
}

// NewRefreshService creates a new RefreshService.
func NewRefreshService(fundRepo *repository.FundRepository, historyRepo *repository.HistoryRepository, client tefas.Client) *RefreshService {
	return &RefreshService{
		fundRepo:    fundRepo,
		historyRepo: historyRepo,
		client:      client,
		now:         time.Now,
	}
}

// WithClock replaces the clock used to pick the end of the fetched range.
func (s *RefreshService) WithClock(now func() time.Time) *RefreshService {
	s.now = now
	return s
}

// WithFundList makes every refresh first add the funds published by lister to the
// directory, so new TEFAS funds are picked up without an import.
func (s *RefreshService) WithFundList(lister tefas.FundLister) *RefreshService {
	s.lister = lister
	return s
}

// OnRefreshed registers fn to run after every refresh that stored new data.
func (s *RefreshService) OnRefreshed(fn func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

type fetchOutcome struct {
	symbol string
	name   string
	points []model.HistoricalDataPoint
	err    error
}

// SyncFunds adds the funds published by the fund lister to the directory and returns
// how many were new. Stored names are kept unless they are only the symbol.
// Returns ErrRefreshInProgress if a refresh is running.
func (s *RefreshService) SyncFunds(ctx context.Context) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, apperrors.ErrRefreshInProgress
	}
	defer s.running.Store(false)

	return s.syncFunds(ctx)
}

func (s *RefreshService) syncFunds(ctx context.Context) (int, error) {
	if s.lister == nil {
		return 0, fmt.Errorf("%w: no fund list configured", apperrors.ErrFailedToSyncFunds)
	}

	listed, err := s.lister.FundList(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToSyncFunds, err)
	}
	stored, err := s.fundRepo.Funds(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToSyncFunds, err)
	}

	symbols := make([]string, 0, len(listed))
	for symbol := range listed {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)

	added := 0
	for _, symbol := range symbols {
		name := listed[symbol]
		current, ok := stored[symbol]
		if ok && (current != symbol || name == "") {
			continue
		}
		if name == "" {
			name = symbol
		}
		if err := s.fundRepo.UpsertFund(ctx, model.Fund{Symbol: symbol, DisplayName: name}); err != nil {
			return added, fmt.Errorf("%w: %w", apperrors.ErrFailedToSyncFunds, err)
		}
		if !ok {
			added++
		}
	}

	log.Printf("fund list synced: %d listed, %d new", len(listed), added)
	return added, nil
}

// Refresh fetches every fund in the directory from the day after its newest stored
// point (or five years back when nothing is stored) through today. A failing fund is
// reported in the result and does not stop the others. With a fund lister configured
// the directory is synced first; a failed sync is logged and the stored directory used.
// Returns ErrRefreshInProgress if another refresh is running.
func (s *RefreshService) Refresh(ctx context.Context) (model.RefreshResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return model.RefreshResult{}, apperrors.ErrRefreshInProgress
	}
	defer s.running.Store(false)

	newFunds := 0
	if s.lister != nil {
		added, err := s.syncFunds(ctx)
		if err != nil {
			log.Printf("refreshing stored funds only: %v", err)
		}
		newFunds = added
	}

	funds, err := s.fundRepo.Funds(ctx)
	if err != nil {
		return model.RefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshFunds, err)
	}
	directory := model.FundDirectory(funds)

	symbols := make([]string, 0, len(funds))
	for symbol := range funds {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)

	today := model.DateOf(s.now().In(tefas.Istanbul))
	outcomes := make([]fetchOutcome, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, symbol := range symbols {
		g.Go(func() error {
			outcomes[i] = s.fetch(gctx, symbol, today)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return model.RefreshResult{}, err
	}

	// SQLite takes one writer at a time, so results are stored sequentially.
	result := model.RefreshResult{
		NewFunds:     newFunds,
		UpdatedFunds: []model.RefreshedFund{},
		Errors:       []model.RefreshedFundError{},
	}
	for _, o := range outcomes {
		name := directory.Name(o.symbol)
		if o.err != nil {
			result.Errors = append(result.Errors, model.RefreshedFundError{Symbol: o.symbol, Name: name, Error: o.err.Error()})
			continue
		}

		added, err := s.historyRepo.InsertHistory(ctx, o.symbol, o.points)
		if err != nil {
			result.Errors = append(result.Errors, model.RefreshedFundError{Symbol: o.symbol, Name: name, Error: err.Error()})
			continue
		}

		// Funds imported without a title take the one TEFAS publishes.
		if o.name != "" && name == o.symbol {
			if err := s.fundRepo.UpsertFund(ctx, model.Fund{Symbol: o.symbol, DisplayName: o.name}); err != nil {
				log.Printf("failed to update name of %s: %v", o.symbol, err)
			} else {
				name = o.name
			}
		}

		result.UpdatedFunds = append(result.UpdatedFunds, model.RefreshedFund{Symbol: o.symbol, Name: name, PointsAdded: added})
		result.TotalUpdated += added
	}
	result.TotalErrors = len(result.Errors)
	result.Success = result.TotalErrors == 0

	log.Printf("refresh finished: %d points added, %d funds failed", result.TotalUpdated, result.TotalErrors)

	if result.TotalUpdated > 0 {
		s.notify(ctx)
	}
	return result, nil
}

func (s *RefreshService) fetch(ctx context.Context, symbol string, today model.Date) fetchOutcome {
	latest, ok, err := s.historyRepo.LatestDate(ctx, symbol)
	if err != nil {
		return fetchOutcome{symbol: symbol, err: err}
	}

	start := model.Date{Time: today.AddDate(-initialHistoryYears, 0, 0)}
	if ok {
		start = model.Date{Time: latest.AddDate(0, 0, 1)}
	}
	if start.After(today) {
		return fetchOutcome{symbol: symbol}
	}

	history, err := s.client.FetchHistory(ctx, symbol, start, today)
	if err != nil {
		log.Printf("failed to refresh %s: %v", symbol, err)
		return fetchOutcome{symbol: symbol, err: err}
	}
	return fetchOutcome{symbol: symbol, name: history.Name, points: history.Points}
}

func (s *RefreshService) notify(ctx context.Context) {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx)
	}
}

// Schedule runs Refresh on the standard five-field cron spec. An empty spec does nothing.
func (s *RefreshService) Schedule(spec string) error {
	if spec == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		s.cron = cron.New()
	}
	if _, err := s.cron.AddFunc(spec, s.runScheduled); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	s.cron.Start()
	log.Printf("TEFAS refresh scheduled: %s", spec)
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (s *RefreshService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (s *RefreshService) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), scheduledRefreshTimeout)
	defer cancel()

	if _, err := s.Refresh(ctx); err != nil {
		log.Printf("scheduled refresh failed: %v", err)
	}
}
