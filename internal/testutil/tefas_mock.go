package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/tefas"
)

// FetchCall records one FetchHistory invocation on MockTefasClient.
type FetchCall struct {
	Symbol string
	Start  model.Date
	End    model.Date
}

// MockTefasClient is a mock implementation of tefas.Client for testing.
// It serves predefined histories per symbol, restricted to the requested range,
// instead of making actual API calls.
type MockTefasClient struct {
	mu        sync.Mutex
	histories map[string]tefas.History
	errors    map[string]error
	calls     []FetchCall
}

// NewMockTefasClient creates a mock client with no data.
func NewMockTefasClient() *MockTefasClient {
	return &MockTefasClient{
		histories: make(map[string]tefas.History),
		errors:    make(map[string]error),
	}
}

// WithHistory configures the published history of symbol. Points must be descending.
func (m *MockTefasClient) WithHistory(symbol, name string, points []model.HistoricalDataPoint) *MockTefasClient {
	m.histories[symbol] = tefas.History{Symbol: symbol, Name: name, Points: points}
	return m
}

// WithError configures the mock to fail every fetch of symbol.
func (m *MockTefasClient) WithError(symbol string, err error) *MockTefasClient {
	m.errors[symbol] = err
	return m
}

// FetchHistory returns the configured points of symbol that fall within [start, end].
func (m *MockTefasClient) FetchHistory(_ context.Context, symbol string, start, end model.Date) (tefas.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, FetchCall{Symbol: symbol, Start: start, End: end})
	if err := m.errors[symbol]; err != nil {
		return tefas.History{}, err
	}

	h := m.histories[symbol]
	out := tefas.History{Symbol: symbol, Name: h.Name, Points: []model.HistoricalDataPoint{}}
	for _, p := range h.Points {
		if !p.Date.Before(start) && !p.Date.After(end) {
			out.Points = append(out.Points, p)
		}
	}
	return out, nil
}

// Calls returns the fetches made so far.
func (m *MockTefasClient) Calls() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchCall(nil), m.calls...)
}

// MockFundLister is a mock implementation of tefas.FundLister that serves a fixed listing.
type MockFundLister struct {
	Funds model.FundDirectory
	Err   error
}

// NewMockFundLister creates a lister publishing funds.
func NewMockFundLister(funds model.FundDirectory) *MockFundLister {
	return &MockFundLister{Funds: funds}
}

// FundList returns the configured listing or error.
func (m *MockFundLister) FundList(context.Context) (model.FundDirectory, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Funds, nil
}
