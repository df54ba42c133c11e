// Package tefas fetches published daily fund data from the TEFAS history endpoint.
package tefas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// DefaultBaseURL is the public TEFAS host.
const DefaultBaseURL = "https://www.tefas.gov.tr"

const (
	historyPath = "/api/DB/BindHistoryInfo"
	// The endpoint rejects ranges longer than this.
	maxRangeDays = 90
	requestDate  = "02.01.2006"
)

// Istanbul is the zone TEFAS stamps its trading days in.
var Istanbul = time.FixedZone("TRT", 3*60*60)

// Client is the interface the refresh job depends on.
type Client interface {
	FetchHistory(ctx context.Context, symbol string, start, end model.Date) (History, error)
}

// History is a fund's parsed history for a date range, most recent first.
type History struct {
	Symbol string
	Name   string
	Points []model.HistoricalDataPoint
}

// HistoryClient talks to the TEFAS history endpoint over HTTP.
type HistoryClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewHistoryClient creates a client for baseURL. An empty baseURL selects DefaultBaseURL.
func NewHistoryClient(baseURL string) *HistoryClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HistoryClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchHistory returns every published day of symbol between start and end, both
// inclusive. The range is requested in chunks the endpoint accepts; any failing chunk
// fails the whole fetch.
func (c *HistoryClient) FetchHistory(ctx context.Context, symbol string, start, end model.Date) (History, error) {
	history := History{Symbol: symbol}
	var records []Record

	for from := start; !from.After(end); {
		to := model.Date{Time: from.AddDate(0, 0, maxRangeDays)}
		if to.After(end) {
			to = end
		}

		chunk, err := c.query(ctx, symbol, from, to)
		if err != nil {
			return History{}, err
		}
		records = append(records, chunk...)

		from = model.Date{Time: to.AddDate(0, 0, 1)}
	}

	points, name, err := ParseRecords(records)
	if err != nil {
		return History{}, fmt.Errorf("failed to parse history for %s: %w", symbol, err)
	}
	history.Name = name
	history.Points = points
	return history, nil
}

// ParseRecords converts raw records into a descending series with one point per day.
// When a day appears more than once the last record wins. The returned name is the
// fund title of the first record carrying one.
func ParseRecords(records []Record) ([]model.HistoricalDataPoint, string, error) {
	byDay := make(map[model.Date]model.HistoricalDataPoint, len(records))
	var name string

	for _, r := range records {
		if !r.Date.IsInteger() {
			return nil, "", fmt.Errorf("invalid TARIH %s", r.Date.String())
		}
		day := model.DateOf(time.UnixMilli(r.Date.IntPart()).In(Istanbul))
		if name == "" {
			name = strings.TrimSpace(r.Name)
		}
		byDay[day] = model.HistoricalDataPoint{
			Date:              day,
			Price:             r.Price.InexactFloat64(),
			SharesOutstanding: r.Shares.InexactFloat64(),
			InvestorCount:     r.Investors.InexactFloat64(),
			PortfolioSize:     r.PortfolioSize.InexactFloat64(),
		}
	}

	points := make([]model.HistoricalDataPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, p)
	}
	slices.SortFunc(points, func(a, b model.HistoricalDataPoint) int {
		return b.Date.Compare(a.Date.Time)
	})
	return points, name, nil
}

// query posts one range request and decodes its records.
func (c *HistoryClient) query(ctx context.Context, symbol string, from, to model.Date) ([]Record, error) {
	form := url.Values{
		"fontip":      {"YAT"},
		"fonkod":      {symbol},
		"bastarih":    {from.Format(requestDate)},
		"bittarih":    {to.Format(requestDate)},
		"fonturkod":   {""},
		"fonunvantip": {""},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+historyPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch history for %s: unexpected status %d", symbol, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to decode history for %s: %w", symbol, err)
	}
	if response.Data == nil {
		return nil, fmt.Errorf("unexpected response format for %s: missing data", symbol)
	}
	return *response.Data, nil
}
