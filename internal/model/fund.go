package model

// Fund is an entry of the fund directory.
type Fund struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"name"`
}

// FundDirectory maps fund symbols to display names.
type FundDirectory map[string]string

// Name returns the display name of symbol, falling back to the symbol itself.
func (d FundDirectory) Name(symbol string) string {
	if name, ok := d[symbol]; ok && name != "" {
		return name
	}
	return symbol
}

// HistoricalDataPoint is one day of published data for a fund.
type HistoricalDataPoint struct {
	Date              Date    `json:"Date"`
	Price             float64 `json:"Price"`
	SharesOutstanding float64 `json:"NumberOfShares"`
	InvestorCount     float64 `json:"NumberOfInvestors"`
	PortfolioSize     float64 `json:"PortfolioSize"`
}

// HistoryPoint is a stored historical data point for a fund.
type HistoryPoint struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	HistoricalDataPoint
}

// LatestPrice returns the price of the first element of a descending series,
// or 0 when the series is empty.
func LatestPrice(series []HistoricalDataPoint) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[0].Price
}

// FundPrice is the response body for a single fund's current price.
type FundPrice struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// RefreshResult reports the outcome of a historical data refresh.
type RefreshResult struct {
	Success      bool                 `json:"success"`
	NewFunds     int                  `json:"newFunds"`
	UpdatedFunds []RefreshedFund      `json:"updatedFunds"`
	Errors       []RefreshedFundError `json:"errors"`
	TotalUpdated int                  `json:"totalUpdated"`
	TotalErrors  int                  `json:"totalErrors"`
}

// RefreshedFund is a fund whose history was refreshed.
type RefreshedFund struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	PointsAdded int    `json:"pointsAdded"`
}

// RefreshedFundError is a fund whose refresh failed.
type RefreshedFundError struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Error  string `json:"error"`
}
