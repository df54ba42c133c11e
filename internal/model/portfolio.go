package model

// PriceMap maps fund symbols to their latest known price.
type PriceMap map[string]float64

// Price returns the price of symbol, or 0 when it is unknown.
func (p PriceMap) Price(symbol string) float64 {
	return p[symbol]
}

// With returns a copy of p with the price of symbol set to price.
func (p PriceMap) With(symbol string, price float64) PriceMap {
	out := make(PriceMap, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[symbol] = price
	return out
}

// PortfolioItem is the derived view of one open holding.
type PortfolioItem struct {
	Symbol             string  `json:"symbol"`
	Quantity           float64 `json:"quantity"`
	AverageHoldingDays float64 `json:"averageHoldingDays"`
	TotalCost          float64 `json:"totalCost"`
	CurrentValue       float64 `json:"currentValue"`
	ChangeMoney        float64 `json:"changeMoney"`
	ChangePercent      float64 `json:"changePercent"`
	ChangePerAHD       float64 `json:"changePerAHD"`
}

// PortfolioMetrics aggregates all open holdings of a portfolio.
type PortfolioMetrics struct {
	TotalQuantity      float64 `json:"totalQuantity"`
	TotalCost          float64 `json:"totalCost"`
	TotalValue         float64 `json:"totalValue"`
	AverageHoldingDays float64 `json:"averageHoldingDays"`
	ChangeMoney        float64 `json:"changeMoney"`
	ChangePercent      float64 `json:"changePercent"`
	ChangePerAHD       float64 `json:"changePerAHD"`
}

// PortfolioSummary is the response body combining items and aggregate metrics.
type PortfolioSummary struct {
	Items   []PortfolioItem  `json:"items"`
	Metrics PortfolioMetrics `json:"metrics"`
}
