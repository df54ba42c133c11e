// Package valuation folds a transaction log and a price map into per-holding and
// portfolio-wide metrics.
//
// Everything in this package is pure: no I/O, no clock reads, no mutation of the
// caller's slices or maps. The reference time is always passed in, so identical
// inputs produce identical outputs.
package valuation

import (
	"time"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

const millisPerDay = float64(24 * time.Hour / time.Millisecond)

// ComputeMetrics derives the open holdings and the portfolio aggregate from a
// transaction log and the current prices.
//
// Transactions must be supplied in chronological order. Each one adjusts its symbol's
// running (quantity, weighted date, total cost); a symbol whose quantity drops to zero
// or below is discarded, so a later buy reopens it from scratch.
//
// A missing price counts as 0. Divisions by a zero cost or zero holding period yield 0
// instead of NaN or Inf.
//
// Items are returned in the order their symbol was (re)opened.
func ComputeMetrics(transactions []model.Transaction, prices model.PriceMap, now time.Time) ([]model.PortfolioItem, model.PortfolioMetrics) {
	b := fold(transactions, prices)
	nowMillis := float64(now.UnixMilli())

	items := make([]model.PortfolioItem, 0, len(b.order))
	var metrics model.PortfolioMetrics
	var weightedDays float64

	for _, symbol := range b.order {
		h := b.holdings[symbol]
		item := h.item(prices.Price(symbol), nowMillis)
		items = append(items, item)

		metrics.TotalQuantity += item.Quantity
		metrics.TotalCost += item.TotalCost
		metrics.TotalValue += item.CurrentValue
		weightedDays += item.AverageHoldingDays * item.Quantity
	}

	metrics.AverageHoldingDays = safeDiv(weightedDays, metrics.TotalQuantity)
	metrics.ChangeMoney = metrics.TotalValue - metrics.TotalCost
	metrics.ChangePercent = changePercent(metrics.ChangeMoney, metrics.TotalCost)
	metrics.ChangePerAHD = safeDiv(metrics.ChangePercent, metrics.AverageHoldingDays)

	return items, metrics
}

// item converts an open holding into its view record.
func (h holding) item(price, nowMillis float64) model.PortfolioItem {
	currentValue := h.Quantity * price
	holdingDays := (nowMillis - h.WeightedDate) / millisPerDay
	changeMoney := currentValue - h.TotalCost
	pct := changePercent(changeMoney, h.TotalCost)

	return model.PortfolioItem{
		Symbol:             h.Symbol,
		Quantity:           h.Quantity,
		AverageHoldingDays: holdingDays,
		TotalCost:          h.TotalCost,
		CurrentValue:       currentValue,
		ChangeMoney:        changeMoney,
		ChangePercent:      pct,
		ChangePerAHD:       safeDiv(pct, holdingDays),
	}
}

func changePercent(changeMoney, totalCost float64) float64 {
	return safeDiv(changeMoney, totalCost) * 100
}

// safeDiv returns a/b, or 0 when b is 0.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
