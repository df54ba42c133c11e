package valuation

import (
	"strings"
	"time"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// Ingestion is the result of appending one transaction to a log.
type Ingestion struct {
	Transaction  model.Transaction      `json:"transaction"`
	Transactions []model.Transaction    `json:"transactions"`
	Prices       model.PriceMap         `json:"prices"`
	Items        []model.PortfolioItem  `json:"items"`
	Metrics      model.PortfolioMetrics `json:"metrics"`
}

// NextID returns the identity for the next transaction of a log: one past the
// highest ID in use. Identity never depends on the position or length of the log.
func NextID(existing []model.Transaction) int64 {
	var maxID int64
	for _, tx := range existing {
		if tx.ID > maxID {
			maxID = tx.ID
		}
	}
	return maxID + 1
}

// NewEntry builds the transaction for entry with the given identity.
func NewEntry(id, portfolioID int64, entry model.NewTransaction) model.Transaction {
	return model.Transaction{
		ID:          id,
		PortfolioID: portfolioID,
		Symbol:      strings.ToUpper(strings.TrimSpace(entry.Symbol)),
		Date:        entry.Date,
		Type:        entry.Type,
		Quantity:    entry.Quantity,
	}
}

// AddTransaction appends entry to existing, records observedPrice as the current price
// of its symbol and recomputes the portfolio.
//
// Neither existing nor prices is modified; the returned Ingestion holds fresh copies.
func AddTransaction(
	existing []model.Transaction,
	entry model.NewTransaction,
	observedPrice float64,
	prices model.PriceMap,
	portfolioID int64,
	now time.Time,
) Ingestion {
	tx := NewEntry(NextID(existing), portfolioID, entry)

	transactions := make([]model.Transaction, 0, len(existing)+1)
	transactions = append(transactions, existing...)
	transactions = append(transactions, tx)

	updatedPrices := prices.With(tx.Symbol, observedPrice)
	items, metrics := ComputeMetrics(transactions, updatedPrices, now)

	return Ingestion{
		Transaction:  tx,
		Transactions: transactions,
		Prices:       updatedPrices,
		Items:        items,
		Metrics:      metrics,
	}
}
