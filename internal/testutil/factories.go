package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// FundBuilder provides a fluent interface for creating test funds.
//
// Example usage:
//
//	fund := testutil.NewFund().
//	    WithSymbol("AFT").
//	    WithName("Ak Portföy Yeni Teknolojiler").
//	    Build(t, db)
type FundBuilder struct {
	Symbol string
	Name   string
}

// NewFund creates a FundBuilder with sensible defaults.
func NewFund() *FundBuilder {
	return &FundBuilder{
		Symbol: MakeSymbol("TST"),
		Name:   MakeFundName("Test Fund"),
	}
}

// WithSymbol sets a custom symbol.
func (b *FundBuilder) WithSymbol(symbol string) *FundBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets a custom name.
func (b *FundBuilder) WithName(name string) *FundBuilder {
	b.Name = name
	return b
}

// Build creates the fund in the database and returns it.
func (b *FundBuilder) Build(t *testing.T, db *sql.DB) model.Fund {
	t.Helper()

	_, err := db.Exec(`INSERT INTO fund (symbol, name) VALUES (?, ?)`, b.Symbol, b.Name)
	if err != nil {
		t.Fatalf("Failed to create test fund: %v", err)
	}

	return model.Fund{Symbol: b.Symbol, DisplayName: b.Name}
}

// CreateFund creates a fund with the given symbol and default values.
func CreateFund(t *testing.T, db *sql.DB, symbol string) model.Fund {
	t.Helper()
	return NewFund().WithSymbol(symbol).Build(t, db)
}

// HistoryBuilder provides a fluent interface for creating a fund's price history.
//
// Example usage:
//
//	testutil.NewHistory("AFT").
//	    WithPoint("2024-03-01", 0.15).
//	    WithPoint("2024-03-04", 0.16).
//	    Build(t, db)
type HistoryBuilder struct {
	Symbol string
	Points []model.HistoricalDataPoint
}

// NewHistory creates an empty HistoryBuilder for symbol.
func NewHistory(symbol string) *HistoryBuilder {
	return &HistoryBuilder{Symbol: symbol}
}

// WithPoint adds a day with the given price.
func (b *HistoryBuilder) WithPoint(date string, price float64) *HistoryBuilder {
	b.Points = append(b.Points, model.HistoricalDataPoint{
		Date:              model.MustParseDate(date),
		Price:             price,
		SharesOutstanding: 1000,
		InvestorCount:     10,
		PortfolioSize:     price * 1000,
	})
	return b
}

// WithDailyPrices adds one point per day ending on end and going back len(prices)-1
// days; prices[0] is the price on end.
func (b *HistoryBuilder) WithDailyPrices(end string, prices ...float64) *HistoryBuilder {
	last := model.MustParseDate(end)
	for i, price := range prices {
		b.WithPoint(model.Date{Time: last.AddDate(0, 0, -i)}.String(), price)
	}
	return b
}

// Build stores the history and returns the points in descending date order.
func (b *HistoryBuilder) Build(t *testing.T, db *sql.DB) []model.HistoricalDataPoint {
	t.Helper()

	query := `
		INSERT INTO fund_history (id, symbol, date, price, shares, investors, portfolio_size)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, p := range b.Points {
		_, err := db.Exec(query, uuid.New().String(), b.Symbol, p.Date.String(), p.Price, p.SharesOutstanding, p.InvestorCount, p.PortfolioSize)
		if err != nil {
			t.Fatalf("Failed to create test history point: %v", err)
		}
	}

	rows, err := db.QueryContext(context.Background(), `SELECT date, price, shares, investors, portfolio_size FROM fund_history WHERE symbol = ? ORDER BY date DESC`, b.Symbol)
	if err != nil {
		t.Fatalf("Failed to read back test history: %v", err)
	}
	defer rows.Close()

	var points []model.HistoricalDataPoint
	for rows.Next() {
		var dateStr string
		var p model.HistoricalDataPoint
		if err := rows.Scan(&dateStr, &p.Price, &p.SharesOutstanding, &p.InvestorCount, &p.PortfolioSize); err != nil {
			t.Fatalf("Failed to scan test history: %v", err)
		}
		p.Date = model.MustParseDate(dateStr)
		points = append(points, p)
	}
	return points
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	tx := testutil.NewTransaction(1, "AFT").
//	    Sell(25).
//	    OnDate("2024-02-01").
//	    Build(t, db)
type TransactionBuilder struct {
	ID          int64
	PortfolioID int64
	Symbol      string
	Date        string
	Type        model.TransactionType
	Quantity    float64
}

// NewTransaction creates a TransactionBuilder for a buy of 100 units in portfolio 1.
func NewTransaction(id int64, symbol string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:          id,
		PortfolioID: 1,
		Symbol:      symbol,
		Date:        "2024-01-01",
		Type:        model.TransactionTypeBuy,
		Quantity:    100,
	}
}

// Buy makes the transaction a buy of quantity units.
func (b *TransactionBuilder) Buy(quantity float64) *TransactionBuilder {
	b.Type = model.TransactionTypeBuy
	b.Quantity = quantity
	return b
}

// Sell makes the transaction a sell of quantity units.
func (b *TransactionBuilder) Sell(quantity float64) *TransactionBuilder {
	b.Type = model.TransactionTypeSell
	b.Quantity = quantity
	return b
}

// OnDate sets the transaction date ("2006-01-02").
func (b *TransactionBuilder) OnDate(date string) *TransactionBuilder {
	b.Date = date
	return b
}

// InPortfolio sets the portfolio.
func (b *TransactionBuilder) InPortfolio(id int64) *TransactionBuilder {
	b.PortfolioID = id
	return b
}

// Model returns the transaction without storing it.
func (b *TransactionBuilder) Model() model.Transaction {
	return model.Transaction{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		Symbol:      b.Symbol,
		Date:        model.MustParseDate(b.Date),
		Type:        b.Type,
		Quantity:    b.Quantity,
	}
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO "transaction" (id, portfolio_id, symbol, date, type, quantity)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.Symbol, b.Date, string(b.Type), b.Quantity)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return b.Model()
}
