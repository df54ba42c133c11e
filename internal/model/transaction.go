package model

// TransactionType is the side of a transaction.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeBuy || t == TransactionTypeSell
}

// Sign returns +1 for buys and -1 for sells. Unknown types contribute nothing.
func (t TransactionType) Sign() float64 {
	switch t {
	case TransactionTypeBuy:
		return 1
	case TransactionTypeSell:
		return -1
	default:
		return 0
	}
}

// Transaction represents a buy or sell of a fund within a portfolio.
// Transactions are immutable once created; corrections are made with an
// offsetting transaction.
type Transaction struct {
	ID          int64           `json:"id"`
	PortfolioID int64           `json:"portfolio_id"`
	Symbol      string          `json:"symbol"`
	Date        Date            `json:"date"`
	Type        TransactionType `json:"type"`
	Quantity    float64         `json:"quantity"`
}

// SignedQuantity returns the quantity change this transaction applies to its holding.
func (t Transaction) SignedQuantity() float64 {
	return t.Type.Sign() * t.Quantity
}

// NewTransaction is a transaction entry as submitted by the user, before it has been
// assigned an identity.
type NewTransaction struct {
	Symbol   string          `json:"symbol"`
	Type     TransactionType `json:"type"`
	Quantity float64         `json:"quantity"`
	Date     Date            `json:"date"`
}
