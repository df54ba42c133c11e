package request

// CreateTransactionRequest is the body of POST /api/portfolio/transactions.
// Price is optional; when omitted the fund's latest published price is used.
type CreateTransactionRequest struct {
	Symbol   string   `json:"symbol"`
	Type     string   `json:"type"`
	Quantity float64  `json:"quantity"`
	Date     string   `json:"date"`
	Price    *float64 `json:"price,omitempty"`
}
