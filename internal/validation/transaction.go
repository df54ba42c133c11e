package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// ValidateCreateTransaction validates a transaction creation request and converts it
// into an ingestion entry.
//
// Required fields:
//   - symbol: letters and digits only
//   - type: buy or sell
//   - quantity: must be positive
//   - date: must be in YYYY-MM-DD format
//
// Optional fields:
//   - price: must not be negative if provided
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) (model.NewTransaction, error) {
	errors := make(map[string]string)

	if err := ValidateSymbol(req.Symbol); err != nil {
		errors["symbol"] = err.Error()
	}

	txType := model.TransactionType(strings.ToLower(strings.TrimSpace(req.Type)))
	if req.Type == "" {
		errors["type"] = "type is required"
	} else if !txType.Valid() {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if req.Quantity <= 0.0 {
		errors["quantity"] = "quantity must be positive"
	}

	var date model.Date
	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else {
		d, err := model.ParseDate(req.Date)
		if err != nil {
			errors["date"] = err.Error()
		}
		date = d
	}

	if req.Price != nil && *req.Price < 0 {
		errors["price"] = "price cannot be negative"
	}

	if len(errors) > 0 {
		return model.NewTransaction{}, &Error{Fields: errors}
	}

	return model.NewTransaction{
		Symbol:   strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Type:     txType,
		Quantity: req.Quantity,
		Date:     date,
	}, nil
}
