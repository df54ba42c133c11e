package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/testutil"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/valuation"
)

// setupPortfolioHandler seeds AFT priced at 2.0 with a buy of 100 units 10 days before testutil.TestNow.
func setupPortfolioHandler(t *testing.T) (*PortfolioHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	testutil.CreateFund(t, db, "AFT")
	testutil.NewHistory("AFT").
		WithPoint("2024-03-14", 1.9).
		WithPoint("2024-03-15", 2.0).
		Build(t, db)
	testutil.NewTransaction(1, "AFT").Buy(100).OnDate("2024-03-05").Build(t, db)

	return NewPortfolioHandler(testutil.NewTestPortfolioService(t, db)), db
}

func TestPortfolioHandler_Summary(t *testing.T) {
	t.Run("values open holdings at the latest price", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/summary", nil)
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var summary model.PortfolioSummary
		if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if len(summary.Items) != 1 {
			t.Fatalf("Expected 1 item, got %d", len(summary.Items))
		}
		if summary.Items[0].CurrentValue != 200 {
			t.Errorf("Expected current value 200, got %v", summary.Items[0].CurrentValue)
		}
		if summary.Metrics.TotalQuantity != 100 {
			t.Errorf("Expected total quantity 100, got %v", summary.Metrics.TotalQuantity)
		}
	})

	t.Run("returns 500 when the database is closed", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio/summary", nil)
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_TransactionsAndPrices(t *testing.T) {
	handler, _ := setupPortfolioHandler(t)

	t.Run("transactions", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Transactions(w, httptest.NewRequest(http.MethodGet, "/api/portfolio/transactions", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var transactions []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&transactions)

		if len(transactions) != 1 || transactions[0].ID != 1 {
			t.Errorf("Expected transaction 1, got %+v", transactions)
		}
	})

	t.Run("prices", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Prices(w, httptest.NewRequest(http.MethodGet, "/api/prices", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var prices model.PriceMap
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&prices)

		if prices.Price("AFT") != 2.0 {
			t.Errorf("Expected AFT price 2.0, got %v", prices)
		}
	})
}

func TestPortfolioHandler_CreateTransaction(t *testing.T) {
	const path = "/api/portfolio/transactions"

	t.Run("records a buy at the latest price", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, path, request.CreateTransactionRequest{
			Symbol:   "aft",
			Type:     "buy",
			Quantity: 50,
			Date:     "2024-03-10",
		})
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var result valuation.Ingestion
		if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if result.Transaction.ID != 2 {
			t.Errorf("Expected id 2, got %d", result.Transaction.ID)
		}
		if result.Transaction.Symbol != "AFT" {
			t.Errorf("Expected symbol AFT, got %s", result.Transaction.Symbol)
		}
		if result.Metrics.TotalValue != 300 {
			t.Errorf("Expected total value 300, got %v", result.Metrics.TotalValue)
		}
	})

	t.Run("an explicit price wins over the stored one", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)
		price := 3.0

		req := testutil.NewJSONRequest(t, http.MethodPost, path, request.CreateTransactionRequest{
			Symbol:   "AFT",
			Type:     "sell",
			Quantity: 40,
			Date:     "2024-03-12",
			Price:    &price,
		})
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var result valuation.Ingestion
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.Prices.Price("AFT") != 3.0 {
			t.Errorf("Expected AFT price 3.0, got %v", result.Prices)
		}
		if result.Metrics.TotalQuantity != 60 {
			t.Errorf("Expected total quantity 60, got %v", result.Metrics.TotalQuantity)
		}
	})

	t.Run("returns 404 for a fund without a price", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, path, request.CreateTransactionRequest{
			Symbol:   "ZZZ",
			Type:     "buy",
			Quantity: 1,
			Date:     "2024-03-10",
		})
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 with field errors when validation fails", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, path, request.CreateTransactionRequest{
			Symbol:   "AFT",
			Type:     "hold",
			Quantity: 0,
			Date:     "2024-03-10",
		})
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}

		var body struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)

		if _, ok := body.Details["type"]; !ok {
			t.Errorf("Expected a type error, got %v", body.Details)
		}
		if _, ok := body.Details["quantity"]; !ok {
			t.Errorf("Expected a quantity error, got %v", body.Details)
		}
	})

	t.Run("returns 400 for malformed bodies", func(t *testing.T) {
		bodies := map[string]string{
			"empty":         "",
			"not json":      "symbol=AFT",
			"unknown field": `{"symbol":"AFT","type":"buy","quantity":1,"date":"2024-03-10","fee":1}`,
			"two objects":   `{"symbol":"AFT"}{"symbol":"TCD"}`,
		}

		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				handler, _ := setupPortfolioHandler(t)

				w := httptest.NewRecorder()
				handler.CreateTransaction(w, testutil.NewJSONRequest(t, http.MethodPost, path, body))

				if w.Code != http.StatusBadRequest {
					t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
				}

				var errBody response.ErrorResponse
				//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
				json.NewDecoder(w.Body).Decode(&errBody)
				if errBody.Error != "invalid request body" {
					t.Errorf("Expected 'invalid request body', got %q", errBody.Error)
				}
			})
		}
	})
}
