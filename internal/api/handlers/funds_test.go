package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/testutil"
)

func TestFundHandler_Funds(t *testing.T) {
	t.Run("returns the fund directory", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewFundHandler(testutil.NewTestFundService(t, db), nil)

		testutil.NewFund().WithSymbol("AFT").WithName("Ak Portföy Yeni Teknolojiler").Build(t, db)
		testutil.CreateFund(t, db, "TCD")

		req := httptest.NewRequest(http.MethodGet, "/api/funds", nil)
		w := httptest.NewRecorder()

		handler.Funds(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response map[string]string
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Errorf("Expected 2 funds, got %d", len(response))
		}
		if response["AFT"] != "Ak Portföy Yeni Teknolojiler" {
			t.Errorf("Expected AFT name, got %q", response["AFT"])
		}
	})

	t.Run("returns 500 when the database is closed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewFundHandler(testutil.NewTestFundService(t, db), nil)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/funds", nil)
		w := httptest.NewRecorder()

		handler.Funds(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestFundHandler_History(t *testing.T) {
	setupHandler := func(t *testing.T) (*FundHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)

		testutil.CreateFund(t, db, "AFT")
		prices := make([]float64, 40)
		for i := range prices {
			prices[i] = 2.0 - float64(i)*0.01
		}
		testutil.NewHistory("AFT").WithDailyPrices("2024-03-15", prices...).Build(t, db)

		return NewFundHandler(testutil.NewTestFundService(t, db), nil), db
	}

	tests := []struct {
		name   string
		window string
		want   int
	}{
		{name: "no window returns everything", window: "", want: 40},
		{name: "all", window: "all", want: 40},
		{name: "week keeps eight days", window: "week", want: 8},
		{name: "month", window: "month", want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := setupHandler(t)

			query := map[string]string{}
			if tt.window != "" {
				query["window"] = tt.window
			}
			req := testutil.NewRequestWithParams(http.MethodGet, "/api/funds/AFT/historical",
				map[string]string{"symbol": "AFT"}, query)
			w := httptest.NewRecorder()

			handler.History(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
			}

			var response []model.HistoricalDataPoint
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if len(response) != tt.want {
				t.Errorf("Expected %d points, got %d", tt.want, len(response))
			}
			if len(response) > 0 && response[0].Date.String() != "2024-03-15" {
				t.Errorf("Expected most recent point first, got %s", response[0].Date)
			}
		})
	}

	t.Run("returns 400 for an unknown window", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := testutil.NewRequestWithParams(http.MethodGet, "/api/funds/AFT/historical",
			map[string]string{"symbol": "AFT"}, map[string]string{"window": "decade"})
		w := httptest.NewRecorder()

		handler.History(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for an unknown fund", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/funds/ZZZ/historical",
			map[string]string{"symbol": "ZZZ"})
		w := httptest.NewRecorder()

		handler.History(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestFundHandler_Price(t *testing.T) {
	t.Run("returns the latest price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateFund(t, db, "AFT")
		testutil.NewHistory("AFT").
			WithPoint("2024-03-13", 1.5).
			WithPoint("2024-03-14", 1.75).
			Build(t, db)
		handler := NewFundHandler(testutil.NewTestFundService(t, db), nil)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/funds/aft/price",
			map[string]string{"symbol": "aft"})
		w := httptest.NewRecorder()

		handler.Price(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.FundPrice
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Symbol != "AFT" || response.Price != 1.75 {
			t.Errorf("Expected AFT at 1.75, got %+v", response)
		}
	})

	t.Run("returns 404 when the fund has no history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateFund(t, db, "AFT")
		handler := NewFundHandler(testutil.NewTestFundService(t, db), nil)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/funds/AFT/price",
			map[string]string{"symbol": "AFT"})
		w := httptest.NewRecorder()

		handler.Price(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestFundHandler_Refresh(t *testing.T) {
	t.Run("returns 503 without a refresh service", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewFundHandler(testutil.NewTestFundService(t, db), nil)

		req := httptest.NewRequest(http.MethodPost, "/api/funds/refresh", nil)
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("stores new points and reports failures per fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateFund(t, db, "AFT")
		testutil.CreateFund(t, db, "TCD")

		client := testutil.NewMockTefasClient().
			WithHistory("AFT", "Ak Portföy Yeni Teknolojiler", []model.HistoricalDataPoint{
				{Date: model.MustParseDate("2024-03-15"), Price: 2.1},
				{Date: model.MustParseDate("2024-03-14"), Price: 2.0},
			}).
			WithError("TCD", errors.New("upstream unavailable"))

		handler := NewFundHandler(
			testutil.NewTestFundService(t, db),
			testutil.NewTestRefreshService(t, db, client),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/funds/refresh", nil)
		w := httptest.NewRecorder()

		handler.Refresh(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.RefreshResult
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if response.TotalUpdated != 2 {
			t.Errorf("Expected 2 points added, got %d", response.TotalUpdated)
		}
		if response.TotalErrors != 1 || response.Errors[0].Symbol != "TCD" {
			t.Errorf("Expected TCD to fail, got %+v", response.Errors)
		}
		if response.Success {
			t.Error("Expected success to be false when a fund failed")
		}
	})
}
