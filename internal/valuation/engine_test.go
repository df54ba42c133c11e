package valuation

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

var testNow = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func buy(id int64, symbol, date string, qty float64) model.Transaction {
	return model.Transaction{
		ID:          id,
		PortfolioID: 1,
		Symbol:      symbol,
		Date:        model.MustParseDate(date),
		Type:        model.TransactionTypeBuy,
		Quantity:    qty,
	}
}

func sell(id int64, symbol, date string, qty float64) model.Transaction {
	tx := buy(id, symbol, date, qty)
	tx.Type = model.TransactionTypeSell
	return tx
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestComputeMetrics_SingleBuy covers the basic worked example: one buy valued at the
// current price.
func TestComputeMetrics_SingleBuy(t *testing.T) {
	transactions := []model.Transaction{buy(1, "AAA", "2024-01-01", 10)}
	prices := model.PriceMap{"AAA": 12}

	items, metrics := ComputeMetrics(transactions, prices, testNow)

	want := []model.PortfolioItem{{
		Symbol:             "AAA",
		Quantity:           10,
		AverageHoldingDays: 60,
		TotalCost:          120,
		CurrentValue:       120,
		ChangeMoney:        0,
		ChangePercent:      0,
		ChangePerAHD:       0,
	}}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("ComputeMetrics() items mismatch (-want +got):\n%s", diff)
	}

	if metrics.TotalQuantity != 10 || metrics.TotalCost != 120 || metrics.TotalValue != 120 {
		t.Errorf("unexpected aggregate totals: %+v", metrics)
	}
	if metrics.AverageHoldingDays != 60 {
		t.Errorf("Expected 60 average holding days, got %v", metrics.AverageHoldingDays)
	}
}

func TestComputeMetrics_ClosedPositions(t *testing.T) {
	t.Run("fully sold position is dropped", func(t *testing.T) {
		transactions := []model.Transaction{
			buy(1, "AAA", "2024-01-01", 10),
			sell(2, "AAA", "2024-02-01", 10),
		}

		items, metrics := ComputeMetrics(transactions, model.PriceMap{"AAA": 7.5}, testNow)

		if len(items) != 0 {
			t.Errorf("Expected no items, got %d", len(items))
		}
		if diff := cmp.Diff(model.PortfolioMetrics{}, metrics); diff != "" {
			t.Errorf("Expected zero metrics (-want +got):\n%s", diff)
		}
	})

	t.Run("oversold position is dropped", func(t *testing.T) {
		transactions := []model.Transaction{
			buy(1, "AAA", "2024-01-01", 5),
			sell(2, "AAA", "2024-01-15", 8),
		}

		items, _ := ComputeMetrics(transactions, model.PriceMap{"AAA": 1}, testNow)

		if len(items) != 0 {
			t.Errorf("Expected no items, got %+v", items)
		}
	})

	t.Run("reopened position starts from zero", func(t *testing.T) {
		transactions := []model.Transaction{
			buy(1, "AAA", "2024-01-01", 5),
			sell(2, "AAA", "2024-01-15", 8),
			buy(3, "AAA", "2024-02-20", 3),
		}

		items, _ := ComputeMetrics(transactions, model.PriceMap{"AAA": 2}, testNow)

		if len(items) != 1 {
			t.Fatalf("Expected 1 item, got %d", len(items))
		}
		if items[0].Quantity != 3 {
			t.Errorf("Expected quantity 3, got %v", items[0].Quantity)
		}
		if items[0].TotalCost != 6 {
			t.Errorf("Expected total cost 6, got %v", items[0].TotalCost)
		}
		// Feb 20 to Mar 1 in a leap year.
		if items[0].AverageHoldingDays != 10 {
			t.Errorf("Expected 10 holding days, got %v", items[0].AverageHoldingDays)
		}
	})

	t.Run("sell of an unknown symbol opens nothing", func(t *testing.T) {
		items, metrics := ComputeMetrics([]model.Transaction{sell(1, "ZZZ", "2024-01-01", 4)}, nil, testNow)

		if len(items) != 0 || metrics.TotalQuantity != 0 {
			t.Errorf("Expected empty portfolio, got %+v / %+v", items, metrics)
		}
	})
}

func TestComputeMetrics_MissingPrice(t *testing.T) {
	transactions := []model.Transaction{
		buy(1, "AAA", "2024-01-01", 10),
		buy(2, "BBB", "2024-01-10", 4),
	}
	prices := model.PriceMap{"AAA": 12}

	items, metrics := ComputeMetrics(transactions, prices, testNow)

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	bbb := items[1]
	if bbb.Symbol != "BBB" {
		t.Fatalf("Expected BBB second, got %s", bbb.Symbol)
	}
	if bbb.CurrentValue != 0 {
		t.Errorf("Expected BBB current value 0, got %v", bbb.CurrentValue)
	}
	if bbb.ChangePercent != 0 {
		t.Errorf("Expected BBB change percent 0, got %v", bbb.ChangePercent)
	}
	if math.IsNaN(bbb.ChangePerAHD) || math.IsInf(bbb.ChangePerAHD, 0) {
		t.Errorf("Expected finite change per AHD, got %v", bbb.ChangePerAHD)
	}
	if metrics.TotalValue != 120 {
		t.Errorf("Expected total value 120, got %v", metrics.TotalValue)
	}
}

// TestComputeMetrics_WeightedDate pins the weighted acquisition date arithmetic,
// including the contribution of a sell at its own date.
func TestComputeMetrics_WeightedDate(t *testing.T) {
	t.Run("buys are weighted by quantity", func(t *testing.T) {
		transactions := []model.Transaction{
			buy(1, "AAA", "2024-01-01", 10), // 60 days before now
			buy(2, "AAA", "2024-02-10", 30), // 20 days before now
		}

		items, _ := ComputeMetrics(transactions, model.PriceMap{"AAA": 1}, testNow)

		if !approxEqual(items[0].AverageHoldingDays, 30) {
			t.Errorf("Expected 30 holding days, got %v", items[0].AverageHoldingDays)
		}
	})

	t.Run("sell pulls weighted date with its own date", func(t *testing.T) {
		now := time.Date(2024, time.January, 21, 0, 0, 0, 0, time.UTC)
		transactions := []model.Transaction{
			buy(1, "AAA", "2024-01-01", 10),
			sell(2, "AAA", "2024-01-11", 5),
		}

		items, _ := ComputeMetrics(transactions, model.PriceMap{"AAA": 1}, now)

		// (t0*10 - (t0+10d)*5) / 5 = t0 - 10d, which is 30 days before now.
		if !approxEqual(items[0].AverageHoldingDays, 30) {
			t.Errorf("Expected 30 holding days, got %v", items[0].AverageHoldingDays)
		}
	})

	t.Run("buy order does not matter without a closure", func(t *testing.T) {
		forward := []model.Transaction{
			buy(1, "AAA", "2024-01-01", 10),
			buy(2, "AAA", "2024-02-10", 30),
		}
		reversed := []model.Transaction{forward[1], forward[0]}

		a, _ := ComputeMetrics(forward, model.PriceMap{"AAA": 1}, testNow)
		b, _ := ComputeMetrics(reversed, model.PriceMap{"AAA": 1}, testNow)

		if !approxEqual(a[0].AverageHoldingDays, b[0].AverageHoldingDays) {
			t.Errorf("Expected equal holding days, got %v and %v", a[0].AverageHoldingDays, b[0].AverageHoldingDays)
		}
	})

	t.Run("closure mid sequence changes the result", func(t *testing.T) {
		// Same three transactions; only the first order closes the position.
		closing := []model.Transaction{
			buy(1, "AAA", "2024-01-01", 10),
			sell(2, "AAA", "2024-01-15", 10),
			buy(3, "AAA", "2024-02-10", 10),
		}
		staysOpen := []model.Transaction{closing[0], closing[2], closing[1]}

		a, _ := ComputeMetrics(closing, model.PriceMap{"AAA": 1}, testNow)
		b, _ := ComputeMetrics(staysOpen, model.PriceMap{"AAA": 1}, testNow)

		if a[0].Quantity != 10 || b[0].Quantity != 10 {
			t.Fatalf("Expected quantity 10 in both, got %v and %v", a[0].Quantity, b[0].Quantity)
		}
		// Reopened on Feb 10: 20 days before now.
		if !approxEqual(a[0].AverageHoldingDays, 20) {
			t.Errorf("Expected 20 holding days after closure, got %v", a[0].AverageHoldingDays)
		}
		// Jan 1 + Feb 10 - Jan 15 is Jan 27: 34 days before now.
		if !approxEqual(b[0].AverageHoldingDays, 34) {
			t.Errorf("Expected 34 holding days without closure, got %v", b[0].AverageHoldingDays)
		}
	})

	t.Run("holding opened today has zero change per AHD", func(t *testing.T) {
		transactions := []model.Transaction{buy(1, "AAA", "2024-03-01", 2)}

		items, metrics := ComputeMetrics(transactions, model.PriceMap{"AAA": 3}, testNow)

		if items[0].AverageHoldingDays != 0 {
			t.Errorf("Expected 0 holding days, got %v", items[0].AverageHoldingDays)
		}
		if items[0].ChangePerAHD != 0 || metrics.ChangePerAHD != 0 {
			t.Errorf("Expected 0 change per AHD, got %v / %v", items[0].ChangePerAHD, metrics.ChangePerAHD)
		}
	})
}

func TestComputeMetrics_Aggregates(t *testing.T) {
	transactions := []model.Transaction{
		buy(1, "AAA", "2024-01-01", 10),
		buy(2, "BBB", "2024-02-10", 30),
		sell(3, "AAA", "2024-01-20", 2.5),
		buy(4, "CCC", "2023-12-01", 1),
		sell(5, "CCC", "2024-01-05", 1),
		buy(6, "DDD", "2024-02-01", 7),
	}
	prices := model.PriceMap{"AAA": 1.25, "BBB": 0.5, "CCC": 100, "DDD": 3}

	items, metrics := ComputeMetrics(transactions, prices, testNow)

	t.Run("closed symbols are absent", func(t *testing.T) {
		got := make([]string, len(items))
		for i, item := range items {
			got[i] = item.Symbol
		}
		if diff := cmp.Diff([]string{"AAA", "BBB", "DDD"}, got); diff != "" {
			t.Errorf("symbols mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("totals equal the sum of items", func(t *testing.T) {
		var qty, cost, value, weighted float64
		for _, item := range items {
			qty += item.Quantity
			cost += item.TotalCost
			value += item.CurrentValue
			weighted += item.AverageHoldingDays * item.Quantity
		}
		if !approxEqual(qty, metrics.TotalQuantity) {
			t.Errorf("quantity: items %v, metrics %v", qty, metrics.TotalQuantity)
		}
		if !approxEqual(cost, metrics.TotalCost) {
			t.Errorf("cost: items %v, metrics %v", cost, metrics.TotalCost)
		}
		if !approxEqual(value, metrics.TotalValue) {
			t.Errorf("value: items %v, metrics %v", value, metrics.TotalValue)
		}
		if !approxEqual(weighted/qty, metrics.AverageHoldingDays) {
			t.Errorf("average holding days: items %v, metrics %v", weighted/qty, metrics.AverageHoldingDays)
		}
	})

	t.Run("change fields derive from aggregates", func(t *testing.T) {
		if !approxEqual(metrics.ChangeMoney, metrics.TotalValue-metrics.TotalCost) {
			t.Errorf("unexpected change money %v", metrics.ChangeMoney)
		}
	})
}

func TestComputeMetrics_Deterministic(t *testing.T) {
	transactions := []model.Transaction{
		buy(1, "AAA", "2023-05-01", 13.3),
		buy(2, "BBB", "2023-07-14", 2.1),
		sell(3, "AAA", "2023-09-30", 4.7),
		buy(4, "CCC", "2024-01-02", 8),
		buy(5, "AAA", "2024-02-11", 1.9),
	}
	prices := model.PriceMap{"AAA": 1.111, "BBB": 42.42, "CCC": 0.07}

	items1, metrics1 := ComputeMetrics(transactions, prices, testNow)
	items2, metrics2 := ComputeMetrics(transactions, prices, testNow)

	if diff := cmp.Diff(items1, items2); diff != "" {
		t.Errorf("items differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff(metrics1, metrics2); diff != "" {
		t.Errorf("metrics differ between runs:\n%s", diff)
	}
}

func TestComputeMetrics_DoesNotMutateInputs(t *testing.T) {
	transactions := []model.Transaction{
		buy(1, "AAA", "2024-01-01", 10),
		sell(2, "AAA", "2024-01-02", 10),
	}
	prices := model.PriceMap{"AAA": 5}
	transactionsBefore := append([]model.Transaction(nil), transactions...)

	ComputeMetrics(transactions, prices, testNow)

	if diff := cmp.Diff(transactionsBefore, transactions); diff != "" {
		t.Errorf("transactions were mutated:\n%s", diff)
	}
	if diff := cmp.Diff(model.PriceMap{"AAA": 5}, prices); diff != "" {
		t.Errorf("prices were mutated:\n%s", diff)
	}
}

func TestComputeMetrics_EmptyLog(t *testing.T) {
	items, metrics := ComputeMetrics(nil, nil, testNow)

	if items == nil {
		t.Error("Expected non-nil empty slice")
	}
	if len(items) != 0 {
		t.Errorf("Expected no items, got %d", len(items))
	}
	if diff := cmp.Diff(model.PortfolioMetrics{}, metrics); diff != "" {
		t.Errorf("Expected zero metrics (-want +got):\n%s", diff)
	}
}

func TestComputeMetrics_ReopenedSymbolMovesToEnd(t *testing.T) {
	transactions := []model.Transaction{
		buy(1, "AAA", "2024-01-01", 1),
		buy(2, "BBB", "2024-01-02", 1),
		sell(3, "AAA", "2024-01-03", 1),
		buy(4, "AAA", "2024-01-04", 1),
	}

	items, _ := ComputeMetrics(transactions, nil, testNow)

	if len(items) != 2 || items[0].Symbol != "BBB" || items[1].Symbol != "AAA" {
		t.Errorf("Expected [BBB AAA], got %+v", items)
	}
}

func TestHoldings(t *testing.T) {
	transactions := []model.Transaction{
		buy(1, "AAA", "2024-01-01", 10),
		sell(2, "AAA", "2024-01-02", 4),
		buy(3, "BBB", "2024-01-03", 2),
		sell(4, "BBB", "2024-01-04", 2),
	}

	got := Holdings(transactions)

	if diff := cmp.Diff(map[string]float64{"AAA": 6}, got); diff != "" {
		t.Errorf("Holdings() mismatch (-want +got):\n%s", diff)
	}
}
