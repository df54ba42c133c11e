// Package renderer formats dashboard data as markdown for the command line.
package renderer

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/timewindow"
)

// Currency is the currency every TEFAS fund is priced in.
const Currency = money.TRY

// Money formats v in Currency, rounded to the currency's minor unit.
func Money(v float64) string {
	cur := money.New(0, Currency).Currency()
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Price formats a unit price with the six decimals TEFAS publishes.
func Price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(6)
}

// Percent formats a signed percentage with two decimals.
func Percent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func quantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SummaryMarkdown renders the open holdings followed by a total row.
func SummaryMarkdown(summary model.PortfolioSummary, funds model.FundDirectory) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio\n\n")
	if len(summary.Items) == 0 {
		fmt.Fprintln(&b, "No open holdings.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Fund | Name | Quantity | Avg. Days | Cost | Value | Change | Change % | %/Day |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|")
	for _, item := range summary.Items {
		fmt.Fprintf(&b, "| %s | %s | %s | %.1f | %s | %s | %s | %s | %.4f |\n",
			item.Symbol,
			funds.Name(item.Symbol),
			quantity(item.Quantity),
			item.AverageHoldingDays,
			Money(item.TotalCost),
			Money(item.CurrentValue),
			Money(item.ChangeMoney),
			Percent(item.ChangePercent),
			item.ChangePerAHD,
		)
	}

	m := summary.Metrics
	fmt.Fprintf(&b, "| **Total** | | %s | %.1f | %s | %s | %s | %s | %.4f |\n",
		quantity(m.TotalQuantity),
		m.AverageHoldingDays,
		Money(m.TotalCost),
		Money(m.TotalValue),
		Money(m.ChangeMoney),
		Percent(m.ChangePercent),
		m.ChangePerAHD,
	)
	return b.String()
}

// HistoryMarkdown renders a price series, most recent first.
func HistoryMarkdown(symbol, name string, window timewindow.Window, series []model.HistoricalDataPoint) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", symbol)
	if name != "" && name != symbol {
		fmt.Fprintf(&b, "%s\n\n", name)
	}
	fmt.Fprintf(&b, "_%s, %d days_\n\n", window.Label(), len(series))
	if len(series) == 0 {
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Price | Investors | Portfolio Size |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, p := range series {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			p.Date,
			Price(p.Price),
			quantity(p.InvestorCount),
			Money(p.PortfolioSize),
		)
	}
	return b.String()
}

// RefreshMarkdown renders the outcome of a TEFAS refresh.
func RefreshMarkdown(result model.RefreshResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Refresh\n\n%d points added, %d funds failed.\n\n", result.TotalUpdated, result.TotalErrors)
	if result.NewFunds > 0 {
		fmt.Fprintf(&b, "%d new funds found on the TEFAS fund list.\n\n", result.NewFunds)
	}

	if len(result.UpdatedFunds) > 0 {
		fmt.Fprintln(&b, "| Fund | Name | Points Added |")
		fmt.Fprintln(&b, "|:---|:---|---:|")
		for _, f := range result.UpdatedFunds {
			fmt.Fprintf(&b, "| %s | %s | %d |\n", f.Symbol, f.Name, f.PointsAdded)
		}
		fmt.Fprintln(&b)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(&b, "## Errors")
		fmt.Fprintln(&b)
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- **%s**: %s\n", e.Symbol, e.Error)
		}
	}
	return b.String()
}

// FundsMarkdown renders the fund directory sorted by symbol.
func FundsMarkdown(funds model.FundDirectory, added int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Funds\n\n%d funds, %d new.\n\n", len(funds), added)
	if len(funds) == 0 {
		return b.String()
	}

	fmt.Fprintln(&b, "| Fund | Name |")
	fmt.Fprintln(&b, "|:---|:---|")
	for _, symbol := range slices.Sorted(maps.Keys(funds)) {
		fmt.Fprintf(&b, "| %s | %s |\n", symbol, funds.Name(symbol))
	}
	return b.String()
}

// ImportMarkdown renders the counts of an import.
func ImportMarkdown(result service.ImportResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Import\n\n")
	fmt.Fprintln(&b, "| Funds | History Points | Transactions | Skipped |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %d | %d | %d | %d |\n", result.Funds, result.HistoryPoints, result.Transactions, result.SkippedTransactions)
	return b.String()
}
