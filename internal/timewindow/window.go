// Package timewindow narrows a historical price series to a trailing period
// anchored at a reference time.
package timewindow

import (
	"strings"
	"time"

	"github.com/dromara/carbon/v2"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// Window is a named trailing period used for charting.
type Window string

const (
	Week         Window = "week"
	Month        Window = "month"
	ThreeMonths  Window = "3_months"
	SixMonths    Window = "6_months"
	Year         Window = "year"
	ThreeYears   Window = "3_years"
	SinceNewYear Window = "since_new_year"
	All          Window = "all"
)

// Default is the window selected before the user picks one.
const Default = Month

// Windows lists every window in display order.
var Windows = []Window{Week, Month, ThreeMonths, SixMonths, Year, ThreeYears, SinceNewYear, All}

var labels = map[Window]string{
	Week:         "Last Week",
	Month:        "Last Month",
	ThreeMonths:  "Last 3 Months",
	SixMonths:    "Last 6 Months",
	Year:         "Last Year",
	ThreeYears:   "Last 3 Years",
	SinceNewYear: "Since New Year",
	All:          "All Data",
}

// Parse returns the window named s. Unknown names resolve to All.
func Parse(s string) Window {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := labels[w]; ok {
		return w
	}
	return All
}

// Label returns the human readable name of w.
func (w Window) Label() string {
	if label, ok := labels[w]; ok {
		return label
	}
	return labels[All]
}

// Cutoff returns the earliest calendar day kept by w when anchored at the calendar
// day of now (in now's location). Month and year steps clamp to the last day of the
// target month, so Mar 31 minus one month is Feb 29 in a leap year.
// The boolean is false when w does not filter at all.
func (w Window) Cutoff(now time.Time) (model.Date, bool) {
	today := carbon.CreateFromStdTime(model.DateOf(now).Time, carbon.UTC)

	var cutoff *carbon.Carbon
	switch w {
	case Week:
		cutoff = today.SubDays(7)
	case Month:
		cutoff = today.SubMonthsNoOverflow(1)
	case ThreeMonths:
		cutoff = today.SubMonthsNoOverflow(3)
	case SixMonths:
		cutoff = today.SubMonthsNoOverflow(6)
	case Year:
		cutoff = today.SubYearsNoOverflow(1)
	case ThreeYears:
		cutoff = today.SubYearsNoOverflow(3)
	case SinceNewYear:
		cutoff = today.StartOfYear()
	default:
		return model.Date{}, false
	}
	return model.DateOf(cutoff.StdTime()), true
}

// Filter returns the points of series dated on or after w's cutoff, in their original
// order. For All (or any unknown window) the series is returned unchanged.
func Filter(series []model.HistoricalDataPoint, w Window, now time.Time) []model.HistoricalDataPoint {
	cutoff, ok := w.Cutoff(now)
	if !ok {
		return series
	}

	filtered := make([]model.HistoricalDataPoint, 0, len(series))
	for _, point := range series {
		if !point.Date.Before(cutoff) {
			filtered = append(filtered, point)
		}
	}
	return filtered
}
