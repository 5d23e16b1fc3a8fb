package portfolio

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veritasight/portfolio-service/internal/models"
)

// chartColors is the line palette for multi-series charts.
var chartColors = []string{
	"#4C9FFF", // blue
	"#10B981", // gain green
	"#FFB800", // warning yellow
	"#EF4444", // loss red
	"#A855F7", // purple
	"#06B6D4", // cyan
	"#F97316", // orange
	"#EC4899", // pink
}

// SeriesColor returns the chart color for the series at position i.
func SeriesColor(i int) string {
	return chartColors[i%len(chartColors)]
}

// NormalizeBase100 rebases a series so its first chronological point equals
// 100, making differently-priced series comparable on one chart. An empty
// series stays empty, and a series whose first value is zero is returned
// unchanged rather than divided by zero.
func NormalizeBase100(points []models.PricePoint) []models.PricePoint {
	if len(points) == 0 {
		return []models.PricePoint{}
	}

	base := points[0].Value
	if base.IsZero() {
		return points
	}

	normalized := make([]models.PricePoint, len(points))
	for i, p := range points {
		normalized[i] = models.PricePoint{
			Time:  p.Time,
			Value: p.Value.Div(base).Mul(oneHundred),
		}
	}
	return normalized
}

// AlignSeries realigns independently sampled series onto the shared sorted
// union of their dates. A date missing from one series is simply absent
// from that series' output; there is no interpolation or forward fill.
// Within a single series, duplicate dates resolve to the last value seen.
func AlignSeries(series map[string][]models.PricePoint) map[string][]models.PricePoint {
	dates := unionDates(series)

	aligned := make(map[string][]models.PricePoint, len(series))
	for id, points := range series {
		byDate := make(map[string]decimal.Decimal, len(points))
		for _, p := range points {
			byDate[p.Time] = p.Value
		}
		out := make([]models.PricePoint, 0, len(points))
		for _, d := range dates {
			if v, ok := byDate[d]; ok {
				out = append(out, models.PricePoint{Time: d, Value: v})
			}
		}
		aligned[id] = out
	}
	return aligned
}

// PortfolioSeries derives the portfolio's historical value series from the
// held symbols' price histories and normalizes it to base 100. For each
// date where at least one held symbol has a price, the portfolio value is
// the sum of shares times price over the symbols that have data on that
// date; symbols without data that day are left out of the sum rather than
// counted as zero. Dates with no data at all are omitted.
func PortfolioSeries(holdings []models.Holding, history map[string][]models.PricePoint) []models.PricePoint {
	shares := make(map[string]decimal.Decimal, len(holdings))
	for _, h := range holdings {
		shares[h.Symbol] = h.SharesHeld
	}

	byDate := make(map[string]map[string]decimal.Decimal, len(history))
	for symbol, points := range history {
		m := make(map[string]decimal.Decimal, len(points))
		for _, p := range points {
			m[p.Time] = p.Value
		}
		byDate[symbol] = m
	}

	raw := make([]models.PricePoint, 0)
	for _, date := range unionDates(history) {
		total := decimal.Zero
		hasData := false
		for symbol, values := range byDate {
			v, ok := values[date]
			if !ok {
				continue
			}
			total = total.Add(shares[symbol].Mul(v))
			hasData = true
		}
		if hasData {
			raw = append(raw, models.PricePoint{Time: date, Value: total})
		}
	}

	return NormalizeBase100(raw)
}

// unionDates collects the distinct dates across all series, ascending.
// YYYY-MM-DD strings sort chronologically as plain strings.
func unionDates(series map[string][]models.PricePoint) []string {
	seen := make(map[string]struct{})
	for _, points := range series {
		for _, p := range points {
			seen[p.Time] = struct{}{}
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Chart time ranges.
const (
	RangeWTD = "WTD"
	RangeMTD = "MTD"
	RangeYTD = "YTD"
)

// RangeBounds returns the [from, to] window for a chart range relative to
// now. WTD starts on Sunday, MTD on the first of the month, YTD on
// January 1. Unknown ranges fall back to YTD.
func RangeBounds(chartRange string, now time.Time) (time.Time, time.Time) {
	switch chartRange {
	case RangeWTD:
		from := now.AddDate(0, 0, -int(now.Weekday()))
		return from, now
	case RangeMTD:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return from, now
	default:
		from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return from, now
	}
}
