// Package portfolio implements the valuation, allocation, and time-series
// calculations behind the dashboard. Everything in this package is a pure
// function of its inputs: no I/O, no state between calls, no errors for
// numeric edge cases (missing quotes and zero denominators degrade to
// documented fallbacks instead).
package portfolio

import "github.com/veritasight/portfolio-service/internal/models"

// BuildQuoteIndex builds a symbol-keyed lookup from a list of quotes.
// When the same symbol appears more than once the last entry wins.
func BuildQuoteIndex(quotes []models.Quote) map[string]models.Quote {
	index := make(map[string]models.Quote, len(quotes))
	for _, q := range quotes {
		index[q.Symbol] = q
	}
	return index
}

// FindIndexQuote returns the index quote with the given ticker. The second
// return value is false when the ticker is not present; callers treat an
// absent index as "no figure", never as zero.
func FindIndexQuote(indices []models.IndexQuote, ticker string) (models.IndexQuote, bool) {
	for _, idx := range indices {
		if idx.Ticker == ticker {
			return idx, true
		}
	}
	return models.IndexQuote{}, false
}
