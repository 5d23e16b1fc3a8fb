package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/veritasight/portfolio-service/internal/models"
)

// Totals holds portfolio-wide valuation figures. Manual assets carry no
// previous-close concept, so day change covers equity only.
type Totals struct {
	EquityValue      decimal.Decimal `json:"equityValue"`
	ManualValue      decimal.Decimal `json:"manualValue"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	DayChange        decimal.Decimal `json:"dayChange"`
	DayChangePercent decimal.Decimal `json:"dayChangePercent"`
}

// HoldingValue returns the market value of a position.
func HoldingValue(shares, price decimal.Decimal) decimal.Decimal {
	return shares.Mul(price)
}

// HoldingDayChange returns the day change of a position given the quote's
// absolute price change.
func HoldingDayChange(shares, change decimal.Decimal) decimal.Decimal {
	return shares.Mul(change)
}

// CalculateTotals computes portfolio-wide totals from a holdings snapshot,
// a quote index, and the list of manual assets. Holdings with no matching
// quote contribute zero to both current and previous equity value. The day
// change percent falls back to zero when the previous equity value is zero.
func CalculateTotals(holdings []models.Holding, quotes map[string]models.Quote, assets []models.ManualAsset) Totals {
	equityValue := decimal.Zero
	previousEquityValue := decimal.Zero

	for _, h := range holdings {
		q, ok := quotes[h.Symbol]
		if !ok {
			continue
		}
		equityValue = equityValue.Add(h.SharesHeld.Mul(q.LastTradedPrice))
		previousEquityValue = previousEquityValue.Add(h.SharesHeld.Mul(q.PreviousClose))
	}

	manualValue := decimal.Zero
	for _, a := range assets {
		manualValue = manualValue.Add(a.Value)
	}

	dayChange := equityValue.Sub(previousEquityValue)
	dayChangePercent := decimal.Zero
	if !previousEquityValue.IsZero() {
		dayChangePercent = dayChange.Div(previousEquityValue).Mul(decimal.NewFromInt(100))
	}

	return Totals{
		EquityValue:      equityValue,
		ManualValue:      manualValue,
		TotalValue:       equityValue.Add(manualValue),
		DayChange:        dayChange,
		DayChangePercent: dayChangePercent,
	}
}

// EnrichedHolding is a holding joined with its quote for display. Quote is
// nil when the symbol has no price data; the value fields are zero in that
// case but the row itself is still listed.
type EnrichedHolding struct {
	models.Holding
	Quote            *models.Quote   `json:"quote"`
	HoldingValue     decimal.Decimal `json:"holdingValue"`
	DayChange        decimal.Decimal `json:"dayChange"`
	DayChangePercent decimal.Decimal `json:"dayChangePercent"`
}

// EnrichHoldings joins each holding with its quote, preserving input order.
// Unpriced holdings stay in the result so the holdings table can show them.
func EnrichHoldings(holdings []models.Holding, quotes map[string]models.Quote) []EnrichedHolding {
	enriched := make([]EnrichedHolding, 0, len(holdings))
	for _, h := range holdings {
		row := EnrichedHolding{Holding: h}
		if q, ok := quotes[h.Symbol]; ok {
			quote := q
			row.Quote = &quote
			row.HoldingValue = HoldingValue(h.SharesHeld, q.LastTradedPrice)
			row.DayChange = HoldingDayChange(h.SharesHeld, q.Change)
			row.DayChangePercent = q.ChangePercentage
		}
		enriched = append(enriched, row)
	}
	return enriched
}
