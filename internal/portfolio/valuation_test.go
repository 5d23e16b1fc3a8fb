package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritasight/portfolio-service/internal/models"
)

func quote(symbol string, price, prev float64) models.Quote {
	return models.Quote{
		Symbol:          symbol,
		Name:            symbol,
		LastTradedPrice: decimal.NewFromFloat(price),
		PreviousClose:   decimal.NewFromFloat(prev),
		Change:          decimal.NewFromFloat(price - prev),
	}
}

func holding(symbol string, shares float64) models.Holding {
	return models.Holding{Symbol: symbol, SharesHeld: decimal.NewFromFloat(shares)}
}

func asset(name string, assetType models.AssetType, value float64) models.ManualAsset {
	return models.ManualAsset{Name: name, Type: assetType, Value: decimal.NewFromFloat(value)}
}

func TestCalculateTotals(t *testing.T) {
	t.Run("empty inputs return all zeros", func(t *testing.T) {
		totals := CalculateTotals(nil, BuildQuoteIndex(nil), nil)

		assert.True(t, totals.EquityValue.IsZero())
		assert.True(t, totals.ManualValue.IsZero())
		assert.True(t, totals.TotalValue.IsZero())
		assert.True(t, totals.DayChange.IsZero())
		assert.True(t, totals.DayChangePercent.IsZero())
	})

	t.Run("single holding with gain", func(t *testing.T) {
		quotes := BuildQuoteIndex([]models.Quote{quote("X", 50, 40)})
		totals := CalculateTotals([]models.Holding{holding("X", 100)}, quotes, nil)

		assert.True(t, totals.EquityValue.Equal(decimal.NewFromInt(5000)), "equity = %s", totals.EquityValue)
		assert.True(t, totals.DayChange.Equal(decimal.NewFromInt(1000)), "dayChange = %s", totals.DayChange)
		assert.True(t, totals.DayChangePercent.Equal(decimal.NewFromInt(25)), "dayChangePercent = %s", totals.DayChangePercent)
		assert.True(t, totals.TotalValue.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("holding without quote contributes zero", func(t *testing.T) {
		quotes := BuildQuoteIndex([]models.Quote{quote("LOLC", 500, 490)})
		holdings := []models.Holding{holding("LOLC", 10), holding("UNLISTED", 1000)}

		totals := CalculateTotals(holdings, quotes, nil)

		assert.True(t, totals.EquityValue.Equal(decimal.NewFromInt(5000)))
		assert.True(t, totals.DayChange.Equal(decimal.NewFromInt(100)))
	})

	t.Run("manual assets add to total but not day change", func(t *testing.T) {
		quotes := BuildQuoteIndex([]models.Quote{quote("JKH", 20, 20)})
		assets := []models.ManualAsset{
			asset("NSB FD", models.AssetTypeFD, 100000),
			asset("Treasury bond", models.AssetTypeBond, 50000),
		}

		totals := CalculateTotals([]models.Holding{holding("JKH", 100)}, quotes, assets)

		assert.True(t, totals.ManualValue.Equal(decimal.NewFromInt(150000)))
		assert.True(t, totals.TotalValue.Equal(decimal.NewFromInt(152000)))
		assert.True(t, totals.DayChange.IsZero())
		assert.True(t, totals.DayChangePercent.IsZero())
	})

	t.Run("zero previous equity yields zero percent", func(t *testing.T) {
		quotes := BuildQuoteIndex([]models.Quote{quote("NEWLIST", 12.50, 0)})

		totals := CalculateTotals([]models.Holding{holding("NEWLIST", 40)}, quotes, nil)

		assert.True(t, totals.EquityValue.Equal(decimal.NewFromInt(500)))
		assert.True(t, totals.DayChange.Equal(decimal.NewFromInt(500)))
		assert.True(t, totals.DayChangePercent.IsZero(), "division by zero must fall back to 0")
	})

	t.Run("loss produces negative day change", func(t *testing.T) {
		quotes := BuildQuoteIndex([]models.Quote{quote("COMB", 90, 100)})

		totals := CalculateTotals([]models.Holding{holding("COMB", 10)}, quotes, nil)

		assert.True(t, totals.DayChange.Equal(decimal.NewFromInt(-100)))
		assert.True(t, totals.DayChangePercent.Equal(decimal.NewFromInt(-10)))
	})
}

func TestEnrichHoldings(t *testing.T) {
	quotes := BuildQuoteIndex([]models.Quote{quote("SAMP", 75, 70)})
	holdings := []models.Holding{holding("SAMP", 20), holding("GHOST", 5)}

	rows := EnrichHoldings(holdings, quotes)
	require.Len(t, rows, 2)

	priced := rows[0]
	require.NotNil(t, priced.Quote)
	assert.Equal(t, "SAMP", priced.Quote.Symbol)
	assert.True(t, priced.HoldingValue.Equal(decimal.NewFromInt(1500)))
	assert.True(t, priced.DayChange.Equal(decimal.NewFromInt(100)))

	unpriced := rows[1]
	assert.Nil(t, unpriced.Quote, "unpriced holdings keep their row with no quote")
	assert.True(t, unpriced.HoldingValue.IsZero())
	assert.True(t, unpriced.DayChange.IsZero())
}

func TestBuildQuoteIndex(t *testing.T) {
	quotes := []models.Quote{quote("A", 1, 1), quote("B", 2, 2), quote("A", 3, 3)}

	index := BuildQuoteIndex(quotes)

	require.Len(t, index, 2)
	assert.True(t, index["A"].LastTradedPrice.Equal(decimal.NewFromInt(3)), "last entry wins for duplicate symbols")
}
