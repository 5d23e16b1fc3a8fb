package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritasight/portfolio-service/internal/models"
)

func TestRelativePerformance(t *testing.T) {
	t.Run("stock ahead of index", func(t *testing.T) {
		diff := RelativePerformance(decimal.NewFromFloat(3.5), decimal.NewFromFloat(1.2))
		assert.True(t, diff.Equal(decimal.NewFromFloat(2.3)), "got %s", diff)
	})

	t.Run("stock behind index", func(t *testing.T) {
		diff := RelativePerformance(decimal.NewFromFloat(-1.0), decimal.NewFromFloat(0.5))
		assert.True(t, diff.Equal(decimal.NewFromFloat(-1.5)))
	})

	t.Run("equal changes cancel out", func(t *testing.T) {
		diff := RelativePerformance(decimal.NewFromFloat(4.2), decimal.NewFromFloat(4.2))
		assert.True(t, diff.IsZero())
	})
}

func TestFindIndexQuote(t *testing.T) {
	indices := []models.IndexQuote{
		{Ticker: models.IndexTickerASPI, Value: decimal.NewFromInt(12000)},
		{Ticker: models.IndexTickerSL20, Value: decimal.NewFromInt(3500)},
	}

	t.Run("finds by exact ticker", func(t *testing.T) {
		idx, ok := FindIndexQuote(indices, models.IndexTickerSL20)
		require.True(t, ok)
		assert.True(t, idx.Value.Equal(decimal.NewFromInt(3500)))
	})

	t.Run("absent ticker reports not found", func(t *testing.T) {
		_, ok := FindIndexQuote(indices, "nifty50")
		assert.False(t, ok, "absence must not be conflated with a zero quote")
	})
}

func TestChangeDirection(t *testing.T) {
	assert.Equal(t, DirectionGain, ChangeDirection(decimal.NewFromFloat(0.01)))
	assert.Equal(t, DirectionLoss, ChangeDirection(decimal.NewFromFloat(-0.01)))
	assert.Equal(t, DirectionNeutral, ChangeDirection(decimal.Zero))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+2.35%", FormatPercent(decimal.NewFromFloat(2.345)))
	assert.Equal(t, "-0.50%", FormatPercent(decimal.NewFromFloat(-0.5)))
	assert.Equal(t, "+0.00%", FormatPercent(decimal.Zero))
}
