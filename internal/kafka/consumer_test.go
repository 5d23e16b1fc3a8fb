package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritasight/portfolio-service/internal/models"
)

// MockRepository implements QuoteRepository for testing
type MockRepository struct {
	quotes  []*models.Quote
	indices []*models.IndexQuote
}

func (m *MockRepository) InsertQuote(q *models.Quote) error {
	q.ID = len(m.quotes) + 1
	m.quotes = append(m.quotes, q)
	return nil
}

func (m *MockRepository) InsertIndexQuote(q *models.IndexQuote) error {
	q.ID = len(m.indices) + 1
	m.indices = append(m.indices, q)
	return nil
}

// MockCache counts invalidations
type MockCache struct {
	invalidations int
}

func (m *MockCache) Invalidate(ctx context.Context) {
	m.invalidations++
}

func newTestConsumer(repo *MockRepository, cache *MockCache) *Consumer {
	return &Consumer{
		repo:  repo,
		cache: cache,
		log:   zerolog.New(nil).Level(zerolog.Disabled),
	}
}

func feedMessage(t *testing.T, event models.QuoteEvent) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestConsumerQuoteScraped(t *testing.T) {
	repo := &MockRepository{}
	cache := &MockCache{}
	consumer := newTestConsumer(repo, cache)

	event := models.QuoteEvent{
		EventType: models.EventQuoteScraped,
		Quote: &models.QuotePayload{
			Symbol:           "lolc",
			Name:             "LOLC Holdings PLC",
			LastTradedPrice:  "495.25",
			PreviousClose:    "490.00",
			Change:           "5.25",
			ChangePercentage: "1.07",
		},
		Timestamp: time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC),
	}

	err := consumer.processMessage(context.Background(), feedMessage(t, event))
	require.NoError(t, err)

	require.Len(t, repo.quotes, 1)
	stored := repo.quotes[0]
	assert.Equal(t, "LOLC", stored.Symbol, "symbols are normalized to uppercase")
	assert.True(t, stored.LastTradedPrice.Equal(decimal.NewFromFloat(495.25)))
	assert.True(t, stored.PreviousClose.Equal(decimal.NewFromFloat(490.00)))
	assert.Equal(t, event.Timestamp, stored.TimeCreated)
	assert.Equal(t, 1, cache.invalidations, "cache must be invalidated after a write")
}

func TestConsumerIndexScraped(t *testing.T) {
	repo := &MockRepository{}
	cache := &MockCache{}
	consumer := newTestConsumer(repo, cache)

	event := models.QuoteEvent{
		EventType: models.EventIndexScraped,
		Index: &models.IndexPayload{
			Ticker:           "ASPI",
			Value:            "12345.67",
			Change:           "-23.45",
			ChangePercentage: "-0.19",
		},
		Timestamp: time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC),
	}

	err := consumer.processMessage(context.Background(), feedMessage(t, event))
	require.NoError(t, err)

	require.Len(t, repo.indices, 1)
	stored := repo.indices[0]
	assert.Equal(t, "aspi", stored.Ticker, "tickers are normalized to lowercase")
	assert.True(t, stored.Value.Equal(decimal.NewFromFloat(12345.67)))
	assert.True(t, stored.Change.IsNegative())
	assert.Equal(t, 1, cache.invalidations)
}

func TestConsumerIgnoresUnknownEventTypes(t *testing.T) {
	repo := &MockRepository{}
	cache := &MockCache{}
	consumer := newTestConsumer(repo, cache)

	event := models.QuoteEvent{EventType: "MARKET_OPENED"}

	err := consumer.processMessage(context.Background(), feedMessage(t, event))
	require.NoError(t, err)

	assert.Empty(t, repo.quotes)
	assert.Empty(t, repo.indices)
	assert.Zero(t, cache.invalidations)
}

func TestConsumerRejectsMalformedPayloads(t *testing.T) {
	repo := &MockRepository{}
	consumer := newTestConsumer(repo, &MockCache{})

	t.Run("missing quote payload", func(t *testing.T) {
		event := models.QuoteEvent{EventType: models.EventQuoteScraped}
		err := consumer.processMessage(context.Background(), feedMessage(t, event))
		require.Error(t, err)
	})

	t.Run("empty symbol", func(t *testing.T) {
		event := models.QuoteEvent{
			EventType: models.EventQuoteScraped,
			Quote:     &models.QuotePayload{LastTradedPrice: "10", PreviousClose: "10"},
		}
		err := consumer.processMessage(context.Background(), feedMessage(t, event))
		require.Error(t, err)
	})

	t.Run("non-numeric price", func(t *testing.T) {
		event := models.QuoteEvent{
			EventType: models.EventQuoteScraped,
			Quote:     &models.QuotePayload{Symbol: "JKH", LastTradedPrice: "n/a", PreviousClose: "10"},
		}
		err := consumer.processMessage(context.Background(), feedMessage(t, event))
		require.Error(t, err)
		assert.Empty(t, repo.quotes, "invalid snapshots must not be stored")
	})

	t.Run("invalid json", func(t *testing.T) {
		err := consumer.processMessage(context.Background(), kafka.Message{Value: []byte("{not json")})
		require.Error(t, err)
	})
}
