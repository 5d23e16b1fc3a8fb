package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/veritasight/portfolio-service/internal/models"
)

// QuoteRepository defines the database operations the feed consumer needs
type QuoteRepository interface {
	InsertQuote(q *models.Quote) error
	InsertIndexQuote(q *models.IndexQuote) error
}

// SnapshotCache is the cache invalidation hook called after new market
// data is written
type SnapshotCache interface {
	Invalidate(ctx context.Context)
}

// Consumer ingests scraped CSE quote snapshots from the market-data feed
// topic and appends them to the raw data tables. It is the only writer of
// quote data; the HTTP API never mutates these tables.
type Consumer struct {
	reader *kafka.Reader
	repo   QuoteRepository
	cache  SnapshotCache
	log    zerolog.Logger
}

// NewConsumer creates a new Kafka consumer for the quote feed
func NewConsumer(brokers []string, topic, groupID string, repo QuoteRepository, cache SnapshotCache, log zerolog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		repo:   repo,
		cache:  cache,
		log:    log.With().Str("component", "quote_consumer").Logger(),
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info().Str("topic", c.reader.Config().Topic).Msg("starting quote feed consumer")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("quote feed consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				c.log.Error().Err(err).Msg("error reading message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.log.Error().Err(err).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("error processing message")
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single feed message
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.QuoteEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal quote event: %w", err)
	}

	switch event.EventType {
	case models.EventQuoteScraped:
		return c.handleQuote(ctx, event)
	case models.EventIndexScraped:
		return c.handleIndex(ctx, event)
	default:
		c.log.Debug().Str("event_type", event.EventType).Msg("ignoring event type")
		return nil
	}
}

func (c *Consumer) handleQuote(ctx context.Context, event models.QuoteEvent) error {
	if event.Quote == nil {
		return fmt.Errorf("quote event has no quote payload")
	}
	if event.Quote.Symbol == "" {
		return fmt.Errorf("quote event has empty symbol")
	}

	at := event.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	quote, err := event.Quote.ParsedQuote(at)
	if err != nil {
		return fmt.Errorf("invalid quote payload for %s: %w", event.Quote.Symbol, err)
	}
	quote.Symbol = strings.ToUpper(quote.Symbol)

	if err := c.repo.InsertQuote(quote); err != nil {
		return fmt.Errorf("failed to save quote: %w", err)
	}

	if c.cache != nil {
		c.cache.Invalidate(ctx)
	}

	c.log.Debug().Str("symbol", quote.Symbol).Str("price", quote.LastTradedPrice.String()).Msg("stored quote snapshot")
	return nil
}

func (c *Consumer) handleIndex(ctx context.Context, event models.QuoteEvent) error {
	if event.Index == nil {
		return fmt.Errorf("index event has no index payload")
	}
	if event.Index.Ticker == "" {
		return fmt.Errorf("index event has empty ticker")
	}

	at := event.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	index, err := event.Index.ParsedIndex(at)
	if err != nil {
		return fmt.Errorf("invalid index payload for %s: %w", event.Index.Ticker, err)
	}
	index.Ticker = strings.ToLower(index.Ticker)

	if err := c.repo.InsertIndexQuote(index); err != nil {
		return fmt.Errorf("failed to save index quote: %w", err)
	}

	if c.cache != nil {
		c.cache.Invalidate(ctx)
	}

	c.log.Debug().Str("ticker", index.Ticker).Str("value", index.Value.String()).Msg("stored index snapshot")
	return nil
}
