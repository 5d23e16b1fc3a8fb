package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/veritasight/portfolio-service/internal/models"
)

// Producer handles publishing portfolio events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishHoldingUpserted publishes a holding created/updated event
func (p *Producer) PublishHoldingUpserted(ctx context.Context, holding *models.Holding) error {
	event := models.PortfolioEvent{
		EventID:   uuid.NewString(),
		EventType: models.EventHoldingUpserted,
		Symbol:    holding.Symbol,
		Holding:   holding,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, holding.Symbol, event)
}

// PublishHoldingDeleted publishes a holding deleted event
func (p *Producer) PublishHoldingDeleted(ctx context.Context, symbol string) error {
	event := models.PortfolioEvent{
		EventID:   uuid.NewString(),
		EventType: models.EventHoldingDeleted,
		Symbol:    symbol,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, symbol, event)
}

// PublishAssetCreated publishes a manual asset created event
func (p *Producer) PublishAssetCreated(ctx context.Context, asset *models.ManualAsset) error {
	return p.publishAssetEvent(ctx, models.EventAssetCreated, asset)
}

// PublishAssetUpdated publishes a manual asset updated event
func (p *Producer) PublishAssetUpdated(ctx context.Context, asset *models.ManualAsset) error {
	return p.publishAssetEvent(ctx, models.EventAssetUpdated, asset)
}

// PublishAssetDeleted publishes a manual asset deleted event
func (p *Producer) PublishAssetDeleted(ctx context.Context, assetID int) error {
	event := models.PortfolioEvent{
		EventID:   uuid.NewString(),
		EventType: models.EventAssetDeleted,
		Asset:     &models.ManualAsset{ID: assetID},
		Timestamp: time.Now(),
	}
	return p.publish(ctx, fmt.Sprintf("asset-%d", assetID), event)
}

func (p *Producer) publishAssetEvent(ctx context.Context, eventType string, asset *models.ManualAsset) error {
	event := models.PortfolioEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Asset:     asset,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, fmt.Sprintf("asset-%d", asset.ID), event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.PortfolioEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close closes the Kafka writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
