package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/retail-settlement/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// PublishReceiptSettled publishes a receipt settled event with tracing
func (p *Publisher) PublishReceiptSettled(ctx context.Context, event ReceiptSettledEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.receipt_settled",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicReceiptSettled),
			attribute.String("event.type", EventTypeReceiptSettled),
			attribute.Int64("receipt.id", int64(event.ReceiptID)),
			attribute.String("receipt.number", event.ReceiptNumber),
			attribute.Int("receipt.line_count", event.LineCount),
		),
	)
	defer span.End()

	event.EventID = newEventID(event.EventID)
	event.EventType = EventTypeReceiptSettled
	event.Timestamp = time.Now()

	key := fmt.Sprintf("receipt_%d", event.ReceiptID)
	partition, offset, err := p.send(ctx, span, TopicReceiptSettled, EventTypeReceiptSettled, event.EventID, key, event)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("topic", TopicReceiptSettled).
			Uint("receipt_id", event.ReceiptID).
			Str("trace_id", span.SpanContext().TraceID().String()).
			Msg("Failed to publish event")
		return err
	}

	logger.Logger.Info().
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Str("topic", TopicReceiptSettled).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("receipt_number", event.ReceiptNumber).
		Msg("Receipt settled event published")

	return nil
}

// PublishStockAdjusted publishes a stock adjusted event with tracing
func (p *Publisher) PublishStockAdjusted(ctx context.Context, event StockAdjustedEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.stock_adjusted",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicStockAdjusted),
			attribute.String("event.type", EventTypeStockAdjusted),
			attribute.Int64("stock.id", int64(event.StockID)),
			attribute.Int64("stock.variant_id", int64(event.VariantID)),
			attribute.Int("stock.delta", event.Delta),
		),
	)
	defer span.End()

	event.EventID = newEventID(event.EventID)
	event.EventType = EventTypeStockAdjusted
	event.Timestamp = time.Now()

	key := fmt.Sprintf("stock_%d", event.StockID)
	partition, offset, err := p.send(ctx, span, TopicStockAdjusted, EventTypeStockAdjusted, event.EventID, key, event)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("topic", TopicStockAdjusted).
			Uint("stock_id", event.StockID).
			Str("trace_id", span.SpanContext().TraceID().String()).
			Msg("Failed to publish event")
		return err
	}

	logger.Logger.Info().
		Str("event_id", event.EventID).
		Str("topic", TopicStockAdjusted).
		Int32("partition", partition).
		Int64("offset", offset).
		Int("delta", event.Delta).
		Msg("Stock adjusted event published")

	return nil
}

func (p *Publisher) send(ctx context.Context, span trace.Span, topic, eventType, eventID, key string, event interface{}) (int32, int64, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return 0, 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(eventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		return 0, 0, fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	return partition, offset, nil
}

func newEventID(existing string) string {
	if existing != "" {
		return existing
	}
	return fmt.Sprintf("evt_%s", uuid.New().String())
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
