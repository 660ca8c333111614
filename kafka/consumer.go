package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deepshop/models"
	"deepshop/notifier"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func InitConsumer(broker string, logger *zap.Logger) (sarama.Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true
	config.Consumer.Retry.Backoff = 1 * time.Second

	consumer, err := sarama.NewConsumer([]string{broker}, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Info("Kafka consumer initialized")
	return consumer, nil
}

// Sender is the notification sink the consumer delivers to.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// StartNotificationConsumer drains order events and forwards a formatted
// message per created order. Delivery is best-effort with a bounded
// retry; a message that still fails is dropped with an error log and the
// order it announces is unaffected.
func StartNotificationConsumer(consumer sarama.Consumer, topic string, sender Sender, logger *zap.Logger) error {
	partitionConsumer, err := consumer.ConsumePartition(topic, 0, sarama.OffsetNewest)
	if err != nil {
		return fmt.Errorf("failed to consume partition: %w", err)
	}
	defer partitionConsumer.Close()

	logger.Info("Notification consumer started", zap.String("topic", topic))

	for {
		select {
		case message := <-partitionConsumer.Messages():
			if err := handleWithRetry(message, sender, logger, 3); err != nil {
				logger.Error("Dropping notification after retries", zap.Error(err))
			}
		case err := <-partitionConsumer.Errors():
			logger.Error("Kafka consumer error", zap.Error(err))
		}
	}
}

func handleWithRetry(message *sarama.ConsumerMessage, sender Sender, logger *zap.Logger, maxRetries int) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := handleMessage(message, sender, logger)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < maxRetries {
			backoff := time.Duration(attempt) * time.Second
			logger.Warn("Retrying notification",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			time.Sleep(backoff)
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func handleMessage(message *sarama.ConsumerMessage, sender Sender, logger *zap.Logger) error {
	// Extract trace context from Kafka message headers
	propagator := otel.GetTextMapPropagator()
	carrier := consumerHeaderCarrier(message.Headers)
	ctx := propagator.Extract(context.Background(), carrier)

	ctx, span := otel.Tracer("deep-shop").Start(ctx, "ProcessNotification")
	defer span.End()

	var event models.OrderEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	span.SetAttributes(attribute.String("event.type", event.EventType))

	if event.EventType != "order_created" {
		logger.Debug("Skipping event", zap.String("event_type", event.EventType))
		return nil
	}

	if err := sender.Send(ctx, notifier.FormatOrderMessage(event)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to deliver notification: %w", err)
	}

	logger.Info("Order notification delivered", zap.String("order_id", event.OrderID))
	return nil
}

// consumerHeaderCarrier implements the TextMapCarrier interface for Kafka
// headers on the consumer side.
type consumerHeaderCarrier []*sarama.RecordHeader

func (c consumerHeaderCarrier) Get(key string) string {
	for _, h := range c {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c consumerHeaderCarrier) Set(key, value string) {}

func (c consumerHeaderCarrier) Keys() []string {
	keys := make([]string, len(c))
	for i, h := range c {
		keys[i] = string(h.Key)
	}
	return keys
}
