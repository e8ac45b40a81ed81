package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"staybook/pkg/logger"

	"github.com/segmentio/kafka-go"
)

var ErrConsumerClosed = errors.New("event consumer is closed")

// DLQ metadata headers attached when a message is diverted.
const (
	HeaderDLQError     = "dlq-error"
	HeaderDLQTimestamp = "dlq-timestamp"
	HeaderDLQGroup     = "dlq-consumer-group"
)

// EventHandler processes one booking event.
type EventHandler func(ctx context.Context, event BookingEvent) error

type Consumer struct {
	reader     *kafka.Reader
	handler    EventHandler
	log        *logger.Logger
	groupID    string
	maxRetries int

	// divertToDLQ publishes a poisoned message to the DLQ topic; nil when no
	// DLQ topic is configured.
	divertToDLQ func(ctx context.Context, msg kafka.Message) error
	dlqWriter   *kafka.Writer

	mu     sync.Mutex
	closed bool
}

func NewConsumer(cfg *Config, handler EventHandler, log *logger.Logger) (*Consumer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.GroupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("event handler cannot be nil")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    cfg.ConsumerMinBytes,
		MaxBytes:    cfg.ConsumerMaxBytes,
		MaxWait:     cfg.ConsumerMaxWait,
		Logger:      kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) { log.Error(fmt.Sprintf(msg, args...)) }),
	})

	consumer := &Consumer{
		reader:     reader,
		handler:    handler,
		log:        log,
		groupID:    cfg.GroupID,
		maxRetries: cfg.ConsumerMaxRetries,
	}

	if cfg.DLQTopic != "" {
		consumer.dlqWriter = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.DLQTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			MaxAttempts:  3,
			Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
			ErrorLogger:  kafka.LoggerFunc(func(msg string, args ...any) { log.Error(fmt.Sprintf(msg, args...)) }),
		}
		consumer.divertToDLQ = func(ctx context.Context, msg kafka.Message) error {
			return consumer.dlqWriter.WriteMessages(ctx, msg)
		}
	}

	return consumer, nil
}

// Run consumes until ctx is cancelled or the consumer is closed. Each message
// is retried ConsumerMaxRetries times; a message that keeps failing is
// diverted to the DLQ topic before its offset is committed, so no event is
// dropped. Without a DLQ (or when the DLQ write itself fails) Run returns and
// leaves the offset uncommitted, so the group redelivers the message.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || c.isClosed() {
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := c.handleMessage(ctx, msg); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("failed to commit message: %w", err)
		}
	}
}

// handleMessage decodes and processes one message. A nil return means the
// message is settled (handled or diverted to the DLQ) and its offset may be
// committed; an error means the offset must stay uncommitted.
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.log.Error("Diverting undecodable event",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return c.settleFailed(ctx, msg, err)
	}

	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err = c.handler(ctx, event); err == nil {
			return nil
		}
		c.log.Warn("Event handler failed",
			"event_id", event.EventID,
			"event_type", event.Type,
			"booking_id", event.BookingID,
			"attempt", attempt+1,
			"error", err,
		)
	}

	c.log.Error("Event handler exhausted retries",
		"event_id", event.EventID,
		"event_type", event.Type,
		"booking_id", event.BookingID,
		"error", err,
	)
	return c.settleFailed(ctx, msg, err)
}

// settleFailed diverts a poisoned message to the DLQ so its offset may be
// committed. Without a DLQ the failure is surfaced so the offset stays put.
func (c *Consumer) settleFailed(ctx context.Context, msg kafka.Message, cause error) error {
	if c.divertToDLQ == nil {
		return fmt.Errorf("event processing failed with no DLQ configured: %w", cause)
	}

	dlqMsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Time:  msg.Time,
		Headers: append(msg.Headers,
			kafka.Header{Key: HeaderDLQError, Value: []byte(cause.Error())},
			kafka.Header{Key: HeaderDLQTimestamp, Value: []byte(time.Now().UTC().Format(time.RFC3339))},
			kafka.Header{Key: HeaderDLQGroup, Value: []byte(c.groupID)},
		),
	}

	if err := c.divertToDLQ(ctx, dlqMsg); err != nil {
		return fmt.Errorf("failed to send to DLQ: %v (original error: %w)", err, cause)
	}

	c.log.Warn("Event diverted to DLQ",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"error", cause,
	)
	return nil
}

func (c *Consumer) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	err := c.reader.Close()
	if c.dlqWriter != nil {
		if dlqErr := c.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
