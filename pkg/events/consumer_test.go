package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"staybook/pkg/logger"

	"github.com/segmentio/kafka-go"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "events-test",
	})
}

func eventMessage(t *testing.T, bookingID string) kafka.Message {
	t.Helper()
	event := NewBookingEvent(TypeBookingCreated, bookingID, "room-1", "guest-1", "host-1", "pending",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
	)
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to encode event: %v", err)
	}
	return kafka.Message{Key: []byte(bookingID), Value: payload}
}

func TestHandleMessage_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	consumer := &Consumer{
		log:        testLogger(t),
		maxRetries: 3,
		handler: func(ctx context.Context, event BookingEvent) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient failure")
			}
			return nil
		},
	}

	if err := consumer.handleMessage(context.Background(), eventMessage(t, "booking-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestHandleMessage_FailedEventDivertedNotDropped(t *testing.T) {
	var diverted []kafka.Message
	handled := []string{}
	consumer := &Consumer{
		log:        testLogger(t),
		groupID:    "test-group",
		maxRetries: 1,
		handler: func(ctx context.Context, event BookingEvent) error {
			if event.BookingID == "poisoned" {
				return errors.New("permanent failure")
			}
			handled = append(handled, event.BookingID)
			return nil
		},
		divertToDLQ: func(ctx context.Context, msg kafka.Message) error {
			diverted = append(diverted, msg)
			return nil
		},
	}

	// A failing message followed by a succeeding one: the failed event must
	// land on the DLQ before its offset becomes committable, never vanish.
	if err := consumer.handleMessage(context.Background(), eventMessage(t, "poisoned")); err != nil {
		t.Fatalf("a diverted message must be settled, got: %v", err)
	}
	if err := consumer.handleMessage(context.Background(), eventMessage(t, "healthy")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(handled) != 1 || handled[0] != "healthy" {
		t.Errorf("expected only the healthy event handled, got %v", handled)
	}
	if len(diverted) != 1 {
		t.Fatalf("expected the failed event on the DLQ, got %d messages", len(diverted))
	}

	var dlqEvent BookingEvent
	if err := json.Unmarshal(diverted[0].Value, &dlqEvent); err != nil {
		t.Fatalf("DLQ payload must stay decodable: %v", err)
	}
	if dlqEvent.BookingID != "poisoned" {
		t.Errorf("expected the poisoned event on the DLQ, got %s", dlqEvent.BookingID)
	}

	headers := map[string]string{}
	for _, h := range diverted[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers[HeaderDLQError] == "" {
		t.Error("expected a dlq-error header on the diverted message")
	}
	if headers[HeaderDLQGroup] != "test-group" {
		t.Errorf("expected dlq-consumer-group test-group, got %q", headers[HeaderDLQGroup])
	}
}

func TestHandleMessage_NoDLQKeepsOffsetUncommitted(t *testing.T) {
	consumer := &Consumer{
		log:        testLogger(t),
		maxRetries: 0,
		handler: func(ctx context.Context, event BookingEvent) error {
			return errors.New("permanent failure")
		},
	}

	if err := consumer.handleMessage(context.Background(), eventMessage(t, "booking-1")); err == nil {
		t.Fatal("without a DLQ a failed message must not be settled")
	}
}

func TestHandleMessage_DLQWriteFailureKeepsOffsetUncommitted(t *testing.T) {
	consumer := &Consumer{
		log:        testLogger(t),
		maxRetries: 0,
		handler: func(ctx context.Context, event BookingEvent) error {
			return errors.New("permanent failure")
		},
		divertToDLQ: func(ctx context.Context, msg kafka.Message) error {
			return errors.New("broker unreachable")
		},
	}

	if err := consumer.handleMessage(context.Background(), eventMessage(t, "booking-1")); err == nil {
		t.Fatal("a failed DLQ write must not settle the message")
	}
}

func TestHandleMessage_UndecodableDiverted(t *testing.T) {
	var diverted []kafka.Message
	consumer := &Consumer{
		log:        testLogger(t),
		maxRetries: 0,
		handler: func(ctx context.Context, event BookingEvent) error {
			t.Fatal("the handler must not run for undecodable messages")
			return nil
		},
		divertToDLQ: func(ctx context.Context, msg kafka.Message) error {
			diverted = append(diverted, msg)
			return nil
		},
	}

	msg := kafka.Message{Key: []byte("k"), Value: []byte("{not json")}
	if err := consumer.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diverted) != 1 {
		t.Errorf("expected the undecodable message on the DLQ, got %d", len(diverted))
	}
}
