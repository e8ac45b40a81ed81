package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"staybook/pkg/events"
	"staybook/pkg/logger"
)

func newTestNotifier(t *testing.T, buf *strings.Builder) *NotifierService {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Output:  buf,
		Service: "notifier-test",
	})
	return NewNotifierService(log)
}

func testEvent(eventType, status string) events.BookingEvent {
	return events.BookingEvent{
		EventID:    "evt-1",
		Type:       eventType,
		BookingID:  "64a1f1a2b3c4d5e6f7a8b9c0",
		RoomID:     "507f1f77bcf86cd799439011",
		GuestID:    "guest-1",
		HostID:     "host-1",
		Status:     status,
		StartDate:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
		OccurredAt: time.Now().UTC(),
	}
}

func TestHandleEvent_NotifiesGuestAndHost(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		status    string
		wantWords []string
	}{
		{"created pending", events.TypeBookingCreated, "pending", []string{"pending", "request"}},
		{"created confirmed", events.TypeBookingCreated, "confirmed", []string{"confirmed"}},
		{"cancelled", events.TypeBookingCancelled, "cancelled", []string{"cancelled"}},
		{"completed", events.TypeBookingCompleted, "completed", []string{"complete"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			svc := newTestNotifier(t, &buf)

			if err := svc.HandleEvent(context.Background(), testEvent(tt.eventType, tt.status)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			out := buf.String()
			for _, recipient := range []string{"guest-1", "host-1"} {
				if !strings.Contains(out, recipient) {
					t.Errorf("expected a notification for %s, got: %s", recipient, out)
				}
			}
			for _, word := range tt.wantWords {
				if !strings.Contains(out, word) {
					t.Errorf("expected notification to mention %q, got: %s", word, out)
				}
			}
		})
	}
}

func TestHandleEvent_UnknownTypeFails(t *testing.T) {
	var buf strings.Builder
	svc := newTestNotifier(t, &buf)

	if err := svc.HandleEvent(context.Background(), testEvent("booking.exploded", "pending")); err == nil {
		t.Fatal("expected an error for an unknown event type")
	}
}
