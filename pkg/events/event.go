package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published on the booking-events topic.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingCompleted = "booking.completed"
)

// Header keys shared between producer and consumers.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// BookingEvent is the payload the notification dispatcher consumes. It
// carries enough denormalized state that consumers never call back into the
// bookings service.
type BookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	GuestID    string    `json:"guest_id"`
	HostID     string    `json:"host_id"`
	Status     string    `json:"status"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType, bookingID, roomID, guestID, hostID, status string, startDate, endDate time.Time) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookingID:  bookingID,
		RoomID:     roomID,
		GuestID:    guestID,
		HostID:     hostID,
		Status:     status,
		StartDate:  startDate,
		EndDate:    endDate,
		OccurredAt: time.Now().UTC(),
	}
}
