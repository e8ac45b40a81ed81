package service

import (
	"context"
	"fmt"

	"staybook/pkg/events"
	"staybook/pkg/logger"
)

// NotifierService turns booking lifecycle events into guest and host
// notifications. Delivery channels (email, push) sit behind the gateway;
// this service resolves who gets told what and records the dispatch.
type NotifierService struct {
	log *logger.Logger
}

func NewNotifierService(log *logger.Logger) *NotifierService {
	return &NotifierService{log: log}
}

// HandleEvent implements events.EventHandler.
func (s *NotifierService) HandleEvent(ctx context.Context, event events.BookingEvent) error {
	guestMsg, hostMsg, err := s.composeMessages(event)
	if err != nil {
		return err
	}

	s.dispatch(event, event.GuestID, guestMsg)
	s.dispatch(event, event.HostID, hostMsg)
	return nil
}

func (s *NotifierService) composeMessages(event events.BookingEvent) (guestMsg, hostMsg string, err error) {
	stay := fmt.Sprintf("%s to %s", event.StartDate.Format("2006-01-02"), event.EndDate.Format("2006-01-02"))

	switch event.Type {
	case events.TypeBookingCreated:
		if event.Status == "confirmed" {
			guestMsg = fmt.Sprintf("Your booking %s is confirmed, %s.", event.BookingID, stay)
			hostMsg = fmt.Sprintf("Instant booking %s confirmed for your room %s, %s.", event.BookingID, event.RoomID, stay)
		} else {
			guestMsg = fmt.Sprintf("Your booking request %s for %s was received and is pending.", event.BookingID, stay)
			hostMsg = fmt.Sprintf("New booking request %s for your room %s, %s.", event.BookingID, event.RoomID, stay)
		}
	case events.TypeBookingCancelled:
		guestMsg = fmt.Sprintf("Your booking %s (%s) was cancelled.", event.BookingID, stay)
		hostMsg = fmt.Sprintf("Booking %s for your room %s (%s) was cancelled.", event.BookingID, event.RoomID, stay)
	case events.TypeBookingCompleted:
		guestMsg = fmt.Sprintf("Your stay %s (%s) is complete. Thanks for staying with us.", event.BookingID, stay)
		hostMsg = fmt.Sprintf("Stay %s in your room %s (%s) is complete.", event.BookingID, event.RoomID, stay)
	default:
		return "", "", fmt.Errorf("unknown event type: %s", event.Type)
	}

	return guestMsg, hostMsg, nil
}

func (s *NotifierService) dispatch(event events.BookingEvent, recipient, message string) {
	s.log.Info("Notification dispatched",
		"event_id", event.EventID,
		"event_type", event.Type,
		"booking_id", event.BookingID,
		"recipient", recipient,
		"message", message,
	)
}
