package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "staybook/internal/bookings/errors"
	"staybook/internal/bookings/repository"
	"staybook/internal/bookings/validator"
	roomserrors "staybook/internal/rooms/errors"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/events"
	"staybook/pkg/model"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	dateLayout      = "2006-01-02"
	minimumGuestAge = 18
)

// RoomDirectory is the read-side view of the rooms domain that admission
// needs. The rooms repository satisfies it.
type RoomDirectory interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

// EventPublisher emits booking lifecycle events. Publishing is best-effort:
// failures are logged and never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

type BookingService interface {
	Admit(ctx context.Context, caller model.Caller, req *model.BookingRequest) (*model.Booking, error)
	Cancel(ctx context.Context, caller model.Caller, id string) (*model.Booking, error)
	Complete(ctx context.Context, caller model.Caller, id string) (*model.Booking, error)
	GetByID(ctx context.Context, caller model.Caller, id string) (*model.Booking, error)
	GetByGuest(ctx context.Context, caller model.Caller, guestID string, limit int, offset int64) ([]*model.Booking, int64, error)
	HasConflict(ctx context.Context, roomID string, startDate, endDate time.Time) (bool, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	rooms     RoomDirectory
	validator *validator.BookingValidator
	publisher EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	rooms RoomDirectory,
	validator *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Admit runs the admission policy in a fixed order so the first error
// reported is the most informative one, then persists the booking under a
// per-room advisory lock and a transaction around the conflict check and
// insert.
func (s *bookingService) Admit(ctx context.Context, caller model.Caller, req *model.BookingRequest) (*model.Booking, error) {
	if caller.UserID == "" {
		return nil, apperrors.Forbidden("Booking requires an authenticated caller")
	}

	if req.Document == nil || req.Document.FileName == "" {
		return nil, apperrors.MissingDocument()
	}

	dateOfBirth, err := parseDay(req.DateOfBirth)
	if err != nil {
		return nil, apperrors.InvalidBirthDate(req.DateOfBirth)
	}
	if !isAdult(dateOfBirth, time.Now().UTC()) {
		return nil, apperrors.UnderageGuest()
	}

	room, err := s.resolveRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	if req.Guests < 1 {
		return nil, apperrors.Validation("Guest count must be at least 1", map[string]any{"guests": req.Guests})
	}
	if req.Guests > room.Capacity {
		return nil, apperrors.Validation(
			fmt.Sprintf("Guest count (%d) exceeds room capacity (%d)", req.Guests, room.Capacity),
			map[string]any{"guests": req.Guests, "capacity": room.Capacity},
		)
	}

	startDate, endDate, err := parseStayDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	nights := nightsBetween(startDate, endDate)
	if nights < room.MinNights || nights > room.MaxNights {
		return nil, apperrors.NightsOutOfRange(nights, room.MinNights, room.MaxNights)
	}

	status := model.StatusPending
	if room.InstantBook {
		status = model.StatusConfirmed
	}

	booking := &model.Booking{
		RoomID:    room.ID,
		GuestID:   caller.UserID,
		HostID:    room.HostID,
		StartDate: startDate,
		EndDate:   endDate,
		Nights:    nights,
		Guests:    req.Guests,
		TotalPrice: model.Price{
			Amount:   room.PricePerNight.Amount * int64(nights),
			Currency: room.PricePerNight.Currency,
		},
		Status:      status,
		DateOfBirth: dateOfBirth,
		Document:    req.Document,
	}
	if err := s.validate(booking); err != nil {
		return nil, err
	}

	// Serialize admission per room so two concurrent requests cannot both
	// pass the conflict check.
	lockID, err := s.acquireRoomLock(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	enforceConflicts := !room.InstantBook || s.cfg.StrictOverlapEnforcement
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if enforceConflicts {
			conflict, err := s.HasConflict(sessCtx, room.ID, startDate, endDate)
			if err != nil {
				return err
			}
			if conflict {
				return apperrors.DatesUnavailable()
			}
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Booking admission failed", "room_id", room.ID, "guest_id", caller.UserID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking admitted",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"guest_id", booking.GuestID,
		"status", booking.Status,
		"nights", booking.Nights,
	)
	s.publishEvent(ctx, events.TypeBookingCreated, booking)

	return booking, nil
}

// HasConflict reports whether an active booking overlaps [startDate, endDate)
// for the room. Half-open intervals: a stay ending on a day never conflicts
// with one starting that same day.
func (s *bookingService) HasConflict(ctx context.Context, roomID string, startDate, endDate time.Time) (bool, error) {
	existing, err := s.repo.FindActiveOverlapping(ctx, roomID, startDate, endDate)
	if err != nil {
		return false, apperrors.Internal("Failed to check existing bookings", err)
	}
	return len(existing) > 0, nil
}

func (s *bookingService) Cancel(ctx context.Context, caller model.Caller, id string) (*model.Booking, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.Is(booking.GuestID) && !caller.IsAdmin() {
		return nil, apperrors.Forbidden("Only the booking guest or an admin may cancel")
	}

	switch booking.Status {
	case model.StatusCancelled:
		// Repeated cancellation is a no-op success.
		return booking, nil
	case model.StatusCompleted, model.StatusRejected:
		return nil, apperrors.Conflict(fmt.Sprintf("Cannot cancel a %s booking", booking.Status))
	}

	// Conditional update so a transition racing this one cannot be
	// overwritten after the guard above.
	err = s.repo.TransitionStatus(ctx, id, []string{model.StatusPending, model.StatusConfirmed}, model.StatusCancelled)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStaleStatus) {
			return nil, apperrors.Conflict("Booking status changed, cannot cancel")
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	booking.Status = model.StatusCancelled

	s.cfg.Log.Info("Booking cancelled", "id", id, "guest_id", booking.GuestID, "by", caller.UserID)
	s.publishEvent(ctx, events.TypeBookingCancelled, booking)

	return booking, nil
}

func (s *bookingService) Complete(ctx context.Context, caller model.Caller, id string) (*model.Booking, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("Only an admin may complete a booking")
	}

	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.StatusConfirmed {
		return nil, apperrors.Conflict(fmt.Sprintf("Only confirmed bookings can be completed, current status: %s", booking.Status))
	}

	err = s.repo.TransitionStatus(ctx, id, []string{model.StatusConfirmed}, model.StatusCompleted)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStaleStatus) {
			return nil, apperrors.Conflict("Booking status changed, cannot complete")
		}
		s.cfg.Log.Error("Failed to complete booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to complete booking", err)
	}
	booking.Status = model.StatusCompleted

	s.cfg.Log.Info("Booking completed", "id", id, "by", caller.UserID)
	s.publishEvent(ctx, events.TypeBookingCompleted, booking)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, caller model.Caller, id string) (*model.Booking, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.Is(booking.GuestID) && !caller.Is(booking.HostID) && !caller.IsAdmin() {
		return nil, apperrors.Forbidden("Not authorized to view this booking")
	}

	return booking, nil
}

func (s *bookingService) GetByGuest(ctx context.Context, caller model.Caller, guestID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if guestID == "" {
		return nil, 0, apperrors.InvalidInput("Guest ID cannot be empty")
	}
	if !caller.Is(guestID) && !caller.IsAdmin() {
		return nil, 0, apperrors.Forbidden("Not authorized to list these bookings")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByGuest(ctx, guestID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "guest_id", guestID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByGuest(ctx, guestID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "guest_id", guestID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

func (s *bookingService) findByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) resolveRoom(ctx context.Context, roomID string) (*model.Room, error) {
	if roomID == "" {
		return nil, apperrors.InvalidRoom(roomID)
	}

	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidRoom(roomID)
		}
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.RoomNotFound(roomID)
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	// Archived rooms are invisible to admission.
	if room.Archived {
		return nil, apperrors.RoomNotFound(roomID)
	}

	return room, nil
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "room_id", booking.RoomID, "error", err)
		return apperrors.Validation("Invalid booking input", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	event := events.NewBookingEvent(
		eventType,
		booking.ID,
		booking.RoomID,
		booking.GuestID,
		booking.HostID,
		booking.Status,
		booking.StartDate,
		booking.EndDate,
	)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

// acquireRoomLock takes the per-room advisory lock. A duplicate key error
// means another admission for the same room is in flight.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s", roomID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// parseDay parses a calendar day and normalizes it to UTC midnight.
func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	day, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseStayDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDay(start)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidDateRange(fmt.Sprintf("Invalid start date: %q", start))
	}
	endDate, err := parseDay(end)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidDateRange(fmt.Sprintf("Invalid end date: %q", end))
	}
	if !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, apperrors.InvalidDateRange("Start date must be before end date")
	}
	return startDate, endDate, nil
}

// nightsBetween counts whole nights between two UTC midnights.
func nightsBetween(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate) / (24 * time.Hour))
}

// isAdult reports whether the guest is at least 18 on the given day. The
// birthday itself counts: turning 18 today is old enough.
func isAdult(dateOfBirth, now time.Time) bool {
	cutoff := time.Date(now.Year()-minimumGuestAge, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !dateOfBirth.After(cutoff)
}
