package service

import (
	"context"
	"errors"
	roomserrors "staybook/internal/rooms/errors"
	"staybook/internal/rooms/repository"
	"staybook/internal/rooms/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"sync"
)

type RoomService interface {
	Create(ctx context.Context, caller model.Caller, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, includeArchived bool, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, caller model.Caller, id string, updates *model.RoomUpdate) (*model.Room, error)
	Archive(ctx context.Context, caller model.Caller, id string) error
}

type roomService struct {
	repo      repository.RoomRepository
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(repo repository.RoomRepository, validator *validator.RoomValidator, cfg *config.Config) RoomService {
	return &roomService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, caller model.Caller, room *model.Room) error {
	if caller.Role != model.RoleHost && !caller.IsAdmin() {
		return apperrors.Forbidden("Only hosts and administrators may create rooms")
	}

	// Hosts always own the rooms they create; admins may create on behalf
	// of a host by supplying host_id explicitly.
	if !caller.IsAdmin() || room.HostID == "" {
		room.HostID = caller.UserID
	}
	room.Archived = false

	s.applyDefaults(room)
	s.sanitize(room)
	if err := s.validate(room); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully",
		"id", room.ID,
		"host_id", room.HostID,
		"instant_book", room.InstantBook,
	)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.RoomNotFound(id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidRoom(id)
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, includeArchived bool, limit int, offset int64) ([]*model.Room, int64, error) {
	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, includeArchived)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindAll(ctx, includeArchived, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) Update(ctx context.Context, caller model.Caller, id string, updates *model.RoomUpdate) (*model.Room, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeOwner(caller, existing); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeRoomUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.RoomNotFound(id)
		}
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id)
	return merged, nil
}

// Archive retires a room. Archived rooms stay in the catalog for existing
// bookings but are hidden from listings and rejected at admission.
func (s *roomService) Archive(ctx context.Context, caller model.Caller, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizeOwner(caller, existing); err != nil {
		return err
	}

	if err := s.repo.Archive(ctx, id); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.RoomNotFound(id)
		}
		s.cfg.Log.Error("Failed to archive room", "id", id, "error", err)
		return apperrors.Internal("Failed to archive room", err)
	}

	s.cfg.Log.Info("Room archived", "id", id, "host_id", existing.HostID)
	return nil
}

// --- Helpers ---

func (s *roomService) authorizeOwner(caller model.Caller, room *model.Room) error {
	if caller.IsAdmin() || caller.Is(room.HostID) {
		return nil
	}
	return apperrors.Forbidden("Only the owning host or an administrator may modify this room")
}

func (s *roomService) applyDefaults(room *model.Room) {
	if room.Capacity <= 0 {
		room.Capacity = 1
	}
	if room.MinNights <= 0 {
		room.MinNights = s.cfg.DefaultMinNights
	}
	if room.MaxNights <= 0 {
		room.MaxNights = s.cfg.DefaultMaxNights
	}
}

func (s *roomService) sanitize(room *model.Room) {
	room.Name = sanitizer.NormalizeName(room.Name)
	room.Description = sanitizer.TrimAndNormalize(room.Description)
	room.Amenities = sanitizer.NormalizeAmenities(room.Amenities)
	room.Rules = sanitizer.NormalizeRules(room.Rules)
	room.Location.Country = sanitizer.NormalizeName(room.Location.Country)
	room.Location.City = sanitizer.NormalizeName(room.Location.City)
	room.Location.Street = sanitizer.NormalizeName(room.Location.Street)
	room.PricePerNight.Currency = sanitizer.NormalizeCurrency(room.PricePerNight.Currency)
}

func (s *roomService) mergeRoomUpdates(existing *model.Room, updates *model.RoomUpdate) *model.Room {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.Bedrooms != nil {
		merged.Bedrooms = *updates.Bedrooms
	}
	if updates.Bathrooms != nil {
		merged.Bathrooms = *updates.Bathrooms
	}
	if updates.PricePerNight != nil {
		merged.PricePerNight = *updates.PricePerNight
	}
	if updates.MinNights != nil {
		merged.MinNights = *updates.MinNights
	}
	if updates.MaxNights != nil {
		merged.MaxNights = *updates.MaxNights
	}
	if updates.Amenities != nil {
		merged.Amenities = *updates.Amenities
	}
	if updates.Rules != nil {
		merged.Rules = *updates.Rules
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.InstantBook != nil {
		merged.InstantBook = *updates.InstantBook
	}

	return &merged
}

func (s *roomService) validate(room *model.Room) error {
	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if room.Capacity > s.cfg.MaxRoomCapacity {
		return apperrors.Validation("Room validation failed", map[string]any{
			"error": "capacity exceeds the supported maximum",
		})
	}

	return nil
}
