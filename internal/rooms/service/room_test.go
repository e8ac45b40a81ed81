package service

import (
	"context"
	"testing"
	"time"

	roomserrors "staybook/internal/rooms/errors"
	"staybook/internal/rooms/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type mockRoomRepository struct {
	createFunc   func(ctx context.Context, room *model.Room) error
	findByIDFunc func(ctx context.Context, id string) (*model.Room, error)
	updateFunc   func(ctx context.Context, id string, room *model.Room) error
	archiveFunc  func(ctx context.Context, id string) error
	captured     *model.Room
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	m.captured = room
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	room.ID = "507f1f77bcf86cd799439011"
	return nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindAll(ctx context.Context, includeArchived bool, limit int, offset int64) ([]*model.Room, error) {
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) Count(ctx context.Context, includeArchived bool) (int64, error) {
	return 0, nil
}

func (m *mockRoomRepository) Update(ctx context.Context, id string, room *model.Room) error {
	m.captured = room
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, room)
	}
	return nil
}

func (m *mockRoomRepository) Archive(ctx context.Context, id string) error {
	if m.archiveFunc != nil {
		return m.archiveFunc(ctx, id)
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return &config.Config{
		Log:              log,
		BookingLockTTL:   10 * time.Second,
		DefaultMinNights: 1,
		DefaultMaxNights: 30,
		MaxRoomCapacity:  20,
	}
}

func newTestService(t *testing.T, repo *mockRoomRepository) RoomService {
	t.Helper()
	cfg := testConfig(t)
	return NewRoomService(repo, validator.NewRoomValidator(cfg.Log), cfg)
}

func hostCaller() model.Caller {
	return model.Caller{UserID: "host-1", Role: model.RoleHost}
}

func validRoom() *model.Room {
	return &model.Room{
		Name:          "Seaside Loft",
		Capacity:      4,
		PricePerNight: model.Price{Amount: 100, Currency: "usd"},
		Location:      model.Location{Country: "portugal", City: "lisbon"},
	}
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError with code %s, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Errorf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

func TestCreate_AppliesDefaultsAndNormalizes(t *testing.T) {
	repo := &mockRoomRepository{}
	svc := newTestService(t, repo)

	room := validRoom()
	if err := svc.Create(context.Background(), hostCaller(), room); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if room.HostID != "host-1" {
		t.Errorf("expected host-1 ownership, got %s", room.HostID)
	}
	if room.MinNights != 1 || room.MaxNights != 30 {
		t.Errorf("expected default nights bounds 1/30, got %d/%d", room.MinNights, room.MaxNights)
	}
	if room.PricePerNight.Currency != "USD" {
		t.Errorf("expected normalized currency USD, got %s", room.PricePerNight.Currency)
	}
	if room.Archived {
		t.Error("new rooms must not be archived")
	}
}

func TestCreate_Authorization(t *testing.T) {
	svc := newTestService(t, &mockRoomRepository{})

	err := svc.Create(context.Background(), model.Caller{UserID: "guest-1", Role: model.RoleGuest}, validRoom())
	expectCode(t, err, apperrors.CodeForbidden)
}

func TestCreate_AdminOnBehalfOfHost(t *testing.T) {
	repo := &mockRoomRepository{}
	svc := newTestService(t, repo)

	room := validRoom()
	room.HostID = "host-7"
	admin := model.Caller{UserID: "admin-1", Role: model.RoleAdmin}
	if err := svc.Create(context.Background(), admin, room); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if room.HostID != "host-7" {
		t.Errorf("admin-supplied host_id must be kept, got %s", room.HostID)
	}
}

func TestCreate_CapacityCeiling(t *testing.T) {
	svc := newTestService(t, &mockRoomRepository{})

	room := validRoom()
	room.Capacity = 50
	err := svc.Create(context.Background(), hostCaller(), room)
	expectCode(t, err, apperrors.CodeValidation)
}

func TestGetByID_ErrorMapping(t *testing.T) {
	repo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			if id == "bad" {
				return nil, roomserrors.ErrInvalidID
			}
			return nil, roomserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.GetByID(context.Background(), "507f1f77bcf86cd799439099")
	expectCode(t, err, apperrors.CodeRoomNotFound)

	_, err = svc.GetByID(context.Background(), "bad")
	expectCode(t, err, apperrors.CodeInvalidRoom)

	_, err = svc.GetByID(context.Background(), "")
	expectCode(t, err, apperrors.CodeInvalidInput)
}

func TestUpdate_OwnershipEnforced(t *testing.T) {
	stored := validRoom()
	stored.ID = "507f1f77bcf86cd799439011"
	stored.HostID = "host-1"
	stored.MinNights = 2
	stored.MaxNights = 10
	stored.PricePerNight.Currency = "USD"

	repo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return stored, nil
		},
	}
	svc := newTestService(t, repo)

	newName := "Harbour View"
	updates := &model.RoomUpdate{Name: newName}

	_, err := svc.Update(context.Background(), model.Caller{UserID: "host-2", Role: model.RoleHost}, stored.ID, updates)
	expectCode(t, err, apperrors.CodeForbidden)

	room, err := svc.Update(context.Background(), hostCaller(), stored.ID, updates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if room.Name != newName {
		t.Errorf("expected updated name %q, got %q", newName, room.Name)
	}
	if room.Capacity != stored.Capacity {
		t.Errorf("untouched fields must survive the merge, capacity %d != %d", room.Capacity, stored.Capacity)
	}
}

func TestArchive(t *testing.T) {
	stored := validRoom()
	stored.ID = "507f1f77bcf86cd799439011"
	stored.HostID = "host-1"
	stored.MinNights = 2
	stored.MaxNights = 10
	stored.PricePerNight.Currency = "USD"

	archived := false
	repo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return stored, nil
		},
		archiveFunc: func(ctx context.Context, id string) error {
			archived = true
			return nil
		},
	}
	svc := newTestService(t, repo)

	err := svc.Archive(context.Background(), model.Caller{UserID: "guest-1", Role: model.RoleGuest}, stored.ID)
	expectCode(t, err, apperrors.CodeForbidden)
	if archived {
		t.Fatal("archive must not run for unauthorized callers")
	}

	if err := svc.Archive(context.Background(), hostCaller(), stored.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !archived {
		t.Error("expected repository archive call")
	}
}
