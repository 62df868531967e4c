package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/opencampus/roombook_backend/internal/models"
	"github.com/opencampus/roombook_backend/internal/repository"
)

type roomFixture struct {
	roomSvc  *RoomService
	resSvc   *ReservationService
	rooms    *mockRoomRepo
	notifier *captureNotifier
}

func setupRoomService(t *testing.T) *roomFixture {
	t.Helper()
	rooms := newMockRoomRepo()
	resRepo := newMockReservationRepo(rooms)
	notifier := &captureNotifier{}
	repo := &repository.Repository{Room: rooms, Reservation: resRepo}

	resSvc := NewReservationService(repo, zap.NewNop(), notifier)
	resSvc.now = func() time.Time { return baseTime }
	return &roomFixture{
		roomSvc:  NewRoomService(repo, zap.NewNop(), notifier),
		resSvc:   resSvc,
		rooms:    rooms,
		notifier: notifier,
	}
}

func TestCreateRoom_NameConflict(t *testing.T) {
	f := setupRoomService(t)

	if _, err := f.roomSvc.CreateRoom(context.Background(), CreateRoomInput{Name: "Room A", Capacity: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.roomSvc.CreateRoom(context.Background(), CreateRoomInput{Name: "Room A", Capacity: 4}); !errors.Is(err, ErrNameConflict) {
		t.Fatalf("expected ErrNameConflict, got %v", err)
	}
}

func TestCreateRoom_EquipmentValidation(t *testing.T) {
	f := setupRoomService(t)

	_, err := f.roomSvc.CreateRoom(context.Background(), CreateRoomInput{
		Name:      "Room A",
		Capacity:  10,
		Equipment: map[string]int{"projector": -1},
	})
	if !errors.Is(err, ErrInvalidEquipment) {
		t.Fatalf("expected ErrInvalidEquipment, got %v", err)
	}

	room, err := f.roomSvc.CreateRoom(context.Background(), CreateRoomInput{
		Name:      "Room B",
		Capacity:  10,
		Equipment: map[string]int{"projector": 1, "whiteboard": 2},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(room.Equipment) != 2 {
		t.Errorf("expected 2 equipment entries, got %d", len(room.Equipment))
	}
}

func TestUpdateRoomStatus(t *testing.T) {
	f := setupRoomService(t)
	room, _ := f.roomSvc.CreateRoom(context.Background(), CreateRoomInput{Name: "Room A", Capacity: 10})

	if _, err := f.roomSvc.UpdateRoomStatus(context.Background(), room.ID, "broken"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	updated, err := f.roomSvc.UpdateRoomStatus(context.Background(), room.ID, models.RoomMaintenance)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != models.RoomMaintenance {
		t.Errorf("expected maintenance, got %s", updated.Status)
	}
	if len(f.notifier.events) == 0 {
		t.Errorf("expected status change broadcast")
	}
}

func TestDeleteRoom_BlockedByActiveReservations(t *testing.T) {
	f := setupRoomService(t)
	room, _ := f.roomSvc.CreateRoom(context.Background(), CreateRoomInput{Name: "Room A", Capacity: 10})

	res, err := f.resSvc.CreateReservation(context.Background(), CreateReservationInput{
		UserID:    "user-1",
		RoomID:    room.ID,
		StartTime: baseTime,
		EndTime:   baseTime.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := f.roomSvc.DeleteRoom(context.Background(), room.ID); !errors.Is(err, ErrHasActiveReservations) {
		t.Fatalf("expected ErrHasActiveReservations, got %v", err)
	}

	if err := f.resSvc.CancelReservation(context.Background(), res.ID, "user-1", false); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := f.roomSvc.DeleteRoom(context.Background(), room.ID); err != nil {
		t.Fatalf("expected delete to succeed once reservations are inactive, got %v", err)
	}
}

func TestFindAvailableRooms(t *testing.T) {
	f := setupRoomService(t)
	free, _ := f.roomSvc.CreateRoom(context.Background(), CreateRoomInput{Name: "Free", Capacity: 10})
	booked, _ := f.roomSvc.CreateRoom(context.Background(), CreateRoomInput{Name: "Booked", Capacity: 10})
	small, _ := f.roomSvc.CreateRoom(context.Background(), CreateRoomInput{Name: "Small", Capacity: 2})
	closed, _ := f.roomSvc.CreateRoom(context.Background(), CreateRoomInput{Name: "Closed", Capacity: 10})
	if _, err := f.roomSvc.UpdateRoomStatus(context.Background(), closed.ID, models.RoomMaintenance); err != nil {
		t.Fatalf("close room: %v", err)
	}

	if _, err := f.resSvc.CreateReservation(context.Background(), CreateReservationInput{
		UserID:    "user-1",
		RoomID:    booked.ID,
		StartTime: baseTime,
		EndTime:   baseTime.Add(time.Hour),
	}); err != nil {
		t.Fatalf("book: %v", err)
	}

	// Invalid window.
	if _, err := f.roomSvc.FindAvailableRooms(context.Background(), baseTime, baseTime, 0); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}

	// Overlapping window: only the free room with enough capacity qualifies.
	got, err := f.roomSvc.FindAvailableRooms(context.Background(), baseTime.Add(30*time.Minute), baseTime.Add(90*time.Minute), 5)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 || got[0].ID != free.ID {
		t.Fatalf("expected only %q, got %v", free.Name, roomNames(got))
	}

	// A window after the booking ends frees the booked room again; the
	// small room shows up once the capacity bar drops.
	got, err = f.roomSvc.FindAvailableRooms(context.Background(), baseTime.Add(time.Hour), baseTime.Add(2*time.Hour), 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rooms, got %v", roomNames(got))
	}
	_ = small
}

func roomNames(rooms []models.Room) []string {
	names := make([]string, 0, len(rooms))
	for _, r := range rooms {
		names = append(names, r.Name)
	}
	return names
}
