package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/opencampus/roombook_backend/internal/models"
	"github.com/opencampus/roombook_backend/internal/repository"
)

// mockRoomRepo is a map-backed RoomRepository for service tests.

type mockRoomRepo struct {
	rooms map[string]*models.Room
	next  int
	// reservations lets FindAvailable see bookings, mirroring the SQL join.
	reservations *mockReservationRepo
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*models.Room)}
}

func (m *mockRoomRepo) Create(_ context.Context, room *models.Room) error {
	if room.ID == "" {
		m.next++
		room.ID = fmt.Sprintf("room-%d", m.next)
	}
	copied := *room
	m.rooms[room.ID] = &copied
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*models.Room, error) {
	if r, ok := m.rooms[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetByName(_ context.Context, name string) (*models.Room, error) {
	for _, r := range m.rooms {
		if r.Name == name {
			copied := *r
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context, f repository.RoomFilter) ([]models.Room, int64, error) {
	var out []models.Room
	for _, r := range m.rooms {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.RoomType != "" && r.RoomType != f.RoomType {
			continue
		}
		if f.MinCapacity > 0 && r.Capacity < f.MinCapacity {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *models.Room) error {
	copied := *room
	m.rooms[room.ID] = &copied
	return nil
}

func (m *mockRoomRepo) UpdateStatus(_ context.Context, id, status string) error {
	r, ok := m.rooms[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Status = status
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string) error {
	delete(m.rooms, id)
	return nil
}

func (m *mockRoomRepo) FindAvailable(_ context.Context, start, end time.Time, minCapacity int) ([]models.Room, error) {
	busy := map[string]struct{}{}
	if m.reservations != nil {
		for _, res := range m.reservations.reservations {
			if res.Blocks() && res.OverlapsWindow(start, end) {
				busy[res.RoomID] = struct{}{}
			}
		}
	}
	var out []models.Room
	for _, r := range m.rooms {
		if r.Status != models.RoomAvailable || r.Capacity < minCapacity {
			continue
		}
		if _, taken := busy[r.ID]; taken {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// mockReservationRepo is a map-backed ReservationRepository that enforces
// the same overlap rule as the SQL implementation.

type mockReservationRepo struct {
	reservations map[string]*models.Reservation
	rooms        *mockRoomRepo
	next         int
}

func newMockReservationRepo(rooms *mockRoomRepo) *mockReservationRepo {
	m := &mockReservationRepo{
		reservations: make(map[string]*models.Reservation),
		rooms:        rooms,
	}
	rooms.reservations = m
	return m
}

func (m *mockReservationRepo) hasConflict(roomID string, start, end time.Time, excludeID string) bool {
	for _, res := range m.reservations {
		if res.RoomID != roomID || res.ID == excludeID {
			continue
		}
		if res.Blocks() && res.OverlapsWindow(start, end) {
			return true
		}
	}
	return false
}

func (m *mockReservationRepo) Book(_ context.Context, res *models.Reservation) error {
	if m.hasConflict(res.RoomID, res.StartTime, res.EndTime, "") {
		return repository.ErrConflict
	}
	if res.ID == "" {
		m.next++
		res.ID = fmt.Sprintf("res-%d", m.next)
	}
	copied := *res
	m.reservations[res.ID] = &copied
	return nil
}

func (m *mockReservationRepo) Reschedule(_ context.Context, res *models.Reservation) error {
	if m.hasConflict(res.RoomID, res.StartTime, res.EndTime, res.ID) {
		return repository.ErrConflict
	}
	copied := *res
	m.reservations[res.ID] = &copied
	return nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	res, ok := m.reservations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *res
	if room, ok := m.rooms.rooms[res.RoomID]; ok {
		copied.Room = *room
	}
	return &copied, nil
}

func (m *mockReservationRepo) Update(_ context.Context, res *models.Reservation) error {
	copied := *res
	m.reservations[res.ID] = &copied
	return nil
}

func (m *mockReservationRepo) Transition(_ context.Context, id string, from []string, updates map[string]interface{}) (bool, error) {
	res, ok := m.reservations[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, s := range from {
		if res.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	for key, val := range updates {
		switch key {
		case "status":
			res.Status = val.(string)
		case "check_in_time":
			t := val.(time.Time)
			res.CheckInTime = &t
		case "check_out_time":
			t := val.(time.Time)
			res.CheckOutTime = &t
		case "notes":
			res.Notes = val.(string)
		}
	}
	return true, nil
}

func (m *mockReservationRepo) ListByUser(_ context.Context, userID, status string) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range m.reservations {
		if res.UserID != userID {
			continue
		}
		if status != "" && res.Status != status {
			continue
		}
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *mockReservationRepo) List(_ context.Context, f repository.ReservationFilter) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range m.reservations {
		if f.UserID != "" && res.UserID != f.UserID {
			continue
		}
		if f.RoomID != "" && res.RoomID != f.RoomID {
			continue
		}
		if f.Status != "" && res.Status != f.Status {
			continue
		}
		if f.From != nil && !res.EndTime.After(*f.From) {
			continue
		}
		if f.To != nil && !res.StartTime.Before(*f.To) {
			continue
		}
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *mockReservationRepo) CountBlockingForRoom(_ context.Context, roomID string) (int64, error) {
	var count int64
	for _, res := range m.reservations {
		if res.RoomID == roomID && res.Blocks() {
			count++
		}
	}
	return count, nil
}

func (m *mockReservationRepo) FindMissedCheckIns(_ context.Context, cutoff time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range m.reservations {
		if res.Status != models.ReservationConfirmed || res.CheckInTime != nil {
			continue
		}
		if !res.StartTime.Before(cutoff) {
			continue
		}
		copied := *res
		if room, ok := m.rooms.rooms[res.RoomID]; ok {
			copied.Room = *room
		}
		out = append(out, copied)
	}
	return out, nil
}

func (m *mockReservationRepo) FindOverdueCheckedIn(_ context.Context, now time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range m.reservations {
		if res.Status != models.ReservationCheckedIn {
			continue
		}
		if !res.EndTime.Before(now) {
			continue
		}
		copied := *res
		if room, ok := m.rooms.rooms[res.RoomID]; ok {
			copied.Room = *room
		}
		out = append(out, copied)
	}
	return out, nil
}

// captureNotifier records broadcast events for assertions.

type captureNotifier struct {
	events []RoomStatusEvent
}

func (n *captureNotifier) NotifyRoomStatus(event RoomStatusEvent) {
	n.events = append(n.events, event)
}
