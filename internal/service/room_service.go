package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opencampus/roombook_backend/internal/models"
	"github.com/opencampus/roombook_backend/internal/repository"
)

type CreateRoomInput struct {
	Name      string
	Capacity  int
	Location  string
	RoomType  string
	Equipment map[string]int
}

type UpdateRoomInput struct {
	Name     *string
	Capacity *int
	Location *string
	RoomType *string
}

type RoomService struct {
	repo     *repository.Repository
	logger   *zap.Logger
	notifier RoomStatusNotifier
}

func NewRoomService(repo *repository.Repository, logger *zap.Logger, notifier RoomStatusNotifier) *RoomService {
	return &RoomService{repo: repo, logger: logger, notifier: notifier}
}

func (s *RoomService) CreateRoom(ctx context.Context, input CreateRoomInput) (*models.Room, error) {
	if err := s.ensureNameFree(ctx, input.Name, ""); err != nil {
		return nil, err
	}
	equipment, err := toEquipmentMap(input.Equipment)
	if err != nil {
		return nil, err
	}

	roomType := input.RoomType
	if roomType == "" {
		roomType = models.RoomTypeIndividual
	}
	if !models.IsValidRoomType(roomType) {
		return nil, ErrInvalidStatus
	}

	room := &models.Room{
		Name:      input.Name,
		Capacity:  input.Capacity,
		Location:  input.Location,
		Status:    models.RoomAvailable,
		RoomType:  roomType,
		Equipment: equipment,
	}
	if err := s.repo.Room.Create(ctx, room); err != nil {
		return nil, err
	}
	s.logger.Info("room created", zap.String("room_id", room.ID), zap.String("name", room.Name))
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *RoomService) ListRooms(ctx context.Context, f repository.RoomFilter) ([]models.Room, int64, error) {
	return s.repo.Room.List(ctx, f)
}

func (s *RoomService) UpdateRoom(ctx context.Context, id string, input UpdateRoomInput) (*models.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil && *input.Name != room.Name {
		if err := s.ensureNameFree(ctx, *input.Name, room.ID); err != nil {
			return nil, err
		}
		room.Name = *input.Name
	}
	if input.Capacity != nil {
		room.Capacity = *input.Capacity
	}
	if input.Location != nil {
		room.Location = *input.Location
	}
	if input.RoomType != nil {
		if !models.IsValidRoomType(*input.RoomType) {
			return nil, ErrInvalidStatus
		}
		room.RoomType = *input.RoomType
	}
	if err := s.repo.Room.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// UpdateRoomStatus is the admin-facing status override. Lifecycle-driven
// flips (check-in/out, sweeps) go through the reservation service instead.
func (s *RoomService) UpdateRoomStatus(ctx context.Context, id, status string) (*models.Room, error) {
	if !models.IsValidRoomStatus(status) {
		return nil, ErrInvalidStatus
	}
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Room.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	room.Status = status
	if s.notifier != nil {
		s.notifier.NotifyRoomStatus(RoomStatusEvent{
			RoomID: room.ID,
			Name:   room.Name,
			Status: status,
			At:     time.Now(),
		})
	}
	s.logger.Info("room status updated", zap.String("room_id", id), zap.String("status", status))
	return room, nil
}

func (s *RoomService) UpdateEquipment(ctx context.Context, id string, equipment map[string]int) (*models.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := toEquipmentMap(equipment)
	if err != nil {
		return nil, err
	}
	room.Equipment = m
	if err := s.repo.Room.Update(ctx, room); err != nil {
		return nil, err
	}
	s.logger.Info("room equipment updated", zap.String("room_id", id))
	return room, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, id string) error {
	if _, err := s.GetRoom(ctx, id); err != nil {
		return err
	}
	active, err := s.repo.Reservation.CountBlockingForRoom(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrHasActiveReservations
	}
	if err := s.repo.Room.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("room deleted", zap.String("room_id", id))
	return nil
}

func (s *RoomService) FindAvailableRooms(ctx context.Context, start, end time.Time, minCapacity int) ([]models.Room, error) {
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}
	return s.repo.Room.FindAvailable(ctx, start, end, minCapacity)
}

func (s *RoomService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.Room.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrNameConflict
	}
	return nil
}

func toEquipmentMap(equipment map[string]int) (datatypes.JSONMap, error) {
	if equipment == nil {
		return datatypes.JSONMap{}, nil
	}
	m := datatypes.JSONMap{}
	for name, qty := range equipment {
		if qty < 0 {
			return nil, ErrInvalidEquipment
		}
		m[name] = qty
	}
	return m, nil
}
