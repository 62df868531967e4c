package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/opencampus/roombook_backend/internal/models"
)

type RoomFilter struct {
	Query       string
	Status      string
	RoomType    string
	MinCapacity int
	Page        int
	Limit       int
	All         bool
}

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id string) (*models.Room, error)
	GetByName(ctx context.Context, name string) (*models.Room, error)
	List(ctx context.Context, f RoomFilter) ([]models.Room, int64, error)
	Update(ctx context.Context, room *models.Room) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	FindAvailable(ctx context.Context, start, end time.Time, minCapacity int) ([]models.Room, error)
}

type roomRepo struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByName(ctx context.Context, name string) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context, f RoomFilter) ([]models.Room, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Room{})
	if f.Query != "" {
		q = q.Where("name ILIKE ?", "%"+f.Query+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RoomType != "" {
		q = q.Where("room_type = ?", f.RoomType)
	}
	if f.MinCapacity > 0 {
		q = q.Where("capacity >= ?", f.MinCapacity)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("name ASC")
	if !f.All {
		limit := f.Limit
		if limit <= 0 {
			limit = 20
		}
		page := f.Page
		if page <= 0 {
			page = 1
		}
		q = q.Offset((page - 1) * limit).Limit(limit)
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func (r *roomRepo) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *roomRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *roomRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Room{}).Error
}

// FindAvailable returns rooms with status "available" and enough capacity
// that have no blocking reservation overlapping [start, end).
func (r *roomRepo) FindAvailable(ctx context.Context, start, end time.Time, minCapacity int) ([]models.Room, error) {
	busy := r.db.Model(&models.Reservation{}).
		Select("room_id").
		Where("status IN ?", models.BlockingStatuses).
		Where("start_time < ? AND end_time > ?", end, start)

	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Where("status = ?", models.RoomAvailable).
		Where("capacity >= ?", minCapacity).
		Where("id NOT IN (?)", busy).
		Order("name ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
