package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opencampus/roombook_backend/internal/models"
)

type ReservationFilter struct {
	UserID string
	RoomID string
	Status string
	From   *time.Time
	To     *time.Time
}

type ReservationRepository interface {
	Book(ctx context.Context, res *models.Reservation) error
	Reschedule(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	Update(ctx context.Context, res *models.Reservation) error
	Transition(ctx context.Context, id string, from []string, updates map[string]interface{}) (bool, error)
	ListByUser(ctx context.Context, userID, status string) ([]models.Reservation, error)
	List(ctx context.Context, f ReservationFilter) ([]models.Reservation, error)
	CountBlockingForRoom(ctx context.Context, roomID string) (int64, error)
	FindMissedCheckIns(ctx context.Context, cutoff time.Time) ([]models.Reservation, error)
	FindOverdueCheckedIn(ctx context.Context, now time.Time) ([]models.Reservation, error)
}

type reservationRepo struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func blockingOverlap(tx *gorm.DB, roomID string, start, end time.Time) *gorm.DB {
	return tx.Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.BlockingStatuses).
		Where("start_time < ? AND end_time > ?", end, start)
}

// Book inserts the reservation after re-checking for conflicts inside a
// transaction that holds a row lock on the room. The lock serialises
// concurrent bookings for the same room, so two requests for the same
// window cannot both pass the check.
func (r *reservationRepo) Book(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", res.RoomID).First(&room).Error; err != nil {
			return err
		}
		var count int64
		if err := blockingOverlap(tx, res.RoomID, res.StartTime, res.EndTime).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		return tx.Create(res).Error
	})
}

// Reschedule saves a reservation whose time or room changed, under the same
// room lock and conflict check as Book, excluding the reservation itself.
func (r *reservationRepo) Reschedule(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", res.RoomID).First(&room).Error; err != nil {
			return err
		}
		var count int64
		if err := blockingOverlap(tx, res.RoomID, res.StartTime, res.EndTime).
			Where("id <> ?", res.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		return tx.Save(res).Error
	})
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("User").
		Where("id = ?", id).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepo) Update(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).Save(res).Error
}

// Transition applies updates only when the reservation is still in one of
// the expected states. The returned bool reports whether a row changed;
// false means another path (a user action or a sweep) won the race.
func (r *reservationRepo) Transition(ctx context.Context, id string, from []string, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected > 0, result.Error
}

func (r *reservationRepo) ListByUser(ctx context.Context, userID, status string) ([]models.Reservation, error) {
	q := r.db.WithContext(ctx).
		Preload("Room").
		Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Reservation
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reservationRepo) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	q := r.db.WithContext(ctx).
		Preload("Room").
		Preload("User")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.RoomID != "" {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("end_time > ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_time < ?", *f.To)
	}
	var out []models.Reservation
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reservationRepo) CountBlockingForRoom(ctx context.Context, roomID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.BlockingStatuses).
		Count(&count).Error
	return count, err
}

func (r *reservationRepo) FindMissedCheckIns(ctx context.Context, cutoff time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("status = ?", models.ReservationConfirmed).
		Where("start_time < ?", cutoff).
		Where("check_in_time IS NULL").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reservationRepo) FindOverdueCheckedIn(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("status = ?", models.ReservationCheckedIn).
		Where("end_time < ?", now).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
