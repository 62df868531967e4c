package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opencampus/roombook_backend/internal/models"
	"github.com/opencampus/roombook_backend/internal/repository"
)

const (
	// MinDuration is the shortest bookable interval.
	MinDuration = 30 * time.Minute
	// CheckInWindow is how early a non-admin may check in before the start.
	CheckInWindow = 15 * time.Minute
	// MissedCheckInGrace is how long after the start time a confirmed
	// reservation survives without a check-in before the sweep cancels it.
	MissedCheckInGrace = 30 * time.Minute
)

type CreateReservationInput struct {
	UserID            string
	RoomID            string
	StartTime         time.Time
	EndTime           time.Time
	Purpose           string
	ParticipantsCount int
}

type UpdateReservationInput struct {
	RoomID            *string
	StartTime         *time.Time
	EndTime           *time.Time
	Purpose           *string
	Notes             *string
	ParticipantsCount *int
}

// ReservationService owns the booking lifecycle. It is the only component
// that flips reservation and room status together.
type ReservationService struct {
	repo     *repository.Repository
	logger   *zap.Logger
	notifier RoomStatusNotifier
	now      func() time.Time
}

func NewReservationService(repo *repository.Repository, logger *zap.Logger, notifier RoomStatusNotifier) *ReservationService {
	return &ReservationService{
		repo:     repo,
		logger:   logger,
		notifier: notifier,
		now:      time.Now,
	}
}

func validateWindow(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidTimeRange
	}
	if end.Sub(start) < MinDuration {
		return ErrDurationTooShort
	}
	return nil
}

func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*models.Reservation, error) {
	if err := validateWindow(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}

	room, err := s.repo.Room.GetByID(ctx, input.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.Status != models.RoomAvailable {
		return nil, ErrRoomUnavailable
	}

	participants := input.ParticipantsCount
	if participants <= 0 {
		participants = 1
	}
	if participants > room.Capacity {
		return nil, ErrCapacityExceeded
	}

	res := &models.Reservation{
		UserID:            input.UserID,
		RoomID:            input.RoomID,
		StartTime:         input.StartTime,
		EndTime:           input.EndTime,
		Status:            models.ReservationConfirmed,
		Purpose:           input.Purpose,
		ParticipantsCount: participants,
	}
	if err := s.repo.Reservation.Book(ctx, res); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRoomAlreadyBooked
		}
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("room_id", res.RoomID),
		zap.String("user_id", res.UserID),
		zap.Time("start", res.StartTime),
		zap.Time("end", res.EndTime))
	res.Room = *room
	return res, nil
}

func (s *ReservationService) UpdateReservation(ctx context.Context, id, userID string, input UpdateReservationInput, isAdmin bool) (*models.Reservation, error) {
	res, err := s.getOwned(ctx, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	if res.CheckInTime != nil && !isAdmin {
		return nil, ErrAlreadyCheckedIn
	}

	rebook := false
	if input.RoomID != nil && *input.RoomID != res.RoomID {
		res.RoomID = *input.RoomID
		rebook = true
	}
	if input.StartTime != nil && !input.StartTime.Equal(res.StartTime) {
		res.StartTime = *input.StartTime
		rebook = true
	}
	if input.EndTime != nil && !input.EndTime.Equal(res.EndTime) {
		res.EndTime = *input.EndTime
		rebook = true
	}
	if input.Purpose != nil {
		res.Purpose = *input.Purpose
	}
	if input.Notes != nil {
		res.Notes = *input.Notes
	}
	if input.ParticipantsCount != nil {
		res.ParticipantsCount = *input.ParticipantsCount
	}

	room, err := s.repo.Room.GetByID(ctx, res.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if res.ParticipantsCount > room.Capacity {
		return nil, ErrCapacityExceeded
	}

	if rebook {
		if err := validateWindow(res.StartTime, res.EndTime); err != nil {
			return nil, err
		}
		// Save drops the preloaded associations from the write.
		res.Room = models.Room{}
		res.User = models.User{}
		if err := s.repo.Reservation.Reschedule(ctx, res); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrRoomAlreadyBooked
			}
			return nil, err
		}
	} else {
		res.Room = models.Room{}
		res.User = models.User{}
		if err := s.repo.Reservation.Update(ctx, res); err != nil {
			return nil, err
		}
	}

	s.logger.Info("reservation updated", zap.String("reservation_id", res.ID))
	res.Room = *room
	return res, nil
}

func (s *ReservationService) CancelReservation(ctx context.Context, id, userID string, isAdmin bool) error {
	res, err := s.getOwned(ctx, id, userID, isAdmin)
	if err != nil {
		return err
	}
	if res.CheckInTime != nil && !isAdmin {
		return ErrAlreadyCheckedIn
	}
	if res.IsTerminal() {
		return ErrInvalidStatus
	}

	wasCheckedIn := res.Status == models.ReservationCheckedIn
	ok, err := s.repo.Reservation.Transition(ctx, res.ID,
		[]string{models.ReservationPending, models.ReservationConfirmed, models.ReservationCheckedIn},
		map[string]interface{}{"status": models.ReservationCancelled})
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidStatus
	}

	if wasCheckedIn && res.Room.Status == models.RoomOccupied {
		if err := s.setRoomStatus(ctx, &res.Room, models.RoomAvailable); err != nil {
			return err
		}
	}

	s.logger.Info("reservation cancelled",
		zap.String("reservation_id", res.ID),
		zap.Bool("by_admin", isAdmin && res.UserID != userID))
	return nil
}

func (s *ReservationService) CheckIn(ctx context.Context, id, userID string, isAdmin bool) (*models.Reservation, error) {
	res, err := s.getOwned(ctx, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	if res.CheckInTime != nil {
		return nil, ErrAlreadyCheckedIn
	}
	if res.Status != models.ReservationConfirmed {
		return nil, ErrInvalidStatus
	}

	now := s.now()
	if !isAdmin && now.Before(res.StartTime.Add(-CheckInWindow)) {
		return nil, ErrTooEarly
	}

	ok, err := s.repo.Reservation.Transition(ctx, res.ID,
		[]string{models.ReservationConfirmed},
		map[string]interface{}{
			"status":        models.ReservationCheckedIn,
			"check_in_time": now,
		})
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against the missed-check-in sweep.
		return nil, ErrInvalidStatus
	}

	if err := s.setRoomStatus(ctx, &res.Room, models.RoomOccupied); err != nil {
		return nil, err
	}

	res.Status = models.ReservationCheckedIn
	res.CheckInTime = &now
	s.logger.Info("reservation checked in",
		zap.String("reservation_id", res.ID),
		zap.String("room_id", res.RoomID))
	return res, nil
}

func (s *ReservationService) CheckOut(ctx context.Context, id, userID string, isAdmin bool) (*models.Reservation, error) {
	res, err := s.getOwned(ctx, id, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	if res.CheckInTime == nil {
		return nil, ErrNotCheckedIn
	}

	now := s.now()
	ok, err := s.repo.Reservation.Transition(ctx, res.ID,
		[]string{models.ReservationCheckedIn},
		map[string]interface{}{
			"status":         models.ReservationCompleted,
			"check_out_time": now,
		})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidStatus
	}

	if err := s.setRoomStatus(ctx, &res.Room, models.RoomAvailable); err != nil {
		return nil, err
	}

	res.Status = models.ReservationCompleted
	res.CheckOutTime = &now
	s.logger.Info("reservation checked out",
		zap.String("reservation_id", res.ID),
		zap.String("room_id", res.RoomID))
	return res, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id, userID string, isAdmin bool) (*models.Reservation, error) {
	return s.getOwned(ctx, id, userID, isAdmin)
}

func (s *ReservationService) GetUserReservations(ctx context.Context, userID, status string) ([]models.Reservation, error) {
	return s.repo.Reservation.ListByUser(ctx, userID, status)
}

func (s *ReservationService) GetAllReservations(ctx context.Context, f repository.ReservationFilter) ([]models.Reservation, error) {
	return s.repo.Reservation.List(ctx, f)
}

// SweepMissedCheckIns cancels confirmed reservations whose start time passed
// more than MissedCheckInGrace ago without a check-in. Rooms left occupied
// are reset to available. Returns how many reservations were cancelled.
func (s *ReservationService) SweepMissedCheckIns(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-MissedCheckInGrace)
	missed, err := s.repo.Reservation.FindMissedCheckIns(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	var count int64
	for i := range missed {
		res := &missed[i]
		ok, err := s.repo.Reservation.Transition(ctx, res.ID,
			[]string{models.ReservationConfirmed},
			map[string]interface{}{
				"status": models.ReservationCancelled,
				"notes":  appendNote(res.Notes, "auto-cancelled: no check-in within 30 minutes of start time"),
			})
		if err != nil {
			return count, err
		}
		if !ok {
			continue
		}
		if res.Room.Status == models.RoomOccupied {
			if err := s.setRoomStatus(ctx, &res.Room, models.RoomAvailable); err != nil {
				return count, err
			}
		}
		count++
		s.logger.Info("auto-cancelled missed check-in",
			zap.String("reservation_id", res.ID),
			zap.String("room_id", res.RoomID))
	}
	return count, nil
}

// SweepOverdueCheckouts completes checked-in reservations whose end time has
// passed, stamps the check-out time and frees the room. Returns how many
// reservations were completed.
func (s *ReservationService) SweepOverdueCheckouts(ctx context.Context) (int64, error) {
	now := s.now()
	overdue, err := s.repo.Reservation.FindOverdueCheckedIn(ctx, now)
	if err != nil {
		return 0, err
	}

	var count int64
	for i := range overdue {
		res := &overdue[i]
		ok, err := s.repo.Reservation.Transition(ctx, res.ID,
			[]string{models.ReservationCheckedIn},
			map[string]interface{}{
				"status":         models.ReservationCompleted,
				"check_out_time": now,
				"notes":          appendNote(res.Notes, "auto-checkout: reservation end time passed"),
			})
		if err != nil {
			return count, err
		}
		if !ok {
			continue
		}
		if err := s.setRoomStatus(ctx, &res.Room, models.RoomAvailable); err != nil {
			return count, err
		}
		count++
		s.logger.Info("auto-checked-out overdue reservation",
			zap.String("reservation_id", res.ID),
			zap.String("room_id", res.RoomID))
	}
	return count, nil
}

func (s *ReservationService) getOwned(ctx context.Context, id, userID string, isAdmin bool) (*models.Reservation, error) {
	res, err := s.repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if res.UserID != userID && !isAdmin {
		return nil, ErrForbidden
	}
	return res, nil
}

func (s *ReservationService) setRoomStatus(ctx context.Context, room *models.Room, status string) error {
	if err := s.repo.Room.UpdateStatus(ctx, room.ID, status); err != nil {
		return err
	}
	room.Status = status
	if s.notifier != nil {
		s.notifier.NotifyRoomStatus(RoomStatusEvent{
			RoomID: room.ID,
			Name:   room.Name,
			Status: status,
			At:     s.now(),
		})
	}
	return nil
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}
