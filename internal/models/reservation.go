package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCheckedIn = "checked_in"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

// BlockingStatuses are the reservation states that occupy a room for the
// purposes of conflict checks, availability queries and the deletion guard.
var BlockingStatuses = []string{ReservationConfirmed, ReservationCheckedIn}

type Reservation struct {
	ID                string     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            string     `json:"user_id" gorm:"type:uuid;index"`
	RoomID            string     `json:"room_id" gorm:"type:uuid;index"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	Status            string     `json:"status" gorm:"default:pending;index"`
	Purpose           string     `json:"purpose"`
	Notes             string     `json:"notes" gorm:"type:text"`
	ParticipantsCount int        `json:"participants_count" gorm:"default:1"`
	CheckInTime       *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime      *time.Time `json:"check_out_time,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Room Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// OverlapsWindow reports whether the reservation's interval intersects
// [start, end). Intervals are half-open, so a reservation ending exactly
// when the window starts does not overlap it.
func (r *Reservation) OverlapsWindow(start, end time.Time) bool {
	return r.StartTime.Before(end) && r.EndTime.After(start)
}

// IsTerminal reports whether the reservation has reached a final state.
func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationCancelled || r.Status == ReservationCompleted
}

// Blocks reports whether the reservation holds its room against other
// bookings.
func (r *Reservation) Blocks() bool {
	return r.Status == ReservationConfirmed || r.Status == ReservationCheckedIn
}
