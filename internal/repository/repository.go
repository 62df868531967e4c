package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrConflict is returned by the booking paths when another blocking
// reservation already covers the requested window.
var ErrConflict = errors.New("reservation conflicts with an existing booking")

type Repository struct {
	Room        RoomRepository
	Reservation ReservationRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Room:        NewRoomRepository(db),
		Reservation: NewReservationRepository(db),
	}
}
