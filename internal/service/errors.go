package service

import "errors"

// Domain errors raised by the booking rules. Controllers map these to HTTP
// statuses; the services themselves never touch transport concerns.
var (
	ErrInvalidTimeRange      = errors.New("start time must be before end time")
	ErrDurationTooShort      = errors.New("reservation must last at least 30 minutes")
	ErrRoomNotFound          = errors.New("room not found")
	ErrRoomUnavailable       = errors.New("room is not available for booking")
	ErrRoomAlreadyBooked     = errors.New("room is already booked for this time")
	ErrCapacityExceeded      = errors.New("participants exceed room capacity")
	ErrNotFound              = errors.New("reservation not found")
	ErrForbidden             = errors.New("operation not allowed for this user")
	ErrAlreadyCheckedIn      = errors.New("reservation has already been checked in")
	ErrNotCheckedIn          = errors.New("reservation has not been checked in")
	ErrTooEarly              = errors.New("check-in opens 15 minutes before the start time")
	ErrInvalidStatus         = errors.New("invalid status for this operation")
	ErrNameConflict          = errors.New("room name already exists")
	ErrHasActiveReservations = errors.New("room has active reservations")
	ErrInvalidEquipment      = errors.New("equipment quantities must not be negative")
)
