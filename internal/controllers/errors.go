package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/roombook_backend/internal/service"
)

// respondServiceError translates a domain error into an HTTP response.
// Unknown errors become a generic 500.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrDurationTooShort),
		errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrInvalidEquipment):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrRoomAlreadyBooked),
		errors.Is(err, service.ErrRoomUnavailable),
		errors.Is(err, service.ErrNameConflict),
		errors.Is(err, service.ErrHasActiveReservations),
		errors.Is(err, service.ErrAlreadyCheckedIn),
		errors.Is(err, service.ErrNotCheckedIn),
		errors.Is(err, service.ErrTooEarly),
		errors.Is(err, service.ErrInvalidStatus):
		status, msg = http.StatusConflict, err.Error()
	}

	c.JSON(status, gin.H{"error": msg})
}
