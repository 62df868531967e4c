package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/roombook_backend/internal/models"
	"github.com/opencampus/roombook_backend/internal/repository"
	"github.com/opencampus/roombook_backend/internal/service"
)

type ReservationController struct {
	Reservations *service.ReservationService
}

type createReservationRequest struct {
	RoomID            string    `json:"room_id" binding:"required"`
	StartTime         time.Time `json:"start_time" binding:"required"`
	EndTime           time.Time `json:"end_time" binding:"required"`
	Purpose           string    `json:"purpose"`
	ParticipantsCount int       `json:"participants_count" binding:"omitempty,gt=0"`
}

type updateReservationRequest struct {
	RoomID            *string    `json:"room_id"`
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	Purpose           *string    `json:"purpose"`
	Notes             *string    `json:"notes"`
	ParticipantsCount *int       `json:"participants_count" binding:"omitempty,gt=0"`
}

func currentUser(c *gin.Context) models.User {
	uVal, _ := c.Get("user")
	user, _ := uVal.(models.User)
	return user
}

func (rc *ReservationController) Create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := currentUser(c)

	res, err := rc.Reservations.CreateReservation(c.Request.Context(), service.CreateReservationInput{
		UserID:            user.ID,
		RoomID:            req.RoomID,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Purpose:           req.Purpose,
		ParticipantsCount: req.ParticipantsCount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListMine returns the caller's reservations, optionally filtered by status,
// ordered by start time.
func (rc *ReservationController) ListMine(c *gin.Context) {
	user := currentUser(c)
	status := strings.TrimSpace(c.Query("status"))

	reservations, err := rc.Reservations.GetUserReservations(c.Request.Context(), user.ID, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reservations})
}

func (rc *ReservationController) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	user := currentUser(c)

	res, err := rc.Reservations.GetReservation(c.Request.Context(), id, user.ID, user.IsAdmin())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (rc *ReservationController) Update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := currentUser(c)

	res, err := rc.Reservations.UpdateReservation(c.Request.Context(), id, user.ID, service.UpdateReservationInput{
		RoomID:            req.RoomID,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Purpose:           req.Purpose,
		Notes:             req.Notes,
		ParticipantsCount: req.ParticipantsCount,
	}, user.IsAdmin())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (rc *ReservationController) Cancel(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	user := currentUser(c)

	if err := rc.Reservations.CancelReservation(c.Request.Context(), id, user.ID, user.IsAdmin()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cancelled"})
}

func (rc *ReservationController) CheckIn(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	user := currentUser(c)

	res, err := rc.Reservations.CheckIn(c.Request.Context(), id, user.ID, user.IsAdmin())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (rc *ReservationController) CheckOut(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	user := currentUser(c)

	res, err := rc.Reservations.CheckOut(c.Request.Context(), id, user.ID, user.IsAdmin())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListAll is the admin view over every reservation with optional filters.
func (rc *ReservationController) ListAll(c *gin.Context) {
	f := repository.ReservationFilter{
		UserID: strings.TrimSpace(c.Query("user_id")),
		RoomID: strings.TrimSpace(c.Query("room_id")),
		Status: strings.TrimSpace(c.Query("status")),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from time"})
			return
		}
		f.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to time"})
			return
		}
		f.To = &t
	}

	reservations, err := rc.Reservations.GetAllReservations(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reservations})
}
