package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/roombook_backend/internal/repository"
	"github.com/opencampus/roombook_backend/internal/service"
)

type RoomController struct {
	Rooms *service.RoomService
}

type createRoomRequest struct {
	Name      string         `json:"name" binding:"required"`
	Capacity  int            `json:"capacity" binding:"required,gt=0"`
	Location  string         `json:"location"`
	RoomType  string         `json:"room_type"`
	Equipment map[string]int `json:"equipment"`
}

type updateRoomRequest struct {
	Name     *string `json:"name"`
	Capacity *int    `json:"capacity" binding:"omitempty,gt=0"`
	Location *string `json:"location"`
	RoomType *string `json:"room_type"`
}

type updateRoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type updateEquipmentRequest struct {
	Equipment map[string]int `json:"equipment" binding:"required"`
}

func (rc *RoomController) ListRooms(c *gin.Context) {
	f := repository.RoomFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Status:   strings.TrimSpace(c.Query("status")),
		RoomType: strings.TrimSpace(c.Query("type")),
		All:      strings.EqualFold(c.Query("all"), "true") || c.Query("all") == "1",
		Limit:    20,
		Page:     1,
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Page = n
		}
	}
	if v := c.Query("min_capacity"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.MinCapacity = n
		}
	}

	rooms, total, err := rc.Rooms.ListRooms(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	meta := gin.H{"total": total, "all": f.All}
	if !f.All {
		meta["limit"] = f.Limit
		meta["page"] = f.Page
	}
	c.JSON(http.StatusOK, gin.H{"data": rooms, "meta": meta})
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	room, err := rc.Rooms.GetRoom(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// FindAvailable answers "which rooms are free for this window".
// start and end are RFC3339 timestamps.
func (rc *RoomController) FindAvailable(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start time"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end time"})
		return
	}
	minCapacity := 0
	if v := c.Query("min_capacity"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			minCapacity = n
		}
	}

	rooms, err := rc.Rooms.FindAvailableRooms(c.Request.Context(), start, end, minCapacity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rooms})
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := rc.Rooms.CreateRoom(c.Request.Context(), service.CreateRoomInput{
		Name:      req.Name,
		Capacity:  req.Capacity,
		Location:  req.Location,
		RoomType:  req.RoomType,
		Equipment: req.Equipment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := rc.Rooms.UpdateRoom(c.Request.Context(), id, service.UpdateRoomInput{
		Name:     req.Name,
		Capacity: req.Capacity,
		Location: req.Location,
		RoomType: req.RoomType,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var req updateRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := rc.Rooms.UpdateRoomStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) UpdateEquipment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var req updateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := rc.Rooms.UpdateEquipment(c.Request.Context(), id, req.Equipment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := rc.Rooms.DeleteRoom(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
