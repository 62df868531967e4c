package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoomAvailable   = "available"
	RoomOccupied    = "occupied"
	RoomMaintenance = "maintenance"
)

const (
	RoomTypeIndividual = "individual"
	RoomTypeGroup      = "group"
	RoomTypeMentoring  = "mentoring"
)

type Room struct {
	ID       string `json:"id" gorm:"type:uuid;primaryKey"`
	Name     string `json:"name" gorm:"uniqueIndex"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	Status   string `json:"status" gorm:"default:available"`
	RoomType string `json:"room_type" gorm:"default:individual"`
	// Equipment maps an equipment name to the quantity present in the room.
	// The set of names is open-ended; technicians stock whatever they need.
	Equipment datatypes.JSONMap `json:"equipment" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func IsValidRoomStatus(s string) bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance:
		return true
	}
	return false
}

func IsValidRoomType(s string) bool {
	switch s {
	case RoomTypeIndividual, RoomTypeGroup, RoomTypeMentoring:
		return true
	}
	return false
}
