package service

import "time"

// RoomStatusEvent describes a room status flip pushed to live subscribers.
type RoomStatusEvent struct {
	RoomID string    `json:"room_id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// RoomStatusNotifier receives room status changes. Implementations must not
// block; the services call it inline on the request path.
type RoomStatusNotifier interface {
	NotifyRoomStatus(event RoomStatusEvent)
}
