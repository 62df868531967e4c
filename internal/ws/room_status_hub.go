package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opencampus/roombook_backend/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// RoomStatusHub pushes room status changes to connected dashboards.
type RoomStatusHub struct {
	register   chan *roomStatusClient
	unregister chan *roomStatusClient
	broadcast  chan []byte
	clients    map[*roomStatusClient]struct{}
}

func NewRoomStatusHub() *RoomStatusHub {
	return &RoomStatusHub{
		register:   make(chan *roomStatusClient),
		unregister: make(chan *roomStatusClient),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*roomStatusClient]struct{}),
	}
}

func (h *RoomStatusHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.conn.Close()
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					delete(h.clients, client)
					close(client.send)
					client.conn.Close()
				}
			}
		}
	}
}

// NotifyRoomStatus satisfies service.RoomStatusNotifier.
func (h *RoomStatusHub) NotifyRoomStatus(event service.RoomStatusEvent) {
	if h == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: failed to marshal room status event: %v", err)
		return
	}
	h.broadcast <- data
}

type roomStatusClient struct {
	hub  *RoomStatusHub
	conn *websocket.Conn
	send chan []byte
}

func newRoomStatusClient(hub *RoomStatusHub, conn *websocket.Conn) *roomStatusClient {
	return &roomStatusClient{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

func (c *roomStatusClient) readPump() {
	defer func() {
		c.hub.unregister <- c
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *roomStatusClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
