package events

import (
	"encoding/json"
	"sync"
	"time"

	"mavina/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

const TypeStatusChanged = "appointment.status_changed"

// StatusChanged is pushed to both the customer and the provider of an appointment.
type StatusChanged struct {
	Type           string                   `json:"type"`
	AppointmentID  int64                    `json:"appointment_id"`
	Status         domain.AppointmentStatus `json:"status"`
	StatusLabel    string                   `json:"status_label"`
	PreviousStatus domain.AppointmentStatus `json:"previous_status,omitempty"`
	Date           string                   `json:"date"`
	Time           string                   `json:"time"`
	Reason         string                   `json:"reason,omitempty"`
	OccurredAt     time.Time                `json:"occurred_at"`
}

type client struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub keeps one live connection per user.
type Hub struct {
	clients map[int64]*client
	mutex   sync.RWMutex
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[int64]*client),
		log:     log.Named("events"),
	}
}

// Serve registers conn for userID and blocks until the connection drops.
// A newer connection of the same user replaces the older one.
func (h *Hub) Serve(userID int64, conn *websocket.Conn) {
	c := &client{userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	if old, exists := h.clients[userID]; exists {
		close(old.send)
	}
	h.clients[userID] = c
	h.mutex.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cur, exists := h.clients[c.userID]; exists && cur == c {
		close(c.send)
		delete(h.clients, c.userID)
	}
}

// readPump only services control frames; clients do not send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	payload, err := json.Marshal(message)
	if err != nil {
		h.log.Error("marshal event", zap.Error(err))
		return false
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	c, exists := h.clients[userID]
	if !exists {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		// slow consumer
		close(c.send)
		delete(h.clients, userID)
		return false
	}
}

// PublishStatusChange notifies both counterparties of a.
func (h *Hub) PublishStatusChange(a *domain.Appointment, previous domain.AppointmentStatus) {
	ev := StatusChanged{
		Type:           TypeStatusChanged,
		AppointmentID:  a.ID,
		Status:         a.Status,
		StatusLabel:    a.Status.Label(),
		PreviousStatus: previous,
		Date:           a.SlotDate,
		Time:           a.SlotTime,
		Reason:         a.CancellationReason,
		OccurredAt:     time.Now().UTC(),
	}
	_ = h.SendToUser(a.CustomerID, ev)
	_ = h.SendToUser(a.ProviderUserID, ev)
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

func (h *Hub) GetOnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.clients {
		close(c.send)
		delete(h.clients, userID)
	}
}
