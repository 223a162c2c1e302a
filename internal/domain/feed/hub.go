package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// Event is pushed to every feed connection of a vendor.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

type client struct {
	vendorID int64
	conn     *websocket.Conn
	send     chan []byte
}

// Hub fans booking events out to connected vendor dashboards.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*client]struct{}
	log     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{clients: make(map[int64]map[*client]struct{}), log: log}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.vendorID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.vendorID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.vendorID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.vendorID)
	}
}

// Connections counts open feeds of a vendor.
func (h *Hub) Connections(vendorID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[vendorID])
}

// Publish never blocks: a client whose buffer is full misses the event.
func (h *Hub) Publish(vendorID int64, eventType string, data any) {
	msg, err := json.Marshal(Event{Type: eventType, At: time.Now().UTC(), Data: data})
	if err != nil {
		h.log.WithError(err).WithField("event", eventType).Warn("feed event not encodable")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[vendorID] {
		select {
		case c.send <- msg:
		default:
			h.log.WithField("vendor_id", vendorID).Debug("feed client too slow, event skipped")
		}
	}
}

// serve runs the connection until the peer goes away.
func (h *Hub) serve(conn *websocket.Conn, vendorID int64) {
	c := &client{vendorID: vendorID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	h.log.WithField("vendor_id", vendorID).Info("feed connected")

	go h.writePump(c)
	h.readPump(c)
}

// readPump only exists to answer pongs and notice disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.log.WithField("vendor_id", c.vendorID).Info("feed disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).WithField("vendor_id", c.vendorID).Debug("feed read failed")
			}
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
