// Package live streams storefront events to admin dashboards over
// WebSockets: new orders as they are placed and status changes as operators
// work the queue.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"zaika/middleware"
	"zaika/models"
	"zaika/utils"
)

type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	quit       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.Send <- data:
				default:
					close(c.Send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			return
		}
	}
}

// Stop shuts the hub down and releases every connected client. Closing the
// Send channels lets the write pumps drain and exit.
func (h *Hub) Stop() {
	close(h.quit)
	h.mu.Lock()
	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
	h.mu.Unlock()
}

// drop unregisters a client, giving up if the hub has already stopped.
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// event is what the dashboard receives.
type event struct {
	Type      string  `json:"type"` // "order_created", "order_status"
	OrderID   string  `json:"orderId"`
	Status    string  `json:"status,omitempty"`
	Total     float64 `json:"total,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

func (h *Hub) BroadcastOrderCreated(order models.Order) {
	h.send(event{
		Type:      "order_created",
		OrderID:   order.OrderID,
		Status:    order.Status,
		Total:     order.Total,
		Timestamp: time.Now().Unix(),
	})
}

func (h *Hub) BroadcastStatusChanged(orderID, status string) {
	h.send(event{
		Type:      "order_status",
		OrderID:   orderID,
		Status:    status,
		Timestamp: time.Now().Unix(),
	})
}

func (h *Hub) send(e event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Println("live marshal:", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Println("live: broadcast channel full, dropping event")
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// OrderFeed upgrades an admin dashboard connection. Browsers cannot set an
// Authorization header on WebSocket requests, so the token rides in the
// query string.
func OrderFeed(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		claims, err := middleware.ValidateJWT("Bearer " + r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !utils.Contains(claims.Role, "admin") {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			UserID: claims.UserID,
		}
		select {
		case hub.register <- client:
		case <-hub.quit:
			conn.Close()
			return
		}

		go writePump(client)
		go readPump(hub, client)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for data := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// readPump drains control frames and unregisters on disconnect.
func readPump(hub *Hub, c *Client) {
	defer func() {
		hub.drop(c)
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
