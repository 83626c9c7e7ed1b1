package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// alertInterval is how often expiry alerts are pushed to a connected client.
const alertInterval = 30 * time.Second

// alertConn maintains one expiry-alert WebSocket connection
type alertConn struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	owner  string
	server *Server
}

// StreamAlerts upgrades the connection and pushes the owner's expiry alerts
// periodically until the client disconnects.
func (s *Server) StreamAlerts(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner query parameter required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	ac := &alertConn{
		conn:   conn,
		send:   make(chan []byte, 16),
		done:   make(chan struct{}),
		owner:  owner,
		server: s,
	}

	go ac.writePump()
	go ac.pushAlerts()
	ac.readPump()
}

// readPump drains client messages until the connection closes, then signals
// the other pumps to stop
func (c *alertConn) readPump() {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

// writePump pumps queued messages to the client and keeps the connection alive
func (c *alertConn) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// pushAlerts fetches and queues the owner's expiry alerts on an interval
func (c *alertConn) pushAlerts() {
	ticker := time.NewTicker(alertInterval)
	defer ticker.Stop()

	c.queueAlerts()
	for {
		select {
		case <-ticker.C:
			c.queueAlerts()
		case <-c.done:
			return
		}
	}
}

func (c *alertConn) queueAlerts() {
	alerts, err := c.server.Inventory.ExpiryAlerts(c.owner)
	if err != nil {
		log.Printf("Failed to load expiry alerts for %s: %v", c.owner, err)
		return
	}

	data, err := json.Marshal(alerts)
	if err != nil {
		log.Printf("Failed to marshal alerts: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Println("WebSocket buffer full, dropping alerts")
	}
}
