package rtc

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// pingInterval/pongWait implement the 5s/10s heartbeat of spec §6.1.
	pingInterval = 5 * time.Second
	pongWait     = 10 * time.Second
	writeWait    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is a single WebSocket connection. It implements Conn so the RTC
// core's broadcasters can address it directly by socket id.
type Client struct {
	socketID string
	conn     *websocket.Conn
	send     chan WSMessage
	logger   *zap.Logger
	core     *Core
	limiter  RateLimiter

	mu    sync.Mutex
	rooms map[string]struct{}
}

// RateLimiter throttles inbound wire events per socket (SPEC_FULL
// "supplemented features"). Allow reports whether the event may proceed.
type RateLimiter interface {
	Allow(socketID string) bool
}

func (c *Client) SocketID() string { return c.socketID }

func (c *Client) Send(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := WSMessage{Event: event, Data: data}
	select {
	case c.send <- msg:
	default:
		// buffer full: drop rather than block the room's critical section
	}
}

func (c *Client) Close() {
	_ = c.conn.Close()
}

func (c *Client) rememberRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[roomID] = struct{}{}
}

func (c *Client) forgetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, roomID)
}

func (c *Client) joinedRooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.rooms))
	for roomID := range c.rooms {
		out = append(out, roomID)
	}
	return out
}

// ServeWs upgrades the HTTP connection and runs the client's read/write
// pumps. Identity (User.role) is trusted from the join_room payload itself
// per spec §1 — this handler performs no auth of its own.
func ServeWs(core *Core, logger *zap.Logger, limiter RateLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			socketID: uuid.New().String(),
			conn:     conn,
			send:     make(chan WSMessage, 256),
			logger:   logger,
			core:     core,
			limiter:  limiter,
			rooms:    make(map[string]struct{}),
		}
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.core.HandleDisconnect(c.socketID, c.joinedRooms())
		close(c.send)
	}()

	c.conn.SetReadLimit(65536)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if c.limiter != nil && !c.limiter.Allow(c.socketID) {
			c.Send(EventError, errorPayload{Message: "rate limit exceeded"})
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
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
