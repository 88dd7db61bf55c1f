package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = 4096
	sendBuffer   = 64
)

// subscribeFrame is the control frame a client sends to join or leave a room.
type subscribeFrame struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

// JoinAuthorizer decides whether the session's user may join a room. An
// ineligible join is silently ignored.
type JoinAuthorizer func(userID uuid.UUID, room string) bool

// Session is one websocket connection of an authenticated user. A session
// belongs to exactly one identity but may join multiple job rooms over its
// lifetime.
type Session struct {
	userID    uuid.UUID
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func NewSession(conn *websocket.Conn, userID uuid.UUID) *Session {
	return &Session{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

func (s *Session) UserID() uuid.UUID {
	return s.userID
}

// ReadPump consumes join/leave frames until the connection drops, then
// unregisters the session from the hub.
func (s *Session) ReadPump(h *Hub, canJoin JoinAuthorizer) {
	defer h.Unregister(s)

	s.conn.SetReadLimit(maxFrameSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.S().Named("hub").Debugw("websocket closed unexpectedly", "error", err)
			}
			return
		}

		var frame subscribeFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}

		switch frame.Action {
		case "join":
			if canJoin != nil && !canJoin(s.userID, frame.Room) {
				continue
			}
			h.Join(s, frame.Room)
		case "leave":
			h.Leave(s, frame.Room)
		}
	}
}

// WritePump pushes queued frames to the connection and keeps it alive with
// pings. Frames arrive in the order the hub enqueued them.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.send)
	})
}
