// Package hub delivers lifecycle, message and problem events to currently
// connected sessions. Delivery is at-most-once with no persistence: an event
// emitted into an empty room is dropped, and a reconnecting client is
// expected to reconcile through the synchronous read APIs.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ecuworks/tunehub/internal/store/model"
)

// RoleLookup returns the current role of a user. The hub calls it on every
// operator-room emission instead of caching the role at join time, so a
// role downgrade takes effect on the next event.
type RoleLookup func(userID uuid.UUID) (model.UserRole, bool)

// Hub owns the room membership registry. It is created at process start and
// injected into the connection handlers; join and leave are driven by the
// owning session's handler, emission by the service layer.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}

	roleLookup RoleLookup
}

func New(roleLookup RoleLookup) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Session]struct{}),
		roleLookup: roleLookup,
	}
}

// Join adds the session to a room. Eligibility is the caller's concern: the
// connection handler verifies authentication and job-room membership before
// calling Join.
func (h *Hub) Join(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}
}

func (h *Hub) Leave(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(s, room)
}

// Unregister removes the session from every room. Called on disconnect; it
// has no other side effects.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	for room := range h.rooms {
		h.removeLocked(s, room)
	}
	h.mu.Unlock()

	s.close()
}

func (h *Hub) removeLocked(s *Session, room string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Broadcast delivers the event to every session currently in the room.
// Delivery is fire and forget: a session whose send buffer is full has the
// frame dropped. The exclusive lock serializes concurrent broadcasts, so
// every session in a room observes the same event order.
func (h *Hub) Broadcast(room string, e Event) {
	frame, err := json.Marshal(e)
	if err != nil {
		zap.S().Named("hub").Errorw("failed to encode event", "error", err, "event_type", e.Type)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.rooms[room] {
		if room == OperatorRoom && !h.isOperator(s) {
			continue
		}
		select {
		case s.send <- frame:
		default:
			zap.S().Named("hub").Debugw("dropping event for slow session", "room", room, "event_type", e.Type)
		}
	}
}

// RoomSize reports the current number of sessions in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) isOperator(s *Session) bool {
	if h.roleLookup == nil {
		return true
	}
	role, ok := h.roleLookup(s.userID)
	return ok && role == model.RoleOperator
}
