package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ecuworks/tunehub/internal/auth"
	"github.com/ecuworks/tunehub/internal/hub"
	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/internal/store/model"
)

// SocketHandler upgrades authenticated connections and lets them subscribe
// to event rooms.
type SocketHandler struct {
	hub      *hub.Hub
	store    store.Store
	upgrader websocket.Upgrader
}

func NewSocketHandler(h *hub.Hub, s store.Store) *SocketHandler {
	return &SocketHandler{
		hub:   h,
		store: s,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// (GET /api/v1/ws)
func (h *SocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	// the authenticator middleware runs first; no user means no upgrade
	user, found := auth.UserFromContext(r.Context())
	if !found {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Named("ws").Debugw("websocket upgrade failed", "error", err)
		return
	}

	session := hub.NewSession(conn, user.ID)
	go session.WritePump()
	session.ReadPump(h.hub, h.canJoin)
}

// canJoin checks room membership eligibility against current state: the
// operator room requires the operator role, a job room requires ownership
// or the operator role. An ineligible join is silently ignored upstream.
func (h *SocketHandler) canJoin(userID uuid.UUID, room string) bool {
	user, err := h.store.User().Get(context.Background(), userID)
	if err != nil {
		return false
	}
	if user.Role == model.RoleOperator {
		return true
	}

	jobIDRaw, found := strings.CutPrefix(room, "job:")
	if !found {
		return false
	}

	jobID, err := uuid.Parse(jobIDRaw)
	if err != nil {
		return false
	}

	job, err := h.store.Job().Get(context.Background(), jobID)
	if err != nil {
		return false
	}

	return job.OwnerID == user.ID
}
