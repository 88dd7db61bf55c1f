package v1

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/ecuworks/tunehub/api/v1"
	"github.com/ecuworks/tunehub/internal/auth"
)

// (GET /api/v1/jobs/{id}/messages)
func (h *ServiceHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	user := auth.MustHaveUser(r.Context())
	messages, err := h.messageSrv.List(r.Context(), user, id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, MessageListToApi(messages))
}

// (POST /api/v1/jobs/{id}/messages)
func (h *ServiceHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	var form api.MessageCreate
	if !decodeForm(w, r, &form) {
		return
	}

	user := auth.MustHaveUser(r.Context())
	message, err := h.messageSrv.Post(r.Context(), user, id, form.Body)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, MessageToApi(*message))
}
