package v1

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/ecuworks/tunehub/api/v1"
	"github.com/ecuworks/tunehub/internal/auth"
	"github.com/ecuworks/tunehub/internal/service/mappers"
)

// (POST /api/v1/jobs)
func (h *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var form api.JobCreate
	if !decodeForm(w, r, &form) {
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := h.jobSrv.CreateJob(r.Context(), user, mappers.JobCreateForm{
		OriginalFile: form.OriginalFile,
		StoredFile:   form.StoredFile,
		Notes:        form.Notes,
		Options:      optionsFromApi(form.Options),
		Vehicle:      vehicleFromApi(form.Vehicle),
	})
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, JobToApi(*job))
}

// (GET /api/v1/jobs)
func (h *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobs, err := h.jobSrv.ListJobs(r.Context(), user)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, JobListToApi(jobs))
}

// (GET /api/v1/jobs/{id})
func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := h.jobSrv.GetJob(r.Context(), user, id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, JobToApi(*job))
}

// (PUT /api/v1/jobs/{id})
func (h *ServiceHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	var form api.JobUpdate
	if !decodeForm(w, r, &form) {
		return
	}

	update := mappers.JobUpdateForm{Notes: form.Notes}
	if form.Options != nil {
		opts := optionsFromApi(*form.Options)
		update.Options = &opts
	}
	if form.Vehicle != nil {
		vehicle := vehicleFromApi(*form.Vehicle)
		update.Vehicle = &vehicle
	}

	user := auth.MustHaveUser(r.Context())
	job, err := h.jobSrv.UpdateJob(r.Context(), user, id, update)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, JobToApi(*job))
}

// (POST /api/v1/jobs/{id}/complete)
func (h *ServiceHandler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	var form api.JobComplete
	if !decodeForm(w, r, &form) {
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := h.jobSrv.CompleteJob(r.Context(), user, id, form.ProcessedFile)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, JobToApi(*job))
}

// (POST /api/v1/jobs/{id}/cancel)
func (h *ServiceHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := h.jobSrv.CancelJob(r.Context(), user, id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, JobToApi(*job))
}

// (PUT /api/v1/jobs/{id}/operator-message)
func (h *ServiceHandler) SetOperatorMessage(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	var form api.OperatorMessage
	if !decodeForm(w, r, &form) {
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := h.jobSrv.SetOperatorMessage(r.Context(), user, id, form.Message)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, JobToApi(*job))
}
