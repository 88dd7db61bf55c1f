package v1

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/ecuworks/tunehub/api/v1"
	"github.com/ecuworks/tunehub/internal/auth"
)

// (GET /api/v1/jobs/{id}/problems)
func (h *ServiceHandler) ListProblems(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	user := auth.MustHaveUser(r.Context())
	reports, err := h.reportSrv.ListReports(r.Context(), user, id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, ReportListToApi(reports))
}

// (POST /api/v1/jobs/{id}/problems)
func (h *ServiceHandler) FileProblem(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	var form api.ProblemReportCreate
	if !decodeForm(w, r, &form) {
		return
	}

	user := auth.MustHaveUser(r.Context())
	report, err := h.reportSrv.FileProblem(r.Context(), user, id, form.Description)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ReportToApi(*report))
}

// (POST /api/v1/jobs/{id}/problems/resolve)
func (h *ServiceHandler) ResolveProblem(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "invalid job id"})
		return
	}

	user := auth.MustHaveUser(r.Context())
	report, err := h.reportSrv.ResolveProblem(r.Context(), user, id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, ReportToApi(*report))
}
