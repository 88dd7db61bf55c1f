package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/ecuworks/tunehub/api/v1"
	"github.com/ecuworks/tunehub/internal/handlers/validator"
	"github.com/ecuworks/tunehub/internal/service"
	"github.com/ecuworks/tunehub/internal/store"
)

// ServiceHandler exposes the job lifecycle, message thread and problem
// report operations over HTTP.
type ServiceHandler struct {
	store      store.Store
	jobSrv     *service.JobService
	messageSrv *service.MessageService
	reportSrv  *service.ReportService
}

func NewServiceHandler(s store.Store, jobSrv *service.JobService, messageSrv *service.MessageService, reportSrv *service.ReportService) *ServiceHandler {
	return &ServiceHandler{
		store:      s,
		jobSrv:     jobSrv,
		messageSrv: messageSrv,
		reportSrv:  reportSrv,
	}
}

// Routes mounts every v1 endpoint on the router.
func (h *ServiceHandler) Routes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.ListJobs)
		r.Post("/", h.CreateJob)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetJob)
			r.Put("/", h.UpdateJob)
			r.Post("/complete", h.CompleteJob)
			r.Post("/cancel", h.CancelJob)
			r.Put("/operator-message", h.SetOperatorMessage)
			r.Get("/messages", h.ListMessages)
			r.Post("/messages", h.PostMessage)
			r.Get("/problems", h.ListProblems)
			r.Post("/problems", h.FileProblem)
			r.Post("/problems/resolve", h.ResolveProblem)
		})
	})
}

func jobID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// decodeForm decodes the request body into form and runs the wire-level
// validation rules on it. On failure it renders the 400 itself and reports
// false.
func decodeForm(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := render.DecodeJSON(r.Body, form); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: "malformed request body"})
		return false
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(form); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error{Message: err.Error()})
		return false
	}

	return true
}

// renderServiceError maps the domain error taxonomy to HTTP statuses. Only
// unknown errors are logged as faults; the domain errors are expected,
// recoverable-by-caller conditions.
func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var status int

	switch e := err.(type) {
	case *service.ErrResourceNotFound:
		status = http.StatusNotFound
	case *service.ErrForbidden:
		status = http.StatusForbidden
	case *service.ErrValidation:
		status = http.StatusBadRequest
	case *service.ErrImmutableState, *service.ErrInvalidTransition,
		*service.ErrJobNotCompleted, *service.ErrNoOpenReport:
		status = http.StatusConflict
	case *service.ErrReportAlreadyOpen:
		// route the caller back to the report that is already open
		render.Status(r, http.StatusConflict)
		if e.Report != nil {
			render.JSON(w, r, ReportToApi(*e.Report))
			return
		}
		render.JSON(w, r, api.Error{Message: err.Error()})
		return
	default:
		zap.S().Named("handlers").Errorw("request failed", "error", err, "path", r.URL.Path)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.Error{Message: "internal error"})
		return
	}

	render.Status(r, status)
	render.JSON(w, r, api.Error{Message: err.Error()})
}
