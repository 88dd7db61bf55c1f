package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ecuworks/tunehub/internal/events"
	"github.com/ecuworks/tunehub/internal/hub"
	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/internal/store/model"
)

type ReportService struct {
	store       store.Store
	jobSrv      *JobService
	hub         *hub.Hub
	eventWriter *events.EventProducer
}

func NewReportService(store store.Store, jobSrv *JobService, h *hub.Hub, ew *events.EventProducer) *ReportService {
	return &ReportService{store: store, jobSrv: jobSrv, hub: h, eventWriter: ew}
}

// FileProblem opens a problem report against a completed job. Only the job
// owner may file, the job must be completed, and a second filing while a
// report is open routes the caller back to the existing report.
func (s *ReportService) FileProblem(ctx context.Context, user *model.User, jobID uuid.UUID, description string) (*model.ProblemReport, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, NewErrValidation("a problem description is required")
	}

	job, err := s.jobSrv.GetJob(ctx, user, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != user.ID {
		// filing is reserved to the owner, operators included
		return nil, NewErrForbidden(OpFileProblem)
	}
	if job.Status != model.JobStatusCompleted {
		return nil, NewErrJobNotCompleted(jobID)
	}

	if existing, err := s.store.ProblemReport().GetOpen(ctx, jobID); err == nil {
		return nil, NewErrReportAlreadyOpen(jobID, existing)
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	report, err := s.store.ProblemReport().Create(ctx, model.ProblemReport{
		JobID:       job.ID,
		ReporterID:  user.ID,
		Description: description,
	})
	if err != nil {
		if errors.Is(err, store.ErrReportAlreadyOpen) {
			// lost the race against a concurrent filing; surface the winner
			if existing, gerr := s.store.ProblemReport().GetOpen(ctx, jobID); gerr == nil {
				return nil, NewErrReportAlreadyOpen(jobID, existing)
			}
			return nil, NewErrReportAlreadyOpen(jobID, nil)
		}
		return nil, err
	}

	s.hub.Broadcast(hub.OperatorRoom, hub.Event{
		Type:  hub.EventProblemFiled,
		JobID: job.ID.String(),
		Payload: map[string]string{
			"report_id": report.ID.String(),
			"reporter":  report.Reporter.DisplayName,
			"filename":  job.OriginalFile,
		},
	})
	writeSink(ctx, s.eventWriter, events.ProblemFiledKind, events.ProblemEvent{
		JobID:               job.ID.String(),
		ReportID:            report.ID.String(),
		ReporterDisplayName: report.Reporter.DisplayName,
	})

	return report, nil
}

// ResolveProblem marks the job's open report as resolved. Resolved reports
// stay resolved; a new report may be filed afterwards.
func (s *ReportService) ResolveProblem(ctx context.Context, user *model.User, jobID uuid.UUID) (*model.ProblemReport, error) {
	if err := Authorize(user, OpResolveProblem, nil); err != nil {
		return nil, err
	}

	if _, err := s.store.Job().Get(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, err
	}

	report, err := s.store.ProblemReport().Resolve(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNoOpenReport) {
			return nil, NewErrNoOpenReport(jobID)
		}
		return nil, err
	}

	s.hub.Broadcast(hub.OperatorRoom, hub.Event{
		Type:  hub.EventProblemResolved,
		JobID: jobID.String(),
		Payload: map[string]string{
			"report_id": report.ID.String(),
		},
	})
	writeSink(ctx, s.eventWriter, events.ProblemResolvedKind, events.ProblemEvent{
		JobID:    jobID.String(),
		ReportID: report.ID.String(),
	})

	return report, nil
}

// ListReports returns the job's reports, newest first, under the same
// visibility rule as the job itself.
func (s *ReportService) ListReports(ctx context.Context, user *model.User, jobID uuid.UUID) (model.ProblemReportList, error) {
	job, err := s.jobSrv.GetJob(ctx, user, jobID)
	if err != nil {
		return nil, err
	}

	return s.store.ProblemReport().List(ctx, job.ID)
}
