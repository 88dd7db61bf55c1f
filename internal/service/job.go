package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ecuworks/tunehub/internal/events"
	"github.com/ecuworks/tunehub/internal/hub"
	"github.com/ecuworks/tunehub/internal/service/mappers"
	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/internal/store/model"
)

type JobService struct {
	store       store.Store
	hub         *hub.Hub
	eventWriter *events.EventProducer
}

func NewJobService(store store.Store, h *hub.Hub, ew *events.EventProducer) *JobService {
	return &JobService{store: store, hub: h, eventWriter: ew}
}

// CreateJob persists a new pending submission owned by the acting user and
// announces it to the operator room.
func (s *JobService) CreateJob(ctx context.Context, user *model.User, form mappers.JobCreateForm) (*model.Job, error) {
	if user == nil {
		return nil, NewErrForbidden(OpViewJob)
	}
	if strings.TrimSpace(form.OriginalFile) == "" || strings.TrimSpace(form.StoredFile) == "" {
		return nil, NewErrValidation("a file reference is required")
	}

	form.OwnerID = user.ID
	job, err := s.store.Job().Create(ctx, form.ToJob())
	if err != nil {
		return nil, err
	}

	s.hub.Broadcast(hub.OperatorRoom, hub.Event{
		Type:  hub.EventJobCreated,
		JobID: job.ID.String(),
		Payload: map[string]string{
			"owner":    job.Owner.DisplayName,
			"filename": job.OriginalFile,
		},
	})
	writeSink(ctx, s.eventWriter, events.JobCreatedKind, events.JobCreatedEvent{
		JobID:            job.ID.String(),
		OwnerDisplayName: job.Owner.DisplayName,
		Filename:         job.OriginalFile,
	})

	return job, nil
}

// GetJob fetches a job on behalf of user. A missing job and a job the user
// may not see are indistinguishable in the returned error.
func (s *JobService) GetJob(ctx context.Context, user *model.User, id uuid.UUID) (*model.Job, error) {
	if user == nil {
		return nil, NewErrForbidden(OpViewJob)
	}

	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}

	if user.Role != model.RoleOperator && job.OwnerID != user.ID {
		return nil, NewErrJobNotFound(id)
	}

	return job, nil
}

// ListJobs returns the jobs visible to the user, newest first: all of them
// for the operator, the user's own otherwise.
func (s *JobService) ListJobs(ctx context.Context, user *model.User) (model.JobList, error) {
	if user == nil {
		return nil, NewErrForbidden(OpViewJob)
	}

	filter := store.NewJobQueryFilter()
	if user.Role != model.RoleOperator {
		filter = filter.ByOwnerID(user.ID)
	}

	return s.store.Job().List(ctx, filter)
}

// UpdateJob applies an owner edit to a pending job. The job is re-fetched
// and the policy re-evaluated against current state immediately before the
// mutation; the store's conditional update closes the remaining race.
func (s *JobService) UpdateJob(ctx context.Context, user *model.User, id uuid.UUID, form mappers.JobUpdateForm) (*model.Job, error) {
	job, err := s.GetJob(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if err := Authorize(user, OpEditJob, job); err != nil {
		return nil, err
	}

	updated, err := s.store.Job().UpdateIfPending(ctx, id, job.OwnerID, form.ToJobUpdate())
	if err != nil {
		switch {
		case errors.Is(err, store.ErrImmutableState):
			return nil, NewErrImmutableState(id, job.Status)
		case errors.Is(err, store.ErrRecordNotFound):
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}

	return updated, nil
}

// CompleteJob transitions a pending job to completed, attaching the
// processed file reference, and notifies the job room.
func (s *JobService) CompleteJob(ctx context.Context, user *model.User, id uuid.UUID, processedFile string) (*model.Job, error) {
	if strings.TrimSpace(processedFile) == "" {
		return nil, NewErrValidation("a processed file reference is required")
	}
	return s.transition(ctx, user, OpCompleteJob, id, model.JobStatusCompleted, &processedFile)
}

// CancelJob transitions a pending job to cancelled and notifies the job room.
func (s *JobService) CancelJob(ctx context.Context, user *model.User, id uuid.UUID) (*model.Job, error) {
	return s.transition(ctx, user, OpCancelJob, id, model.JobStatusCancelled, nil)
}

func (s *JobService) transition(ctx context.Context, user *model.User, op Operation, id uuid.UUID, to model.JobStatus, processedFile *string) (*model.Job, error) {
	if err := Authorize(user, op, nil); err != nil {
		return nil, err
	}

	job, err := s.store.Job().Transition(ctx, id, model.JobStatusPending, to, processedFile)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			return nil, NewErrJobNotFound(id)
		case errors.Is(err, store.ErrInvalidTransition):
			return nil, NewErrInvalidTransition(id, to)
		}
		return nil, err
	}

	s.hub.Broadcast(hub.JobRoom(job.ID), hub.Event{
		Type:  hub.EventJobStatus,
		JobID: job.ID.String(),
		Payload: map[string]string{
			"status": string(job.Status),
		},
	})

	return job, nil
}

// SetOperatorMessage sets the operator-authored note shown to the
// requester. Allowed at any status.
func (s *JobService) SetOperatorMessage(ctx context.Context, user *model.User, id uuid.UUID, message string) (*model.Job, error) {
	if err := Authorize(user, OpSetOperatorMessage, nil); err != nil {
		return nil, err
	}

	job, err := s.store.Job().SetOperatorMessage(ctx, id, message)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}

	return job, nil
}
