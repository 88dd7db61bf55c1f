package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ecuworks/tunehub/internal/store/model"
)

type ErrForbidden struct {
	error
}

func NewErrForbidden(op Operation) *ErrForbidden {
	return &ErrForbidden{fmt.Errorf("forbidden: %s", op)}
}

// ErrResourceNotFound covers both a genuinely missing entity and one the
// actor may not see, so existence never leaks through the error.
type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "job")
}

type ErrImmutableState struct {
	error
}

func NewErrImmutableState(jobID uuid.UUID, status model.JobStatus) *ErrImmutableState {
	return &ErrImmutableState{fmt.Errorf("job %s is not editable in status %s", jobID, status)}
}

type ErrInvalidTransition struct {
	error
}

func NewErrInvalidTransition(jobID uuid.UUID, to model.JobStatus) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("job %s cannot transition to %s", jobID, to)}
}

type ErrJobNotCompleted struct {
	error
}

func NewErrJobNotCompleted(jobID uuid.UUID) *ErrJobNotCompleted {
	return &ErrJobNotCompleted{fmt.Errorf("job %s is not completed; a problem can only be reported against a completed job", jobID)}
}

// ErrReportAlreadyOpen routes the caller back to the report that is already
// open for the job instead of duplicating it.
type ErrReportAlreadyOpen struct {
	error
	Report *model.ProblemReport
}

func NewErrReportAlreadyOpen(jobID uuid.UUID, existing *model.ProblemReport) *ErrReportAlreadyOpen {
	return &ErrReportAlreadyOpen{
		error:  fmt.Errorf("job %s already has an open problem report", jobID),
		Report: existing,
	}
}

type ErrNoOpenReport struct {
	error
}

func NewErrNoOpenReport(jobID uuid.UUID) *ErrNoOpenReport {
	return &ErrNoOpenReport{fmt.Errorf("job %s has no open problem report", jobID)}
}

type ErrValidation struct {
	error
}

func NewErrValidation(message string) *ErrValidation {
	return &ErrValidation{fmt.Errorf("validation failed: %s", message)}
}
