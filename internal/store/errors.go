package store

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("already exists")

	// ErrImmutableState is returned when a job mutation is attempted outside
	// the pending window.
	ErrImmutableState = errors.New("job is no longer editable")

	// ErrInvalidTransition is returned when the job's current status does not
	// match the transition's expected source status.
	ErrInvalidTransition = errors.New("invalid job status transition")

	// ErrReportAlreadyOpen is returned when a second open problem report is
	// filed for the same job.
	ErrReportAlreadyOpen = errors.New("an open problem report already exists")

	// ErrNoOpenReport is returned when resolving a job with no open report.
	ErrNoOpenReport = errors.New("no open problem report")
)
