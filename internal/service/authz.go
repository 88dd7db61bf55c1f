package service

import (
	"github.com/ecuworks/tunehub/internal/store/model"
)

// Operation is the closed set of job operations gated by the access policy.
type Operation string

const (
	OpViewJob            Operation = "view_job"
	OpEditJob            Operation = "edit_job"
	OpCompleteJob        Operation = "complete_job"
	OpCancelJob          Operation = "cancel_job"
	OpSetOperatorMessage Operation = "set_operator_message"
	OpPostMessage        Operation = "post_message"
	OpReadMessages       Operation = "read_messages"
	OpFileProblem        Operation = "file_problem"
	OpResolveProblem     Operation = "resolve_problem"
)

// operatorOnly lists the administration operations reserved to the operator
// role regardless of job ownership.
var operatorOnly = map[Operation]bool{
	OpCompleteJob:        true,
	OpCancelJob:          true,
	OpSetOperatorMessage: true,
	OpResolveProblem:     true,
}

// ownerOnly lists the operations reserved to the job owner regardless of
// role: a submission is edited and escalated by the requester it belongs
// to, never by the operator.
var ownerOnly = map[Operation]bool{
	OpEditJob:     true,
	OpFileProblem: true,
}

// Authorize is the pure access policy: it decides whether user may perform
// op on job. It inspects nothing but its arguments, so callers must pass the
// freshly fetched job, never a cached copy.
func Authorize(user *model.User, op Operation, job *model.Job) error {
	if user == nil {
		return NewErrForbidden(op)
	}

	if ownerOnly[op] {
		if job == nil || job.OwnerID != user.ID {
			return NewErrForbidden(op)
		}
		return nil
	}

	if user.Role == model.RoleOperator {
		return nil
	}

	if operatorOnly[op] {
		return NewErrForbidden(op)
	}

	if job == nil || job.OwnerID != user.ID {
		// a requester probing someone else's job learns nothing
		return NewErrForbidden(op)
	}

	return nil
}
