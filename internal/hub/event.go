package hub

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	EventJobCreated      = "job_created"
	EventJobStatus       = "job_status"
	EventNewMessage      = "new_message"
	EventProblemFiled    = "problem_filed"
	EventProblemResolved = "problem_resolved"
)

// OperatorRoom receives every new-job, problem-filed and problem-resolved
// event system wide.
const OperatorRoom = "operator"

// JobRoom names the room carrying message and status events of one job.
func JobRoom(jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s", jobID)
}

// Event is one realtime notification frame. Payloads carry identifiers and
// the minimal denormalized fields a client needs to render without a
// follow-up fetch.
type Event struct {
	Type    string `json:"type"`
	JobID   string `json:"job_id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}
