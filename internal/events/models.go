package events

// JobCreatedEvent notifies the push bridge about a new submission.
type JobCreatedEvent struct {
	JobID            string `json:"job_id"`
	OwnerDisplayName string `json:"owner_display_name"`
	Filename         string `json:"filename"`
}

// MessagePostedEvent notifies the push bridge about a new thread entry.
type MessagePostedEvent struct {
	JobID             string `json:"job_id"`
	AuthorDisplayName string `json:"author_display_name"`
	Body              string `json:"body"`
}

// ProblemEvent covers both filing and resolution of a problem report.
type ProblemEvent struct {
	JobID               string `json:"job_id"`
	ReportID            string `json:"report_id"`
	ReporterDisplayName string `json:"reporter_display_name,omitempty"`
}
