package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the closed set of states of a problem report.
type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "open"
	ReportStatusResolved ReportStatus = "resolved"
)

func (s ReportStatus) Validate() error {
	switch s {
	case ReportStatusOpen, ReportStatusResolved:
		return nil
	default:
		return fmt.Errorf("unknown report status: %q", string(s))
	}
}

// ProblemReport is a requester escalation against a completed job.
// The partial unique index keeps at most one open report per job even under
// concurrent filing.
type ProblemReport struct {
	ID          uuid.UUID    `gorm:"primaryKey;"`
	JobID       uuid.UUID    `gorm:"not null;index:reports_job_id_idx;uniqueIndex:reports_one_open_per_job,where:status = 'open'"`
	ReporterID  uuid.UUID    `gorm:"not null"`
	Reporter    User         `gorm:"foreignKey:ReporterID;references:ID"`
	Description string       `gorm:"not null"`
	Status      ReportStatus `gorm:"not null;type:VARCHAR(32)"`
	CreatedAt   time.Time    `gorm:"not null"`
	ResolvedAt  *time.Time
}

type ProblemReportList []ProblemReport

func (r ProblemReport) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}
