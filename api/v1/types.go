// Package v1 holds the wire types of the tunehub HTTP API.
package v1

import (
	"time"

	"github.com/google/uuid"
)

type TuningOptions struct {
	Stage     string   `json:"stage,omitempty"`
	DPFOff    bool     `json:"dpf_off"`
	EGROff    bool     `json:"egr_off"`
	AdBlueOff bool     `json:"adblue_off"`
	DTCOff    bool     `json:"dtc_off"`
	DTCCodes  []string `json:"dtc_codes,omitempty" validate:"omitempty,dtc_codes"`
	ImmoOff   bool     `json:"immo_off"`
}

type Vehicle struct {
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Year  int    `json:"year,omitempty"`
	ECU   string `json:"ecu,omitempty"`
}

type Job struct {
	ID              uuid.UUID     `json:"id"`
	OwnerID         uuid.UUID     `json:"owner_id"`
	OwnerName       string        `json:"owner_name"`
	OriginalFile    string        `json:"original_file"`
	ProcessedFile   *string       `json:"processed_file,omitempty"`
	DownloadName    string        `json:"download_name"`
	OperatorMessage *string       `json:"operator_message,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Options         TuningOptions `json:"options"`
	Vehicle         Vehicle       `json:"vehicle"`
	Status          string        `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type JobList []Job

type Message struct {
	ID         uuid.UUID `json:"id"`
	JobID      uuid.UUID `json:"job_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type MessageList []Message

type ProblemReport struct {
	ID           uuid.UUID  `json:"id"`
	JobID        uuid.UUID  `json:"job_id"`
	ReporterID   uuid.UUID  `json:"reporter_id"`
	ReporterName string     `json:"reporter_name"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

type ProblemReportList []ProblemReport

// Request bodies.

type JobCreate struct {
	OriginalFile string        `json:"original_file" validate:"required,file_ref"`
	StoredFile   string        `json:"stored_file" validate:"required,file_ref"`
	Notes        string        `json:"notes,omitempty"`
	Options      TuningOptions `json:"options"`
	Vehicle      Vehicle       `json:"vehicle"`
}

type JobUpdate struct {
	Notes   *string        `json:"notes,omitempty"`
	Options *TuningOptions `json:"options,omitempty"`
	Vehicle *Vehicle       `json:"vehicle,omitempty"`
}

type JobComplete struct {
	ProcessedFile string `json:"processed_file" validate:"required"`
}

type OperatorMessage struct {
	Message string `json:"message"`
}

type MessageCreate struct {
	Body string `json:"body" validate:"required"`
}

type ProblemReportCreate struct {
	Description string `json:"description" validate:"required"`
}

type Error struct {
	Message string `json:"message"`
}
