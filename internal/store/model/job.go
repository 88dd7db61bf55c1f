package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the closed set of lifecycle states of a tuning job.
// A job starts pending; completed and cancelled are terminal.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
)

func (s JobStatus) Validate() error {
	switch s {
	case JobStatusPending, JobStatusCompleted, JobStatusCancelled:
		return nil
	default:
		return fmt.Errorf("unknown job status: %q", string(s))
	}
}

// Terminal reports whether no further transition is allowed out of s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// TuningOptions is the option set captured at submission time.
type TuningOptions struct {
	Stage     string   `json:"stage,omitempty"`
	DPFOff    bool     `json:"dpf_off"`
	EGROff    bool     `json:"egr_off"`
	AdBlueOff bool     `json:"adblue_off"`
	DTCOff    bool     `json:"dtc_off"`
	DTCCodes  []string `json:"dtc_codes,omitempty"`
	ImmoOff   bool     `json:"immo_off"`
}

// Vehicle describes the donor vehicle of an uploaded file.
type Vehicle struct {
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Year  int    `json:"year,omitempty"`
	ECU   string `json:"ecu,omitempty"`
}

type Job struct {
	ID              uuid.UUID `gorm:"primaryKey;"`
	OwnerID         uuid.UUID `gorm:"not null;index:jobs_owner_id_idx"`
	Owner           User      `gorm:"foreignKey:OwnerID;references:ID"`
	OriginalFile    string    `gorm:"not null;type:VARCHAR(512)"`
	StoredFile      string    `gorm:"not null;type:VARCHAR(512)"`
	ProcessedFile   *string   `gorm:"type:VARCHAR(512)"`
	OperatorMessage *string
	Notes           string
	Options         *JSONField[TuningOptions] `gorm:"type:jsonb"`
	Vehicle         *JSONField[Vehicle]       `gorm:"type:jsonb"`
	Status          JobStatus                 `gorm:"not null;type:VARCHAR(32);index:jobs_status_idx"`
	CreatedAt       time.Time                 `gorm:"not null"`
	UpdatedAt       time.Time                 `gorm:"not null"`
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}

// TuningOptions returns the stored option set, zero valued when unset.
func (j Job) TuningOptions() TuningOptions {
	if j.Options == nil {
		return TuningOptions{}
	}
	return j.Options.Data
}

// VehicleInfo returns the stored vehicle descriptor, zero valued when unset.
func (j Job) VehicleInfo() Vehicle {
	if j.Vehicle == nil {
		return Vehicle{}
	}
	return j.Vehicle.Data
}
