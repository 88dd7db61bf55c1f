package mappers

import (
	"github.com/google/uuid"

	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/internal/store/model"
)

// JobCreateForm is the submission captured from a requester.
type JobCreateForm struct {
	OwnerID      uuid.UUID
	OriginalFile string
	StoredFile   string
	Notes        string
	Options      model.TuningOptions
	Vehicle      model.Vehicle
}

func (f JobCreateForm) ToJob() model.Job {
	return model.Job{
		ID:           uuid.New(),
		OwnerID:      f.OwnerID,
		OriginalFile: f.OriginalFile,
		StoredFile:   f.StoredFile,
		Notes:        f.Notes,
		Options:      model.MakeJSONField(f.Options),
		Vehicle:      model.MakeJSONField(f.Vehicle),
		Status:       model.JobStatusPending,
	}
}

// JobUpdateForm carries an owner edit of a pending job. Nil fields are left
// untouched.
type JobUpdateForm struct {
	Notes   *string
	Options *model.TuningOptions
	Vehicle *model.Vehicle
}

func (f JobUpdateForm) ToJobUpdate() store.JobUpdate {
	return store.JobUpdate{
		Notes:   f.Notes,
		Options: f.Options,
		Vehicle: f.Vehicle,
	}
}
