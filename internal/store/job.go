package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecuworks/tunehub/internal/store/model"
)

// JobUpdate carries the owner-editable fields of a pending job. Nil fields
// are left untouched.
type JobUpdate struct {
	Notes   *string
	Options *model.TuningOptions
	Vehicle *model.Vehicle
}

type Job interface {
	Create(ctx context.Context, job model.Job) (*model.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error)
	UpdateIfPending(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, update JobUpdate) (*model.Job, error)
	Transition(ctx context.Context, id uuid.UUID, from, to model.JobStatus, processedFile *string) (*model.Job, error)
	SetOperatorMessage(ctx context.Context, id uuid.UUID, message string) (*model.Job, error)
	InitialMigration() error
}

type JobStore struct {
	db *gorm.DB
}

var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Job{})
}

func (s *JobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = model.JobStatusPending

	result := getDB(ctx, s.db).Create(&job)
	if result.Error != nil {
		return nil, result.Error
	}

	return s.Get(ctx, job.ID)
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	result := getDB(ctx, s.db).Preload("Owner").First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &job, nil
}

func (s *JobStore) List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error) {
	tx := getDB(ctx, s.db).Preload("Owner")
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	var jobs model.JobList
	if err := tx.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateIfPending mutates the owner-editable fields with a conditional
// update predicated on status = pending, so a concurrent completion cannot
// be overwritten.
func (s *JobStore) UpdateIfPending(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, update JobUpdate) (*model.Job, error) {
	fields := map[string]any{"updated_at": time.Now()}
	if update.Notes != nil {
		fields["notes"] = *update.Notes
	}
	if update.Options != nil {
		fields["options"] = model.MakeJSONField(*update.Options)
	}
	if update.Vehicle != nil {
		fields["vehicle"] = model.MakeJSONField(*update.Vehicle)
	}

	result := getDB(ctx, s.db).Model(&model.Job{}).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, model.JobStatusPending).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// distinguish a missing/unowned job from one outside its editable window
		job, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if job.OwnerID != ownerID {
			return nil, ErrRecordNotFound
		}
		return nil, ErrImmutableState
	}

	return s.Get(ctx, id)
}

// Transition moves the job from one status to another with a conditional
// update. Concurrent transitions race on the status predicate, so only one
// of them can succeed.
func (s *JobStore) Transition(ctx context.Context, id uuid.UUID, from, to model.JobStatus, processedFile *string) (*model.Job, error) {
	if err := to.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"status":     to,
		"updated_at": time.Now(),
	}
	if processedFile != nil {
		fields["processed_file"] = *processedFile
	}

	result := getDB(ctx, s.db).Model(&model.Job{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}

	return s.Get(ctx, id)
}

func (s *JobStore) SetOperatorMessage(ctx context.Context, id uuid.UUID, message string) (*model.Job, error) {
	result := getDB(ctx, s.db).Model(&model.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{"operator_message": message, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	return s.Get(ctx, id)
}
