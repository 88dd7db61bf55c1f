package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecuworks/tunehub/internal/store/model"
)

type ProblemReport interface {
	Create(ctx context.Context, report model.ProblemReport) (*model.ProblemReport, error)
	GetOpen(ctx context.Context, jobID uuid.UUID) (*model.ProblemReport, error)
	List(ctx context.Context, jobID uuid.UUID) (model.ProblemReportList, error)
	Resolve(ctx context.Context, jobID uuid.UUID) (*model.ProblemReport, error)
	InitialMigration() error
}

type ProblemReportStore struct {
	db *gorm.DB
}

var _ ProblemReport = (*ProblemReportStore)(nil)

func NewProblemReportStore(db *gorm.DB) ProblemReport {
	return &ProblemReportStore{db: db}
}

func (s *ProblemReportStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.ProblemReport{})
}

// Create inserts a new open report. The partial unique index on
// (job_id) WHERE status = 'open' turns a concurrent duplicate into
// ErrReportAlreadyOpen instead of a second row.
func (s *ProblemReportStore) Create(ctx context.Context, report model.ProblemReport) (*model.ProblemReport, error) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.Status = model.ReportStatusOpen

	if result := getDB(ctx, s.db).Create(&report); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrReportAlreadyOpen
		}
		return nil, result.Error
	}

	var created model.ProblemReport
	if result := getDB(ctx, s.db).Preload("Reporter").First(&created, "id = ?", report.ID); result.Error != nil {
		return nil, result.Error
	}
	return &created, nil
}

func (s *ProblemReportStore) GetOpen(ctx context.Context, jobID uuid.UUID) (*model.ProblemReport, error) {
	var report model.ProblemReport
	result := getDB(ctx, s.db).Preload("Reporter").
		First(&report, "job_id = ? AND status = ?", jobID, model.ReportStatusOpen)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &report, nil
}

func (s *ProblemReportStore) List(ctx context.Context, jobID uuid.UUID) (model.ProblemReportList, error) {
	var reports model.ProblemReportList
	result := getDB(ctx, s.db).Preload("Reporter").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&reports)
	if result.Error != nil {
		return nil, result.Error
	}
	return reports, nil
}

// Resolve marks the single open report of the job as resolved. The update is
// conditional on status = open, so resolving twice fails with ErrNoOpenReport
// rather than stamping a new resolution time.
func (s *ProblemReportStore) Resolve(ctx context.Context, jobID uuid.UUID) (*model.ProblemReport, error) {
	now := time.Now()
	result := getDB(ctx, s.db).Model(&model.ProblemReport{}).
		Where("job_id = ? AND status = ?", jobID, model.ReportStatusOpen).
		Updates(map[string]any{"status": model.ReportStatusResolved, "resolved_at": now})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNoOpenReport
	}

	var resolved model.ProblemReport
	res := getDB(ctx, s.db).Preload("Reporter").
		Where("job_id = ? AND status = ?", jobID, model.ReportStatusResolved).
		Order("resolved_at DESC").
		First(&resolved)
	if res.Error != nil {
		return nil, res.Error
	}
	return &resolved, nil
}
