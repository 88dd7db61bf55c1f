package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecuworks/tunehub/internal/store/model"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	User() User
	Job() Job
	Message() Message
	ProblemReport() ProblemReport
	InitialMigration() error
	Seed() error
	Statistics(ctx context.Context) (model.JobStats, error)
	Close() error
}

type DataStore struct {
	db      *gorm.DB
	user    User
	job     Job
	message Message
	report  ProblemReport
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:      db,
		user:    NewUserStore(db),
		job:     NewJobStore(db),
		message: NewMessageStore(db),
		report:  NewProblemReportStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) User() User {
	return s.user
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Message() Message {
	return s.message
}

func (s *DataStore) ProblemReport() ProblemReport {
	return s.report
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.Job{},
		&model.Message{},
		&model.ProblemReport{},
	)
}

// Seed creates the default operator account if it is missing.
func (s *DataStore) Seed() error {
	operator := model.User{
		ID:          uuid.New(),
		Username:    "operator",
		DisplayName: "Operator",
		Role:        model.RoleOperator,
	}

	result := s.db.Where("username = ?", operator.Username).FirstOrCreate(&operator)
	return result.Error
}

func (s *DataStore) Statistics(ctx context.Context) (model.JobStats, error) {
	stats := model.JobStats{JobsByStatus: make(map[string]int64)}

	var rows []struct {
		Status string
		Total  int64
	}
	if err := s.db.WithContext(ctx).Model(&model.Job{}).
		Select("status, count(*) as total").
		Group("status").
		Find(&rows).Error; err != nil {
		return model.JobStats{}, err
	}

	for _, row := range rows {
		stats.JobsByStatus[row.Status] = row.Total
		stats.TotalJobs += row.Total
	}

	if err := s.db.WithContext(ctx).Model(&model.ProblemReport{}).
		Where("status = ?", model.ReportStatusOpen).
		Count(&stats.OpenProblemReports).Error; err != nil {
		return model.JobStats{}, err
	}

	return stats, nil
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// getDB returns the transaction bound to ctx if any, the shared handle
// otherwise.
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
