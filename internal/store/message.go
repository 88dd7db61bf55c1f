package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecuworks/tunehub/internal/store/model"
)

type Message interface {
	Create(ctx context.Context, message model.Message) (*model.Message, error)
	List(ctx context.Context, jobID uuid.UUID) (model.MessageList, error)
	InitialMigration() error
}

type MessageStore struct {
	db *gorm.DB
}

var _ Message = (*MessageStore)(nil)

func NewMessageStore(db *gorm.DB) Message {
	return &MessageStore{db: db}
}

func (s *MessageStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Message{})
}

func (s *MessageStore) Create(ctx context.Context, message model.Message) (*model.Message, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}

	if result := getDB(ctx, s.db).Create(&message); result.Error != nil {
		return nil, result.Error
	}

	// re-read with the author row for denormalized rendering fields
	var created model.Message
	if result := getDB(ctx, s.db).Preload("Author").First(&created, "id = ?", message.ID); result.Error != nil {
		return nil, result.Error
	}
	return &created, nil
}

func (s *MessageStore) List(ctx context.Context, jobID uuid.UUID) (model.MessageList, error) {
	var messages model.MessageList
	result := getDB(ctx, s.db).Preload("Author").
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}
	return messages, nil
}
