package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is one immutable entry of a job's discussion thread.
type Message struct {
	ID        uuid.UUID `gorm:"primaryKey;"`
	JobID     uuid.UUID `gorm:"not null;index:messages_job_id_idx"`
	AuthorID  uuid.UUID `gorm:"not null"`
	Author    User      `gorm:"foreignKey:AuthorID;references:ID"`
	Body      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type MessageList []Message

func (m Message) String() string {
	val, _ := json.Marshal(m)
	return string(val)
}
