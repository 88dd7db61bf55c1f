package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ecuworks/tunehub/internal/events"
	"github.com/ecuworks/tunehub/internal/hub"
	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/internal/store/model"
)

type MessageService struct {
	store       store.Store
	jobSrv      *JobService
	hub         *hub.Hub
	eventWriter *events.EventProducer
}

func NewMessageService(store store.Store, jobSrv *JobService, h *hub.Hub, ew *events.EventProducer) *MessageService {
	return &MessageService{store: store, jobSrv: jobSrv, hub: h, eventWriter: ew}
}

// Post appends an entry to the job's thread and echoes the persisted record,
// with denormalized author fields, back to the caller. The job room receives
// a new_message event.
func (s *MessageService) Post(ctx context.Context, user *model.User, jobID uuid.UUID, body string) (*model.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, NewErrValidation("message body must not be empty")
	}

	// GetJob already hides jobs the user may not see; re-check the policy
	// against the fresh row for the posting itself.
	job, err := s.jobSrv.GetJob(ctx, user, jobID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(user, OpPostMessage, job); err != nil {
		return nil, err
	}

	message, err := s.store.Message().Create(ctx, model.Message{
		JobID:    job.ID,
		AuthorID: user.ID,
		Body:     body,
	})
	if err != nil {
		return nil, err
	}

	s.hub.Broadcast(hub.JobRoom(job.ID), hub.Event{
		Type:  hub.EventNewMessage,
		JobID: job.ID.String(),
		Payload: map[string]string{
			"message_id": message.ID.String(),
			"author":     message.Author.DisplayName,
			"role":       string(message.Author.Role),
			"body":       message.Body,
		},
	})
	writeSink(ctx, s.eventWriter, events.MessagePostedKind, events.MessagePostedEvent{
		JobID:             job.ID.String(),
		AuthorDisplayName: message.Author.DisplayName,
		Body:              message.Body,
	})

	return message, nil
}

// List returns the job's thread in ascending creation order. Read access is
// symmetric with posting: whoever may post may read, and no one else.
func (s *MessageService) List(ctx context.Context, user *model.User, jobID uuid.UUID) (model.MessageList, error) {
	job, err := s.jobSrv.GetJob(ctx, user, jobID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(user, OpReadMessages, job); err != nil {
		return nil, err
	}

	return s.store.Message().List(ctx, job.ID)
}
