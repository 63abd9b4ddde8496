package service

import (
	"context"
	"fmt"
	"log"

	"github.com/lumenworks/studio-portal-backend/internal/config"
	"github.com/lumenworks/studio-portal-backend/internal/email"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/socket"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// ============================================
// Message Service
// ============================================

// IntakeInput is the public contact-form payload. It is the only write
// that reaches the system unauthenticated.
type IntakeInput struct {
	Name    string
	Email   string
	Company string
	Subject string
	Body    string
	Page    string
}

type ReplyInput struct {
	ThreadID string
	Body     string
}

type MessageService interface {
	Intake(ctx context.Context, input IntakeInput) (*repository.Message, error)
	Reply(ctx context.Context, input ReplyInput, staffUID, staffName, staffEmail string) (*repository.Message, error)
	GetByID(ctx context.Context, id string) (*repository.Message, error)
	ListAll(ctx context.Context) ([]*repository.Message, error)
	ListThreads(ctx context.Context) ([]*repository.Thread, error)
	GetThread(ctx context.Context, threadID string) ([]*repository.Message, error)
	MarkRead(ctx context.Context, id string, actorID string) (*repository.Message, error)
	SetStatus(ctx context.Context, id, status string, actorID string) (*repository.Message, error)
	Delete(ctx context.Context, id string) error
}

type messageService struct {
	cfg         *config.Config
	messageRepo repository.MessageRepository
	emailSvc    *email.Service
	broadcaster *socket.Broadcaster
}

func NewMessageService(cfg *config.Config, messageRepo repository.MessageRepository, emailSvc *email.Service, broadcaster *socket.Broadcaster) MessageService {
	return &messageService{cfg: cfg, messageRepo: messageRepo, emailSvc: emailSvc, broadcaster: broadcaster}
}

func (s *messageService) Intake(ctx context.Context, input IntakeInput) (*repository.Message, error) {
	// Anonymous submissions are fine; only a reachable address and a body are required.
	if input.Email == "" || input.Body == "" {
		return nil, ErrInvalidInput
	}

	body := input.Body
	if input.Subject != "" {
		body = input.Subject + "\n\n" + body
	}
	if input.Company != "" {
		body = body + "\n\n— " + input.Company
	}

	msg := &repository.Message{
		Name:       input.Name,
		Email:      input.Email,
		Body:       body,
		Source:     "contact_form",
		Page:       input.Page,
		SenderRole: types.SenderClient,
		Status:     types.MessageNew,
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessageCreated(messagePayload(msg))
	}

	// Notification failure must not fail the submission
	if s.emailSvc != nil && s.cfg.IntakeNotifyEmail != "" {
		portalLink := fmt.Sprintf("%s/portal/messages/%s", s.cfg.PortalURL, msg.ThreadID)
		if err := s.emailSvc.SendIntakeNotification(s.cfg.IntakeNotifyEmail, input.Name, input.Email, input.Company, input.Subject, input.Body, portalLink); err != nil {
			log.Printf("⚠️ Failed to send intake notification: %v", err)
		}
	}

	return msg, nil
}

func (s *messageService) Reply(ctx context.Context, input ReplyInput, staffUID, staffName, staffEmail string) (*repository.Message, error) {
	if input.ThreadID == "" || input.Body == "" {
		return nil, ErrInvalidInput
	}

	thread, err := s.messageRepo.FindByThread(ctx, input.ThreadID)
	if err != nil {
		return nil, err
	}
	if len(thread) == 0 {
		return nil, ErrNotFound
	}

	msg := &repository.Message{
		ThreadID:   input.ThreadID,
		Name:       staffName,
		Email:      staffEmail,
		Body:       input.Body,
		Source:     "portal",
		ClientUID:  &staffUID,
		SenderRole: types.SenderStaff,
		Status:     types.MessageOpen,
		Read:       true,
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store reply: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessageCreated(messagePayload(msg))
	}

	return msg, nil
}

func (s *messageService) GetByID(ctx context.Context, id string) (*repository.Message, error) {
	msg, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	return msg, nil
}

func (s *messageService) ListAll(ctx context.Context) ([]*repository.Message, error) {
	return s.messageRepo.FindAll(ctx)
}

func (s *messageService) ListThreads(ctx context.Context) ([]*repository.Thread, error) {
	return s.messageRepo.FindThreads(ctx)
}

func (s *messageService) GetThread(ctx context.Context, threadID string) ([]*repository.Message, error) {
	msgs, err := s.messageRepo.FindByThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, ErrNotFound
	}
	return msgs, nil
}

func (s *messageService) MarkRead(ctx context.Context, id string, actorID string) (*repository.Message, error) {
	msg, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	if msg.Read {
		return msg, nil
	}

	if err := s.messageRepo.MarkRead(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}
	msg.Read = true

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessageRead(msg.ID, msg.ThreadID, actorID)
	}

	return msg, nil
}

func (s *messageService) SetStatus(ctx context.Context, id, status string, actorID string) (*repository.Message, error) {
	if !types.IsValidMessageStatus(status) || status == types.MessageConverted {
		return nil, ErrInvalidInput
	}

	msg, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	// Converted messages keep their terminal status
	if msg.Status == types.MessageConverted {
		return nil, ErrAlreadyConverted
	}

	if err := s.messageRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update message status: %w", err)
	}
	msg.Status = status

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessageStatusChanged(msg.ID, msg.ThreadID, status, actorID)
	}

	return msg, nil
}

func (s *messageService) Delete(ctx context.Context, id string) error {
	msg, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrNotFound
	}
	return s.messageRepo.Delete(ctx, id)
}

func messagePayload(msg *repository.Message) map[string]interface{} {
	return map[string]interface{}{
		"id":         msg.ID,
		"threadId":   msg.ThreadID,
		"name":       msg.Name,
		"email":      msg.Email,
		"senderRole": msg.SenderRole,
		"status":     msg.Status,
		"read":       msg.Read,
	}
}
