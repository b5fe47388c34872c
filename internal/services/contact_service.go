package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/helpers"
	"github.com/joshua-takyi/folio/internal/models"
)

type ContactService struct {
	repo     models.ContactRepo
	notifier Notifier
	admin    string
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewContactService(repo models.ContactRepo, notifier Notifier, adminAddress string, timeout time.Duration, logger *slog.Logger) *ContactService {
	return &ContactService{
		repo:     repo,
		notifier: notifier,
		admin:    adminAddress,
		timeout:  timeout,
		logger:   logger.With("service", "contact"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func normalizeContact(in *models.ContactInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
}

// Submit validates and stores a contact message, then notifies the admin.
// A failed notification never fails the submission.
func (s *ContactService) Submit(ctx context.Context, in models.ContactInput, origin models.Origin) (*models.ContactMessage, error) {
	normalizeContact(&in)
	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Subject:   in.Subject,
		Message:   in.Message,
		IPAddress: origin.IP,
		UserAgent: helpers.Truncate(origin.UserAgent, 512),
		Status:    models.StatusNew,
		Priority:  models.PriorityNormal,
	}
	if err := s.repo.Create(ctx, nil, msg); err != nil {
		return nil, apperr.Internal("store contact message", err)
	}
	s.logger.Info("contact message received", "id", msg.ID)

	s.notify(ctx, Message{
		To:      s.admin,
		ReplyTo: msg.Email,
		Subject: "New contact message: " + msg.Subject,
		Body: fmt.Sprintf("From: %s <%s>\nPhone: %s\nCompany: %s\n\n%s\n",
			msg.Name, msg.Email, msg.Phone, msg.Company, msg.Message),
	})
	return msg, nil
}

func (s *ContactService) notify(ctx context.Context, m Message) {
	if s.notifier == nil {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.notifier.Send(nctx, m); err != nil {
		s.logger.Warn("notification failed", "subject", m.Subject, "error", err)
	}
}

func (s *ContactService) List(ctx context.Context, f models.ContactFilter) ([]models.ContactMessage, int64, error) {
	msgs, total, err := s.repo.List(ctx, nil, f)
	if err != nil {
		return nil, 0, apperr.Internal("list contact messages", err)
	}
	return msgs, total, nil
}

func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	return s.repo.Get(ctx, nil, id)
}

// MarkAsRead moves a new message to read and stamps read_at. Messages in
// any other state are left untouched.
func (s *ContactService) MarkAsRead(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	return s.transition(ctx, id, models.StatusRead, []string{models.StatusNew}, "read_at")
}

// MarkAsReplied is allowed from every state and stamps replied_at.
func (s *ContactService) MarkAsReplied(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	return s.transition(ctx, id, models.StatusReplied, nil, "replied_at")
}

func (s *ContactService) Archive(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	return s.transition(ctx, id, models.StatusArchived, nil, "")
}

func (s *ContactService) transition(ctx context.Context, id uuid.UUID, to string, from []string, stamp string) (*models.ContactMessage, error) {
	if _, err := s.repo.Transition(ctx, nil, id, to, from, stamp, s.now()); err != nil {
		return nil, apperr.Internal("update message status", err)
	}
	// zero rows affected is either a missing row or a guarded no-op
	return s.repo.Get(ctx, nil, id)
}

func (s *ContactService) Update(ctx context.Context, id uuid.UUID, in models.ContactUpdate) (*models.ContactMessage, error) {
	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}
	fields := map[string]any{"updated_at": s.now()}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.AdminNotes != nil {
		fields["admin_notes"] = strings.TrimSpace(*in.AdminNotes)
	}
	if err := s.repo.Update(ctx, nil, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, nil, id)
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, nil, id)
}

func (s *ContactService) UnreadCount(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, nil, models.StatusNew)
}
