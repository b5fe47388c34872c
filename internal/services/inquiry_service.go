package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/models"
)

// InquiryService takes visitor inquiries about a service and lets the
// service owner work through them.
type InquiryService struct {
	repos   *models.Repos
	public  *PublicService
	contact *ContactService
	logger  *slog.Logger
}

func NewInquiryService(repos *models.Repos, public *PublicService, contact *ContactService, logger *slog.Logger) *InquiryService {
	return &InquiryService{
		repos:   repos,
		public:  public,
		contact: contact,
		logger:  logger.With("service", "inquiry"),
	}
}

func (s *InquiryService) Submit(ctx context.Context, serviceRef string, in models.InquiryInput) (*models.ServiceInquiry, error) {
	svc, err := s.public.Service(ctx, serviceRef)
	if err != nil {
		return nil, err
	}

	normalizeContact(&in.ContactInput)
	in.Budget = strings.TrimSpace(in.Budget)
	in.Timeline = strings.TrimSpace(in.Timeline)
	if in.Subject == "" {
		in.Subject = "Inquiry about " + svc.Title
	}
	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}

	serviceID := svc.ID
	inq := &models.ServiceInquiry{
		ID:        uuid.New(),
		ServiceID: &serviceID,
		OwnerID:   svc.OwnerID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Subject:   in.Subject,
		Message:   in.Message,
		Budget:    in.Budget,
		Timeline:  in.Timeline,
		Status:    models.InquiryNew,
	}
	if err := s.repos.Inquiries.Create(ctx, nil, inq); err != nil {
		return nil, apperr.Internal("store inquiry", err)
	}
	s.logger.Info("service inquiry received", "id", inq.ID, "service_id", svc.ID)

	if to := s.ownerAddress(ctx, svc.OwnerID); to != "" {
		s.contact.notify(ctx, Message{
			To:      to,
			ReplyTo: inq.Email,
			Subject: fmt.Sprintf("New inquiry for %s", svc.Title),
			Body: fmt.Sprintf("From: %s <%s>\nBudget: %s\nTimeline: %s\n\n%s\n",
				inq.Name, inq.Email, inq.Budget, inq.Timeline, inq.Message),
		})
	}
	return inq, nil
}

// ownerAddress is where the owner wants notifications, empty when they
// opted out.
func (s *InquiryService) ownerAddress(ctx context.Context, owner uuid.UUID) string {
	profile, err := s.repos.Profiles.GetByUser(ctx, nil, owner)
	if err != nil || !profile.EmailNotifications {
		return ""
	}
	if profile.Email != "" {
		return profile.Email
	}
	user, err := s.repos.Users.GetByID(ctx, nil, owner)
	if err != nil {
		return ""
	}
	return user.Email
}

func (s *InquiryService) List(ctx context.Context, p models.Principal, status string, page Page) ([]models.ServiceInquiry, int64, error) {
	if !p.Authenticated() {
		return nil, 0, apperr.Unauthenticated()
	}
	q := models.ListQuery{Offset: page.Offset(), Limit: page.Limit}
	if status != "" {
		q.Where = map[string]any{"status": status}
	}
	rows, total, err := s.repos.Inquiries.List(ctx, nil, p, q)
	if err != nil {
		return nil, 0, apperr.Internal("list inquiries", err)
	}
	return rows, total, nil
}

func (s *InquiryService) Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.ServiceInquiry, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	return s.repos.Inquiries.Get(ctx, nil, p, id)
}

func (s *InquiryService) Update(ctx context.Context, p models.Principal, id uuid.UUID, in models.InquiryUpdate) (*models.ServiceInquiry, error) {
	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}
	inq, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		inq.Status = *in.Status
	}
	if in.Notes != nil {
		inq.Notes = strings.TrimSpace(*in.Notes)
	}
	if err := s.repos.Inquiries.Save(ctx, nil, inq); err != nil {
		return nil, apperr.Internal("update inquiry", err)
	}
	return inq, nil
}
