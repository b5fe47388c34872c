package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/helpers"
	"github.com/joshua-takyi/folio/internal/models"
	"gorm.io/gorm"
)

type NewsletterService struct {
	db     *gorm.DB
	repo   models.NewsletterRepo
	logger *slog.Logger
	now    func() time.Time
}

func NewNewsletterService(db *gorm.DB, repo models.NewsletterRepo, logger *slog.Logger) *NewsletterService {
	return &NewsletterService{
		db:     db,
		repo:   repo,
		logger: logger.With("service", "newsletter"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe creates a subscription or reactivates an inactive one. An
// active subscription for the same email is a validation error.
func (s *NewsletterService) Subscribe(ctx context.Context, in models.SubscribeInput) (*models.Newsletter, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if in.Frequency == "" {
		in.Frequency = "monthly"
	}

	token, err := helpers.RandomToken(32)
	if err != nil {
		return nil, apperr.Internal("generate token", err)
	}

	var sub *models.Newsletter
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByEmail(ctx, tx, in.Email)
		switch {
		case err == nil && existing.IsActive:
			return apperr.Field("email", "This email is already subscribed to our newsletter.")
		case err == nil:
			existing.IsActive = true
			existing.IsVerified = false
			existing.UnsubscribedAt = nil
			existing.SubscribedAt = s.now()
			existing.VerificationToken = token
			existing.Frequency = in.Frequency
			if in.Name != "" {
				existing.Name = in.Name
			}
			sub = existing
			return s.repo.Save(ctx, tx, existing)
		case apperr.Is(err, apperr.KindNotFound):
			sub = &models.Newsletter{
				ID:                uuid.New(),
				Email:             in.Email,
				Name:              in.Name,
				IsActive:          true,
				Frequency:         in.Frequency,
				SubscribedAt:      s.now(),
				VerificationToken: token,
			}
			return s.repo.Create(ctx, tx, sub)
		default:
			return err
		}
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return nil, apperr.Internal("subscribe", err)
		}
		return nil, err
	}
	s.logger.Info("newsletter subscription", "id", sub.ID)
	return sub, nil
}

// Unsubscribe deactivates the subscription for email. Unsubscribing twice
// changes nothing.
func (s *NewsletterService) Unsubscribe(ctx context.Context, in models.UnsubscribeInput) (*models.Newsletter, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}

	var sub *models.Newsletter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByEmail(ctx, tx, in.Email)
		if err != nil {
			return err
		}
		sub = existing
		if !existing.IsActive {
			return nil
		}
		now := s.now()
		existing.IsActive = false
		existing.UnsubscribedAt = &now
		return s.repo.Save(ctx, tx, existing)
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return nil, apperr.Internal("unsubscribe", err)
		}
		return nil, err
	}
	return sub, nil
}

func (s *NewsletterService) Verify(ctx context.Context, token string) (*models.Newsletter, error) {
	sub, err := s.repo.FindByToken(ctx, nil, strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	if !sub.IsVerified {
		sub.IsVerified = true
		if err := s.repo.Save(ctx, nil, sub); err != nil {
			return nil, apperr.Internal("verify subscription", err)
		}
	}
	return sub, nil
}

func (s *NewsletterService) List(ctx context.Context, f models.NewsletterFilter) ([]models.Newsletter, int64, error) {
	subs, total, err := s.repo.List(ctx, nil, f)
	if err != nil {
		return nil, 0, apperr.Internal("list subscriptions", err)
	}
	return subs, total, nil
}

// SetVerified and Deactivate are the admin actions on a subscription.
func (s *NewsletterService) SetVerified(ctx context.Context, id uuid.UUID) (*models.Newsletter, error) {
	sub, err := s.repo.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	sub.IsVerified = true
	if err := s.repo.Save(ctx, nil, sub); err != nil {
		return nil, apperr.Internal("verify subscription", err)
	}
	return sub, nil
}

func (s *NewsletterService) Deactivate(ctx context.Context, id uuid.UUID) (*models.Newsletter, error) {
	sub, err := s.repo.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if sub.IsActive {
		now := s.now()
		sub.IsActive = false
		sub.UnsubscribedAt = &now
		if err := s.repo.Save(ctx, nil, sub); err != nil {
			return nil, apperr.Internal("deactivate subscription", err)
		}
	}
	return sub, nil
}
