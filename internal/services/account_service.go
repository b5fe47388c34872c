package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/storage"
	"gorm.io/gorm"
)

// AccountService covers what a signed-in owner does with their own account:
// the dashboard, settings and uploaded files.
type AccountService struct {
	db     *gorm.DB
	repos  *models.Repos
	store  storage.Store
	logger *slog.Logger
}

func NewAccountService(db *gorm.DB, repos *models.Repos, store storage.Store, logger *slog.Logger) *AccountService {
	return &AccountService{db: db, repos: repos, store: store, logger: logger.With("service", "account")}
}

type Dashboard struct {
	User           *models.User     `json:"user"`
	Profile        *models.Profile  `json:"profile"`
	Counts         map[string]int64 `json:"counts"`
	RecentProjects []models.Project `json:"recent_projects"`
}

type Settings struct {
	User    *models.User    `json:"user"`
	Profile *models.Profile `json:"profile"`
}

func (s *AccountService) Dashboard(ctx context.Context, p models.Principal) (*Dashboard, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	settings, err := s.Settings(ctx, p)
	if err != nil {
		return nil, err
	}

	counters := map[string]func(context.Context, *gorm.DB, models.Principal) (int64, error){
		"projects":       s.repos.Projects.Count,
		"skills":         s.repos.Skills.Count,
		"education":      s.repos.Education.Count,
		"certifications": s.repos.Certifications.Count,
		"services":       s.repos.Services.Count,
		"social_links":   s.repos.SocialLinks.Count,
		"testimonials":   s.repos.Testimonials.Count,
		"open_inquiries": s.repos.Inquiries.CountOpen,
	}
	counts := make(map[string]int64, len(counters))
	for name, count := range counters {
		n, err := count(ctx, nil, p)
		if err != nil {
			return nil, apperr.Internal("count "+name, err)
		}
		counts[name] = n
	}

	// an admin's dashboard still shows only their own recent work
	own := models.Principal{UserID: p.UserID}
	recent, _, err := s.repos.Projects.List(ctx, nil, own, models.ListQuery{Limit: 5})
	if err != nil {
		return nil, apperr.Internal("recent projects", err)
	}

	return &Dashboard{
		User:           settings.User,
		Profile:        settings.Profile,
		Counts:         counts,
		RecentProjects: recent,
	}, nil
}

func (s *AccountService) Settings(ctx context.Context, p models.Principal) (*Settings, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	user, err := s.repos.Users.GetByID(ctx, nil, p.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repos.Profiles.GetByUser(ctx, nil, p.UserID)
	if err != nil {
		return nil, err
	}
	return &Settings{User: user, Profile: profile}, nil
}

// UpdateSettings applies in to the principal's user and profile in one
// transaction.
func (s *AccountService) UpdateSettings(ctx context.Context, p models.Principal, in models.SettingsInput) (*Settings, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	var out Settings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.repos.Users.GetByID(ctx, tx, p.UserID)
		if err != nil {
			return err
		}
		profile, err := s.repos.Profiles.GetByUser(ctx, tx, p.UserID)
		if err != nil {
			return err
		}

		in.ApplyToUser(user)
		in.ApplyToProfile(profile)
		if err := mergeValidation(models.ValidateStruct(user), models.ValidateStruct(profile)); err != nil {
			return err
		}

		taken, err := s.repos.Users.EmailTaken(ctx, tx, user.Email, user.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Field("email", "A user with this email already exists.")
		}

		if err := s.repos.Users.Save(ctx, tx, user); err != nil {
			return err
		}
		if err := s.repos.Profiles.Save(ctx, tx, profile); err != nil {
			return err
		}
		out = Settings{User: user, Profile: profile}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return nil, apperr.Internal("update settings", err)
		}
		return nil, err
	}
	return &out, nil
}

// UploadAvatar and UploadResume store the file and point the profile at
// it. The previous file is removed once the profile is saved.
func (s *AccountService) UploadAvatar(ctx context.Context, p models.Principal, up storage.Upload) (*models.Profile, error) {
	return s.uploadProfileFile(ctx, p, storage.Avatar, up, func(pr *models.Profile) *string { return &pr.AvatarPath })
}

func (s *AccountService) UploadResume(ctx context.Context, p models.Principal, up storage.Upload) (*models.Profile, error) {
	return s.uploadProfileFile(ctx, p, storage.Resume, up, func(pr *models.Profile) *string { return &pr.ResumePath })
}

func (s *AccountService) uploadProfileFile(ctx context.Context, p models.Principal, kind storage.Kind, up storage.Upload, field func(*models.Profile) *string) (*models.Profile, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	profile, err := s.repos.Profiles.GetByUser(ctx, nil, p.UserID)
	if err != nil {
		return nil, err
	}

	key, err := storage.Save(ctx, s.store, kind, p.UserID, up)
	if err != nil {
		return nil, err
	}
	slot := field(profile)
	previous := *slot
	*slot = key
	if err := s.repos.Profiles.Save(ctx, nil, profile); err != nil {
		s.removeBlob(ctx, key)
		return nil, apperr.Internal("save profile", err)
	}
	s.removeBlob(ctx, previous)
	return profile, nil
}

// AttachProjectImage stores an image for a project the principal can edit.
func (s *AccountService) AttachProjectImage(ctx context.Context, projects *ContentService[models.Project, *models.Project], p models.Principal, ref string, kind storage.Kind, up storage.Upload) (*models.Project, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	current, err := projects.Get(ctx, p, ref)
	if err != nil {
		return nil, err
	}
	key, err := storage.Save(ctx, s.store, kind, current.OwnerID, up)
	if err != nil {
		return nil, err
	}

	var previous string
	updated, err := projects.Mutate(ctx, p, ref, func(pr *models.Project) error {
		if kind.Field == storage.FeaturedImage.Field {
			previous, pr.FeaturedImagePath = pr.FeaturedImagePath, key
		} else {
			previous, pr.ThumbnailPath = pr.ThumbnailPath, key
		}
		return nil
	})
	if err != nil {
		s.removeBlob(ctx, key)
		return nil, err
	}
	s.removeBlob(ctx, previous)
	return updated, nil
}

func (s *AccountService) removeBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to remove blob", "key", key, "error", err)
	}
}

// MediaURL resolves a stored key to a URL clients can fetch.
func (s *AccountService) MediaURL(ctx context.Context, key string) (string, error) {
	return s.store.URL(ctx, key)
}

func mergeValidation(errs ...error) error {
	fields := map[string]string{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !apperr.Is(err, apperr.KindValidation) {
			return err
		}
		var ae *apperr.Error
		if errors.As(err, &ae) {
			for k, v := range ae.Fields {
				fields[k] = v
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperr.Validation("validation failed", fields)
}
