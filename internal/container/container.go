package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshua-takyi/folio/internal/config"
	"github.com/joshua-takyi/folio/internal/connect"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/services"
	"github.com/joshua-takyi/folio/internal/storage"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
	Repos  *models.Repos

	Store storage.Store
	// Local is set when blobs live on local disk and are served by /media.
	Local *storage.LocalStore

	Auth       *services.AuthService
	Account    *services.AccountService
	Public     *services.PublicService
	Contact    *services.ContactService
	Newsletter *services.NewsletterService
	Inquiries  *services.InquiryService
	GitHub     *services.GitHubSyncService

	Projects       *services.ContentService[models.Project, *models.Project]
	SocialLinks    *services.ContentService[models.SocialLink, *models.SocialLink]
	Testimonials   *services.ContentService[models.Testimonial, *models.Testimonial]
	Skills         *services.ContentService[models.Skill, *models.Skill]
	Education      *services.ContentService[models.Education, *models.Education]
	Certifications *services.ContentService[models.Certification, *models.Certification]
	Services       *services.ContentService[models.Service, *models.Service]
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *slog.Logger) (*Container, error) {
	store, local, err := newStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	var notifier services.Notifier = services.NewLogNotifier(logger)
	if cfg.Mail.SendGridAPIKey != "" {
		notifier = services.NewSendGridNotifier(cfg.Mail.SendGridAPIKey, cfg.Mail.FromAddress, cfg.Mail.FromName, cfg.Mail.AdminAddress)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, notifications are only logged")
	}

	repos := models.NewRepos(db)
	auth, err := services.NewAuthService(db, repos, logger, services.AuthConfig{
		BcryptCost: cfg.BcryptCost,
		Secret:     []byte(cfg.SessionSecret),
		SessionTTL: cfg.SessionTTL,
	})
	if err != nil {
		return nil, err
	}

	public := services.NewPublicService(repos, cfg.Site, logger)
	contact := services.NewContactService(repos.Contacts, notifier, cfg.Mail.AdminAddress, cfg.Mail.Timeout, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Repos:  repos,
		Store:  store,
		Local:  local,

		Auth:       auth,
		Account:    services.NewAccountService(db, repos, store, logger),
		Public:     public,
		Contact:    contact,
		Newsletter: services.NewNewsletterService(db, repos.Newsletters, logger),
		Inquiries:  services.NewInquiryService(repos, public, contact, logger),
		GitHub:     services.NewGitHubSyncService(services.NewGitHubSource(cfg.GitHub.Token), repos, logger),

		Projects:       services.NewContentService(repos.Projects, logger),
		SocialLinks:    services.NewContentService(repos.SocialLinks, logger),
		Testimonials:   services.NewContentService(repos.Testimonials, logger),
		Skills:         services.NewContentService(repos.Skills, logger),
		Education:      services.NewContentService(repos.Education, logger),
		Certifications: services.NewContentService(repos.Certifications, logger),
		Services:       services.NewContentService(repos.Services, logger),
	}, nil
}

func newStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Store, *storage.LocalStore, error) {
	switch cfg.Backend {
	case "s3":
		client, err := connect.S3Client(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using s3 storage", "bucket", cfg.S3Bucket)
		return storage.NewS3Store(client, cfg.S3Bucket, cfg.Folder), nil, nil
	case "cloudinary":
		cld, err := connect.CloudinaryCredentials(cfg.CloudinaryURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using cloudinary storage", "folder", cfg.Folder)
		return storage.NewCloudinaryStore(cld, cfg.Folder), nil, nil
	case "local", "":
		local, err := storage.NewLocalStore(cfg.LocalRoot, "/media")
		if err != nil {
			return nil, nil, err
		}
		return local, local, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
