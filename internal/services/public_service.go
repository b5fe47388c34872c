package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/config"
	"github.com/joshua-takyi/folio/internal/models"
)

// PublicService reads what anonymous visitors may see: active rows of
// owners whose profile is public and active.
type PublicService struct {
	repos  *models.Repos
	site   config.SiteConfig
	logger *slog.Logger
}

func NewPublicService(repos *models.Repos, site config.SiteConfig, logger *slog.Logger) *PublicService {
	return &PublicService{repos: repos, site: site, logger: logger.With("service", "public")}
}

type SiteInfo struct {
	Name        string            `json:"name"`
	Tagline     string            `json:"tagline"`
	SocialMedia map[string]string `json:"social_media"`
}

type HomePage struct {
	Site             SiteInfo             `json:"site"`
	Profile          *models.Profile      `json:"profile"`
	FeaturedProjects []models.Project     `json:"featured_projects"`
	SocialLinks      []models.SocialLink  `json:"social_links"`
	Testimonials     []models.Testimonial `json:"testimonials"`
	FeaturedSkills   []models.Skill       `json:"featured_skills"`
	FeaturedServices []models.Service     `json:"featured_services"`
}

type AboutPage struct {
	Site           SiteInfo               `json:"site"`
	Profile        *models.Profile        `json:"profile"`
	Skills         []models.Skill         `json:"skills"`
	Education      []models.Education     `json:"education"`
	Certifications []models.Certification `json:"certifications"`
	SocialLinks    []models.SocialLink    `json:"social_links"`
}

type SkillsPage struct {
	Categories     map[string][]models.Skill `json:"categories"`
	Education      []models.Education        `json:"education"`
	Certifications []models.Certification    `json:"certifications"`
}

func (s *PublicService) Site() SiteInfo {
	return SiteInfo{Name: s.site.Name, Tagline: s.site.Tagline, SocialMedia: s.site.SocialMedia}
}

// SocialURL is the configured site-wide link for platform.
func (s *PublicService) SocialURL(platform string) (string, error) {
	if url, ok := s.site.SocialMedia[platform]; ok && url != "" {
		return url, nil
	}
	return "", apperr.NotFound("social link")
}

func (s *PublicService) publicOwners(ctx context.Context) ([]*models.Profile, []uuid.UUID, error) {
	profiles, err := s.repos.Profiles.ListPublic(ctx, nil)
	if err != nil {
		return nil, nil, apperr.Internal("list public profiles", err)
	}
	ids := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	return profiles, ids, nil
}

// primary is the oldest public profile; the home and about pages present a
// single portfolio.
func (s *PublicService) primary(ctx context.Context) (*models.Profile, []uuid.UUID, error) {
	profiles, _, err := s.publicOwners(ctx)
	if err != nil || len(profiles) == 0 {
		return nil, nil, err
	}
	return profiles[0], []uuid.UUID{profiles[0].UserID}, nil
}

func (s *PublicService) Home(ctx context.Context) (*HomePage, error) {
	page := &HomePage{
		Site:             s.Site(),
		FeaturedProjects: []models.Project{},
		SocialLinks:      []models.SocialLink{},
		Testimonials:     []models.Testimonial{},
		FeaturedSkills:   []models.Skill{},
		FeaturedServices: []models.Service{},
	}
	profile, owner, err := s.primary(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return page, nil
	}
	page.Profile = profile

	featured := map[string]any{"is_featured": true}
	if page.FeaturedProjects, err = s.repos.Projects.ListPublic(ctx, nil, owner, models.ListQuery{Limit: 6, Where: featured}); err != nil {
		return nil, apperr.Internal("home projects", err)
	}
	if page.SocialLinks, err = s.repos.SocialLinks.ListPublic(ctx, nil, owner, models.ListQuery{}); err != nil {
		return nil, apperr.Internal("home social links", err)
	}
	if page.Testimonials, err = s.repos.Testimonials.ListPublic(ctx, nil, owner, models.ListQuery{Limit: 3}); err != nil {
		return nil, apperr.Internal("home testimonials", err)
	}
	if page.FeaturedSkills, err = s.repos.Skills.ListPublic(ctx, nil, owner, models.ListQuery{Limit: 8, Where: featured}); err != nil {
		return nil, apperr.Internal("home skills", err)
	}
	if page.FeaturedServices, err = s.repos.Services.ListPublic(ctx, nil, owner, models.ListQuery{Limit: 3, Where: featured}); err != nil {
		return nil, apperr.Internal("home services", err)
	}
	return page, nil
}

func (s *PublicService) About(ctx context.Context) (*AboutPage, error) {
	profile, owner, err := s.primary(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NotFound("profile")
	}
	page := &AboutPage{Site: s.Site(), Profile: profile}
	if page.Skills, err = s.repos.Skills.ListPublic(ctx, nil, owner, models.ListQuery{}); err != nil {
		return nil, apperr.Internal("about skills", err)
	}
	if page.Education, err = s.repos.Education.ListPublic(ctx, nil, owner, models.ListQuery{}); err != nil {
		return nil, apperr.Internal("about education", err)
	}
	if page.Certifications, err = s.repos.Certifications.ListPublic(ctx, nil, owner, models.ListQuery{}); err != nil {
		return nil, apperr.Internal("about certifications", err)
	}
	if page.SocialLinks, err = s.repos.SocialLinks.ListPublic(ctx, nil, owner, models.ListQuery{}); err != nil {
		return nil, apperr.Internal("about social links", err)
	}
	return page, nil
}

// ProjectFilter narrows the public project list.
type ProjectFilter struct {
	Status   string
	Featured bool
}

func (s *PublicService) Projects(ctx context.Context, f ProjectFilter, page Page) ([]models.Project, error) {
	_, owners, err := s.publicOwners(ctx)
	if err != nil {
		return nil, err
	}
	where := map[string]any{}
	if f.Status != "" {
		where["status"] = f.Status
	}
	if f.Featured {
		where["is_featured"] = true
	}
	rows, err := s.repos.Projects.ListPublic(ctx, nil, owners, models.ListQuery{Offset: page.Offset(), Limit: page.Limit, Where: where})
	if err != nil {
		return nil, apperr.Internal("list projects", err)
	}
	return rows, nil
}

func (s *PublicService) Project(ctx context.Context, ref string) (*models.Project, error) {
	_, owners, err := s.publicOwners(ctx)
	if err != nil {
		return nil, err
	}
	return s.repos.Projects.GetPublic(ctx, nil, owners, ref)
}

func (s *PublicService) Skills(ctx context.Context) (*SkillsPage, error) {
	_, owners, err := s.publicOwners(ctx)
	if err != nil {
		return nil, err
	}
	skills, err := s.repos.Skills.ListPublic(ctx, nil, owners, models.ListQuery{})
	if err != nil {
		return nil, apperr.Internal("list skills", err)
	}
	page := &SkillsPage{Categories: map[string][]models.Skill{}}
	for _, sk := range skills {
		page.Categories[sk.Category] = append(page.Categories[sk.Category], sk)
	}
	if page.Education, err = s.repos.Education.ListPublic(ctx, nil, owners, models.ListQuery{}); err != nil {
		return nil, apperr.Internal("list education", err)
	}
	if page.Certifications, err = s.repos.Certifications.ListPublic(ctx, nil, owners, models.ListQuery{}); err != nil {
		return nil, apperr.Internal("list certifications", err)
	}
	return page, nil
}

func (s *PublicService) Services(ctx context.Context, page Page) ([]models.Service, error) {
	_, owners, err := s.publicOwners(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.Services.ListPublic(ctx, nil, owners, models.ListQuery{Offset: page.Offset(), Limit: page.Limit})
	if err != nil {
		return nil, apperr.Internal("list services", err)
	}
	return rows, nil
}

func (s *PublicService) Service(ctx context.Context, ref string) (*models.Service, error) {
	_, owners, err := s.publicOwners(ctx)
	if err != nil {
		return nil, err
	}
	return s.repos.Services.GetPublic(ctx, nil, owners, ref)
}
