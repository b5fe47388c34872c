package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBase holds the columns shared by every owner-scoped content table.
type OwnedBase struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:text;not null" json:"owner_id"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *OwnedBase) Base() *OwnedBase { return b }

// Owned is satisfied by pointers to every content model.
type Owned interface {
	Base() *OwnedBase
}

// OwnedPtr constrains P to be *T with the Owned methods.
type OwnedPtr[T any] interface {
	*T
	Owned
}

// Sluggable models get a per-owner unique slug derived from SlugSource.
type Sluggable interface {
	SlugSource() string
	CurrentSlug() string
	SetSlug(string)
}

// Defaulter sets the values a freshly created row starts with.
type Defaulter interface {
	ApplyDefaults()
}

// Normalizer derives stored fields after input has been applied.
type Normalizer interface {
	Normalize()
}

const (
	ProjectCompleted = "completed"
	ProjectOngoing   = "ongoing"
	ProjectPlanned   = "planned"
)

type Project struct {
	OwnedBase
	Title             string `json:"title" validate:"required,max=200"`
	Slug              string `json:"slug" validate:"max=200"`
	Description       string `json:"description"`
	ShortDescription  string `json:"short_description" validate:"max=300"`
	ThumbnailPath     string `json:"thumbnail_path"`
	FeaturedImagePath string `json:"featured_image_path"`
	GithubURL         string `gorm:"column:github_url" json:"github_url" validate:"omitempty,url,max=500"`
	LiveURL           string `gorm:"column:live_url" json:"live_url" validate:"omitempty,url,max=500"`
	DemoURL           string `gorm:"column:demo_url" json:"demo_url" validate:"omitempty,url,max=500"`
	Technologies      string `json:"technologies" validate:"max=500"`
	Status            string `json:"status" validate:"oneof=completed ongoing planned"`
	StartDate         Date   `json:"start_date"`
	EndDate           Date   `json:"end_date"`
	GithubRepoName    string `json:"github_repo_name" validate:"max=200"`
	GithubStars       int    `json:"github_stars"`
	GithubForks       int    `json:"github_forks"`
	GithubLanguage    string `json:"github_language" validate:"max=50"`
	IsFeatured        bool   `json:"is_featured"`

	TechnologiesList []string `gorm:"-" json:"technologies_list"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) SlugSource() string  { return p.Title }
func (p *Project) CurrentSlug() string { return p.Slug }
func (p *Project) SetSlug(s string)    { p.Slug = s }

func (p *Project) ApplyDefaults() {
	p.IsActive = true
	p.Status = ProjectCompleted
}

func (p *Project) Check() map[string]string {
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return map[string]string{"end_date": "End date cannot be before start date."}
	}
	return nil
}

func (p *Project) AfterFind(*gorm.DB) error { p.derive(); return nil }
func (p *Project) AfterSave(*gorm.DB) error { p.derive(); return nil }

func (p *Project) derive() {
	p.TechnologiesList = splitList(p.Technologies, ",")
}

var platformIcons = map[string]string{
	"github":        "fab fa-github",
	"linkedin":      "fab fa-linkedin",
	"twitter":       "fab fa-twitter",
	"facebook":      "fab fa-facebook",
	"instagram":     "fab fa-instagram",
	"youtube":       "fab fa-youtube",
	"medium":        "fab fa-medium",
	"stackoverflow": "fab fa-stack-overflow",
}

// PlatformIcon is the icon class used when a link does not set its own.
func PlatformIcon(platform string) string {
	if icon, ok := platformIcons[platform]; ok {
		return icon
	}
	return "fas fa-link"
}

type SocialLink struct {
	OwnedBase
	Platform  string `json:"platform" validate:"required,oneof=github linkedin twitter facebook instagram youtube medium stackoverflow other"`
	URL       string `gorm:"column:url" json:"url" validate:"required,url,max=500"`
	IconClass string `json:"icon_class" validate:"max=100"`
}

func (SocialLink) TableName() string { return "social_links" }

func (s *SocialLink) ApplyDefaults() { s.IsActive = true }

func (s *SocialLink) Normalize() {
	if s.IconClass == "" {
		s.IconClass = PlatformIcon(s.Platform)
	}
}

type Testimonial struct {
	OwnedBase
	Name        string `json:"name" validate:"required,max=100"`
	Position    string `json:"position" validate:"max=100"`
	Company     string `json:"company" validate:"max=100"`
	Testimonial string `json:"testimonial" validate:"required"`
	AvatarPath  string `json:"avatar_path"`
	Rating      int    `json:"rating" validate:"gte=1,lte=5"`
}

func (Testimonial) TableName() string { return "testimonials" }

func (t *Testimonial) ApplyDefaults() {
	t.IsActive = true
	t.Rating = 5
}

type Skill struct {
	OwnedBase
	Name        string `json:"name" validate:"required,max=100"`
	Category    string `json:"category" validate:"oneof=frontend backend database devops design soft other"`
	Proficiency int    `json:"proficiency" validate:"gte=0,lte=100"`
	IconClass   string `json:"icon_class" validate:"max=100"`
	Color       string `json:"color" validate:"max=20"`
	Description string `json:"description"`
	IsFeatured  bool   `json:"is_featured"`

	ProficiencyLabel string `gorm:"-" json:"proficiency_label"`
}

func (Skill) TableName() string { return "skills" }

func (s *Skill) ApplyDefaults() {
	s.IsActive = true
	s.Category = "other"
	s.Proficiency = 50
	s.Color = "success"
}

func (s *Skill) AfterFind(*gorm.DB) error { s.derive(); return nil }
func (s *Skill) AfterSave(*gorm.DB) error { s.derive(); return nil }

func (s *Skill) derive() { s.ProficiencyLabel = ProficiencyLabel(s.Proficiency) }

func ProficiencyLabel(p int) string {
	switch {
	case p >= 90:
		return "Expert"
	case p >= 70:
		return "Advanced"
	case p >= 50:
		return "Intermediate"
	default:
		return "Beginner"
	}
}

type Education struct {
	OwnedBase
	Institution  string `json:"institution" validate:"required,max=200"`
	Degree       string `json:"degree" validate:"required,oneof=phd masters bachelors associate diploma certificate bootcamp other"`
	FieldOfStudy string `json:"field_of_study" validate:"required,max=200"`
	Description  string `json:"description"`
	StartDate    Date   `json:"start_date"`
	EndDate      Date   `json:"end_date"`
	IsCurrent    bool   `json:"is_current"`
	GPA          string `gorm:"column:gpa" json:"gpa" validate:"max=10"`
	Location     string `json:"location" validate:"max=100"`
	LogoPath     string `json:"logo_path"`
}

func (Education) TableName() string { return "education" }

func (e *Education) ApplyDefaults() { e.IsActive = true }

func (e *Education) Normalize() {
	if e.IsCurrent {
		e.EndDate = Date{}
	}
}

func (e *Education) Check() map[string]string {
	if e.StartDate.IsZero() {
		return map[string]string{"start_date": "This field is required."}
	}
	if !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
		return map[string]string{"end_date": "End date cannot be before start date."}
	}
	return nil
}

type Certification struct {
	OwnedBase
	Name                string `json:"name" validate:"required,max=200"`
	IssuingOrganization string `json:"issuing_organization" validate:"required,max=200"`
	CredentialID        string `gorm:"column:credential_id" json:"credential_id" validate:"max=100"`
	CredentialURL       string `gorm:"column:credential_url" json:"credential_url" validate:"omitempty,url,max=500"`
	IssueDate           Date   `json:"issue_date"`
	ExpiryDate          Date   `json:"expiry_date"`
	Description         string `json:"description"`
	LogoPath            string `json:"logo_path"`

	IsExpired bool `gorm:"-" json:"is_expired"`
}

func (Certification) TableName() string { return "certifications" }

func (c *Certification) ApplyDefaults() { c.IsActive = true }

func (c *Certification) Check() map[string]string {
	if c.IssueDate.IsZero() {
		return map[string]string{"issue_date": "This field is required."}
	}
	if !c.ExpiryDate.IsZero() && c.ExpiryDate.Before(c.IssueDate) {
		return map[string]string{"expiry_date": "Expiry date cannot be before issue date."}
	}
	return nil
}

func (c *Certification) AfterFind(*gorm.DB) error { c.derive(); return nil }
func (c *Certification) AfterSave(*gorm.DB) error { c.derive(); return nil }

func (c *Certification) derive() {
	c.IsExpired = !c.ExpiryDate.IsZero() && c.ExpiryDate.Before(Date{time.Now().UTC().Truncate(24 * time.Hour)})
}

type Service struct {
	OwnedBase
	Title            string   `json:"title" validate:"required,max=200"`
	Slug             string   `json:"slug" validate:"max=200"`
	ShortDescription string   `json:"short_description" validate:"required,max=300"`
	Description      string   `json:"description" validate:"required"`
	IconClass        string   `json:"icon_class" validate:"max=100"`
	Color            string   `json:"color" validate:"max=20"`
	ImagePath        string   `json:"image_path"`
	PriceStarting    *float64 `json:"price_starting" validate:"omitempty,gte=0"`
	PriceCurrency    string   `json:"price_currency" validate:"len=3"`
	PricingModel     string   `json:"pricing_model" validate:"max=50"`
	Features         string   `json:"features"`
	DeliveryTime     string   `json:"delivery_time" validate:"max=100"`
	IsFeatured       bool     `json:"is_featured"`

	FeaturesList []string `gorm:"-" json:"features_list"`
	PriceDisplay string   `gorm:"-" json:"price_display"`
}

func (Service) TableName() string { return "services" }

func (s *Service) SlugSource() string  { return s.Title }
func (s *Service) CurrentSlug() string { return s.Slug }
func (s *Service) SetSlug(v string)    { s.Slug = v }

func (s *Service) ApplyDefaults() {
	s.IsActive = true
	s.IconClass = "fas fa-code"
	s.Color = "primary"
	s.PriceCurrency = "USD"
}

func (s *Service) Normalize() {
	s.PriceCurrency = strings.ToUpper(s.PriceCurrency)
}

func (s *Service) AfterFind(*gorm.DB) error { s.derive(); return nil }
func (s *Service) AfterSave(*gorm.DB) error { s.derive(); return nil }

func (s *Service) derive() {
	sep := ","
	if strings.Contains(s.Features, "\n") {
		sep = "\n"
	}
	s.FeaturesList = splitList(s.Features, sep)
	s.PriceDisplay = PriceDisplay(s.PriceStarting, s.PriceCurrency, s.PricingModel)
}

// PriceDisplay renders a starting price like "USD 1,200.00 per project".
func PriceDisplay(price *float64, currency, model string) string {
	if price == nil {
		return "Contact for pricing"
	}
	out := currency + " " + formatAmount(*price)
	if model != "" {
		out += " " + model
	}
	return out
}

func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func splitList(raw, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func describe[T any]() string {
	var zero T
	switch any(&zero).(type) {
	case *Project:
		return "project"
	case *SocialLink:
		return "social link"
	case *Testimonial:
		return "testimonial"
	case *Skill:
		return "skill"
	case *Education:
		return "education"
	case *Certification:
		return "certification"
	case *Service:
		return "service"
	default:
		return fmt.Sprintf("%T", zero)
	}
}
