package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:text;primaryKey" json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email" validate:"required,email,max=254"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name" validate:"required,max=30"`
	LastName     string     `json:"last_name" validate:"required,max=30"`
	IsActive     bool       `json:"is_active"`
	IsAdmin      bool       `json:"is_admin"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Profile is the one-per-user public presentation record.
type Profile struct {
	ID                 uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:text;not null" json:"user_id"`
	FullName           string    `json:"full_name" validate:"max=100"`
	Tagline            string    `json:"tagline" validate:"max=200"`
	Bio                string    `json:"bio"`
	Email              string    `json:"email" validate:"omitempty,email,max=254"`
	Phone              string    `json:"phone" validate:"max=20"`
	Location           string    `json:"location" validate:"max=100"`
	Website            string    `json:"website" validate:"omitempty,url,max=500"`
	AvatarPath         string    `json:"avatar_path"`
	ResumePath         string    `json:"resume_path"`
	YearsExperience    int       `json:"years_experience" validate:"gte=0"`
	ProjectsCompleted  int       `json:"projects_completed" validate:"gte=0"`
	HappyClients       int       `json:"happy_clients" validate:"gte=0"`
	MetaDescription    string    `json:"meta_description" validate:"max=160"`
	MetaKeywords       string    `json:"meta_keywords" validate:"max=255"`
	GithubUsername     string    `json:"github_username" validate:"max=100"`
	LinkedinURL        string    `gorm:"column:linkedin_url" json:"linkedin_url" validate:"omitempty,url,max=500"`
	TwitterUsername    string    `json:"twitter_username" validate:"max=100"`
	IsPublic           bool      `json:"is_public"`
	IsActive           bool      `json:"is_active"`
	EmailNotifications bool      `json:"email_notifications"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// NewProfile is the default profile created alongside a user.
func NewProfile(u *User) *Profile {
	return &Profile{
		ID:                 uuid.New(),
		UserID:             u.ID,
		FullName:           u.FullName(),
		Email:              u.Email,
		IsPublic:           true,
		IsActive:           true,
		EmailNotifications: true,
	}
}

func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// SettingsInput carries the account and profile fields an owner may edit.
type SettingsInput struct {
	FirstName          *string `json:"first_name" form:"first_name"`
	LastName           *string `json:"last_name" form:"last_name"`
	Email              *string `json:"email" form:"email"`
	FullName           *string `json:"full_name" form:"full_name"`
	Tagline            *string `json:"tagline" form:"tagline"`
	Bio                *string `json:"bio" form:"bio"`
	ProfileEmail       *string `json:"profile_email" form:"profile_email"`
	Phone              *string `json:"phone" form:"phone"`
	Location           *string `json:"location" form:"location"`
	Website            *string `json:"website" form:"website"`
	YearsExperience    *int    `json:"years_experience" form:"years_experience"`
	ProjectsCompleted  *int    `json:"projects_completed" form:"projects_completed"`
	HappyClients       *int    `json:"happy_clients" form:"happy_clients"`
	MetaDescription    *string `json:"meta_description" form:"meta_description"`
	MetaKeywords       *string `json:"meta_keywords" form:"meta_keywords"`
	GithubUsername     *string `json:"github_username" form:"github_username"`
	LinkedinURL        *string `json:"linkedin_url" form:"linkedin_url"`
	TwitterUsername    *string `json:"twitter_username" form:"twitter_username"`
	IsPublic           *bool   `json:"is_public" form:"is_public"`
	EmailNotifications *bool   `json:"email_notifications" form:"email_notifications"`
}

func (in *SettingsInput) ApplyToUser(u *User) {
	setString(&u.FirstName, in.FirstName)
	setString(&u.LastName, in.LastName)
	if in.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
}

func (in *SettingsInput) ApplyToProfile(p *Profile) {
	setString(&p.FullName, in.FullName)
	setString(&p.Tagline, in.Tagline)
	setString(&p.Bio, in.Bio)
	setString(&p.Email, in.ProfileEmail)
	setString(&p.Phone, in.Phone)
	setString(&p.Location, in.Location)
	setString(&p.Website, in.Website)
	setInt(&p.YearsExperience, in.YearsExperience)
	setInt(&p.ProjectsCompleted, in.ProjectsCompleted)
	setInt(&p.HappyClients, in.HappyClients)
	setString(&p.MetaDescription, in.MetaDescription)
	setString(&p.MetaKeywords, in.MetaKeywords)
	setString(&p.GithubUsername, in.GithubUsername)
	setString(&p.LinkedinURL, in.LinkedinURL)
	setString(&p.TwitterUsername, in.TwitterUsername)
	setBool(&p.IsPublic, in.IsPublic)
	setBool(&p.EmailNotifications, in.EmailNotifications)
}

// RegisterInput is the self-service sign-up form.
type RegisterInput struct {
	Email           string `json:"email" form:"email" validate:"required,email,max=254"`
	FirstName       string `json:"first_name" form:"first_name" validate:"required,max=30"`
	LastName        string `json:"last_name" form:"last_name" validate:"required,max=30"`
	Password        string `json:"password" form:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
