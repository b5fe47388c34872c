package models

import "strings"

// Input is a partial update for a content model. Fields left nil keep their
// current value; there is deliberately no owner field.
type Input[T any] interface {
	ApplyTo(*T)
}

type common struct {
	IsActive  *bool `json:"is_active" form:"is_active"`
	SortOrder *int  `json:"order" form:"order"`
}

func (c common) apply(b *OwnedBase) {
	setBool(&b.IsActive, c.IsActive)
	setInt(&b.SortOrder, c.SortOrder)
}

type ProjectInput struct {
	common
	Title            *string `json:"title" form:"title"`
	Slug             *string `json:"slug" form:"slug"`
	Description      *string `json:"description" form:"description"`
	ShortDescription *string `json:"short_description" form:"short_description"`
	GithubURL        *string `json:"github_url" form:"github_url"`
	LiveURL          *string `json:"live_url" form:"live_url"`
	DemoURL          *string `json:"demo_url" form:"demo_url"`
	Technologies     *string `json:"technologies" form:"technologies"`
	Status           *string `json:"status" form:"status"`
	StartDate        *Date   `json:"start_date" form:"start_date"`
	EndDate          *Date   `json:"end_date" form:"end_date"`
	IsFeatured       *bool   `json:"is_featured" form:"is_featured"`
}

func (in ProjectInput) ApplyTo(p *Project) {
	in.apply(&p.OwnedBase)
	setString(&p.Title, in.Title)
	if in.Slug != nil {
		p.Slug = strings.ToLower(strings.TrimSpace(*in.Slug))
	}
	setString(&p.Description, in.Description)
	setString(&p.ShortDescription, in.ShortDescription)
	setString(&p.GithubURL, in.GithubURL)
	setString(&p.LiveURL, in.LiveURL)
	setString(&p.DemoURL, in.DemoURL)
	setString(&p.Technologies, in.Technologies)
	setString(&p.Status, in.Status)
	setDate(&p.StartDate, in.StartDate)
	setDate(&p.EndDate, in.EndDate)
	setBool(&p.IsFeatured, in.IsFeatured)
}

type SocialLinkInput struct {
	common
	Platform  *string `json:"platform" form:"platform"`
	URL       *string `json:"url" form:"url"`
	IconClass *string `json:"icon_class" form:"icon_class"`
}

func (in SocialLinkInput) ApplyTo(s *SocialLink) {
	in.apply(&s.OwnedBase)
	if in.Platform != nil {
		s.Platform = strings.ToLower(strings.TrimSpace(*in.Platform))
	}
	setString(&s.URL, in.URL)
	setString(&s.IconClass, in.IconClass)
}

type TestimonialInput struct {
	common
	Name        *string `json:"name" form:"name"`
	Position    *string `json:"position" form:"position"`
	Company     *string `json:"company" form:"company"`
	Testimonial *string `json:"testimonial" form:"testimonial"`
	Rating      *int    `json:"rating" form:"rating"`
}

func (in TestimonialInput) ApplyTo(t *Testimonial) {
	in.apply(&t.OwnedBase)
	setString(&t.Name, in.Name)
	setString(&t.Position, in.Position)
	setString(&t.Company, in.Company)
	setString(&t.Testimonial, in.Testimonial)
	setInt(&t.Rating, in.Rating)
}

type SkillInput struct {
	common
	Name        *string `json:"name" form:"name"`
	Category    *string `json:"category" form:"category"`
	Proficiency *int    `json:"proficiency" form:"proficiency"`
	IconClass   *string `json:"icon_class" form:"icon_class"`
	Color       *string `json:"color" form:"color"`
	Description *string `json:"description" form:"description"`
	IsFeatured  *bool   `json:"is_featured" form:"is_featured"`
}

func (in SkillInput) ApplyTo(s *Skill) {
	in.apply(&s.OwnedBase)
	setString(&s.Name, in.Name)
	setString(&s.Category, in.Category)
	setInt(&s.Proficiency, in.Proficiency)
	setString(&s.IconClass, in.IconClass)
	setString(&s.Color, in.Color)
	setString(&s.Description, in.Description)
	setBool(&s.IsFeatured, in.IsFeatured)
}

type EducationInput struct {
	common
	Institution  *string `json:"institution" form:"institution"`
	Degree       *string `json:"degree" form:"degree"`
	FieldOfStudy *string `json:"field_of_study" form:"field_of_study"`
	Description  *string `json:"description" form:"description"`
	StartDate    *Date   `json:"start_date" form:"start_date"`
	EndDate      *Date   `json:"end_date" form:"end_date"`
	IsCurrent    *bool   `json:"is_current" form:"is_current"`
	GPA          *string `json:"gpa" form:"gpa"`
	Location     *string `json:"location" form:"location"`
}

func (in EducationInput) ApplyTo(e *Education) {
	in.apply(&e.OwnedBase)
	setString(&e.Institution, in.Institution)
	setString(&e.Degree, in.Degree)
	setString(&e.FieldOfStudy, in.FieldOfStudy)
	setString(&e.Description, in.Description)
	setDate(&e.StartDate, in.StartDate)
	setDate(&e.EndDate, in.EndDate)
	setBool(&e.IsCurrent, in.IsCurrent)
	setString(&e.GPA, in.GPA)
	setString(&e.Location, in.Location)
}

type CertificationInput struct {
	common
	Name                *string `json:"name" form:"name"`
	IssuingOrganization *string `json:"issuing_organization" form:"issuing_organization"`
	CredentialID        *string `json:"credential_id" form:"credential_id"`
	CredentialURL       *string `json:"credential_url" form:"credential_url"`
	IssueDate           *Date   `json:"issue_date" form:"issue_date"`
	ExpiryDate          *Date   `json:"expiry_date" form:"expiry_date"`
	Description         *string `json:"description" form:"description"`
}

func (in CertificationInput) ApplyTo(c *Certification) {
	in.apply(&c.OwnedBase)
	setString(&c.Name, in.Name)
	setString(&c.IssuingOrganization, in.IssuingOrganization)
	setString(&c.CredentialID, in.CredentialID)
	setString(&c.CredentialURL, in.CredentialURL)
	setDate(&c.IssueDate, in.IssueDate)
	setDate(&c.ExpiryDate, in.ExpiryDate)
	setString(&c.Description, in.Description)
}

type ServiceInput struct {
	common
	Title            *string  `json:"title" form:"title"`
	Slug             *string  `json:"slug" form:"slug"`
	ShortDescription *string  `json:"short_description" form:"short_description"`
	Description      *string  `json:"description" form:"description"`
	IconClass        *string  `json:"icon_class" form:"icon_class"`
	Color            *string  `json:"color" form:"color"`
	PriceStarting    *float64 `json:"price_starting" form:"price_starting"`
	ClearPrice       bool     `json:"clear_price" form:"clear_price"`
	PriceCurrency    *string  `json:"price_currency" form:"price_currency"`
	PricingModel     *string  `json:"pricing_model" form:"pricing_model"`
	Features         *string  `json:"features" form:"features"`
	DeliveryTime     *string  `json:"delivery_time" form:"delivery_time"`
	IsFeatured       *bool    `json:"is_featured" form:"is_featured"`
}

func (in ServiceInput) ApplyTo(s *Service) {
	in.apply(&s.OwnedBase)
	setString(&s.Title, in.Title)
	if in.Slug != nil {
		s.Slug = strings.ToLower(strings.TrimSpace(*in.Slug))
	}
	setString(&s.ShortDescription, in.ShortDescription)
	setString(&s.Description, in.Description)
	setString(&s.IconClass, in.IconClass)
	setString(&s.Color, in.Color)
	if in.ClearPrice {
		s.PriceStarting = nil
	} else if in.PriceStarting != nil {
		price := *in.PriceStarting
		s.PriceStarting = &price
	}
	setString(&s.PriceCurrency, in.PriceCurrency)
	setString(&s.PricingModel, in.PricingModel)
	if in.Features != nil {
		s.Features = strings.TrimSpace(*in.Features)
	}
	setString(&s.DeliveryTime, in.DeliveryTime)
	setBool(&s.IsFeatured, in.IsFeatured)
}

func setDate(dst *Date, v *Date) {
	if v != nil {
		*dst = *v
	}
}
