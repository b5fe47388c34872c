package models

import "gorm.io/gorm"

type (
	ProjectRepo       = ContentRepo[Project, *Project]
	SocialLinkRepo    = ContentRepo[SocialLink, *SocialLink]
	TestimonialRepo   = ContentRepo[Testimonial, *Testimonial]
	SkillRepo         = ContentRepo[Skill, *Skill]
	EducationRepo     = ContentRepo[Education, *Education]
	CertificationRepo = ContentRepo[Certification, *Certification]
	ServiceRepo       = ContentRepo[Service, *Service]
)

// Repos bundles every repository over one database handle.
type Repos struct {
	Users          UserRepo
	Profiles       ProfileRepo
	Projects       *ProjectRepo
	SocialLinks    *SocialLinkRepo
	Testimonials   *TestimonialRepo
	Skills         *SkillRepo
	Education      *EducationRepo
	Certifications *CertificationRepo
	Services       *ServiceRepo
	Contacts       ContactRepo
	Newsletters    NewsletterRepo
	Inquiries      InquiryRepo
}

func NewRepos(db *gorm.DB) *Repos {
	return &Repos{
		Users:          NewUserRepo(db),
		Profiles:       NewProfileRepo(db),
		Projects:       NewContentRepo[Project](db),
		SocialLinks:    NewContentRepo[SocialLink](db),
		Testimonials:   NewContentRepo[Testimonial](db),
		Skills:         NewContentRepo[Skill](db),
		Education:      NewContentRepo[Education](db),
		Certifications: NewContentRepo[Certification](db),
		Services:       NewContentRepo[Service](db),
		Contacts:       NewContactRepo(db),
		Newsletters:    NewNewsletterRepo(db),
		Inquiries:      NewInquiryRepo(db),
	}
}
