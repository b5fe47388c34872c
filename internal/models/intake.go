package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusNew      = "new"
	StatusRead     = "read"
	StatusReplied  = "replied"
	StatusArchived = "archived"

	PriorityNormal = "normal"
)

type ContactMessage struct {
	ID         uuid.UUID  `gorm:"type:text;primaryKey" json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Company    string     `json:"company"`
	Subject    string     `json:"subject"`
	Message    string     `json:"message"`
	IPAddress  string     `gorm:"column:ip_address" json:"ip_address"`
	UserAgent  string     `json:"user_agent"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	AdminNotes string     `json:"admin_notes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	RepliedAt  *time.Time `json:"replied_at,omitempty"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

// ContactInput is the public contact form.
type ContactInput struct {
	Name    string `json:"name" form:"name" validate:"required,max=200"`
	Email   string `json:"email" form:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" form:"phone" validate:"max=20"`
	Company string `json:"company" form:"company" validate:"max=200"`
	Subject string `json:"subject" form:"subject" validate:"required,max=200"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
}

const MinMessageLength = 10

func (in *ContactInput) Check() map[string]string {
	if n := len([]rune(in.Message)); n > 0 && n < MinMessageLength {
		return map[string]string{"message": "Message must be at least 10 characters long."}
	}
	return nil
}

// Origin records where a submission came from.
type Origin struct {
	IP        string
	UserAgent string
}

// ContactFilter narrows the admin inbox.
type ContactFilter struct {
	Status   string
	Priority string
	Offset   int
	Limit    int
}

type ContactUpdate struct {
	Priority   *string `json:"priority" form:"priority" validate:"omitempty,oneof=low normal high urgent"`
	AdminNotes *string `json:"admin_notes" form:"admin_notes"`
}

type Newsletter struct {
	ID                uuid.UUID  `gorm:"type:text;primaryKey" json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	IsActive          bool       `json:"is_active"`
	IsVerified        bool       `json:"is_verified"`
	Frequency         string     `json:"frequency"`
	SubscribedAt      time.Time  `json:"subscribed_at"`
	UnsubscribedAt    *time.Time `json:"unsubscribed_at,omitempty"`
	VerificationToken string     `json:"-"`
}

func (Newsletter) TableName() string { return "newsletters" }

type SubscribeInput struct {
	Email     string `json:"email" form:"email" validate:"required,email,max=254"`
	Name      string `json:"name" form:"name" validate:"max=100"`
	Frequency string `json:"frequency" form:"frequency" validate:"omitempty,oneof=weekly monthly quarterly"`
}

type UnsubscribeInput struct {
	Email string `json:"email" form:"email" validate:"required,email,max=254"`
}

type NewsletterFilter struct {
	Active   *bool
	Verified *bool
	Offset   int
	Limit    int
}

const (
	InquiryNew        = "new"
	InquiryContacted  = "contacted"
	InquiryInProgress = "in_progress"
	InquiryCompleted  = "completed"
	InquiryCancelled  = "cancelled"
)

type ServiceInquiry struct {
	ID        uuid.UUID  `gorm:"type:text;primaryKey" json:"id"`
	ServiceID *uuid.UUID `gorm:"type:text" json:"service_id"`
	OwnerID   uuid.UUID  `gorm:"type:text;not null" json:"owner_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Company   string     `json:"company"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	Budget    string     `json:"budget"`
	Timeline  string     `json:"timeline"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (ServiceInquiry) TableName() string { return "service_inquiries" }

type InquiryInput struct {
	ContactInput
	Budget   string `json:"budget" form:"budget" validate:"max=100"`
	Timeline string `json:"timeline" form:"timeline" validate:"max=100"`
}

type InquiryUpdate struct {
	Status *string `json:"status" form:"status" validate:"omitempty,oneof=new contacted in_progress completed cancelled"`
	Notes  *string `json:"notes" form:"notes"`
}
