package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
	"gorm.io/gorm"
)

type ContactRepo interface {
	Create(ctx context.Context, tx *gorm.DB, msg *ContactMessage) error
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ContactMessage, error)
	List(ctx context.Context, tx *gorm.DB, f ContactFilter) ([]ContactMessage, int64, error)
	// Transition sets status (and optionally a timestamp column) when the
	// current status is one of from; an empty from allows any state.
	Transition(ctx context.Context, tx *gorm.DB, id uuid.UUID, to string, from []string, stamp string, at time.Time) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error)
}

type contactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) ContactRepo {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, tx *gorm.DB, msg *ContactMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if err := conn(r.db, tx).WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

func (r *contactRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ContactMessage, error) {
	var m ContactMessage
	if err := conn(r.db, tx).WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, notFoundOr(err, "message")
	}
	return &m, nil
}

func (r *contactRepo) List(ctx context.Context, tx *gorm.DB, f ContactFilter) ([]ContactMessage, int64, error) {
	q := conn(r.db, tx).WithContext(ctx).Model(&ContactMessage{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	msgs := []ContactMessage{}
	q = q.Session(&gorm.Session{}).Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (r *contactRepo) Transition(ctx context.Context, tx *gorm.DB, id uuid.UUID, to string, from []string, stamp string, at time.Time) (int64, error) {
	fields := map[string]any{"status": to, "updated_at": at}
	if stamp != "" {
		fields[stamp] = at
	}
	q := conn(r.db, tx).WithContext(ctx).Model(&ContactMessage{}).Where("id = ?", id)
	if len(from) > 0 {
		q = q.Where("status IN ?", from)
	}
	res := q.UpdateColumns(fields)
	return res.RowsAffected, res.Error
}

func (r *contactRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	res := conn(r.db, tx).WithContext(ctx).Model(&ContactMessage{}).Where("id = ?", id).UpdateColumns(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("message")
	}
	return nil
}

func (r *contactRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(r.db, tx).WithContext(ctx).Where("id = ?", id).Delete(&ContactMessage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("message")
	}
	return nil
}

func (r *contactRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error) {
	var n int64
	err := conn(r.db, tx).WithContext(ctx).Model(&ContactMessage{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

type NewsletterRepo interface {
	FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*Newsletter, error)
	FindByToken(ctx context.Context, tx *gorm.DB, token string) (*Newsletter, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Newsletter, error)
	Create(ctx context.Context, tx *gorm.DB, n *Newsletter) error
	Save(ctx context.Context, tx *gorm.DB, n *Newsletter) error
	List(ctx context.Context, tx *gorm.DB, f NewsletterFilter) ([]Newsletter, int64, error)
}

type newsletterRepo struct {
	db *gorm.DB
}

func NewNewsletterRepo(db *gorm.DB) NewsletterRepo {
	return &newsletterRepo{db: db}
}

func (r *newsletterRepo) FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*Newsletter, error) {
	var n Newsletter
	err := conn(r.db, tx).WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&n).Error
	if err != nil {
		return nil, notFoundOr(err, "subscription")
	}
	return &n, nil
}

func (r *newsletterRepo) FindByToken(ctx context.Context, tx *gorm.DB, token string) (*Newsletter, error) {
	if token == "" {
		return nil, apperr.NotFound("subscription")
	}
	var n Newsletter
	if err := conn(r.db, tx).WithContext(ctx).Where("verification_token = ?", token).Take(&n).Error; err != nil {
		return nil, notFoundOr(err, "subscription")
	}
	return &n, nil
}

func (r *newsletterRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Newsletter, error) {
	var n Newsletter
	if err := conn(r.db, tx).WithContext(ctx).Where("id = ?", id).Take(&n).Error; err != nil {
		return nil, notFoundOr(err, "subscription")
	}
	return &n, nil
}

func (r *newsletterRepo) Create(ctx context.Context, tx *gorm.DB, n *Newsletter) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if err := conn(r.db, tx).WithContext(ctx).Create(n).Error; err != nil {
		if IsDuplicate(err) {
			return apperr.Conflict("this email is already subscribed", err)
		}
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

func (r *newsletterRepo) Save(ctx context.Context, tx *gorm.DB, n *Newsletter) error {
	return conn(r.db, tx).WithContext(ctx).Save(n).Error
}

func (r *newsletterRepo) List(ctx context.Context, tx *gorm.DB, f NewsletterFilter) ([]Newsletter, int64, error) {
	q := conn(r.db, tx).WithContext(ctx).Model(&Newsletter{})
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.Verified != nil {
		q = q.Where("is_verified = ?", *f.Verified)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	subs := []Newsletter{}
	q = q.Session(&gorm.Session{}).Order("subscribed_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

type InquiryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, in *ServiceInquiry) error
	List(ctx context.Context, tx *gorm.DB, p Principal, q ListQuery) ([]ServiceInquiry, int64, error)
	Get(ctx context.Context, tx *gorm.DB, p Principal, id uuid.UUID) (*ServiceInquiry, error)
	Save(ctx context.Context, tx *gorm.DB, in *ServiceInquiry) error
	CountOpen(ctx context.Context, tx *gorm.DB, p Principal) (int64, error)
}

type inquiryRepo struct {
	db *gorm.DB
}

func NewInquiryRepo(db *gorm.DB) InquiryRepo {
	return &inquiryRepo{db: db}
}

func (r *inquiryRepo) Create(ctx context.Context, tx *gorm.DB, in *ServiceInquiry) error {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	if err := conn(r.db, tx).WithContext(ctx).Create(in).Error; err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

func (r *inquiryRepo) List(ctx context.Context, tx *gorm.DB, p Principal, lq ListQuery) ([]ServiceInquiry, int64, error) {
	q := conn(r.db, tx).WithContext(ctx).Model(&ServiceInquiry{}).Scopes(OwnerScope(p))
	for col, v := range lq.Where {
		q = q.Where(col+" = ?", v)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []ServiceInquiry{}
	q = q.Session(&gorm.Session{}).Order("created_at DESC")
	if lq.Limit > 0 {
		q = q.Limit(lq.Limit).Offset(lq.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *inquiryRepo) Get(ctx context.Context, tx *gorm.DB, p Principal, id uuid.UUID) (*ServiceInquiry, error) {
	var in ServiceInquiry
	err := conn(r.db, tx).WithContext(ctx).Scopes(OwnerScope(p)).Where("id = ?", id).Take(&in).Error
	if err != nil {
		return nil, notFoundOr(err, "inquiry")
	}
	return &in, nil
}

func (r *inquiryRepo) Save(ctx context.Context, tx *gorm.DB, in *ServiceInquiry) error {
	return conn(r.db, tx).WithContext(ctx).Save(in).Error
}

func (r *inquiryRepo) CountOpen(ctx context.Context, tx *gorm.DB, p Principal) (int64, error) {
	var n int64
	err := conn(r.db, tx).WithContext(ctx).Model(&ServiceInquiry{}).Scopes(OwnerScope(p)).
		Where("status IN ?", []string{InquiryNew, InquiryContacted, InquiryInProgress}).
		Count(&n).Error
	return n, err
}
