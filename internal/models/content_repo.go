package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/joshua-takyi/folio/internal/apperr"
	"gorm.io/gorm"
)

// ListQuery pages a content listing. Where holds extra column filters set
// by code, never by request input.
type ListQuery struct {
	Offset int
	Limit  int
	Where  map[string]any
}

const displayOrder = "sort_order ASC, created_at DESC"

// ContentRepo stores one owner-scoped content type. Every owner-facing
// method goes through OwnerScope.
type ContentRepo[T any, P OwnedPtr[T]] struct {
	db   *gorm.DB
	name string
}

func NewContentRepo[T any, P OwnedPtr[T]](db *gorm.DB) *ContentRepo[T, P] {
	return &ContentRepo[T, P]{db: db, name: describe[T]()}
}

func (r *ContentRepo[T, P]) Name() string { return r.name }

func (r *ContentRepo[T, P]) List(ctx context.Context, tx *gorm.DB, p Principal, q ListQuery) ([]T, int64, error) {
	base := conn(r.db, tx).WithContext(ctx).Model(new(T)).Scopes(OwnerScope(p))
	for col, v := range q.Where {
		base = base.Where(col+" = ?", v)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.name, err)
	}

	rows := []T{}
	query := base.Session(&gorm.Session{}).Order(displayOrder)
	if q.Limit > 0 {
		query = query.Limit(q.Limit).Offset(q.Offset)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.name, err)
	}
	return rows, total, nil
}

// Get resolves ref (a UUID, or a slug for sluggable types) inside the
// principal's scope. Rows outside the scope are reported as not found.
func (r *ContentRepo[T, P]) Get(ctx context.Context, tx *gorm.DB, p Principal, ref string) (P, error) {
	return r.find(conn(r.db, tx).WithContext(ctx).Scopes(OwnerScope(p)), ref)
}

func (r *ContentRepo[T, P]) find(db *gorm.DB, ref string) (P, error) {
	ref = strings.TrimSpace(ref)
	var row T
	if id, err := uuid.Parse(ref); err == nil {
		db = db.Where("id = ?", id)
	} else if _, ok := any(&row).(Sluggable); ok && ref != "" {
		db = db.Where("slug = ?", strings.ToLower(ref)).Order("created_at ASC")
	} else {
		return nil, apperr.NotFound(r.name)
	}

	if err := db.Take(&row).Error; err != nil {
		return nil, notFoundOr(err, r.name)
	}
	return P(&row), nil
}

// Create inserts row owned by the principal. Whatever owner the row carried
// is overwritten.
func (r *ContentRepo[T, P]) Create(ctx context.Context, tx *gorm.DB, p Principal, row P) error {
	if !p.Authenticated() {
		return apperr.Unauthenticated()
	}
	return conn(r.db, tx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b := row.Base()
		b.ID = uuid.New()
		b.OwnerID = p.UserID
		if err := r.ensureSlug(tx, row); err != nil {
			return err
		}
		if err := tx.Create(row).Error; err != nil {
			return r.writeErr(err)
		}
		return nil
	})
}

// Update loads ref inside the principal's scope, applies mutate and saves.
// Identity and ownership cannot be changed by mutate.
func (r *ContentRepo[T, P]) Update(ctx context.Context, tx *gorm.DB, p Principal, ref string, mutate func(P) error) (P, error) {
	var out P
	err := conn(r.db, tx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.find(tx.Scopes(OwnerScope(p)), ref)
		if err != nil {
			return err
		}
		orig := *row.Base()
		if err := mutate(row); err != nil {
			return err
		}
		b := row.Base()
		b.ID, b.OwnerID, b.CreatedAt = orig.ID, orig.OwnerID, orig.CreatedAt

		if err := r.ensureSlug(tx, row); err != nil {
			return err
		}
		if err := tx.Save(row).Error; err != nil {
			return r.writeErr(err)
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ContentRepo[T, P]) Delete(ctx context.Context, tx *gorm.DB, p Principal, ref string) error {
	return conn(r.db, tx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.find(tx.Scopes(OwnerScope(p)), ref)
		if err != nil {
			return err
		}
		return tx.Delete(row).Error
	})
}

func (r *ContentRepo[T, P]) Count(ctx context.Context, tx *gorm.DB, p Principal) (int64, error) {
	var n int64
	err := conn(r.db, tx).WithContext(ctx).Model(new(T)).Scopes(OwnerScope(p)).Count(&n).Error
	return n, err
}

// ListPublic lists active rows of the given owners in display order.
func (r *ContentRepo[T, P]) ListPublic(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID, q ListQuery) ([]T, error) {
	db := conn(r.db, tx).WithContext(ctx).Scopes(OwnersScope(ownerIDs)).Where("is_active = ?", true)
	for col, v := range q.Where {
		db = db.Where(col+" = ?", v)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit).Offset(q.Offset)
	}
	rows := []T{}
	if err := db.Order(displayOrder).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list public %s: %w", r.name, err)
	}
	return rows, nil
}

// GetPublic resolves ref among the active rows of the given owners.
func (r *ContentRepo[T, P]) GetPublic(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID, ref string) (P, error) {
	db := conn(r.db, tx).WithContext(ctx).Scopes(OwnersScope(ownerIDs)).Where("is_active = ?", true)
	return r.find(db, ref)
}

// ensureSlug fills an empty slug from the slug source, adding -2, -3, ...
// until it is free for the owner.
func (r *ContentRepo[T, P]) ensureSlug(tx *gorm.DB, row P) error {
	s, ok := any(row).(Sluggable)
	if !ok {
		return nil
	}
	if s.CurrentSlug() != "" {
		// an explicit slug with nothing usable in it is regenerated from the source
		if explicit := slug.Make(s.CurrentSlug()); explicit != "" {
			s.SetSlug(explicit)
			return nil
		}
		s.SetSlug("")
	}

	base := slug.Make(s.SlugSource())
	if base == "" {
		base = r.name
	}
	b := row.Base()

	var taken []string
	err := tx.Model(new(T)).
		Where("owner_id = ? AND id <> ?", b.OwnerID, b.ID).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &taken).Error
	if err != nil {
		return fmt.Errorf("load slugs: %w", err)
	}
	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}

	candidate := base
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	s.SetSlug(candidate)
	return nil
}

func (r *ContentRepo[T, P]) writeErr(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if IsDuplicate(err) {
		return apperr.Conflict(r.name+" with this slug or repository already exists", err)
	}
	return fmt.Errorf("save %s: %w", r.name, err)
}
