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

// CredentialStore is the read side the authentication resolver needs.
// Lookups are case-insensitive and return candidates oldest first.
type CredentialStore interface {
	FindByEmail(ctx context.Context, tx *gorm.DB, email string) ([]*User, error)
	FindByUsername(ctx context.Context, tx *gorm.DB, username string) ([]*User, error)
}

type UserRepo interface {
	CredentialStore
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	EmailTaken(ctx context.Context, tx *gorm.DB, email string, except uuid.UUID) (bool, error)
	UsernamesWithPrefix(ctx context.Context, tx *gorm.DB, prefix string) ([]string, error)
	Save(ctx context.Context, tx *gorm.DB, user *User) error
	TouchLastLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	ListWithoutProfile(ctx context.Context, tx *gorm.DB) ([]*User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := conn(r.db, tx).WithContext(ctx).Create(user).Error; err != nil {
		if IsDuplicate(err) {
			return apperr.Conflict("a user with this email or username already exists", err)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	var u User
	if err := conn(r.db, tx).WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, tx *gorm.DB, email string) ([]*User, error) {
	return r.findBy(ctx, tx, "email", email)
}

func (r *userRepo) FindByUsername(ctx context.Context, tx *gorm.DB, username string) ([]*User, error) {
	return r.findBy(ctx, tx, "username", username)
}

func (r *userRepo) findBy(ctx context.Context, tx *gorm.DB, col, value string) ([]*User, error) {
	var users []*User
	err := conn(r.db, tx).WithContext(ctx).
		Where("lower("+col+") = ?", strings.ToLower(strings.TrimSpace(value))).
		Order("created_at ASC, id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("find user by %s: %w", col, err)
	}
	return users, nil
}

func (r *userRepo) EmailTaken(ctx context.Context, tx *gorm.DB, email string, except uuid.UUID) (bool, error) {
	var n int64
	err := conn(r.db, tx).WithContext(ctx).Model(&User{}).
		Where("lower(email) = ? AND id <> ?", strings.ToLower(strings.TrimSpace(email)), except).
		Count(&n).Error
	return n > 0, err
}

func (r *userRepo) UsernamesWithPrefix(ctx context.Context, tx *gorm.DB, prefix string) ([]string, error) {
	var names []string
	err := conn(r.db, tx).WithContext(ctx).Model(&User{}).
		Where("lower(username) LIKE ?", strings.ToLower(prefix)+"%").
		Pluck("username", &names).Error
	for i := range names {
		names[i] = strings.ToLower(names[i])
	}
	return names, err
}

func (r *userRepo) Save(ctx context.Context, tx *gorm.DB, user *User) error {
	if err := conn(r.db, tx).WithContext(ctx).Save(user).Error; err != nil {
		if IsDuplicate(err) {
			return apperr.Field("email", "A user with this email already exists.")
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *userRepo) TouchLastLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return conn(r.db, tx).WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func (r *userRepo) ListWithoutProfile(ctx context.Context, tx *gorm.DB) ([]*User, error) {
	var users []*User
	err := conn(r.db, tx).WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM profiles WHERE profiles.user_id = users.id)").
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

type ProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profile *Profile) error
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*Profile, error)
	Save(ctx context.Context, tx *gorm.DB, profile *Profile) error
	ListPublic(ctx context.Context, tx *gorm.DB) ([]*Profile, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepo {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, tx *gorm.DB, profile *Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if err := conn(r.db, tx).WithContext(ctx).Create(profile).Error; err != nil {
		if IsDuplicate(err) {
			return apperr.Conflict("profile already exists", err)
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *profileRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*Profile, error) {
	var p Profile
	if err := conn(r.db, tx).WithContext(ctx).Where("user_id = ?", userID).Take(&p).Error; err != nil {
		return nil, notFoundOr(err, "profile")
	}
	return &p, nil
}

func (r *profileRepo) Save(ctx context.Context, tx *gorm.DB, profile *Profile) error {
	return conn(r.db, tx).WithContext(ctx).Save(profile).Error
}

// ListPublic returns public, active profiles of active users, oldest first.
func (r *profileRepo) ListPublic(ctx context.Context, tx *gorm.DB) ([]*Profile, error) {
	var profiles []*Profile
	err := conn(r.db, tx).WithContext(ctx).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("profiles.is_public = ? AND profiles.is_active = ? AND users.is_active = ?", true, true, true).
		Order("profiles.created_at ASC").
		Find(&profiles).Error
	return profiles, err
}
