package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/helpers"
	"github.com/joshua-takyi/folio/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthConfig struct {
	BcryptCost int
	Secret     []byte
	SessionTTL time.Duration
}

type AuthService struct {
	db       *gorm.DB
	users    models.UserRepo
	profiles models.ProfileRepo
	creds    models.CredentialStore
	logger   *slog.Logger
	cfg      AuthConfig

	// dummyHash is compared against when no account matches so that a
	// miss costs the same as a wrong password.
	dummyHash []byte
	compare   func(hash, password []byte) error
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, repos *models.Repos, logger *slog.Logger, cfg AuthConfig) (*AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		db:        db,
		users:     repos.Users,
		profiles:  repos.Profiles,
		creds:     repos.Users,
		logger:    logger.With("service", "auth"),
		cfg:       cfg,
		dummyHash: dummy,
		compare:   bcrypt.CompareHashAndPassword,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Resolve maps an identifier (email or username, case-insensitive) and a
// password to a user id. Every failure is the same AuthFailure.
func (s *AuthService) Resolve(ctx context.Context, identifier, password string) (uuid.UUID, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return uuid.Nil, apperr.AuthFailure()
	}

	candidates, err := s.creds.FindByEmail(ctx, nil, identifier)
	if err != nil {
		return uuid.Nil, apperr.Internal("lookup credentials", err)
	}
	if len(candidates) == 0 {
		if candidates, err = s.creds.FindByUsername(ctx, nil, identifier); err != nil {
			return uuid.Nil, apperr.Internal("lookup credentials", err)
		}
	}

	if len(candidates) == 0 {
		_ = s.compare(s.dummyHash, []byte(password))
		return uuid.Nil, apperr.AuthFailure()
	}
	if len(candidates) > 1 {
		s.logger.Warn("multiple accounts share an identifier", "count", len(candidates))
	}

	// candidates are ordered oldest first; only that one is verified
	user := candidates[0]
	if err := s.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return uuid.Nil, apperr.AuthFailure()
	}
	if !user.IsActive {
		return uuid.Nil, apperr.AuthFailure()
	}
	return user.ID, nil
}

// Login resolves the credentials, stamps the login time and issues a
// session token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.User, string, error) {
	id, err := s.Resolve(ctx, identifier, password)
	if err != nil {
		return nil, "", err
	}
	user, err := s.users.GetByID(ctx, nil, id)
	if err != nil {
		return nil, "", apperr.Internal("load user", err)
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, nil, id, now); err != nil {
		s.logger.Warn("failed to stamp last login", "user_id", id, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	token, err := s.IssueSession(id)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user logged in", "user_id", id)
	return user, token, nil
}

// IssueSession signs a session token for id.
func (s *AuthService) IssueSession(id uuid.UUID) (string, error) {
	token, err := helpers.GenerateSessionToken(id, s.cfg.Secret, s.cfg.SessionTTL)
	if err != nil {
		return "", apperr.Internal("issue session", err)
	}
	return token, nil
}

// Authenticate loads the active user a session token belongs to.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := helpers.ValidateSessionToken(token, s.cfg.Secret)
	if err != nil {
		return nil, apperr.Unauthenticated()
	}
	user, err := s.users.GetByID(ctx, nil, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated()
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Unauthenticated()
	}
	return user, nil
}

func (s *AuthService) SessionTTL() time.Duration { return s.cfg.SessionTTL }

// Register creates an account and its default profile in one transaction.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := models.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if !helpers.IsPasswordStrong(in.Password) {
		return nil, apperr.Field("password", "Password must be at least 8 characters and contain upper and lower case letters, a digit and one of @$!%*?&.")
	}

	return s.CreateAccount(ctx, NewAccount{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
	})
}

type NewAccount struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	IsAdmin   bool
}

// CreateAccount stores a user with a generated username and a default
// profile. The email must not be in use.
func (s *AuthService) CreateAccount(ctx context.Context, acc NewAccount) (*models.User, error) {
	acc.Email = strings.ToLower(strings.TrimSpace(acc.Email))
	if err := models.Validate.Var(acc.Email, "required,email,max=254"); err != nil {
		return nil, apperr.Field("email", "Enter a valid email address.")
	}
	if acc.Password == "" {
		return nil, apperr.Field("password", "This field is required.")
	}

	taken, err := s.users.EmailTaken(ctx, nil, acc.Email, uuid.Nil)
	if err != nil {
		return nil, apperr.Internal("check email", err)
	}
	if taken {
		return nil, apperr.Field("email", "A user with this email already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        acc.Email,
		PasswordHash: string(hash),
		FirstName:    acc.FirstName,
		LastName:     acc.LastName,
		IsActive:     true,
		IsAdmin:      acc.IsAdmin,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		username, err := s.uniqueUsername(ctx, tx, acc.Email)
		if err != nil {
			return err
		}
		user.Username = username
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		return s.profiles.Create(ctx, tx, models.NewProfile(user))
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apperr.Internal("create account", err)
	}

	s.logger.Info("account created", "user_id", user.ID, "admin", user.IsAdmin)
	return user, nil
}

// uniqueUsername derives a username from the email local part, adding a
// numeric suffix when it is taken.
func (s *AuthService) uniqueUsername(ctx context.Context, tx *gorm.DB, email string) (string, error) {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	base := helpers.Truncate(b.String(), 140)
	if base == "" {
		base = "user"
	}

	existing, err := s.users.UsernamesWithPrefix(ctx, tx, base)
	if err != nil {
		return "", fmt.Errorf("load usernames: %w", err)
	}
	used := make(map[string]bool, len(existing))
	for _, name := range existing {
		used[name] = true
	}

	candidate := base
	for n := 1; used[candidate]; n++ {
		candidate = base + strconv.Itoa(n)
	}
	return candidate, nil
}

// EnsureProfiles creates the default profile for users that lack one.
func (s *AuthService) EnsureProfiles(ctx context.Context) (int, error) {
	users, err := s.users.ListWithoutProfile(ctx, nil)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, u := range users {
		if err := s.profiles.Create(ctx, nil, models.NewProfile(u)); err != nil {
			if apperr.Is(err, apperr.KindConflict) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}
