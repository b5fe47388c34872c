package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeCreds struct {
	users []*models.User
	err   error
}

func (f *fakeCreds) find(match func(*models.User) bool) ([]*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.User
	for _, u := range f.users {
		if match(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeCreds) FindByEmail(_ context.Context, _ *gorm.DB, email string) ([]*models.User, error) {
	return f.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (f *fakeCreds) FindByUsername(_ context.Context, _ *gorm.DB, username string) ([]*models.User, error) {
	return f.find(func(u *models.User) bool { return strings.EqualFold(u.Username, username) })
}

// plainHash compares hash and password byte for byte and counts calls.
type plainHash struct{ calls int }

func (p *plainHash) compare(hash, password []byte) error {
	p.calls++
	if string(hash) != string(password) {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return nil
}

func resolverWith(users ...*models.User) (*AuthService, *plainHash) {
	h := &plainHash{}
	return &AuthService{
		creds:     &fakeCreds{users: users},
		logger:    testutil.Logger(),
		dummyHash: []byte("dummy"),
		compare:   h.compare,
	}, h
}

func account(email, username, password string, active bool) *models.User {
	return &models.User{ID: uuid.New(), Email: email, Username: username, PasswordHash: password, IsActive: active}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	ann := account("ann@example.com", "ann", "pw-ann", true)
	off := account("off@example.com", "off", "pw-off", false)

	tests := []struct {
		name       string
		identifier string
		password   string
		want       uuid.UUID
		compares   int
	}{
		{name: "email", identifier: "ann@example.com", password: "pw-ann", want: ann.ID, compares: 1},
		{name: "email any case", identifier: "ANN@Example.com", password: "pw-ann", want: ann.ID, compares: 1},
		{name: "username", identifier: "Ann", password: "pw-ann", want: ann.ID, compares: 1},
		{name: "wrong password", identifier: "ann", password: "nope", compares: 1},
		{name: "unknown identifier still hashes", identifier: "ghost", password: "pw", compares: 1},
		{name: "inactive account", identifier: "off", password: "pw-off", compares: 1},
		{name: "empty identifier", identifier: "  ", password: "pw-ann"},
		{name: "empty password", identifier: "ann", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, h := resolverWith(ann, off)
			id, err := s.Resolve(ctx, tt.identifier, tt.password)
			if tt.want == uuid.Nil {
				assert.True(t, apperr.Is(err, apperr.KindAuthFailure))
				assert.Equal(t, "invalid credentials", err.Error())
				assert.Equal(t, uuid.Nil, id)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, id)
			}
			assert.Equal(t, tt.compares, h.calls)
		})
	}
}

func TestResolveVerifiesOnlyOldestCandidate(t *testing.T) {
	first := account("dup@example.com", "first", "pw-first", true)
	second := account("dup@example.com", "second", "pw-second", true)
	s, h := resolverWith(first, second)

	id, err := s.Resolve(context.Background(), "dup@example.com", "pw-first")
	require.NoError(t, err)
	assert.Equal(t, first.ID, id)

	_, err = s.Resolve(context.Background(), "dup@example.com", "pw-second")
	assert.True(t, apperr.Is(err, apperr.KindAuthFailure))
	assert.Equal(t, 2, h.calls, "one comparison per attempt")
}

func TestResolveStoreFailureIsInternal(t *testing.T) {
	s, _ := resolverWith()
	s.creds = &fakeCreds{err: errors.New("db down")}
	_, err := s.Resolve(context.Background(), "ann", "pw")
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

func newAuth(t *testing.T) (*AuthService, *models.Repos) {
	t.Helper()
	db, repos := testutil.Repos(t)
	s, err := NewAuthService(db, repos, testutil.Logger(), AuthConfig{
		BcryptCost: bcrypt.MinCost,
		Secret:     []byte("test-secret"),
		SessionTTL: time.Hour,
	})
	require.NoError(t, err)
	return s, repos
}

func registration(email string) models.RegisterInput {
	return models.RegisterInput{
		Email:           email,
		FirstName:       "Ann",
		LastName:        "Lee",
		Password:        "Str0ng!pass",
		PasswordConfirm: "Str0ng!pass",
	}
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	ctx := context.Background()
	s, repos := newAuth(t)

	u, err := s.Register(ctx, registration("  Ann@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "ann", u.Username)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsAdmin)

	profile, err := repos.Profiles.GetByUser(ctx, nil, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", profile.FullName)
	assert.True(t, profile.IsPublic)

	// same local part on another domain gets a suffix
	other, err := s.Register(ctx, registration("ann@elsewhere.org"))
	require.NoError(t, err)
	assert.Equal(t, "ann1", other.Username)

	_, err = s.Register(ctx, registration("ANN@example.com"))
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Equal(t, "A user with this email already exists.", ae.Fields["email"])
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newAuth(t)

	weak := registration("weak@example.com")
	weak.Password, weak.PasswordConfirm = "password", "password"
	_, err := s.Register(context.Background(), weak)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "password")

	mismatch := registration("mismatch@example.com")
	mismatch.PasswordConfirm = "Other!pass1"
	_, err = s.Register(context.Background(), mismatch)
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "password_confirm")
}

func TestConcurrentRegistrationSameEmail(t *testing.T) {
	s, repos := newAuth(t)

	const n = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Register(context.Background(), registration("race@example.com"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			kind := apperr.KindOf(err)
			assert.Contains(t, []apperr.Kind{apperr.KindValidation, apperr.KindConflict}, kind, "unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	users, err := repos.Users.FindByEmail(context.Background(), nil, "race@example.com")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s, repos := newAuth(t)
	u := testutil.User(t, repos, "ann@example.com", false)

	got, token, err := s.Login(ctx, "ANN", testutil.Password)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotNil(t, got.LastLoginAt)

	authed, err := s.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, authed.ID)

	_, _, err = s.Login(ctx, "ann@example.com", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindAuthFailure))

	// deactivating the account invalidates existing sessions
	u.IsActive = false
	require.NoError(t, repos.Users.Save(ctx, nil, u))
	_, err = s.Authenticate(ctx, token)
	assert.True(t, apperr.Is(err, apperr.KindAuthFailure))

	_, err = s.Authenticate(ctx, "garbage")
	assert.True(t, apperr.Is(err, apperr.KindAuthFailure))
}

func TestEnsureProfiles(t *testing.T) {
	ctx := context.Background()
	s, repos := newAuth(t)

	bare := &models.User{ID: uuid.New(), Username: "bare", Email: "bare@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, repos.Users.Create(ctx, nil, bare))
	testutil.User(t, repos, "full@example.com", false)

	n, err := s.EnsureProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repos.Profiles.GetByUser(ctx, nil, bare.ID)
	require.NoError(t, err)

	n, err = s.EnsureProfiles(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
