// Package testutil builds migrated SQLite databases and fixtures for tests.
package testutil

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/connect"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain password of every fixture user.
const Password = "Secret#123"

func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// DB opens a fresh file-backed SQLite database with all migrations applied.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := filepath.Join(tb.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := connect.OpenDatabase("sqlite", dsn, Logger())
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = connect.CloseDatabase(db) })
	require.NoError(tb, connect.Migrate(context.Background(), db, "sqlite"))
	return db
}

func Repos(tb testing.TB) (*gorm.DB, *models.Repos) {
	tb.Helper()
	db := DB(tb)
	return db, models.NewRepos(db)
}

// User stores an active user with a profile. The username is the email's
// local part.
func User(tb testing.TB, repos *models.Repos, email string, admin bool) *models.User {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(tb, err)

	local, _, _ := strings.Cut(email, "@")
	u := &models.User{
		ID:           uuid.New(),
		Username:     local,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
		IsAdmin:      admin,
	}
	ctx := context.Background()
	require.NoError(tb, repos.Users.Create(ctx, nil, u))
	require.NoError(tb, repos.Profiles.Create(ctx, nil, models.NewProfile(u)))
	return u
}

// PublishProfile marks the user's profile public.
func PublishProfile(tb testing.TB, repos *models.Repos, userID uuid.UUID) *models.Profile {
	tb.Helper()
	ctx := context.Background()
	p, err := repos.Profiles.GetByUser(ctx, nil, userID)
	require.NoError(tb, err)
	p.IsPublic = true
	p.IsActive = true
	require.NoError(tb, repos.Profiles.Save(ctx, nil, p))
	return p
}
