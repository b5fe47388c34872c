package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/config"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/storage"
	"github.com/joshua-takyi/folio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInquirySubmitAndScope(t *testing.T) {
	ctx := context.Background()
	_, repos := testutil.Repos(t)
	alice := testutil.User(t, repos, "alice@example.com", false)
	bob := testutil.User(t, repos, "bob@example.com", false)
	pa, pb := models.PrincipalFor(alice), models.PrincipalFor(bob)

	svc := &models.Service{Title: "API Design", ShortDescription: "APIs", Description: "REST and gRPC APIs"}
	svc.ApplyDefaults()
	require.NoError(t, repos.Services.Create(ctx, nil, pa, svc))

	notifier := &recordingNotifier{}
	logger := testutil.Logger()
	contact := NewContactService(repos.Contacts, notifier, "admin@example.com", time.Second, logger)
	s := NewInquiryService(repos, NewPublicService(repos, config.SiteConfig{}, logger), contact, logger)

	in := models.InquiryInput{
		ContactInput: models.ContactInput{Name: "Carl", Email: "carl@example.com", Message: "I need an API built soon"},
		Budget:       "5k",
	}
	inq, err := s.Submit(ctx, "api-design", in)
	require.NoError(t, err)
	assert.Equal(t, "Inquiry about API Design", inq.Subject)
	assert.Equal(t, alice.ID, inq.OwnerID)
	assert.Equal(t, models.InquiryNew, inq.Status)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "alice@example.com", notifier.sent[0].To)

	_, err = s.Submit(ctx, "missing-service", in)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	rows, total, err := s.List(ctx, pa, "", Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, rows, 1)

	rows, _, err = s.List(ctx, pb, "", Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = s.Get(ctx, pb, inq.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, _, err = s.List(ctx, models.Anonymous(), "", Page{})
	assert.True(t, apperr.Is(err, apperr.KindAuthFailure))

	updated, err := s.Update(ctx, pa, inq.ID, models.InquiryUpdate{Status: ptrTo(models.InquiryContacted), Notes: ptrTo(" called ")})
	require.NoError(t, err)
	assert.Equal(t, models.InquiryContacted, updated.Status)
	assert.Equal(t, "called", updated.Notes)

	_, err = s.Update(ctx, pa, inq.ID, models.InquiryUpdate{Status: ptrTo("lost")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestInquiryOwnerOptedOutOfEmail(t *testing.T) {
	ctx := context.Background()
	_, repos := testutil.Repos(t)
	alice := testutil.User(t, repos, "alice@example.com", false)

	profile, err := repos.Profiles.GetByUser(ctx, nil, alice.ID)
	require.NoError(t, err)
	profile.EmailNotifications = false
	require.NoError(t, repos.Profiles.Save(ctx, nil, profile))

	svc := &models.Service{Title: "Audit", ShortDescription: "Audit", Description: "Code audits"}
	svc.ApplyDefaults()
	require.NoError(t, repos.Services.Create(ctx, nil, models.PrincipalFor(alice), svc))

	notifier := &recordingNotifier{}
	logger := testutil.Logger()
	contact := NewContactService(repos.Contacts, notifier, "", time.Second, logger)
	s := NewInquiryService(repos, NewPublicService(repos, config.SiteConfig{}, logger), contact, logger)

	_, err = s.Submit(ctx, svc.ID.String(), models.InquiryInput{
		ContactInput: models.ContactInput{Name: "Carl", Email: "carl@example.com", Subject: "Audit", Message: "Please audit my code"},
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

type fakeSource struct {
	repos []Repository
	err   error
}

func (f *fakeSource) ListRepositories(context.Context, string) ([]Repository, error) {
	return f.repos, f.err
}

func TestGitHubSync(t *testing.T) {
	ctx := context.Background()
	_, repos := testutil.Repos(t)
	alice := testutil.User(t, repos, "alice@example.com", false)
	pa := models.PrincipalFor(alice)

	source := &fakeSource{repos: []Repository{
		{Name: "folio-api", Description: "Portfolio API", HTMLURL: "https://github.com/alice/folio-api", Language: "Go", Topics: []string{"go", "gin"}, Stars: 3},
		{Name: "dotfiles", HTMLURL: "https://github.com/alice/dotfiles", Language: "Shell"},
		{Name: "upstream-fork", HTMLURL: "https://github.com/alice/upstream-fork", Fork: true},
	}}
	s := NewGitHubSyncService(source, repos, testutil.Logger())

	res, err := s.SyncOwner(ctx, alice.ID, "alice", false)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Created: 2, Skipped: 1}, *res)

	rows, total, err := repos.Projects.List(ctx, nil, pa, models.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	byRepo := map[string]models.Project{}
	for _, r := range rows {
		byRepo[r.GithubRepoName] = r
	}
	api := byRepo["folio-api"]
	assert.Equal(t, "Folio Api", api.Title)
	assert.Equal(t, "go, gin", api.Technologies)
	assert.False(t, api.IsActive, "synced projects stay hidden unless activated")
	assert.Equal(t, "GitHub repository: dotfiles", byRepo["dotfiles"].Description)

	// hand-edited technologies survive a resync
	_, err = repos.Projects.Update(ctx, nil, pa, byRepo["dotfiles"].ID.String(), func(p *models.Project) error {
		p.Technologies = "Bash, Zsh"
		return nil
	})
	require.NoError(t, err)

	source.repos[0].Stars = 10
	res, err = s.SyncOwner(ctx, alice.ID, "alice", true)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Updated: 2, Skipped: 1}, *res)

	got, err := repos.Projects.Get(ctx, nil, pa, api.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 10, got.GithubStars)
	assert.True(t, got.IsActive)

	dot, err := repos.Projects.Get(ctx, nil, pa, byRepo["dotfiles"].ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Bash, Zsh", dot.Technologies)
}

func TestGitHubSyncErrors(t *testing.T) {
	ctx := context.Background()
	_, repos := testutil.Repos(t)
	alice := testutil.User(t, repos, "alice@example.com", false)

	s := NewGitHubSyncService(&fakeSource{err: errors.New("rate limited")}, repos, testutil.Logger())
	_, err := s.SyncOwner(ctx, alice.ID, "alice", false)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))

	// the profile has no github username yet
	_, err = s.SyncProfile(ctx, models.PrincipalFor(alice), false)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "github_username")
}

var avatarPNG = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func newAccount(t *testing.T) (*AccountService, *models.Repos, *storage.LocalStore) {
	t.Helper()
	db, repos := testutil.Repos(t)
	store, err := storage.NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)
	return NewAccountService(db, repos, store, testutil.Logger()), repos, store
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	s, repos, _ := newAccount(t)
	alice := testutil.User(t, repos, "alice@example.com", false)
	testutil.User(t, repos, "bob@example.com", false)
	pa := models.PrincipalFor(alice)

	out, err := s.UpdateSettings(ctx, pa, models.SettingsInput{
		FirstName:      ptrTo("Alice"),
		Tagline:        ptrTo("Backend engineer"),
		GithubUsername: ptrTo("alice"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", out.User.FirstName)
	assert.Equal(t, "Backend engineer", out.Profile.Tagline)

	_, err = s.UpdateSettings(ctx, pa, models.SettingsInput{Email: ptrTo("BOB@example.com")})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "A user with this email already exists.", ae.Fields["email"])

	_, err = s.UpdateSettings(ctx, pa, models.SettingsInput{Website: ptrTo("not a url"), ProfileEmail: ptrTo("nope")})
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "website")
	assert.Contains(t, ae.Fields, "email")

	// rejected updates leave the stored rows alone
	settings, err := s.Settings(ctx, pa)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", settings.User.Email)
	assert.Equal(t, "alice", settings.Profile.GithubUsername)
}

func TestUploadAvatarReplacesPreviousFile(t *testing.T) {
	ctx := context.Background()
	s, repos, store := newAccount(t)
	alice := testutil.User(t, repos, "alice@example.com", false)
	pa := models.PrincipalFor(alice)

	up := func() storage.Upload {
		return storage.Upload{Filename: "me.png", Size: int64(len(avatarPNG)), Body: bytes.NewReader(avatarPNG)}
	}

	first, err := s.UploadAvatar(ctx, pa, up())
	require.NoError(t, err)
	firstKey := first.AvatarPath
	assert.True(t, strings.HasPrefix(firstKey, "avatars/"+alice.ID.String()+"/"))

	second, err := s.UploadAvatar(ctx, pa, up())
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, second.AvatarPath)

	oldPath, ok := store.Path(firstKey)
	require.True(t, ok)
	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))

	_, err = s.UploadResume(ctx, pa, up())
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = s.UploadAvatar(ctx, models.Anonymous(), up())
	assert.True(t, apperr.Is(err, apperr.KindAuthFailure))
}

func TestAttachProjectImage(t *testing.T) {
	ctx := context.Background()
	s, repos, store := newAccount(t)
	projects := NewContentService(repos.Projects, testutil.Logger())
	alice := testutil.User(t, repos, "alice@example.com", false)
	bob := testutil.User(t, repos, "bob@example.com", false)
	pa := models.PrincipalFor(alice)

	project := &models.Project{Title: "Folio"}
	project.ApplyDefaults()
	require.NoError(t, repos.Projects.Create(ctx, nil, pa, project))
	ref := project.ID.String()

	up := func() storage.Upload {
		return storage.Upload{Filename: "shot.png", Size: int64(len(avatarPNG)), Body: bytes.NewReader(avatarPNG)}
	}

	thumb, err := s.AttachProjectImage(ctx, projects, pa, ref, storage.ProjectImage, up())
	require.NoError(t, err)
	require.NotEmpty(t, thumb.ThumbnailPath)
	assert.Empty(t, thumb.FeaturedImagePath)
	assert.True(t, strings.HasPrefix(thumb.ThumbnailPath, "projects/"+alice.ID.String()+"/"))

	featured, err := s.AttachProjectImage(ctx, projects, pa, ref, storage.FeaturedImage, up())
	require.NoError(t, err)
	require.NotEmpty(t, featured.FeaturedImagePath)
	assert.Equal(t, thumb.ThumbnailPath, featured.ThumbnailPath, "featured image leaves the thumbnail alone")
	assert.NotEqual(t, featured.ThumbnailPath, featured.FeaturedImagePath)

	replaced, err := s.AttachProjectImage(ctx, projects, pa, ref, storage.ProjectImage, up())
	require.NoError(t, err)
	assert.NotEqual(t, thumb.ThumbnailPath, replaced.ThumbnailPath)
	assert.Equal(t, featured.FeaturedImagePath, replaced.FeaturedImagePath)

	oldPath, ok := store.Path(thumb.ThumbnailPath)
	require.True(t, ok)
	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))

	stored, err := repos.Projects.Get(ctx, nil, pa, ref)
	require.NoError(t, err)
	assert.Equal(t, replaced.ThumbnailPath, stored.ThumbnailPath)
	assert.Equal(t, featured.FeaturedImagePath, stored.FeaturedImagePath)

	_, err = s.AttachProjectImage(ctx, projects, models.PrincipalFor(bob), ref, storage.ProjectImage, up())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = s.AttachProjectImage(ctx, projects, models.Anonymous(), ref, storage.FeaturedImage, up())
	assert.True(t, apperr.Is(err, apperr.KindAuthFailure))
}

func TestDashboardCountsOwnRows(t *testing.T) {
	ctx := context.Background()
	s, repos, _ := newAccount(t)
	alice := testutil.User(t, repos, "alice@example.com", false)
	bob := testutil.User(t, repos, "bob@example.com", false)

	for _, owner := range []*models.User{alice, alice, bob} {
		p := &models.Project{Title: "App"}
		p.ApplyDefaults()
		require.NoError(t, repos.Projects.Create(ctx, nil, models.PrincipalFor(owner), p))
	}

	d, err := s.Dashboard(ctx, models.PrincipalFor(alice))
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.Counts["projects"])
	assert.Len(t, d.RecentProjects, 2)
}
