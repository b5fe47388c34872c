package models_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(title string) *models.Project {
	p := &models.Project{Title: title}
	p.ApplyDefaults()
	return p
}

func TestContentRepoOwnershipScope(t *testing.T) {
	ctx := context.Background()
	_, repos := testutil.Repos(t)
	alice := testutil.User(t, repos, "alice@example.com", false)
	bob := testutil.User(t, repos, "bob@example.com", false)
	admin := testutil.User(t, repos, "root@example.com", true)

	pa := models.PrincipalFor(alice)
	pb := models.PrincipalFor(bob)

	row := newProject("Alice App")
	require.NoError(t, repos.Projects.Create(ctx, nil, pa, row))
	ref := row.ID.String()

	t.Run("owner sees own row", func(t *testing.T) {
		got, err := repos.Projects.Get(ctx, nil, pa, ref)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.OwnerID)
	})

	t.Run("other owner gets not found", func(t *testing.T) {
		_, err := repos.Projects.Get(ctx, nil, pb, ref)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))

		_, err = repos.Projects.Update(ctx, nil, pb, ref, func(p *models.Project) error {
			p.Title = "stolen"
			return nil
		})
		assert.True(t, apperr.Is(err, apperr.KindNotFound))

		err = repos.Projects.Delete(ctx, nil, pb, ref)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))

		rows, total, err := repos.Projects.List(ctx, nil, pb, models.ListQuery{})
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Zero(t, total)
	})

	t.Run("admin sees every row", func(t *testing.T) {
		got, err := repos.Projects.Get(ctx, nil, models.PrincipalFor(admin), ref)
		require.NoError(t, err)
		assert.Equal(t, "Alice App", got.Title)
	})

	t.Run("anonymous sees nothing", func(t *testing.T) {
		rows, _, err := repos.Projects.List(ctx, nil, models.Anonymous(), models.ListQuery{})
		require.NoError(t, err)
		assert.Empty(t, rows)

		err = repos.Projects.Create(ctx, nil, models.Anonymous(), newProject("x"))
		assert.True(t, apperr.Is(err, apperr.KindAuthFailure))
	})

	t.Run("rows unchanged after rejected writes", func(t *testing.T) {
		got, err := repos.Projects.Get(ctx, nil, pa, ref)
		require.NoError(t, err)
		assert.Equal(t, "Alice App", got.Title)
	})
}

func TestContentRepoCreateIgnoresSuppliedOwner(t *testing.T) {
	ctx := context.Background()
	_, repos := testutil.Repos(t)
	alice := testutil.User(t, repos, "alice@example.com", false)
	bob := testutil.User(t, repos, "bob@example.com", false)

	row := newProject("Forged")
	row.OwnerID = bob.ID
	require.NoError(t, repos.Projects.Create(ctx, nil, models.PrincipalFor(alice), row))
	assert.Equal(t, alice.ID, row.OwnerID)

	updated, err := repos.Projects.Update(ctx, nil, models.PrincipalFor(alice), row.ID.String(), func(p *models.Project) error {
		p.OwnerID = bob.ID
		p.ID = uuid.New()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, updated.OwnerID)
	assert.Equal(t, row.ID, updated.ID)
}

func TestContentRepoSlugs(t *testing.T) {
	ctx := context.Background()
	_, repos := testutil.Repos(t)
	alice := models.PrincipalFor(testutil.User(t, repos, "alice@example.com", false))
	bob := models.PrincipalFor(testutil.User(t, repos, "bob@example.com", false))

	first := newProject("My App")
	second := newProject("My App")
	other := newProject("My App")
	require.NoError(t, repos.Projects.Create(ctx, nil, alice, first))
	require.NoError(t, repos.Projects.Create(ctx, nil, alice, second))
	require.NoError(t, repos.Projects.Create(ctx, nil, bob, other))

	assert.Equal(t, "my-app", first.Slug)
	assert.Equal(t, "my-app-2", second.Slug)
	assert.Equal(t, "my-app", other.Slug, "slugs are unique per owner only")

	got, err := repos.Projects.Get(ctx, nil, alice, "my-app-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	// an explicit duplicate slug hits the unique index
	_, err = repos.Projects.Update(ctx, nil, alice, second.ID.String(), func(p *models.Project) error {
		p.Slug = "my-app"
		return nil
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	// explicit slugs with nothing usable fall back to the title
	bang := newProject("Bang")
	bang.Slug = "!!!"
	query := newProject("Query")
	query.Slug = "???"
	require.NoError(t, repos.Projects.Create(ctx, nil, alice, bang))
	require.NoError(t, repos.Projects.Create(ctx, nil, alice, query))
	assert.Equal(t, "bang", bang.Slug)
	assert.Equal(t, "query", query.Slug)

	got, err = repos.Projects.Get(ctx, nil, alice, "query")
	require.NoError(t, err)
	assert.Equal(t, query.ID, got.ID)

	updated, err := repos.Projects.Update(ctx, nil, alice, bang.ID.String(), func(p *models.Project) error {
		p.Slug = "@@@"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "bang", updated.Slug)
}

func TestDeletingUserCascades(t *testing.T) {
	ctx := context.Background()
	db, repos := testutil.Repos(t)
	user := testutil.User(t, repos, "alice@example.com", false)
	p := models.PrincipalFor(user)

	require.NoError(t, repos.Projects.Create(ctx, nil, p, newProject("App")))

	link := &models.SocialLink{Platform: "github", URL: "https://github.com/alice"}
	link.ApplyDefaults()
	require.NoError(t, repos.SocialLinks.Create(ctx, nil, p, link))

	quote := &models.Testimonial{Name: "Carl", Testimonial: "Great work"}
	quote.ApplyDefaults()
	require.NoError(t, repos.Testimonials.Create(ctx, nil, p, quote))

	skill := &models.Skill{Name: "Go"}
	skill.ApplyDefaults()
	require.NoError(t, repos.Skills.Create(ctx, nil, p, skill))

	edu := &models.Education{Institution: "MIT", Degree: "bachelors", FieldOfStudy: "CS", StartDate: models.NewDate(2015, 9, 1)}
	edu.ApplyDefaults()
	require.NoError(t, repos.Education.Create(ctx, nil, p, edu))

	cert := &models.Certification{Name: "CKA", IssuingOrganization: "CNCF", IssueDate: models.NewDate(2022, 3, 1)}
	cert.ApplyDefaults()
	require.NoError(t, repos.Certifications.Create(ctx, nil, p, cert))

	svc := &models.Service{Title: "API Design", ShortDescription: "APIs", Description: "REST APIs"}
	svc.ApplyDefaults()
	require.NoError(t, repos.Services.Create(ctx, nil, p, svc))

	require.NoError(t, repos.Inquiries.Create(ctx, nil, &models.ServiceInquiry{
		ServiceID: &svc.ID,
		OwnerID:   user.ID,
		Name:      "Carl",
		Email:     "carl@example.com",
		Message:   "Build me an API",
		Status:    models.InquiryNew,
	}))

	require.NoError(t, db.Delete(&models.User{}, "id = ?", user.ID).Error)

	for _, table := range []string{"projects", "social_links", "testimonials", "skills", "education", "certifications", "services", "service_inquiries"} {
		var n int64
		require.NoError(t, db.Table(table).Where("owner_id = ?", user.ID).Count(&n).Error, table)
		assert.Zero(t, n, table)
	}
	var profiles int64
	require.NoError(t, db.Table("profiles").Where("user_id = ?", user.ID).Count(&profiles).Error)
	assert.Zero(t, profiles)
}

func TestContentRepoDerivedFields(t *testing.T) {
	ctx := context.Background()
	_, repos := testutil.Repos(t)
	p := models.PrincipalFor(testutil.User(t, repos, "alice@example.com", false))

	skill := &models.Skill{Name: "Go"}
	skill.ApplyDefaults()
	skill.Proficiency = 92
	require.NoError(t, repos.Skills.Create(ctx, nil, p, skill))
	gotSkill, err := repos.Skills.Get(ctx, nil, p, skill.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Expert", gotSkill.ProficiencyLabel)

	price := 1200.0
	svc := &models.Service{Title: "Backend work", ShortDescription: "APIs", Description: "APIs in Go", Features: "Design, Build ,Deploy"}
	svc.ApplyDefaults()
	svc.PriceStarting = &price
	svc.PricingModel = "per project"
	require.NoError(t, repos.Services.Create(ctx, nil, p, svc))
	gotSvc, err := repos.Services.Get(ctx, nil, p, "backend-work")
	require.NoError(t, err)
	assert.Equal(t, "USD 1,200.00 per project", gotSvc.PriceDisplay)
	assert.Equal(t, []string{"Design", "Build", "Deploy"}, gotSvc.FeaturesList)

	cert := &models.Certification{
		Name:                "Old cert",
		IssuingOrganization: "Org",
		IssueDate:           models.NewDate(2015, 1, 1),
		ExpiryDate:          models.NewDate(2018, 1, 1),
	}
	cert.ApplyDefaults()
	require.NoError(t, repos.Certifications.Create(ctx, nil, p, cert))
	gotCert, err := repos.Certifications.Get(ctx, nil, p, cert.ID.String())
	require.NoError(t, err)
	assert.True(t, gotCert.IsExpired)
	assert.Equal(t, "2018-01-01", gotCert.ExpiryDate.String())
}

func TestContentRepoPublicListing(t *testing.T) {
	ctx := context.Background()
	_, repos := testutil.Repos(t)
	alice := testutil.User(t, repos, "alice@example.com", false)
	pa := models.PrincipalFor(alice)

	visible := newProject("Visible")
	visible.SortOrder = 2
	hidden := newProject("Hidden")
	hidden.IsActive = false
	first := newProject("First")
	first.SortOrder = 1
	for _, row := range []*models.Project{visible, hidden, first} {
		require.NoError(t, repos.Projects.Create(ctx, nil, pa, row))
	}

	rows, err := repos.Projects.ListPublic(ctx, nil, []uuid.UUID{alice.ID}, models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "First", rows[0].Title)
	assert.Equal(t, "Visible", rows[1].Title)

	_, err = repos.Projects.GetPublic(ctx, nil, []uuid.UUID{alice.ID}, hidden.ID.String())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	none, err := repos.Projects.ListPublic(ctx, nil, nil, models.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, none)
}
