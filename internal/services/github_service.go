package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/helpers"
	"github.com/joshua-takyi/folio/internal/models"
)

// Repository is the part of a GitHub repository a sync needs.
type Repository struct {
	Name        string
	Description string
	HTMLURL     string
	Homepage    string
	Language    string
	Topics      []string
	Stars       int
	Forks       int
	Fork        bool
}

// RepoSource lists the repositories a GitHub user owns.
type RepoSource interface {
	ListRepositories(ctx context.Context, username string) ([]Repository, error)
}

// GitHubSource reads repositories from the GitHub REST API.
type GitHubSource struct {
	client *github.Client
}

// NewGitHubSource builds a client; token may be empty for anonymous,
// rate-limited access.
func NewGitHubSource(token string) *GitHubSource {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubSource{client: client}
}

func (g *GitHubSource) ListRepositories(ctx context.Context, username string) ([]Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var out []Repository
	for {
		repos, resp, err := g.client.Repositories.ListByUser(ctx, username, opts)
		if err != nil {
			return nil, fmt.Errorf("list repositories for %s: %w", username, err)
		}
		for _, r := range repos {
			out = append(out, Repository{
				Name:        r.GetName(),
				Description: r.GetDescription(),
				HTMLURL:     r.GetHTMLURL(),
				Homepage:    r.GetHomepage(),
				Language:    r.GetLanguage(),
				Topics:      r.Topics,
				Stars:       r.GetStargazersCount(),
				Forks:       r.GetForksCount(),
				Fork:        r.GetFork(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// SyncResult counts what a sync did.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// GitHubSyncService mirrors an owner's repositories into projects.
type GitHubSyncService struct {
	source   RepoSource
	projects *models.ProjectRepo
	profiles models.ProfileRepo
	logger   *slog.Logger
}

func NewGitHubSyncService(source RepoSource, repos *models.Repos, logger *slog.Logger) *GitHubSyncService {
	return &GitHubSyncService{
		source:   source,
		projects: repos.Projects,
		profiles: repos.Profiles,
		logger:   logger.With("service", "github"),
	}
}

// SyncProfile syncs using the github_username on the principal's profile.
func (s *GitHubSyncService) SyncProfile(ctx context.Context, p models.Principal, activate bool) (*SyncResult, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	profile, err := s.profiles.GetByUser(ctx, nil, p.UserID)
	if err != nil {
		return nil, err
	}
	if profile.GithubUsername == "" {
		return nil, apperr.Field("github_username", "Set your GitHub username in settings first.")
	}
	return s.SyncOwner(ctx, p.UserID, profile.GithubUsername, activate)
}

// SyncOwner upserts one project per non-fork repository of username,
// keyed by the repository name.
func (s *GitHubSyncService) SyncOwner(ctx context.Context, ownerID uuid.UUID, username string, activate bool) (*SyncResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.Field("username", "This field is required.")
	}
	repos, err := s.source.ListRepositories(ctx, username)
	if err != nil {
		return nil, apperr.Upstream("GitHub is unavailable", err)
	}

	owner := models.Principal{UserID: ownerID}
	res := &SyncResult{}
	for _, repo := range repos {
		if repo.Fork || repo.Name == "" {
			res.Skipped++
			continue
		}
		created, err := s.syncRepository(ctx, owner, repo, activate)
		if err != nil {
			res.Failed++
			s.logger.Warn("repository sync failed", "owner_id", ownerID, "repo", repo.Name, "error", err)
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	s.logger.Info("github sync finished", "owner_id", ownerID, "username", username,
		"created", res.Created, "updated", res.Updated, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

func (s *GitHubSyncService) syncRepository(ctx context.Context, owner models.Principal, repo Repository, activate bool) (bool, error) {
	existing, _, err := s.projects.List(ctx, nil, owner, models.ListQuery{
		Limit: 1,
		Where: map[string]any{"github_repo_name": repo.Name},
	})
	if err != nil {
		return false, err
	}
	technologies := repo.Language
	if len(repo.Topics) > 0 {
		technologies = strings.Join(repo.Topics, ", ")
	}

	if len(existing) == 0 {
		description := repo.Description
		if description == "" {
			description = "GitHub repository: " + repo.Name
		}
		row := &models.Project{
			Title:            helpers.TitleFromName(repo.Name),
			Description:      description,
			ShortDescription: helpers.Truncate(repo.Description, 200),
			GithubURL:        repo.HTMLURL,
			LiveURL:          repo.Homepage,
			Technologies:     technologies,
			Status:           models.ProjectCompleted,
			GithubRepoName:   repo.Name,
			GithubStars:      repo.Stars,
			GithubForks:      repo.Forks,
			GithubLanguage:   repo.Language,
		}
		row.IsActive = activate
		if err := prepare(row); err != nil {
			return false, err
		}
		return true, s.projects.Create(ctx, nil, owner, row)
	}

	_, err = s.projects.Update(ctx, nil, owner, existing[0].ID.String(), func(pr *models.Project) error {
		pr.GithubURL = repo.HTMLURL
		if repo.Homepage != "" {
			pr.LiveURL = repo.Homepage
		}
		pr.GithubStars = repo.Stars
		pr.GithubForks = repo.Forks
		pr.GithubLanguage = repo.Language
		// technologies typed by hand are kept
		if pr.Technologies == "" || pr.Technologies == repo.Language {
			pr.Technologies = technologies
		}
		if activate {
			pr.IsActive = true
		}
		return prepare(pr)
	})
	return false, err
}
