// Command portfolioctl runs maintenance tasks against the portfolio database.
//
// Usage:
//
//	portfolioctl migrate
//	portfolioctl create-user -email a@b.c -password ... [-first A -last B -admin]
//	portfolioctl ensure-profiles
//	portfolioctl sync-github -user <email or username> [-username gh-user] [-activate]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/folio/internal/config"
	"github.com/joshua-takyi/folio/internal/connect"
	"github.com/joshua-takyi/folio/internal/container"
	"github.com/joshua-takyi/folio/internal/services"
)

var errUsage = errors.New("usage")

func main() {
	_ = godotenv.Load(".env.local")

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "usage: portfolioctl migrate|create-user|ensure-profiles|sync-github [flags]")
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := connect.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer connect.CloseDatabase(db)

	if err := connect.Migrate(ctx, db, cfg.DatabaseDriver); err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	if cmd == "migrate" {
		fmt.Fprintln(out, "migrations applied")
		return nil
	}

	app, err := container.NewContainer(ctx, cfg, db, logger)
	if err != nil {
		return err
	}

	switch cmd {
	case "create-user":
		return createUser(ctx, app, rest, out)
	case "ensure-profiles":
		n, err := app.Auth.EnsureProfiles(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created %d profile(s)\n", n)
		return nil
	case "sync-github":
		return syncGitHub(ctx, app, rest, out)
	default:
		return errUsage
	}
}

func createUser(ctx context.Context, app *container.Container, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	var acc services.NewAccount
	fs.StringVar(&acc.Email, "email", "", "email address")
	fs.StringVar(&acc.Password, "password", "", "password")
	fs.StringVar(&acc.FirstName, "first", "", "first name")
	fs.StringVar(&acc.LastName, "last", "", "last name")
	fs.BoolVar(&acc.IsAdmin, "admin", false, "grant admin rights")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := app.Auth.CreateAccount(ctx, acc)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created user %s (%s) id=%s admin=%t\n", user.Username, user.Email, user.ID, user.IsAdmin)
	return nil
}

func syncGitHub(ctx context.Context, app *container.Container, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sync-github", flag.ContinueOnError)
	ident := fs.String("user", "", "email or username of the owning account")
	username := fs.String("username", "", "GitHub username (defaults to the profile's, then GITHUB_USERNAME)")
	activate := fs.Bool("activate", false, "make synced projects visible")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ident == "" {
		return fmt.Errorf("-user is required")
	}

	users, err := app.Repos.Users.FindByEmail(ctx, nil, *ident)
	if err == nil && len(users) == 0 {
		users, err = app.Repos.Users.FindByUsername(ctx, nil, *ident)
	}
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return fmt.Errorf("no account matches %q", *ident)
	}
	owner := users[0]

	gh := *username
	if gh == "" {
		if profile, err := app.Repos.Profiles.GetByUser(ctx, nil, owner.ID); err == nil {
			gh = profile.GithubUsername
		}
	}
	if gh == "" {
		gh = app.Config.GitHub.Username
	}
	if gh == "" {
		return fmt.Errorf("no GitHub username: pass -username or set GITHUB_USERNAME")
	}

	res, err := app.GitHub.SyncOwner(ctx, owner.ID, gh, *activate)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "synced %s: %d created, %d updated, %d skipped, %d failed\n",
		gh, res.Created, res.Updated, res.Skipped, res.Failed)
	return nil
}
