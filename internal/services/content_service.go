package services

import (
	"context"
	"log/slog"

	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/models"
)

// ContentService is the owner-facing CRUD for one content type.
type ContentService[T any, P models.OwnedPtr[T]] struct {
	repo   *models.ContentRepo[T, P]
	logger *slog.Logger
}

func NewContentService[T any, P models.OwnedPtr[T]](repo *models.ContentRepo[T, P], logger *slog.Logger) *ContentService[T, P] {
	return &ContentService[T, P]{
		repo:   repo,
		logger: logger.With("service", repo.Name()),
	}
}

// Name is the human name of the content type.
func (s *ContentService[T, P]) Name() string { return s.repo.Name() }

func (s *ContentService[T, P]) List(ctx context.Context, p models.Principal, page Page) ([]T, int64, error) {
	if !p.Authenticated() {
		return nil, 0, apperr.Unauthenticated()
	}
	rows, total, err := s.repo.List(ctx, nil, p, models.ListQuery{Offset: page.Offset(), Limit: page.Limit})
	if err != nil {
		return nil, 0, apperr.Internal("list "+s.repo.Name(), err)
	}
	return rows, total, nil
}

func (s *ContentService[T, P]) Get(ctx context.Context, p models.Principal, ref string) (P, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	return s.repo.Get(ctx, nil, p, ref)
}

// Create builds a row from in and stores it owned by p.
func (s *ContentService[T, P]) Create(ctx context.Context, p models.Principal, in models.Input[T]) (P, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	row := P(new(T))
	if d, ok := any(row).(models.Defaulter); ok {
		d.ApplyDefaults()
	}
	in.ApplyTo((*T)(row))
	if err := prepare(row); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, nil, p, row); err != nil {
		return nil, err
	}
	s.logger.Info("created", "id", row.Base().ID, "owner_id", row.Base().OwnerID)
	return row, nil
}

func (s *ContentService[T, P]) Update(ctx context.Context, p models.Principal, ref string, in models.Input[T]) (P, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	row, err := s.repo.Update(ctx, nil, p, ref, func(row P) error {
		in.ApplyTo((*T)(row))
		return prepare(row)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("updated", "id", row.Base().ID)
	return row, nil
}

// Mutate applies fn to a row inside the principal's scope. Used for
// changes that do not come from an Input, such as attached files.
func (s *ContentService[T, P]) Mutate(ctx context.Context, p models.Principal, ref string, fn func(P) error) (P, error) {
	if !p.Authenticated() {
		return nil, apperr.Unauthenticated()
	}
	return s.repo.Update(ctx, nil, p, ref, fn)
}

func (s *ContentService[T, P]) Delete(ctx context.Context, p models.Principal, ref string) error {
	if !p.Authenticated() {
		return apperr.Unauthenticated()
	}
	if err := s.repo.Delete(ctx, nil, p, ref); err != nil {
		return err
	}
	s.logger.Info("deleted", "ref", ref)
	return nil
}

func prepare(row any) error {
	if n, ok := row.(models.Normalizer); ok {
		n.Normalize()
	}
	return models.ValidateStruct(row)
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}
