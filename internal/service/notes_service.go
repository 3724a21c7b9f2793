package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/apperror"
	"github.com/stemsi/notes-backend/internal/model"
	"github.com/stemsi/notes-backend/internal/repository"
)

// Gateway is the persistence contract for one entity kind.
// *repository.Repository[T] satisfies it.
type Gateway[T model.Entity] interface {
	Get(ctx context.Context, id int) (*T, error)
	Save(ctx context.Context, item *T) (*T, error)
	Update(ctx context.Context, id int, patch model.Patch[T]) (*T, error)
	Delete(ctx context.Context, id int) error
	ListByFilter(ctx context.Context, filter model.Filter[T]) ([]T, error)
}

// NotesService passes calls through to its gateway and re-signals persistence
// failures as *apperror.Error carrying the same message, status and details.
// Errors of any other type are returned unchanged.
type NotesService[T model.Entity] struct {
	repo Gateway[T]
	log  zerolog.Logger
}

func NewNotesService[T model.Entity](repo Gateway[T], log zerolog.Logger, component string) *NotesService[T] {
	return &NotesService[T]{
		repo: repo,
		log:  log.With().Str("component", component).Logger(),
	}
}

func (s *NotesService[T]) Get(ctx context.Context, id int) (*T, error) {
	s.log.Debug().Int("id", id).Msg("Retrieving item")
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return item, nil
}

func (s *NotesService[T]) Save(ctx context.Context, item *T) (*T, error) {
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, translate(err)
	}
	s.log.Info().Msg("Item saved successfully")
	return saved, nil
}

func (s *NotesService[T]) Update(ctx context.Context, id int, patch model.Patch[T]) (*T, error) {
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, translate(err)
	}
	s.log.Info().Int("id", id).Msg("Item updated successfully")
	return updated, nil
}

func (s *NotesService[T]) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.log.Info().Int("id", id).Msg("Item deleted successfully")
	return nil
}

func (s *NotesService[T]) ListByFilter(ctx context.Context, filter model.Filter[T]) ([]T, error) {
	items, err := s.repo.ListByFilter(ctx, filter)
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func translate(err error) error {
	var dbErr *repository.DBError
	if errors.As(err, &dbErr) {
		return &apperror.Error{
			Message:    dbErr.Message,
			StatusCode: dbErr.StatusCode,
			Details:    dbErr.Details,
			Err:        dbErr,
		}
	}
	return err
}

// Catalog groups the services of the three entity kinds.
type Catalog struct {
	Courses  *NotesService[model.Course]
	Subjects *NotesService[model.Subject]
	Contents *NotesService[model.Content]
}

// NewCatalog wires one service per kind over the given gateways.
func NewCatalog(
	courses Gateway[model.Course],
	subjects Gateway[model.Subject],
	contents Gateway[model.Content],
	log zerolog.Logger,
) *Catalog {
	return &Catalog{
		Courses:  NewNotesService(courses, log, "course_service"),
		Subjects: NewNotesService(subjects, log, "subject_service"),
		Contents: NewNotesService(contents, log, "content_service"),
	}
}
