package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

const maxTodoTitleChars = 200

// TodoService drives the todo lifecycle for a single owner at a time.
type TodoService struct {
	Store store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TodoService) now() time.Time {
	if s.Now != nil {
		return storedTime(s.Now())
	}
	return storedTime(time.Now())
}

func validateTitle(title string) error {
	return asValidationError(validation.Errors{
		"title": validation.Validate(title, validation.Required, validation.RuneLength(1, maxTodoTitleChars)),
	}.Filter())
}

func (s *TodoService) Create(ctx context.Context, ownerID string, in domain.CreateTodoInput) (domain.Todo, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateTitle(in.Title); err != nil {
		return domain.Todo{}, err
	}
	if !domain.DateRangeValid(in.StartDate, in.DueDate) {
		return domain.Todo{}, ErrInvalidDateRange
	}

	now := s.now()
	todo := domain.Todo{
		ID:        idx.New().String(),
		UserID:    ownerID,
		Title:     in.Title,
		Content:   in.Content,
		StartDate: utcPtr(in.StartDate),
		DueDate:   utcPtr(in.DueDate),
		Status:    domain.TodoActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Todos().CreateTodo(ctx, todo); err != nil {
		return domain.Todo{}, fmt.Errorf("create todo: %w", err)
	}

	slogx.FromContext(ctx).Debug("todo created", slog.String("todo_id", todo.ID))
	return todo, nil
}

// Get returns a todo that is not in the trash.
func (s *TodoService) Get(ctx context.Context, ownerID, id string) (domain.Todo, error) {
	todo, err := s.Store.Todos().GetTodo(ctx, ownerID, id)
	if err != nil {
		return domain.Todo{}, mapTodoErr(err)
	}
	if todo.Status == domain.TodoDeleted {
		return domain.Todo{}, ErrTodoNotFound
	}
	return todo, nil
}

// Update merges patch over the stored todo. Status and completion are left
// alone; the date range is checked against the merged values. An empty patch
// writes nothing and returns the todo as stored.
func (s *TodoService) Update(ctx context.Context, ownerID, id string, patch domain.TodoPatch) (domain.Todo, error) {
	if patch.Empty() {
		return s.Get(ctx, ownerID, id)
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if err := validateTitle(t); err != nil {
			return domain.Todo{}, err
		}
		patch.Title = &t
	}

	var updated domain.Todo
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Todos().GetTodo(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if current.Status == domain.TodoDeleted {
			return store.ErrNotFound
		}

		next := patch.Apply(current)
		next.StartDate = utcPtr(next.StartDate)
		next.DueDate = utcPtr(next.DueDate)
		if !domain.DateRangeValid(next.StartDate, next.DueDate) {
			return ErrInvalidDateRange
		}
		next.UpdatedAt = s.now()

		if err := tx.Todos().UpdateTodo(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return domain.Todo{}, mapTodoErr(err)
	}
	return updated, nil
}

// ToggleCompletion flips active <-> completed in one statement.
func (s *TodoService) ToggleCompletion(ctx context.Context, ownerID, id string) (domain.Todo, error) {
	todo, err := s.Store.Todos().ToggleTodo(ctx, ownerID, id, s.now())
	if err != nil {
		return domain.Todo{}, mapTodoErr(err)
	}
	return todo, nil
}

// SoftDelete moves an active or completed todo to the trash.
func (s *TodoService) SoftDelete(ctx context.Context, ownerID, id string) (domain.Todo, error) {
	todo, err := s.Store.Todos().SoftDeleteTodo(ctx, ownerID, id, s.now())
	if err != nil {
		return domain.Todo{}, mapTodoErr(err)
	}
	slogx.FromContext(ctx).Debug("todo moved to trash", slog.String("todo_id", id))
	return todo, nil
}

// Restore brings a trashed todo back as active and not completed.
func (s *TodoService) Restore(ctx context.Context, ownerID, id string) (domain.Todo, error) {
	todo, err := s.Store.Todos().RestoreTodo(ctx, ownerID, id, s.now())
	if err != nil {
		return domain.Todo{}, mapTodoErr(err)
	}
	return todo, nil
}

// List returns the owner's todos. Trashed todos only show up when the
// filter asks for status deleted.
func (s *TodoService) List(ctx context.Context, ownerID string, f domain.ListFilter) ([]domain.Todo, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "must be one of active, completed, deleted"}
	}

	todos, err := s.Store.Todos().ListTodos(ctx, ownerID, f)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func mapTodoErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrTodoNotFound
	case errors.Is(err, ErrInvalidDateRange), errors.Is(err, ErrValidation):
		return err
	default:
		return fmt.Errorf("todo store: %w", err)
	}
}

// storedTime rounds t to what survives a round trip through the store.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := storedTime(*t)
	return &u
}
