package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/store"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// TrashService manages soft deleted todos.
type TrashService struct {
	Store store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TrashService) now() time.Time {
	if s.Now != nil {
		return storedTime(s.Now())
	}
	return storedTime(time.Now())
}

// List returns the owner's trash, most recently deleted first.
func (s *TrashService) List(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	todos, err := s.Store.Todos().ListDeletedTodos(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list trash: %w", err)
	}
	return todos, nil
}

func (s *TrashService) Restore(ctx context.Context, ownerID, id string) (domain.Todo, error) {
	todo, err := s.Store.Todos().RestoreTodo(ctx, ownerID, id, s.now())
	if err != nil {
		return domain.Todo{}, mapTodoErr(err)
	}
	return todo, nil
}

// Purge permanently removes a todo that is already in the trash.
func (s *TrashService) Purge(ctx context.Context, ownerID, id string) error {
	if err := s.Store.Todos().PurgeTodo(ctx, ownerID, id); err != nil {
		return mapTodoErr(err)
	}
	slogx.FromContext(ctx).Info("todo purged", slog.String("todo_id", id))
	return nil
}

// PurgeOlderThan drops every trashed todo deleted before cutoff, for all
// users.
func (s *TrashService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.Store.Todos().PurgeDeletedTodosBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge trash: %w", err)
	}
	return n, nil
}
