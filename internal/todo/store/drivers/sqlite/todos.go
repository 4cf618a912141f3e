package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/store/drivers/sqlite/gen"
)

type todosRepo struct {
	q *gen.Queries
}

func (r *todosRepo) CreateTodo(ctx context.Context, t domain.Todo) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return r.q.CreateTodo(ctx, gen.CreateTodoParams{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Content:   mapOptionalString(t.Content),
		StartDate: mapOptionalTime(t.StartDate),
		DueDate:   mapOptionalTime(t.DueDate),
		CreatedAt: formatTime(t.CreatedAt),
	})
}

func (r *todosRepo) GetTodo(ctx context.Context, userID, id string) (domain.Todo, error) {
	row, err := r.q.GetTodo(ctx, gen.GetTodoParams{ID: id, UserID: userID})
	if err != nil {
		return domain.Todo{}, mapNotFound(err)
	}
	return mapTodo(row), nil
}

func (r *todosRepo) ListTodos(ctx context.Context, userID string, f domain.ListFilter) ([]domain.Todo, error) {
	arg := gen.ListTodosParams{UserID: userID}

	if f.Status != nil {
		arg.Status = sql.NullString{String: toStorageStatus(*f.Status), Valid: true}
	}
	if f.IsCompleted != nil {
		arg.IsCompleted = sql.NullBool{Bool: *f.IsCompleted, Valid: true}
	}
	if f.DueDate != nil {
		d := f.DueDate.UTC()
		from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		arg.DueFrom = sql.NullString{String: formatTime(from), Valid: true}
		arg.DueTo = sql.NullString{String: formatTime(from.AddDate(0, 0, 1)), Valid: true}
	}

	rows, err := r.q.ListTodos(ctx, arg)
	if err != nil {
		return nil, err
	}
	return mapTodos(rows), nil
}

func (r *todosRepo) UpdateTodo(ctx context.Context, t domain.Todo) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now()
	}
	return mapRowsAffected(r.q.UpdateTodo(ctx, gen.UpdateTodoParams{
		Title:     t.Title,
		Content:   mapOptionalString(t.Content),
		StartDate: mapOptionalTime(t.StartDate),
		DueDate:   mapOptionalTime(t.DueDate),
		UpdatedAt: formatTime(t.UpdatedAt),
		ID:        t.ID,
		UserID:    t.UserID,
	}))
}

func (r *todosRepo) ToggleTodo(ctx context.Context, userID, id string, at time.Time) (domain.Todo, error) {
	row, err := r.q.ToggleTodo(ctx, gen.ToggleTodoParams{
		UpdatedAt: formatTime(at),
		ID:        id,
		UserID:    userID,
	})
	if err != nil {
		return domain.Todo{}, mapNotFound(err)
	}
	return mapTodo(row), nil
}

func (r *todosRepo) SoftDeleteTodo(ctx context.Context, userID, id string, at time.Time) (domain.Todo, error) {
	row, err := r.q.SoftDeleteTodo(ctx, gen.SoftDeleteTodoParams{
		DeletedAt: formatTime(at),
		ID:        id,
		UserID:    userID,
	})
	if err != nil {
		return domain.Todo{}, mapNotFound(err)
	}
	return mapTodo(row), nil
}

func (r *todosRepo) RestoreTodo(ctx context.Context, userID, id string, at time.Time) (domain.Todo, error) {
	row, err := r.q.RestoreTodo(ctx, gen.RestoreTodoParams{
		UpdatedAt: formatTime(at),
		ID:        id,
		UserID:    userID,
	})
	if err != nil {
		return domain.Todo{}, mapNotFound(err)
	}
	return mapTodo(row), nil
}

func (r *todosRepo) ListDeletedTodos(ctx context.Context, userID string) ([]domain.Todo, error) {
	rows, err := r.q.ListDeletedTodos(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapTodos(rows), nil
}

func (r *todosRepo) PurgeTodo(ctx context.Context, userID, id string) error {
	return mapRowsAffected(r.q.PurgeTodo(ctx, gen.PurgeTodoParams{ID: id, UserID: userID}))
}

func (r *todosRepo) PurgeDeletedTodosBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.PurgeDeletedTodosBefore(ctx, formatTime(cutoff))
}
