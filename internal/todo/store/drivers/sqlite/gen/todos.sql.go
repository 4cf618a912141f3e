package gen

import (
	"context"
	"database/sql"
)

const todoColumns = `id, user_id, title, content, start_date, due_date, status, is_completed, created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTodo(row rowScanner) (Todo, error) {
	var i Todo
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Title,
		&i.Content,
		&i.StartDate,
		&i.DueDate,
		&i.Status,
		&i.IsCompleted,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

func scanTodos(rows *sql.Rows) ([]Todo, error) {
	defer rows.Close()
	var items []Todo
	for rows.Next() {
		i, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createTodo = `-- name: CreateTodo :exec
INSERT INTO todos (id, user_id, title, content, start_date, due_date, status, is_completed, created_at, updated_at)
VALUES (?1, ?2, ?3, ?4, ?5, ?6, 'ACTIVE', 0, ?7, ?7)
`

type CreateTodoParams struct {
	ID        string
	UserID    string
	Title     string
	Content   sql.NullString
	StartDate sql.NullString
	DueDate   sql.NullString
	CreatedAt string
}

func (q *Queries) CreateTodo(ctx context.Context, arg CreateTodoParams) error {
	_, err := q.db.ExecContext(ctx, createTodo,
		arg.ID,
		arg.UserID,
		arg.Title,
		arg.Content,
		arg.StartDate,
		arg.DueDate,
		arg.CreatedAt,
	)
	return err
}

const getTodo = `-- name: GetTodo :one
SELECT ` + todoColumns + `
FROM todos
WHERE id = ?1 AND user_id = ?2
`

type GetTodoParams struct {
	ID     string
	UserID string
}

func (q *Queries) GetTodo(ctx context.Context, arg GetTodoParams) (Todo, error) {
	return scanTodo(q.db.QueryRowContext(ctx, getTodo, arg.ID, arg.UserID))
}

const listTodos = `-- name: ListTodos :many
SELECT ` + todoColumns + `
FROM todos
WHERE user_id = ?1
  AND (CASE WHEN ?2 IS NULL THEN status != 'DELETED' ELSE status = ?2 END)
  AND (?3 IS NULL OR COALESCE(is_completed, 0) = ?3)
  AND (?4 IS NULL OR (due_date >= ?4 AND due_date < ?5))
ORDER BY due_date IS NULL, due_date ASC, created_at DESC, id DESC
`

type ListTodosParams struct {
	UserID      string
	Status      sql.NullString
	IsCompleted sql.NullBool
	DueFrom     sql.NullString
	DueTo       sql.NullString
}

func (q *Queries) ListTodos(ctx context.Context, arg ListTodosParams) ([]Todo, error) {
	rows, err := q.db.QueryContext(ctx, listTodos,
		arg.UserID,
		arg.Status,
		arg.IsCompleted,
		arg.DueFrom,
		arg.DueTo,
	)
	if err != nil {
		return nil, err
	}
	return scanTodos(rows)
}

const updateTodo = `-- name: UpdateTodo :execrows
UPDATE todos
SET title = ?1, content = ?2, start_date = ?3, due_date = ?4, updated_at = ?5
WHERE id = ?6 AND user_id = ?7 AND status != 'DELETED'
`

type UpdateTodoParams struct {
	Title     string
	Content   sql.NullString
	StartDate sql.NullString
	DueDate   sql.NullString
	UpdatedAt string
	ID        string
	UserID    string
}

func (q *Queries) UpdateTodo(ctx context.Context, arg UpdateTodoParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTodo,
		arg.Title,
		arg.Content,
		arg.StartDate,
		arg.DueDate,
		arg.UpdatedAt,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const toggleTodo = `-- name: ToggleTodo :one
UPDATE todos
SET is_completed = CASE WHEN COALESCE(is_completed, 0) = 1 THEN 0 ELSE 1 END,
    status       = CASE WHEN COALESCE(is_completed, 0) = 1 THEN 'ACTIVE' ELSE 'COMPLETED' END,
    updated_at   = ?1
WHERE id = ?2 AND user_id = ?3 AND status != 'DELETED'
RETURNING ` + todoColumns + `
`

type ToggleTodoParams struct {
	UpdatedAt string
	ID        string
	UserID    string
}

func (q *Queries) ToggleTodo(ctx context.Context, arg ToggleTodoParams) (Todo, error) {
	return scanTodo(q.db.QueryRowContext(ctx, toggleTodo, arg.UpdatedAt, arg.ID, arg.UserID))
}

const softDeleteTodo = `-- name: SoftDeleteTodo :one
UPDATE todos
SET status = 'DELETED', deleted_at = ?1, updated_at = ?1
WHERE id = ?2 AND user_id = ?3 AND status IN ('ACTIVE', 'COMPLETED')
RETURNING ` + todoColumns + `
`

type SoftDeleteTodoParams struct {
	DeletedAt string
	ID        string
	UserID    string
}

func (q *Queries) SoftDeleteTodo(ctx context.Context, arg SoftDeleteTodoParams) (Todo, error) {
	return scanTodo(q.db.QueryRowContext(ctx, softDeleteTodo, arg.DeletedAt, arg.ID, arg.UserID))
}

const restoreTodo = `-- name: RestoreTodo :one
UPDATE todos
SET status = 'ACTIVE', is_completed = 0, deleted_at = NULL, updated_at = ?1
WHERE id = ?2 AND user_id = ?3 AND status = 'DELETED'
RETURNING ` + todoColumns + `
`

type RestoreTodoParams struct {
	UpdatedAt string
	ID        string
	UserID    string
}

func (q *Queries) RestoreTodo(ctx context.Context, arg RestoreTodoParams) (Todo, error) {
	return scanTodo(q.db.QueryRowContext(ctx, restoreTodo, arg.UpdatedAt, arg.ID, arg.UserID))
}

const listDeletedTodos = `-- name: ListDeletedTodos :many
SELECT ` + todoColumns + `
FROM todos
WHERE user_id = ?1 AND status = 'DELETED'
ORDER BY deleted_at DESC, id DESC
`

func (q *Queries) ListDeletedTodos(ctx context.Context, userID string) ([]Todo, error) {
	rows, err := q.db.QueryContext(ctx, listDeletedTodos, userID)
	if err != nil {
		return nil, err
	}
	return scanTodos(rows)
}

const purgeTodo = `-- name: PurgeTodo :execrows
DELETE FROM todos
WHERE id = ?1 AND user_id = ?2 AND status = 'DELETED'
`

type PurgeTodoParams struct {
	ID     string
	UserID string
}

func (q *Queries) PurgeTodo(ctx context.Context, arg PurgeTodoParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, purgeTodo, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const purgeDeletedTodosBefore = `-- name: PurgeDeletedTodosBefore :execrows
DELETE FROM todos
WHERE status = 'DELETED' AND deleted_at < ?1
`

func (q *Queries) PurgeDeletedTodosBefore(ctx context.Context, cutoff string) (int64, error) {
	result, err := q.db.ExecContext(ctx, purgeDeletedTodosBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
