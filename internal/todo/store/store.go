package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// hand out one sub-repository per table. A Store obtained from Tx refuses to
// open another transaction.
type Store interface {
	Users() Users
	Todos() Todos
	Holidays() Holidays

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches the stored email exactly.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts u. A taken email is ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUserRole sets the role and bumps updated_at.
	UpdateUserRole(ctx context.Context, userID string, role domain.Role) error

	// DeleteUser cascades to the user's todos.
	DeleteUser(ctx context.Context, userID string) error
}

// Todos is scoped by owner on every call; a todo owned by someone else is
// ErrNotFound. The lifecycle writes are single conditional statements, so a
// row in the wrong state is also ErrNotFound.
type Todos interface {
	CreateTodo(ctx context.Context, t domain.Todo) error

	// GetTodo returns the todo in any state, including deleted.
	GetTodo(ctx context.Context, userID, id string) (domain.Todo, error)

	ListTodos(ctx context.Context, userID string, f domain.ListFilter) ([]domain.Todo, error)

	// UpdateTodo writes title, content and both dates of a non-deleted todo.
	UpdateTodo(ctx context.Context, t domain.Todo) error

	// ToggleTodo flips completion of a non-deleted todo.
	ToggleTodo(ctx context.Context, userID, id string, at time.Time) (domain.Todo, error)

	// SoftDeleteTodo moves an active or completed todo to the trash.
	SoftDeleteTodo(ctx context.Context, userID, id string, at time.Time) (domain.Todo, error)

	// RestoreTodo moves a deleted todo back to active.
	RestoreTodo(ctx context.Context, userID, id string, at time.Time) (domain.Todo, error)

	// ListDeletedTodos returns the trash, most recently deleted first.
	ListDeletedTodos(ctx context.Context, userID string) ([]domain.Todo, error)

	// PurgeTodo hard deletes a todo that is in the trash.
	PurgeTodo(ctx context.Context, userID, id string) error

	// PurgeDeletedTodosBefore is housekeeping across all users.
	PurgeDeletedTodosBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Holidays interface {
	// ListHolidays returns holidays dated in year plus recurring ones, or
	// all of them when year is nil.
	ListHolidays(ctx context.Context, year *int) ([]domain.Holiday, error)

	GetHoliday(ctx context.Context, id string) (domain.Holiday, error)
	CreateHoliday(ctx context.Context, h domain.Holiday) error
	UpdateHoliday(ctx context.Context, h domain.Holiday) error
	DeleteHoliday(ctx context.Context, id string) error
}
