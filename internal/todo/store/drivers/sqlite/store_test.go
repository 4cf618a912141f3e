package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/store"
	"github.com/aussiebroadwan/taskboard/internal/todo/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "hash",
		Username:     "user",
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedTodo(t *testing.T, s store.Store, owner string, title string, due *time.Time, created time.Time) domain.Todo {
	t.Helper()

	td := domain.Todo{
		ID:        idx.NewAt(created).String(),
		UserID:    owner,
		Title:     title,
		DueDate:   due,
		CreatedAt: created,
	}
	require.NoError(t, s.Todos().CreateTodo(context.Background(), td))
	return td
}

func ptr[T any](v T) *T { return &v }

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	u := seedUser(t, s, "alice@example.com")

	got, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, domain.RoleUser, got.Role)
	require.Equal(t, "hash", got.PasswordHash)

	_, err = s.Users().GetUserByEmail(ctx, "ALICE@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	dup := u
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	require.NoError(t, s.Users().UpdateUserRole(ctx, u.ID, domain.RoleAdmin))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)

	require.ErrorIs(t, s.Users().UpdateUserRole(ctx, "missing", domain.RoleAdmin), store.ErrNotFound)
}

func TestDeleteUserCascadesToTodos(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "bob@example.com")
	td := seedTodo(t, s, u.ID, "Buy milk", nil, time.Now())

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err := s.Todos().GetTodo(ctx, u.ID, td.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, s.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)
}

func TestTodoLifecycleWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Todos()

	u := seedUser(t, s, "carol@example.com")
	td := seedTodo(t, s, u.ID, "Write report", nil, time.Now())
	now := time.Now()

	got, err := repo.GetTodo(ctx, u.ID, td.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TodoActive, got.Status)
	require.False(t, got.IsCompleted)
	require.Nil(t, got.DeletedAt)

	got, err = repo.ToggleTodo(ctx, u.ID, td.ID, now)
	require.NoError(t, err)
	require.Equal(t, domain.TodoCompleted, got.Status)
	require.True(t, got.IsCompleted)

	got, err = repo.ToggleTodo(ctx, u.ID, td.ID, now)
	require.NoError(t, err)
	require.Equal(t, domain.TodoActive, got.Status)
	require.False(t, got.IsCompleted)

	got, err = repo.SoftDeleteTodo(ctx, u.ID, td.ID, now)
	require.NoError(t, err)
	require.Equal(t, domain.TodoDeleted, got.Status)
	require.NotNil(t, got.DeletedAt)
	require.WithinDuration(t, now, *got.DeletedAt, time.Millisecond)

	_, err = repo.ToggleTodo(ctx, u.ID, td.ID, now)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.SoftDeleteTodo(ctx, u.ID, td.ID, now)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, repo.UpdateTodo(ctx, domain.Todo{ID: td.ID, UserID: u.ID, Title: "x"}), store.ErrNotFound)

	got, err = repo.RestoreTodo(ctx, u.ID, td.ID, now)
	require.NoError(t, err)
	require.Equal(t, domain.TodoActive, got.Status)
	require.Nil(t, got.DeletedAt)

	_, err = repo.RestoreTodo(ctx, u.ID, td.ID, now)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, repo.PurgeTodo(ctx, u.ID, td.ID), store.ErrNotFound, "purge needs the todo in the trash")
}

func TestSoftDeleteKeepsCompletionFlag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "dan@example.com")
	td := seedTodo(t, s, u.ID, "Done thing", nil, time.Now())

	_, err := s.Todos().ToggleTodo(ctx, u.ID, td.ID, time.Now())
	require.NoError(t, err)

	got, err := s.Todos().SoftDeleteTodo(ctx, u.ID, td.ID, time.Now())
	require.NoError(t, err)
	require.True(t, got.IsCompleted)

	got, err = s.Todos().RestoreTodo(ctx, u.ID, td.ID, time.Now())
	require.NoError(t, err)
	require.False(t, got.IsCompleted)
	require.Equal(t, domain.TodoActive, got.Status)
}

func TestTodosAreOwnerScoped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	alice := seedUser(t, s, "alice@example.com")
	mallory := seedUser(t, s, "mallory@example.com")
	td := seedTodo(t, s, alice.ID, "Private", nil, time.Now())

	_, err := s.Todos().GetTodo(ctx, mallory.ID, td.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Todos().ToggleTodo(ctx, mallory.ID, td.ID, time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Todos().SoftDeleteTodo(ctx, mallory.ID, td.ID, time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.Todos().ListTodos(ctx, mallory.ID, domain.ListFilter{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestListTodosOrderingAndFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "erin@example.com")
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	noDueOld := seedTodo(t, s, u.ID, "no due, old", nil, base)
	noDueNew := seedTodo(t, s, u.ID, "no due, new", nil, base.Add(time.Hour))
	dueLater := seedTodo(t, s, u.ID, "due later", ptr(base.AddDate(0, 0, 10)), base)
	dueSoon := seedTodo(t, s, u.ID, "due soon", ptr(base.AddDate(0, 0, 2).Add(5*time.Hour)), base)
	gone := seedTodo(t, s, u.ID, "deleted", ptr(base.AddDate(0, 0, 2)), base)

	_, err := s.Todos().SoftDeleteTodo(ctx, u.ID, gone.ID, base)
	require.NoError(t, err)
	_, err = s.Todos().ToggleTodo(ctx, u.ID, dueLater.ID, base)
	require.NoError(t, err)

	ids := func(todos []domain.Todo) []string {
		out := make([]string, 0, len(todos))
		for _, td := range todos {
			out = append(out, td.ID)
		}
		return out
	}

	all, err := s.Todos().ListTodos(ctx, u.ID, domain.ListFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{dueSoon.ID, dueLater.ID, noDueNew.ID, noDueOld.ID}, ids(all))

	deleted, err := s.Todos().ListTodos(ctx, u.ID, domain.ListFilter{Status: ptr(domain.TodoDeleted)})
	require.NoError(t, err)
	require.Equal(t, []string{gone.ID}, ids(deleted))

	completed, err := s.Todos().ListTodos(ctx, u.ID, domain.ListFilter{IsCompleted: ptr(true)})
	require.NoError(t, err)
	require.Equal(t, []string{dueLater.ID}, ids(completed))

	open, err := s.Todos().ListTodos(ctx, u.ID, domain.ListFilter{Status: ptr(domain.TodoActive)})
	require.NoError(t, err)
	require.Equal(t, []string{dueSoon.ID, noDueNew.ID, noDueOld.ID}, ids(open))

	onDay, err := s.Todos().ListTodos(ctx, u.ID, domain.ListFilter{DueDate: ptr(base.AddDate(0, 0, 2))})
	require.NoError(t, err)
	require.Equal(t, []string{dueSoon.ID}, ids(onDay))
}

func TestListTodosDueDayBoundaries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "gail@example.com")
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	created := day.AddDate(0, 0, -7)

	atStart := seedTodo(t, s, u.ID, "midnight start", ptr(day), created)
	lastMicro := seedTodo(t, s, u.ID, "last microsecond", ptr(day.Add(24*time.Hour-time.Microsecond)), created)
	seedTodo(t, s, u.ID, "next midnight", ptr(day.AddDate(0, 0, 1)), created)
	seedTodo(t, s, u.ID, "day before", ptr(day.Add(-time.Microsecond)), created)

	got, err := s.Todos().ListTodos(ctx, u.ID, domain.ListFilter{DueDate: ptr(day.Add(13 * time.Hour))})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, atStart.ID, got[0].ID)
	require.Equal(t, lastMicro.ID, got[1].ID)
}

func TestTrashListAndPurge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "frank@example.com")
	now := time.Now().UTC()
	first := seedTodo(t, s, u.ID, "first", nil, now)
	second := seedTodo(t, s, u.ID, "second", nil, now)
	seedTodo(t, s, u.ID, "kept", nil, now)

	_, err := s.Todos().SoftDeleteTodo(ctx, u.ID, first.ID, now.Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = s.Todos().SoftDeleteTodo(ctx, u.ID, second.ID, now)
	require.NoError(t, err)

	trash, err := s.Todos().ListDeletedTodos(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, trash, 2)
	require.Equal(t, second.ID, trash[0].ID)
	require.Equal(t, first.ID, trash[1].ID)

	n, err := s.Todos().PurgeDeletedTodosBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, s.Todos().PurgeTodo(ctx, u.ID, second.ID))
	_, err = s.Todos().GetTodo(ctx, u.ID, second.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	trash, err = s.Todos().ListDeletedTodos(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, trash)
}

func TestHolidays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Holidays()

	mk := func(title, date string, recurring bool) domain.Holiday {
		h := domain.Holiday{ID: idx.New().String(), Title: title, Date: date, IsRecurring: recurring}
		require.NoError(t, repo.CreateHoliday(ctx, h))
		return h
	}

	newYear := mk("New Year", "2000-01-01", true)
	election := mk("Election Day", "2024-04-10", false)
	substitute := mk("Substitute Holiday", "2025-03-03", false)

	titles := func(hs []domain.Holiday) []string {
		out := make([]string, 0, len(hs))
		for _, h := range hs {
			out = append(out, h.Title)
		}
		return out
	}

	all, err := repo.ListHolidays(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, []string{newYear.Title, election.Title, substitute.Title}, titles(all))

	in2025, err := repo.ListHolidays(ctx, ptr(2025))
	require.NoError(t, err)
	require.Equal(t, []string{newYear.Title, substitute.Title}, titles(in2025))

	substitute.Description = ptr("moved from Sunday")
	substitute.Date = "2025-03-04"
	require.NoError(t, repo.UpdateHoliday(ctx, substitute))

	got, err := repo.GetHoliday(ctx, substitute.ID)
	require.NoError(t, err)
	require.Equal(t, "2025-03-04", got.Date)
	require.Equal(t, "moved from Sunday", *got.Description)

	require.NoError(t, repo.DeleteHoliday(ctx, election.ID))
	require.ErrorIs(t, repo.DeleteHoliday(ctx, election.ID), store.ErrNotFound)
	_, err = repo.GetHoliday(ctx, election.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	id := idx.New().String()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, domain.User{
			ID: id, Email: "tx@example.com", PasswordHash: "h", Username: "tx",
		}))

		_, err := tx.Tx(ctx)
		require.Error(t, err, "nested transactions are refused")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByID(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}
