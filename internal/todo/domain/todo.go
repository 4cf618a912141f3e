package domain

import "time"

// TodoStatus is where a todo sits in its lifecycle.
//
//	active <-> completed    (toggle)
//	active|completed -> deleted    (soft delete)
//	deleted -> active    (restore)
//	deleted -> gone    (purge)
type TodoStatus string

const (
	TodoActive    TodoStatus = "active"
	TodoCompleted TodoStatus = "completed"
	TodoDeleted   TodoStatus = "deleted"
)

func (s TodoStatus) Valid() bool {
	switch s {
	case TodoActive, TodoCompleted, TodoDeleted:
		return true
	}
	return false
}

// ParseTodoStatus accepts the lowercase wire form.
func ParseTodoStatus(s string) (TodoStatus, bool) {
	st := TodoStatus(s)
	return st, st.Valid()
}

type Todo struct {
	ID          string     `json:"todoId"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Content     *string    `json:"content,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      TodoStatus `json:"status"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// CreateTodoInput carries the fields a caller may set on a new todo.
type CreateTodoInput struct {
	Title     string
	Content   *string
	StartDate *time.Time
	DueDate   *time.Time
}

// TodoPatch is a partial update. Nil pointers leave the stored value alone;
// the Clear flags null the field out and win over a value.
type TodoPatch struct {
	Title     *string
	Content   *string
	StartDate *time.Time
	DueDate   *time.Time

	ClearContent   bool
	ClearStartDate bool
	ClearDueDate   bool
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.StartDate == nil && p.DueDate == nil &&
		!p.ClearContent && !p.ClearStartDate && !p.ClearDueDate
}

// Apply merges p over t and returns the result. t is not modified.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	switch {
	case p.ClearContent:
		t.Content = nil
	case p.Content != nil:
		t.Content = p.Content
	}
	switch {
	case p.ClearStartDate:
		t.StartDate = nil
	case p.StartDate != nil:
		t.StartDate = p.StartDate
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		t.DueDate = p.DueDate
	}
	return t
}

// ListFilter narrows List. Zero value lists every non-deleted todo.
type ListFilter struct {
	Status      *TodoStatus
	IsCompleted *bool
	// DueDate matches todos due on the same UTC calendar day.
	DueDate *time.Time
}

// DateRangeValid reports whether due is not before start. Missing ends are
// always valid.
func DateRangeValid(start, due *time.Time) bool {
	if start == nil || due == nil {
		return true
	}
	return !due.Before(*start)
}
