package todosdk

import (
	"encoding/json"
	"fmt"
	"time"
)

// Todo statuses as they appear on the wire.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
)

// User is the public view of an account. The password hash never leaves the
// server.
type User struct {
	ID        string    `json:"userId"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Todo struct {
	ID          string     `json:"todoId"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Content     *string    `json:"content,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      string     `json:"status"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

type Holiday struct {
	ID          string    `json:"holidayId"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Description *string   `json:"description,omitempty"`
	IsRecurring bool      `json:"isRecurring"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// CreateTodoRequest creates a todo. Dates are YYYY-MM-DD or RFC 3339.
type CreateTodoRequest struct {
	Title     string  `json:"title"`
	Content   *string `json:"content,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	DueDate   *string `json:"dueDate,omitempty"`
}

// UpdateTodoRequest is a partial update. Nil fields are left untouched.
// The Clear flags send an explicit null, which removes the stored value.
type UpdateTodoRequest struct {
	Title     *string
	Content   *string
	StartDate *string
	DueDate   *string

	ClearContent   bool
	ClearStartDate bool
	ClearDueDate   bool
}

func (r UpdateTodoRequest) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 4)
	if r.Title != nil {
		out["title"] = *r.Title
	}
	putNullable(out, "content", r.Content, r.ClearContent)
	putNullable(out, "startDate", r.StartDate, r.ClearStartDate)
	putNullable(out, "dueDate", r.DueDate, r.ClearDueDate)
	return json.Marshal(out)
}

func putNullable(out map[string]any, key string, v *string, clear bool) {
	switch {
	case clear:
		out[key] = nil
	case v != nil:
		out[key] = *v
	}
}

// UnmarshalJSON tells an absent key apart from an explicit null. A null
// title is ignored since a todo always has one.
func (r *UpdateTodoRequest) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("update body must be an object")
	}

	*r = UpdateTodoRequest{}

	if _, err := takeNullable(raw, "title", &r.Title); err != nil {
		return err
	}
	var err error
	if r.ClearContent, err = takeNullable(raw, "content", &r.Content); err != nil {
		return err
	}
	if r.ClearStartDate, err = takeNullable(raw, "startDate", &r.StartDate); err != nil {
		return err
	}
	if r.ClearDueDate, err = takeNullable(raw, "dueDate", &r.DueDate); err != nil {
		return err
	}
	return nil
}

// takeNullable reads raw[key] into dst and reports whether it was null.
func takeNullable(raw map[string]json.RawMessage, key string, dst **string) (bool, error) {
	v, ok := raw[key]
	if !ok {
		return false, nil
	}
	if string(v) == "null" {
		return true, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return false, fmt.Errorf("%s: must be a string", key)
	}
	*dst = &s
	return false, nil
}

// ListTodosOptions narrows a todo listing. Zero values mean no filter.
type ListTodosOptions struct {
	Status      string
	IsCompleted *bool
	DueDate     string
}

type CreateHolidayRequest struct {
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	Description *string `json:"description,omitempty"`
	IsRecurring bool    `json:"isRecurring"`
}

type UpdateHolidayRequest struct {
	Title       *string `json:"title,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
	IsRecurring *bool   `json:"isRecurring,omitempty"`
}

// HealthResponse is returned unwrapped by the probe endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
