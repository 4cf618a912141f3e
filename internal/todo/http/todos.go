package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/todosdk"
)

const dateMessage = "must be a date (YYYY-MM-DD) or an RFC 3339 timestamp"

// TodoHandler serves the caller's own todos. Every route sits behind the
// auth gate.
type TodoHandler struct {
	TodoService *service.TodoService
}

// callerID is the authenticated user. The gate guarantees one is present.
func callerID(r *http.Request) string {
	id, _ := httpx.IdentityFromContext(r.Context())
	return id.UserID
}

// parseDate accepts a calendar date (taken as UTC midnight) or a full RFC
// 3339 timestamp.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, badField(field, dateMessage)
}

// optionalDate parses an optional body date; nil and "" both mean unset.
func optionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseListFilter(r *http.Request) (domain.ListFilter, error) {
	var f domain.ListFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		st, ok := domain.ParseTodoStatus(v)
		if !ok {
			return f, badField("status", "must be one of active, completed, deleted")
		}
		f.Status = &st
	}

	if v := q.Get("isCompleted"); v != "" {
		if v != "true" && v != "false" {
			return f, badField("isCompleted", "must be true or false")
		}
		b := v == "true"
		f.IsCompleted = &b
	}

	if v := q.Get("dueDate"); v != "" {
		t, err := parseDate("dueDate", v)
		if err != nil {
			return f, err
		}
		f.DueDate = &t
	}

	return f, nil
}

func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	f, err := parseListFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	todos, err := h.TodoService.List(r.Context(), callerID(r), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, todos)
}

func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req todosdk.CreateTodoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := domain.CreateTodoInput{Title: req.Title, Content: req.Content}
	var err error
	if in.StartDate, err = optionalDate("startDate", req.StartDate); err != nil {
		writeError(w, r, err)
		return
	}
	if in.DueDate, err = optionalDate("dueDate", req.DueDate); err != nil {
		writeError(w, r, err)
		return
	}

	todo, err := h.TodoService.Create(r.Context(), callerID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, todo)
}

func (h *TodoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrTodoNotFound)
	if !ok {
		return
	}

	todo, err := h.TodoService.Get(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, todo)
}

// HandleUpdate applies a partial update. A null content or date clears the
// field, as does an empty date string.
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrTodoNotFound)
	if !ok {
		return
	}

	var req todosdk.UpdateTodoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	patch, err := todoPatch(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	todo, err := h.TodoService.Update(r.Context(), callerID(r), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, todo)
}

func todoPatch(req todosdk.UpdateTodoRequest) (domain.TodoPatch, error) {
	p := domain.TodoPatch{
		Title:          req.Title,
		Content:        req.Content,
		ClearContent:   req.ClearContent,
		ClearStartDate: req.ClearStartDate,
		ClearDueDate:   req.ClearDueDate,
	}

	if req.StartDate != nil && strings.TrimSpace(*req.StartDate) == "" {
		p.ClearStartDate = true
	}
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) == "" {
		p.ClearDueDate = true
	}

	var err error
	if p.StartDate, err = optionalDate("startDate", req.StartDate); err != nil {
		return p, err
	}
	if p.DueDate, err = optionalDate("dueDate", req.DueDate); err != nil {
		return p, err
	}
	return p, nil
}

// HandleToggle flips active and completed.
func (h *TodoHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrTodoNotFound)
	if !ok {
		return
	}

	todo, err := h.TodoService.ToggleCompletion(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, todo)
}

// HandleDelete moves the todo to the trash.
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrTodoNotFound)
	if !ok {
		return
	}

	todo, err := h.TodoService.SoftDelete(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Success: true, Data: todo, Message: "todo moved to trash"})
}

func (h *TodoHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, service.ErrTodoNotFound)
	if !ok {
		return
	}

	todo, err := h.TodoService.Restore(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Success: true, Data: todo, Message: "todo restored"})
}
