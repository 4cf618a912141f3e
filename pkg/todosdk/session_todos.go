package todosdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func todoPath(id string) string {
	return apiPrefix + "/todos/" + url.PathEscape(id)
}

// ListTodos returns the caller's todos. Without a status filter deleted
// todos are left out.
func (s *Session) ListTodos(ctx context.Context, opts ListTodosOptions) ([]Todo, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.IsCompleted != nil {
		q.Set("isCompleted", strconv.FormatBool(*opts.IsCompleted))
	}
	if opts.DueDate != "" {
		q.Set("dueDate", opts.DueDate)
	}

	path := apiPrefix + "/todos"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var todos []Todo
	if _, err := decodeEnvelope(resp, &todos, http.StatusOK); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *Session) CreateTodo(ctx context.Context, req CreateTodoRequest) (*Todo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, apiPrefix+"/todos", req)
	if err != nil {
		return nil, err
	}

	var t Todo
	if _, err := decodeEnvelope(resp, &t, http.StatusCreated); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Session) GetTodo(ctx context.Context, id string) (*Todo, error) {
	return s.todoCall(ctx, http.MethodGet, todoPath(id), nil)
}

func (s *Session) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*Todo, error) {
	return s.todoCall(ctx, http.MethodPut, todoPath(id), req)
}

// ToggleTodo flips a todo between active and completed.
func (s *Session) ToggleTodo(ctx context.Context, id string) (*Todo, error) {
	return s.todoCall(ctx, http.MethodPatch, todoPath(id)+"/complete", nil)
}

// DeleteTodo moves a todo to the trash.
func (s *Session) DeleteTodo(ctx context.Context, id string) (*Todo, error) {
	return s.todoCall(ctx, http.MethodDelete, todoPath(id), nil)
}

// RestoreTodo brings a trashed todo back as active.
func (s *Session) RestoreTodo(ctx context.Context, id string) (*Todo, error) {
	return s.todoCall(ctx, http.MethodPatch, todoPath(id)+"/restore", nil)
}

func (s *Session) todoCall(ctx context.Context, method, path string, payload any) (*Todo, error) {
	resp, err := s.doAuthRequest(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	var t Todo
	if _, err := decodeEnvelope(resp, &t, http.StatusOK); err != nil {
		return nil, err
	}
	return &t, nil
}
