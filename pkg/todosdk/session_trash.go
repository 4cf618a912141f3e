package todosdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListTrash returns the caller's deleted todos, most recently deleted first.
func (s *Session) ListTrash(ctx context.Context) ([]Todo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, apiPrefix+"/trash", nil)
	if err != nil {
		return nil, err
	}

	var todos []Todo
	if _, err := decodeEnvelope(resp, &todos, http.StatusOK); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *Session) RestoreFromTrash(ctx context.Context, id string) (*Todo, error) {
	return s.todoCall(ctx, http.MethodPatch, apiPrefix+"/trash/"+url.PathEscape(id)+"/restore", nil)
}

// PurgeTodo deletes a trashed todo for good.
func (s *Session) PurgeTodo(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, apiPrefix+"/trash/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}

	_, err = decodeEnvelope(resp, nil, http.StatusOK)
	return err
}
