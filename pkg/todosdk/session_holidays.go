package todosdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateHoliday adds a holiday. Admin only.
func (s *Session) CreateHoliday(ctx context.Context, req CreateHolidayRequest) (*Holiday, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, apiPrefix+"/holidays", req)
	if err != nil {
		return nil, err
	}

	var h Holiday
	if _, err := decodeEnvelope(resp, &h, http.StatusCreated); err != nil {
		return nil, err
	}
	return &h, nil
}

// UpdateHoliday changes the fields set on req. Admin only.
func (s *Session) UpdateHoliday(ctx context.Context, id string, req UpdateHolidayRequest) (*Holiday, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, apiPrefix+"/holidays/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}

	var h Holiday
	if _, err := decodeEnvelope(resp, &h, http.StatusOK); err != nil {
		return nil, err
	}
	return &h, nil
}

// DeleteHoliday removes a holiday for good. Admin only.
func (s *Session) DeleteHoliday(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, apiPrefix+"/holidays/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}

	_, err = decodeEnvelope(resp, nil, http.StatusOK)
	return err
}
