package todosdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListHolidays lists holidays. A non-zero year keeps that year's dates plus
// every recurring holiday.
func (c *SDKClient) ListHolidays(ctx context.Context, year int) ([]Holiday, error) {
	path := apiPrefix + "/holidays"
	if year != 0 {
		path += "?" + url.Values{"year": {strconv.Itoa(year)}}.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var holidays []Holiday
	if _, err := decodeEnvelope(resp, &holidays, http.StatusOK); err != nil {
		return nil, err
	}
	return holidays, nil
}

func (c *SDKClient) GetHoliday(ctx context.Context, id string) (*Holiday, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, apiPrefix+"/holidays/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var h Holiday
	if _, err := decodeEnvelope(resp, &h, http.StatusOK); err != nil {
		return nil, err
	}
	return &h, nil
}
