package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"portfolio/src/utils"
)

// ExternalAPIService is a small JSON REST helper shared by the upstream clients.
type ExternalAPIService struct {
	client *http.Client
}

// NewExternalAPIService creates a new ExternalAPIService. A nil client gets a default one with
// the given timeout.
func NewExternalAPIService(client *http.Client, timeout time.Duration) *ExternalAPIService {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &ExternalAPIService{client: client}
}

// makeRequest sends a JSON request and returns the raw response body of a 2xx response.
// Non-2xx responses are turned into *utils.HTTPError using the body's message/error field.
func (s *ExternalAPIService) makeRequest(ctx context.Context, method, endpoint, token string, params url.Values, body interface{}) ([]byte, error) {
	if params != nil {
		endpoint = endpoint + "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseBody, utils.ErrorFromBody(resp.StatusCode, responseBody)
	}
	return responseBody, nil
}

// Get makes a GET request and decodes the JSON response into out when out is not nil.
func (s *ExternalAPIService) Get(ctx context.Context, endpoint, token string, params url.Values, out interface{}) error {
	responseBody, err := s.makeRequest(ctx, http.MethodGet, endpoint, token, params, nil)
	if err != nil {
		return err
	}
	return decode(responseBody, out)
}

// Post makes a POST request with a JSON body and decodes the JSON response into out.
func (s *ExternalAPIService) Post(ctx context.Context, endpoint, token string, body interface{}, out interface{}) error {
	responseBody, err := s.makeRequest(ctx, http.MethodPost, endpoint, token, nil, body)
	if err != nil {
		return err
	}
	return decode(responseBody, out)
}

// PostRaw makes a POST request and returns the body of a 2xx response undecoded.
func (s *ExternalAPIService) PostRaw(ctx context.Context, endpoint, token string, body interface{}) ([]byte, error) {
	return s.makeRequest(ctx, http.MethodPost, endpoint, token, nil, body)
}

func decode(body []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrUnexpectedShape, err)
	}
	return nil
}
