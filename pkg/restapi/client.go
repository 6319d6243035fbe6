package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/c9s/requestgen"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const defaultHTTPTimeout = 15 * time.Second

var log = logrus.WithField("component", "restapi")

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed when retried.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

type RestClient struct {
	BaseURL *url.URL
	Client  *http.Client

	// MaxRetries is the number of retries of a failed fetch
	MaxRetries uint64

	limiter *rate.Limiter
}

func New(baseURL string) (*RestClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	return &RestClient{
		BaseURL:    u,
		Client:     &http.Client{Timeout: defaultHTTPTimeout},
		MaxRetries: 3,
		limiter:    rate.NewLimiter(rate.Every(50*time.Millisecond), 10),
	}, nil
}

func (c *RestClient) SetTimeout(timeout time.Duration) {
	c.Client.Timeout = timeout
}

func (c *RestClient) NewRequest(ctx context.Context, method string, refURL string, params url.Values, payload interface{}) (*http.Request, error) {
	rel, err := url.Parse(refURL)
	if err != nil {
		return nil, err
	}

	if params != nil {
		rel.RawQuery = params.Encode()
	}

	pathURL := c.BaseURL.ResolveReference(rel)

	body, err := castPayload(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, pathURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	return req, nil
}

func (c *RestClient) SendRequest(req *http.Request) (*requestgen.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	response, err := requestgen.NewResponse(resp)
	if err != nil {
		return response, err
	}

	// Check error, if there is an error, return the ErrorResponse struct type
	if response.IsError() {
		return response, &APIError{StatusCode: response.StatusCode, Body: string(response.Body)}
	}

	return response, nil
}

func castPayload(payload interface{}) ([]byte, error) {
	if payload != nil {
		switch v := payload.(type) {
		case string:
			return []byte(v), nil

		case []byte:
			return v, nil

		default:
			body, err := json.Marshal(v)
			return body, err
		}
	}

	return nil, nil
}
