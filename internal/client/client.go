// Package client talks to the simulator HTTP API. Transport errors and 5xx
// responses are retried with exponential backoff; 4xx responses are not.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/MMM_GO/internal/models"
	"github.com/AngelCh415/MMM_GO/internal/utils"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// APIError es una respuesta no-2xx del servidor.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("api %d: %s", e.Status, e.Message) }

type Client struct {
	base    string
	c       HTTPClient
	backoff utils.Backoff
}

func New(base string, c HTTPClient) *Client {
	return &Client{
		base:    strings.TrimRight(base, "/"),
		c:       c,
		backoff: utils.NewBackoff(100*time.Millisecond, 2),
	}
}

// WithBackoff replaces the retry policy.
func (cl *Client) WithBackoff(b utils.Backoff) *Client {
	cl.backoff = b
	return cl
}

func (cl *Client) Profiles(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	err := cl.do(ctx, http.MethodGet, "/profiles", nil, &out)
	return out, err
}

func (cl *Client) Simulate(ctx context.Context, profile string, alloc models.Allocation) (models.Simulation, error) {
	var out models.Simulation
	body := map[string]any{"allocation": alloc}
	err := cl.do(ctx, http.MethodPost, "/simulate/"+url.PathEscape(profile), body, &out)
	return out, err
}

func (cl *Client) Curve(ctx context.Context, min, max float64, count int) ([]models.CurveSample, error) {
	q := url.Values{}
	q.Set("min", strconv.FormatFloat(min, 'f', -1, 64))
	q.Set("max", strconv.FormatFloat(max, 'f', -1, 64))
	q.Set("count", strconv.Itoa(count))
	var out []models.CurveSample
	err := cl.do(ctx, http.MethodGet, "/curve?"+q.Encode(), nil, &out)
	return out, err
}

type EffectResult struct {
	Investment float64            `json:"investment"`
	Effect     float64            `json:"effect"`
	Sample     models.CurveSample `json:"sample"`
}

func (cl *Client) Effect(ctx context.Context, investment float64) (EffectResult, error) {
	var out EffectResult
	path := "/curve/effect?investment=" + strconv.FormatFloat(investment, 'f', -1, 64)
	err := cl.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (cl *Client) Forecast(ctx context.Context, seed int64) ([]models.ForecastPoint, error) {
	var out []models.ForecastPoint
	err := cl.do(ctx, http.MethodGet, "/forecast?seed="+strconv.FormatInt(seed, 10), nil, &out)
	return out, err
}

func (cl *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = b
	}
	return cl.backoff.Do(ctx, func(int) error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, cl.base+path, body)
		if err != nil {
			return utils.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := cl.c.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := &APIError{Status: resp.StatusCode, Message: readError(resp.Body)}
			if resp.StatusCode < 500 {
				return utils.Permanent(apiErr)
			}
			return apiErr
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return utils.Permanent(fmt.Errorf("decode %s: %w", path, err))
		}
		return nil
	})
}

func readError(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 1024))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(b))
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
