package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/pkg/requestid"
	"github.com/pkg/errors"
)

// Client talks to the tracker REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// APIError is returned for every non 2xx answer of the server.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%d: %s (request id %s)", e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func NewFromConfig(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    config.Service.Server,
		token:      config.Service.Token,
		httpClient: newHTTPClient(),
	}, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// JobListParams are sent as query parameters of GET /api/jobs.
type JobListParams struct {
	Type       string
	Status     string
	PipelineID string
	DateFrom   string
	DateTo     string
}

func (p JobListParams) query() url.Values {
	q := url.Values{}
	for key, value := range map[string]string{
		"type":        p.Type,
		"status":      p.Status,
		"pipeline_id": p.PipelineID,
		"dateFrom":    p.DateFrom,
		"dateTo":      p.DateTo,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	return q
}

func (c *Client) ListJobs(ctx context.Context, params JobListParams) (api.JobList, error) {
	var jobs api.JobList
	if err := c.do(ctx, http.MethodGet, "/api/jobs", params.query(), nil, &jobs); err != nil {
		return nil, errors.Wrap(err, "listing jobs")
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (*api.Job, error) {
	var job api.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), nil, nil, &job); err != nil {
		return nil, errors.Wrapf(err, "reading job/%s", id)
	}
	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, body api.JobCreate) (*api.Job, error) {
	var job api.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs", nil, body, &job); err != nil {
		return nil, errors.Wrap(err, "creating job")
	}
	return &job, nil
}

func (c *Client) UpdateJob(ctx context.Context, id string, body api.JobUpdate) (*api.Job, error) {
	var job api.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs/"+url.PathEscape(id), nil, body, &job); err != nil {
		return nil, errors.Wrapf(err, "updating job/%s", id)
	}
	return &job, nil
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/jobs/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return errors.Wrapf(err, "deleting job/%s", id)
	}
	return nil
}

func (c *Client) RetryJob(ctx context.Context, id string) (*api.Job, error) {
	var job api.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs/"+url.PathEscape(id)+"/retry", nil, nil, &job); err != nil {
		return nil, errors.Wrapf(err, "retrying job/%s", id)
	}
	return &job, nil
}

func (c *Client) ListPipelines(ctx context.Context, status string) (api.PipelineList, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	var pipelines api.PipelineList
	if err := c.do(ctx, http.MethodGet, "/api/pipelines", q, nil, &pipelines); err != nil {
		return nil, errors.Wrap(err, "listing pipelines")
	}
	return pipelines, nil
}

func (c *Client) GetPipeline(ctx context.Context, id string) (*api.Pipeline, error) {
	var pipeline api.Pipeline
	if err := c.do(ctx, http.MethodGet, "/api/pipelines/"+url.PathEscape(id), nil, nil, &pipeline); err != nil {
		return nil, errors.Wrapf(err, "reading pipeline/%s", id)
	}
	return &pipeline, nil
}

func (c *Client) CreatePipeline(ctx context.Context, body api.PipelineCreate) (*api.Pipeline, error) {
	var pipeline api.Pipeline
	if err := c.do(ctx, http.MethodPost, "/api/pipelines", nil, body, &pipeline); err != nil {
		return nil, errors.Wrap(err, "creating pipeline")
	}
	return &pipeline, nil
}

func (c *Client) UpdatePipeline(ctx context.Context, id string, body api.PipelineUpdate) (*api.Pipeline, error) {
	var pipeline api.Pipeline
	if err := c.do(ctx, http.MethodPut, "/api/pipelines/"+url.PathEscape(id), nil, body, &pipeline); err != nil {
		return nil, errors.Wrapf(err, "updating pipeline/%s", id)
	}
	return &pipeline, nil
}

// do sends the request and decodes a 2xx answer into out when out is not nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestid.HeaderName, requestid.Generate())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e api.Error
		if json.Unmarshal(respBody, &e) == nil && e.Message != "" {
			apiErr.Message = e.Message
			if e.RequestId != nil {
				apiErr.RequestID = *e.RequestId
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}
