package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// HTTPClient implements ATSClient using the backend's HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the timeout of the underlying http.Client. Zero leaves the
// net/http default (no timeout).
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compile-time check that HTTPClient implements ATSClient.
var _ ATSClient = (*HTTPClient)(nil)

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Session ---

func (c *HTTPClient) Session(ctx context.Context) (*model.Session, error) {
	var s model.Session
	if err := c.doJSON(ctx, http.MethodGet, "/v1/session", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// --- Candidates ---

func (c *HTTPClient) ListCandidates(ctx context.Context, req *ListCandidatesRequest) (*ListCandidatesResponse, error) {
	q := url.Values{}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	if req.JobID != "" {
		q.Set("job_id", req.JobID)
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}

	path := "/v1/candidates"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListCandidatesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetCandidate(ctx context.Context, id string) (*model.Candidate, error) {
	var cand model.Candidate
	if err := c.doJSON(ctx, http.MethodGet, "/v1/candidates/"+url.PathEscape(id), nil, &cand); err != nil {
		return nil, err
	}
	return &cand, nil
}

func (c *HTTPClient) RevealCandidate(ctx context.Context, id string) (*model.Candidate, error) {
	var cand model.Candidate
	if err := c.doJSON(ctx, http.MethodPost, "/v1/candidates/"+url.PathEscape(id)+"/reveal", nil, &cand); err != nil {
		return nil, err
	}
	return &cand, nil
}

func (c *HTTPClient) BooleanSearch(ctx context.Context, query string) (*ListCandidatesResponse, error) {
	body := map[string]string{"query": query}
	var resp ListCandidatesResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/candidates/boolean-search", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) VerifyBackground(ctx context.Context, id string) (*model.Verification, error) {
	var v model.Verification
	if err := c.doJSON(ctx, http.MethodPost, "/v1/candidates/"+url.PathEscape(id)+"/background-verification", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// --- Notes ---

func (c *HTTPClient) ListNotes(ctx context.Context, candidateID string) ([]*model.Note, error) {
	var resp struct {
		Notes []*model.Note `json:"notes"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/candidates/"+url.PathEscape(candidateID)+"/notes", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

func (c *HTTPClient) AddNote(ctx context.Context, candidateID, text string) (*model.Note, error) {
	body := map[string]string{"text": text}
	var note model.Note
	if err := c.doJSON(ctx, http.MethodPost, "/v1/candidates/"+url.PathEscape(candidateID)+"/notes", body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// --- Jobs ---

func (c *HTTPClient) ListJobs(ctx context.Context) ([]*model.Job, error) {
	var resp struct {
		Jobs []*model.Job `json:"jobs"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/jobs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

func (c *HTTPClient) GetJob(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	if err := c.doJSON(ctx, http.MethodGet, "/v1/jobs/"+url.PathEscape(id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *HTTPClient) CreateJob(ctx context.Context, draft *model.JobDraft) (*model.Job, error) {
	var job model.Job
	if err := c.doJSON(ctx, http.MethodPost, "/v1/jobs", draft, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *HTTPClient) UpdateJob(ctx context.Context, id string, draft *model.JobDraft) (*model.Job, error) {
	var job model.Job
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/jobs/"+url.PathEscape(id), draft, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *HTTPClient) DeleteJob(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/jobs/"+url.PathEscape(id), nil, nil)
}

// --- Pipeline ---

func (c *HTTPClient) ListStages(ctx context.Context, jobID string) ([]model.Stage, error) {
	var resp struct {
		Stages []model.Stage `json:"stages"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/jobs/"+url.PathEscape(jobID)+"/stages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Stages, nil
}

func (c *HTTPClient) ListApplications(ctx context.Context, jobID, stageSlug string) ([]*model.Application, error) {
	var resp struct {
		Applications []*model.Application `json:"applications"`
	}
	path := "/v1/jobs/" + url.PathEscape(jobID) + "/stages/" + url.PathEscape(stageSlug) + "/applications"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

func (c *HTTPClient) MoveApplication(ctx context.Context, applicationID, stageID string) (*model.Application, error) {
	body := map[string]string{"stage_id": stageID}
	var app model.Application
	if err := c.doJSON(ctx, http.MethodPost, "/v1/applications/"+url.PathEscape(applicationID)+"/move", body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *HTTPClient) GetInterviewReport(ctx context.Context, applicationID string) (map[string]any, error) {
	var report map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/v1/applications/"+url.PathEscape(applicationID)+"/interview-report", nil, &report); err != nil {
		return nil, err
	}
	return report, nil
}

// --- Templates ---

func (c *HTTPClient) ListTemplates(ctx context.Context) ([]*model.Template, error) {
	var resp struct {
		Templates []*model.Template `json:"templates"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/templates", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Templates, nil
}

func (c *HTTPClient) CreateTemplate(ctx context.Context, t *model.Template) (*model.Template, error) {
	var out model.Template
	if err := c.doJSON(ctx, http.MethodPost, "/v1/templates", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateTemplate(ctx context.Context, id string, t *model.Template) (*model.Template, error) {
	var out model.Template
	if err := c.doJSON(ctx, http.MethodPut, "/v1/templates/"+url.PathEscape(id), t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteTemplate(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/templates/"+url.PathEscape(id), nil, nil)
}

// --- Credits ---

func (c *HTTPClient) GetCredits(ctx context.Context) (*model.Credits, error) {
	var credits model.Credits
	if err := c.doJSON(ctx, http.MethodGet, "/v1/credits", nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &errResp) == nil {
			if errResp.Error != "" {
				return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
			}
			if errResp.Message != "" {
				return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
