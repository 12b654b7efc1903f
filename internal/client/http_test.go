package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	mu sync.Mutex

	// captured from the request
	method      string
	path        string
	rawPath     string // URL-encoded path (for testing PathEscape)
	query       string
	body        string
	contentType string
	auth        string
	requestID   string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.method = r.Method
	h.path = r.URL.Path
	h.rawPath = r.URL.RawPath
	h.query = r.URL.RawQuery
	h.contentType = r.Header.Get("Content-Type")
	h.auth = r.Header.Get("Authorization")
	h.requestID = r.Header.Get("X-Request-ID")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, "tok_test")
}

// bodyJSON decodes the captured request body.
func bodyJSON(t *testing.T, body string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("request body is not JSON: %v (%q)", err, body)
	}
	return m
}

// --- Candidates ---

func TestHTTPClient_ListCandidates(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"candidates": [
				{"id": "c-1", "name": "Asha Rao", "role": "Software Engineer", "total_experience": 4,
				 "skills": ["Python", "AWS"], "skill_level": "intermediate", "notice_period": "30-days"},
				{"id": "c-2", "name": "Ben Cole", "role": "Senior Engineer"}
			],
			"total": 42
		}`,
	}
	c := newTestClient(t, h)

	resp, err := c.ListCandidates(context.Background(), &ListCandidatesRequest{
		Search: "engineer", JobID: "job-1", Limit: 20, Offset: 40,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.method != http.MethodGet {
		t.Errorf("method = %q, want GET", h.method)
	}
	if h.path != "/v1/candidates" {
		t.Errorf("path = %q, want /v1/candidates", h.path)
	}
	for _, want := range []string{"search=engineer", "job_id=job-1", "limit=20", "offset=40"} {
		if !strings.Contains(h.query, want) {
			t.Errorf("query %q missing %q", h.query, want)
		}
	}
	if h.auth != "Bearer tok_test" {
		t.Errorf("Authorization = %q", h.auth)
	}
	if h.requestID == "" {
		t.Error("X-Request-ID header should be set")
	}

	if resp.Total != 42 || len(resp.Candidates) != 2 {
		t.Fatalf("got total=%d len=%d", resp.Total, len(resp.Candidates))
	}
	first := resp.Candidates[0]
	if first.Name != "Asha Rao" || first.TotalExperience != 4 || first.SkillLevel != model.SkillIntermediate {
		t.Errorf("first candidate = %+v", first)
	}
	if len(first.Skills) != 2 || first.Skills[1] != "AWS" {
		t.Errorf("skills = %v", first.Skills)
	}
}

func TestHTTPClient_ListCandidates_NoFilters(t *testing.T) {
	h := &testHandler{responseBody: `{"candidates": [], "total": 0}`}
	c := newTestClient(t, h)

	if _, err := c.ListCandidates(context.Background(), &ListCandidatesRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.query != "" {
		t.Errorf("query = %q, want empty", h.query)
	}
}

func TestHTTPClient_GetCandidate_URLEscaping(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "c/1", "name": "X"}`}
	c := newTestClient(t, h)

	if _, err := c.GetCandidate(context.Background(), "c/1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.rawPath != "/v1/candidates/c%2F1" {
		t.Errorf("rawPath = %q, want /v1/candidates/c%%2F1", h.rawPath)
	}
}

func TestHTTPClient_RevealCandidate(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "c-1", "name": "Asha", "revealed": true, "email": "asha@example.com", "phone": "+91 555"}`}
	c := newTestClient(t, h)

	cand, err := c.RevealCandidate(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/candidates/c-1/reveal" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if !cand.Revealed || cand.Email != "asha@example.com" {
		t.Errorf("candidate = %+v", cand)
	}
}

func TestHTTPClient_BooleanSearch(t *testing.T) {
	h := &testHandler{responseBody: `{"candidates": [{"id": "c-9"}], "total": 1}`}
	c := newTestClient(t, h)

	resp, err := c.BooleanSearch(context.Background(), `"golang" AND (aws OR gcp)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/candidates/boolean-search" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if h.contentType != "application/json" {
		t.Errorf("Content-Type = %q", h.contentType)
	}
	if got := bodyJSON(t, h.body)["query"]; got != `"golang" AND (aws OR gcp)` {
		t.Errorf("query = %v", got)
	}
	if resp.Total != 1 || resp.Candidates[0].ID != "c-9" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHTTPClient_VerifyBackground(t *testing.T) {
	h := &testHandler{statusCode: http.StatusAccepted, responseBody: `{"candidate_id": "c-1", "status": "pending"}`}
	c := newTestClient(t, h)

	v, err := c.VerifyBackground(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.path != "/v1/candidates/c-1/background-verification" {
		t.Errorf("path = %q", h.path)
	}
	if v.Status != "pending" {
		t.Errorf("status = %q", v.Status)
	}
}

// --- Notes ---

func TestHTTPClient_AddNote(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusCreated,
		responseBody: `{"id": "n-1", "candidate_id": "c-1", "text": "call back", "created_at": "2026-03-01T10:00:00Z"}`,
	}
	c := newTestClient(t, h)

	note, err := c.AddNote(context.Background(), "c-1", "call back")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/candidates/c-1/notes" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if got := bodyJSON(t, h.body)["text"]; got != "call back" {
		t.Errorf("text = %v", got)
	}
	if note.ID != "n-1" || note.CreatedAt.IsZero() {
		t.Errorf("note = %+v", note)
	}
}

func TestHTTPClient_ListNotes_Empty(t *testing.T) {
	h := &testHandler{responseBody: `{"notes": []}`}
	c := newTestClient(t, h)

	notes, err := c.ListNotes(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("len = %d, want 0", len(notes))
	}
}

// --- Jobs ---

func TestHTTPClient_CreateJob(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusCreated,
		responseBody: `{"id": "job-1", "status": "open", "title": "Backend Engineer", "openings": 2}`,
	}
	c := newTestClient(t, h)

	job, err := c.CreateJob(context.Background(), &model.JobDraft{
		Title: "Backend Engineer", Department: "Platform", Location: "Remote",
		EmploymentType: model.EmploymentFullTime, Skills: []string{"Go"}, Openings: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/jobs" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	body := bodyJSON(t, h.body)
	if body["title"] != "Backend Engineer" || body["employment_type"] != "full-time" {
		t.Errorf("body = %v", body)
	}
	if job.ID != "job-1" || job.Title != "Backend Engineer" || job.Openings != 2 {
		t.Errorf("job = %+v", job)
	}
}

func TestHTTPClient_UpdateJob(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "job-1", "title": "Staff Engineer"}`}
	c := newTestClient(t, h)

	if _, err := c.UpdateJob(context.Background(), "job-1", &model.JobDraft{Title: "Staff Engineer"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != http.MethodPatch || h.path != "/v1/jobs/job-1" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}

func TestHTTPClient_DeleteJob(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c := newTestClient(t, h)

	if err := c.DeleteJob(context.Background(), "job-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != http.MethodDelete || h.path != "/v1/jobs/job-1" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}

// --- Pipeline ---

func TestHTTPClient_ListStages(t *testing.T) {
	h := &testHandler{responseBody: `{"stages": [
		{"id": "s1", "name": "Applied", "slug": "applied", "order": 1, "candidate_count": 12},
		{"id": "s2", "name": "AI Interview", "slug": "ai-interview", "order": 2, "candidate_count": 3}
	]}`}
	c := newTestClient(t, h)

	stages, err := c.ListStages(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.path != "/v1/jobs/job-1/stages" {
		t.Errorf("path = %q", h.path)
	}
	if len(stages) != 2 || stages[1].Slug != "ai-interview" || stages[0].CandidateCount != 12 {
		t.Errorf("stages = %+v", stages)
	}
}

func TestHTTPClient_ListApplications(t *testing.T) {
	h := &testHandler{responseBody: `{"applications": [
		{"id": "a-1", "job_id": "job-1", "stage_slug": "applied",
		 "candidate": {"id": "c-1", "name": "Asha"},
		 "details": {"match_analysis": {"skill_match": 80}}}
	]}`}
	c := newTestClient(t, h)

	apps, err := c.ListApplications(context.Background(), "job-1", "applied")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.path != "/v1/jobs/job-1/stages/applied/applications" {
		t.Errorf("path = %q", h.path)
	}
	if len(apps) != 1 || apps[0].Candidate.Name != "Asha" {
		t.Fatalf("apps = %+v", apps)
	}
	if _, ok := apps[0].Details["match_analysis"].(map[string]any); !ok {
		t.Errorf("details = %v", apps[0].Details)
	}
	if apps[0].Data != nil {
		t.Error("Data should be left for the caller to map")
	}
}

func TestHTTPClient_MoveApplication(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "a-1", "stage_slug": "shortlisted"}`}
	c := newTestClient(t, h)

	app, err := c.MoveApplication(context.Background(), "a-1", "s2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/applications/a-1/move" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	if got := bodyJSON(t, h.body)["stage_id"]; got != "s2" {
		t.Errorf("stage_id = %v", got)
	}
	if app.StageSlug != "shortlisted" {
		t.Errorf("StageSlug = %q", app.StageSlug)
	}
}

func TestHTTPClient_GetInterviewReport(t *testing.T) {
	h := &testHandler{responseBody: `{"technical_score": 77}`}
	c := newTestClient(t, h)

	report, err := c.GetInterviewReport(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.path != "/v1/applications/a-1/interview-report" {
		t.Errorf("path = %q", h.path)
	}
	if report["technical_score"] != float64(77) {
		t.Errorf("report = %v", report)
	}
}

// --- Templates ---

func TestHTTPClient_Templates(t *testing.T) {
	h := &testHandler{responseBody: `{"templates": [{"id": "t-1", "name": "Intro", "body": "Hi {{name}}"}]}`}
	c := newTestClient(t, h)

	list, err := c.ListTemplates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Body != "Hi {{name}}" {
		t.Errorf("templates = %+v", list)
	}

	h.responseBody = `{"id": "t-1", "name": "Intro v2", "body": "Hello"}`
	if _, err := c.UpdateTemplate(context.Background(), "t-1", &model.Template{Name: "Intro v2", Body: "Hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.method != http.MethodPut || h.path != "/v1/templates/t-1" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}

// --- Credits / Session / Health ---

func TestHTTPClient_GetCredits(t *testing.T) {
	h := &testHandler{responseBody: `{"balance": 120, "reveal_cost": 5}`}
	c := newTestClient(t, h)

	credits, err := c.GetCredits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if credits.Balance != 120 || credits.RevealCost != 5 {
		t.Errorf("credits = %+v", credits)
	}
}

func TestHTTPClient_Session(t *testing.T) {
	h := &testHandler{responseBody: `{"user_id": "u-1", "email": "rec@example.com"}`}
	c := newTestClient(t, h)

	s, err := c.Session(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Email != "rec@example.com" {
		t.Errorf("session = %+v", s)
	}
}

func TestHTTPClient_Health(t *testing.T) {
	h := &testHandler{responseBody: `{"status": "ok"}`}
	c := newTestClient(t, h)

	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "ok" {
		t.Errorf("status = %q, want ok", status)
	}
}

// --- Errors ---

func TestHTTPClient_Error_JSONBody(t *testing.T) {
	h := &testHandler{statusCode: http.StatusPaymentRequired, responseBody: `{"error": "insufficient credits"}`}
	c := newTestClient(t, h)

	_, err := c.RevealCandidate(context.Background(), "c-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusPaymentRequired {
		t.Errorf("status = %d, want 402", apiErr.StatusCode)
	}
	if apiErr.Message != "insufficient credits" {
		t.Errorf("message = %q, want 'insufficient credits'", apiErr.Message)
	}
}

func TestHTTPClient_Error_MessageField(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNotFound, responseBody: `{"message": "job not found"}`}
	c := newTestClient(t, h)

	_, err := c.GetJob(context.Background(), "nope")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "job not found" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestHTTPClient_Error_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error\n"))
	}))
	defer srv.Close()
	c := NewHTTPClient(srv.URL, "")

	_, err := c.GetCredits(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Message != "internal server error" {
		t.Errorf("message = %q, want 'internal server error'", apiErr.Message)
	}
}

func TestHTTPClient_Error_FormatString(t *testing.T) {
	apiErr := &APIError{StatusCode: 403, Message: "forbidden"}
	want := "HTTP 403: forbidden"
	if got := apiErr.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestHTTPClient_Error_CanceledContext(t *testing.T) {
	h := &testHandler{responseBody: `{}`}
	c := newTestClient(t, h)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GetCredits(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestHTTPClient_NoTokenNoAuthHeader(t *testing.T) {
	h := &testHandler{responseBody: `{"status": "ok"}`}
	srv := httptest.NewServer(h)
	defer srv.Close()
	c := NewHTTPClient(srv.URL, "")

	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.auth != "" {
		t.Errorf("Authorization = %q, want empty", h.auth)
	}
}

func TestNewHTTPClient_TrimsTrailingSlash(t *testing.T) {
	c := NewHTTPClient("http://localhost:8080/", "")
	if c.baseURL != "http://localhost:8080" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}

func TestNewHTTPClient_Options(t *testing.T) {
	c := NewHTTPClient("http://x", "", WithTimeout(3e9))
	if c.httpClient.Timeout != 3e9 {
		t.Errorf("Timeout = %v, want 3s", c.httpClient.Timeout)
	}
}

func TestHTTPClient_ConcurrentRequests(t *testing.T) {
	h := &testHandler{responseBody: `{"balance": 1}`}
	c := newTestClient(t, h)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetCredits(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent request failed: %v", err)
	}
}
