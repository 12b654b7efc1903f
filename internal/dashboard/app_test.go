package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alfredjeanlab/hiredesk/internal/client"
	"github.com/alfredjeanlab/hiredesk/internal/events"
	"github.com/alfredjeanlab/hiredesk/internal/logo"
	"github.com/alfredjeanlab/hiredesk/internal/model"
	"github.com/alfredjeanlab/hiredesk/internal/pipeline"
)

type fakeAPI struct {
	mu sync.Mutex

	cands   []*model.Candidate
	notes   map[string][]*model.Note
	balance int

	listErr, getErr, revealErr, notesErr, creditsErr, noteErr, verifyErr error

	searchQuery string
	revealCalls int
	getBlock    chan struct{}
}

func (f *fakeAPI) ListCandidates(_ context.Context, _ *client.ListCandidatesRequest) (*client.ListCandidatesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*model.Candidate, len(f.cands))
	for i, c := range f.cands {
		cp := *c
		out[i] = &cp
	}
	return &client.ListCandidatesResponse{Candidates: out, Total: len(out) + 100}, nil
}

func (f *fakeAPI) GetCandidate(_ context.Context, id string) (*model.Candidate, error) {
	f.mu.Lock()
	block := f.getBlock
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, c := range f.cands {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Message: "not found"}
}

func (f *fakeAPI) RevealCandidate(_ context.Context, id string) (*model.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revealCalls++
	if f.revealErr != nil {
		return nil, f.revealErr
	}
	for _, c := range f.cands {
		if c.ID == id {
			cp := *c
			cp.Revealed = true
			cp.Email = "revealed@example.com"
			f.balance -= 5
			return &cp, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Message: "not found"}
}

func (f *fakeAPI) BooleanSearch(_ context.Context, query string) (*client.ListCandidatesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchQuery = query
	return &client.ListCandidatesResponse{Candidates: []*model.Candidate{{ID: "c-9", Name: "Zed"}}, Total: 1}, nil
}

func (f *fakeAPI) VerifyBackground(_ context.Context, id string) (*model.Verification, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &model.Verification{CandidateID: id, Status: "pending"}, nil
}

func (f *fakeAPI) ListNotes(_ context.Context, id string) ([]*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notesErr != nil {
		return nil, f.notesErr
	}
	return f.notes[id], nil
}

func (f *fakeAPI) AddNote(_ context.Context, id, text string) (*model.Note, error) {
	if f.noteErr != nil {
		return nil, f.noteErr
	}
	return &model.Note{ID: "n-new", CandidateID: id, Text: text, CreatedAt: time.Now()}, nil
}

func (f *fakeAPI) GetCredits(_ context.Context) (*model.Credits, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.creditsErr != nil {
		return nil, f.creditsErr
	}
	return &model.Credits{Balance: f.balance, RevealCost: 5}, nil
}

// collector records notifications.
type collector struct {
	mu    sync.Mutex
	notes []Notification
}

func (c *collector) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append(c.notes, n)
}

func (c *collector) errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, n := range c.notes {
		if n.Level == LevelError {
			out = append(out, n.Message)
		}
	}
	return out
}

type publisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *publisher) Publish(_ context.Context, topic string, e any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, e)
	return nil
}

func (p *publisher) Close() error { return nil }

type staticLogos map[string]string

func (s staticLogos) Lookup(_ context.Context, company string) string { return s[company] }

func fixtures() []*model.Candidate {
	return []*model.Candidate{
		{ID: "c-1", Name: "Asha Rao", Role: "Software Engineer", Company: "Acme", TotalExperience: 4, City: "Pune",
			Skills: []string{"Python", "AWS"}},
		{ID: "c-2", Name: "Ben Cole", Role: "Senior Engineer", Company: "Globex", TotalExperience: 8, City: "Berlin",
			Skills: []string{"Go", "Kubernetes"}},
		{ID: "c-3", Name: "Chen Li", Role: "Data Analyst", Company: "Acme", TotalExperience: 2, City: "Pune",
			Skills: []string{"SQL"}},
	}
}

func newTestApp(t *testing.T, f *fakeAPI, opts ...Option) (*App, *collector) {
	t.Helper()
	c := &collector{}
	a := NewApp(f, append([]Option{WithNotifier(c)}, opts...)...)
	if err := a.Refresh(context.Background(), nil); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return a, c
}

func ids(cands []*model.Candidate) string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return strings.Join(out, ",")
}

func TestApp_RefreshAndFilter(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{cands: fixtures()})

	if got := ids(a.Visible()); got != "c-1,c-2,c-3" {
		t.Errorf("visible = %s, want all with empty criteria", got)
	}
	if a.Total() != 103 {
		t.Errorf("Total = %d", a.Total())
	}

	a.SetCriteria(model.FilterCriteria{City: "pune", MinTotalExp: "3"})
	if got := ids(a.Visible()); got != "c-1" {
		t.Errorf("visible = %s, want c-1", got)
	}
	if len(a.Candidates()) != 3 {
		t.Error("filtering must not drop fetched candidates")
	}
}

func TestApp_SetCriteriaReplacesWholesale(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{cands: fixtures()})

	a.SetCriteria(model.FilterCriteria{City: "Pune"})
	a.SetCriteria(model.FilterCriteria{Company: "globex"})
	if got := a.Criteria(); got.City != "" || got.Company != "globex" {
		t.Errorf("criteria = %+v, want only Company", got)
	}
	if got := ids(a.Visible()); got != "c-2" {
		t.Errorf("visible = %s, want c-2", got)
	}
}

func TestApp_SelectionClearedWhenFilteredOut(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{cands: fixtures()})

	if _, err := a.Select(context.Background(), "c-2"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	a.SetCriteria(model.FilterCriteria{City: "Berlin"})
	if s := a.Selected(); s == nil || s.ID != "c-2" {
		t.Fatalf("selection should survive a filter that keeps it, got %v", s)
	}

	a.SetCriteria(model.FilterCriteria{City: "Pune"})
	if a.Selected() != nil {
		t.Error("selection should be cleared once the candidate is filtered out")
	}
	if a.Detail() != nil {
		t.Error("detail should be cleared with the selection")
	}
}

func TestApp_SelectRequiresVisible(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{cands: fixtures()})
	a.SetCriteria(model.FilterCriteria{City: "Berlin"})

	if _, err := a.Select(context.Background(), "c-1"); err == nil {
		t.Fatal("expected error selecting a hidden candidate")
	}
	if a.Selected() != nil {
		t.Error("selection should stay empty")
	}
}

func TestApp_SelectLoadsDetail(t *testing.T) {
	f := &fakeAPI{cands: fixtures(), notes: map[string][]*model.Note{
		"c-1": {{ID: "n-1", CandidateID: "c-1", Text: "strong python"}},
	}}
	a, _ := newTestApp(t, f)

	d, err := a.Select(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if d.Candidate.Name != "Asha Rao" || len(d.Notes) != 1 {
		t.Errorf("detail = %+v", d)
	}
}

func TestApp_SelectNotesFailureStillShowsProfile(t *testing.T) {
	f := &fakeAPI{cands: fixtures(), notesErr: errors.New("HTTP 500: db")}
	a, c := newTestApp(t, f)

	d, err := a.Select(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if d.Candidate == nil || d.Notes != nil {
		t.Errorf("detail = %+v", d)
	}
	if errs := c.errors(); len(errs) != 1 || !strings.HasPrefix(errs[0], "failed to fetch notes:") {
		t.Errorf("notifications = %v", errs)
	}
}

func TestApp_SelectStale(t *testing.T) {
	f := &fakeAPI{cands: fixtures()}
	a, _ := newTestApp(t, f)

	release := make(chan struct{})
	f.mu.Lock()
	f.getBlock = release
	f.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := a.Select(context.Background(), "c-1")
		done <- err
	}()
	// Wait for the slow select to start, then supersede it.
	for a.Selected() == nil {
		time.Sleep(time.Millisecond)
	}
	a.ClearSelection()
	close(release)

	if err := <-done; !errors.Is(err, pipeline.ErrStale) {
		t.Fatalf("err = %v, want ErrStale", err)
	}
	if a.Detail() != nil {
		t.Error("stale detail must not be stored")
	}
}

func TestApp_RefreshFailureKeepsState(t *testing.T) {
	f := &fakeAPI{cands: fixtures()}
	a, c := newTestApp(t, f)
	a.SetCriteria(model.FilterCriteria{Company: "acme"})
	if _, err := a.Select(context.Background(), "c-3"); err != nil {
		t.Fatal(err)
	}

	f.mu.Lock()
	f.listErr = &client.APIError{StatusCode: 503, Message: "unavailable"}
	f.mu.Unlock()

	if err := a.Refresh(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
	if got := ids(a.Visible()); got != "c-1,c-3" {
		t.Errorf("visible = %s, want unchanged c-1,c-3", got)
	}
	if s := a.Selected(); s == nil || s.ID != "c-3" {
		t.Errorf("selection changed: %v", s)
	}
	errs := c.errors()
	if len(errs) != 1 || errs[0] != "failed to fetch candidates: HTTP 503: unavailable" {
		t.Errorf("notifications = %q", errs)
	}
}

func TestApp_RefreshAttachesLogos(t *testing.T) {
	a, _ := newTestApp(t, &fakeAPI{cands: fixtures()}, WithLogos(staticLogos{"Acme": "https://logos/acme.png"}))

	for _, c := range a.Candidates() {
		want := ""
		if c.Company == "Acme" {
			want = "https://logos/acme.png"
		}
		if c.LogoURL != want {
			t.Errorf("%s LogoURL = %q, want %q", c.ID, c.LogoURL, want)
		}
	}
}

func TestApp_RefreshLooksUpEachCompanyOnce(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var cands []*model.Candidate
	for i := range 20 {
		company := "Acme"
		if i%2 == 1 {
			company = " acme " // same cache key
		}
		cands = append(cands, &model.Candidate{ID: fmt.Sprintf("c-%d", i), Company: company})
	}
	logos := client.NewLogoClient(srv.URL, "k", logo.NewMemoryCache(logo.DefaultTTL), nil)

	start := time.Now()
	a, _ := newTestApp(t, &fakeAPI{cands: cands}, WithLogos(logos))
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Refresh took %v", elapsed)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("logo API called %d times, want 1", n)
	}
	if len(a.Candidates()) != 20 {
		t.Errorf("candidates = %d", len(a.Candidates()))
	}
}

// slowLogos blocks every lookup until ctx is done.
type slowLogos struct{ calls atomic.Int64 }

func (s *slowLogos) Lookup(ctx context.Context, _ string) string {
	s.calls.Add(1)
	<-ctx.Done()
	return ""
}

func TestApp_RefreshLogoTimeout(t *testing.T) {
	var cands []*model.Candidate
	for i := range 10 {
		cands = append(cands, &model.Candidate{ID: fmt.Sprintf("c-%d", i), Company: fmt.Sprintf("Co %d", i)})
	}
	logos := &slowLogos{}

	start := time.Now()
	a, _ := newTestApp(t, &fakeAPI{cands: cands}, WithLogos(logos), WithLogoTimeout(50*time.Millisecond))
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Refresh took %v with a hung logo service", elapsed)
	}
	if n := logos.calls.Load(); n > logoWorkers {
		t.Errorf("%d lookups started, want at most %d", n, logoWorkers)
	}
	for _, c := range a.Candidates() {
		if c.LogoURL != "" {
			t.Errorf("%s LogoURL = %q", c.ID, c.LogoURL)
		}
	}
}

func TestApp_Reveal(t *testing.T) {
	f := &fakeAPI{cands: fixtures(), balance: 100}
	pub := &publisher{}
	a, _ := newTestApp(t, f, WithPublisher(pub))
	if _, err := a.Select(context.Background(), "c-2"); err != nil {
		t.Fatal(err)
	}

	cand, err := a.Reveal(context.Background(), "c-2")
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if !cand.Revealed || cand.Email != "revealed@example.com" {
		t.Errorf("cand = %+v", cand)
	}
	// Replaced by ID in every view of the state.
	for _, c := range a.Candidates() {
		if c.ID == "c-2" && !c.Revealed {
			t.Error("candidate list still holds the masked record")
		}
	}
	if s := a.Selected(); s == nil || !s.Revealed {
		t.Error("selection should point at the revealed record")
	}
	if d := a.Detail(); d == nil || !d.Candidate.Revealed {
		t.Error("detail should show the revealed record")
	}
	if cr := a.Credits(); cr == nil || cr.Balance != 95 {
		t.Errorf("credits = %+v, want balance 95", cr)
	}
	if len(pub.topics) != 1 || pub.topics[0] != events.TopicCandidateRevealed {
		t.Fatalf("topics = %v", pub.topics)
	}
	if ev := pub.events[0].(events.CandidateRevealed); ev.Balance != 95 {
		t.Errorf("event = %+v", ev)
	}
}

func TestApp_RevealFailure(t *testing.T) {
	f := &fakeAPI{cands: fixtures(), revealErr: &client.APIError{StatusCode: 402, Message: "insufficient credits"}}
	pub := &publisher{}
	a, c := newTestApp(t, f, WithPublisher(pub))

	if _, err := a.Reveal(context.Background(), "c-1"); err == nil {
		t.Fatal("expected error")
	}
	for _, cand := range a.Candidates() {
		if cand.Revealed {
			t.Error("no record should be revealed")
		}
	}
	if errs := c.errors(); len(errs) != 1 || !strings.Contains(errs[0], "insufficient credits") {
		t.Errorf("notifications = %v", errs)
	}
	if len(pub.topics) != 0 {
		t.Errorf("events published on failure: %v", pub.topics)
	}
}

func TestApp_AddNote(t *testing.T) {
	f := &fakeAPI{cands: fixtures()}
	pub := &publisher{}
	a, _ := newTestApp(t, f, WithPublisher(pub))
	if _, err := a.Select(context.Background(), "c-1"); err != nil {
		t.Fatal(err)
	}

	if _, err := a.AddNote(context.Background(), "c-1", "   "); !errors.Is(err, ErrEmptyNote) {
		t.Errorf("blank note err = %v, want ErrEmptyNote", err)
	}
	note, err := a.AddNote(context.Background(), "c-1", "call on Monday")
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if d := a.Detail(); len(d.Notes) != 1 || d.Notes[0] != note {
		t.Errorf("notes = %+v", d.Notes)
	}
	if len(pub.topics) != 1 || pub.topics[0] != events.TopicNoteAdded {
		t.Errorf("topics = %v", pub.topics)
	}
}

func TestApp_AddNoteFailureNotifies(t *testing.T) {
	f := &fakeAPI{cands: fixtures(), noteErr: errors.New("timeout")}
	a, c := newTestApp(t, f)

	if _, err := a.AddNote(context.Background(), "c-1", "hello"); err == nil {
		t.Fatal("expected error")
	}
	if errs := c.errors(); len(errs) != 1 || errs[0] != "failed to save note: timeout" {
		t.Errorf("notifications = %q", errs)
	}
}

func TestApp_BooleanSearch(t *testing.T) {
	f := &fakeAPI{cands: fixtures()}
	a, _ := newTestApp(t, f)

	if err := a.BooleanSearch(context.Background(), "  "); err == nil {
		t.Error("expected error for empty query")
	}
	if err := a.BooleanSearch(context.Background(), `go AND "kubernetes"`); err != nil {
		t.Fatalf("BooleanSearch: %v", err)
	}
	if f.searchQuery != `go AND "kubernetes"` {
		t.Errorf("query = %q", f.searchQuery)
	}
	if got := ids(a.Visible()); got != "c-9" {
		t.Errorf("visible = %s, want c-9", got)
	}
}

func TestApp_VerifyBackground(t *testing.T) {
	f := &fakeAPI{cands: fixtures()}
	a, c := newTestApp(t, f)

	v, err := a.VerifyBackground(context.Background(), "c-1")
	if err != nil || v.Status != "pending" {
		t.Fatalf("VerifyBackground = %+v, %v", v, err)
	}

	f.verifyErr = errors.New("HTTP 409: already requested")
	if _, err := a.VerifyBackground(context.Background(), "c-1"); err == nil {
		t.Fatal("expected error")
	}
	if errs := c.errors(); len(errs) != 1 || !strings.HasPrefix(errs[0], "failed to request background verification") {
		t.Errorf("notifications = %v", errs)
	}
}

func TestWriterNotifier(t *testing.T) {
	var b strings.Builder
	n := NewWriterNotifier(&b)
	n.Notify(failure("fetch candidates", errors.New("boom")))
	n.Notify(Notification{Level: LevelInfo, Message: "done"})
	want := "Error: failed to fetch candidates: boom\ndone\n"
	if b.String() != want {
		t.Errorf("output = %q, want %q", b.String(), want)
	}
}
