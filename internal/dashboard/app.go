// Package dashboard holds the recruiter dashboard state: the fetched
// candidates, the active filter criteria, the visible subset and the
// selected candidate. The selected candidate is always visible or nil.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alfredjeanlab/hiredesk/internal/client"
	"github.com/alfredjeanlab/hiredesk/internal/events"
	"github.com/alfredjeanlab/hiredesk/internal/logo"
	"github.com/alfredjeanlab/hiredesk/internal/model"
	"github.com/alfredjeanlab/hiredesk/internal/pipeline"
)

// API is the subset of the backend the dashboard needs.
type API interface {
	ListCandidates(ctx context.Context, req *client.ListCandidatesRequest) (*client.ListCandidatesResponse, error)
	GetCandidate(ctx context.Context, id string) (*model.Candidate, error)
	RevealCandidate(ctx context.Context, id string) (*model.Candidate, error)
	BooleanSearch(ctx context.Context, query string) (*client.ListCandidatesResponse, error)
	VerifyBackground(ctx context.Context, id string) (*model.Verification, error)
	ListNotes(ctx context.Context, candidateID string) ([]*model.Note, error)
	AddNote(ctx context.Context, candidateID, text string) (*model.Note, error)
	GetCredits(ctx context.Context) (*model.Credits, error)
}

// LogoResolver finds a company logo URL. It returns "" when there is none.
type LogoResolver interface {
	Lookup(ctx context.Context, company string) string
}

const (
	// DefaultLogoTimeout bounds the logo lookups for one candidate list.
	DefaultLogoTimeout = 3 * time.Second

	logoWorkers = 4
)

// ErrEmptyNote is returned when a note has no text.
var ErrEmptyNote = errors.New("note text is empty")

// Detail is the selected candidate's full record and notes.
type Detail struct {
	Candidate *model.Candidate
	Notes     []*model.Note
}

// App is the dashboard state. It is safe for concurrent use.
type App struct {
	api    API
	notify Notifier
	pub    events.Publisher
	logos  LogoResolver
	logger *slog.Logger

	logoTimeout time.Duration

	mu         sync.Mutex
	candidates []*model.Candidate
	total      int
	criteria   model.FilterCriteria
	visible    []*model.Candidate
	selected   *model.Candidate
	detail     *Detail
	credits    *model.Credits

	listGen   uint64
	detailGen uint64
}

// Option configures an App.
type Option func(*App)

func WithNotifier(n Notifier) Option {
	return func(a *App) { a.notify = n }
}

func WithPublisher(p events.Publisher) Option {
	return func(a *App) { a.pub = p }
}

func WithLogos(r LogoResolver) Option {
	return func(a *App) { a.logos = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithLogoTimeout overrides DefaultLogoTimeout.
func WithLogoTimeout(d time.Duration) Option {
	return func(a *App) { a.logoTimeout = d }
}

// NewApp creates an empty dashboard backed by api. Without WithNotifier,
// notifications go to the logger.
func NewApp(api API, opts ...Option) *App {
	a := &App{
		api:         api,
		pub:         events.NoopPublisher{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		logoTimeout: DefaultLogoTimeout,
	}
	for _, o := range opts {
		o(a)
	}
	if a.notify == nil {
		a.notify = logNotifier{a.logger}
	}
	return a
}

// SetCriteria replaces the criteria wholesale and recomputes the visible
// list, clearing the selection when the selected candidate drops out.
func (a *App) SetCriteria(f model.FilterCriteria) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.criteria = f
	a.recomputeLocked()
}

// Refresh fetches candidates from the backend. On failure the previous
// candidates stay in place and the user is notified.
func (a *App) Refresh(ctx context.Context, req *client.ListCandidatesRequest) error {
	if req == nil {
		req = &client.ListCandidatesRequest{}
	}
	return a.load(ctx, "fetch candidates", func(ctx context.Context) (*client.ListCandidatesResponse, error) {
		return a.api.ListCandidates(ctx, req)
	})
}

// BooleanSearch replaces the candidate list with the backend's boolean
// search results.
func (a *App) BooleanSearch(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("boolean search query is empty")
	}
	return a.load(ctx, "run boolean search", func(ctx context.Context) (*client.ListCandidatesResponse, error) {
		return a.api.BooleanSearch(ctx, query)
	})
}

func (a *App) load(ctx context.Context, action string, fetch func(context.Context) (*client.ListCandidatesResponse, error)) error {
	a.mu.Lock()
	a.listGen++
	gen := a.listGen
	a.mu.Unlock()

	resp, err := fetch(ctx)
	if err != nil {
		a.logger.Error(action+" failed", "err", err)
		a.notify.Notify(failure(action, err))
		return fmt.Errorf("%s: %w", action, err)
	}
	a.attachLogos(ctx, resp.Candidates)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.listGen {
		return pipeline.ErrStale
	}
	a.candidates = resp.Candidates
	a.total = resp.Total
	a.recomputeLocked()
	a.logger.Debug("candidates loaded", "count", len(resp.Candidates), "total", resp.Total, "visible", len(a.visible))
	return nil
}

// attachLogos resolves each distinct company once, a few at a time, and
// gives up on whatever is still pending when the logo timeout expires.
func (a *App) attachLogos(ctx context.Context, cands []*model.Candidate) {
	if a.logos == nil {
		return
	}
	companies := make(map[string]string)
	for _, c := range cands {
		if c == nil || c.LogoURL != "" || strings.TrimSpace(c.Company) == "" {
			continue
		}
		if k := logo.Key(c.Company); companies[k] == "" {
			companies[k] = c.Company
		}
	}
	if len(companies) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, a.logoTimeout)
	defer cancel()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		urls = make(map[string]string, len(companies))
		sem  = make(chan struct{}, logoWorkers)
	)
	for k, company := range companies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			u := a.logos.Lookup(ctx, company)
			mu.Lock()
			urls[k] = u
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, c := range cands {
		if c != nil && c.LogoURL == "" {
			c.LogoURL = urls[logo.Key(c.Company)]
		}
	}
	a.logger.Debug("logos resolved", "companies", len(companies))
}

// recomputeLocked derives the visible list and enforces the selection
// invariant. Callers hold a.mu.
func (a *App) recomputeLocked() {
	a.visible = model.Filter(a.candidates, a.criteria)
	if a.selected != nil && indexOf(a.visible, a.selected.ID) < 0 {
		a.selected = nil
		a.detail = nil
		a.detailGen++
	}
}

// Select makes the visible candidate id the selection and loads its detail
// and notes. Selecting a candidate that is not visible is an error.
func (a *App) Select(ctx context.Context, id string) (*Detail, error) {
	a.mu.Lock()
	i := indexOf(a.visible, id)
	if i < 0 {
		a.mu.Unlock()
		return nil, fmt.Errorf("candidate %s is not in the visible list", id)
	}
	a.selected = a.visible[i]
	a.detail = nil
	a.detailGen++
	gen := a.detailGen
	a.mu.Unlock()

	cand, err := a.api.GetCandidate(ctx, id)
	if err != nil {
		a.notify.Notify(failure("fetch candidate", err))
		return nil, fmt.Errorf("fetching candidate %s: %w", id, err)
	}
	notes, err := a.api.ListNotes(ctx, id)
	if err != nil {
		// The profile is still usable without notes.
		a.notify.Notify(failure("fetch notes", err))
		notes = nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.detailGen {
		return nil, pipeline.ErrStale
	}
	a.detail = &Detail{Candidate: cand, Notes: notes}
	return a.detail, nil
}

// ClearSelection drops the current selection.
func (a *App) ClearSelection() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = nil
	a.detail = nil
	a.detailGen++
}

// Reveal unlocks a candidate's contact fields. The server-confirmed record
// replaces the local one by ID and the credit balance is read again.
func (a *App) Reveal(ctx context.Context, id string) (*model.Candidate, error) {
	cand, err := a.api.RevealCandidate(ctx, id)
	if err != nil {
		a.notify.Notify(failure("reveal candidate", err))
		return nil, fmt.Errorf("revealing candidate %s: %w", id, err)
	}
	if cand.ID == "" {
		cand.ID = id
	}

	a.mu.Lock()
	if i := indexOf(a.candidates, id); i >= 0 {
		if cand.LogoURL == "" {
			cand.LogoURL = a.candidates[i].LogoURL
		}
		a.candidates[i] = cand
	}
	if a.detail != nil && a.detail.Candidate != nil && a.detail.Candidate.ID == id {
		a.detail.Candidate = cand
	}
	if a.selected != nil && a.selected.ID == id {
		a.selected = cand
	}
	a.recomputeLocked()
	a.mu.Unlock()

	balance := -1
	if credits, err := a.RefreshCredits(ctx); err == nil {
		balance = credits.Balance
	}
	a.publish(ctx, events.TopicCandidateRevealed, events.CandidateRevealed{CandidateID: id, Balance: balance})
	a.notify.Notify(Notification{Level: LevelInfo, Message: fmt.Sprintf("revealed contact details for %s", cand.Name)})
	return cand, nil
}

// RefreshCredits reads the credit balance.
func (a *App) RefreshCredits(ctx context.Context) (*model.Credits, error) {
	credits, err := a.api.GetCredits(ctx)
	if err != nil {
		a.notify.Notify(failure("fetch credits", err))
		return nil, fmt.Errorf("fetching credits: %w", err)
	}
	a.mu.Lock()
	a.credits = credits
	a.mu.Unlock()
	return credits, nil
}

// AddNote posts a note on the candidate. When the candidate is selected the
// note is appended to the loaded notes.
func (a *App) AddNote(ctx context.Context, candidateID, text string) (*model.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyNote
	}
	note, err := a.api.AddNote(ctx, candidateID, text)
	if err != nil {
		a.notify.Notify(failure("save note", err))
		return nil, fmt.Errorf("adding note to %s: %w", candidateID, err)
	}

	a.mu.Lock()
	if a.detail != nil && a.detail.Candidate != nil && a.detail.Candidate.ID == candidateID {
		a.detail.Notes = append(a.detail.Notes, note)
	}
	a.mu.Unlock()

	a.publish(ctx, events.TopicNoteAdded, events.NoteAdded{Note: note})
	return note, nil
}

// VerifyBackground requests a background verification for the candidate.
func (a *App) VerifyBackground(ctx context.Context, id string) (*model.Verification, error) {
	v, err := a.api.VerifyBackground(ctx, id)
	if err != nil {
		a.notify.Notify(failure("request background verification", err))
		return nil, fmt.Errorf("verifying candidate %s: %w", id, err)
	}
	return v, nil
}

func (a *App) publish(ctx context.Context, topic string, event any) {
	if err := a.pub.Publish(ctx, topic, event); err != nil {
		a.logger.Warn("publishing event failed", "topic", topic, "err", err)
	}
}

func indexOf(list []*model.Candidate, id string) int {
	for i, c := range list {
		if c != nil && c.ID == id {
			return i
		}
	}
	return -1
}

// --- accessors ---

func (a *App) Criteria() model.FilterCriteria {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.criteria
}

// Candidates returns every fetched candidate.
func (a *App) Candidates() []*model.Candidate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*model.Candidate(nil), a.candidates...)
}

// Total is the backend's total match count, which may exceed the page size.
func (a *App) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// Visible returns the candidates that match the current criteria.
func (a *App) Visible() []*model.Candidate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*model.Candidate(nil), a.visible...)
}

func (a *App) Selected() *model.Candidate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected
}

func (a *App) Detail() *Detail {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.detail
}

// Credits returns the last balance read, or nil.
func (a *App) Credits() *model.Credits {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.credits
}
