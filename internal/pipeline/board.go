// Package pipeline holds the per-job pipeline board: the ordered stages,
// the applications on the selected stage and stage transitions.
//
// Every fetch is tagged with a generation number. When a response arrives
// after a newer request for the same slot was issued, it is dropped with
// ErrStale instead of overwriting the newer state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/hiredesk/internal/events"
	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// ErrStale is returned when a response was superseded by a newer request.
var ErrStale = errors.New("stale response discarded")

// API is the subset of the backend the board needs.
type API interface {
	ListStages(ctx context.Context, jobID string) ([]model.Stage, error)
	ListApplications(ctx context.Context, jobID, stageSlug string) ([]*model.Application, error)
	MoveApplication(ctx context.Context, applicationID, stageID string) (*model.Application, error)
	GetInterviewReport(ctx context.Context, applicationID string) (map[string]any, error)
}

// Board is the pipeline view of a single job. It is safe for concurrent use.
type Board struct {
	api    API
	pub    events.Publisher
	logger *slog.Logger

	mu       sync.Mutex
	jobID    string
	stages   []model.Stage
	current  string
	apps     []*model.Application
	selected *model.Application

	stagesGen uint64
	appsGen   uint64
	detailGen uint64
}

// Option configures a Board.
type Option func(*Board)

// WithPublisher emits transition events on pub.
func WithPublisher(pub events.Publisher) Option {
	return func(b *Board) { b.pub = pub }
}

// WithLogger sets the board's logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// NewBoard creates an empty board backed by api.
func NewBoard(api API, opts ...Option) *Board {
	b := &Board{
		api:    api,
		pub:    events.NoopPublisher{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Load fetches the stages of jobID, selects the first one and fetches its
// applications. A job with no stages leaves the board empty.
func (b *Board) Load(ctx context.Context, jobID string) error {
	b.mu.Lock()
	if b.jobID != jobID {
		b.jobID = jobID
		b.stages = nil
		b.current = ""
		b.apps = nil
		b.selected = nil
	}
	b.mu.Unlock()

	stages, err := b.fetchStages(ctx)
	if err != nil {
		return err
	}
	if len(stages) == 0 {
		return nil
	}
	return b.SelectStage(ctx, stages[0].Slug)
}

// SelectStage makes slug the current stage and fetches its applications,
// mapping each one's stage data. On failure the previous selection is kept.
func (b *Board) SelectStage(ctx context.Context, slug string) error {
	b.mu.Lock()
	jobID := b.jobID
	if _, ok := model.FindStage(b.stages, slug); !ok {
		b.mu.Unlock()
		return fmt.Errorf("job %s has no stage %q", jobID, slug)
	}
	b.appsGen++
	gen := b.appsGen
	b.mu.Unlock()

	apps, err := b.api.ListApplications(ctx, jobID, slug)
	if err != nil {
		b.logger.Error("fetching applications failed", "job_id", jobID, "stage", slug, "err", err)
		return fmt.Errorf("fetching applications for stage %s: %w", slug, err)
	}
	for _, a := range apps {
		if a.StageSlug == "" {
			a.StageSlug = slug
		}
		a.Remap(nil)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.appsGen || jobID != b.jobID {
		b.logger.Debug("dropping stale applications", "stage", slug, "gen", gen, "latest", b.appsGen)
		return ErrStale
	}
	b.current = slug
	b.apps = apps
	if b.selected != nil && findApp(apps, b.selected.ID) == nil {
		b.selected = nil
	}
	return nil
}

func (b *Board) fetchStages(ctx context.Context) ([]model.Stage, error) {
	b.mu.Lock()
	jobID := b.jobID
	b.stagesGen++
	gen := b.stagesGen
	b.mu.Unlock()

	stages, err := b.api.ListStages(ctx, jobID)
	if err != nil {
		b.logger.Error("fetching stages failed", "job_id", jobID, "err", err)
		return nil, fmt.Errorf("fetching stages for job %s: %w", jobID, err)
	}
	model.SortStages(stages)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.stagesGen || jobID != b.jobID {
		return nil, ErrStale
	}
	b.stages = stages
	return append([]model.Stage(nil), stages...), nil
}

// Advance moves the application to the stage that follows its current one.
// When there is no following stage it does nothing and reports false
// without contacting the backend. A failed move leaves the board unchanged.
// After a successful move the stage counts and the current stage's
// applications are fetched again. A failed re-fetch is logged and does not
// turn the completed move into an error.
func (b *Board) Advance(ctx context.Context, applicationID string) (bool, error) {
	app, from, err := b.lookup(applicationID)
	if err != nil {
		return false, err
	}
	b.mu.Lock()
	next, ok := model.NextStage(b.stages, from)
	b.mu.Unlock()
	if !ok {
		b.logger.Debug("no next stage", "application_id", applicationID, "stage", from)
		return false, nil
	}

	if err := b.move(ctx, app, next); err != nil {
		return false, fmt.Errorf("advancing application %s to %s: %w", applicationID, next.Slug, err)
	}
	b.publish(ctx, events.TopicApplicationAdvanced, events.ApplicationAdvanced{
		ApplicationID: applicationID,
		JobID:         app.JobID,
		CandidateID:   app.Candidate.ID,
		FromStage:     from,
		ToStage:       next.Slug,
	})
	b.refresh(ctx)
	return true, nil
}

// Archive moves the application to the job's archive stage. Jobs without an
// archive stage are left alone: Archive reports false and no error.
func (b *Board) Archive(ctx context.Context, applicationID string) (bool, error) {
	app, from, err := b.lookup(applicationID)
	if err != nil {
		return false, err
	}
	b.mu.Lock()
	archive, ok := model.ArchiveStage(b.stages)
	b.mu.Unlock()
	if !ok {
		b.logger.Debug("job has no archive stage", "job_id", app.JobID)
		return false, nil
	}
	if archive.Slug == from {
		return false, nil
	}

	if err := b.move(ctx, app, archive); err != nil {
		return false, fmt.Errorf("archiving application %s: %w", applicationID, err)
	}
	b.publish(ctx, events.TopicApplicationArchived, events.ApplicationArchived{
		ApplicationID: applicationID,
		JobID:         app.JobID,
		CandidateID:   app.Candidate.ID,
		FromStage:     from,
	})
	b.refresh(ctx)
	return true, nil
}

// Detail selects the application and returns it with freshly mapped stage
// data. For interview stages the interview report is fetched first; a
// report that cannot be fetched is logged and the contextual details are
// used instead.
func (b *Board) Detail(ctx context.Context, applicationID string) (*model.Application, error) {
	app, slug, err := b.lookup(applicationID)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.detailGen++
	gen := b.detailGen
	b.mu.Unlock()

	var report map[string]any
	if model.HasInterviewReport(slug) {
		report, err = b.api.GetInterviewReport(ctx, applicationID)
		if err != nil {
			b.logger.Warn("interview report unavailable", "application_id", applicationID, "err", err)
			report = nil
		}
	}

	detail := *app
	detail.Remap(report)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.detailGen {
		return nil, ErrStale
	}
	b.selected = &detail
	return &detail, nil
}

func (b *Board) move(ctx context.Context, app *model.Application, to model.Stage) error {
	if _, err := b.api.MoveApplication(ctx, app.ID, to.ID); err != nil {
		b.logger.Error("moving application failed", "application_id", app.ID, "to", to.Slug, "err", err)
		return err
	}
	b.logger.Info("application moved", "application_id", app.ID, "from", app.StageSlug, "to", to.Slug)

	// The application has left the current stage even if the re-fetch fails.
	b.mu.Lock()
	for i, a := range b.apps {
		if a.ID == app.ID {
			b.apps = append(b.apps[:i:i], b.apps[i+1:]...)
			break
		}
	}
	if b.selected != nil && b.selected.ID == app.ID {
		b.selected = nil
	}
	b.mu.Unlock()
	return nil
}

// refresh re-reads the stage list and the current stage after a transition.
// Failures leave the board as it was after the move and are logged.
func (b *Board) refresh(ctx context.Context) {
	if _, err := b.fetchStages(ctx); err != nil {
		if !errors.Is(err, ErrStale) {
			b.logger.Warn("refreshing board failed", "job_id", b.JobID(), "err", err)
		}
		return
	}
	b.mu.Lock()
	cur := b.current
	b.mu.Unlock()
	if cur == "" {
		return
	}
	if err := b.SelectStage(ctx, cur); err != nil && !errors.Is(err, ErrStale) {
		b.logger.Warn("refreshing board failed", "job_id", b.JobID(), "stage", cur, "err", err)
	}
}

func (b *Board) publish(ctx context.Context, topic string, event any) {
	if err := b.pub.Publish(ctx, topic, event); err != nil {
		b.logger.Warn("publishing event failed", "topic", topic, "err", err)
	}
}

// lookup finds an application on the current stage and returns it with the
// stage it sits on.
func (b *Board) lookup(applicationID string) (*model.Application, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	app := findApp(b.apps, applicationID)
	if app == nil {
		return nil, "", fmt.Errorf("application %s is not on stage %q", applicationID, b.current)
	}
	from := app.StageSlug
	if from == "" {
		from = b.current
	}
	return app, from, nil
}

func findApp(apps []*model.Application, id string) *model.Application {
	for _, a := range apps {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// JobID returns the job the board was last loaded for.
func (b *Board) JobID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.jobID
}

// Stages returns a copy of the ordered stage list.
func (b *Board) Stages() []model.Stage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Stage(nil), b.stages...)
}

// CurrentStage returns the selected stage.
func (b *Board) CurrentStage() (model.Stage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return model.FindStage(b.stages, b.current)
}

// Applications returns the applications on the current stage.
func (b *Board) Applications() []*model.Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*model.Application(nil), b.apps...)
}

// Selected returns the application last opened with Detail, or nil.
func (b *Board) Selected() *model.Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}
