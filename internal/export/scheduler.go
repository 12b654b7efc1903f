package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alfredjeanlab/hiredesk/internal/events"
	"github.com/alfredjeanlab/hiredesk/internal/idgen"
	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// Source produces the candidates to export.
type Source func(ctx context.Context) ([]*model.Candidate, error)

// Result describes one completed export.
type Result struct {
	ExportID  string   `json:"export_id"`
	Name      string   `json:"name"`
	Format    Format   `json:"format"`
	Rows      int      `json:"rows"`
	Locations []string `json:"locations"`
}

// Exporter renders a source and writes it to every destination.
type Exporter struct {
	source       Source
	format       Format
	destinations []Destination
	pub          events.Publisher
	logger       *slog.Logger
}

func NewExporter(source Source, format Format, destinations []Destination, pub events.Publisher, logger *slog.Logger) *Exporter {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &Exporter{
		source:       source,
		format:       format,
		destinations: destinations,
		pub:          pub,
		logger:       logger,
	}
}

// Run performs one export. A destination that fails does not stop the
// others; Run returns an error only when nothing was written.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	if len(e.destinations) == 0 {
		return nil, errors.New("no export destinations configured")
	}
	cands, err := e.source(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, e.format, cands); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", e.format, err)
	}

	id, err := idgen.NewExportID()
	if err != nil {
		return nil, err
	}
	res := &Result{
		ExportID: id,
		Name:     idgen.ExportFileName(id, e.format.Ext()),
		Format:   e.format,
		Rows:     countRows(cands),
	}

	var errs []error
	for i, dest := range e.destinations {
		loc, err := dest.Write(ctx, res.Name, e.format.ContentType(), buf.Bytes())
		if err != nil {
			e.logger.Error("export destination write failed", "destination", i, "name", res.Name, "err", err)
			errs = append(errs, err)
			continue
		}
		res.Locations = append(res.Locations, loc)
	}
	if len(res.Locations) == 0 {
		return nil, fmt.Errorf("export %s: %w", res.Name, errors.Join(errs...))
	}

	e.logger.Info("export completed", "export_id", id, "rows", res.Rows, "format", e.format, "bytes", buf.Len())
	if err := e.pub.Publish(ctx, events.TopicExportCompleted, events.ExportCompleted{
		ExportID:    id,
		Format:      string(e.format),
		Rows:        res.Rows,
		Destination: strings.Join(res.Locations, ","),
		CompletedAt: time.Now().UTC(),
	}); err != nil {
		e.logger.Warn("publishing event failed", "topic", events.TopicExportCompleted, "err", err)
	}
	return res, nil
}

// countRows is the number of candidates Write renders.
func countRows(cands []*model.Candidate) int {
	n := 0
	for _, c := range cands {
		if c != nil {
			n++
		}
	}
	return n
}

// Scheduler runs an Exporter periodically.
type Scheduler struct {
	exporter *Exporter
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(exporter *Exporter, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{exporter: exporter, interval: interval, logger: logger}
}

// Start runs an export immediately, then on each tick until Stop.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current export, if any.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.once(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.once(ctx)
		}
	}
}

func (s *Scheduler) once(ctx context.Context) {
	if _, err := s.exporter.Run(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("scheduled export failed", "err", err)
	}
}
