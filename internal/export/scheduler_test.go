package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alfredjeanlab/hiredesk/internal/events"
	"github.com/alfredjeanlab/hiredesk/internal/model"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	mu     sync.Mutex
	name   string
	data   []byte
	err    error
}

func (d *mockDestination) Write(_ context.Context, name, _ string, data []byte) (string, error) {
	d.writes.Add(1)
	if d.err != nil {
		return "", d.err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.name = name
	d.data = append([]byte(nil), data...)
	return "mock://" + name, nil
}

type capturePub struct {
	mu     sync.Mutex
	events []events.ExportCompleted
}

func (p *capturePub) Publish(_ context.Context, _ string, e any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e.(events.ExportCompleted))
	return nil
}

func (p *capturePub) Close() error { return nil }

func staticSource(cands ...*model.Candidate) Source {
	return func(context.Context) ([]*model.Candidate, error) { return cands, nil }
}

func TestExporter_Run(t *testing.T) {
	dest := &mockDestination{}
	pub := &capturePub{}
	ex := NewExporter(staticSource(&model.Candidate{ID: "c-1", Name: "Asha"}), FormatCSV, []Destination{dest}, pub, discard())

	res, err := ex.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(res.Name, "candidates-ex-") || !strings.HasSuffix(res.Name, ".csv") {
		t.Errorf("Name = %q", res.Name)
	}
	if res.Rows != 1 || len(res.Locations) != 1 || res.Locations[0] != "mock://"+res.Name {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(string(dest.data), "c-1,Asha") {
		t.Errorf("data = %q", dest.data)
	}
	if len(pub.events) != 1 || pub.events[0].ExportID != res.ExportID || pub.events[0].Rows != 1 {
		t.Errorf("events = %+v", pub.events)
	}
}

func TestExporter_RowsSkipNil(t *testing.T) {
	pub := &capturePub{}
	ex := NewExporter(staticSource(nil, &model.Candidate{ID: "c-1"}, nil), FormatCSV, []Destination{&mockDestination{}}, pub, discard())

	res, err := ex.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Rows != 1 {
		t.Errorf("Rows = %d, want 1", res.Rows)
	}
	if len(pub.events) != 1 || pub.events[0].Rows != 1 {
		t.Errorf("events = %+v", pub.events)
	}
}

func TestExporter_PartialFailure(t *testing.T) {
	bad := &mockDestination{err: errors.New("bucket missing")}
	good := &mockDestination{}
	ex := NewExporter(staticSource(), FormatCSV, []Destination{bad, good}, nil, discard())

	res, err := ex.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Locations) != 1 {
		t.Errorf("locations = %v", res.Locations)
	}
}

func TestExporter_AllDestinationsFail(t *testing.T) {
	bad := &mockDestination{err: errors.New("disk full")}
	pub := &capturePub{}
	ex := NewExporter(staticSource(), FormatCSV, []Destination{bad}, pub, discard())

	if _, err := ex.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v", err)
	}
	if len(pub.events) != 0 {
		t.Error("no event should be published for a failed export")
	}
}

func TestExporter_SourceError(t *testing.T) {
	dest := &mockDestination{}
	src := func(context.Context) ([]*model.Candidate, error) { return nil, errors.New("HTTP 500") }
	ex := NewExporter(src, FormatCSV, []Destination{dest}, nil, discard())

	if _, err := ex.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if dest.writes.Load() != 0 {
		t.Error("nothing should be written when the source fails")
	}
}

func TestExporter_NoDestinations(t *testing.T) {
	ex := NewExporter(staticSource(), FormatCSV, nil, nil, discard())
	if _, err := ex.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	dest := &mockDestination{}
	ex := NewExporter(staticSource(&model.Candidate{ID: "c-1"}), FormatXLSX, []Destination{dest}, nil, discard())

	sched := NewScheduler(ex, 50*time.Millisecond, discard())
	sched.Start()
	// Initial export plus at least one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}
	if !strings.HasSuffix(dest.name, ".xlsx") {
		t.Errorf("name = %q", dest.name)
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	sched := NewScheduler(NewExporter(staticSource(), FormatCSV, nil, nil, discard()), time.Minute, discard())
	sched.Stop()
}

func TestFileDestination(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	d := NewFileDestination(dir)

	loc, err := d.Write(context.Background(), "candidates-ex-1.csv", "text/csv", []byte("ID\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if loc != filepath.Join(dir, "candidates-ex-1.csv") {
		t.Errorf("loc = %q", loc)
	}
	data, err := os.ReadFile(loc)
	if err != nil || string(data) != "ID\n" {
		t.Errorf("file = %q, %v", data, err)
	}
}

func TestFileDestination_NoTraversal(t *testing.T) {
	dir := t.TempDir()
	loc, err := NewFileDestination(dir).Write(context.Background(), "../escape.csv", "text/csv", nil)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(loc) != dir {
		t.Errorf("wrote outside export dir: %q", loc)
	}
}

func TestS3Destination(t *testing.T) {
	var (
		mu          sync.Mutex
		method      string
		path        string
		contentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path, contentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		mu.Unlock()
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	home := t.TempDir()
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(home, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(home, "credentials"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	d, err := NewS3Destination(context.Background(), "hd-exports", "exports/", "us-east-1", srv.URL)
	if err != nil {
		t.Fatalf("NewS3Destination: %v", err)
	}
	loc, err := d.Write(context.Background(), "candidates-ex-1.csv", "text/csv", []byte("ID\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if loc != "s3://hd-exports/exports/candidates-ex-1.csv" {
		t.Errorf("loc = %q", loc)
	}
	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut || path != "/hd-exports/exports/candidates-ex-1.csv" {
		t.Errorf("request = %s %s", method, path)
	}
	if contentType != "text/csv" {
		t.Errorf("Content-Type = %q", contentType)
	}
}

func TestS3Destination_Key(t *testing.T) {
	for _, tc := range []struct{ prefix, want string }{
		{"", "f.csv"},
		{"exports", "exports/f.csv"},
		{"exports/", "exports/f.csv"},
	} {
		d := &S3Destination{prefix: tc.prefix}
		if got := d.Key("f.csv"); got != tc.want {
			t.Errorf("Key with prefix %q = %q, want %q", tc.prefix, got, tc.want)
		}
	}
}
