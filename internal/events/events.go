package events

import (
	"context"
	"time"

	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// Event topic constants
const (
	TopicApplicationAdvanced = "hiredesk.application.advanced"
	TopicApplicationArchived = "hiredesk.application.archived"
	TopicCandidateRevealed   = "hiredesk.candidate.revealed"
	TopicNoteAdded           = "hiredesk.note.added"
	TopicExportCompleted     = "hiredesk.export.completed"

	// TopicAll matches every hiredesk topic.
	TopicAll = "hiredesk.>"
)

// Event types

type ApplicationAdvanced struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	CandidateID   string `json:"candidate_id,omitempty"`
	FromStage     string `json:"from_stage"`
	ToStage       string `json:"to_stage"`
}

type ApplicationArchived struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	CandidateID   string `json:"candidate_id,omitempty"`
	FromStage     string `json:"from_stage"`
}

type CandidateRevealed struct {
	CandidateID string `json:"candidate_id"`
	Balance     int    `json:"balance"`
}

type NoteAdded struct {
	Note *model.Note `json:"note"`
}

type ExportCompleted struct {
	ExportID    string    `json:"export_id"`
	Format      string    `json:"format"`
	Rows        int       `json:"rows"`
	Destination string    `json:"destination"`
	CompletedAt time.Time `json:"completed_at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
