// Package client provides a transport-agnostic interface for the ATS backend
// and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"

	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// ATSClient is the interface that hiredesk components use to communicate with
// the ATS backend. It is implemented by HTTPClient.
type ATSClient interface {
	// Session
	Session(ctx context.Context) (*model.Session, error)

	// Candidates
	ListCandidates(ctx context.Context, req *ListCandidatesRequest) (*ListCandidatesResponse, error)
	GetCandidate(ctx context.Context, id string) (*model.Candidate, error)
	RevealCandidate(ctx context.Context, id string) (*model.Candidate, error)
	BooleanSearch(ctx context.Context, query string) (*ListCandidatesResponse, error)
	VerifyBackground(ctx context.Context, id string) (*model.Verification, error)

	// Notes
	ListNotes(ctx context.Context, candidateID string) ([]*model.Note, error)
	AddNote(ctx context.Context, candidateID, text string) (*model.Note, error)

	// Jobs
	ListJobs(ctx context.Context) ([]*model.Job, error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
	CreateJob(ctx context.Context, draft *model.JobDraft) (*model.Job, error)
	UpdateJob(ctx context.Context, id string, draft *model.JobDraft) (*model.Job, error)
	DeleteJob(ctx context.Context, id string) error

	// Pipeline
	ListStages(ctx context.Context, jobID string) ([]model.Stage, error)
	ListApplications(ctx context.Context, jobID, stageSlug string) ([]*model.Application, error)
	MoveApplication(ctx context.Context, applicationID, stageID string) (*model.Application, error)
	GetInterviewReport(ctx context.Context, applicationID string) (map[string]any, error)

	// Templates
	ListTemplates(ctx context.Context) ([]*model.Template, error)
	CreateTemplate(ctx context.Context, t *model.Template) (*model.Template, error)
	UpdateTemplate(ctx context.Context, id string, t *model.Template) (*model.Template, error)
	DeleteTemplate(ctx context.Context, id string) error

	// Credits
	GetCredits(ctx context.Context) (*model.Credits, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// ListCandidatesRequest holds parameters for listing candidates.
type ListCandidatesRequest struct {
	Search string `json:"search,omitempty"`
	JobID  string `json:"job_id,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// ListCandidatesResponse is the response from ListCandidates and BooleanSearch.
type ListCandidatesResponse struct {
	Candidates []*model.Candidate `json:"candidates"`
	Total      int                `json:"total"`
}
