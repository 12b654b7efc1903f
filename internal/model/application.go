package model

import "time"

// Application joins a candidate with the job pipeline stage it currently
// occupies. Details only describe the current stage; history is not kept.
type Application struct {
	ID        string         `json:"id"`
	JobID     string         `json:"job_id"`
	Candidate Candidate      `json:"candidate"`
	StageSlug string         `json:"stage_slug"`
	Details   map[string]any `json:"details,omitempty"`
	UpdatedAt time.Time      `json:"updated_at,omitempty"`

	// Data is derived from Details by MapStageData and is not sent by the backend.
	Data StageData `json:"-"`
}

// Remap recomputes Data from Details and the optional interview report.
func (a *Application) Remap(report map[string]any) {
	a.Data = MapStageData(a.StageSlug, a.Details, report)
}
