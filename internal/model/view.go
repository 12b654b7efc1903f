package model

import (
	"fmt"
	"strings"
	"time"
)

// View is a named, persisted FilterCriteria preset. JobID scopes the
// candidate list to one job; Columns, when set, narrows list output.
type View struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	JobID     string         `json:"job_id,omitempty"`
	Criteria  FilterCriteria `json:"criteria"`
	Columns   []string       `json:"columns,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ValidateViewName checks that name is usable as a view handle. Names
// beginning with the view ID prefix are rejected so lookups stay unambiguous.
func ValidateViewName(name string) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return fmt.Errorf("view name is required")
	case len(name) > 64:
		return fmt.Errorf("view name must be at most 64 characters")
	case strings.HasPrefix(name, "vw-"):
		return fmt.Errorf("view name must not start with %q", "vw-")
	case strings.ContainsAny(name, " \t\n"):
		return fmt.Errorf("view name must not contain whitespace")
	}
	return nil
}
