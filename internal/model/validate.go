package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

// ValidateJobDraft checks a job form before it is submitted. It reports every
// violated rule at once as a *ValidationError, or returns nil.
func ValidateJobDraft(d *JobDraft) error {
	var ve ValidationError

	title := strings.TrimSpace(d.Title)
	if title == "" {
		ve.add("title", "is required")
	} else if len([]rune(title)) > 200 {
		ve.add("title", "must be 200 characters or fewer")
	}

	if strings.TrimSpace(d.Department) == "" {
		ve.add("department", "is required")
	}
	if strings.TrimSpace(d.Location) == "" {
		ve.add("location", "is required")
	}

	if !d.EmploymentType.IsValid() {
		ve.add("employment_type", fmt.Sprintf("invalid value %q", d.EmploymentType))
	}

	if d.MinExperience < 0 {
		ve.add("min_experience", "must not be negative")
	}
	if d.MaxExperience < d.MinExperience {
		ve.add("max_experience", fmt.Sprintf("must be at least min_experience (%d)", d.MinExperience))
	}

	if d.SalaryMin < 0 || d.SalaryMax < 0 {
		ve.add("salary", "must not be negative")
	} else if d.SalaryMax > 0 && d.SalaryMax < d.SalaryMin {
		ve.add("salary_max", fmt.Sprintf("must be at least salary_min (%d)", d.SalaryMin))
	}

	skills := 0
	for _, s := range d.Skills {
		if strings.TrimSpace(s) != "" {
			skills++
		}
	}
	if skills == 0 {
		ve.add("skills", "at least one skill is required")
	}

	if d.Openings < 1 {
		ve.add("openings", "must be at least 1")
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
