package model

import "time"

// EmploymentType classifies a job posting.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

// IsValid checks whether the employment type is a known value.
func (t EmploymentType) IsValid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship:
		return true
	}
	return false
}

// Job is a job posting owned by the recruiter's organization.
type Job struct {
	ID        string    `json:"id"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	JobDraft
}

// JobDraft is the editable part of a job, as submitted from the job form.
type JobDraft struct {
	Title          string         `json:"title"`
	Department     string         `json:"department"`
	Location       string         `json:"location"`
	EmploymentType EmploymentType `json:"employment_type"`
	Description    string         `json:"description,omitempty"`
	Skills         []string       `json:"skills,omitempty"`
	MinExperience  int            `json:"min_experience"`
	MaxExperience  int            `json:"max_experience"`
	SalaryMin      int            `json:"salary_min,omitempty"`
	SalaryMax      int            `json:"salary_max,omitempty"`
	Openings       int            `json:"openings"`
}

// Template is an outreach message template.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Channel   string    `json:"channel,omitempty"` // email, linkedin, sms
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
