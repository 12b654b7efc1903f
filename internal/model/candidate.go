package model

import "time"

// SkillLevel is the categorical seniority of a candidate's skill set.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

// IsValid checks whether the skill level is a known value.
func (l SkillLevel) IsValid() bool {
	switch l {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert:
		return true
	}
	return false
}

// NoticePeriod is how soon a candidate can join.
type NoticePeriod string

const (
	NoticeImmediate NoticePeriod = "immediate"
	Notice15Days    NoticePeriod = "15-days"
	Notice30Days    NoticePeriod = "30-days"
	Notice60Days    NoticePeriod = "60-days"
	Notice90Days    NoticePeriod = "90-days"
)

// IsValid checks whether the notice period is a known value.
func (n NoticePeriod) IsValid() bool {
	switch n {
	case NoticeImmediate, Notice15Days, Notice30Days, Notice60Days, Notice90Days:
		return true
	}
	return false
}

// Candidate is a person record as returned by the ATS backend.
// The console never edits a candidate; a reveal replaces the whole record.
type Candidate struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Role              string       `json:"role"`
	Company           string       `json:"company"`
	TotalExperience   int          `json:"total_experience"`
	CompanyExperience int          `json:"company_experience"`
	City              string       `json:"city,omitempty"`
	Country           string       `json:"country,omitempty"`
	Location          string       `json:"location,omitempty"`
	Skills            []string     `json:"skills,omitempty"`
	SkillLevel        SkillLevel   `json:"skill_level,omitempty"`
	NoticePeriod      NoticePeriod `json:"notice_period,omitempty"`
	Categories        []string     `json:"categories,omitempty"`

	// Contact fields are masked by the backend until the candidate is revealed.
	Revealed bool   `json:"revealed"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`

	LogoURL   string    `json:"logo_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Note is a free-text recruiter note attached to a candidate.
type Note struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	Author      string    `json:"author,omitempty"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Credits is the recruiter's balance for paid actions such as reveals.
type Credits struct {
	Balance    int `json:"balance"`
	RevealCost int `json:"reveal_cost,omitempty"`
}

// Verification is the result of a background-verification request.
type Verification struct {
	CandidateID string    `json:"candidate_id"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at,omitempty"`
}

// Session describes the authenticated recruiter.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Org    string `json:"org,omitempty"`
}
