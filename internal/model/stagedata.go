package model

import (
	"strconv"
	"strings"
	"time"
)

// NotAvailable is shown for match percentages the backend did not supply.
const NotAvailable = "N/A"

// StageData is the stage-shaped view of an application's contextual details.
// It is a closed union: the concrete type is determined by the stage slug.
//
//	applied                    -> *AppliedData
//	ai-interview, shortlisted  -> *InterviewData
//	anything else              -> *RawData
type StageData interface {
	StageSlug() string
	stageData()
}

// AppliedData is the view of an application in the applied stage.
type AppliedData struct {
	SkillMatch      string `json:"skill_match"`
	ExperienceMatch string `json:"experience_match"`
	MatchedSkills   string `json:"matched_skills"`
	Notes           string `json:"notes,omitempty"`
	// AppliedAt is always nil: the backend contract has no applied date yet.
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

func (*AppliedData) StageSlug() string { return StageApplied }
func (*AppliedData) stageData()        {}

// QAPair is one interview question with the candidate's answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Proctoring flags raised during an AI interview.
type Proctoring struct {
	DeviceUsage             Score `json:"device_usage"`
	HumanAssistance         Score `json:"human_assistance"`
	ReferenceMaterial       Score `json:"reference_material"`
	EnvironmentalAssistance Score `json:"environmental_assistance"`
}

// InterviewData is the view of an application in the ai-interview or
// shortlisted stage.
type InterviewData struct {
	Slug          string     `json:"slug"`
	Resume        Score      `json:"resume"`
	Knowledge     Score      `json:"knowledge"`
	Communication Score      `json:"communication"`
	Technical     Score      `json:"technical"`
	Integrity     Score      `json:"integrity"`
	Proctoring    Proctoring `json:"proctoring"`
	QA            []QAPair   `json:"qa,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

func (d *InterviewData) StageSlug() string { return d.Slug }
func (*InterviewData) stageData()          {}

// RawData carries the contextual details of stages without a bespoke view.
type RawData struct {
	Slug    string         `json:"slug"`
	Details map[string]any `json:"details"`
}

func (d *RawData) StageSlug() string { return d.Slug }
func (*RawData) stageData()          {}

// MapStageData shapes the backend's contextual details for the given stage.
// report is the optional interview report; when present its values take
// precedence over details for the interview stages. Missing or malformed
// fields default to zero or NotAvailable. MapStageData never panics.
func MapStageData(slug string, details, report map[string]any) StageData {
	switch slug {
	case StageApplied:
		return mapApplied(details)
	case StageAIInterview, StageShortlisted:
		return mapInterview(slug, details, report)
	default:
		return &RawData{Slug: slug, Details: details}
	}
}

func mapApplied(details map[string]any) *AppliedData {
	analysis := object(details, "match_analysis")
	return &AppliedData{
		SkillMatch:      percent(analysis["skill_match"]),
		ExperienceMatch: percent(analysis["experience_match"]),
		MatchedSkills:   joinNames(analysis["matched_skills"]),
		Notes:           text(details["notes"]),
	}
}

func mapInterview(slug string, details, report map[string]any) *InterviewData {
	// Look in the report first, then in the contextual details. A null in
	// the report counts as absent.
	src := func(key string) any {
		if v := report[key]; v != nil {
			return v
		}
		return details[key]
	}
	reportProc, detailProc := object(report, "proctoring"), object(details, "proctoring")
	proc := func(key string) any {
		if v := reportProc[key]; v != nil {
			return v
		}
		return detailProc[key]
	}

	d := &InterviewData{
		Slug:          slug,
		Resume:        scoreOf(src("resume_score")),
		Knowledge:     scoreOf(src("knowledge_score")),
		Communication: scoreOf(src("communication_score")),
		Technical:     scoreOf(src("technical_score")),
		Integrity:     scoreOf(src("integrity_score")),
		Proctoring: Proctoring{
			DeviceUsage:             scoreOf(proc("device_usage")),
			HumanAssistance:         scoreOf(proc("human_assistance")),
			ReferenceMaterial:       scoreOf(proc("reference_material")),
			EnvironmentalAssistance: scoreOf(proc("environmental_assistance")),
		},
		Notes: text(src("notes")),
	}
	if list, ok := src("qa").([]any); ok {
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			d.QA = append(d.QA, QAPair{Question: text(m["question"]), Answer: text(m["answer"])})
		}
	}
	return d
}

func object(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func percent(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		if n != "" {
			return n
		}
	}
	return NotAvailable
}

// joinNames accepts a list of strings or of {"name": ...} objects.
func joinNames(v any) string {
	list, ok := v.([]any)
	if !ok {
		return ""
	}
	names := make([]string, 0, len(list))
	for _, item := range list {
		switch s := item.(type) {
		case string:
			names = append(names, s)
		case map[string]any:
			if n := text(s["name"]); n != "" {
				names = append(names, n)
			}
		}
	}
	return strings.Join(names, ", ")
}
