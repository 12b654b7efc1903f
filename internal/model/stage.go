package model

import (
	"sort"
	"strings"
)

// Well-known stage slugs. Jobs may define others.
const (
	StageApplied     = "applied"
	StageAIInterview = "ai-interview"
	StageShortlisted = "shortlisted"
	StageInterview   = "interview"
	StageOfferSent   = "offer-sent"
	StageHired       = "hired"
	StageArchive     = "archive"
)

// Stage is one ordered step of a job's hiring pipeline.
type Stage struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Order          int    `json:"order"`
	CandidateCount int    `json:"candidate_count"`
}

// SortStages orders stages by Order, keeping the backend order for ties.
func SortStages(stages []Stage) {
	sort.SliceStable(stages, func(i, j int) bool {
		return stages[i].Order < stages[j].Order
	})
}

// FindStage returns the stage with the given slug.
func FindStage(stages []Stage, slug string) (Stage, bool) {
	for _, s := range stages {
		if s.Slug == slug {
			return s, true
		}
	}
	return Stage{}, false
}

// NextStage returns the stage whose order is one greater than the stage
// identified by currentSlug. It reports false when the current stage is
// unknown or already last.
func NextStage(stages []Stage, currentSlug string) (Stage, bool) {
	cur, ok := FindStage(stages, currentSlug)
	if !ok {
		return Stage{}, false
	}
	for _, s := range stages {
		if s.Order == cur.Order+1 {
			return s, true
		}
	}
	return Stage{}, false
}

// ArchiveStage returns the job's archive stage, matched on slug or name.
// Jobs without one are valid; the second result is false for them.
func ArchiveStage(stages []Stage) (Stage, bool) {
	for _, s := range stages {
		if isArchiveName(s.Slug) || isArchiveName(s.Name) {
			return s, true
		}
	}
	return Stage{}, false
}

func isArchiveName(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "archive", "archived", "archives":
		return true
	}
	return false
}

// HasInterviewReport reports whether applications on the stage carry an
// AI interview report.
func HasInterviewReport(slug string) bool {
	return slug == StageAIInterview || slug == StageShortlisted
}
