package model

import "testing"

func testStages() []Stage {
	s := []Stage{
		{ID: "s3", Name: "Interview", Slug: "interview", Order: 3},
		{ID: "s1", Name: "Applied", Slug: "applied", Order: 1},
		{ID: "s2", Name: "Shortlisted", Slug: "shortlisted", Order: 2},
		{ID: "s4", Name: "Offer Sent", Slug: "offer-sent", Order: 4},
	}
	SortStages(s)
	return s
}

func TestSortStages(t *testing.T) {
	s := testStages()
	for i, want := range []string{"applied", "shortlisted", "interview", "offer-sent"} {
		if s[i].Slug != want {
			t.Errorf("stage %d = %q, want %q", i, s[i].Slug, want)
		}
	}
}

func TestNextStage(t *testing.T) {
	stages := testStages()
	for _, tc := range []struct {
		current string
		want    string
		ok      bool
	}{
		{"applied", "shortlisted", true},
		{"interview", "offer-sent", true},
		{"offer-sent", "", false},
		{"unknown", "", false},
	} {
		got, ok := NextStage(stages, tc.current)
		if ok != tc.ok || got.Slug != tc.want {
			t.Errorf("NextStage(%q) = (%q, %v), want (%q, %v)", tc.current, got.Slug, ok, tc.want, tc.ok)
		}
	}
}

func TestNextStage_GapInOrder(t *testing.T) {
	stages := []Stage{{Slug: "a", Order: 1}, {Slug: "b", Order: 3}}
	if _, ok := NextStage(stages, "a"); ok {
		t.Error("a gap in sort order means there is no next stage")
	}
}

func TestArchiveStage(t *testing.T) {
	if _, ok := ArchiveStage(testStages()); ok {
		t.Error("no archive stage configured should report false")
	}
	for _, s := range []Stage{
		{Slug: "archive"},
		{Slug: "archived"},
		{Slug: "x", Name: "Archives"},
	} {
		got, ok := ArchiveStage(append(testStages(), s))
		if !ok || got != s {
			t.Errorf("ArchiveStage with %+v = (%+v, %v)", s, got, ok)
		}
	}
}

func TestHasInterviewReport(t *testing.T) {
	for slug, want := range map[string]bool{
		StageApplied:     false,
		StageAIInterview: true,
		StageShortlisted: true,
		StageInterview:   false,
		"":               false,
	} {
		if got := HasInterviewReport(slug); got != want {
			t.Errorf("HasInterviewReport(%q) = %v, want %v", slug, got, want)
		}
	}
}
