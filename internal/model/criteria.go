package model

import "strings"

// FilterCriteria holds the recruiter's candidate-list filters. Every field is
// optional; an empty field matches everything. Criteria are replaced as a
// whole on each edit, never patched in place.
type FilterCriteria struct {
	Keywords       string `json:"keywords,omitempty"`
	BooleanSearch  bool   `json:"boolean_search,omitempty"`
	SemanticSearch bool   `json:"semantic_search,omitempty"`

	SelectedCategories []string `json:"selected_categories,omitempty"`

	MinCompanyExp string `json:"min_company_exp,omitempty"`
	MaxCompanyExp string `json:"max_company_exp,omitempty"`
	MinTotalExp   string `json:"min_total_exp,omitempty"`
	MaxTotalExp   string `json:"max_total_exp,omitempty"`

	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	Location string `json:"location,omitempty"`

	SelectedSkills []string     `json:"selected_skills,omitempty"`
	SkillLevel     SkillLevel   `json:"skill_level,omitempty"`
	NoticePeriod   NoticePeriod `json:"notice_period,omitempty"`
	Company        string       `json:"company,omitempty"`

	// Declared toggles. Matches does not consult them; see DESIGN.md.
	Verified           bool `json:"verified,omitempty"`
	Certified          bool `json:"certified,omitempty"`
	HasPortfolio       bool `json:"has_portfolio,omitempty"`
	HasLinkedIn        bool `json:"has_linkedin,omitempty"`
	BackgroundVerified bool `json:"background_verified,omitempty"`
	OpenToRelocate     bool `json:"open_to_relocate,omitempty"`
}

// IsEmpty reports whether no evaluated predicate is set.
func (f FilterCriteria) IsEmpty() bool {
	return f.Keywords == "" &&
		len(f.SelectedCategories) == 0 &&
		!ParseBound(f.MinCompanyExp).Set && !ParseBound(f.MaxCompanyExp).Set &&
		!ParseBound(f.MinTotalExp).Set && !ParseBound(f.MaxTotalExp).Set &&
		f.City == "" && f.Country == "" && f.Location == "" &&
		len(f.SelectedSkills) == 0 &&
		f.SkillLevel == "" && f.NoticePeriod == "" &&
		f.Company == ""
}

// Matches reports whether c passes every predicate in f. Predicates are
// ANDed; unset predicates pass. Text comparisons are case-insensitive plain
// substring tests. Matches never fails: malformed bounds are ignored.
func Matches(c *Candidate, f FilterCriteria) bool {
	if c == nil {
		return false
	}

	if kw := f.Keywords; kw != "" {
		if !contains(c.Name, kw) && !contains(c.Role, kw) && !anyContains(c.Skills, kw) {
			return false
		}
	}

	if len(f.SelectedCategories) > 0 {
		hit := false
		for _, cat := range f.SelectedCategories {
			if contains(c.Role, cat) || anyContains(c.Skills, cat) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	if !inRange(c.CompanyExperience, ParseBound(f.MinCompanyExp), ParseBound(f.MaxCompanyExp)) {
		return false
	}
	if !inRange(c.TotalExperience, ParseBound(f.MinTotalExp), ParseBound(f.MaxTotalExp)) {
		return false
	}

	if f.City != "" && !contains(c.City, f.City) {
		return false
	}
	if f.Country != "" && !contains(c.Country, f.Country) {
		return false
	}
	if f.Location != "" && !contains(c.Location, f.Location) {
		return false
	}

	if len(f.SelectedSkills) > 0 {
		hit := false
		for _, s := range f.SelectedSkills {
			if anyContains(c.Skills, s) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	if f.SkillLevel != "" && c.SkillLevel != f.SkillLevel {
		return false
	}
	if f.NoticePeriod != "" && c.NoticePeriod != f.NoticePeriod {
		return false
	}

	if f.Company != "" && !contains(c.Company, f.Company) {
		return false
	}

	return true
}

// Filter returns the candidates that match f, in their original order.
func Filter(cands []*Candidate, f FilterCriteria) []*Candidate {
	out := make([]*Candidate, 0, len(cands))
	for _, c := range cands {
		if Matches(c, f) {
			out = append(out, c)
		}
	}
	return out
}

func inRange(v int, lo, hi Bound) bool {
	if lo.Set && v < lo.Value {
		return false
	}
	if hi.Set && v > hi.Value {
		return false
	}
	return true
}

// contains is a case-insensitive substring test.
func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContains(list []string, sub string) bool {
	for _, s := range list {
		if contains(s, sub) {
			return true
		}
	}
	return false
}
