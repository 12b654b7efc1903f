package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/hiredesk/internal/model"
	"github.com/alfredjeanlab/hiredesk/internal/ui"
)

var stdout io.Writer = os.Stdout

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(stdout, string(data))
	return nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// candidateColumns maps the column names accepted by saved views to cells.
var candidateColumns = map[string]func(*model.Candidate) string{
	"id":       func(c *model.Candidate) string { return ui.RenderAccent(c.ID) },
	"name":     func(c *model.Candidate) string { return c.Name },
	"role":     func(c *model.Candidate) string { return truncate(c.Role, 30) },
	"company":  func(c *model.Candidate) string { return truncate(c.Company, 24) },
	"exp":      func(c *model.Candidate) string { return fmt.Sprintf("%dy", c.TotalExperience) },
	"city":     func(c *model.Candidate) string { return dash(c.City) },
	"country":  func(c *model.Candidate) string { return dash(c.Country) },
	"skills":   func(c *model.Candidate) string { return truncate(strings.Join(c.Skills, ","), 30) },
	"level":    func(c *model.Candidate) string { return dash(string(c.SkillLevel)) },
	"notice":   func(c *model.Candidate) string { return dash(string(c.NoticePeriod)) },
	"email":    func(c *model.Candidate) string { return dash(c.Email) },
	"phone":    func(c *model.Candidate) string { return dash(c.Phone) },
	"linkedin": func(c *model.Candidate) string { return dash(c.LinkedIn) },
	"revealed": func(c *model.Candidate) string {
		if c.Revealed {
			return ui.RenderGood("yes")
		}
		return ui.RenderMuted("no")
	},
}

var defaultCandidateColumns = []string{"id", "name", "role", "company", "exp", "city", "skills"}

// validateColumns rejects column names the candidate table cannot render.
func validateColumns(cols []string) error {
	for _, c := range cols {
		if _, ok := candidateColumns[strings.ToLower(c)]; !ok {
			known := make([]string, 0, len(candidateColumns))
			for k := range candidateColumns {
				known = append(known, k)
			}
			sort.Strings(known)
			return fmt.Errorf("unknown column %q (known: %s)", c, strings.Join(known, ", "))
		}
	}
	return nil
}

func printCandidateTable(cands []*model.Candidate, cols []string, total int) {
	if len(cols) == 0 {
		cols = defaultCandidateColumns
	}
	w := newTable()
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = strings.ToUpper(c)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, c := range cands {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = candidateColumns[strings.ToLower(col)](c)
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	fmt.Fprintf(stdout, "\n%d shown (%d fetched)\n", len(cands), total)
}

func printCandidate(c *model.Candidate, notes []*model.Note) {
	w := newTable()
	fmt.Fprintf(w, "ID:\t%s\n", ui.RenderAccent(c.ID))
	fmt.Fprintf(w, "Name:\t%s\n", c.Name)
	fmt.Fprintf(w, "Role:\t%s\n", c.Role)
	fmt.Fprintf(w, "Company:\t%s\n", c.Company)
	fmt.Fprintf(w, "Experience:\t%d years (%d at company)\n", c.TotalExperience, c.CompanyExperience)
	fmt.Fprintf(w, "Location:\t%s\n", dash(strings.Join(nonEmpty(c.City, c.Country, c.Location), ", ")))
	if len(c.Skills) > 0 {
		fmt.Fprintf(w, "Skills:\t%s\n", strings.Join(c.Skills, ", "))
	}
	if c.SkillLevel != "" {
		fmt.Fprintf(w, "Skill Level:\t%s\n", c.SkillLevel)
	}
	if c.NoticePeriod != "" {
		fmt.Fprintf(w, "Notice:\t%s\n", c.NoticePeriod)
	}
	if c.Revealed {
		fmt.Fprintf(w, "Email:\t%s\n", dash(c.Email))
		fmt.Fprintf(w, "Phone:\t%s\n", dash(c.Phone))
		fmt.Fprintf(w, "LinkedIn:\t%s\n", dash(c.LinkedIn))
	} else {
		fmt.Fprintf(w, "Contact:\t%s\n", ui.RenderMuted("hidden (hd reveal "+c.ID+")"))
	}
	if c.LogoURL != "" {
		fmt.Fprintf(w, "Logo:\t%s\n", c.LogoURL)
	}
	w.Flush()

	if len(notes) == 0 {
		return
	}
	fmt.Fprintf(stdout, "\n%s\n", ui.RenderAccent("Notes:"))
	for _, n := range notes {
		if n == nil {
			continue
		}
		author := n.Author
		if author == "" {
			author = "unknown"
		}
		fmt.Fprintf(stdout, "  [%s] %s: %s\n", n.CreatedAt.Format("2006-01-02 15:04"), author, n.Text)
	}
}

func nonEmpty(vals ...string) []string {
	var out []string
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func printStages(stages []model.Stage, current string) {
	w := newTable()
	fmt.Fprintln(w, "  ORDER\tSLUG\tNAME\tCANDIDATES")
	for _, s := range stages {
		marker := "  "
		if s.Slug == current {
			marker = "* "
		}
		fmt.Fprintf(w, "%s%d\t%s\t%s\t%d\n", marker, s.Order, s.Slug, s.Name, s.CandidateCount)
	}
	w.Flush()
}

func printApplications(apps []*model.Application) {
	w := newTable()
	fmt.Fprintln(w, "APPLICATION\tCANDIDATE\tROLE\tSTAGE\tSUMMARY")
	for _, a := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ui.RenderAccent(a.ID), a.Candidate.Name, truncate(a.Candidate.Role, 30), a.StageSlug, stageSummary(a.Data))
	}
	w.Flush()
	fmt.Fprintf(stdout, "\n%d applications\n", len(apps))
}

// stageSummary is the one-cell digest of an application's stage data.
func stageSummary(d model.StageData) string {
	switch d := d.(type) {
	case *model.AppliedData:
		return "skills " + d.SkillMatch + ", experience " + d.ExperienceMatch
	case *model.InterviewData:
		return fmt.Sprintf("tech %s, comm %s, integrity %s",
			ui.RenderScore(d.Technical.Int(), d.Technical.Valid),
			ui.RenderScore(d.Communication.Int(), d.Communication.Valid),
			ui.RenderScore(d.Integrity.Int(), d.Integrity.Valid))
	case *model.RawData:
		return fmt.Sprintf("%d details", len(d.Details))
	}
	return ""
}

func printApplicationDetail(a *model.Application) {
	w := newTable()
	fmt.Fprintf(w, "Application:\t%s\n", ui.RenderAccent(a.ID))
	fmt.Fprintf(w, "Candidate:\t%s (%s)\n", a.Candidate.Name, a.Candidate.ID)
	fmt.Fprintf(w, "Stage:\t%s\n", a.StageSlug)

	switch d := a.Data.(type) {
	case *model.AppliedData:
		fmt.Fprintf(w, "Skill Match:\t%s\n", d.SkillMatch)
		fmt.Fprintf(w, "Experience Match:\t%s\n", d.ExperienceMatch)
		fmt.Fprintf(w, "Matched Skills:\t%s\n", d.MatchedSkills)
		if d.Notes != "" {
			fmt.Fprintf(w, "Notes:\t%s\n", d.Notes)
		}
		w.Flush()
	case *model.InterviewData:
		for _, s := range []struct {
			label string
			score model.Score
		}{
			{"Resume", d.Resume},
			{"Knowledge", d.Knowledge},
			{"Communication", d.Communication},
			{"Technical", d.Technical},
			{"Integrity", d.Integrity},
		} {
			fmt.Fprintf(w, "%s:\t%s\n", s.label, ui.RenderScore(s.score.Int(), s.score.Valid))
		}
		fmt.Fprintf(w, "Proctoring:\tdevice %s, human %s, reference %s, environment %s\n",
			d.Proctoring.DeviceUsage, d.Proctoring.HumanAssistance,
			d.Proctoring.ReferenceMaterial, d.Proctoring.EnvironmentalAssistance)
		if d.Notes != "" {
			fmt.Fprintf(w, "Notes:\t%s\n", d.Notes)
		}
		w.Flush()
		for i, qa := range d.QA {
			fmt.Fprintf(stdout, "\nQ%d. %s\n    %s\n", i+1, qa.Question, qa.Answer)
		}
	case *model.RawData:
		keys := make([]string, 0, len(d.Details))
		for k := range d.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s:\t%v\n", k, d.Details[k])
		}
		w.Flush()
	default:
		w.Flush()
	}
}

func printJobs(jobs []*model.Job) {
	w := newTable()
	fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tDEPARTMENT\tLOCATION\tTYPE\tOPENINGS")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			ui.RenderAccent(j.ID), dash(j.Status), truncate(j.Title, 40), j.Department, j.Location, j.EmploymentType, j.Openings)
	}
	w.Flush()
}

func printJob(j *model.Job) {
	w := newTable()
	fmt.Fprintf(w, "ID:\t%s\n", ui.RenderAccent(j.ID))
	fmt.Fprintf(w, "Title:\t%s\n", j.Title)
	fmt.Fprintf(w, "Status:\t%s\n", dash(j.Status))
	fmt.Fprintf(w, "Department:\t%s\n", j.Department)
	fmt.Fprintf(w, "Location:\t%s\n", j.Location)
	fmt.Fprintf(w, "Type:\t%s\n", j.EmploymentType)
	fmt.Fprintf(w, "Experience:\t%d-%d years\n", j.MinExperience, j.MaxExperience)
	if j.SalaryMin > 0 || j.SalaryMax > 0 {
		fmt.Fprintf(w, "Salary:\t%d-%d\n", j.SalaryMin, j.SalaryMax)
	}
	fmt.Fprintf(w, "Openings:\t%d\n", j.Openings)
	if len(j.Skills) > 0 {
		fmt.Fprintf(w, "Skills:\t%s\n", strings.Join(j.Skills, ", "))
	}
	if j.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", j.Description)
	}
	if !j.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created At:\t%s\n", j.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
}

func printTemplates(ts []*model.Template) {
	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tCHANNEL\tSUBJECT")
	for _, t := range ts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ui.RenderAccent(t.ID), t.Name, dash(t.Channel), truncate(t.Subject, 40))
	}
	w.Flush()
}

func printViews(views []*model.View) {
	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tJOB\tFILTERS\tUPDATED")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ui.RenderAccent(v.ID), v.Name, dash(v.JobID), truncate(describeCriteria(v.Criteria), 50),
			v.UpdatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}

func printView(v *model.View) {
	w := newTable()
	fmt.Fprintf(w, "ID:\t%s\n", ui.RenderAccent(v.ID))
	fmt.Fprintf(w, "Name:\t%s\n", v.Name)
	fmt.Fprintf(w, "Job:\t%s\n", dash(v.JobID))
	fmt.Fprintf(w, "Filters:\t%s\n", describeCriteria(v.Criteria))
	if len(v.Columns) > 0 {
		fmt.Fprintf(w, "Columns:\t%s\n", strings.Join(v.Columns, ", "))
	}
	fmt.Fprintf(w, "Created At:\t%s\n", v.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated At:\t%s\n", v.UpdatedAt.Format("2006-01-02 15:04:05"))
	w.Flush()
}

// describeCriteria renders the set predicates as "key=value" pairs.
func describeCriteria(f model.FilterCriteria) string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("keywords", f.Keywords)
	add("categories", strings.Join(f.SelectedCategories, ","))
	add("min-company-exp", f.MinCompanyExp)
	add("max-company-exp", f.MaxCompanyExp)
	add("min-exp", f.MinTotalExp)
	add("max-exp", f.MaxTotalExp)
	add("city", f.City)
	add("country", f.Country)
	add("location", f.Location)
	add("skills", strings.Join(f.SelectedSkills, ","))
	add("skill-level", string(f.SkillLevel))
	add("notice", string(f.NoticePeriod))
	add("company", f.Company)
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}
