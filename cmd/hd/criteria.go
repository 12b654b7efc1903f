package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/hiredesk/internal/model"
)

// addCriteriaFlags registers the candidate filter flags shared by list,
// export and view save.
func addCriteriaFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("keywords", "", "match name, role or skills")
	f.StringSlice("category", nil, "role category (repeatable)")
	f.StringSlice("skill", nil, "required skill (repeatable)")
	f.String("skill-level", "", "beginner, intermediate, advanced or expert")
	f.String("notice", "", "notice period: immediate, 15-days, 30-days, 60-days or 90-days")
	f.String("min-exp", "", "minimum total experience in years")
	f.String("max-exp", "", "maximum total experience in years")
	f.String("min-company-exp", "", "minimum experience at current company in years")
	f.String("max-company-exp", "", "maximum experience at current company in years")
	f.String("city", "", "city substring")
	f.String("country", "", "country substring")
	f.String("location", "", "location substring")
	f.String("company", "", "company substring")
}

// criteriaFromFlags overlays the flags the user set onto base.
func criteriaFromFlags(cmd *cobra.Command, base model.FilterCriteria) (model.FilterCriteria, error) {
	f := cmd.Flags()
	c := base
	str := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	slice := func(name string, dst *[]string) {
		if f.Changed(name) {
			*dst, _ = f.GetStringSlice(name)
		}
	}

	str("keywords", &c.Keywords)
	slice("category", &c.SelectedCategories)
	slice("skill", &c.SelectedSkills)
	str("min-exp", &c.MinTotalExp)
	str("max-exp", &c.MaxTotalExp)
	str("min-company-exp", &c.MinCompanyExp)
	str("max-company-exp", &c.MaxCompanyExp)
	str("city", &c.City)
	str("country", &c.Country)
	str("location", &c.Location)
	str("company", &c.Company)

	if f.Changed("skill-level") {
		v, _ := f.GetString("skill-level")
		lvl := model.SkillLevel(v)
		if v != "" && !lvl.IsValid() {
			return c, fmt.Errorf("invalid --skill-level %q", v)
		}
		c.SkillLevel = lvl
	}
	if f.Changed("notice") {
		v, _ := f.GetString("notice")
		np := model.NoticePeriod(v)
		if v != "" && !np.IsValid() {
			return c, fmt.Errorf("invalid --notice %q", v)
		}
		c.NoticePeriod = np
	}
	return c, nil
}
