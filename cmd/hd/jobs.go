package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/hiredesk/internal/model"
	"github.com/alfredjeanlab/hiredesk/internal/ui"
)

var jobCmd = &cobra.Command{
	Use:     "job",
	Short:   "Manage job postings",
	GroupID: "jobs",
}

func addJobFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("title", "", "job title")
	f.String("department", "", "department")
	f.String("location", "", "location")
	f.String("type", string(model.EmploymentFullTime), "full-time, part-time, contract or internship")
	f.String("description", "", "description")
	f.StringSlice("skill", nil, "required skill (repeatable)")
	f.Int("min-exp", 0, "minimum years of experience")
	f.Int("max-exp", 0, "maximum years of experience")
	f.Int("salary-min", 0, "minimum salary")
	f.Int("salary-max", 0, "maximum salary")
	f.Int("openings", 1, "number of openings")
}

// applyJobFlags overlays the flags the user set onto d. When all is true
// every flag is applied, defaults included.
func applyJobFlags(cmd *cobra.Command, d *model.JobDraft, all bool) {
	f := cmd.Flags()
	set := func(name string) bool { return all || f.Changed(name) }
	if set("title") {
		d.Title, _ = f.GetString("title")
	}
	if set("department") {
		d.Department, _ = f.GetString("department")
	}
	if set("location") {
		d.Location, _ = f.GetString("location")
	}
	if set("type") {
		t, _ := f.GetString("type")
		d.EmploymentType = model.EmploymentType(t)
	}
	if set("description") {
		d.Description, _ = f.GetString("description")
	}
	if set("skill") {
		d.Skills, _ = f.GetStringSlice("skill")
	}
	if set("min-exp") {
		d.MinExperience, _ = f.GetInt("min-exp")
	}
	if set("max-exp") {
		d.MaxExperience, _ = f.GetInt("max-exp")
	}
	if set("salary-min") {
		d.SalaryMin, _ = f.GetInt("salary-min")
	}
	if set("salary-max") {
		d.SalaryMax, _ = f.GetInt("salary-max")
	}
	if set("openings") {
		d.Openings, _ = f.GetInt("openings")
	}
}

// validateDraft prints every violated rule and returns an error when the
// draft must not be submitted.
func validateDraft(w io.Writer, d *model.JobDraft) error {
	err := model.ValidateJobDraft(d)
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	fmt.Fprintln(w, ui.RenderBad("The job form has errors:"))
	for _, fe := range ve.Errors {
		fmt.Fprintf(w, "  - %s %s\n", fe.Field, fe.Message)
	}
	return fmt.Errorf("job not saved: %d validation errors", len(ve.Errors))
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job posting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var draft model.JobDraft
		applyJobFlags(cmd, &draft, true)
		if err := validateDraft(os.Stderr, &draft); err != nil {
			return err
		}
		job, err := api.CreateJob(cmd.Context(), &draft)
		if err != nil {
			return fmt.Errorf("creating job: %w", err)
		}
		if jsonOutput {
			return printJSON(job)
		}
		fmt.Fprintf(stdout, "Created job %s: %s\n", ui.RenderAccent(job.ID), job.Title)
		return nil
	},
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job postings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := api.ListJobs(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing jobs: %w", err)
		}
		if jsonOutput {
			return printJSON(jobs)
		}
		printJobs(jobs)
		return nil
	},
}

var jobShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := api.GetJob(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetching job %s: %w", args[0], err)
		}
		if jsonOutput {
			return printJSON(job)
		}
		printJob(job)
		return nil
	},
}

var jobUpdateCmd = &cobra.Command{
	Use:   "update <job-id>",
	Short: "Update fields of a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		job, err := api.GetJob(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetching job %s: %w", args[0], err)
		}
		draft := job.JobDraft
		applyJobFlags(cmd, &draft, false)
		if err := validateDraft(os.Stderr, &draft); err != nil {
			return err
		}
		updated, err := api.UpdateJob(ctx, args[0], &draft)
		if err != nil {
			return fmt.Errorf("updating job %s: %w", args[0], err)
		}
		if jsonOutput {
			return printJSON(updated)
		}
		fmt.Fprintf(stdout, "Updated job %s\n", ui.RenderAccent(updated.ID))
		return nil
	},
}

var jobDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmed(cmd, "Delete job "+args[0]+"?") {
			fmt.Fprintln(os.Stderr, "aborted")
			return nil
		}
		if err := api.DeleteJob(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting job %s: %w", args[0], err)
		}
		fmt.Fprintf(stdout, "Deleted job %s\n", args[0])
		return nil
	},
}

// confirmed honors --yes, otherwise asks on an interactive terminal.
// Non-interactive sessions without --yes are treated as a no.
func confirmed(cmd *cobra.Command, prompt string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	if !ui.IsInteractive() {
		return false
	}
	return ui.Confirm(os.Stdin, os.Stderr, prompt)
}

var templateCmd = &cobra.Command{
	Use:     "template",
	Short:   "Manage outreach message templates",
	GroupID: "jobs",
}

func addTemplateFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "template name")
	cmd.Flags().String("subject", "", "message subject")
	cmd.Flags().String("body", "", "message body")
	cmd.Flags().String("channel", "email", "email, linkedin or sms")
}

func templateFromFlags(cmd *cobra.Command, t *model.Template) error {
	f := cmd.Flags()
	if f.Changed("name") {
		t.Name, _ = f.GetString("name")
	}
	if f.Changed("subject") {
		t.Subject, _ = f.GetString("subject")
	}
	if f.Changed("body") {
		t.Body, _ = f.GetString("body")
	}
	if f.Changed("channel") || t.Channel == "" {
		t.Channel, _ = f.GetString("channel")
	}
	switch t.Channel {
	case "email", "linkedin", "sms":
	default:
		return fmt.Errorf("invalid --channel %q", t.Channel)
	}
	if t.Name == "" || t.Body == "" {
		return errors.New("template name and body are required")
	}
	return nil
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := api.ListTemplates(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing templates: %w", err)
		}
		if jsonOutput {
			return printJSON(ts)
		}
		printTemplates(ts)
		return nil
	},
}

var templateCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var t model.Template
		if err := templateFromFlags(cmd, &t); err != nil {
			return err
		}
		created, err := api.CreateTemplate(cmd.Context(), &t)
		if err != nil {
			return fmt.Errorf("creating template: %w", err)
		}
		if jsonOutput {
			return printJSON(created)
		}
		fmt.Fprintf(stdout, "Created template %s\n", ui.RenderAccent(created.ID))
		return nil
	},
}

var templateUpdateCmd = &cobra.Command{
	Use:   "update <template-id>",
	Short: "Update a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ts, err := api.ListTemplates(ctx)
		if err != nil {
			return fmt.Errorf("listing templates: %w", err)
		}
		var t *model.Template
		for _, cand := range ts {
			if cand.ID == args[0] {
				t = cand
				break
			}
		}
		if t == nil {
			return fmt.Errorf("template %s not found", args[0])
		}
		if err := templateFromFlags(cmd, t); err != nil {
			return err
		}
		updated, err := api.UpdateTemplate(ctx, args[0], t)
		if err != nil {
			return fmt.Errorf("updating template %s: %w", args[0], err)
		}
		if jsonOutput {
			return printJSON(updated)
		}
		fmt.Fprintf(stdout, "Updated template %s\n", ui.RenderAccent(updated.ID))
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <template-id>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmed(cmd, "Delete template "+args[0]+"?") {
			fmt.Fprintln(os.Stderr, "aborted")
			return nil
		}
		if err := api.DeleteTemplate(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting template %s: %w", args[0], err)
		}
		fmt.Fprintf(stdout, "Deleted template %s\n", args[0])
		return nil
	},
}

func init() {
	addJobFlags(jobCreateCmd)
	addJobFlags(jobUpdateCmd)
	jobDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	jobCmd.AddCommand(jobCreateCmd)
	jobCmd.AddCommand(jobListCmd)
	jobCmd.AddCommand(jobShowCmd)
	jobCmd.AddCommand(jobUpdateCmd)
	jobCmd.AddCommand(jobDeleteCmd)

	addTemplateFlags(templateCreateCmd)
	addTemplateFlags(templateUpdateCmd)
	templateDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateUpdateCmd)
	templateCmd.AddCommand(templateDeleteCmd)
}
