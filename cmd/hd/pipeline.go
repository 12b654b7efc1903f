package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/hiredesk/internal/pipeline"
	"github.com/alfredjeanlab/hiredesk/internal/ui"
)

func jobFlag(cmd *cobra.Command) (string, error) {
	job, _ := cmd.Flags().GetString("job")
	if job == "" {
		return "", fmt.Errorf("--job is required")
	}
	return job, nil
}

// locate loads the job's board and selects the stage holding applicationID.
// With a non-empty stage only that stage is searched.
func locate(ctx context.Context, b *pipeline.Board, jobID, stage, applicationID string) error {
	if err := b.Load(ctx, jobID); err != nil {
		return err
	}
	stages := b.Stages()
	if stage != "" {
		if err := b.SelectStage(ctx, stage); err != nil {
			return err
		}
		if hasApplication(b, applicationID) {
			return nil
		}
		return fmt.Errorf("application %s is not in stage %s", applicationID, stage)
	}
	for _, s := range stages {
		if err := b.SelectStage(ctx, s.Slug); err != nil {
			return err
		}
		if hasApplication(b, applicationID) {
			return nil
		}
	}
	return fmt.Errorf("application %s not found in job %s", applicationID, jobID)
}

func hasApplication(b *pipeline.Board, id string) bool {
	for _, a := range b.Applications() {
		if a.ID == id {
			return true
		}
	}
	return false
}

var stagesCmd = &cobra.Command{
	Use:     "stages",
	Short:   "List a job's pipeline stages with candidate counts",
	GroupID: "pipeline",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := jobFlag(cmd)
		if err != nil {
			return err
		}
		b := newBoard()
		if err := b.Load(cmd.Context(), job); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(b.Stages())
		}
		printStages(b.Stages(), "")
		return nil
	},
}

var boardCmd = &cobra.Command{
	Use:     "board",
	Short:   "Show the applications in one pipeline stage",
	GroupID: "pipeline",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		job, err := jobFlag(cmd)
		if err != nil {
			return err
		}
		b := newBoard()
		if err := b.Load(ctx, job); err != nil {
			return err
		}
		if stage, _ := cmd.Flags().GetString("stage"); stage != "" {
			if err := b.SelectStage(ctx, stage); err != nil {
				return err
			}
		}
		cur, ok := b.CurrentStage()
		if jsonOutput {
			return printJSON(map[string]any{"stages": b.Stages(), "current": cur.Slug, "applications": b.Applications()})
		}
		if !ok {
			fmt.Fprintln(stdout, "Job has no pipeline stages")
			return nil
		}
		printStages(b.Stages(), cur.Slug)
		fmt.Fprintf(stdout, "\n%s\n", ui.RenderAccent(cur.Name+":"))
		printApplications(b.Applications())
		return nil
	},
}

var advanceCmd = &cobra.Command{
	Use:     "advance <application-id>",
	Short:   "Move an application to the next stage",
	GroupID: "pipeline",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveApplication(cmd, args[0], (*pipeline.Board).Advance, "advanced", "already in the last stage")
	},
}

var archiveCmd = &cobra.Command{
	Use:     "archive <application-id>",
	Short:   "Move an application to the job's archive stage",
	GroupID: "pipeline",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveApplication(cmd, args[0], (*pipeline.Board).Archive, "archived", "job has no archive stage or application is already archived")
	},
}

func moveApplication(cmd *cobra.Command, id string, move func(*pipeline.Board, context.Context, string) (bool, error), done, noop string) error {
	ctx := cmd.Context()
	job, err := jobFlag(cmd)
	if err != nil {
		return err
	}
	stage, _ := cmd.Flags().GetString("stage")
	b := newBoard()
	if err := locate(ctx, b, job, stage, id); err != nil {
		return err
	}
	moved, err := move(b, ctx, id)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(map[string]any{"application_id": id, "moved": moved, "stages": b.Stages()})
	}
	if !moved {
		fmt.Fprintf(stdout, "Application %s unchanged: %s\n", id, noop)
		return nil
	}
	fmt.Fprintf(stdout, "Application %s %s\n", ui.RenderAccent(id), done)
	return nil
}

var detailCmd = &cobra.Command{
	Use:     "detail <application-id>",
	Short:   "Show an application's stage details and interview scores",
	GroupID: "pipeline",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		job, err := jobFlag(cmd)
		if err != nil {
			return err
		}
		stage, _ := cmd.Flags().GetString("stage")
		b := newBoard()
		if err := locate(ctx, b, job, stage, args[0]); err != nil {
			return err
		}
		app, err := b.Detail(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]any{"application": app, "stage_data": app.Data})
		}
		printApplicationDetail(app)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{stagesCmd, boardCmd, advanceCmd, archiveCmd, detailCmd} {
		c.Flags().String("job", "", "job ID (required)")
	}
	for _, c := range []*cobra.Command{boardCmd, advanceCmd, archiveCmd, detailCmd} {
		c.Flags().String("stage", "", "stage slug (default: first stage, or search all for an application)")
	}
}
