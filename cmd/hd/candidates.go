package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/hiredesk/internal/client"
	"github.com/alfredjeanlab/hiredesk/internal/dashboard"
	"github.com/alfredjeanlab/hiredesk/internal/model"
	"github.com/alfredjeanlab/hiredesk/internal/ui"
)

// candidateQuery is what list and export resolve their flags into.
type candidateQuery struct {
	req      client.ListCandidatesRequest
	criteria model.FilterCriteria
	columns  []string
}

// resolveCandidateQuery builds the backend request and local criteria from
// an optional saved view overlaid with explicit flags.
func resolveCandidateQuery(cmd *cobra.Command) (*candidateQuery, error) {
	ctx := cmd.Context()
	q := &candidateQuery{}

	if ref, _ := cmd.Flags().GetString("view"); ref != "" {
		v, err := loadView(ctx, ref)
		if err != nil {
			return nil, err
		}
		q.criteria = v.Criteria
		q.req.JobID = v.JobID
		q.columns = v.Columns
	}

	criteria, err := criteriaFromFlags(cmd, q.criteria)
	if err != nil {
		return nil, err
	}
	q.criteria = criteria

	if cmd.Flags().Changed("job") {
		q.req.JobID, _ = cmd.Flags().GetString("job")
	}
	q.req.Search, _ = cmd.Flags().GetString("search")
	q.req.Limit, _ = cmd.Flags().GetInt("limit")
	if cmd.Flags().Lookup("offset") != nil {
		q.req.Offset, _ = cmd.Flags().GetInt("offset")
	}
	return q, nil
}

// fetchVisible loads candidates into app and applies the criteria.
func fetchVisible(ctx context.Context, app *dashboard.App, q *candidateQuery) ([]*model.Candidate, error) {
	if err := app.Refresh(ctx, &q.req); err != nil {
		return nil, err
	}
	app.SetCriteria(q.criteria)
	return app.Visible(), nil
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List candidates, filtered locally by the given criteria",
	GroupID: "candidates",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := resolveCandidateQuery(cmd)
		if err != nil {
			return err
		}
		if cols, _ := cmd.Flags().GetStringSlice("columns"); len(cols) > 0 {
			q.columns = cols
		}
		if err := validateColumns(q.columns); err != nil {
			return err
		}

		app := newDashboard()
		visible, err := fetchVisible(cmd.Context(), app, q)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(visible)
		}
		printCandidateTable(visible, q.columns, len(app.Candidates()))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show <candidate-id>",
	Short:   "Show a candidate profile with notes",
	GroupID: "candidates",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDetail(cmd.Context(), newDashboard(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]any{"candidate": d.Candidate, "notes": d.Notes})
		}
		printCandidate(d.Candidate, d.Notes)
		return nil
	},
}

// loadDetail selects id through the dashboard. Candidates outside the
// first page of results are fetched directly.
func loadDetail(ctx context.Context, app *dashboard.App, id string) (*dashboard.Detail, error) {
	if err := app.Refresh(ctx, nil); err != nil {
		return nil, err
	}
	if d, err := app.Select(ctx, id); err == nil {
		return d, nil
	} else if app.Selected() != nil {
		return nil, err
	}

	cand, err := api.GetCandidate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate %s: %w", id, err)
	}
	notes, err := api.ListNotes(ctx, id)
	if err != nil {
		logger.Warn("fetching notes failed", "candidate_id", id, "err", err)
	}
	return &dashboard.Detail{Candidate: cand, Notes: notes}, nil
}

var revealCmd = &cobra.Command{
	Use:     "reveal <candidate-id>",
	Short:   "Spend credits to unlock a candidate's contact details",
	GroupID: "candidates",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id := args[0]
		yes, _ := cmd.Flags().GetBool("yes")
		app := newDashboard()

		if !yes {
			if !ui.IsInteractive() {
				return errors.New("revealing spends credits; pass --yes to confirm non-interactively")
			}
			prompt := "Reveal contact details for " + id + "?"
			if credits, err := app.RefreshCredits(ctx); err == nil {
				prompt = fmt.Sprintf("Reveal contact details for %s? This costs %d credits (balance %d).",
					id, credits.RevealCost, credits.Balance)
			}
			if !ui.Confirm(os.Stdin, os.Stderr, prompt) {
				fmt.Fprintln(os.Stderr, "aborted")
				return nil
			}
		}

		cand, err := app.Reveal(ctx, id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]any{"candidate": cand, "credits": app.Credits()})
		}
		printCandidate(cand, nil)
		if c := app.Credits(); c != nil {
			fmt.Fprintf(stdout, "\nCredits remaining: %d\n", c.Balance)
		}
		return nil
	},
}

var noteCmd = &cobra.Command{
	Use:     "note <candidate-id> <text...>",
	Short:   "Add a note to a candidate",
	GroupID: "candidates",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := newDashboard().AddNote(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(note)
		}
		fmt.Fprintf(stdout, "Added note %s to %s\n", ui.RenderAccent(note.ID), args[0])
		return nil
	},
}

var bsearchCmd = &cobra.Command{
	Use:     "bsearch <query...>",
	Short:   "Run a boolean search, e.g. 'python AND (aws OR gcp) NOT intern'",
	GroupID: "candidates",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newDashboard()
		if err := app.BooleanSearch(cmd.Context(), strings.Join(args, " ")); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(app.Visible())
		}
		printCandidateTable(app.Visible(), nil, app.Total())
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:     "verify <candidate-id>",
	Short:   "Request a background verification",
	GroupID: "candidates",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := newDashboard().VerifyBackground(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(v)
		}
		fmt.Fprintf(stdout, "Background verification for %s: %s\n", args[0], v.Status)
		return nil
	},
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "backend search text")
	cmd.Flags().String("job", "", "limit to candidates who applied to this job")
	cmd.Flags().Int("limit", 0, "maximum candidates to fetch (0 = server default)")
	cmd.Flags().String("view", "", "start from a saved view (ID or name)")
	addCriteriaFlags(cmd)
}

func init() {
	addQueryFlags(listCmd)
	listCmd.Flags().Int("offset", 0, "pagination offset")
	listCmd.Flags().StringSlice("columns", nil, "table columns (e.g. id,name,email)")

	revealCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
