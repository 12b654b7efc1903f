package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/hiredesk/internal/events"
	"github.com/alfredjeanlab/hiredesk/internal/model"
	"github.com/alfredjeanlab/hiredesk/internal/store"
	"github.com/alfredjeanlab/hiredesk/internal/ui"
)

var viewCmd = &cobra.Command{
	Use:     "view",
	Short:   "Manage saved candidate views (requires HIREDESK_DATABASE_URL)",
	GroupID: "views",
}

func loadView(ctx context.Context, ref string) (*model.View, error) {
	s, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	v, err := s.GetView(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("view %q not found", ref)
	}
	return v, err
}

var viewSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the given filters as a named view, replacing any view of that name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := args[0]
		if err := model.ValidateViewName(name); err != nil {
			return err
		}
		criteria, err := criteriaFromFlags(cmd, model.FilterCriteria{})
		if err != nil {
			return err
		}
		cols, _ := cmd.Flags().GetStringSlice("columns")
		if err := validateColumns(cols); err != nil {
			return err
		}
		job, _ := cmd.Flags().GetString("job")

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		v := &model.View{Name: name, JobID: job, Criteria: criteria, Columns: cols}
		if err := s.SaveView(ctx, v); err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(v)
		}
		fmt.Fprintf(stdout, "Saved view %s (%s)\n", ui.RenderAccent(v.Name), v.ID)
		return nil
	},
}

var viewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved views",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		views, err := s.ListViews(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(views)
		}
		if len(views) == 0 {
			fmt.Fprintln(stdout, "no saved views")
			return nil
		}
		printViews(views)
		return nil
	},
}

var viewShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show a saved view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadView(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(v)
		}
		printView(v)
		return nil
	},
}

var viewRunCmd = &cobra.Command{
	Use:   "run <id-or-name>",
	Short: "List the candidates matching a saved view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cmd.Flags().Set("view", args[0]); err != nil {
			return err
		}
		return listCmd.RunE(cmd, nil)
	},
}

var viewDeleteCmd = &cobra.Command{
	Use:   "delete <id-or-name>",
	Short: "Delete a saved view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		if err := s.DeleteView(ctx, args[0]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("view %q not found", args[0])
			}
			return err
		}
		fmt.Fprintf(stdout, "Deleted view %s\n", args[0])
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:     "watch [topic]",
	Short:   "Stream pipeline, reveal, note and export activity",
	GroupID: "views",
	Long: `Stream activity events from the event bus until interrupted.
The topic defaults to all HireDesk events; NATS wildcards are allowed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.EventsEnabled() {
			return errors.New("events are not configured: set HIREDESK_NATS_URL or add a remote with --nats")
		}
		topic := events.TopicAll
		if len(args) == 1 {
			topic = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sub, err := events.NewNATSSubscriber(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		msgs, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return err
		}
		defer cancel()

		fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", topic)
		return streamEvents(ctx, msgs)
	},
}

// streamEvents prints each message until ctx ends or msgs closes.
func streamEvents(ctx context.Context, msgs <-chan events.Message) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			if jsonOutput {
				v, err := m.Decode()
				if err != nil {
					logger.Warn("undecodable event", "topic", m.Topic, "err", err)
					continue
				}
				if err := printJSON(map[string]any{"topic": m.Topic, "event": v}); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(stdout, "%s  %s\n", ui.RenderMuted(m.Topic), m.Summary())
		}
	}
}

func init() {
	addCriteriaFlags(viewSaveCmd)
	viewSaveCmd.Flags().String("job", "", "scope the view to one job")
	viewSaveCmd.Flags().StringSlice("columns", nil, "table columns for list output")

	addQueryFlags(viewRunCmd)
	viewRunCmd.Flags().Int("offset", 0, "pagination offset")
	viewRunCmd.Flags().StringSlice("columns", nil, "override the view's columns")

	viewCmd.AddCommand(viewSaveCmd)
	viewCmd.AddCommand(viewListCmd)
	viewCmd.AddCommand(viewShowCmd)
	viewCmd.AddCommand(viewRunCmd)
	viewCmd.AddCommand(viewDeleteCmd)
}
