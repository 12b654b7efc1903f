package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/hiredesk/internal/client"
	"github.com/alfredjeanlab/hiredesk/internal/config"
	"github.com/alfredjeanlab/hiredesk/internal/events"
	"github.com/alfredjeanlab/hiredesk/internal/ui"
)

var (
	apiURL     string
	jsonOutput bool
	verbose    bool

	cfg       *config.Config
	logger    = slog.New(slog.NewTextHandler(io.Discard, nil))
	api       *client.HTTPClient
	publisher events.Publisher = events.NoopPublisher{}

	// closers run after every command, most recent first.
	closers []func() error
)

var rootCmd = &cobra.Command{
	Use:           "hd <command>",
	Short:         "Command-line client for the HireDesk recruiting platform",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd); err != nil {
			return err
		}
		api = client.NewHTTPClient(cfg.APIURL, cfg.Token,
			client.WithTimeout(cfg.HTTPTimeout),
			client.WithLogger(logger),
		)
		publisher = newPublisher()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Debug("close failed", "err", err)
			}
		}
		closers = nil
	},
}

// setup loads configuration, applies the active remote and the --api-url
// flag, and configures logging and color. It does not touch the network.
func setup(cmd *cobra.Command) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	remotes, err := config.LoadRemotes()
	if err != nil {
		return err
	}
	if r, ok := remotes.Current(); ok {
		_, explicit := os.LookupEnv(config.Prefix + "_API_URL")
		c.ApplyRemote(r, explicit)
	}
	if cmd.Flags().Changed("api-url") {
		c.APIURL = apiURL
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c
	logger = cfg.NewLogger(verbose)

	ui.Setup()
	if jsonOutput {
		ui.ForceNoColor()
	}
	return nil
}

// newPublisher connects to NATS when an events URL is configured. A failed
// connection degrades to a no-op publisher.
func newPublisher() events.Publisher {
	if !cfg.EventsEnabled() {
		return events.NoopPublisher{}
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		logger.Warn("events disabled", "nats_url", cfg.NATSURL, "err", err)
		return events.NoopPublisher{}
	}
	closers = append(closers, pub.Close)
	return pub
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "HireDesk API base URL (overrides "+config.Prefix+"_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddGroup(
		&cobra.Group{ID: "candidates", Title: "Candidates:"},
		&cobra.Group{ID: "pipeline", Title: "Pipeline:"},
		&cobra.Group{ID: "jobs", Title: "Jobs:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Candidates
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(revealCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(bsearchCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(exportCmd)

	// Pipeline
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(advanceCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(detailCmd)

	// Jobs
	rootCmd.AddCommand(jobCmd)
	rootCmd.AddCommand(templateCmd)

	// Views
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(creditsCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
