package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/hiredesk/internal/export"
	"github.com/alfredjeanlab/hiredesk/internal/model"
	"github.com/alfredjeanlab/hiredesk/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export filtered candidates as CSV or XLSX",
	GroupID: "candidates",
	Long: `Export the filtered candidate list to the export directory and, when
HIREDESK_EXPORT_S3_BUCKET is set, to S3.

With --interval (or HIREDESK_EXPORT_INTERVAL) the export repeats until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		formatName, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		q, err := resolveCandidateQuery(cmd)
		if err != nil {
			return err
		}

		dir := cfg.Export.Dir
		if cmd.Flags().Changed("dir") {
			dir, _ = cmd.Flags().GetString("dir")
		}
		interval := cfg.Export.Interval
		if cmd.Flags().Changed("interval") {
			interval, _ = cmd.Flags().GetDuration("interval")
		}
		if interval < 0 {
			return errors.New("--interval must not be negative")
		}
		noLocal, _ := cmd.Flags().GetBool("no-local")

		dests, err := exportDestinations(ctx, dir, noLocal)
		if err != nil {
			return err
		}

		source := func(ctx context.Context) ([]*model.Candidate, error) {
			return fetchVisible(ctx, newDashboard(), q)
		}
		exporter := export.NewExporter(source, format, dests, publisher, logger)

		if interval == 0 {
			res, err := exporter.Run(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(res)
			}
			fmt.Fprintf(stdout, "Exported %d candidates as %s:\n", res.Rows, res.Format)
			for _, loc := range res.Locations {
				fmt.Fprintf(stdout, "  %s\n", ui.RenderAccent(loc))
			}
			return nil
		}

		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched := export.NewScheduler(exporter, interval, logger)
		sched.Start()
		fmt.Fprintf(os.Stderr, "Exporting every %s (Ctrl-C to stop)\n", interval)
		<-sigCtx.Done()
		sched.Stop()
		return nil
	},
}

func exportDestinations(ctx context.Context, dir string, noLocal bool) ([]export.Destination, error) {
	var dests []export.Destination
	if !noLocal {
		dests = append(dests, export.NewFileDestination(dir))
	}
	if cfg.Export.S3Bucket != "" {
		s3d, err := export.NewS3Destination(ctx, cfg.Export.S3Bucket, cfg.Export.S3Prefix, cfg.Export.S3Region, cfg.Export.S3Endpoint)
		if err != nil {
			return nil, err
		}
		dests = append(dests, s3d)
	}
	if len(dests) == 0 {
		return nil, errors.New("no export destination: drop --no-local or set HIREDESK_EXPORT_S3_BUCKET")
	}
	return dests, nil
}

func init() {
	addQueryFlags(exportCmd)
	exportCmd.Flags().String("format", "csv", "csv or xlsx")
	exportCmd.Flags().String("dir", "", "local export directory (overrides HIREDESK_EXPORT_DIR)")
	exportCmd.Flags().Bool("no-local", false, "skip the local file, upload only")
	exportCmd.Flags().Duration("interval", 0, "repeat the export on this interval")
}
