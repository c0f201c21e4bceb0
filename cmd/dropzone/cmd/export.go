package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/logger"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

var exportCmd = &cobra.Command{
	Use:   "export <job-id>",
	Short: "Export a completed run as a report",
	Long: `Submit an asynchronous report generation task for a completed run,
poll it to completion and download the artifact.`,
	Args: cobra.ExactArgs(1),
	RunE: exportRun,
}

func init() {
	exportCmd.Flags().String("format", "pdf", "report format (pdf, geojson, csv)")
	exportCmd.Flags().StringP("output", "o", "", "output file (default <job-id>.<format>)")
	exportCmd.Flags().Duration("poll-interval", 2*time.Second, "task poll interval")
}

func exportRun(cmd *cobra.Command, args []string) error {
	jobID := args[0]
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	pollInterval, _ := cmd.Flags().GetDuration("poll-interval")
	if output == "" {
		output = fmt.Sprintf("%s.%s", jobID, format)
	}

	cli, err := newServiceClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	task, err := cli.SubmitExport(ctx, models.ExportRequest{JobID: jobID, Format: format})
	if err != nil {
		return fmt.Errorf("failed to start export: %w", err)
	}
	logger.Progressf("Export task %s submitted", task.TaskID)

	spinner := logger.NewSpinner("Generating report...")
	spinner.Start()
	for !task.Status.Terminal() {
		time.Sleep(pollInterval)
		task, err = cli.ExportStatus(ctx, task.TaskID)
		if err != nil {
			spinner.Stop()
			return fmt.Errorf("failed to poll export task: %w", err)
		}
		spinner.UpdateMessage(fmt.Sprintf("Generating report... %.0f%%", task.Progress))
	}
	spinner.Stop()

	if task.Status == models.JobFailed {
		msg := task.Error
		if msg == "" {
			msg = "export failed"
		}
		return fmt.Errorf("export task %s failed: %s", task.TaskID, msg)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Errorf("failed to close output file: %v", err)
		}
	}()

	n, err := cli.DownloadExport(ctx, task.TaskID, f)
	if err != nil {
		return err
	}

	logger.Successf("Report written to %s (%d bytes)", output, n)
	return nil
}
