package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/controller"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/logger"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/mocksim"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/params"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/report"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/utils"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a dispersion simulation",
	Long: `Run a Monte Carlo dispersion simulation interactively or from a
parameters file. Falls back to a locally synthesized demo result when
the remote service is unavailable.`,
	RunE: runSimulation,
}

func init() {
	runCmd.Flags().StringP("params", "p", "", "parameters file (YAML)")
	runCmd.Flags().Int("worst-cells", 5, "number of lowest-stability cells to list")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	cfg, err := buildRunConfiguration(cmd)
	if err != nil {
		return err
	}

	cli, err := newServiceClient()
	if err != nil {
		return err
	}

	bar := logger.NewProgressBar(100, "Simulation")
	ctrl := controller.New(cli, mocksim.New(), controller.Options{
		OnUpdate: func(job controller.Job) {
			bar.Update(job.Progress)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("\nReceived interrupt signal, abandoning run...")
		cancel()
	}()

	logger.LogSection(fmt.Sprintf("Dispersion run: %d iterations", cfg.Iterations))
	handle := ctrl.StartRun(ctx, cfg)
	<-handle.Done()

	job, result, err := handle.Outcome()
	bar.Finish()
	if err != nil {
		// The failure message is the service's own wording when it gave one.
		logger.Errorf("Run %s failed: %s", job.ID, job.Error)
		return fmt.Errorf("simulation failed: %s", job.Error)
	}

	if job.Demo {
		logger.Network("Result synthesized locally (demo mode)")
	}
	logger.Successf("Run %s completed", job.ID)

	report.PrintRunSummary(result)
	if n, _ := cmd.Flags().GetInt("worst-cells"); n > 0 {
		report.PrintCells(result.Grid, n)
	}
	return nil
}

// buildRunConfiguration reads the parameters file when given, otherwise
// prompts interactively. Zone presets suppress the manual launch prompts.
func buildRunConfiguration(cmd *cobra.Command) (models.SimulationConfiguration, error) {
	paramsFile, _ := cmd.Flags().GetString("params")

	if paramsFile != "" {
		data, err := os.ReadFile(paramsFile)
		if err != nil {
			return models.SimulationConfiguration{}, fmt.Errorf("failed to read parameters file: %w", err)
		}
		raw := make(map[string]interface{})
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return models.SimulationConfiguration{}, fmt.Errorf("failed to parse parameters file: %w", err)
		}
		return params.BuildConfiguration(raw)
	}

	raw, err := utils.PromptForParameters(params.RunParameters())
	if err != nil {
		return models.SimulationConfiguration{}, fmt.Errorf("failed to get parameters: %w", err)
	}

	if zone, _ := raw["zone_id"].(string); zone == "" || zone == "manual" {
		manual, err := utils.PromptForParameters(params.ManualParameters())
		if err != nil {
			return models.SimulationConfiguration{}, fmt.Errorf("failed to get launch parameters: %w", err)
		}
		for k, v := range manual {
			raw[k] = v
		}
	}

	return params.BuildConfiguration(raw)
}
