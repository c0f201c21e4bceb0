package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/client"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/logger"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/preview"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/report"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/zones"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Fetch the nominal trajectory preview",
	Long: `Fetch a single nominal trajectory (no Monte Carlo spread) for the
given configuration. Previews require the remote service; there is no
demo fallback for them.`,
	RunE: fetchPreview,
}

func init() {
	previewCmd.Flags().String("zone", "", "drop zone preset id")
	previewCmd.Flags().Float64("lat", 45.72341, "launch latitude (deg)")
	previewCmd.Flags().Float64("lon", 63.32275, "launch longitude (deg)")
	previewCmd.Flags().Float64("azimuth", 45, "launch azimuth (deg from north)")
	previewCmd.Flags().Float64("sep-altitude", 46000, "separation altitude (m)")
	previewCmd.Flags().Float64("sep-velocity", 1780, "separation velocity (m/s)")
	previewCmd.Flags().Float64("sep-fp-angle", 25.3, "separation flight-path angle (deg)")
	previewCmd.Flags().Float64("sep-azimuth", 0, "separation relative azimuth (deg)")
	previewCmd.Flags().BoolP("watch", "w", false, "interactive mode: edit parameters and refresh the preview")
}

func fetchPreview(cmd *cobra.Command, _ []string) error {
	cfg := models.DefaultConfiguration()

	if zoneID, _ := cmd.Flags().GetString("zone"); zoneID != "" {
		zone, err := zones.Lookup(zoneID)
		if err != nil {
			return err
		}
		zones.Apply(zone, &cfg)
	} else {
		cfg.LaunchLat, _ = cmd.Flags().GetFloat64("lat")
		cfg.LaunchLon, _ = cmd.Flags().GetFloat64("lon")
		cfg.Azimuth, _ = cmd.Flags().GetFloat64("azimuth")
		cfg.SepAltitude, _ = cmd.Flags().GetFloat64("sep-altitude")
		cfg.SepVelocity, _ = cmd.Flags().GetFloat64("sep-velocity")
		cfg.SepFPAngle, _ = cmd.Flags().GetFloat64("sep-fp-angle")
		cfg.SepAzimuth, _ = cmd.Flags().GetFloat64("sep-azimuth")
	}

	cli, err := newServiceClient()
	if err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchPreview(cli, cfg)
	}

	spinner := logger.NewSpinner("Computing nominal trajectory...")
	spinner.Start()
	p, err := cli.Preview(context.Background(), cfg)
	spinner.Stop()

	if err != nil {
		if client.IsTransport(err) {
			logger.Warn("Service unavailable; trajectory previews need the remote service")
		}
		return fmt.Errorf("preview failed: %w", err)
	}

	report.PrintPreview(p)
	return nil
}

// watchFields are the scheduler-relevant parameters editable in watch mode,
// in prompt order.
var watchFields = []struct {
	label string
	get   func(*models.SimulationConfiguration) *float64
}{
	{"Launch latitude (deg)", func(c *models.SimulationConfiguration) *float64 { return &c.LaunchLat }},
	{"Launch longitude (deg)", func(c *models.SimulationConfiguration) *float64 { return &c.LaunchLon }},
	{"Launch azimuth (deg)", func(c *models.SimulationConfiguration) *float64 { return &c.Azimuth }},
	{"Separation altitude (m)", func(c *models.SimulationConfiguration) *float64 { return &c.SepAltitude }},
	{"Separation velocity (m/s)", func(c *models.SimulationConfiguration) *float64 { return &c.SepVelocity }},
	{"Separation flight-path angle (deg)", func(c *models.SimulationConfiguration) *float64 { return &c.SepFPAngle }},
	{"Separation relative azimuth (deg)", func(c *models.SimulationConfiguration) *float64 { return &c.SepAzimuth }},
	{"Stage dry mass (kg)", func(c *models.SimulationConfiguration) *float64 { return &c.RocketDryMass }},
	{"Reference area (m^2)", func(c *models.SimulationConfiguration) *float64 { return &c.RocketRefArea }},
}

// watchPreview runs an edit loop over the trajectory parameters. Every edit
// goes through the debounced scheduler, so mashing through fields quickly
// costs one request, not one per edit.
func watchPreview(cli *client.Client, cfg models.SimulationConfiguration) error {
	sched := preview.NewScheduler(cli, preview.Options{
		OnPreview: func(p *models.TrajectoryPreview) {
			report.PrintPreview(p)
		},
		OnError: func(err error) {
			logger.Warnf("Preview refresh failed: %v (keeping last trajectory)", err)
		},
	})
	defer sched.Cancel()

	if !cli.Health(context.Background()) {
		sched.SetAvailable(false)
		logger.Warn("Service unavailable; trajectory previews need the remote service")
	}

	sched.Submit(cfg)

	options := make([]string, 0, len(watchFields)+1)
	for _, f := range watchFields {
		options = append(options, f.label)
	}
	options = append(options, "Quit")

	for {
		var choice string
		prompt := &survey.Select{
			Message:  "Edit parameter:",
			Options:  options,
			PageSize: len(options),
		}
		if err := survey.AskOne(prompt, &choice); err != nil {
			return err
		}
		if choice == "Quit" {
			return nil
		}

		for _, f := range watchFields {
			if f.label != choice {
				continue
			}
			dst := f.get(&cfg)
			var raw string
			input := &survey.Input{
				Message: choice + ":",
				Default: strconv.FormatFloat(*dst, 'f', -1, 64),
			}
			if err := survey.AskOne(input, &raw); err != nil {
				return err
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				logger.Warnf("Not a number: %q", raw)
				break
			}
			*dst = v
			sched.Submit(cfg)
			break
		}
	}
}
