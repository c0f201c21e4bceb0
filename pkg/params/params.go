// Package params defines the operator-editable parameter schema for a
// dispersion run and turns raw parameter maps into a configuration.
package params

import (
	"fmt"
	"strconv"
	"time"

	"github.com/oapi-codegen/runtime/types"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/zones"
)

// Parameter describes one configurable run parameter.
type Parameter struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"` // integer, float, string, boolean, date
	Description string      `yaml:"description"`
	Default     interface{} `yaml:"default"`
	Required    bool        `yaml:"required"`
	Min         interface{} `yaml:"min,omitempty"`
	Max         interface{} `yaml:"max,omitempty"`
	Options     []string    `yaml:"options,omitempty"`
}

// RunParameters is the prompt schema for an interactive run. Zone selection
// comes first; when a named zone is chosen the launch and separation
// parameters are taken from the preset and not prompted.
func RunParameters() []Parameter {
	zoneOptions := []string{"manual"}
	for _, z := range zones.Builtin() {
		zoneOptions = append(zoneOptions, z.ID)
	}

	return []Parameter{
		{Name: "zone_id", Type: "string", Description: "Drop zone preset", Default: "manual", Options: zoneOptions},
		{Name: "iterations", Type: "integer", Description: "Monte Carlo iterations", Default: 1000, Required: true, Min: 10, Max: 1000000},
		{Name: "use_gpu", Type: "boolean", Description: "Use GPU acceleration", Default: false},
		{Name: "target_date", Type: "date", Description: "Imagery target date (YYYY-MM-DD)", Default: time.Now().UTC().Format("2006-01-02")},
		{Name: "hurricane_mode", Type: "boolean", Description: "High-variance (hurricane) mode", Default: false},
		{Name: "cloud_cover", Type: "float", Description: "Max cloud cover [0,1]", Default: 0.3, Min: 0.0, Max: 1.0},
	}
}

// ManualParameters extends RunParameters with the launch and separation
// fields prompted only in manual mode.
func ManualParameters() []Parameter {
	return []Parameter{
		{Name: "launch_lat", Type: "float", Description: "Launch latitude (deg)", Default: 45.72341, Min: -90.0, Max: 90.0},
		{Name: "launch_lon", Type: "float", Description: "Launch longitude (deg)", Default: 63.32275, Min: -180.0, Max: 180.0},
		{Name: "azimuth", Type: "float", Description: "Launch azimuth (deg from north)", Default: 45.0, Min: 0.0, Max: 360.0},
		{Name: "sep_altitude", Type: "float", Description: "Separation altitude (m)", Default: 46000.0},
		{Name: "sep_velocity", Type: "float", Description: "Separation velocity (m/s)", Default: 1780.0},
		{Name: "sep_fp_angle", Type: "float", Description: "Separation flight-path angle (deg)", Default: 25.3},
		{Name: "sep_azimuth", Type: "float", Description: "Separation relative azimuth (deg)", Default: 0.0},
		{Name: "rocket_dry_mass", Type: "float", Description: "Stage dry mass (kg)", Default: 3800.0},
		{Name: "rocket_ref_area", Type: "float", Description: "Reference area (m^2)", Default: 11.2},
	}
}

// BuildConfiguration turns a raw parameter map into a run configuration,
// starting from defaults. Numeric coercion is deliberately permissive: a
// malformed numeric value becomes 0 at this boundary rather than rejecting
// the whole configuration.
func BuildConfiguration(raw map[string]interface{}) (models.SimulationConfiguration, error) {
	cfg := models.DefaultConfiguration()

	if id := asString(raw["zone_id"]); id != "" && id != "manual" {
		zone, err := zones.Lookup(id)
		if err != nil {
			return cfg, err
		}
		zones.Apply(zone, &cfg)
	} else {
		setFloat(raw, "launch_lat", &cfg.LaunchLat)
		setFloat(raw, "launch_lon", &cfg.LaunchLon)
		setFloat(raw, "azimuth", &cfg.Azimuth)
		setFloat(raw, "sep_altitude", &cfg.SepAltitude)
		setFloat(raw, "sep_velocity", &cfg.SepVelocity)
		setFloat(raw, "sep_fp_angle", &cfg.SepFPAngle)
		setFloat(raw, "sep_azimuth", &cfg.SepAzimuth)
		setFloat(raw, "rocket_dry_mass", &cfg.RocketDryMass)
		setFloat(raw, "rocket_ref_area", &cfg.RocketRefArea)
	}

	if v, ok := raw["iterations"]; ok {
		cfg.Iterations = int(coerceFloat(v))
	}
	if cfg.Iterations <= 0 {
		return cfg, fmt.Errorf("iterations must be positive, got %d", cfg.Iterations)
	}
	if v, ok := raw["use_gpu"].(bool); ok {
		cfg.UseGPU = v
	}
	if v, ok := raw["hurricane_mode"].(bool); ok {
		cfg.HurricaneMode = v
	}
	setFloat(raw, "cloud_cover", &cfg.CloudCover)

	if s := asString(raw["target_date"]); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return cfg, fmt.Errorf("invalid target date %q: %w", s, err)
		}
		cfg.TargetDate = types.Date{Time: t}
	}

	return cfg, nil
}

func setFloat(raw map[string]interface{}, key string, dst *float64) {
	if v, ok := raw[key]; ok {
		*dst = coerceFloat(v)
	}
}

// coerceFloat converts any scalar to float64, defaulting to 0 on failure.
func coerceFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
