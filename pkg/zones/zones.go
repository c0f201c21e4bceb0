// Package zones holds the named, pre-surveyed drop-zone presets. Selecting a
// zone makes its launch and separation values authoritative over the manual
// fields of the configuration.
package zones

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// Zone is a pre-surveyed drop-zone preset.
type Zone struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Region string `yaml:"region"`

	LaunchLat float64 `yaml:"launch_lat"`
	LaunchLon float64 `yaml:"launch_lon"`
	Azimuth   float64 `yaml:"azimuth"`

	SepAltitude float64 `yaml:"sep_altitude"`
	SepVelocity float64 `yaml:"sep_velocity"`
	SepFPAngle  float64 `yaml:"sep_fp_angle"`
	SepAzimuth  float64 `yaml:"sep_azimuth"`

	RocketDryMass float64 `yaml:"rocket_dry_mass"`
	RocketRefArea float64 `yaml:"rocket_ref_area"`
}

// Builtin returns the presets shipped with the client, sorted by ID.
func Builtin() []Zone {
	zones := []Zone{
		{
			ID:            "yu25",
			Name:          "Yu-25",
			Region:        "Ulytau, Kazakhstan",
			LaunchLat:     45.72341,
			LaunchLon:     63.32275,
			Azimuth:       34.2,
			SepAltitude:   46000,
			SepVelocity:   1780,
			SepFPAngle:    25.3,
			SepAzimuth:    0,
			RocketDryMass: 3800,
			RocketRefArea: 11.2,
		},
		{
			ID:            "zone-120",
			Name:          "Zone 120",
			Region:        "Altai Republic, Russia",
			LaunchLat:     45.72341,
			LaunchLon:     63.32275,
			Azimuth:       64.5,
			SepAltitude:   42000,
			SepVelocity:   1650,
			SepFPAngle:    23.8,
			SepAzimuth:    1.4,
			RocketDryMass: 4100,
			RocketRefArea: 12.6,
		},
		{
			ID:            "zone-306",
			Name:          "Zone 306",
			Region:        "Karaganda, Kazakhstan",
			LaunchLat:     45.92861,
			LaunchLon:     63.34222,
			Azimuth:       48.7,
			SepAltitude:   44000,
			SepVelocity:   1720,
			SepFPAngle:    24.6,
			SepAzimuth:    -0.8,
			RocketDryMass: 3950,
			RocketRefArea: 11.8,
		},
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	return zones
}

// Lookup finds a builtin zone by ID.
func Lookup(id string) (Zone, error) {
	for _, z := range Builtin() {
		if z.ID == id {
			return z, nil
		}
	}
	return Zone{}, fmt.Errorf("unknown drop zone %q", id)
}

// Apply copies the preset values onto the configuration and marks it as
// zone-driven. Manual edits to these fields are meaningless until the zone
// is cleared.
func Apply(z Zone, cfg *models.SimulationConfiguration) {
	cfg.ZoneID = z.ID
	cfg.LaunchLat = z.LaunchLat
	cfg.LaunchLon = z.LaunchLon
	cfg.Azimuth = z.Azimuth
	cfg.SepAltitude = z.SepAltitude
	cfg.SepVelocity = z.SepVelocity
	cfg.SepFPAngle = z.SepFPAngle
	cfg.SepAzimuth = z.SepAzimuth
	cfg.RocketDryMass = z.RocketDryMass
	cfg.RocketRefArea = z.RocketRefArea
}

// Clear returns the configuration to manual mode, leaving the field values
// in place as a starting point for edits.
func Clear(cfg *models.SimulationConfiguration) {
	cfg.ZoneID = ""
}

// zoneFile is the YAML shape of an operator-provided preset file.
type zoneFile struct {
	Zones []Zone `yaml:"zones"`
}

// LoadFile reads additional presets from a YAML file.
func LoadFile(path string) ([]Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}

	var file zoneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse zones file: %w", err)
	}
	for i, z := range file.Zones {
		if z.ID == "" {
			return nil, fmt.Errorf("zone %d has no id", i)
		}
	}
	return file.Zones, nil
}
