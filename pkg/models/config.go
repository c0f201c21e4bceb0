package models

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
)

// SimulationConfiguration holds every operator-editable parameter for a
// dispersion run. The JSON tags match the request body of
// POST /api/simulation/run exactly.
//
// When ZoneID is set, the launch and separation fields carry the zone preset
// values and are not operator-editable; manual mode (empty ZoneID) is the only
// mode in which they are.
type SimulationConfiguration struct {
	// Monte Carlo sample count. Must be positive.
	Iterations int  `json:"iterations"`
	UseGPU     bool `json:"use_gpu"`

	// Launch site and ascent azimuth, degrees clockwise from true north.
	LaunchLat float64 `json:"launch_lat"`
	LaunchLon float64 `json:"launch_lon"`
	Azimuth   float64 `json:"azimuth"`

	// Imagery acquisition date for the OTU layer, plus an optional range.
	TargetDate types.Date  `json:"target_date"`
	DateStart  *types.Date `json:"date_start,omitempty"`
	DateEnd    *types.Date `json:"date_end,omitempty"`

	// Stage separation state: altitude (m), inertial velocity (m/s),
	// flight-path angle (deg) and azimuth relative to launch azimuth (deg).
	SepAltitude float64 `json:"sep_altitude"`
	SepVelocity float64 `json:"sep_velocity"`
	SepFPAngle  float64 `json:"sep_fp_angle"`
	SepAzimuth  float64 `json:"sep_azimuth"`

	// Named drop-zone preset. Empty means manual mode.
	ZoneID string `json:"zone_id,omitempty"`

	RocketDryMass float64 `json:"rocket_dry_mass,omitempty"`
	RocketRefArea float64 `json:"rocket_ref_area,omitempty"`

	// HurricaneMode widens atmospheric dispersion bands server-side.
	HurricaneMode bool `json:"hurricane_mode,omitempty"`

	// Maximum acceptable cloud cover for imagery selection, [0,1].
	CloudCover float64 `json:"cloud_cover,omitempty"`
}

// PreviewRequest is the body of POST /api/simulation/preview: the run
// configuration minus the Monte Carlo fields (iterations and GPU flag),
// which do not affect a single nominal trajectory. Everything else carries
// over unchanged.
type PreviewRequest struct {
	LaunchLat     float64     `json:"launch_lat"`
	LaunchLon     float64     `json:"launch_lon"`
	Azimuth       float64     `json:"azimuth"`
	TargetDate    types.Date  `json:"target_date"`
	DateStart     *types.Date `json:"date_start,omitempty"`
	DateEnd       *types.Date `json:"date_end,omitempty"`
	SepAltitude   float64     `json:"sep_altitude"`
	SepVelocity   float64     `json:"sep_velocity"`
	SepFPAngle    float64     `json:"sep_fp_angle"`
	SepAzimuth    float64     `json:"sep_azimuth"`
	ZoneID        string      `json:"zone_id,omitempty"`
	RocketDryMass float64     `json:"rocket_dry_mass,omitempty"`
	RocketRefArea float64     `json:"rocket_ref_area,omitempty"`
	HurricaneMode bool        `json:"hurricane_mode,omitempty"`
	CloudCover    float64     `json:"cloud_cover,omitempty"`
}

// PreviewRequest derives the preview body from the full configuration.
func (c SimulationConfiguration) PreviewRequest() PreviewRequest {
	return PreviewRequest{
		LaunchLat:     c.LaunchLat,
		LaunchLon:     c.LaunchLon,
		Azimuth:       c.Azimuth,
		TargetDate:    c.TargetDate,
		DateStart:     c.DateStart,
		DateEnd:       c.DateEnd,
		SepAltitude:   c.SepAltitude,
		SepVelocity:   c.SepVelocity,
		SepFPAngle:    c.SepFPAngle,
		SepAzimuth:    c.SepAzimuth,
		ZoneID:        c.ZoneID,
		RocketDryMass: c.RocketDryMass,
		RocketRefArea: c.RocketRefArea,
		HurricaneMode: c.HurricaneMode,
		CloudCover:    c.CloudCover,
	}
}

// DefaultConfiguration returns the session-start configuration: a Baikonur
// launch with a typical first-stage separation state.
func DefaultConfiguration() SimulationConfiguration {
	return SimulationConfiguration{
		Iterations:    1000,
		UseGPU:        false,
		LaunchLat:     45.72341,
		LaunchLon:     63.32275,
		Azimuth:       45,
		TargetDate:    types.Date{Time: time.Now().UTC().Truncate(24 * time.Hour)},
		SepAltitude:   46000,
		SepVelocity:   1780,
		SepFPAngle:    25.3,
		SepAzimuth:    0,
		RocketDryMass: 3800,
		RocketRefArea: 11.2,
		CloudCover:    0.3,
	}
}
