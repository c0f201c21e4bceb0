package preview

import (
	"strconv"
	"strings"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// Fingerprint condenses the trajectory-relevant subset of the configuration
// into a comparable key. Iterations and the GPU flag are deliberately
// excluded: they do not affect a single deterministic trajectory, so edits
// touching only them must not trigger a preview fetch.
func Fingerprint(cfg models.SimulationConfiguration) string {
	fields := []string{
		f(cfg.LaunchLat),
		f(cfg.LaunchLon),
		f(cfg.Azimuth),
		f(cfg.SepAltitude),
		f(cfg.SepVelocity),
		f(cfg.SepFPAngle),
		f(cfg.SepAzimuth),
		f(cfg.RocketDryMass),
		f(cfg.RocketRefArea),
		cfg.TargetDate.Format("2006-01-02"),
	}
	return strings.Join(fields, "|")
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
