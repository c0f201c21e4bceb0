// Package mocksim synthesizes a structurally valid dispersion result set
// when the remote compute service is unavailable. Shapes are deterministic
// (cardinalities, populated fields), values are randomized within fixed
// bands; callers exercise the same progress-reporting path as a real job.
package mocksim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

const (
	// One synthetic impact sample per ten requested Monte Carlo iterations.
	samplesPerIteration = 10

	// Probability that a sample is classified as a fragment.
	fragmentProbability = 0.35

	gridSize    = 10
	cellSizeDeg = 0.05

	kmPerDegree = 111.32
)

// Axis bands in kilometers. Primary is always the larger footprint.
const (
	primaryMajorMinKm = 10.0
	primaryMajorMaxKm = 16.0
	primaryMinorMinKm = 4.0
	primaryMinorMaxKm = 7.0

	fragmentMajorMinKm = 5.0
	fragmentMajorMaxKm = 9.0
	fragmentMinorMinKm = 2.0
	fragmentMinorMaxKm = 4.0
)

// Generator produces demo-mode result sets.
type Generator struct {
	rng *rand.Rand

	// Latency emulates network round-trip time so the controller drives the
	// same progress sequence as a remote job.
	Latency time.Duration
}

// New creates a generator seeded from the clock.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed creates a generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{
		rng:     rand.New(rand.NewSource(seed)),
		Latency: 1200 * time.Millisecond,
	}
}

// Generate synthesizes a full result set for the configuration: exactly
// iterations/10 impact points, two dispersion ellipses (primary larger than
// fragment) and a fixed 10x10 OTU grid with composite scores in [0.1, 0.95].
func (g *Generator) Generate(ctx context.Context, cfg models.SimulationConfiguration) (*models.RunResult, error) {
	if g.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.Latency):
		}
	}

	primary := g.makeEllipse(cfg, primaryMajorMinKm, primaryMajorMaxKm, primaryMinorMinKm, primaryMinorMaxKm, 0)
	fragment := g.makeEllipse(cfg, fragmentMajorMinKm, fragmentMajorMaxKm, fragmentMinorMinKm, fragmentMinorMaxKm, 14)

	points := g.makeImpactPoints(cfg, primary, fragment)
	grid := g.makeGrid(primary)

	return &models.RunResult{
		PrimaryEllipse:  primary,
		FragmentEllipse: fragment,
		Points:          points,
		Grid:            grid,
		Stats:           summarize(cfg.Iterations, points, grid),
	}, nil
}

// makeEllipse places a dispersion ellipse downrange of the launch point with
// axis lengths drawn from the given bands.
func (g *Generator) makeEllipse(cfg models.SimulationConfiguration, majorMin, majorMax, minorMin, minorMax, extraDownrangeKm float64) models.DispersionEllipse {
	downrange := 85 + g.rng.Float64()*30 + extraDownrangeKm
	center := offsetPoint(cfg.LaunchLat, cfg.LaunchLon, cfg.Azimuth, downrange, 0)

	spread := 1.0
	if cfg.HurricaneMode {
		spread = 1.6
	}

	return models.DispersionEllipse{
		CenterLat:   center.Lat,
		CenterLon:   center.Lon,
		SemiMajorKm: (majorMin + g.rng.Float64()*(majorMax-majorMin)) * spread,
		SemiMinorKm: (minorMin + g.rng.Float64()*(minorMax-minorMin)) * spread,
		AzimuthDeg:  math.Mod(cfg.Azimuth+g.rng.Float64()*10-5+360, 360),
	}
}

// makeImpactPoints draws iterations/10 samples from a 2-D Gaussian
// (Box-Muller), scaled per classification and centered on the matching
// ellipse.
func (g *Generator) makeImpactPoints(cfg models.SimulationConfiguration, primary, fragment models.DispersionEllipse) []models.ImpactPoint {
	count := cfg.Iterations / samplesPerIteration
	if count < 0 {
		count = 0
	}
	points := make([]models.ImpactPoint, 0, count)

	for i := 0; i < count; i++ {
		isFragment := g.rng.Float64() < fragmentProbability
		e := primary
		if isFragment {
			e = fragment
		}

		// 3-sigma footprint: one sigma is a third of the semi-axis.
		z0, z1 := g.boxMuller()
		down := z0 * e.SemiMajorKm / 3
		cross := z1 * e.SemiMinorKm / 3

		pos := offsetPoint(e.CenterLat, e.CenterLon, e.AzimuthDeg, down, cross)
		points = append(points, models.ImpactPoint{
			ID:           fmt.Sprintf("impact-%s", uuid.NewString()[:8]),
			Lat:          pos.Lat,
			Lon:          pos.Lon,
			Fragment:     isFragment,
			DownrangeKm:  distanceKm(cfg.LaunchLat, cfg.LaunchLon, pos.Lat, pos.Lon),
			CrossrangeKm: cross,
			VelocityMS:   60 + g.rng.Float64()*140,
		})
	}
	return points
}

// makeGrid builds the fixed 10x10 OTU grid around the primary footprint.
// Composite scores are a weighted sum of the sub-indices plus bounded noise,
// clamped into [0.1, 0.95].
func (g *Generator) makeGrid(primary models.DispersionEllipse) []models.OTUCell {
	cells := make([]models.OTUCell, 0, gridSize*gridSize)
	originLat := primary.CenterLat - cellSizeDeg*gridSize/2
	originLon := primary.CenterLon - cellSizeDeg*gridSize/2

	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			lat := originLat + float64(row)*cellSizeDeg
			lon := originLon + float64(col)*cellSizeDeg

			indices := map[string]float64{
				models.IndexVegetation:   g.rng.Float64(),
				models.IndexSoilStrength: g.rng.Float64(),
				models.IndexBonitet:      g.rng.Float64(),
				models.IndexRelief:       g.rng.Float64(),
				models.IndexFireRisk:     g.rng.Float64(),
			}

			score := 0.3*indices[models.IndexVegetation] +
				0.25*indices[models.IndexSoilStrength] +
				0.2*indices[models.IndexBonitet] +
				0.15*indices[models.IndexRelief] +
				0.1*(1-indices[models.IndexFireRisk]) +
				(g.rng.Float64()*0.1 - 0.05)
			score = clamp(score, 0.1, 0.95)

			cells = append(cells, models.OTUCell{
				ID:      fmt.Sprintf("cell-%d-%d", row, col),
				Ring:    cellRing(lat, lon),
				Indices: indices,
				Score:   score,
			})
		}
	}
	return cells
}

// boxMuller transforms two uniform samples into two independent standard
// normal samples.
func (g *Generator) boxMuller() (float64, float64) {
	u1 := g.rng.Float64()
	u2 := g.rng.Float64()
	for u1 <= 1e-12 {
		u1 = g.rng.Float64()
	}
	r := math.Sqrt(-2 * math.Log(u1))
	return r * math.Cos(2*math.Pi*u2), r * math.Sin(2*math.Pi*u2)
}

// offsetPoint moves downrange/crossrange kilometers along an azimuth from a
// lat/lon origin using the same local equirectangular approximation as the
// geometry package.
func offsetPoint(lat, lon, azimuthDeg, downKm, crossKm float64) models.GeoPoint {
	az := azimuthDeg * math.Pi / 180
	north := downKm*math.Cos(az) - crossKm*math.Sin(az)
	east := downKm*math.Sin(az) + crossKm*math.Cos(az)
	return models.GeoPoint{
		Lat: lat + north/kmPerDegree,
		Lon: lon + east/(kmPerDegree*math.Cos(lat*math.Pi/180)),
	}
}

func distanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * kmPerDegree
	dLon := (lon2 - lon1) * kmPerDegree * math.Cos(lat1*math.Pi/180)
	return math.Hypot(dLat, dLon)
}

func cellRing(lat, lon float64) []models.GeoPoint {
	return []models.GeoPoint{
		{Lat: lat, Lon: lon},
		{Lat: lat, Lon: lon + cellSizeDeg},
		{Lat: lat + cellSizeDeg, Lon: lon + cellSizeDeg},
		{Lat: lat + cellSizeDeg, Lon: lon},
		{Lat: lat, Lon: lon},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func summarize(iterations int, points []models.ImpactPoint, grid []models.OTUCell) models.RunStats {
	stats := models.RunStats{Iterations: iterations}

	var downSum float64
	for _, p := range points {
		if p.Fragment {
			stats.FragmentCount++
		} else {
			stats.PrimaryCount++
		}
		downSum += p.DownrangeKm
		if p.DownrangeKm > stats.MaxDownrangeKm {
			stats.MaxDownrangeKm = p.DownrangeKm
		}
	}
	if len(points) > 0 {
		stats.MeanDownrangeKm = downSum / float64(len(points))
	}

	var scoreSum float64
	for _, c := range grid {
		scoreSum += c.Score
	}
	if len(grid) > 0 {
		stats.MeanOTUScore = scoreSum / float64(len(grid))
	}
	return stats
}
