// Package report renders completed run results for the operator terminal.
package report

import (
	"fmt"
	"sort"

	"github.com/fatih/color"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/geometry"
	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// Color definitions
var (
	colorHeader = color.New(color.FgCyan, color.Bold)
	colorLabel  = color.New(color.FgCyan)
	colorGood   = color.New(color.FgGreen)
	colorMid    = color.New(color.FgYellow)
	colorBad    = color.New(color.FgRed)
	colorDim    = color.New(color.FgHiBlack)
)

// PrintRunSummary renders a completed run: job identity, ellipse geometry,
// impact statistics and the OTU score distribution.
func PrintRunSummary(res *models.RunResult) {
	colorHeader.Println("══════════════════════════════════════════════════")
	colorHeader.Printf(" Dispersion Run %s\n", res.JobID)
	colorHeader.Println("══════════════════════════════════════════════════")

	printEllipse("Primary stage", res.PrimaryEllipse)
	printEllipse("Fragment field", res.FragmentEllipse)

	colorLabel.Println("\nImpact samples:")
	fmt.Printf("  total %d (primary %d, fragment %d)\n",
		len(res.Points), res.Stats.PrimaryCount, res.Stats.FragmentCount)
	fmt.Printf("  downrange mean %.1f km, max %.1f km\n",
		res.Stats.MeanDownrangeKm, res.Stats.MaxDownrangeKm)

	printGrid(res.Grid, res.Stats.MeanOTUScore)
}

func printEllipse(name string, e models.DispersionEllipse) {
	colorLabel.Printf("\n%s ellipse:\n", name)
	fmt.Printf("  center %.5f, %.5f\n", e.CenterLat, e.CenterLon)
	fmt.Printf("  semi-axes %.1f x %.1f km, azimuth %.1f°\n",
		e.SemiMajorKm, e.SemiMinorKm, e.AzimuthDeg)
}

// printGrid shows the OTU score distribution in three stability buckets,
// each line carrying the gradient hex color a map renderer would use.
func printGrid(grid []models.OTUCell, mean float64) {
	if len(grid) == 0 {
		return
	}

	var low, mid, high int
	for _, c := range grid {
		switch {
		case c.Score < 0.4:
			low++
		case c.Score < 0.7:
			mid++
		default:
			high++
		}
	}

	colorLabel.Printf("\nOTU grid (%d cells, mean score %.2f):\n", len(grid), mean)
	colorBad.Printf("  low    (<0.40): %3d cells  %s\n", low, geometry.ScoreColor(0.2).Hex())
	colorMid.Printf("  medium (<0.70): %3d cells  %s\n", mid, geometry.ScoreColor(0.55).Hex())
	colorGood.Printf("  high   (≥0.70): %3d cells  %s\n", high, geometry.ScoreColor(0.85).Hex())
}

// PrintPreview renders a trajectory preview as a sampled table ending at the
// nominal impact point.
func PrintPreview(p *models.TrajectoryPreview) {
	colorHeader.Println("Nominal trajectory")

	step := 1
	if len(p.Path) > 12 {
		step = len(p.Path) / 12
	}
	fmt.Printf("%10s %11s %11s %10s %10s\n", "t (s)", "lat", "lon", "alt (m)", "vel (m/s)")
	for i := 0; i < len(p.Path); i += step {
		pt := p.Path[i]
		fmt.Printf("%10.1f %11.5f %11.5f %10.0f %10.1f\n", pt.Time, pt.Lat, pt.Lon, pt.Alt, pt.Velocity)
	}
	colorLabel.Printf("impact point: %.5f, %.5f\n", p.ImpactPoint.Lat, p.ImpactPoint.Lon)
}

// PrintCells lists the worst cells for quick triage, lowest score first.
func PrintCells(grid []models.OTUCell, limit int) {
	cells := make([]models.OTUCell, len(grid))
	copy(cells, grid)
	sort.Slice(cells, func(i, j int) bool { return cells[i].Score < cells[j].Score })

	if limit > len(cells) {
		limit = len(cells)
	}
	colorLabel.Printf("\nLowest-stability cells:\n")
	for _, c := range cells[:limit] {
		line := fmt.Sprintf("  %-12s score %.2f  %s", c.ID, c.Score, geometry.ScoreColor(c.Score).Hex())
		if len(c.Missing) > 0 {
			line += colorDim.Sprintf("  (defaulted: %v)", c.Missing)
		}
		fmt.Println(line)
	}
}
