package models

// DispersionEllipse is the 3-sigma statistical footprint of predicted impact
// scatter. AzimuthDeg is the semi-major axis orientation measured clockwise
// from true north.
type DispersionEllipse struct {
	CenterLat   float64 `json:"center_lat"`
	CenterLon   float64 `json:"center_lon"`
	SemiMajorKm float64 `json:"semi_major_km"`
	SemiMinorKm float64 `json:"semi_minor_km"`
	AzimuthDeg  float64 `json:"azimuth_deg"`
}

// ImpactPoint is one Monte Carlo impact sample.
type ImpactPoint struct {
	ID           string  `json:"id"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Fragment     bool    `json:"fragment"`
	DownrangeKm  float64 `json:"downrange_km"`
	CrossrangeKm float64 `json:"crossrange_km,omitempty"`
	VelocityMS   float64 `json:"velocity_ms,omitempty"`
}

// Names of the OTU sub-indices as they appear in cell properties.
const (
	IndexVegetation   = "vegetation"
	IndexSoilStrength = "soil_strength"
	IndexBonitet      = "bonitet"
	IndexRelief       = "relief"
	IndexFireRisk     = "fire_risk"
)

// OTUCell is one cell of the ecological-stability grid. Ring is a closed
// lon-ordered polygon boundary. Indices holds the named sub-indices, each
// normalized to [0,1]; Missing lists index names that were unavailable at the
// service and therefore defaulted.
type OTUCell struct {
	ID      string
	Ring    []GeoPoint
	Indices map[string]float64
	Score   float64
	Missing []string
}

// RunStats is the summary block of a completed job.
type RunStats struct {
	Iterations      int     `json:"iterations"`
	PrimaryCount    int     `json:"primary_count"`
	FragmentCount   int     `json:"fragment_count"`
	MeanDownrangeKm float64 `json:"mean_downrange_km"`
	MaxDownrangeKm  float64 `json:"max_downrange_km"`
	MeanOTUScore    float64 `json:"mean_otu_score"`
}

// FullResult is the wire payload of GET /api/results/{job_id}. Impact points
// and OTU cells arrive as GeoJSON FeatureCollections.
type FullResult struct {
	PrimaryEllipse  DispersionEllipse  `json:"primary_ellipse"`
	FragmentEllipse DispersionEllipse  `json:"fragment_ellipse"`
	ImpactPoints    FeatureCollection  `json:"impact_points"`
	OTUGrid         FeatureCollection  `json:"otu_grid"`
	Boundaries      *FeatureCollection `json:"boundaries,omitempty"`
	Stats           RunStats           `json:"stats"`
	Error           string             `json:"error,omitempty"`
}

// RunResult is the decoded, render-ready form of a completed job shared by
// the remote and demo paths.
type RunResult struct {
	JobID           string
	PrimaryEllipse  DispersionEllipse
	FragmentEllipse DispersionEllipse
	Points          []ImpactPoint
	Grid            []OTUCell
	Stats           RunStats
}

// ToRunResult decodes the GeoJSON collections into typed slices.
func (r *FullResult) ToRunResult(jobID string) (*RunResult, error) {
	points, err := r.ImpactPoints.ImpactPointList()
	if err != nil {
		return nil, err
	}
	grid, err := r.OTUGrid.OTUCellList()
	if err != nil {
		return nil, err
	}
	return &RunResult{
		JobID:           jobID,
		PrimaryEllipse:  r.PrimaryEllipse,
		FragmentEllipse: r.FragmentEllipse,
		Points:          points,
		Grid:            grid,
		Stats:           r.Stats,
	}, nil
}
