package models

// GeoPoint is a bare latitude/longitude pair in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TrajectoryPoint is one sample of the nominal descent path.
type TrajectoryPoint struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Alt      float64 `json:"alt"`      // meters above ellipsoid
	Velocity float64 `json:"velocity"` // m/s
	Time     float64 `json:"time"`     // seconds after separation
}

// TrajectoryPreview is the response of POST /api/simulation/preview: an
// ordered path terminating at the predicted nominal impact point. A preview
// is always replaced wholesale, never merged with a previous one.
type TrajectoryPreview struct {
	Path        []TrajectoryPoint `json:"path"`
	ImpactPoint GeoPoint          `json:"impact_point"`
}
