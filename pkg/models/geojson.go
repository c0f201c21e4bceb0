package models

import (
	"encoding/json"
	"fmt"
)

// Minimal GeoJSON support for the shapes the results endpoint produces:
// FeatureCollections of Points (impact samples) and Polygons (OTU cells).

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON Feature with untyped properties.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry defers coordinate decoding until the geometry type is known.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Point decodes a Point geometry. GeoJSON coordinate order is [lon, lat].
func (g Geometry) Point() (GeoPoint, error) {
	if g.Type != "Point" {
		return GeoPoint{}, fmt.Errorf("expected Point geometry, got %q", g.Type)
	}
	var coords []float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return GeoPoint{}, fmt.Errorf("failed to decode point coordinates: %w", err)
	}
	if len(coords) < 2 {
		return GeoPoint{}, fmt.Errorf("point has %d coordinates, need 2", len(coords))
	}
	return GeoPoint{Lat: coords[1], Lon: coords[0]}, nil
}

// PolygonRing decodes the outer ring of a Polygon geometry.
func (g Geometry) PolygonRing() ([]GeoPoint, error) {
	if g.Type != "Polygon" {
		return nil, fmt.Errorf("expected Polygon geometry, got %q", g.Type)
	}
	var rings [][][]float64
	if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
		return nil, fmt.Errorf("failed to decode polygon coordinates: %w", err)
	}
	if len(rings) == 0 {
		return nil, fmt.Errorf("polygon has no rings")
	}
	ring := make([]GeoPoint, 0, len(rings[0]))
	for _, v := range rings[0] {
		if len(v) < 2 {
			return nil, fmt.Errorf("polygon vertex has %d coordinates, need 2", len(v))
		}
		ring = append(ring, GeoPoint{Lat: v[1], Lon: v[0]})
	}
	return ring, nil
}

// ImpactPointList converts a FeatureCollection of Points into impact samples.
func (fc FeatureCollection) ImpactPointList() ([]ImpactPoint, error) {
	points := make([]ImpactPoint, 0, len(fc.Features))
	for i, f := range fc.Features {
		pos, err := f.Geometry.Point()
		if err != nil {
			return nil, fmt.Errorf("impact point feature %d: %w", i, err)
		}
		points = append(points, ImpactPoint{
			ID:           f.stringProp("id"),
			Lat:          pos.Lat,
			Lon:          pos.Lon,
			Fragment:     f.boolProp("fragment"),
			DownrangeKm:  f.floatProp("downrange_km"),
			CrossrangeKm: f.floatProp("crossrange_km"),
			VelocityMS:   f.floatProp("velocity_ms"),
		})
	}
	return points, nil
}

// OTUCellList converts a FeatureCollection of Polygons into grid cells.
// A cell with a malformed geometry aborts the conversion; missing sub-index
// properties do not, they are recorded on the cell instead.
func (fc FeatureCollection) OTUCellList() ([]OTUCell, error) {
	cells := make([]OTUCell, 0, len(fc.Features))
	for i, f := range fc.Features {
		ring, err := f.Geometry.PolygonRing()
		if err != nil {
			return nil, fmt.Errorf("otu cell feature %d: %w", i, err)
		}
		cell := OTUCell{
			ID:      f.stringProp("id"),
			Ring:    ring,
			Indices: make(map[string]float64),
			Score:   f.floatProp("otu_score"),
		}
		for _, name := range []string{IndexVegetation, IndexSoilStrength, IndexBonitet, IndexRelief, IndexFireRisk} {
			v, ok := f.Properties[name]
			if !ok {
				continue
			}
			if fv, ok := toFloat(v); ok {
				cell.Indices[name] = fv
			}
		}
		cell.Missing = stringSliceProp(f.Properties, "missing_indices")
		cells = append(cells, cell)
	}
	return cells, nil
}

func (f Feature) stringProp(key string) string {
	if v, ok := f.Properties[key].(string); ok {
		return v
	}
	return ""
}

func (f Feature) boolProp(key string) bool {
	if v, ok := f.Properties[key].(bool); ok {
		return v
	}
	return false
}

func (f Feature) floatProp(key string) float64 {
	if v, ok := toFloat(f.Properties[key]); ok {
		return v
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func stringSliceProp(props map[string]interface{}, key string) []string {
	raw, ok := props[key].([]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
