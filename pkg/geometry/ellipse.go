// Package geometry converts dispersion statistics into renderable map
// geometry and color encodings. Everything here is pure computation.
package geometry

import (
	"math"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/models"
)

// kmPerDegree is the meridian arc length of one degree of latitude.
const kmPerDegree = 111.32

// DefaultRingPoints is the sample count used when the caller passes 0.
const DefaultRingPoints = 64

// EllipseRing samples the ellipse boundary into a closed lat/lon ring.
//
// The unit circle is sampled at pointCount equally spaced angles, scaled by
// the semi-axes, rotated from "clockwise from north" azimuth into the
// mathematical frame (mathAngle = 90 - azimuth) and projected onto degrees
// with a local equirectangular approximation. The approximation is only valid
// for ellipses small relative to Earth's radius (tens of kilometers), which
// covers every dispersion footprint the service produces.
//
// The ring is explicitly closed (last vertex repeats the first) and
// degenerates to a ring of identical points when both axes are zero.
func EllipseRing(e models.DispersionEllipse, pointCount int) []models.GeoPoint {
	if pointCount <= 0 {
		pointCount = DefaultRingPoints
	}

	rot := (90 - e.AzimuthDeg) * math.Pi / 180
	sinRot, cosRot := math.Sin(rot), math.Cos(rot)
	cosLat := math.Cos(e.CenterLat * math.Pi / 180)

	ring := make([]models.GeoPoint, 0, pointCount+1)
	for i := 0; i < pointCount; i++ {
		t := 2 * math.Pi * float64(i) / float64(pointCount)

		// Offsets in km, east/north before rotation.
		x0 := e.SemiMajorKm * math.Cos(t)
		y0 := e.SemiMinorKm * math.Sin(t)
		x := x0*cosRot - y0*sinRot
		y := x0*sinRot + y0*cosRot

		ring = append(ring, models.GeoPoint{
			Lat: e.CenterLat + y/kmPerDegree,
			Lon: e.CenterLon + x/(kmPerDegree*cosLat),
		})
	}
	ring = append(ring, ring[0])
	return ring
}

// RingCentroid averages the ring vertices, skipping the closing duplicate.
// Used for labeling and as a sanity check against the ellipse center.
func RingCentroid(ring []models.GeoPoint) models.GeoPoint {
	n := len(ring)
	if n == 0 {
		return models.GeoPoint{}
	}
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	var lat, lon float64
	for _, p := range ring[:n] {
		lat += p.Lat
		lon += p.Lon
	}
	return models.GeoPoint{Lat: lat / float64(n), Lon: lon / float64(n)}
}
