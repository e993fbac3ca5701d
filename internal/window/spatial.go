package window

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/nadc-tools/inquire/internal/filter"
)

// pointBuffer widens a point selection into a small window on either side.
const pointBuffer = 0.1

// SpatialWindow is a closed lon/lat rectangle. A nil window means no spatial
// predicate is emitted at all.
type SpatialWindow struct {
	LonMin, LonMax float64
	LatMin, LatMax float64
}

// ResolveSpatial turns the optional lon/lat ranges of a filter into a
// bounding window. Longitudes above 180 are normalized into (-180,180] by
// 360-subtraction; a singleton value is buffered into a point window. When
// only one axis is supplied the other spans the full globe, so a valid
// closed polygon can always be built.
func ResolveSpatial(lon, lat *filter.Range) *SpatialWindow {
	if lon == nil && lat == nil {
		return nil
	}

	w := &SpatialWindow{LonMin: -180, LonMax: 180, LatMin: -90, LatMax: 90}
	if lon != nil {
		lo, hi := normalizeLon(lon.Min), normalizeLon(lon.Max)
		if lon.Point() {
			lo, hi = lo-pointBuffer, lo+pointBuffer
		}
		w.LonMin, w.LonMax = lo, hi
	}
	if lat != nil {
		lo, hi := lat.Min, lat.Max
		if lat.Point() {
			lo, hi = lo-pointBuffer, lo+pointBuffer
		}
		w.LatMin, w.LatMax = lo, hi
	}
	return w
}

func normalizeLon(v float64) float64 {
	if v > 180 {
		return v - 360
	}
	return v
}

// Polygon builds the closed 5-point ring covering the window. The winding
// order starts at (LonMax, LatMin) to match the stored tile geometries.
func (w *SpatialWindow) Polygon() orb.Polygon {
	return orb.Polygon{orb.Ring{
		{w.LonMax, w.LatMin},
		{w.LonMax, w.LatMax},
		{w.LonMin, w.LatMax},
		{w.LonMin, w.LatMin},
		{w.LonMax, w.LatMin},
	}}
}

// WKT renders the window polygon as well-known text.
func (w *SpatialWindow) WKT() string {
	return wkt.MarshalString(w.Polygon())
}
