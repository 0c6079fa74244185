package domain

import (
	"math"
	"strconv"
	"strings"
)

// Axis order chosen when resolving a coordinate pair.
type AxisOrder int

const (
	AxisUnresolved AxisOrder = iota
	AxisLatLon               // first token is latitude
	AxisLonLat               // first token is longitude
)

func isLat(v float64) bool { return v >= -90 && v <= 90 }
func isLon(v float64) bool { return v >= -180 && v <= 180 }

// DisambiguateAxes decides which of a and b is the latitude. The lat-first
// reading is tried first and wins whenever both readings are valid.
func DisambiguateAxes(a, b float64) (GeoPoint, AxisOrder) {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return GeoPoint{}, AxisUnresolved
	}
	switch {
	case isLat(a) && isLon(b):
		return GeoPoint{Lat: a, Lon: b}, AxisLatLon
	case isLat(b) && isLon(a):
		return GeoPoint{Lat: b, Lon: a}, AxisLonLat
	default:
		return GeoPoint{}, AxisUnresolved
	}
}

// ParseGeoPoint parses a combined "a b" coordinate string. It returns false
// when the string has fewer than two numeric tokens or neither axis order
// yields a valid pair. Tokens beyond the second are ignored.
func ParseGeoPoint(raw string) (GeoPoint, AxisOrder, bool) {
	tokens := strings.Fields(raw)
	if len(tokens) < 2 {
		return GeoPoint{}, AxisUnresolved, false
	}
	a, errA := strconv.ParseFloat(tokens[0], 64)
	b, errB := strconv.ParseFloat(tokens[1], 64)
	if errA != nil || errB != nil {
		return GeoPoint{}, AxisUnresolved, false
	}
	p, order := DisambiguateAxes(a, b)
	return p, order, order != AxisUnresolved
}

// ResolveCoordinates sets Geo on every record whose raw coordinate string
// resolves. Unresolved records keep a nil Geo and stay in every non-map
// aggregation.
func ResolveCoordinates(f *Frame, diag *Diagnostics) {
	if !f.HasColumn(ColGeoRaw) {
		diag.Geo.Unresolved = len(f.Records)
		diag.AddNote(Infof(CodeNoGeoColumn, "no geopoint column found, map is unavailable"))
		return
	}

	for i := range f.Records {
		r := &f.Records[i]
		p, order, ok := ParseGeoPoint(r.GeoRaw)
		if !ok {
			diag.Geo.Unresolved++
			continue
		}
		r.Geo = &p
		diag.Geo.Resolved++
		if order == AxisLonLat {
			diag.Geo.Swapped++
		}
	}

	if diag.Geo.Unresolved > 0 {
		diag.AddNote(Warnf(CodeUnresolvedGeo,
			"%d of %d records have no valid coordinates", diag.Geo.Unresolved, len(f.Records)))
	}
}
