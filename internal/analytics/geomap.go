package analytics

import (
	"cmp"
	"math"
	"slices"

	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// Marker is one map point: every incident of one district at one exact
// coordinate.
type Marker struct {
	District      string  `json:"district"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Count         int     `json:"count"`
	Deaths        int     `json:"deaths"`
	Injuries      int     `json:"injuries"`
	ChildDeaths   int     `json:"child_deaths"`
	ChildInjuries int     `json:"child_injuries"`
}

// Extent describes the spread of plotted incidents.
type Extent struct {
	MinLat  float64 `json:"min_lat"`
	MaxLat  float64 `json:"max_lat"`
	MeanLat float64 `json:"mean_lat"`
	MinLon  float64 `json:"min_lon"`
	MaxLon  float64 `json:"max_lon"`
	MeanLon float64 `json:"mean_lon"`
}

// MapReport holds the markers of every incident with coordinates.
type MapReport struct {
	Markers []Marker      `json:"markers"`
	Plotted int           `json:"plotted"`
	Total   int           `json:"total"`
	Extent  *Extent       `json:"extent,omitempty"`
	Notes   []domain.Note `json:"notes,omitempty"`
}

type markerKey struct {
	district string
	lat, lon float64
}

func compareMarkerKeys(a, b markerKey) int {
	return cmp.Or(
		cmp.Compare(a.district, b.district),
		cmp.Compare(a.lat, b.lat),
		cmp.Compare(a.lon, b.lon),
	)
}

// MapMarkers groups incidents by (district, lat, lon). Records without
// coordinates are left out of the map only.
func MapMarkers(records []domain.Record) MapReport {
	rep := MapReport{Markers: []Marker{}, Total: len(records)}

	index := make(map[markerKey]int)
	ext := Extent{MinLat: math.Inf(1), MaxLat: math.Inf(-1), MinLon: math.Inf(1), MaxLon: math.Inf(-1)}
	var sumLat, sumLon float64
	for i := range records {
		rec := &records[i]
		if rec.Geo == nil {
			continue
		}
		rep.Plotted++
		lat, lon := rec.Geo.Lat, rec.Geo.Lon
		sumLat += lat
		sumLon += lon
		ext.MinLat, ext.MaxLat = min(ext.MinLat, lat), max(ext.MaxLat, lat)
		ext.MinLon, ext.MaxLon = min(ext.MinLon, lon), max(ext.MaxLon, lon)

		k := markerKey{district: rec.District, lat: lat, lon: lon}
		j, ok := index[k]
		if !ok {
			j = len(rep.Markers)
			index[k] = j
			rep.Markers = append(rep.Markers, Marker{District: k.district, Lat: lat, Lon: lon})
		}
		m := &rep.Markers[j]
		m.Count++
		m.Deaths += rec.TotalDeaths
		m.Injuries += rec.TotalInjuries
		m.ChildDeaths += rec.DeathsChild
		m.ChildInjuries += rec.InjuriesChild
	}

	if rep.Plotted == 0 {
		rep.Notes = append(rep.Notes, domain.Warnf(domain.CodeNoCoordinates,
			"none of %d records has valid coordinates", len(records)))
		return rep
	}

	sortMarkers(rep.Markers)
	ext.MeanLat = sumLat / float64(rep.Plotted)
	ext.MeanLon = sumLon / float64(rep.Plotted)
	rep.Extent = &ext
	if rep.Plotted < rep.Total {
		rep.Notes = append(rep.Notes, domain.Infof(domain.CodeUnresolvedGeo,
			"showing %d of %d records", rep.Plotted, rep.Total))
	}
	return rep
}

func sortMarkers(ms []Marker) {
	key := func(m Marker) markerKey { return markerKey{district: m.District, lat: m.Lat, lon: m.Lon} }
	slices.SortFunc(ms, func(a, b Marker) int { return compareMarkerKeys(key(a), key(b)) })
}
