package analytics_test

import (
	"github.com/couchcryptid/fire-incident-analytics/internal/analytics"
	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// incident builds a normalized record with the given year and district and
// sensible defaults for everything else.
func incident(year int, district string, opts ...func(*domain.Record)) domain.Record {
	r := domain.Record{
		District:   district,
		Settlement: domain.Unspecified,
		ObjectType: domain.Unspecified,
		Year:       year,
		Month:      1,
		DateKnown:  true,
		Category:   domain.CauseUnspecified,
	}
	for _, o := range opts {
		o(&r)
	}
	r.TotalDeaths = r.DeathsAdult + r.DeathsChild
	r.TotalInjuries = r.InjuriesAdult + r.InjuriesChild
	return r
}

func deaths(adult, child int) func(*domain.Record) {
	return func(r *domain.Record) { r.DeathsAdult, r.DeathsChild = adult, child }
}

func injuries(adult, child int) func(*domain.Record) {
	return func(r *domain.Record) { r.InjuriesAdult, r.InjuriesChild = adult, child }
}

func cause(c domain.CauseCategory) func(*domain.Record) {
	return func(r *domain.Record) { r.Category = c }
}

func object(o string) func(*domain.Record) {
	return func(r *domain.Record) { r.ObjectType = o }
}

func month(m int) func(*domain.Record) {
	return func(r *domain.Record) { r.Month = m }
}

func at(lat, lon float64) func(*domain.Record) {
	return func(r *domain.Record) { r.Geo = &domain.GeoPoint{Lat: lat, Lon: lon} }
}

func keys(rows []analytics.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Key)
	}
	return out
}

func noteCodes(notes []domain.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Code)
	}
	return out
}
