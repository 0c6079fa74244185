package analytics

import (
	"slices"

	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// Default row limits used when a caller does not ask for one.
const (
	DefaultDistrictLimit = 10
	DefaultObjectLimit   = 10
	DefaultDeadlyLimit   = 5
	DefaultDynamicsSize  = 3

	knownCausesLimit   = 7
	mostlyUnknownShare = 80.0
)

// Metric is a headline figure with its change against the previous year.
type Metric struct {
	Value    int  `json:"value"`
	Delta    int  `json:"delta"`
	HasDelta bool `json:"has_delta"`
}

func metricOf(cur int, prev *int) Metric {
	if prev == nil {
		return Metric{Value: cur}
	}
	return Metric{Value: cur, Delta: cur - *prev, HasDelta: true}
}

// Headline summarizes the latest year of a dataset.
type Headline struct {
	Year             int    `json:"year"`
	Fires            Metric `json:"fires"`
	Deaths           Metric `json:"deaths"`
	Injuries         Metric `json:"injuries"`
	ChildrenAffected Metric `json:"children_affected"`
	ChildDeaths      int    `json:"child_deaths"`
	ChildInjuries    int    `json:"child_injuries"`
}

// YearlyReport is the per-year table and the latest-year headline.
type YearlyReport struct {
	Table  Table         `json:"table"`
	Latest *Headline     `json:"latest,omitempty"`
	Notes  []domain.Note `json:"notes,omitempty"`
}

// YearlyTrends groups records by year and compares the last year with the one
// before it in the table.
func YearlyTrends(records []domain.Record) YearlyReport {
	groups := groupBy(records, func(r *domain.Record) int { return r.Year })
	rep := YearlyReport{Table: ByYear(records)}
	if len(groups) == 0 {
		rep.Notes = append(rep.Notes, domain.Infof(domain.CodeInsufficient, "no records to report"))
		return rep
	}

	last := groups[len(groups)-1]
	h := &Headline{
		Year:          last.key,
		ChildDeaths:   last.row.ChildDeaths,
		ChildInjuries: last.row.ChildInjuries,
	}
	var prev *Row
	if len(groups) > 1 {
		prev = &groups[len(groups)-2].row
	} else {
		rep.Notes = append(rep.Notes, domain.Infof(domain.CodeInsufficient,
			"only %d is present; year-over-year deltas need two years", last.key))
	}
	pick := func(f func(Row) int) *int {
		if prev == nil {
			return nil
		}
		v := f(*prev)
		return &v
	}
	h.Fires = metricOf(last.row.Count, pick(func(r Row) int { return r.Count }))
	h.Deaths = metricOf(last.row.Deaths, pick(func(r Row) int { return r.Deaths }))
	h.Injuries = metricOf(last.row.Injuries, pick(func(r Row) int { return r.Injuries }))
	h.ChildrenAffected = metricOf(last.row.ChildDeaths+last.row.ChildInjuries,
		pick(func(r Row) int { return r.ChildDeaths + r.ChildInjuries }))
	rep.Latest = h
	return rep
}

// DistrictReport ranks districts by incident count.
type DistrictReport struct {
	Table         Table         `json:"table"`
	Districts     int           `json:"districts"`
	MeanFires     float64       `json:"mean_fires_per_district"`
	Deaths        int           `json:"deaths"`
	ChildDeaths   int           `json:"child_deaths"`
	ChildInjuries int           `json:"child_injuries"`
	Notes         []domain.Note `json:"notes,omitempty"`
}

// DistrictRanking returns the limit busiest districts. Shares are relative to
// every record in the dataset.
func DistrictRanking(records []domain.Record, limit int) DistrictReport {
	all := ByDistrict(records)
	rep := DistrictReport{Table: Rank(all).Top(limit), Districts: len(all.Rows)}
	for _, r := range all.Rows {
		rep.Deaths += r.Deaths
		rep.ChildDeaths += r.ChildDeaths
		rep.ChildInjuries += r.ChildInjuries
	}
	if rep.Districts > 0 {
		rep.MeanFires = round(float64(len(records))/float64(rep.Districts), 1)
	}
	if len(all.Rows) == 1 && all.Rows[0].Key == domain.Unspecified {
		rep.Notes = append(rep.Notes, domain.Infof(domain.CodeMissingColumn, "no record names a district"))
	}
	return rep
}

// CauseReport ranks cause categories by incident count.
type CauseReport struct {
	Table Table `json:"table"`
	// MostlyUnspecified is set when Unspecified leads the ranking with more
	// than 80% of incidents; KnownCauses then lists the leading known causes.
	MostlyUnspecified bool          `json:"mostly_unspecified"`
	KnownCauses       []Row         `json:"known_causes,omitempty"`
	Notes             []domain.Note `json:"notes,omitempty"`
}

// CauseBreakdown ranks cause categories.
func CauseBreakdown(records []domain.Record) CauseReport {
	rep := CauseReport{Table: Rank(ByCause(records))}
	rows := rep.Table.Rows
	if len(rows) < 2 || rows[0].Key != string(domain.CauseUnspecified) || rows[0].Share <= mostlyUnknownShare {
		return rep
	}
	known := rep.Table.Filter(func(r Row) bool { return r.Key != string(domain.CauseUnspecified) }).Top(knownCausesLimit)
	rep.MostlyUnspecified = true
	rep.KnownCauses = known.Rows
	rep.Notes = append(rep.Notes, domain.Infof(domain.CodeMostlyUnknown,
		"%.1f%% of incidents have no stated cause; known causes are listed separately", rows[0].Share))
	return rep
}

// DeadlyCauses lists the causes with at least one death.
type DeadlyCauses struct {
	ByDeaths    []Row         `json:"by_deaths"`
	ByMortality []Row         `json:"by_mortality"`
	Notes       []domain.Note `json:"notes,omitempty"`
}

// DeadliestCauses ranks fatal causes by deaths and, separately, by mortality
// rate.
func DeadliestCauses(records []domain.Record, limit int) DeadlyCauses {
	fatal := ByCause(records).Filter(func(r Row) bool { return r.Deaths > 0 })
	rep := DeadlyCauses{
		ByDeaths:    RankBy(fatal, func(r Row) float64 { return float64(r.Deaths) }).Top(limit).Rows,
		ByMortality: RankBy(fatal, func(r Row) float64 { return r.MortalityRate }).Top(limit).Rows,
	}
	if len(fatal.Rows) == 0 {
		rep.Notes = append(rep.Notes, domain.Infof(domain.CodeNoCasualties, "no deaths recorded"))
	}
	return rep
}

// ObjectRanking returns the limit most frequent object types.
func ObjectRanking(records []domain.Record, limit int) Table {
	return Rank(ByObject(records)).Top(limit)
}

// SeasonalityReport groups incidents by calendar month.
type SeasonalityReport struct {
	Table Table         `json:"table"`
	Notes []domain.Note `json:"notes,omitempty"`
}

// Seasonality groups records by month, January first.
func Seasonality(records []domain.Record) SeasonalityReport {
	rep := SeasonalityReport{Table: ByMonth(records)}
	if len(records) > 0 && !slices.ContainsFunc(records, func(r domain.Record) bool { return r.DateKnown }) {
		rep.Notes = append(rep.Notes, domain.Warnf(domain.CodeNoDateColumn,
			"no record has a usable date; every incident sits on the default month"))
	}
	return rep
}

// YearPoint is one year of a district series.
type YearPoint struct {
	Year     int `json:"year"`
	Count    int `json:"count"`
	Deaths   int `json:"deaths"`
	Injuries int `json:"injuries"`
}

// DistrictSeries is the yearly history of one district.
type DistrictSeries struct {
	District string      `json:"district"`
	Points   []YearPoint `json:"points"`
}

// DynamicsReport holds yearly series for selected districts.
type DynamicsReport struct {
	Districts []string         `json:"districts"`
	Series    []DistrictSeries `json:"series"`
	Notes     []domain.Note    `json:"notes,omitempty"`
}

// DistrictDynamics builds a yearly series per district. With no districts
// given it uses the first three districts in order of appearance. Unknown
// districts are reported in Notes and skipped.
func DistrictDynamics(records []domain.Record, districts []string) DynamicsReport {
	var order []string
	seen := make(map[string]bool)
	for i := range records {
		d := records[i].District
		if !seen[d] {
			seen[d] = true
			order = append(order, d)
		}
	}
	if len(districts) == 0 {
		districts = order[:min(DefaultDynamicsSize, len(order))]
	}

	rep := DynamicsReport{Districts: districts, Series: []DistrictSeries{}}
	for _, d := range districts {
		if !seen[d] {
			rep.Notes = append(rep.Notes, domain.Infof(domain.CodeUnknownDistrict, "district %q has no records", d))
			continue
		}
		s := DistrictSeries{District: d}
		for _, g := range groupBy(inDistrict(records, d), func(r *domain.Record) int { return r.Year }) {
			s.Points = append(s.Points, YearPoint{Year: g.key, Count: g.row.Count, Deaths: g.row.Deaths, Injuries: g.row.Injuries})
		}
		rep.Series = append(rep.Series, s)
	}
	if len(order) == 0 {
		rep.Notes = append(rep.Notes, domain.Infof(domain.CodeInsufficient, "no records to report"))
	}
	return rep
}

func inDistrict(records []domain.Record, district string) []domain.Record {
	var out []domain.Record
	for i := range records {
		if records[i].District == district {
			out = append(out, records[i])
		}
	}
	return out
}
