package analytics

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// Dimension names a grouping key.
type Dimension string

const (
	DimYear     Dimension = "year"
	DimDistrict Dimension = "district"
	DimCause    Dimension = "cause"
	DimObject   Dimension = "object_type"
	DimMonth    Dimension = "month"
)

// ErrUnknownDimension is returned by Aggregate for an unsupported dimension.
var ErrUnknownDimension = errors.New("unknown dimension")

// Row is the summary of one group.
type Row struct {
	Key           string  `json:"key"`
	Label         string  `json:"label,omitempty"`
	Count         int     `json:"count"`
	Deaths        int     `json:"deaths"`
	Injuries      int     `json:"injuries"`
	ChildDeaths   int     `json:"child_deaths"`
	ChildInjuries int     `json:"child_injuries"`
	Share         float64 `json:"share_pct"`
	MortalityRate float64 `json:"mortality_rate"`
	InjuryRate    float64 `json:"injury_rate"`
}

func (r *Row) add(rec *domain.Record) {
	r.Count++
	r.Deaths += rec.TotalDeaths
	r.Injuries += rec.TotalInjuries
	r.ChildDeaths += rec.DeathsChild
	r.ChildInjuries += rec.InjuriesChild
}

func (r *Row) finish(total int) {
	r.Share = percent(r.Count, total, 1)
	r.MortalityRate = percent(r.Deaths, r.Count, 2)
	r.InjuryRate = percent(r.Injuries, r.Count, 2)
}

// Table is an ordered grouping of records along one dimension. Total is the
// number of records the table was built from.
type Table struct {
	Dimension Dimension `json:"dimension"`
	Total     int       `json:"total"`
	Rows      []Row     `json:"rows"`
}

// Sum returns the incident count across all rows.
func (t Table) Sum() int {
	n := 0
	for _, r := range t.Rows {
		n += r.Count
	}
	return n
}

// Top returns the first n rows. n <= 0 keeps every row.
func (t Table) Top(n int) Table {
	if n <= 0 || n >= len(t.Rows) {
		return t
	}
	t.Rows = slices.Clone(t.Rows[:n])
	return t
}

// Filter returns the rows for which keep reports true, in order.
func (t Table) Filter(keep func(Row) bool) Table {
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	t.Rows = rows
	return t
}

// Rank orders rows by count, highest first. Equal counts keep their relative
// order.
func Rank(t Table) Table {
	return RankBy(t, func(r Row) float64 { return float64(r.Count) })
}

// RankBy orders rows by metric, highest first, with a stable sort.
func RankBy(t Table, metric func(Row) float64) Table {
	rows := slices.Clone(t.Rows)
	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Compare(metric(b), metric(a))
	})
	t.Rows = rows
	return t
}

// Aggregate groups records along dim.
func Aggregate(records []domain.Record, dim Dimension) (Table, error) {
	switch dim {
	case DimYear:
		return ByYear(records), nil
	case DimDistrict:
		return ByDistrict(records), nil
	case DimCause:
		return ByCause(records), nil
	case DimObject:
		return ByObject(records), nil
	case DimMonth:
		return ByMonth(records), nil
	default:
		return Table{}, fmt.Errorf("aggregate by %q: %w", dim, ErrUnknownDimension)
	}
}

// ByYear groups records by year.
func ByYear(records []domain.Record) Table {
	groups := groupBy(records, func(r *domain.Record) int { return r.Year })
	return tableOf(DimYear, len(records), groups, func(y int) (string, string) {
		return strconv.Itoa(y), ""
	})
}

// ByDistrict groups records by district.
func ByDistrict(records []domain.Record) Table {
	groups := groupBy(records, func(r *domain.Record) string { return r.District })
	return tableOf(DimDistrict, len(records), groups, plainKey)
}

// ByObject groups records by object type.
func ByObject(records []domain.Record) Table {
	groups := groupBy(records, func(r *domain.Record) string { return r.ObjectType })
	return tableOf(DimObject, len(records), groups, plainKey)
}

// ByCause groups records by cause category, in taxonomy order.
func ByCause(records []domain.Record) Table {
	groups := groupBy(records, func(r *domain.Record) int { return causeIndex(r.Category) })
	return tableOf(DimCause, len(records), groups, func(i int) (string, string) {
		c := categories[i]
		return string(c), c.Label()
	})
}

// ByMonth groups records by calendar month.
func ByMonth(records []domain.Record) Table {
	groups := groupBy(records, func(r *domain.Record) int { return r.Month })
	return tableOf(DimMonth, len(records), groups, func(m int) (string, string) {
		return strconv.Itoa(m), domain.MonthName(m)
	})
}

var categories = domain.Categories()

func causeIndex(c domain.CauseCategory) int {
	if i := slices.Index(categories, c); i >= 0 {
		return i
	}
	return slices.Index(categories, domain.CauseUnspecified)
}

func plainKey(s string) (string, string) { return s, "" }

type group[K cmp.Ordered] struct {
	key K
	row Row
}

// groupBy accumulates records per key and returns the groups in ascending key
// order.
func groupBy[K cmp.Ordered](records []domain.Record, key func(*domain.Record) K) []group[K] {
	index := make(map[K]int)
	var groups []group[K]
	for i := range records {
		rec := &records[i]
		k := key(rec)
		j, ok := index[k]
		if !ok {
			j = len(groups)
			index[k] = j
			groups = append(groups, group[K]{key: k})
		}
		groups[j].row.add(rec)
	}
	slices.SortFunc(groups, func(a, b group[K]) int { return cmp.Compare(a.key, b.key) })
	return groups
}

func tableOf[K cmp.Ordered](dim Dimension, total int, groups []group[K], describe func(K) (string, string)) Table {
	rows := make([]Row, 0, len(groups))
	for _, g := range groups {
		row := g.row
		row.Key, row.Label = describe(g.key)
		row.finish(total)
		rows = append(rows, row)
	}
	return Table{Dimension: dim, Total: total, Rows: rows}
}

// percent returns part/whole*100 rounded to places decimals, or 0 when whole
// is zero.
func percent(part, whole, places int) float64 {
	if whole == 0 {
		return 0
	}
	return round(float64(part)/float64(whole)*100, places)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// pctChange returns the percentage change from prev to cur rounded to one
// decimal, or nil when prev is zero.
func pctChange(cur, prev int) *float64 {
	if prev == 0 {
		return nil
	}
	v := round(float64(cur-prev)/float64(prev)*100, 1)
	return &v
}
