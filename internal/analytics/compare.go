package analytics

import (
	"slices"

	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// Status tells whether a report had enough data.
type Status string

const (
	StatusOK           Status = "ok"
	StatusInsufficient Status = "insufficient_data"
)

// YearTotals are the incident and casualty totals of one year.
type YearTotals struct {
	Fires    int `json:"fires"`
	Deaths   int `json:"deaths"`
	Injuries int `json:"injuries"`
}

func (t *YearTotals) add(r *domain.Record) {
	t.Fires++
	t.Deaths += r.TotalDeaths
	t.Injuries += r.TotalInjuries
}

// Change is the difference between two YearTotals. FiresPct is nil when the
// previous year had no fires.
type Change struct {
	Fires    int      `json:"fires"`
	FiresPct *float64 `json:"fires_pct"`
	Deaths   int      `json:"deaths"`
	Injuries int      `json:"injuries"`
}

func changeOf(cur, prev YearTotals) Change {
	return Change{
		Fires:    cur.Fires - prev.Fires,
		FiresPct: pctChange(cur.Fires, prev.Fires),
		Deaths:   cur.Deaths - prev.Deaths,
		Injuries: cur.Injuries - prev.Injuries,
	}
}

// DistrictDelta compares one district across the two years.
type DistrictDelta struct {
	District string     `json:"district"`
	Current  YearTotals `json:"current"`
	Previous YearTotals `json:"previous"`
	Change   Change     `json:"change"`
}

// Comparison is the year-over-year report: the latest year against the year
// before it.
type Comparison struct {
	Status       Status          `json:"status"`
	CurrentYear  int             `json:"current_year,omitempty"`
	PreviousYear int             `json:"previous_year,omitempty"`
	Current      YearTotals      `json:"current"`
	Previous     YearTotals      `json:"previous"`
	Change       Change          `json:"change"`
	Districts    []DistrictDelta `json:"districts,omitempty"`
	Notes        []domain.Note   `json:"notes,omitempty"`
}

// Compare contrasts the maximum year present with the calendar year before
// it, per district and in total. Districts present in only one of the years
// count as zero in the other. Without records in the previous year the result
// is insufficient.
func Compare(records []domain.Record) Comparison {
	if len(records) == 0 {
		return Comparison{
			Status: StatusInsufficient,
			Notes:  []domain.Note{domain.Infof(domain.CodeInsufficient, "no records to compare")},
		}
	}

	cur := records[0].Year
	for i := range records {
		cur = max(cur, records[i].Year)
	}
	prev := cur - 1
	c := Comparison{Status: StatusOK, CurrentYear: cur, PreviousYear: prev}

	byDistrict := make(map[string]*DistrictDelta)
	for i := range records {
		r := &records[i]
		if r.Year != cur && r.Year != prev {
			continue
		}
		d, ok := byDistrict[r.District]
		if !ok {
			d = &DistrictDelta{District: r.District}
			byDistrict[r.District] = d
		}
		if r.Year == cur {
			d.Current.add(r)
			c.Current.add(r)
		} else {
			d.Previous.add(r)
			c.Previous.add(r)
		}
	}

	if c.Previous.Fires == 0 {
		c.Status = StatusInsufficient
		c.Notes = append(c.Notes, domain.Infof(domain.CodeNoPriorYear,
			"no records for %d; year-over-year comparison needs both years", prev))
		c.Change = changeOf(c.Current, c.Previous)
		return c
	}

	names := make([]string, 0, len(byDistrict))
	for name := range byDistrict {
		names = append(names, name)
	}
	slices.Sort(names)
	c.Districts = make([]DistrictDelta, 0, len(names))
	for _, name := range names {
		d := byDistrict[name]
		d.Change = changeOf(d.Current, d.Previous)
		c.Districts = append(c.Districts, *d)
	}
	c.Change = changeOf(c.Current, c.Previous)
	return c
}
