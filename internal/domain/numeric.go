package domain

import (
	"math"
	"strconv"
	"strings"
)

// numericColumns are normalized in this order; the order is also the order of
// Diagnostics.Fields.
var numericColumns = []string{
	ColDeathsAdult,
	ColInjuriesAdult,
	ColDeathsChild,
	ColInjuriesChild,
	ColRescued,
	ColEvacuated,
}

// blankMarkers are cell values treated as empty.
var blankMarkers = map[string]bool{
	"":     true,
	"none": true,
	"nan":  true,
	"null": true,
	"nat":  true,
}

func isBlank(s string) bool {
	return blankMarkers[strings.ToLower(strings.TrimSpace(s))]
}

// ParseCount coerces a locale-formatted cell into a non-negative integer.
// Blank markers, unparseable text, non-finite and negative values become 0;
// fractional values are truncated toward zero. It never fails.
func ParseCount(s string) int {
	if isBlank(s) {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Trunc(v)
	if v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// NormalizeCasualties coerces the six casualty/rescue columns of every record
// and derives total deaths and injuries. Per-field positive counts and the
// dataset totals are written to diag.
func NormalizeCasualties(f *Frame, diag *Diagnostics) {
	stats := make([]FieldStat, len(numericColumns))
	for j, col := range numericColumns {
		stats[j] = FieldStat{Field: col, Present: f.HasColumn(col)}
	}

	for i := range f.Records {
		r := &f.Records[i]
		values := [...]*int{
			&r.DeathsAdult,
			&r.InjuriesAdult,
			&r.DeathsChild,
			&r.InjuriesChild,
			&r.Rescued,
			&r.Evacuated,
		}
		for j, col := range numericColumns {
			n := ParseCount(r.Fields[col])
			*values[j] = n
			if n > 0 {
				stats[j].Positive++
				stats[j].Sum += n
			}
		}

		r.TotalDeaths = r.DeathsAdult + r.DeathsChild
		r.TotalInjuries = r.InjuriesAdult + r.InjuriesChild

		diag.Totals.Deaths += r.TotalDeaths
		diag.Totals.Injuries += r.TotalInjuries
		diag.Totals.ChildDeaths += r.DeathsChild
		diag.Totals.ChildInjuries += r.InjuriesChild
	}

	diag.Fields = stats
}
