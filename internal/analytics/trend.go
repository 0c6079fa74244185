package analytics

import (
	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// Direction of the incident count between the last two years.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

// YearCount is the number of incidents in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// TrendReport is the direction of the last year-on-year step and a one-step
// forecast extrapolated from the mean growth rate.
type TrendReport struct {
	Status    Status      `json:"status"`
	Series    []YearCount `json:"series"`
	Direction Direction   `json:"direction,omitempty"`
	// ChangePct is the growth of the last year over the one before, in percent.
	ChangePct *float64 `json:"change_pct,omitempty"`
	// MeanGrowthPct is the mean of the year-over-year growth rates, in percent.
	MeanGrowthPct *float64      `json:"mean_growth_pct,omitempty"`
	ForecastYear  int           `json:"forecast_year,omitempty"`
	Forecast      *float64      `json:"forecast,omitempty"`
	Notes         []domain.Note `json:"notes,omitempty"`
}

// Trend needs two years for a direction and three for a forecast, computed as
// last count * (1 + mean growth). Growth rates are taken between consecutive
// years present in the data.
func Trend(records []domain.Record) TrendReport {
	groups := groupBy(records, func(r *domain.Record) int { return r.Year })
	rep := TrendReport{Status: StatusOK, Series: make([]YearCount, 0, len(groups))}
	for _, g := range groups {
		rep.Series = append(rep.Series, YearCount{Year: g.key, Count: g.row.Count})
	}

	if len(rep.Series) < 2 {
		rep.Status = StatusInsufficient
		rep.Notes = append(rep.Notes, domain.Infof(domain.CodeInsufficient,
			"trend needs at least two years, have %d", len(rep.Series)))
		return rep
	}

	last, prev := rep.Series[len(rep.Series)-1], rep.Series[len(rep.Series)-2]
	switch {
	case last.Count > prev.Count:
		rep.Direction = Increasing
	case last.Count < prev.Count:
		rep.Direction = Decreasing
	default:
		rep.Direction = Stable
	}
	rep.ChangePct = pctChange(last.Count, prev.Count)

	if len(rep.Series) < 3 {
		rep.Notes = append(rep.Notes, domain.Infof(domain.CodeInsufficient,
			"forecast needs at least three years, have %d", len(rep.Series)))
		return rep
	}

	var sum float64
	for i := 1; i < len(rep.Series); i++ {
		sum += float64(rep.Series[i].Count-rep.Series[i-1].Count) / float64(rep.Series[i-1].Count)
	}
	growth := sum / float64(len(rep.Series)-1)
	meanPct := round(growth*100, 1)
	forecast := round(float64(last.Count)*(1+growth), 1)
	rep.MeanGrowthPct = &meanPct
	rep.Forecast = &forecast
	rep.ForecastYear = last.Year + 1
	return rep
}
