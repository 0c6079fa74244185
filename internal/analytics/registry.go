package analytics

import (
	"errors"
	"fmt"
	"slices"

	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// ErrUnknownReport is returned by Build for a name with no registered report.
var ErrUnknownReport = errors.New("unknown report")

// Params carries the optional inputs of a named report. A nil Limit selects
// the report's default limit.
type Params struct {
	Limit     *int
	Districts []string
}

func (p Params) limitOr(def int) int {
	if p.Limit == nil {
		return def
	}
	return *p.Limit
}

type builder func(records []domain.Record, p Params) any

var registry = map[string]builder{
	"yearly": func(records []domain.Record, _ Params) any {
		return YearlyTrends(records)
	},
	"districts": func(records []domain.Record, p Params) any {
		return DistrictRanking(records, p.limitOr(DefaultDistrictLimit))
	},
	"map": func(records []domain.Record, _ Params) any {
		return MapMarkers(records)
	},
	"causes": func(records []domain.Record, _ Params) any {
		return CauseBreakdown(records)
	},
	"deadliest-causes": func(records []domain.Record, p Params) any {
		return DeadliestCauses(records, p.limitOr(DefaultDeadlyLimit))
	},
	"objects": func(records []domain.Record, p Params) any {
		return ObjectRanking(records, p.limitOr(DefaultObjectLimit))
	},
	"seasonality": func(records []domain.Record, _ Params) any {
		return Seasonality(records)
	},
	"district-dynamics": func(records []domain.Record, p Params) any {
		return DistrictDynamics(records, p.Districts)
	},
	"comparison": func(records []domain.Record, _ Params) any {
		return Compare(records)
	},
	"trend": func(records []domain.Record, _ Params) any {
		return Trend(records)
	},
}

// ReportNames lists every report Build accepts, sorted.
func ReportNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build runs the named report over records.
func Build(name string, records []domain.Record, p Params) (any, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownReport, name)
	}
	return b(records, p), nil
}
