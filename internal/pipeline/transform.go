package pipeline

import (
	"context"

	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// normalize runs the domain stages over a raw table, then the optional
// settlement backfill, and records per-stage metrics.
func (p *Pipeline) normalize(ctx context.Context, table domain.RawTable) (*domain.Frame, domain.Diagnostics) {
	f, diag := domain.Normalize(table, p.opts)

	if p.geocoder != nil {
		filled := domain.BackfillSettlements(ctx, f, p.geocoder, p.logger)
		p.logger.Info("settlements backfilled", "records", filled)
	}

	p.metrics.RecordsNormalized.Add(float64(len(f.Records)))
	p.metrics.Geocoordinates.WithLabelValues("resolved").Add(float64(diag.Geo.Resolved - diag.Geo.Swapped))
	p.metrics.Geocoordinates.WithLabelValues("swapped").Add(float64(diag.Geo.Swapped))
	p.metrics.Geocoordinates.WithLabelValues("unresolved").Add(float64(diag.Geo.Unresolved))
	for i := range f.Records {
		p.metrics.CauseRecords.WithLabelValues(string(f.Records[i].Category)).Inc()
	}
	return f, diag
}
