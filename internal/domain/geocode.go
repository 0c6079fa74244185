package domain

import (
	"context"
	"log/slog"
)

// Settlement backfill outcomes.
const (
	SettlementReverse = "reverse"
	SettlementFailed  = "failed"
)

// BackfillSettlements fills the settlement of records that have resolved
// coordinates but no settlement, using reverse geocoding. District, counts and
// coordinates are never touched. A nil geocoder is a no-op. It returns the
// number of records updated.
func BackfillSettlements(ctx context.Context, f *Frame, geocoder Geocoder, logger *slog.Logger) int {
	if geocoder == nil {
		return 0
	}

	filled := 0
	for i := range f.Records {
		r := &f.Records[i]
		if r.Geo == nil || r.Settlement != Unspecified {
			continue
		}
		if ctx.Err() != nil {
			return filled
		}

		result, err := geocoder.ReverseGeocode(ctx, r.Geo.Lat, r.Geo.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"row", r.Row,
				"lat", r.Geo.Lat,
				"lon", r.Geo.Lon,
				"error", err,
			)
			r.SettlementSource = SettlementFailed
			continue
		}
		if result.PlaceName == "" {
			continue
		}
		r.Settlement = result.PlaceName
		r.SettlementSource = SettlementReverse
		filled++
	}
	return filled
}
