package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
	"github.com/couchcryptid/fire-incident-analytics/internal/observability"
)

// ErrNoRecords is returned when a table has a header but no incident rows.
var ErrNoRecords = errors.New("no incident records")

// Loader reads a whole uploaded file into a raw table.
type Loader interface {
	Load(r io.Reader, filename string) (domain.RawTable, error)
}

// Publisher forwards a normalized dataset downstream.
type Publisher interface {
	PublishDataset(ctx context.Context, ds *domain.Dataset) error
}

// Pipeline turns uploaded registers into the current dataset.
type Pipeline struct {
	loader    Loader
	store     *Store
	geocoder  domain.Geocoder
	publisher Publisher
	opts      domain.ReconcileOptions
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// Option configures optional pipeline stages.
type Option func(*Pipeline)

// WithGeocoder enables settlement backfill.
func WithGeocoder(g domain.Geocoder) Option {
	return func(p *Pipeline) { p.geocoder = g }
}

// WithPublisher enables publishing of every loaded dataset.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithReconcileOptions overrides the default date marker.
func WithReconcileOptions(o domain.ReconcileOptions) Option {
	return func(p *Pipeline) { p.opts = o }
}

// New creates a Pipeline that loads with l and keeps results in store.
func New(l Loader, store *Store, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:  l,
		store:   store,
		opts:    domain.DefaultReconcileOptions(),
		logger:  logger,
		metrics: metrics,
	}
	for _, o := range opts {
		o(p)
	}
	if p.geocoder != nil {
		metrics.GeocodeEnabled.Set(1)
	}
	return p
}

// Store returns the store holding the current dataset.
func (p *Pipeline) Store() *Store { return p.store }

// Ingest loads an uploaded file, normalizes it and makes it the current
// dataset. On error the current dataset is left untouched.
func (p *Pipeline) Ingest(ctx context.Context, r io.Reader, filename string) (*domain.Dataset, error) {
	table, err := p.loader.Load(r, filename)
	if err != nil {
		p.metrics.DatasetsFailed.Inc()
		p.logger.Warn("dataset load failed", "source", filename, "error", err)
		return nil, err
	}

	ds, err := p.Process(ctx, filename, table)
	if err != nil {
		return nil, err
	}

	if prev := p.store.Replace(ds); prev != nil {
		p.logger.Info("dataset replaced", "previous_id", prev.ID, "dataset_id", ds.ID)
	}
	p.metrics.DatasetRecords.Set(float64(ds.Len()))
	return ds, nil
}

// Process normalizes a raw table into a dataset and publishes it when a
// publisher is configured. Publishing failures are logged, never returned.
func (p *Pipeline) Process(ctx context.Context, source string, table domain.RawTable) (*domain.Dataset, error) {
	if len(table.Rows) == 0 {
		p.metrics.DatasetsFailed.Inc()
		return nil, fmt.Errorf("process %q: %w", source, ErrNoRecords)
	}

	start := time.Now()
	f, diag := p.normalize(ctx, table)
	ds := domain.NewDataset(source, f, diag)

	p.metrics.DatasetsLoaded.Inc()
	p.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	p.logDiagnostics(ds)

	if p.publisher != nil {
		if err := p.publisher.PublishDataset(ctx, ds); err != nil {
			p.metrics.PublishErrors.Inc()
			p.logger.Error("publish dataset failed", "dataset_id", ds.ID, "error", err)
		} else {
			p.metrics.RecordsPublished.Add(float64(ds.Len()))
		}
	}
	return ds, nil
}

func (p *Pipeline) logDiagnostics(ds *domain.Dataset) {
	d := ds.Diagnostics
	p.logger.Info("dataset normalized",
		"dataset_id", ds.ID,
		"source", ds.Source,
		"records", d.Records,
		"deaths", d.Totals.Deaths,
		"injuries", d.Totals.Injuries,
		"geo_resolved", d.Geo.Resolved,
		"geo_unresolved", d.Geo.Unresolved,
		"cause_columns", d.CauseColumns,
		"date_fallbacks", d.DateFallbacks,
	)
	for _, n := range d.Notes {
		level := slog.LevelInfo
		if n.Level == domain.NoteWarning {
			level = slog.LevelWarn
		}
		p.logger.Log(context.Background(), level, n.Message, "dataset_id", ds.ID, "code", n.Code)
	}
}
