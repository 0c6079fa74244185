package domain

import "github.com/google/uuid"

// NewDataset freezes a fully normalized frame into a Dataset.
func NewDataset(source string, f *Frame, diag Diagnostics) *Dataset {
	return &Dataset{
		ID:          uuid.NewString(),
		Source:      source,
		LoadedAt:    clock.Now().UTC(),
		Columns:     f.Columns,
		Records:     f.Records,
		Diagnostics: diag,
	}
}

// Normalize runs every pure normalization stage over a raw table in order:
// reconciliation, numeric coercion, coordinate resolution and cause
// classification. The returned frame is ready for aggregation.
func Normalize(t RawTable, opts ReconcileOptions) (*Frame, Diagnostics) {
	var diag Diagnostics
	f := Reconcile(t, opts, &diag)
	NormalizeCasualties(f, &diag)
	ResolveCoordinates(f, &diag)
	ClassifyCauses(f, &diag)
	return f, diag
}
