package pipeline

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// ErrNoDataset is returned when no dataset has been loaded yet.
var ErrNoDataset = errors.New("no dataset loaded")

// Store holds the single current dataset. A dataset is never modified after
// it is stored; a new upload swaps the whole pointer.
type Store struct {
	current atomic.Pointer[domain.Dataset]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace makes ds current and returns the dataset it replaced, if any.
func (s *Store) Replace(ds *domain.Dataset) *domain.Dataset {
	return s.current.Swap(ds)
}

// Current returns the current dataset or ErrNoDataset.
func (s *Store) Current() (*domain.Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNoDataset
	}
	return ds, nil
}

// CheckReadiness returns nil once a dataset has been loaded, or an error
// describing why the service is not yet ready.
func (s *Store) CheckReadiness(_ context.Context) error {
	_, err := s.Current()
	return err
}
