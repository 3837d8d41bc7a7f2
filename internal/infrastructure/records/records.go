// Package records implements the CSV-backed record store: load a whole
// collection from one blob, transform it in memory, write the whole
// collection back. Every higher-level write goes through Mutate.
//
// There is deliberately no concurrency control here. Two concurrent
// Mutate calls on the same key race, and the later full overwrite
// silently discards the earlier writer's changes. Fixing that (ETag
// conditional writes, versioning) would change observable behavior and
// is left out.
package records

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/infrastructure/blob"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/tabular"
	"github.com/oksasatya/recipe-share-api/pkg/apperr"
)

const contentTypeCSV = "text/csv"

// Store persists record collections as CSV blobs, one blob per
// collection key.
type Store struct {
	blob   blob.Store
	logger *logrus.Logger
}

func New(b blob.Store, logger *logrus.Logger) *Store {
	return &Store{blob: b, logger: logger}
}

// Load reads and decodes the collection under key. The boolean reports
// whether the backing blob exists; an absent collection is (nil, false, nil).
func (s *Store) Load(ctx context.Context, key string) ([]tabular.Record, bool, error) {
	data, err := s.blob.Read(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, apperr.Wrap(apperr.Store, err.Error(), err)
	}
	recs, err := tabular.Decode(data)
	if err != nil {
		return nil, true, apperr.Wrap(apperr.Store, err.Error(), err)
	}
	return recs, true, nil
}

// Save encodes records and overwrites the collection blob unconditionally.
func (s *Store) Save(ctx context.Context, key string, recs []tabular.Record) error {
	data, err := tabular.Encode(recs)
	if err != nil {
		return apperr.Wrap(apperr.Store, err.Error(), err)
	}
	if err := s.blob.Write(ctx, key, data, contentTypeCSV); err != nil {
		return apperr.Wrap(apperr.Store, err.Error(), err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"key": key, "records": len(recs)}).Debug("collection saved")
	}
	return nil
}

// Mutate loads the collection (absent means empty), applies fn and saves
// the result. fn must be a pure transform; returning an error aborts
// without writing.
func (s *Store) Mutate(ctx context.Context, key string, fn func([]tabular.Record) ([]tabular.Record, error)) error {
	recs, _, err := s.Load(ctx, key)
	if err != nil {
		return err
	}
	next, err := fn(recs)
	if err != nil {
		return err
	}
	return s.Save(ctx, key, next)
}
