package repo

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/tbourn/giftfndr-backend/internal/domain"
)

// MemoryShareStore keeps share records in a map. Records are copied on the
// way in and out so callers never alias stored slices.
type MemoryShareStore struct {
	mu   sync.RWMutex
	recs map[string]domain.ShareRecord
}

// NewMemoryShareStore returns an empty store.
func NewMemoryShareStore() *MemoryShareStore {
	return &MemoryShareStore{recs: make(map[string]domain.ShareRecord)}
}

// Insert stores rec unless its ID is taken, in which case ErrDuplicate is
// returned. The check and the write happen under one lock.
func (s *MemoryShareStore) Insert(_ context.Context, rec domain.ShareRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[rec.ID]; ok {
		return errors.WithStack(ErrDuplicate)
	}
	s.recs[rec.ID] = rec.Clone()
	return nil
}

// Get returns a copy of the record with the given id.
func (s *MemoryShareStore) Get(_ context.Context, id string) (domain.ShareRecord, error) {
	s.mu.RLock()
	rec, ok := s.recs[id]
	s.mu.RUnlock()
	if !ok {
		return domain.ShareRecord{}, errors.WithStack(ErrNotFound)
	}
	return rec.Clone(), nil
}

// Sweep deletes records created before cutoff and returns how many went.
func (s *MemoryShareStore) Sweep(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, rec := range s.recs {
		if rec.CreatedAt.Before(cutoff) {
			delete(s.recs, id)
			n++
		}
	}
	return n, nil
}

// Count returns the number of stored records.
func (s *MemoryShareStore) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.recs)), nil
}
