package catalog

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no catalog exists for an id.
var ErrNotFound = errors.New("catalog not found")

// Store is the in-memory catalog registry: an ordered list guarded by a
// single lock. Deletion is immediate and irreversible; there is no undo and
// confirmation is a caller concern.
type Store struct {
	mu      sync.RWMutex
	records []*Record

	// onDelete is invoked (outside CRUD hot paths but under the lock) when
	// a record is removed, so the owner of the source blob can release it.
	onDelete func(rec Record)
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{}
}

// OnDelete registers a hook called with a copy of each deleted record.
func (s *Store) OnDelete(fn func(rec Record)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDelete = fn
}

// List returns copies of all records in insertion order.
// If publicOnly is set, only records with public visibility are returned.
func (s *Store) List(publicOnly bool) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if publicOnly && r.Visibility != VisibilityPublic {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.find(id)
	if r == nil {
		return Record{}, ErrNotFound
	}
	return *r, nil
}

// Create validates and appends a new record. A missing id is generated;
// timestamps are stamped.
func (s *Store) Create(rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = now
	}
	rec.ModifiedAt = now

	if err := rec.Validate(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(rec.ID) != nil {
		return Record{}, errors.New("catalog id already exists")
	}
	stored := rec
	s.records = append(s.records, &stored)
	return rec, nil
}

// Update applies fn to the record with the given id and re-validates.
// The mutation is discarded if validation fails.
func (s *Store) Update(id string, fn func(r *Record)) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(id)
	if r == nil {
		return Record{}, ErrNotFound
	}

	updated := *r
	fn(&updated)
	updated.ID = id // identity is immutable
	updated.ModifiedAt = time.Now().UTC()
	if err := updated.Validate(); err != nil {
		return Record{}, err
	}

	*r = updated
	return updated, nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			deleted := *r
			s.records = append(s.records[:i], s.records[i+1:]...)
			if s.onDelete != nil {
				s.onDelete(deleted)
			}
			return nil
		}
	}
	return ErrNotFound
}

// SetPageCount records the page count discovered when a document is first
// opened. A zero stored count is the "unknown" state.
func (s *Store) SetPageCount(id string, pages int) error {
	_, err := s.Update(id, func(r *Record) {
		r.PageCount = pages
	})
	return err
}

// RecordView increments the view counter.
func (s *Store) RecordView(id string) error {
	_, err := s.Update(id, func(r *Record) { r.Views++ })
	return err
}

// RecordDownload increments the download counter.
func (s *Store) RecordDownload(id string) error {
	_, err := s.Update(id, func(r *Record) { r.Downloads++ })
	return err
}

// RecordShare increments the share counter.
func (s *Store) RecordShare(id string) error {
	_, err := s.Update(id, func(r *Record) { r.Shares++ })
	return err
}

// find returns the record pointer for id. Callers must hold the lock.
func (s *Store) find(id string) *Record {
	for _, r := range s.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}
