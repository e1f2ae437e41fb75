// Package memory is an in-process document store used for local runs and tests.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"horizon/internal/domain/document"
	"horizon/internal/shared/apperrors"
)

type entry struct {
	doc *document.Document
	seq int
}

// Store keeps documents in maps guarded by a RWMutex.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]entry
	seq         int
	now         func() time.Time
}

var _ document.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		collections: make(map[string]map[string]entry),
		now:         time.Now,
	}
}

// WithClock replaces the creation timestamp source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Create(ctx context.Context, collection, id string, fields map[string]any) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "memory.create", err)
	}
	if id == "" {
		id = document.NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]entry)
		s.collections[collection] = coll
	}
	if _, exists := coll[id]; exists {
		return nil, apperrors.Wrap(apperrors.ErrAlreadyExists, "memory.create", nil)
	}

	s.seq++
	doc := &document.Document{ID: id, CreatedAt: s.now().UTC(), Fields: maps.Clone(fields)}
	coll[id] = entry{doc: doc, seq: s.seq}

	return clone(doc), nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.collections[collection][id]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "memory.get", nil)
	}
	return clone(e.doc), nil
}

func (s *Store) List(ctx context.Context, collection string, filters ...document.Filter) ([]*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var matched []entry
	for _, e := range s.collections[collection] {
		if matchesAll(e.doc.Fields, filters) {
			matched = append(matched, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].doc.CreatedAt.Equal(matched[j].doc.CreatedAt) {
			return matched[i].doc.CreatedAt.Before(matched[j].doc.CreatedAt)
		}
		return matched[i].seq < matched[j].seq
	})

	docs := make([]*document.Document, 0, len(matched))
	for _, e := range matched {
		docs = append(docs, clone(e.doc))
	}
	return docs, nil
}

func matchesAll(fields map[string]any, filters []document.Filter) bool {
	for _, f := range filters {
		if !f.Matches(fields) {
			return false
		}
	}
	return true
}

func clone(d *document.Document) *document.Document {
	return &document.Document{ID: d.ID, CreatedAt: d.CreatedAt, Fields: maps.Clone(d.Fields)}
}
