// Package memory provides in-memory implementations of the resolver
// collaborators, for tests and embedding.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/querygate/querygate/pkg/paths"
	"github.com/querygate/querygate/pkg/perms"
)

// Store implements perms.Catalog, perms.CardStore and
// perms.CollectionPermissions over mutex-guarded maps.
type Store struct {
	mu      sync.RWMutex
	schemas map[int64]string           // table id -> schema
	cards   map[int64]perms.Collection // card id -> owning collection
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		schemas: make(map[int64]string),
		cards:   make(map[int64]perms.Collection),
	}
}

// AddTable registers a table's schema in the catalog.
func (s *Store) AddTable(tableID int64, schema string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[tableID] = schema
}

// AddCard registers a saved query and its owning collection.
func (s *Store) AddCard(cardID int64, coll perms.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[cardID] = coll
}

// TableSchemas resolves the given ids in one pass. Unknown ids are simply
// absent from the result.
func (s *Store) TableSchemas(_ context.Context, tableIDs []int64) (map[int64]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]string, len(tableIDs))
	for _, id := range tableIDs {
		if schema, ok := s.schemas[id]; ok {
			out[id] = schema
		}
	}
	return out, nil
}

// CardCollection returns the collection owning cardID, or an error wrapping
// perms.ErrNotFound.
func (s *Store) CardCollection(_ context.Context, cardID int64) (perms.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.cards[cardID]
	if !ok {
		return perms.Collection{}, fmt.Errorf("%w: card %d", perms.ErrNotFound, cardID)
	}
	return coll, nil
}

// ReadPermissions derives the read-permission set for a collection: a single
// collection-read path.
func (s *Store) ReadPermissions(_ context.Context, c perms.Collection) (paths.Set, error) {
	return paths.NewSet(paths.CollectionRead(c.ID)), nil
}
