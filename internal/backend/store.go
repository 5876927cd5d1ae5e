package backend

import (
	"sort"
	"sync"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
)

type childRecord struct {
	ParentID string
	Aux      map[string]string
}

// store is the in-memory system of record. Children and parents unknown to
// it are created on first reference, since the local app owns creation.
type store struct {
	mu       sync.Mutex
	parents  map[domain.ParentKind]map[string]bool
	children map[domain.ParentKind]map[string]*childRecord
}

func newStore() *store {
	s := &store{
		parents:  make(map[domain.ParentKind]map[string]bool),
		children: make(map[domain.ParentKind]map[string]*childRecord),
	}
	for _, k := range []domain.ParentKind{domain.KindClient, domain.KindTaskType} {
		s.parents[k] = make(map[string]bool)
		s.children[k] = make(map[string]*childRecord)
	}
	return s
}

func (s *store) seed(kind domain.ParentKind, parentID string, childIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parents[kind][parentID] = true
	for _, id := range childIDs {
		s.children[kind][id] = &childRecord{ParentID: parentID}
	}
}

func (s *store) repoint(kind domain.ParentKind, ids []string, parentID string, aux map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parents[kind][parentID] = true
	for _, id := range ids {
		rec := &childRecord{ParentID: parentID}
		if len(aux) > 0 {
			rec.Aux = make(map[string]string, len(aux))
			for k, v := range aux {
				rec.Aux[k] = v
			}
		}
		s.children[kind][id] = rec
	}
}

// deleteParent removes the parent and every child still pointing at it.
// It returns the removed child ids.
func (s *store) deleteParent(kind domain.ParentKind, parentID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parents[kind], parentID)
	var removed []string
	for id, rec := range s.children[kind] {
		if rec.ParentID == parentID {
			delete(s.children[kind], id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

func (s *store) child(kind domain.ParentKind, id string) (childRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.children[kind][id]
	if !ok {
		return childRecord{}, false
	}
	return *rec, true
}

func (s *store) hasParent(kind domain.ParentKind, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parents[kind][id]
}
