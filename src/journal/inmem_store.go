package journal

import (
	"sync"

	cm "github.com/mosaicnetworks/hashgraph-sdk/src/common"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// InmemStore implements the Store interface with an in-memory map. It is the
// journal of clients that do not persist anything.
type InmemStore struct {
	sync.RWMutex
	entries map[hapi.TransactionID]*Entry
	closed  bool
}

// NewInmemStore ...
func NewInmemStore() *InmemStore {
	return &InmemStore{
		entries: make(map[hapi.TransactionID]*Entry),
	}
}

// Put implements the Store interface.
func (s *InmemStore) Put(entry *Entry) error {
	s.Lock()
	defer s.Unlock()
	if s.closed {
		return cm.NewStoreErr("Entry", cm.Closed, entry.TransactionID.String())
	}
	cp := *entry
	s.entries[entry.TransactionID] = &cp
	return nil
}

// Get implements the Store interface.
func (s *InmemStore) Get(id hapi.TransactionID) (*Entry, error) {
	s.RLock()
	defer s.RUnlock()
	if s.closed {
		return nil, cm.NewStoreErr("Entry", cm.Closed, id.String())
	}
	entry, ok := s.entries[id]
	if !ok {
		return nil, cm.NewStoreErr("Entry", cm.KeyNotFound, id.String())
	}
	cp := *entry
	return &cp, nil
}

// Pending implements the Store interface.
func (s *InmemStore) Pending() ([]*Entry, error) {
	s.RLock()
	defer s.RUnlock()
	if s.closed {
		return nil, cm.NewStoreErr("Entry", cm.Closed, "")
	}
	var res []*Entry
	for _, entry := range s.entries {
		if !entry.Resolved() {
			cp := *entry
			res = append(res, &cp)
		}
	}
	sortBySubmission(res)
	return res, nil
}

// Close implements the Store interface.
func (s *InmemStore) Close() error {
	s.Lock()
	defer s.Unlock()
	s.closed = true
	return nil
}
