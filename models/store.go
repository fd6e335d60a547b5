package models

import "sync"

// Store persists the reconciliation output wholesale: the catalog keyed by
// product id and the ledger in presentation order (newest first). Reads must
// always return something renderable; a missing or corrupt payload degrades
// to the default catalog and an empty ledger.
type Store interface {
	ReadCatalog() map[string]*Product
	ReadLedger() []ActivityLog
	Write(catalog map[string]*Product, ledger []ActivityLog) error
	Clear() error
}

// MemoryStore is the in-process Store used by tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	catalog map[string]*Product
	ledger  []ActivityLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ReadCatalog() map[string]*Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return DefaultProducts()
	}
	return copyCatalog(s.catalog)
}

func (s *MemoryStore) ReadLedger() []ActivityLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ActivityLog, len(s.ledger))
	copy(out, s.ledger)
	return out
}

func (s *MemoryStore) Write(catalog map[string]*Product, ledger []ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = copyCatalog(catalog)
	s.ledger = make([]ActivityLog, len(ledger))
	copy(s.ledger, ledger)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = nil
	s.ledger = nil
	return nil
}

func copyCatalog(in map[string]*Product) map[string]*Product {
	out := make(map[string]*Product, len(in))
	for id, p := range in {
		cp := *p
		out[id] = &cp
	}
	return out
}
