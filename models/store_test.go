package models

import (
	"testing"
	"time"
)

func TestMemoryStore_EmptyReadsDegradeToDefaults(t *testing.T) {
	store := NewMemoryStore()

	catalog := store.ReadCatalog()
	if len(catalog) != 3 {
		t.Fatalf("expected default catalog of 3 SKUs, got %d", len(catalog))
	}
	for _, id := range ProductIDs() {
		if catalog[id].Stock != InitialStock {
			t.Fatalf("%s: expected opening stock %d, got %d", id, InitialStock, catalog[id].Stock)
		}
	}
	if ledger := store.ReadLedger(); len(ledger) != 0 {
		t.Fatalf("expected empty ledger, got %d entries", len(ledger))
	}
}

func TestMemoryStore_WriteThenRead(t *testing.T) {
	store := NewMemoryStore()
	catalog := DefaultProducts()
	catalog[ProductColostrumP].Stock = 42

	ledger := []ActivityLog{{
		ID:        "e1",
		Timestamp: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Type:      ActivityTypeManual,
	}}
	if err := store.Write(catalog, ledger); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got := store.ReadCatalog()[ProductColostrumP].Stock; got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := store.ReadLedger(); len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("unexpected ledger: %v", got)
	}
}

func TestMemoryStore_ReadsAreIsolatedCopies(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Write(DefaultProducts(), nil); err != nil {
		t.Fatalf("write: %v", err)
	}

	first := store.ReadCatalog()
	first[ProductBarleyBest].Stock = -999

	if got := store.ReadCatalog()[ProductBarleyBest].Stock; got != InitialStock {
		t.Fatalf("caller mutation leaked into the store: %d", got)
	}
}

func TestMemoryStore_WriteSnapshotsInput(t *testing.T) {
	store := NewMemoryStore()
	catalog := DefaultProducts()
	if err := store.Write(catalog, nil); err != nil {
		t.Fatalf("write: %v", err)
	}

	catalog[ProductColostrumG].Stock = 7
	if got := store.ReadCatalog()[ProductColostrumG].Stock; got != InitialStock {
		t.Fatalf("post-write mutation leaked into the store: %d", got)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	catalog := DefaultProducts()
	catalog[ProductColostrumP].Stock = 1
	if err := store.Write(catalog, []ActivityLog{{ID: "e1"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if got := store.ReadCatalog()[ProductColostrumP].Stock; got != InitialStock {
		t.Fatalf("clear should fall back to defaults, got %d", got)
	}
	if got := store.ReadLedger(); len(got) != 0 {
		t.Fatalf("clear left %d ledger entries", len(got))
	}
}
