package workflow

import (
	"context"
	"sort"
	"sync"

	"bitbucket.org/ahadnetwork/inventory_backend/config"
	"bitbucket.org/ahadnetwork/inventory_backend/models"
	"bitbucket.org/ahadnetwork/inventory_backend/utils"
	"github.com/sirupsen/logrus"
)

// FeedSource is what the reconciliation needs from the remote adapters.
// Both methods return possibly-empty lists and never fail.
type FeedSource interface {
	FetchSalesEntries(ctx context.Context, seedOrders map[string]bool) []models.ActivityLog
	FetchAdjustmentEntries(ctx context.Context) []models.ActivityLog
}

// SyncResult is the authoritative output of one reconciliation run.
// Ledger is ordered newest-first for presentation.
type SyncResult struct {
	Catalog map[string]*models.Product
	Ledger  []models.ActivityLog
}

// SyncInventory is the end-to-end reconciliation: fetch both feeds, merge
// with seed history, replay balances forward from opening stock, persist the
// result wholesale. Overlapping invocations are serialized by a redis lock;
// the loser gets an error instead of racing the winner's write.
func SyncInventory(ctx context.Context, store models.Store, source FeedSource) (*SyncResult, error) {
	release, err := utils.SyncLock(ctx, "inventory-sync", "workflow", "SyncInventory")
	if err != nil {
		return nil, err
	}
	defer release()

	seedEntries := SeedHistory()
	seedOrders := SeedOrderNumbers()

	// The two feeds have no ordering dependency; fetch them concurrently.
	// Both must complete (or time out inside the adapter) before the merge.
	var salesEntries, adjustmentEntries []models.ActivityLog
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		salesEntries = source.FetchSalesEntries(ctx, seedOrders)
	}()
	go func() {
		defer wg.Done()
		adjustmentEntries = source.FetchAdjustmentEntries(ctx)
	}()
	wg.Wait()

	merged := make([]models.ActivityLog, 0, len(seedEntries)+len(salesEntries)+len(adjustmentEntries))
	merged = append(merged, seedEntries...)
	merged = append(merged, salesEntries...)
	merged = append(merged, adjustmentEntries...)

	catalog, replayed := Replay(merged)

	// Newest first for presentation and persistence.
	ledger := reverseEntries(replayed)

	if err := store.Write(catalog, ledger); err != nil {
		config.LogError(config.GetLogger(), "workflow", "SyncInventory", "persist sync result", nil, err)
		return nil, err
	}

	config.GetLogger().WithFields(logrus.Fields{
		"seed_entries":       len(seedEntries),
		"sales_entries":      len(salesEntries),
		"adjustment_entries": len(adjustmentEntries),
	}).Info("inventory.sync.completed")

	return &SyncResult{Catalog: catalog, Ledger: ledger}, nil
}

// Replay is the single authoritative place where stock is computed. It
// stable-sorts the working set ascending by timestamp (ties keep input
// order, so repeated runs on identical input are byte-identical), then
// walks oldest to newest filling Before/After from the running balance.
//
// Deductions are clamped at zero: feed-sourced history may be inconsistent
// and is tolerated rather than rejected. User submissions are rejected
// before they ever reach the ledger, in the adjustment workflow.
func Replay(entries []models.ActivityLog) (map[string]*models.Product, []models.ActivityLog) {
	sorted := make([]models.ActivityLog, len(entries))
	copy(sorted, entries)
	for i := range sorted {
		// Replay mutates Before/After/Change; never write through to the
		// caller's slices.
		updates := make([]models.ProductUpdate, len(sorted[i].ProductUpdates))
		copy(updates, sorted[i].ProductUpdates)
		sorted[i].ProductUpdates = updates
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	catalog := models.DefaultProducts()

	for i := range sorted {
		entry := &sorted[i]
		for j := range entry.ProductUpdates {
			update := &entry.ProductUpdates[j]
			product, ok := catalog[update.ProductID]
			if !ok {
				continue
			}
			update.Before = product.Stock

			change := update.Change
			if change < 0 && product.Stock+change < 0 {
				change = -product.Stock
				update.Change = change
			}
			product.Stock += change

			update.After = product.Stock
			product.LastUpdated = entry.Timestamp
		}
	}

	return catalog, sorted
}

func reverseEntries(entries []models.ActivityLog) []models.ActivityLog {
	out := make([]models.ActivityLog, len(entries))
	for i := range entries {
		out[len(entries)-1-i] = entries[i]
	}
	return out
}
