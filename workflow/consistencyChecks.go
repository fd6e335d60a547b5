package workflow

import (
	"fmt"

	"bitbucket.org/ahadnetwork/inventory_backend/config"
	"bitbucket.org/ahadnetwork/inventory_backend/models"
	"github.com/sirupsen/logrus"
)

// RunConsistencyChecks audits a reconciliation result against the replay
// invariants: every update's After equals Before plus Change, the running
// balance chains per SKU across the newest-first ledger, stock never goes
// negative, and each final stock equals opening stock plus the sum of its
// changes. Returns one message per violation; empty means clean.
//
// Intended for the rebuild CLI and an admin trigger, not the hot path.
func RunConsistencyChecks(catalog map[string]*models.Product, ledger []models.ActivityLog) []string {
	var problems []string

	sums := make(map[string]int)
	// Walk oldest to newest; the ledger is stored newest first.
	prevAfter := make(map[string]int)
	for _, id := range models.ProductIDs() {
		prevAfter[id] = models.InitialStock
	}

	for i := len(ledger) - 1; i >= 0; i-- {
		entry := &ledger[i]
		for _, u := range entry.ProductUpdates {
			if _, known := catalog[u.ProductID]; !known {
				continue
			}
			if u.After != u.Before+u.Change {
				problems = append(problems, fmt.Sprintf(
					"entry %s: %s after=%d != before=%d + change=%d",
					entry.ID, u.ProductID, u.After, u.Before, u.Change))
			}
			if u.After < 0 {
				problems = append(problems, fmt.Sprintf(
					"entry %s: %s negative stock %d", entry.ID, u.ProductID, u.After))
			}
			if u.Before != prevAfter[u.ProductID] {
				problems = append(problems, fmt.Sprintf(
					"entry %s: %s before=%d does not chain from previous after=%d",
					entry.ID, u.ProductID, u.Before, prevAfter[u.ProductID]))
			}
			prevAfter[u.ProductID] = u.After
			sums[u.ProductID] += u.Change
		}
	}

	for _, id := range models.ProductIDs() {
		p, ok := catalog[id]
		if !ok {
			problems = append(problems, fmt.Sprintf("catalog missing product %s", id))
			continue
		}
		if want := models.InitialStock + sums[id]; p.Stock != want {
			problems = append(problems, fmt.Sprintf(
				"%s: final stock %d != opening %d + sum(changes) %d",
				id, p.Stock, models.InitialStock, sums[id]))
		}
	}

	return problems
}

// LogConsistencyChecks runs the audit and reports through the shared logger.
func LogConsistencyChecks(result *SyncResult) []string {
	problems := RunConsistencyChecks(result.Catalog, result.Ledger)
	logger := config.GetLogger()
	if len(problems) == 0 {
		logger.WithFields(logrus.Fields{
			"ledger_entries": len(result.Ledger),
		}).Info("inventory.consistency.clean")
		return nil
	}
	for _, p := range problems {
		logger.WithFields(logrus.Fields{
			"field": "ConsistencyChecks",
		}).Error(p)
	}
	return problems
}
