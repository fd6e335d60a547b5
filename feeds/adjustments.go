package feeds

import (
	"context"
	"fmt"

	"bitbucket.org/ahadnetwork/inventory_backend/config"
	"bitbucket.org/ahadnetwork/inventory_backend/models"
	"bitbucket.org/ahadnetwork/inventory_backend/utils"
)

// FetchAdjustmentEntries pulls the manual-adjustments feed and normalizes
// each row into a ledger entry. The "All" product sentinel fans out to one
// update per catalog SKU; rows naming an unknown product are dropped.
func (a *Adapter) FetchAdjustmentEntries(ctx context.Context) []models.ActivityLog {
	logger := config.GetLogger()

	rows, err := a.client.getRows(ctx, pathAdjustmentsRead)
	if err != nil {
		config.LogError(logger, "feeds", "FetchAdjustmentEntries", "fetch adjustments feed", nil, err)
		return []models.ActivityLog{}
	}

	entries := make([]models.ActivityLog, 0, len(rows))
	for i, r := range rows {
		pid, ok := models.MatchAdjustmentProduct(r.str("Product"))
		if !ok {
			config.LogError(logger, "feeds", "FetchAdjustmentEntries", "unknown product in adjustment row",
				r.str("Product"), utils.ErrProductNotFound)
			continue
		}

		qty := r.intVal("Quantity")
		typ := r.str("Type")
		if typ == "" {
			typ = "manual"
		}
		change := qty * models.AdjustmentMultiplier(typ)

		var updates []models.ProductUpdate
		if pid == models.AllProductsSentinel {
			for _, id := range models.ProductIDs() {
				updates = append(updates, models.ProductUpdate{ProductID: id, Change: change})
			}
		} else {
			updates = append(updates, models.ProductUpdate{ProductID: pid, Change: change})
		}

		notes := r.str("Reason")
		if notes == "" {
			notes = "Manual Adjustment"
		}

		entries = append(entries, models.ActivityLog{
			ID:             fmt.Sprintf("adj-%d", i),
			Timestamp:      utils.ParseTimestamp(r.str("Date")),
			Type:           models.LedgerType(typ),
			ProductUpdates: updates,
			UserID:         "manual",
			UserName:       "Admin",
			Notes:          notes,
		})
	}
	return entries
}

// WriteAdjustment forwards a validated manual adjustment to the webhook
// write endpoint. Unlike the read paths this propagates failure: the caller
// must know whether the row landed before triggering a re-sync.
func (a *Adapter) WriteAdjustment(ctx context.Context, req WriteAdjustmentRequest) error {
	if err := a.client.postJSON(ctx, pathAdjustmentsWrite, req); err != nil {
		config.LogError(config.GetLogger(), "feeds", "WriteAdjustment", "post adjustment", req, err)
		return err
	}
	return nil
}
