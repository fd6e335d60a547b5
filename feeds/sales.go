package feeds

import (
	"context"
	"fmt"
	"strings"

	"bitbucket.org/ahadnetwork/inventory_backend/config"
	"bitbucket.org/ahadnetwork/inventory_backend/models"
	"bitbucket.org/ahadnetwork/inventory_backend/utils"
)

// Adapter reads the two remote feeds and writes manual adjustments back.
// Fetch errors never escape: a failed feed becomes an empty list and the
// reconciliation continues with whatever did arrive.
type Adapter struct {
	client *webhookClient
}

func NewAdapter() *Adapter {
	return &Adapter{client: newWebhookClient()}
}

// paidStatuses are the order states that count as a completed sale.
var paidStatuses = map[string]bool{
	"processing": true,
	"completed":  true,
}

// FetchSalesEntries pulls the sales feed and normalizes each paid row into a
// ledger entry. Rows whose order number already exists in the seed history
// are dropped (the seed is authoritative for pre-feed orders), as are rows
// that resolve to zero product changes.
func (a *Adapter) FetchSalesEntries(ctx context.Context, seedOrders map[string]bool) []models.ActivityLog {
	logger := config.GetLogger()

	rows, err := a.client.getRows(ctx, pathSales)
	if err != nil {
		config.LogError(logger, "feeds", "FetchSalesEntries", "fetch sales feed", nil, err)
		return []models.ActivityLog{}
	}

	entries := make([]models.ActivityLog, 0, len(rows))
	for i, r := range rows {
		status := strings.ToLower(strings.TrimSpace(r.str("Status")))
		orderID := strings.TrimSpace(r.str("Order ID"))

		if orderID != "" && seedOrders[orderID] {
			continue
		}
		if !paidStatuses[status] {
			continue
		}

		changes := models.ResolveLineItems(r.str("Products"))
		if len(changes) == 0 {
			// Unmatched product names; do not emit empty ledger noise.
			continue
		}

		id := fmt.Sprintf("sale-%s", orderID)
		if orderID == "" {
			id = fmt.Sprintf("sale-%d", i)
		}

		updates := make([]models.ProductUpdate, 0, len(changes))
		for _, c := range changes {
			updates = append(updates, models.ProductUpdate{
				ProductID: c.ProductID,
				Change:    c.Change,
			})
		}

		userName := r.str("Customer")
		if userName == "" {
			userName = "System"
		}

		entries = append(entries, models.ActivityLog{
			ID:             id,
			Timestamp:      utils.ParseTimestamp(r.str("Date")),
			Type:           models.ActivityTypeInvoice,
			OrderNumber:    orderID,
			ProductUpdates: updates,
			UserID:         "system",
			UserName:       userName,
			Notes:          fmt.Sprintf("%s - %s", r.str("Status"), r.str("Products")),
		})
	}
	return entries
}
