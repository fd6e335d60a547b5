package workflow

import (
	"fmt"

	"bitbucket.org/ahadnetwork/inventory_backend/models"
	"bitbucket.org/ahadnetwork/inventory_backend/utils"
)

// Seed history: orders that predate the webhook bookkeeping. These are the
// opening-balance equivalent of the ledger; the sales feed drops any row
// whose order number appears here so they are never double counted.
//
// Before/After are zero placeholders until replay fills them.

var (
	seedGoldOrders   = []string{"1437", "150", "151", "152", "154", "155", "157", "158", "159", "160", "161", "1018", "1275"}
	seedSilverOrders = []string{"1363", "1368", "1502", "1504"}
	seedBronzeOrders = []string{"1227", "1310", "1351", "1352", "1373", "1471", "1472", "1473", "1474", "1475", "1476"}
)

type seedIndividualOrder struct {
	orderNumber string
	date        string
	customer    string
	productID   string
	change      int
}

var seedIndividualOrders = []seedIndividualOrder{
	{"1367", "2025-04-27T00:00:00Z", "Husaini Bin Abdullah", models.ProductBarleyBest, -8},
	{"1370", "2025-05-15T00:00:00Z", "Husaini Bin Abdullah", models.ProductBarleyBest, -4},
	{"1501", "2025-11-16T00:00:00Z", "Husaini Bin Abdullah", models.ProductColostrumP, -2},
	{"1501", "2025-11-16T00:00:00Z", "Husaini Bin Abdullah", models.ProductBarleyBest, -4},
}

// SeedHistory returns the fixed pre-feed order population. Pure and
// deterministic: the same list every call.
func SeedHistory() []models.ActivityLog {
	var entries []models.ActivityLog
	counter := 0

	appendEntry := func(orderNumber, date, customer, productID string, change int) {
		counter++
		entries = append(entries, models.ActivityLog{
			ID:          fmt.Sprintf("activity-%03d", counter),
			Timestamp:   utils.ParseTimestamp(date),
			Type:        models.ActivityTypeInvoice,
			OrderNumber: orderNumber,
			ProductUpdates: []models.ProductUpdate{
				{ProductID: productID, Change: change},
			},
			UserID:   "system",
			UserName: "System",
			Notes:    fmt.Sprintf("%s - Order #%s", customer, orderNumber),
		})
	}

	for _, order := range seedGoldOrders {
		for _, pid := range models.ProductIDs() {
			appendEntry(order, "2024-10-24T00:00:00Z", "Historical Customer", pid, -5)
		}
	}
	for _, order := range seedSilverOrders {
		for _, pid := range models.ProductIDs() {
			appendEntry(order, "2025-03-18T00:00:00Z", "Historical Customer", pid, -2)
		}
	}
	for _, order := range seedBronzeOrders {
		for _, pid := range models.ProductIDs() {
			appendEntry(order, "2025-02-07T00:00:00Z", "Historical Customer", pid, -1)
		}
	}
	for _, o := range seedIndividualOrders {
		appendEntry(o.orderNumber, o.date, o.customer, o.productID, o.change)
	}

	return entries
}

// SeedOrderNumbers returns the dedup barrier the sales adapter checks
// incoming rows against.
func SeedOrderNumbers() map[string]bool {
	orders := make(map[string]bool)
	for _, entry := range SeedHistory() {
		if entry.OrderNumber != "" {
			orders[entry.OrderNumber] = true
		}
	}
	return orders
}
