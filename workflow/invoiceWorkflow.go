package workflow

import (
	"context"
	"fmt"
	"strings"

	"bitbucket.org/ahadnetwork/inventory_backend/models"
	"bitbucket.org/ahadnetwork/inventory_backend/utils"
)

// Inbound invoice processing: an external order system pushes an order here
// and the whole order is validated before any of it is applied.

type InvoiceLineItem struct {
	ProductName string `json:"productName" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

type InvoiceRequest struct {
	OrderNumber string            `json:"orderNumber" binding:"required"`
	OrderDate   string            `json:"orderDate"`
	Customer    string            `json:"customer"`
	Items       []InvoiceLineItem `json:"items" binding:"required,min=1,dive"`
}

type StockUpdateSummary struct {
	Before int `json:"before"`
	After  int `json:"after"`
	Change int `json:"change"`
}

type InvoiceResponse struct {
	Success      bool                          `json:"success"`
	Message      string                        `json:"message"`
	Reason       string                        `json:"reason,omitempty"`
	OrderNumber  string                        `json:"orderNumber"`
	StockUpdates map[string]StockUpdateSummary `json:"stockUpdates"`
}

// ProcessInvoice resolves each line item through the shared line-item rules,
// validates sufficient stock for every resolved SKU across the whole order,
// then appends one ledger entry per affected SKU and persists the result.
// Rejections carry a structured reason: duplicate_order, product_not_found
// or insufficient_stock. A rejected order changes no stock at all.
func ProcessInvoice(ctx context.Context, store models.Store, user *models.User, req InvoiceRequest) (*InvoiceResponse, error) {
	reject := func(reason error, message string) (*InvoiceResponse, error) {
		return &InvoiceResponse{
			Success:      false,
			Message:      message,
			Reason:       reason.Error(),
			OrderNumber:  req.OrderNumber,
			StockUpdates: map[string]StockUpdateSummary{},
		}, reason
	}

	ledger := store.ReadLedger()
	for i := range ledger {
		if ledger[i].OrderNumber != "" && ledger[i].OrderNumber == req.OrderNumber {
			return reject(utils.ErrDuplicateOrder, fmt.Sprintf("order #%s has already been processed", req.OrderNumber))
		}
	}

	// Resolve the whole order before touching anything. Deductions for the
	// same SKU across line items accumulate.
	deductions := make(map[string]int)
	var names []string
	for _, item := range req.Items {
		deltas := models.ResolveLineItemQuantity(item.ProductName, item.Quantity)
		if len(deltas) == 0 {
			return reject(utils.ErrProductNotFound, fmt.Sprintf("product %q not found", item.ProductName))
		}
		for _, d := range deltas {
			deductions[d.ProductID] += d.Change
		}
		names = append(names, item.ProductName)
	}

	catalog := store.ReadCatalog()
	for _, id := range models.ProductIDs() {
		change, ok := deductions[id]
		if !ok {
			continue
		}
		if catalog[id].Stock+change < 0 {
			return reject(utils.ErrInsufficientStock,
				fmt.Sprintf("insufficient stock for %s: have %d, need %d",
					catalog[id].Name, catalog[id].Stock, -change))
		}
	}

	userID, userName := "system", "System"
	if user != nil {
		userID, userName = user.ID, user.Name
	}

	timestamp := utils.ParseTimestamp(req.OrderDate)
	notes := fmt.Sprintf("%s - Order #%s - %s", strings.Join(names, ", "), req.OrderNumber, req.Customer)

	// Apply per SKU in catalog order: one ledger entry per affected SKU.
	summary := make(map[string]StockUpdateSummary)
	var newEntries []models.ActivityLog
	for _, id := range models.ProductIDs() {
		change, ok := deductions[id]
		if !ok {
			continue
		}
		product := catalog[id]
		before := product.Stock
		product.Stock += change
		product.LastUpdated = timestamp

		newEntries = append(newEntries, models.ActivityLog{
			ID:          fmt.Sprintf("invoice-%s-%s", req.OrderNumber, id),
			Timestamp:   timestamp,
			Type:        models.ActivityTypeInvoice,
			OrderNumber: req.OrderNumber,
			ProductUpdates: []models.ProductUpdate{
				{ProductID: id, Before: before, After: product.Stock, Change: change},
			},
			UserID:   userID,
			UserName: userName,
			Notes:    notes,
		})
		summary[product.Name] = StockUpdateSummary{Before: before, After: product.Stock, Change: change}
	}

	// Ledger is stored newest first; the fresh entries go on top.
	updated := make([]models.ActivityLog, 0, len(newEntries)+len(ledger))
	for i := len(newEntries) - 1; i >= 0; i-- {
		updated = append(updated, newEntries[i])
	}
	updated = append(updated, ledger...)

	if err := store.Write(catalog, updated); err != nil {
		return nil, err
	}

	return &InvoiceResponse{
		Success:      true,
		Message:      "Inventory updated successfully",
		OrderNumber:  req.OrderNumber,
		StockUpdates: summary,
	}, nil
}
