package workflow

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/ahadnetwork/inventory_backend/feeds"
	"bitbucket.org/ahadnetwork/inventory_backend/models"
)

// AdjustmentGateway is the remote side of a manual adjustment: the write
// endpoint plus the feeds needed for the follow-up re-sync.
type AdjustmentGateway interface {
	FeedSource
	WriteAdjustment(ctx context.Context, req feeds.WriteAdjustmentRequest) error
}

// AdjustmentRequest is a user-initiated manual stock change. ProductID is a
// catalog id or models.AllProductsSentinel.
type AdjustmentRequest struct {
	ProductID string
	Quantity  int
	Type      string
	Date      time.Time
	Reason    string
}

// ValidationError reports a rejected submission with enough detail to
// correct it: the offending field, and for stock failures the SKU and the
// number of units short.
type ValidationError struct {
	Field     string `json:"field,omitempty"`
	ProductID string `json:"productId,omitempty"`
	Shortfall int    `json:"shortfall,omitempty"`
	Message   string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SubmitAdjustment validates a manual stock change, forwards it to the
// remote write endpoint, and triggers a full reconciliation so the entry
// flows back through the authoritative replay. The remote sheet is the
// system of record for adjustments; nothing is written locally here.
//
// Deductions that would take any affected SKU negative reject the whole
// submission. No partial application.
func SubmitAdjustment(ctx context.Context, store models.Store, gateway AdjustmentGateway, user *models.User, req AdjustmentRequest) (*SyncResult, error) {
	if user == nil {
		return nil, &ValidationError{Field: "user", Message: "must be logged in to make adjustments"}
	}
	if req.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be a positive integer"}
	}
	if req.Reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "reason is required"}
	}
	if !models.AdjustmentTypes[req.Type] {
		return nil, &ValidationError{Field: "type", Message: fmt.Sprintf("unknown adjustment type %q", req.Type)}
	}
	if req.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Message: "date is required"}
	}
	if req.Date.After(time.Now().Add(time.Minute)) {
		return nil, &ValidationError{Field: "date", Message: "date must not be in the future"}
	}

	catalog := store.ReadCatalog()

	var affected []string
	if req.ProductID == models.AllProductsSentinel {
		affected = models.ProductIDs()
	} else if _, ok := catalog[req.ProductID]; ok {
		affected = []string{req.ProductID}
	} else {
		return nil, &ValidationError{Field: "product", ProductID: req.ProductID, Message: fmt.Sprintf("unknown product %q", req.ProductID)}
	}

	if models.IsDeductionType(req.Type) {
		for _, id := range affected {
			product := catalog[id]
			if product.Stock-req.Quantity < 0 {
				return nil, &ValidationError{
					Field:     "quantity",
					ProductID: id,
					Shortfall: req.Quantity - product.Stock,
					Message: fmt.Sprintf("insufficient stock for %s: have %d, need %d",
						product.Name, product.Stock, req.Quantity),
				}
			}
		}
	}

	productField := "All"
	if req.ProductID != models.AllProductsSentinel {
		productField = catalog[req.ProductID].Name
	}

	if err := gateway.WriteAdjustment(ctx, feeds.WriteAdjustmentRequest{
		Date:     req.Date.UTC().Format(time.RFC3339),
		Product:  productField,
		Quantity: req.Quantity,
		Type:     req.Type,
		Reason:   req.Reason,
	}); err != nil {
		return nil, err
	}

	return SyncInventory(ctx, store, gateway)
}
