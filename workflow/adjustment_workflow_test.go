package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"bitbucket.org/ahadnetwork/inventory_backend/feeds"
	"bitbucket.org/ahadnetwork/inventory_backend/models"
)

// fakeGateway records writes and plays them back as the adjustments feed,
// the way the webhook sheet would on the next sync.
type fakeGateway struct {
	fakeFeeds
	written  []feeds.WriteAdjustmentRequest
	writeErr error
}

func (g *fakeGateway) WriteAdjustment(ctx context.Context, req feeds.WriteAdjustmentRequest) error {
	if g.writeErr != nil {
		return g.writeErr
	}
	g.written = append(g.written, req)

	change := req.Quantity * models.AdjustmentMultiplier(req.Type)
	var updates []models.ProductUpdate
	if req.Product == "All" {
		for _, id := range models.ProductIDs() {
			updates = append(updates, models.ProductUpdate{ProductID: id, Change: change})
		}
	} else {
		for id, p := range models.DefaultProducts() {
			if p.Name == req.Product {
				updates = append(updates, models.ProductUpdate{ProductID: id, Change: change})
			}
		}
	}
	g.adjustments = append(g.adjustments, models.ActivityLog{
		ID:             "adj-0",
		Timestamp:      time.Now().UTC(),
		Type:           models.LedgerType(req.Type),
		ProductUpdates: updates,
		UserID:         "manual",
		UserName:       "Admin",
		Notes:          req.Reason,
	})
	return nil
}

var testUser = &models.User{ID: "user-002", Name: "Aiman", Role: models.UserRoleStaff}

func validRequest() AdjustmentRequest {
	return AdjustmentRequest{
		ProductID: models.ProductBarleyBest,
		Quantity:  10,
		Type:      "add",
		Date:      time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Reason:    "Recount after delivery",
	}
}

func expectValidationError(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != field {
		t.Fatalf("expected rejection on field %q, got %q (%s)", field, verr.Field, verr.Message)
	}
	return verr
}

func TestSubmitAdjustment_WritesRemoteThenResyncs(t *testing.T) {
	store := models.NewMemoryStore()
	gateway := &fakeGateway{}

	result, err := SubmitAdjustment(context.Background(), store, gateway, testUser, validRequest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(gateway.written) != 1 {
		t.Fatalf("expected 1 remote write, got %d", len(gateway.written))
	}
	if gateway.written[0].Product != "Ahad Barley Best" {
		t.Fatalf("expected product name on the wire, got %q", gateway.written[0].Product)
	}

	// Seed leaves barley-best at 900; the +10 flows back via the feed.
	if got := result.Catalog[models.ProductBarleyBest].Stock; got != 910 {
		t.Fatalf("expected 910 after resync, got %d", got)
	}
	if got := store.ReadCatalog()[models.ProductBarleyBest].Stock; got != 910 {
		t.Fatalf("resync result not visible in store, got %d", got)
	}
}

func TestSubmitAdjustment_ValidationRejections(t *testing.T) {
	store := models.NewMemoryStore()
	gateway := &fakeGateway{}

	cases := []struct {
		name   string
		mutate func(*AdjustmentRequest)
		field  string
	}{
		{"zero quantity", func(r *AdjustmentRequest) { r.Quantity = 0 }, "quantity"},
		{"negative quantity", func(r *AdjustmentRequest) { r.Quantity = -3 }, "quantity"},
		{"empty reason", func(r *AdjustmentRequest) { r.Reason = "" }, "reason"},
		{"unknown type", func(r *AdjustmentRequest) { r.Type = "shrinkage" }, "type"},
		{"future date", func(r *AdjustmentRequest) { r.Date = time.Now().Add(48 * time.Hour) }, "date"},
		{"zero date", func(r *AdjustmentRequest) { r.Date = time.Time{} }, "date"},
		{"unknown product", func(r *AdjustmentRequest) { r.ProductID = "colostrum-x" }, "product"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := SubmitAdjustment(context.Background(), store, gateway, testUser, req)
			expectValidationError(t, err, tc.field)
		})
	}

	if len(gateway.written) != 0 {
		t.Fatalf("rejected submissions must not reach the write endpoint")
	}
}

func TestSubmitAdjustment_NoUser(t *testing.T) {
	_, err := SubmitAdjustment(context.Background(), models.NewMemoryStore(), &fakeGateway{}, nil, validRequest())
	expectValidationError(t, err, "user")
}

func TestSubmitAdjustment_DeductionBelowZeroRejectedWithShortfall(t *testing.T) {
	store := storeWithCatalog(t, map[string]int{models.ProductColostrumG: 3})
	gateway := &fakeGateway{}

	req := validRequest()
	req.ProductID = models.ProductColostrumG
	req.Quantity = 10
	req.Type = "remove"

	_, err := SubmitAdjustment(context.Background(), store, gateway, testUser, req)
	verr := expectValidationError(t, err, "quantity")
	if verr.ProductID != models.ProductColostrumG {
		t.Fatalf("expected offending SKU reported, got %q", verr.ProductID)
	}
	if verr.Shortfall != 7 {
		t.Fatalf("expected shortfall 7, got %d", verr.Shortfall)
	}
	if len(gateway.written) != 0 {
		t.Fatalf("rejected deduction must not reach the write endpoint")
	}
}

func TestSubmitAdjustment_AllProductsDeductionRejectsWholeSubmission(t *testing.T) {
	// One SKU short blocks the whole fan-out; no partial application.
	store := storeWithCatalog(t, map[string]int{models.ProductBarleyBest: 2})
	gateway := &fakeGateway{}

	req := validRequest()
	req.ProductID = models.AllProductsSentinel
	req.Quantity = 5
	req.Type = "damaged"

	_, err := SubmitAdjustment(context.Background(), store, gateway, testUser, req)
	verr := expectValidationError(t, err, "quantity")
	if verr.ProductID != models.ProductBarleyBest {
		t.Fatalf("expected barley-best reported, got %q", verr.ProductID)
	}
	if len(gateway.written) != 0 {
		t.Fatalf("no remote write on rejection")
	}
}

func TestSubmitAdjustment_AllProductsAdditionFansOut(t *testing.T) {
	store := models.NewMemoryStore()
	gateway := &fakeGateway{}

	req := validRequest()
	req.ProductID = models.AllProductsSentinel
	req.Type = "add"
	req.Quantity = 7

	result, err := SubmitAdjustment(context.Background(), store, gateway, testUser, req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if gateway.written[0].Product != "All" {
		t.Fatalf("expected All sentinel on the wire, got %q", gateway.written[0].Product)
	}

	// Every SKU gains 7 on top of its seed-replayed balance.
	want := map[string]int{
		models.ProductColostrumP: 921,
		models.ProductColostrumG: 923,
		models.ProductBarleyBest: 907,
	}
	for id, stock := range want {
		if got := result.Catalog[id].Stock; got != stock {
			t.Fatalf("%s: expected %d, got %d", id, stock, got)
		}
	}
}

func TestSubmitAdjustment_RemoteWriteFailureAbortsSync(t *testing.T) {
	store := models.NewMemoryStore()
	gateway := &fakeGateway{writeErr: errors.New("webhook write error 502")}

	_, err := SubmitAdjustment(context.Background(), store, gateway, testUser, validRequest())
	if err == nil {
		t.Fatalf("expected write failure to propagate")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Fatalf("transport failure must not masquerade as a validation error")
	}
}
