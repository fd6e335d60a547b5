package feeds

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bitbucket.org/ahadnetwork/inventory_backend/models"
)

func adapterFor(t *testing.T, handler http.Handler) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("SHEETS_WEBHOOK_BASE_URL", srv.URL)
	return NewAdapter()
}

func salesServer(t *testing.T, body string) *Adapter {
	t.Helper()
	return adapterFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathSales {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func adjustmentsServer(t *testing.T, body string) *Adapter {
	t.Helper()
	return adapterFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathAdjustmentsRead {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestFetchSalesEntries_NormalizesPaidRows(t *testing.T) {
	adapter := salesServer(t, `[
		{"Order ID": "2001", "Date": "2025-08-10", "Status": "Completed",
		 "Products": "Gold Package", "Customer": "Husaini"},
		{"Order ID": "2002", "Date": "2025-08-11", "Status": "pending",
		 "Products": "Bronze Package", "Customer": "Farah"}
	]`)

	entries := adapter.FetchSalesEntries(context.Background(), map[string]bool{})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (pending dropped), got %d", len(entries))
	}

	e := entries[0]
	if e.ID != "sale-2001" || e.OrderNumber != "2001" {
		t.Fatalf("unexpected identity: id=%q order=%q", e.ID, e.OrderNumber)
	}
	if e.Type != models.ActivityTypeInvoice {
		t.Fatalf("expected invoice type, got %s", e.Type)
	}
	if len(e.ProductUpdates) != 3 {
		t.Fatalf("gold bundle should expand to 3 updates, got %d", len(e.ProductUpdates))
	}
	for _, u := range e.ProductUpdates {
		if u.Change != -5 {
			t.Fatalf("%s: expected -5, got %d", u.ProductID, u.Change)
		}
	}
	if e.UserName != "Husaini" {
		t.Fatalf("expected customer attribution, got %q", e.UserName)
	}
	want := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	if !e.Timestamp.Equal(want) {
		t.Fatalf("expected %s, got %s", want, e.Timestamp)
	}
}

func TestFetchSalesEntries_EnvelopeAndHeaderCasing(t *testing.T) {
	adapter := salesServer(t, `{"data": [
		{"order id": "2003", "DATE": "2025-08-12", "STATUS": "processing",
		 "products": "Ahad Barley Best (x2)", "customer": "Anuar"}
	]}`)

	entries := adapter.FetchSalesEntries(context.Background(), map[string]bool{})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	u := entries[0].ProductUpdates[0]
	if u.ProductID != models.ProductBarleyBest || u.Change != -2 {
		t.Fatalf("expected barley-best -2, got %s %d", u.ProductID, u.Change)
	}
}

func TestFetchSalesEntries_DropsSeedDuplicatesAndNoise(t *testing.T) {
	adapter := salesServer(t, `[
		{"Order ID": "1437", "Date": "2024-10-24", "Status": "completed",
		 "Products": "Gold Package"},
		{"Order ID": "2004", "Date": "2025-08-13", "Status": "completed",
		 "Products": "Mystery Box"},
		{"Order ID": "2005", "Date": "2025-08-13", "Status": "completed",
		 "Products": "Silver Package"}
	]`)

	entries := adapter.FetchSalesEntries(context.Background(), map[string]bool{"1437": true})
	if len(entries) != 1 {
		t.Fatalf("expected only 2005 to survive, got %d entries", len(entries))
	}
	if entries[0].OrderNumber != "2005" {
		t.Fatalf("expected order 2005, got %q", entries[0].OrderNumber)
	}
}

func TestFetchSalesEntries_BadDateGetsEpochSentinel(t *testing.T) {
	adapter := salesServer(t, `[
		{"Order ID": "2006", "Date": "not a date", "Status": "completed",
		 "Products": "Bronze Package"}
	]`)

	entries := adapter.FetchSalesEntries(context.Background(), map[string]bool{})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Timestamp.Equal(time.Unix(0, 0).UTC()) {
		t.Fatalf("expected epoch sentinel, got %s", entries[0].Timestamp)
	}
}

func TestFetchSalesEntries_FetchFailureYieldsEmptyList(t *testing.T) {
	adapter := adapterFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))

	entries := adapter.FetchSalesEntries(context.Background(), map[string]bool{})
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil list on failure, got %#v", entries)
	}
}

func TestFetchAdjustmentEntries_DeductionMultiplier(t *testing.T) {
	adapter := adjustmentsServer(t, `[
		{"Date": "2025-08-14", "Product": "Ahad Colostrum P", "Quantity": 6,
		 "Type": "damaged", "Reason": "Crushed carton"}
	]`)

	entries := adapter.FetchAdjustmentEntries(context.Background())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Type != models.ActivityTypeDamaged {
		t.Fatalf("expected damaged type, got %s", e.Type)
	}
	if u := e.ProductUpdates[0]; u.ProductID != models.ProductColostrumP || u.Change != -6 {
		t.Fatalf("expected colostrum-p -6, got %s %d", u.ProductID, u.Change)
	}
	if e.Notes != "Crushed carton" {
		t.Fatalf("expected reason carried into notes, got %q", e.Notes)
	}
	if e.UserID != "manual" || e.UserName != "Admin" {
		t.Fatalf("expected manual/Admin attribution, got %s/%s", e.UserID, e.UserName)
	}
}

func TestFetchAdjustmentEntries_AllFansOutPerSKU(t *testing.T) {
	adapter := adjustmentsServer(t, `[
		{"Date": "2025-08-15", "Product": "All", "Quantity": "3", "Type": "add"}
	]`)

	entries := adapter.FetchAdjustmentEntries(context.Background())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if len(e.ProductUpdates) != len(models.ProductIDs()) {
		t.Fatalf("expected one update per SKU, got %d", len(e.ProductUpdates))
	}
	for _, u := range e.ProductUpdates {
		if u.Change != 3 {
			t.Fatalf("%s: expected +3, got %d", u.ProductID, u.Change)
		}
	}
	if e.Notes != "Manual Adjustment" {
		t.Fatalf("expected default notes, got %q", e.Notes)
	}
}

func TestFetchAdjustmentEntries_UnknownProductDropped(t *testing.T) {
	adapter := adjustmentsServer(t, `[
		{"Date": "2025-08-16", "Product": "Ahad Spirulina", "Quantity": 2, "Type": "remove"},
		{"Date": "2025-08-16", "Product": "Ahad Barley Best", "Quantity": 2, "Type": "remove"}
	]`)

	entries := adapter.FetchAdjustmentEntries(context.Background())
	if len(entries) != 1 {
		t.Fatalf("expected unknown product dropped, got %d entries", len(entries))
	}
	if entries[0].ProductUpdates[0].ProductID != models.ProductBarleyBest {
		t.Fatalf("wrong survivor: %s", entries[0].ProductUpdates[0].ProductID)
	}
}

func TestWriteAdjustment_PostsPayload(t *testing.T) {
	var got WriteAdjustmentRequest
	adapter := adapterFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathAdjustmentsWrite || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := WriteAdjustmentRequest{
		Date:     "2025-08-17T00:00:00Z",
		Product:  "Ahad Colostrum G",
		Quantity: 4,
		Type:     "expired",
		Reason:   "Past shelf date",
	}
	if err := adapter.WriteAdjustment(context.Background(), req); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if got != req {
		t.Fatalf("payload mismatch: sent %+v, server saw %+v", req, got)
	}
}

func TestWriteAdjustment_PropagatesFailure(t *testing.T) {
	adapter := adapterFor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sheet locked", http.StatusServiceUnavailable)
	}))

	err := adapter.WriteAdjustment(context.Background(), WriteAdjustmentRequest{
		Date: "2025-08-17", Product: "All", Quantity: 1, Type: "add", Reason: "x",
	})
	if err == nil {
		t.Fatalf("expected write failure to propagate")
	}
}

func TestDecodeRows_BareArrayAndEnvelopes(t *testing.T) {
	for _, body := range []string{
		`[{"A": 1}]`,
		`{"data": [{"A": 1}]}`,
		`{"items": [{"A": 1}]}`,
	} {
		rows, err := decodeRows([]byte(body))
		if err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		if len(rows) != 1 || rows[0].intVal("a") != 1 {
			t.Fatalf("decode %s: unexpected rows %#v", body, rows)
		}
	}
}

func TestRow_TolerantAccessors(t *testing.T) {
	rows, err := decodeRows([]byte(`[{" Order ID ": 1437, "Quantity": "12", "Price": 7.9}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r := rows[0]
	if r.str("order id") != "1437" {
		t.Fatalf("numeric field as string: got %q", r.str("order id"))
	}
	if r.intVal("Quantity") != 12 {
		t.Fatalf("quoted number: got %d", r.intVal("Quantity"))
	}
	if r.intVal("Price") != 7 {
		t.Fatalf("float truncation: got %d", r.intVal("Price"))
	}
	if r.str("missing") != "" {
		t.Fatalf("missing field should be empty")
	}
}
