package feeds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Endpoints on the workflow-automation webhook service. The schemas behind
// them are upstream contracts; the adapters normalize whatever comes back.
const (
	pathSales            = "/get-inventory"
	pathAdjustmentsRead  = "/get-adjustments"
	pathAdjustmentsWrite = "/post-adjustment"
)

type webhookClient struct {
	baseURL string
	http    *http.Client
}

func newWebhookClient() *webhookClient {
	baseURL := strings.TrimSpace(os.Getenv("SHEETS_WEBHOOK_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://n8n.ahader.cloud/webhook"
	}
	return &webhookClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Bounded: a hung webhook must not block the dashboard.
		http: &http.Client{Timeout: 8 * time.Second},
	}
}

// getRows fetches and unwraps a tabular feed. Responses may be a bare JSON
// array or wrapped in a {"data": [...]} / {"items": [...]} envelope.
func (c *webhookClient) getRows(ctx context.Context, path string) ([]row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return decodeRows(body)
}

func decodeRows(body []byte) ([]row, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var envelope struct {
			Data  []map[string]json.RawMessage `json:"data"`
			Items []map[string]json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		raw = envelope.Data
		if len(raw) == 0 {
			raw = envelope.Items
		}
	}

	rows := make([]row, 0, len(raw))
	for _, m := range raw {
		rows = append(rows, newRow(m))
	}
	return rows, nil
}

// postJSON sends a write to the webhook; success is any 2xx status.
func (c *webhookClient) postJSON(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook write error %d", resp.StatusCode)
	}
	return nil
}
