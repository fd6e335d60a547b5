package feeds

import (
	"encoding/json"
	"strconv"
	"strings"
)

// row is one normalized feed record. Field names are matched
// case-insensitively because the upstream sheets are hand-edited and
// header casing drifts between revisions.
type row map[string]json.RawMessage

func newRow(m map[string]json.RawMessage) row {
	r := make(row, len(m))
	for k, v := range m {
		r[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return r
}

// str returns the named field as a string, tolerating JSON strings and
// numbers. Missing or null fields come back empty.
func (r row) str(name string) string {
	raw, ok := r[strings.ToLower(name)]
	if !ok || len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// intVal returns the named field as an int, tolerating quoted numbers.
func (r row) intVal(name string) int {
	s := strings.TrimSpace(r.str(name))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// WriteAdjustmentRequest is the payload the webhook write endpoint accepts.
type WriteAdjustmentRequest struct {
	Date     string `json:"date"`
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Type     string `json:"type"`
	Reason   string `json:"reason"`
}
