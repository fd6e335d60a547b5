package models

import (
	"regexp"
	"strconv"
	"strings"
)

// SKUDelta is one resolved per-product deduction for a sales line item.
type SKUDelta struct {
	ProductID string
	Change    int
}

// AllProductsSentinel marks a manual adjustment that applies to every SKU.
// It is a distinct value, never matched by substring against product names.
const AllProductsSentinel = "all"

var qtySuffixRe = regexp.MustCompile(`\(x(\d+)\)`)

// lineItemRule maps a keyword found in free-text product descriptions to the
// per-SKU deductions one unit of that item produces. Rules are evaluated in
// order; the first match wins for a given item.
type lineItemRule struct {
	keyword string
	deltas  []SKUDelta
}

func bundleDeltas(multiplier int) []SKUDelta {
	deltas := make([]SKUDelta, 0, 3)
	for _, id := range ProductIDs() {
		deltas = append(deltas, SKUDelta{ProductID: id, Change: -multiplier})
	}
	return deltas
}

// lineItemRules is shared by the sales feed adapter and the inbound invoice
// endpoint so the two paths can never diverge on product matching.
var lineItemRules = []lineItemRule{
	{keyword: "gold", deltas: bundleDeltas(5)},
	{keyword: "silver", deltas: bundleDeltas(2)},
	{keyword: "bronze", deltas: bundleDeltas(1)},
	{keyword: "barley", deltas: []SKUDelta{{ProductID: ProductBarleyBest, Change: -1}}},
	{keyword: "colostrum p", deltas: []SKUDelta{{ProductID: ProductColostrumP, Change: -1}}},
	{keyword: "colostrum g", deltas: []SKUDelta{{ProductID: ProductColostrumG, Change: -1}}},
}

// ResolveLineItems translates a free-text product string into per-SKU
// deductions. Items are comma separated; an optional "(xN)" suffix scales
// the match. Unmatched items contribute nothing.
func ResolveLineItems(productStr string) []SKUDelta {
	if strings.TrimSpace(productStr) == "" {
		return nil
	}
	var changes []SKUDelta
	for _, item := range strings.Split(productStr, ",") {
		item = strings.TrimSpace(item)
		qty := 1
		if m := qtySuffixRe.FindStringSubmatch(item); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				qty = n
			}
		}
		name := strings.ToLower(item)
		for _, rule := range lineItemRules {
			if strings.Contains(name, rule.keyword) {
				for _, d := range rule.deltas {
					changes = append(changes, SKUDelta{ProductID: d.ProductID, Change: d.Change * qty})
				}
				break
			}
		}
	}
	return changes
}

// ResolveLineItemQuantity resolves a single named line item at an explicit
// quantity, as the inbound invoice endpoint receives it. Bundles scale by
// their fixed multiplier; individual products deduct the quantity directly.
// A nil result means the name matched nothing in the catalog.
func ResolveLineItemQuantity(productName string, quantity int) []SKUDelta {
	name := strings.ToLower(strings.TrimSpace(productName))
	if name == "" || quantity <= 0 {
		return nil
	}
	for _, rule := range lineItemRules {
		if strings.Contains(name, rule.keyword) {
			deltas := make([]SKUDelta, 0, len(rule.deltas))
			for _, d := range rule.deltas {
				deltas = append(deltas, SKUDelta{ProductID: d.ProductID, Change: d.Change * quantity})
			}
			return deltas
		}
	}
	return nil
}

// MatchAdjustmentProduct maps the free-text product field of an adjustment
// row to a catalog id, or to AllProductsSentinel for the "All" sentinel.
// The sentinel is recognized only as the whole (trimmed) value, not by
// substring, so a product name containing "all" can never fan out.
func MatchAdjustmentProduct(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == AllProductsSentinel || n == "all products":
		return AllProductsSentinel, true
	case strings.Contains(n, "colostrum p"):
		return ProductColostrumP, true
	case strings.Contains(n, "colostrum g"):
		return ProductColostrumG, true
	case strings.Contains(n, "barley"):
		return ProductBarleyBest, true
	}
	return "", false
}
