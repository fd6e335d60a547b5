package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	Name        string          `json:"name"`
	SKU         string          `gorm:"column:sku" json:"sku"`
	Stock       int             `json:"stock"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(12,2)" json:"costPrice"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"retailPrice"`
	MinAlert    int             `json:"minAlert"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// The three SKUs this distributor carries. Stable keys; everything else in
// the system references products by these ids.
const (
	ProductColostrumP = "colostrum-p"
	ProductColostrumG = "colostrum-g"
	ProductBarleyBest = "barley-best"
)

// InitialStock is the opening balance every ledger replay starts from.
const InitialStock = 1000

// ProductIDs returns the catalog keys in their fixed display order.
func ProductIDs() []string {
	return []string{ProductColostrumP, ProductColostrumG, ProductBarleyBest}
}

// DefaultProducts returns the static catalog at opening stock. Callers get a
// fresh copy each time; replay mutates its result in place.
func DefaultProducts() map[string]*Product {
	now := time.Now().UTC()
	return map[string]*Product{
		ProductColostrumP: {
			ID:          ProductColostrumP,
			Name:        "Ahad Colostrum P",
			SKU:         "ACP-001",
			Stock:       InitialStock,
			CostPrice:   decimal.NewFromFloat(37.00),
			RetailPrice: decimal.NewFromFloat(175.00),
			MinAlert:    100,
			LastUpdated: now,
		},
		ProductColostrumG: {
			ID:          ProductColostrumG,
			Name:        "Ahad Colostrum G",
			SKU:         "ACG-001",
			Stock:       InitialStock,
			CostPrice:   decimal.NewFromFloat(48.00),
			RetailPrice: decimal.NewFromFloat(150.00),
			MinAlert:    100,
			LastUpdated: now,
		},
		ProductBarleyBest: {
			ID:          ProductBarleyBest,
			Name:        "Ahad Barley Best",
			SKU:         "ABB-001",
			Stock:       InitialStock,
			CostPrice:   decimal.NewFromFloat(24.00),
			RetailPrice: decimal.NewFromFloat(135.00),
			MinAlert:    100,
			LastUpdated: now,
		},
	}
}

type Package struct {
	Type       PackageType     `json:"type"`
	Name       string          `json:"name"`
	Multiplier int             `json:"multiplier"`
	Price      decimal.Decimal `json:"price"`
}

// Packages are the fixed-ratio bundles. One package unit consumes Multiplier
// units of every SKU in the catalog.
func Packages() []Package {
	return []Package{
		{Type: PackageTypeBronze, Name: "Bronze Package", Multiplier: 1, Price: decimal.NewFromFloat(399.00)},
		{Type: PackageTypeSilver, Name: "Silver Package", Multiplier: 2, Price: decimal.NewFromFloat(749.00)},
		{Type: PackageTypeGold, Name: "Gold Package", Multiplier: 5, Price: decimal.NewFromFloat(1699.00)},
	}
}

func PackageMultiplier(t PackageType) int {
	switch t {
	case PackageTypeGold:
		return 5
	case PackageTypeSilver:
		return 2
	default:
		return 1
	}
}
