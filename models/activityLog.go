package models

import "time"

// ActivityLog is one append-only stock-affecting event. Entries are never
// mutated after creation except for Before/After recomputation during replay,
// and never deleted.
type ActivityLog struct {
	ID             string          `gorm:"primaryKey;size:64" json:"id"`
	Seq            int             `gorm:"index" json:"-"`
	Timestamp      time.Time       `gorm:"index" json:"timestamp"`
	Type           ActivityType    `gorm:"size:32" json:"type"`
	OrderNumber    string          `gorm:"size:64;index" json:"orderNumber,omitempty"`
	ProductUpdates []ProductUpdate `gorm:"foreignKey:ActivityLogID;constraint:OnDelete:CASCADE" json:"productUpdates"`
	UserID         string          `gorm:"size:64" json:"userId"`
	UserName       string          `json:"userName"`
	Notes          string          `json:"notes"`
}

// ProductUpdate is one per-product before/after/change triple inside an
// ActivityLog. Before and After are placeholders (0) until replay fills
// them; raw adapter output must never be trusted for them.
type ProductUpdate struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	ActivityLogID string `gorm:"size:64;index" json:"-"`
	Position      int    `json:"-"`
	ProductID     string `gorm:"size:64" json:"productId"`
	Before        int    `json:"before"`
	After         int    `json:"after"`
	Change        int    `json:"change"`
}

// AffectsProduct reports whether the entry touches the given SKU.
func (a *ActivityLog) AffectsProduct(productID string) bool {
	for _, u := range a.ProductUpdates {
		if u.ProductID == productID {
			return true
		}
	}
	return false
}
