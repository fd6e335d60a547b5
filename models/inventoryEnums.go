package models

type ActivityType string

const (
	ActivityTypeInvoice      ActivityType = "invoice"
	ActivityTypeManual       ActivityType = "manual"
	ActivityTypeTemporaryOut ActivityType = "temporary-out"
	ActivityTypeReturn       ActivityType = "return"
	ActivityTypeDamaged      ActivityType = "damaged"
	ActivityTypeMissing      ActivityType = "missing"
	ActivityTypeExpired      ActivityType = "expired"
	ActivityTypeSampleDemo   ActivityType = "sample-demo"
)

// AdjustmentTypes are the type tags a manual adjustment may carry, either
// from the dashboard form or from the adjustments webhook feed.
// "add" and "remove" are form-level tags that land in the ledger as "manual".
var AdjustmentTypes = map[string]bool{
	"add":           true,
	"remove":        true,
	"return":        true,
	"temporary-out": true,
	"damaged":       true,
	"missing":       true,
	"expired":       true,
	"sample-demo":   true,
}

// deductionTypes drive the sign of an adjustment quantity.
// Anything outside this set counts as an addition.
var deductionTypes = map[string]bool{
	"remove":        true,
	"temporary-out": true,
	"damaged":       true,
	"missing":       true,
	"expired":       true,
	"sample-demo":   true,
}

func IsDeductionType(t string) bool {
	return deductionTypes[t]
}

// AdjustmentMultiplier maps an adjustment type tag to a signed multiplier.
func AdjustmentMultiplier(t string) int {
	if deductionTypes[t] {
		return -1
	}
	return 1
}

// LedgerType maps a form-level adjustment tag to the ActivityType stored in
// the ledger. add/remove collapse to "manual"; the rest are kept verbatim.
func LedgerType(t string) ActivityType {
	switch t {
	case "add", "remove":
		return ActivityTypeManual
	default:
		return ActivityType(t)
	}
}

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleStaff  UserRole = "staff"
	UserRoleViewer UserRole = "viewer"
)

type PackageType string

const (
	PackageTypeBronze PackageType = "bronze"
	PackageTypeSilver PackageType = "silver"
	PackageTypeGold   PackageType = "gold"
)
