package models

import "github.com/shopspring/decimal"

// DiscountTier unlocks Percentage off every package add-on once at least
// MinServices add-ons are selected.
type DiscountTier struct {
	MinServices int             `json:"minServices"`
	Percentage  decimal.Decimal `json:"percentage"`
	Label       string          `json:"label"`
}

// PackageCalculation is derived from the current selection and never stored on its own.
type PackageCalculation struct {
	OriginalTotal      decimal.Decimal `json:"originalTotal"`
	DiscountedTotal    decimal.Decimal `json:"discountedTotal"`
	Savings            decimal.Decimal `json:"savings"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	TotalWithBase      decimal.Decimal `json:"totalWithBase"`
}

// NextTier describes the closest tier above the current add-on count.
type NextTier struct {
	Tier           *DiscountTier `json:"nextTier"`
	ServicesNeeded int           `json:"servicesNeeded"`
}
