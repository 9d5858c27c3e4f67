package models

import "github.com/shopspring/decimal"

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Service is a catalog entry offered by a shop. The booking flow only reads it.
type Service struct {
	ID            string          `json:"id"`
	ShopID        string          `json:"shopId"`
	CategoryID    string          `json:"categoryId"`
	NameEN        string          `json:"nameEn"`
	NameAR        string          `json:"nameAr,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Duration      int             `json:"duration"` // minutes
	DisplayOrder  int             `json:"displayOrder"`
	DiscountType  string          `json:"discountType,omitempty"`
	DiscountValue decimal.Decimal `json:"discountValue"`
}

// Name returns the service name in lang, falling back to English.
func (s Service) Name(lang Language) string {
	if lang == LanguageArabic && s.NameAR != "" {
		return s.NameAR
	}
	return s.NameEN
}

// HasDiscount reports whether the catalog attaches discount metadata to the service.
func (s Service) HasDiscount() bool {
	return (s.DiscountType == DiscountTypePercentage || s.DiscountType == DiscountTypeFixed) &&
		s.DiscountValue.IsPositive()
}

type Category struct {
	ID           string `json:"id"`
	ShopID       string `json:"shopId"`
	NameEN       string `json:"nameEn"`
	NameAR       string `json:"nameAr,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
}

func (c Category) Name(lang Language) string {
	if lang == LanguageArabic && c.NameAR != "" {
		return c.NameAR
	}
	return c.NameEN
}

// CategoryServices is one category of the catalog with its services in display order.
type CategoryServices struct {
	Category Category  `json:"category"`
	Services []Service `json:"services"`
}

// SelectedService is a catalog service the customer picked during a booking session,
// annotated with the flags the package and upsell logic need.
type SelectedService struct {
	Service              Service         `json:"service"`
	Price                decimal.Decimal `json:"price"`
	ListPrice            decimal.Decimal `json:"listPrice"` // price before any package discount
	OriginalPrice        decimal.Decimal `json:"originalPrice"`
	DiscountPercentage   decimal.Decimal `json:"discountPercentage"`
	IsBasePackageService bool            `json:"isBasePackageService"`
	IsPackageAddOn       bool            `json:"isPackageAddOn"`
	IsUpsellItem         bool            `json:"isUpsellItem"`
	MainServiceID        string          `json:"mainServiceId,omitempty"`
}

// IsDiscounted reports whether the attached price is below the catalog price.
func (s SelectedService) IsDiscounted() bool {
	return s.OriginalPrice.IsPositive() && s.Price.LessThan(s.OriginalPrice)
}
