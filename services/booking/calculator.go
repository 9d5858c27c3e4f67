package booking

import (
	"barberbook/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Aggregate is the running total shown under the service list.
type Aggregate struct {
	TotalDuration int             `json:"totalDuration"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// DisplayItem is the localized view of one selected service.
type DisplayItem struct {
	ServiceID      string           `json:"serviceId"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	Duration       int              `json:"duration"`
	OriginalPrice  *decimal.Decimal `json:"originalPrice,omitempty"`
	IsPackageAddOn bool             `json:"isPackageAddOn"`
	IsUpsellItem   bool             `json:"isUpsellItem"`
}

// ComputeAggregate sums durations and attached prices. Prices are taken as they are;
// discounting happens before the selection reaches here.
func ComputeAggregate(selected []models.SelectedService) Aggregate {
	agg := Aggregate{TotalPrice: decimal.Zero}
	for _, s := range selected {
		agg.TotalDuration += s.Service.Duration
		agg.TotalPrice = agg.TotalPrice.Add(s.Price)
	}
	return agg
}

// Project maps the selection to display items in the requested language.
func Project(selected []models.SelectedService, lang models.Language) []DisplayItem {
	items := make([]DisplayItem, 0, len(selected))
	for _, s := range selected {
		item := DisplayItem{
			ServiceID:      s.Service.ID,
			Name:           s.Service.Name(lang),
			Price:          s.Price,
			Duration:       s.Service.Duration,
			IsPackageAddOn: s.IsPackageAddOn,
			IsUpsellItem:   s.IsUpsellItem,
		}
		if s.IsDiscounted() {
			original := s.OriginalPrice
			item.OriginalPrice = &original
		}
		items = append(items, item)
	}
	return items
}

// EffectivePrice applies the catalog discount metadata of a service to its price.
// A fixed discount never takes the price below zero.
func EffectivePrice(s models.Service) decimal.Decimal {
	if !s.HasDiscount() {
		return s.Price
	}
	switch s.DiscountType {
	case models.DiscountTypePercentage:
		return applyPercentage(s.Price, decimal.Min(s.DiscountValue, hundred))
	case models.DiscountTypeFixed:
		return decimal.Max(s.Price.Sub(s.DiscountValue), decimal.Zero)
	}
	return s.Price
}

// SelectOptions tells NewSelection which role the service plays in the selection.
type SelectOptions struct {
	AsPackageBase bool
	MainServiceID string
}

// NewSelection builds the selected form of a catalog service. A package base is
// always charged at its catalog price.
func NewSelection(s models.Service, opts SelectOptions) models.SelectedService {
	sel := models.SelectedService{
		Service:            s,
		Price:              s.Price,
		DiscountPercentage: decimal.Zero,
	}
	switch {
	case opts.AsPackageBase:
		sel.IsBasePackageService = true
	case opts.MainServiceID != "":
		sel.IsPackageAddOn = true
		sel.MainServiceID = opts.MainServiceID
		fallthrough
	default:
		sel.Price = EffectivePrice(s)
	}
	sel.ListPrice = sel.Price
	if sel.Price.LessThan(s.Price) {
		sel.OriginalPrice = s.Price
	}
	return sel
}

// NewUpsellSelection turns an accepted offer into a selected service.
func NewUpsellSelection(offer models.UpsellOffer) models.SelectedService {
	sel := models.SelectedService{
		Service:            offer.Service,
		Price:              offer.OfferPrice,
		ListPrice:          offer.OfferPrice,
		DiscountPercentage: decimal.Zero,
		IsUpsellItem:       true,
		MainServiceID:      offer.MainServiceID,
	}
	if offer.OfferPrice.LessThan(offer.Service.Price) {
		sel.OriginalPrice = offer.Service.Price
	}
	return sel
}
