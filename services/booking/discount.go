package booking

import (
	"fmt"

	"barberbook/models"

	"github.com/shopspring/decimal"
)

// ValidateTiers checks that a tier table is ordered by strictly increasing
// MinServices, that percentages never decrease from one tier to the next, and that
// every percentage lies in [0, 100].
func ValidateTiers(tiers []models.DiscountTier) error {
	for i, t := range tiers {
		if t.MinServices < 0 {
			return fmt.Errorf("%w: tier %d has negative minServices %d", ErrInvalidTierTable, i, t.MinServices)
		}
		if t.Percentage.IsNegative() || t.Percentage.GreaterThan(hundred) {
			return fmt.Errorf("%w: tier %d percentage %s outside [0,100]", ErrInvalidTierTable, i, t.Percentage)
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if t.MinServices <= prev.MinServices {
			return fmt.Errorf("%w: tier %d minServices %d not above %d", ErrInvalidTierTable, i, t.MinServices, prev.MinServices)
		}
		if t.Percentage.LessThan(prev.Percentage) {
			return fmt.Errorf("%w: tier %d percentage %s below previous %s", ErrInvalidTierTable, i, t.Percentage, prev.Percentage)
		}
	}
	return nil
}

// activeTier returns the qualifying tier with the greatest MinServices, if any.
func activeTier(tiers []models.DiscountTier, n int) (models.DiscountTier, bool) {
	var (
		best  models.DiscountTier
		found bool
	)
	for _, t := range tiers {
		if t.MinServices <= n && (!found || t.MinServices > best.MinServices) {
			best, found = t, true
		}
	}
	return best, found
}

func applyPercentage(price, percentage decimal.Decimal) decimal.Decimal {
	return price.Mul(hundred.Sub(percentage)).Div(hundred)
}

// listPrice is the price an add-on is discounted from. Selections built without a
// list price fall back to their attached price.
func listPrice(s models.SelectedService) decimal.Decimal {
	if s.ListPrice.IsZero() {
		return s.Price
	}
	return s.ListPrice
}

// Evaluate prices a package: every add-on gets the percentage of the highest tier
// its count qualifies for, and the base service is added at full price. The base is
// never counted toward a tier.
func Evaluate(tiers []models.DiscountTier, base models.Service, addOns []models.SelectedService) (models.PackageCalculation, error) {
	if err := ValidateTiers(tiers); err != nil {
		return models.PackageCalculation{}, err
	}

	percentage := decimal.Zero
	if tier, ok := activeTier(tiers, len(addOns)); ok {
		percentage = tier.Percentage
	}

	original, discounted := decimal.Zero, decimal.Zero
	for _, a := range addOns {
		list := listPrice(a)
		original = original.Add(list)
		discounted = discounted.Add(applyPercentage(list, percentage))
	}

	return models.PackageCalculation{
		OriginalTotal:      original,
		DiscountedTotal:    discounted,
		Savings:            original.Sub(discounted),
		DiscountPercentage: percentage,
		TotalWithBase:      discounted.Add(base.Price),
	}, nil
}

// NextTierInfo returns the smallest tier still out of reach with n add-ons and how
// many more add-ons unlock it. At the top tier it returns a nil tier and zero.
func NextTierInfo(tiers []models.DiscountTier, n int) models.NextTier {
	var next *models.DiscountTier
	for i := range tiers {
		t := tiers[i]
		if t.MinServices > n && (next == nil || t.MinServices < next.MinServices) {
			next = &t
		}
	}
	if next == nil {
		return models.NextTier{}
	}
	return models.NextTier{Tier: next, ServicesNeeded: next.MinServices - n}
}

// PackageAddOns returns the base package service of a selection and the add-ons
// attached to it.
func PackageAddOns(selected []models.SelectedService) (*models.SelectedService, []models.SelectedService) {
	var base *models.SelectedService
	for i := range selected {
		if selected[i].IsBasePackageService {
			base = &selected[i]
			break
		}
	}
	if base == nil {
		return nil, nil
	}
	var addOns []models.SelectedService
	for _, s := range selected {
		if s.IsPackageAddOn && s.MainServiceID == base.Service.ID {
			addOns = append(addOns, s)
		}
	}
	return base, addOns
}

// ApplyPackagePricing re-prices the package add-ons of a selection from their list
// price, so applying it again never compounds a discount. An add-on's OriginalPrice
// becomes its list price, so item savings add up to the package savings. It returns
// a copy of the selection and the package calculation, which is nil when no base is
// selected.
func ApplyPackagePricing(selected []models.SelectedService, tiers []models.DiscountTier) ([]models.SelectedService, *models.PackageCalculation, error) {
	out := make([]models.SelectedService, len(selected))
	copy(out, selected)

	base, addOns := PackageAddOns(out)
	if base == nil {
		return out, nil, nil
	}

	calc, err := Evaluate(tiers, base.Service, addOns)
	if err != nil {
		return nil, nil, err
	}

	for i := range out {
		s := &out[i]
		if !s.IsPackageAddOn || s.MainServiceID != base.Service.ID {
			continue
		}
		list := listPrice(*s)
		s.ListPrice = list
		s.Price = applyPercentage(list, calc.DiscountPercentage)
		s.DiscountPercentage = calc.DiscountPercentage
		s.OriginalPrice = decimal.Zero
		if s.Price.LessThan(list) {
			s.OriginalPrice = list
		}
	}
	return out, &calc, nil
}
