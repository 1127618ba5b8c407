package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Calculate prices a single line of quantity units at basePrice.
//
// Discounts are applied in a fixed order: the best tiered volume tier, then
// every qualifying min_purchase rule, then every qualifying promotional rule.
// Min-purchase and promotional rules compound on the running final price.
// The product-level config is only consulted when none of the rules produced
// savings. Inputs are not validated and Calculate never fails.
func Calculate(basePrice float64, quantity int, discounts []DiscountRule, product *ProductDiscountConfig) Result {
	subtotal := basePrice * float64(quantity)
	finalPrice := subtotal
	var totalSavings float64
	applied := make([]AppliedDiscount, 0, len(discounts))

	if tier, ok := bestTier(discounts, subtotal, quantity); ok {
		finalPrice -= tier.Savings
		totalSavings += tier.Savings
		applied = append(applied, tier)
	}

	for _, rule := range discounts {
		if !qualifiesMinPurchase(rule, subtotal) {
			continue
		}
		savings := percentOf(rule, finalPrice)
		if savings <= 0 {
			continue
		}
		finalPrice -= savings
		totalSavings += savings
		applied = append(applied, AppliedDiscount{
			ID:      rule.ID,
			Name:    rule.Name,
			Type:    rule.Type,
			Value:   ruleValue(rule),
			Savings: savings,
		})
	}

	for _, rule := range discounts {
		if !qualifiesPromotional(rule, quantity) {
			continue
		}
		savings := percentOf(rule, finalPrice)
		if savings <= 0 {
			continue
		}
		finalPrice -= savings
		totalSavings += savings
		applied = append(applied, AppliedDiscount{
			ID:      rule.ID,
			Name:    rule.Name,
			Type:    rule.Type,
			Value:   ruleValue(rule),
			Savings: savings,
		})
	}

	if len(applied) == 0 {
		if fallback, final, ok := productFallback(product, subtotal, quantity); ok {
			totalSavings = fallback.Savings
			finalPrice = final
			applied = append(applied, fallback)
		}
	}

	var pct float64
	if subtotal != 0 {
		pct = round2(totalSavings / subtotal * 100)
	}

	return Result{
		BasePrice:          basePrice,
		Quantity:           quantity,
		Subtotal:           subtotal,
		Discount:           totalSavings,
		DiscountPercentage: pct,
		FinalPrice:         math.Max(0, finalPrice),
		TotalSavings:       totalSavings,
		AppliedDiscounts:   applied,
	}
}

// round2 rounds half away from zero to two decimals. Non-finite values pass
// through untouched.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
