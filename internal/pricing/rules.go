package pricing

import "fmt"

// tierMatches reports whether qty falls inside the tier bracket.
func tierMatches(t QuantityTier, qty int) bool {
	if qty < t.MinQuantity {
		return false
	}
	return t.MaxQuantity == nil || qty <= *t.MaxQuantity
}

// tierSavings computes the savings offered by a tier. Percentage tiers are
// taken off the subtotal, fixed tiers are a per-unit amount.
func tierSavings(t QuantityTier, subtotal float64, qty int) (savings, value float64) {
	switch {
	case t.DiscountPercentage != nil:
		return subtotal * *t.DiscountPercentage / 100, *t.DiscountPercentage
	case t.DiscountFixed != nil:
		return *t.DiscountFixed * float64(qty), *t.DiscountFixed
	default:
		return 0, 0
	}
}

// bestTier returns the single tier across all tiered_volume rules with the
// largest savings. The first tier encountered wins ties.
func bestTier(rules []DiscountRule, subtotal float64, qty int) (AppliedDiscount, bool) {
	var (
		best  AppliedDiscount
		found bool
	)
	for _, rule := range rules {
		if rule.Type != DiscountTieredVolume {
			continue
		}
		for i, tier := range rule.Conditions.QuantityTiers {
			if !tierMatches(tier, qty) {
				continue
			}
			savings, value := tierSavings(tier, subtotal, qty)
			if !found || savings > best.Savings {
				best = AppliedDiscount{
					ID:      tierID(rule, i),
					Name:    rule.Name,
					Type:    DiscountTieredVolume,
					Value:   value,
					Savings: savings,
				}
				found = true
			}
		}
	}
	return best, found && best.Savings > 0
}

func tierID(rule DiscountRule, index int) string {
	if rule.ID == "" {
		return fmt.Sprintf("tier-%d", index)
	}
	return fmt.Sprintf("%s:tier-%d", rule.ID, index)
}

// qualifiesMinPurchase gates a min_purchase rule on the original subtotal.
func qualifiesMinPurchase(rule DiscountRule, subtotal float64) bool {
	return rule.Type == DiscountMinPurchase &&
		rule.MinPurchaseAmount != nil &&
		subtotal >= *rule.MinPurchaseAmount
}

// qualifiesPromotional gates a promotional rule on the purchased quantity.
func qualifiesPromotional(rule DiscountRule, qty int) bool {
	if rule.Type != DiscountPromotional {
		return false
	}
	return rule.MinQuantity == nil || qty >= *rule.MinQuantity
}

// percentOf applies a rule's percentage value to the running price.
func percentOf(rule DiscountRule, price float64) float64 {
	if rule.Value == nil {
		return 0
	}
	return price * *rule.Value / 100
}

func ruleValue(rule DiscountRule) float64 {
	if rule.Value == nil {
		return 0
	}
	return *rule.Value
}

// productFallback evaluates the product-level discount. The returned final
// price replaces the running price rather than being subtracted from it.
func productFallback(cfg *ProductDiscountConfig, subtotal float64, qty int) (AppliedDiscount, float64, bool) {
	if cfg == nil {
		return AppliedDiscount{}, 0, false
	}
	if cfg.PriceSale != nil && *cfg.PriceSale > 0 {
		final := *cfg.PriceSale * float64(qty)
		savings := subtotal - final
		if savings <= 0 {
			return AppliedDiscount{}, 0, false
		}
		return AppliedDiscount{
			ID:      "product-sale",
			Name:    "Sale price",
			Type:    DiscountProductSale,
			Value:   *cfg.PriceSale,
			Savings: savings,
		}, final, true
	}
	if cfg.DiscountPercentage != nil && *cfg.DiscountPercentage > 0 {
		savings := subtotal * *cfg.DiscountPercentage / 100
		return AppliedDiscount{
			ID:      "product-discount",
			Name:    fmt.Sprintf("Product discount %g%%", *cfg.DiscountPercentage),
			Type:    DiscountProductPercentage,
			Value:   *cfg.DiscountPercentage,
			Savings: savings,
		}, subtotal - savings, true
	}
	return AppliedDiscount{}, 0, false
}
