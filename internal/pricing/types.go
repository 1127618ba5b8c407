package pricing

// DiscountType identifies how a DiscountRule is evaluated.
type DiscountType string

const (
	DiscountPercentage   DiscountType = "percentage"
	DiscountFixed        DiscountType = "fixed"
	DiscountTieredVolume DiscountType = "tiered_volume"
	DiscountMinPurchase  DiscountType = "min_purchase"
	DiscountPromotional  DiscountType = "promotional"

	// Types recorded for the product-level fallback.
	DiscountProductSale       DiscountType = "product_sale"
	DiscountProductPercentage DiscountType = "product_percentage"
)

// QuantityTier is one bracket of a tiered volume rule.
type QuantityTier struct {
	MinQuantity        int      `json:"min_quantity"`
	MaxQuantity        *int     `json:"max_quantity,omitempty"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	DiscountFixed      *float64 `json:"discount_fixed,omitempty"`
}

// RuleConditions holds type specific rule parameters.
type RuleConditions struct {
	QuantityTiers []QuantityTier `json:"quantity_tiers,omitempty"`
}

// DiscountRule is a declarative rule evaluated against a single cart line.
// Only the fields relevant to Type are read; the rest are ignored.
type DiscountRule struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Type              DiscountType   `json:"type"`
	Value             *float64       `json:"value,omitempty"`
	MinQuantity       *int           `json:"min_quantity,omitempty"`
	MaxQuantity       *int           `json:"max_quantity,omitempty"`
	MinPurchaseAmount *float64       `json:"min_purchase_amount,omitempty"`
	Conditions        RuleConditions `json:"conditions"`
}

// ProductDiscountConfig is the product-level discount consulted only when no
// rule produced savings.
type ProductDiscountConfig struct {
	PriceSale          *float64 `json:"priceSale,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
}

// AppliedDiscount records a discount that contributed savings.
type AppliedDiscount struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Type    DiscountType `json:"type"`
	Value   float64      `json:"value"`
	Savings float64      `json:"savings"`
}

// Result is the outcome of a single price calculation.
type Result struct {
	BasePrice          float64           `json:"basePrice"`
	Quantity           int               `json:"quantity"`
	Subtotal           float64           `json:"subtotal"`
	Discount           float64           `json:"discount"`
	DiscountPercentage float64           `json:"discountPercentage"`
	FinalPrice         float64           `json:"finalPrice"`
	TotalSavings       float64           `json:"totalSavings"`
	AppliedDiscounts   []AppliedDiscount `json:"appliedDiscounts"`
}
