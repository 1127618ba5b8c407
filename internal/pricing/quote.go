package pricing

// Line is one priced cart line.
type Line struct {
	ProductID             string                 `json:"productId,omitempty"`
	BasePrice             float64                `json:"basePrice" validate:"gte=0"`
	Quantity              int                    `json:"quantity" validate:"gte=0"`
	Discounts             []DiscountRule         `json:"discounts"`
	ProductDiscountConfig *ProductDiscountConfig `json:"productDiscountConfig,omitempty"`
}

// QuoteResult aggregates the per-line results of a cart.
type QuoteResult struct {
	Lines        []Result `json:"lines"`
	Subtotal     float64  `json:"subtotal"`
	TotalSavings float64  `json:"totalSavings"`
	FinalPrice   float64  `json:"finalPrice"`
}

// Quote calculates every line independently and sums the totals, rounded to
// cents.
func Quote(lines []Line) QuoteResult {
	out := QuoteResult{Lines: make([]Result, 0, len(lines))}
	for _, line := range lines {
		res := Calculate(line.BasePrice, line.Quantity, line.Discounts, line.ProductDiscountConfig)
		out.Lines = append(out.Lines, res)
		out.Subtotal += res.Subtotal
		out.TotalSavings += res.TotalSavings
		out.FinalPrice += res.FinalPrice
	}
	out.Subtotal = round2(out.Subtotal)
	out.TotalSavings = round2(out.TotalSavings)
	out.FinalPrice = round2(out.FinalPrice)
	return out
}
