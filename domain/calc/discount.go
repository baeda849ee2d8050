package calc

// DiscountResult holds the outcome of a discount calculation (value type).
type DiscountResult struct {
	DiscountAmount  float64
	DiscountedPrice float64
	TaxAmount       float64
	FinalPrice      float64
	TotalSavings    float64
}

// Discount applies a percentage discount and an optional flat tax
// percentage on the discounted price. Percentages are 0-100; the edge
// layer validates ranges.
func Discount(originalPrice, discountPercent, taxPercent float64) (DiscountResult, error) {
	discountAmount := originalPrice * discountPercent / 100
	discounted := originalPrice - discountAmount
	taxAmount := discounted * taxPercent / 100

	if !finite(discountAmount, discounted+taxAmount) {
		return DiscountResult{}, ErrNotFinite
	}
	return DiscountResult{
		DiscountAmount:  Round(discountAmount, 2),
		DiscountedPrice: Round(discounted, 2),
		TaxAmount:       Round(taxAmount, 2),
		FinalPrice:      Round(discounted+taxAmount, 2),
		TotalSavings:    Round(discountAmount, 2),
	}, nil
}
