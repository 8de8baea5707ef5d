package catalog

import "metamarket-api/internal/model"

// Variation thresholds, as a percentage of the average price.
const (
	moderateVariation = 5.0
	highVariation     = 20.0
)

// Summarize computes lowest, highest and average price of prices and how
// widely they spread. An empty list yields zeros and low variation.
func Summarize(cardID string, prices []model.PriceRecord) model.PriceSummary {
	summary := model.PriceSummary{
		CardID:    cardID,
		Prices:    prices,
		Variation: model.VariationLow,
	}
	if summary.Prices == nil {
		summary.Prices = []model.PriceRecord{}
	}
	if len(prices) == 0 {
		return summary
	}

	low, high, sum := prices[0].Price, prices[0].Price, 0.0
	for _, p := range prices {
		if p.Price < low {
			low = p.Price
		}
		if p.Price > high {
			high = p.Price
		}
		sum += p.Price
	}
	avg := sum / float64(len(prices))

	summary.LowestPrice = low
	summary.HighestPrice = high
	summary.AveragePrice = avg
	if avg > 0 {
		summary.VariationPercentage = (high - low) / avg * 100
	}

	switch {
	case summary.VariationPercentage > highVariation:
		summary.Variation = model.VariationHigh
	case summary.VariationPercentage > moderateVariation:
		summary.Variation = model.VariationModerate
	}
	return summary
}
