package service

// ShippingMethod is one of the fixed delivery tiers.
type ShippingMethod string

const (
	ShippingRegular ShippingMethod = "Regular"
	ShippingNextDay ShippingMethod = "Next Day"
)

// Shipping price policy:
//
//	Regular:  15% of the item total below 200k, 20% at or above.
//	Next Day: 20% of the item total below 300k, 25% at or above.
const (
	regularThreshold = 200000
	nextDayThreshold = 300000
)

// ParseShippingMethod validates a requested method. Both "NextDay" and the
// display spelling "Next Day" are accepted.
func ParseShippingMethod(s string) (ShippingMethod, error) {
	switch s {
	case "Regular":
		return ShippingRegular, nil
	case "Next Day", "NextDay":
		return ShippingNextDay, nil
	}
	return "", &InvalidInputError{Field: "shipping_method", Message: "unknown shipping method"}
}

// ShippingPrice computes the shipping cost for an item total. The result is
// truncated, not rounded. Pure: the preview and the checkout call the same
// function.
func ShippingPrice(totalItemCost int64, method ShippingMethod) int64 {
	switch method {
	case ShippingNextDay:
		if totalItemCost < nextDayThreshold {
			return totalItemCost * 20 / 100
		}
		return totalItemCost * 25 / 100
	default:
		if totalItemCost < regularThreshold {
			return totalItemCost * 15 / 100
		}
		return totalItemCost * 20 / 100
	}
}

// ShippingQuote is one method's price for a given cart total.
type ShippingQuote struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ShippingQuotes previews every method's price for an item total.
func ShippingQuotes(totalItemCost int64) []ShippingQuote {
	return []ShippingQuote{
		{Name: string(ShippingRegular), Price: ShippingPrice(totalItemCost, ShippingRegular)},
		{Name: string(ShippingNextDay), Price: ShippingPrice(totalItemCost, ShippingNextDay)},
	}
}
