package market

import "fmt"

// FormatDetail renders the 24h change and price of an asset with two decimals.
func FormatDetail(percentChange24h, price float64) string {
	return fmt.Sprintf("%.2f%% change in 24h, Current price: $%.2f", percentChange24h, price)
}

// FormatPrice renders the price alone when the provider reports no change.
func FormatPrice(price float64) string {
	return fmt.Sprintf("Current price: $%.2f", price)
}
