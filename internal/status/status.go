// Package status is the single source of lifecycle derivation for the
// order/post/sale triple. Every write path and the metrics engine derive
// state through these functions instead of re-encoding the date-presence
// rules locally.
package status

import "github.com/shopspring/decimal"

// Sales record lifecycle. Transitions only move forward:
// shipping -> stock (delivery date set, or a post created) -> sold
// (linked post gains sell price and sell date). The only way back is
// deleting the triggering record.
const (
	Shipping = "shipping"
	Stock    = "stock"
	Sold     = "sold"
)

// Product catalog flag, kept on the products table and maintained by the
// post write paths.
const (
	FlagStock = "STOCK"
	FlagSold  = "SOLD"
)

// ForOrder derives an order's lifecycle state from delivery-date presence.
func ForOrder(deliveryDate *string) string {
	if deliveryDate != nil && *deliveryDate != "" {
		return Stock
	}
	return Shipping
}

// IsSold reports whether a post counts as a completed sale: both sell
// price and sell date must be present.
func IsSold(sellPrice decimal.NullDecimal, sellDate *string) bool {
	return sellPrice.Valid && sellDate != nil && *sellDate != ""
}

// ForPost derives the sales-record state once a post exists.
func ForPost(sellPrice decimal.NullDecimal, sellDate *string) string {
	if IsSold(sellPrice, sellDate) {
		return Sold
	}
	return Stock
}
