package service

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// lineTotals sums quantity and price x quantity over items, rounding the price to cents
func lineTotals(items []model.CartItem) (int, float64) {
	count := 0
	total := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return count, total.Round(2).InexactFloat64()
}

// applyTotals recomputes the derived totals of cart from its items
func applyTotals(cart *model.Cart) {
	cart.TotalItems, cart.TotalPrice = lineTotals(cart.Items)
}
