// Package metrics derives everything the dashboard shows from a user's
// order and post rows: per-record day counts and display dates, the ledger
// of completed sales, and the aggregate financial and projection figures.
// The engine is pure: the clock is injected and no error path exists, every
// degenerate input degrades to a neutral value.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmcosta/resaletrack/internal/order"
	"github.com/nmcosta/resaletrack/internal/post"
	"github.com/nmcosta/resaletrack/internal/status"
)

// Config carries the projection fallbacks. They are deliberately named and
// overridable: 60 days stands in for the average sale cycle when no sale
// has completed yet, 365 days caps the runoff projection when the average
// would otherwise be zero.
type Config struct {
	DefaultSaleCycleDays int
	RunoffFallbackDays   int
}

func DefaultConfig() Config {
	return Config{DefaultSaleCycleDays: 60, RunoffFallbackDays: 365}
}

type Engine struct{ cfg Config }

func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.DefaultSaleCycleDays <= 0 {
		cfg.DefaultSaleCycleDays = def.DefaultSaleCycleDays
	}
	if cfg.RunoffFallbackDays <= 0 {
		cfg.RunoffFallbackDays = def.RunoffFallbackDays
	}
	return &Engine{cfg: cfg}
}

// SaleEntry is one completed transaction in the sales ledger.
type SaleEntry struct {
	PostID          string          `json:"post_id"`
	ProductInfo     string          `json:"product_info"`
	BrandName       string          `json:"brand_name"`
	SizeName        string          `json:"size_name"`
	ColorName       string          `json:"color_name"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	AdTax           decimal.Decimal `json:"ad_tax"`
	SellPrice       decimal.Decimal `json:"sell_price"`
	Profit          decimal.Decimal `json:"profit"`
	SellDate        *string         `json:"sell_date"`
	DaysToSaleTotal *int            `json:"days_to_sale_total"`
}

// UserMetrics aggregates a user's completed sales and open stock.
type UserMetrics struct {
	Revenue              decimal.Decimal `json:"revenue"`
	TotalSpend           decimal.Decimal `json:"total_spend"`
	ProfitTotal          decimal.Decimal `json:"profit_total"`
	ROIMultiplier        decimal.Decimal `json:"roi_multiplier"`
	CountInShipping      int             `json:"count_in_shipping"`
	CountInStock         int             `json:"count_in_stock"`
	CountSold            int             `json:"count_sold"`
	DaysToClearStock     float64         `json:"days_to_clear_stock"`
	InvestedStockCost    decimal.Decimal `json:"invested_stock_cost"`
	EstimatedStockProfit decimal.Decimal `json:"estimated_stock_profit"`
}

// dec collapses an absent value to zero, the null-in-a-sum policy used
// throughout the engine.
func dec(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

// Process annotates both slices in place (day counts, display dates, total
// cost) and builds the sales ledger: one entry per post whose sales record
// is sold and which carries both sell price and sell date. Anything less
// is excluded, never zero-filled.
func (e *Engine) Process(now time.Time, orders []order.Order, posts []post.Post) []SaleEntry {
	for i := range orders {
		o := &orders[i]
		if o.DeliveryDate != nil && *o.DeliveryDate != "" {
			o.DaysToDelivery = DaysDiff(o.OrderDate, o.DeliveryDate, now)
			o.DaysSinceOrder = nil
		} else {
			o.DaysToDelivery = nil
			o.DaysSinceOrder = DaysDiff(o.OrderDate, nil, now)
		}
		o.TotalCost = dec(o.Price).Add(dec(o.DeliverTax))
		o.OrderDateDisplay = FormatDisplayDate(&o.OrderDate)
		o.DeliveryDateDisplay = FormatDisplayDate(o.DeliveryDate)
	}

	ledger := []SaleEntry{}
	for i := range posts {
		p := &posts[i]
		if p.Status == status.Sold && p.SellDate != nil && *p.SellDate != "" {
			p.DaysToSale = DaysDiff(p.PostDate, p.SellDate, now)
			p.DaysSincePost = nil
		} else {
			p.DaysToSale = nil
			p.DaysSincePost = DaysDiff(p.PostDate, nil, now)
		}
		p.PostDateDisplay = FormatDisplayDate(&p.PostDate)
		p.SellDateDisplay = FormatDisplayDate(p.SellDate)

		if p.Status != status.Sold || !status.IsSold(p.SellPrice, p.SellDate) {
			continue
		}
		totalCost := dec(p.OrderPrice).Add(dec(p.OrderDeliverTax)).Add(dec(p.AdTax))
		ledger = append(ledger, SaleEntry{
			PostID:          p.ID,
			ProductInfo:     p.ProductName + " / " + p.BrandName,
			BrandName:       p.BrandName,
			SizeName:        p.SizeName,
			ColorName:       p.ColorName,
			TotalCost:       totalCost,
			AdTax:           dec(p.AdTax),
			SellPrice:       p.SellPrice.Decimal,
			Profit:          p.SellPrice.Decimal.Sub(totalCost),
			SellDate:        FormatDisplayDate(p.SellDate),
			DaysToSaleTotal: DaysDiff(p.OrderDate, p.SellDate, now),
		})
	}
	return ledger
}

// Compute derives the aggregate metrics. It expects slices already
// annotated by Process (the average sale cycle reads DaysToSale).
func (e *Engine) Compute(orders []order.Order, posts []post.Post, ledger []SaleEntry) UserMetrics {
	m := UserMetrics{
		Revenue:              decimal.Zero,
		TotalSpend:           decimal.Zero,
		ROIMultiplier:        decimal.Zero,
		InvestedStockCost:    decimal.Zero,
		EstimatedStockProfit: decimal.Zero,
	}

	for _, entry := range ledger {
		m.Revenue = m.Revenue.Add(entry.SellPrice)
		m.TotalSpend = m.TotalSpend.Add(entry.TotalCost)
	}
	m.ProfitTotal = m.Revenue.Sub(m.TotalSpend)
	if m.TotalSpend.IsPositive() {
		m.ROIMultiplier = m.ProfitTotal.Div(m.TotalSpend)
	}

	for _, o := range orders {
		switch o.Status {
		case status.Shipping:
			m.CountInShipping++
		case status.Stock:
			m.CountInStock++
		}
	}
	m.CountSold = len(ledger)

	stockUnits := m.CountInShipping + m.CountInStock
	if stockUnits > 0 {
		totalDays, validSales := 0, 0
		for _, p := range posts {
			if p.Status == status.Sold && p.DaysToSale != nil {
				totalDays += *p.DaysToSale
				validSales++
			}
		}
		avgCycle := float64(e.cfg.DefaultSaleCycleDays)
		if validSales > 0 {
			avgCycle = float64(totalDays) / float64(validSales)
		}
		if avgCycle > 0 {
			m.DaysToClearStock = float64(stockUnits) * avgCycle
		} else {
			m.DaysToClearStock = float64(e.cfg.RunoffFallbackDays)
		}
	}

	for _, o := range orders {
		if o.Status != status.Shipping && o.Status != status.Stock {
			continue
		}
		costInitial := dec(o.Price).Add(dec(o.DeliverTax))
		m.InvestedStockCost = m.InvestedStockCost.Add(costInitial)

		if o.Status == status.Stock {
			// An item already in stock with an announced price: the
			// expected profit is what the listing asks minus all costs.
			if p := findPost(posts, o.ID); p != nil && p.FirstPrice.Valid {
				m.EstimatedStockProfit = m.EstimatedStockProfit.
					Add(p.FirstPrice.Decimal.Sub(costInitial.Add(dec(p.AdTax))))
				continue
			}
		}
		// Shipping, or in stock without usable post data: estimate from
		// the historical ROI multiplier.
		m.EstimatedStockProfit = m.EstimatedStockProfit.Add(costInitial.Mul(m.ROIMultiplier))
	}
	return m
}

func findPost(posts []post.Post, orderID string) *post.Post {
	for i := range posts {
		if posts[i].OrderID == orderID {
			return &posts[i]
		}
	}
	return nil
}
