package metrics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nmcosta/resaletrack/internal/order"
	"github.com/nmcosta/resaletrack/internal/post"
	"github.com/nmcosta/resaletrack/internal/status"
)

func ndec(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func eng() *Engine { return New(DefaultConfig()) }

func soldPost(id, orderID string) post.Post {
	return post.Post{
		ID:              id,
		OrderID:         orderID,
		PostDate:        "2026-08-12",
		FirstPrice:      ndec("50"),
		SellPrice:       ndec("80"),
		AdTax:           ndec("5"),
		SellDate:        strp("2026-08-20"),
		OrderDate:       "2026-08-01",
		OrderPrice:      ndec("30"),
		OrderDeliverTax: ndec("5"),
		ProductName:     "Air Max 97",
		BrandName:       "Nike",
		ColorName:       "Silver",
		SizeName:        "42",
		Status:          status.Sold,
	}
}

func TestProcessOrderDayCounts(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", OrderDate: "2026-08-22", Price: ndec("100"), DeliverTax: ndec("10"), Status: status.Shipping},
		{ID: "o2", OrderDate: "2026-08-01", DeliveryDate: strp("2026-08-10"), Price: ndec("30"), Status: status.Stock},
	}
	eng().Process(testNow, orders, nil)

	// Still shipping: counts days since the order, delivery unknown.
	o := orders[0]
	if o.DaysToDelivery != nil {
		t.Fatalf("o1 days_to_delivery: got %d, want nil", *o.DaysToDelivery)
	}
	if o.DaysSinceOrder == nil || *o.DaysSinceOrder != 10 {
		t.Fatalf("o1 days_since_order: got %v, want 10", o.DaysSinceOrder)
	}
	if !o.TotalCost.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("o1 total_cost: got %s, want 110", o.TotalCost)
	}
	if o.OrderDateDisplay == nil || *o.OrderDateDisplay != "22/08/2026" {
		t.Fatalf("o1 order_date_display: got %v", o.OrderDateDisplay)
	}

	// Delivered: the reverse.
	o = orders[1]
	if o.DaysSinceOrder != nil {
		t.Fatalf("o2 days_since_order: got %d, want nil", *o.DaysSinceOrder)
	}
	if o.DaysToDelivery == nil || *o.DaysToDelivery != 9 {
		t.Fatalf("o2 days_to_delivery: got %v, want 9", o.DaysToDelivery)
	}
	if o.DeliveryDateDisplay == nil || *o.DeliveryDateDisplay != "10/08/2026" {
		t.Fatalf("o2 delivery_date_display: got %v", o.DeliveryDateDisplay)
	}
}

func TestProcessPostDayCounts(t *testing.T) {
	sold := soldPost("p1", "o1")
	active := post.Post{ID: "p2", OrderID: "o2", PostDate: "2026-08-22", Status: status.Stock}
	posts := []post.Post{sold, active}
	eng().Process(testNow, nil, posts)

	if posts[0].DaysToSale == nil || *posts[0].DaysToSale != 8 {
		t.Fatalf("sold days_to_sale: got %v, want 8", posts[0].DaysToSale)
	}
	if posts[0].DaysSincePost != nil {
		t.Fatalf("sold days_since_post: got %d, want nil", *posts[0].DaysSincePost)
	}
	if posts[1].DaysToSale != nil {
		t.Fatalf("active days_to_sale: got %d, want nil", *posts[1].DaysToSale)
	}
	if posts[1].DaysSincePost == nil || *posts[1].DaysSincePost != 10 {
		t.Fatalf("active days_since_post: got %v, want 10", posts[1].DaysSincePost)
	}
}

func TestProcessMalformedDatesDegradeToNil(t *testing.T) {
	orders := []order.Order{{ID: "o1", OrderDate: "not-a-date", Status: status.Shipping}}
	posts := []post.Post{{ID: "p1", OrderID: "o1", PostDate: "also bad", Status: status.Stock}}
	eng().Process(testNow, orders, posts)

	if orders[0].DaysSinceOrder != nil || orders[0].DaysToDelivery != nil {
		t.Fatal("malformed order date must leave both day counts nil")
	}
	if orders[0].OrderDateDisplay == nil || *orders[0].OrderDateDisplay != "not-a-date" {
		t.Fatalf("display: got %v, want pass-through", orders[0].OrderDateDisplay)
	}
	if posts[0].DaysSincePost != nil {
		t.Fatal("malformed post date must leave day count nil")
	}
}

func TestLedgerCostAndProfit(t *testing.T) {
	// Post{first=50, sell=80, ad=5} over Order{price=30, tax=5}:
	// total_cost=40, profit=40.
	posts := []post.Post{soldPost("p1", "o1")}
	ledger := eng().Process(testNow, nil, posts)

	if len(ledger) != 1 {
		t.Fatalf("ledger size: got %d, want 1", len(ledger))
	}
	e := ledger[0]
	if !e.TotalCost.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("total_cost: got %s, want 40", e.TotalCost)
	}
	if !e.Profit.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("profit: got %s, want 40", e.Profit)
	}
	if e.SellDate == nil || *e.SellDate != "20/08/2026" {
		t.Fatalf("sell_date: got %v, want 20/08/2026", e.SellDate)
	}
	// Order placed 2026-08-01, sold 2026-08-20.
	if e.DaysToSaleTotal == nil || *e.DaysToSaleTotal != 19 {
		t.Fatalf("days_to_sale_total: got %v, want 19", e.DaysToSaleTotal)
	}
	if e.ProductInfo != "Air Max 97 / Nike" {
		t.Fatalf("product_info: got %q", e.ProductInfo)
	}
}

func TestLedgerExcludesIncompleteSales(t *testing.T) {
	noPrice := soldPost("p1", "o1")
	noPrice.SellPrice = decimal.NullDecimal{}
	noDate := soldPost("p2", "o2")
	noDate.SellDate = nil
	active := soldPost("p3", "o3")
	active.Status = status.Stock

	ledger := eng().Process(testNow, nil, []post.Post{noPrice, noDate, active, soldPost("p4", "o4")})
	if len(ledger) != 1 || ledger[0].PostID != "p4" {
		t.Fatalf("ledger: got %+v, want only p4", ledger)
	}
}

func TestLedgerNullComponentsCountAsZero(t *testing.T) {
	p := soldPost("p1", "o1")
	p.OrderPrice = decimal.NullDecimal{}
	p.OrderDeliverTax = decimal.NullDecimal{}
	p.AdTax = decimal.NullDecimal{}
	ledger := eng().Process(testNow, nil, []post.Post{p})

	if len(ledger) != 1 {
		t.Fatalf("ledger size: got %d, want 1", len(ledger))
	}
	if !ledger[0].TotalCost.IsZero() {
		t.Fatalf("total_cost: got %s, want 0", ledger[0].TotalCost)
	}
	if !ledger[0].Profit.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("profit: got %s, want 80", ledger[0].Profit)
	}
}

func TestComputeZeroSoldItems(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", OrderDate: "2026-08-22", Price: ndec("100"), DeliverTax: ndec("10"), Status: status.Shipping},
		{ID: "o2", OrderDate: "2026-08-01", DeliveryDate: strp("2026-08-10"), Price: ndec("30"), Status: status.Stock},
	}
	e := eng()
	ledger := e.Process(testNow, orders, nil)
	m := e.Compute(orders, nil, ledger)

	if !m.Revenue.IsZero() || !m.TotalSpend.IsZero() || !m.ProfitTotal.IsZero() {
		t.Fatalf("financials: got %s/%s/%s, want zeros", m.Revenue, m.TotalSpend, m.ProfitTotal)
	}
	if !m.ROIMultiplier.IsZero() {
		t.Fatalf("roi: got %s, want 0", m.ROIMultiplier)
	}
	if m.CountInShipping != 1 || m.CountInStock != 1 || m.CountSold != 0 {
		t.Fatalf("counts: got %d/%d/%d", m.CountInShipping, m.CountInStock, m.CountSold)
	}
	// No sales history: 2 stock units x the 60-day fallback cycle.
	if m.DaysToClearStock != 120 {
		t.Fatalf("days_to_clear_stock: got %v, want 120", m.DaysToClearStock)
	}
}

func TestComputeROIZeroWheneverSpendIsZero(t *testing.T) {
	p := soldPost("p1", "o1")
	p.OrderPrice = decimal.NullDecimal{}
	p.OrderDeliverTax = decimal.NullDecimal{}
	p.AdTax = decimal.NullDecimal{}
	posts := []post.Post{p}
	e := eng()
	ledger := e.Process(testNow, nil, posts)
	m := e.Compute(nil, posts, ledger)

	if !m.Revenue.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("revenue: got %s, want 80", m.Revenue)
	}
	if !m.ROIMultiplier.IsZero() {
		t.Fatalf("roi with zero spend: got %s, want 0", m.ROIMultiplier)
	}
}

func TestComputeFinancialsAndROI(t *testing.T) {
	p1 := soldPost("p1", "o1") // cost 40, sold 80
	p2 := soldPost("p2", "o2") // cost 19.99+0.01+0 = 20, sold 100.50
	p2.OrderPrice = ndec("19.99")
	p2.OrderDeliverTax = ndec("0.01")
	p2.AdTax = decimal.NullDecimal{}
	p2.SellPrice = ndec("100.50")
	posts := []post.Post{p1, p2}

	e := eng()
	ledger := e.Process(testNow, nil, posts)
	m := e.Compute(nil, posts, ledger)

	if !m.Revenue.Equal(ndec("180.50").Decimal) {
		t.Fatalf("revenue: got %s, want 180.50", m.Revenue)
	}
	if !m.TotalSpend.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("spend: got %s, want 60", m.TotalSpend)
	}
	// profit_total is exactly revenue - spend.
	if !m.ProfitTotal.Equal(m.Revenue.Sub(m.TotalSpend)) {
		t.Fatalf("profit: got %s", m.ProfitTotal)
	}
	want := ndec("120.50").Decimal.Div(decimal.NewFromInt(60))
	if !m.ROIMultiplier.Equal(want) {
		t.Fatalf("roi: got %s, want %s", m.ROIMultiplier, want)
	}
	if m.CountSold != 2 {
		t.Fatalf("count_sold: got %d, want 2", m.CountSold)
	}
}

func TestComputeStockProjection(t *testing.T) {
	// Two sold posts with 8-day and 16-day cycles, one open order:
	// 1 unit x avg 12 days.
	p1 := soldPost("p1", "o1")
	p2 := soldPost("p2", "o2")
	p2.PostDate = "2026-08-04"
	orders := []order.Order{
		{ID: "o3", OrderDate: "2026-08-22", Price: ndec("100"), Status: status.Shipping},
	}
	posts := []post.Post{p1, p2}

	e := eng()
	ledger := e.Process(testNow, orders, posts)
	m := e.Compute(orders, posts, ledger)

	if m.DaysToClearStock != 12 {
		t.Fatalf("days_to_clear_stock: got %v, want 12", m.DaysToClearStock)
	}
}

func TestComputeProjectionZeroWithoutStock(t *testing.T) {
	posts := []post.Post{soldPost("p1", "o1")}
	e := eng()
	ledger := e.Process(testNow, nil, posts)
	m := e.Compute(nil, posts, ledger)

	if m.DaysToClearStock != 0 {
		t.Fatalf("days_to_clear_stock without stock: got %v, want 0", m.DaysToClearStock)
	}
}

func TestComputeRunoffFallbackOnZeroCycle(t *testing.T) {
	// A same-day sale averages to a zero-day cycle; the projection falls
	// back to the runoff horizon instead of claiming instant clearance.
	p := soldPost("p1", "o1")
	p.PostDate = "2026-08-20"
	orders := []order.Order{
		{ID: "o2", OrderDate: "2026-08-22", Price: ndec("10"), Status: status.Shipping},
	}
	posts := []post.Post{p}

	e := eng()
	ledger := e.Process(testNow, orders, posts)
	m := e.Compute(orders, posts, ledger)

	if m.DaysToClearStock != 365 {
		t.Fatalf("days_to_clear_stock: got %v, want 365", m.DaysToClearStock)
	}
}

func TestComputeStockEstimates(t *testing.T) {
	sold := soldPost("p1", "o1") // cost 40, sold 80 -> roi = 1
	listed := post.Post{
		ID: "p2", OrderID: "o3", PostDate: "2026-08-22",
		FirstPrice: ndec("50"), AdTax: ndec("5"), Status: status.Stock,
	}
	orders := []order.Order{
		// shipping: estimate = cost 110 x roi 1
		{ID: "o2", OrderDate: "2026-08-22", Price: ndec("100"), DeliverTax: ndec("10"), Status: status.Shipping},
		// stock with listing: 50 - (35 + 5) = 10
		{ID: "o3", OrderDate: "2026-08-01", DeliveryDate: strp("2026-08-10"), Price: ndec("30"), DeliverTax: ndec("5"), Status: status.Stock},
		// stock without a post: falls back to cost 20 x roi 1
		{ID: "o4", OrderDate: "2026-08-05", DeliveryDate: strp("2026-08-15"), Price: ndec("20"), Status: status.Stock},
	}
	posts := []post.Post{sold, listed}

	e := eng()
	ledger := e.Process(testNow, orders, posts)
	m := e.Compute(orders, posts, ledger)

	if !m.ROIMultiplier.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("roi: got %s, want 1", m.ROIMultiplier)
	}
	if !m.InvestedStockCost.Equal(decimal.NewFromInt(165)) {
		t.Fatalf("invested_stock_cost: got %s, want 165", m.InvestedStockCost)
	}
	// 110 + 10 + 20
	if !m.EstimatedStockProfit.Equal(decimal.NewFromInt(140)) {
		t.Fatalf("estimated_stock_profit: got %s, want 140", m.EstimatedStockProfit)
	}
}

func TestConfigFallbacksAreOverridable(t *testing.T) {
	e := New(Config{DefaultSaleCycleDays: 10, RunoffFallbackDays: 30})
	orders := []order.Order{
		{ID: "o1", OrderDate: "2026-08-22", Price: ndec("10"), Status: status.Shipping},
	}
	ledger := e.Process(testNow, orders, nil)
	m := e.Compute(orders, nil, ledger)

	if m.DaysToClearStock != 10 {
		t.Fatalf("days_to_clear_stock: got %v, want 10", m.DaysToClearStock)
	}
}
