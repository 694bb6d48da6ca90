package post

import "github.com/shopspring/decimal"

// Post is the denormalized advertisement row: the listing itself, its
// engagement counters, the owning order's cost fields (needed by the sales
// ledger) and the annotations the metrics engine fills in.
type Post struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`

	PostDate   string              `json:"post_date"`
	FirstPrice decimal.NullDecimal `json:"first_price"`
	SellPrice  decimal.NullDecimal `json:"sell_price"`
	AdTax      decimal.NullDecimal `json:"ad_tax"`
	SellDate   *string             `json:"sell_date"`

	Views     int `json:"views"`
	Likes     int `json:"likes"`
	Proposals int `json:"proposals"`

	// Denormalized from the owning order and the catalog.
	OrderDate       string              `json:"order_date"`
	DeliveryDate    *string             `json:"delivery_date"`
	OrderPrice      decimal.NullDecimal `json:"order_price"`
	OrderDeliverTax decimal.NullDecimal `json:"order_deliver_tax"`
	ProductName     string              `json:"product_name"`
	BrandName       string              `json:"brand_name"`
	ColorName       string              `json:"color_name"`
	SizeName        string              `json:"size_name"`

	// Authoritative lifecycle state, read from the sales record.
	Status string `json:"status"`

	// Filled by the metrics engine.
	DaysToSale      *int    `json:"days_to_sale"`
	DaysSincePost   *int    `json:"days_since_post"`
	PostDateDisplay *string `json:"post_date_display"`
	SellDateDisplay *string `json:"sell_date_display"`
}
