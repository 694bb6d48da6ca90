package order

import "github.com/shopspring/decimal"

// Order is the denormalized row the engine and the dashboard consume: the
// purchase itself, the catalog names joined in, the linked sales record and
// the annotations the metrics engine fills in.
type Order struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	BrandID   string `json:"brand_id"`
	SizeID    string `json:"size_id"`
	ColorID   string `json:"color_id"`

	ProductName string `json:"product_name"`
	BrandName   string `json:"brand_name"`
	ColorName   string `json:"color_name"`
	SizeName    string `json:"size_name"`

	// Dates travel as ISO YYYY-MM-DD strings; DeliveryDate is nil while
	// the item is still shipping.
	OrderDate    string  `json:"order_date"`
	DeliveryDate *string `json:"delivery_date"`

	Price      decimal.NullDecimal `json:"price"`
	DeliverTax decimal.NullDecimal `json:"deliver_tax"`

	SaleID string  `json:"sale_id"`
	Status string  `json:"status"`
	PostID *string `json:"post_id"`

	// Filled by the metrics engine.
	TotalCost           decimal.Decimal `json:"total_cost"`
	DaysToDelivery      *int            `json:"days_to_delivery"`
	DaysSinceOrder      *int            `json:"days_since_order"`
	OrderDateDisplay    *string         `json:"order_date_display"`
	DeliveryDateDisplay *string         `json:"delivery_date_display"`
}
