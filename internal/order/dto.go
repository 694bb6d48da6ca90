package order

// CreateOrderRequest payload for registering a purchase. Money fields are
// decimal strings; empty deliver_tax means 0, empty delivery_date means the
// item is still shipping.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	UserID       string `json:"user_id"       example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	ProductID    string `json:"product_id"    example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	BrandID      string `json:"brand_id"`
	SizeID       string `json:"size_id"`
	ColorID      string `json:"color_id"`
	Price        string `json:"price"         example:"100.00"`
	DeliverTax   string `json:"deliver_tax"   example:"10.00"`
	OrderDate    string `json:"order_date"    example:"2026-08-01"`
	DeliveryDate string `json:"delivery_date" example:"2026-08-10"`
}

// UpdateOrderRequest payload for rewriting a purchase; same field rules as
// creation.
// swagger:model UpdateOrderRequest
type UpdateOrderRequest struct {
	ProductID    string `json:"product_id"`
	BrandID      string `json:"brand_id"`
	SizeID       string `json:"size_id"`
	ColorID      string `json:"color_id"`
	Price        string `json:"price"`
	DeliverTax   string `json:"deliver_tax"`
	OrderDate    string `json:"order_date"`
	DeliveryDate string `json:"delivery_date"`
}
