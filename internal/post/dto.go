package post

// CreatePostRequest payload for advertising a delivered order. Money fields
// are decimal strings; sell_price/sell_date come together or not at all.
// swagger:model CreatePostRequest
type CreatePostRequest struct {
	UserID     string `json:"user_id"`
	OrderID    string `json:"order_id"`
	FirstPrice string `json:"first_price" example:"50.00"`
	SellPrice  string `json:"sell_price"`
	AdTax      string `json:"ad_tax"      example:"5.00"`
	PostDate   string `json:"post_date"   example:"2026-08-12"`
	SellDate   string `json:"sell_date"`
	Views      int    `json:"views"`
	Likes      int    `json:"likes"`
	Proposals  int    `json:"proposals"`
}

// UpdatePostRequest payload for rewriting a post; same field rules as
// creation.
// swagger:model UpdatePostRequest
type UpdatePostRequest struct {
	FirstPrice string `json:"first_price"`
	SellPrice  string `json:"sell_price"`
	AdTax      string `json:"ad_tax"`
	PostDate   string `json:"post_date"`
	SellDate   string `json:"sell_date"`
	Views      int    `json:"views"`
	Likes      int    `json:"likes"`
	Proposals  int    `json:"proposals"`
}
