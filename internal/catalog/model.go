package catalog

// Lookup is a reference row (user, product, brand, size or color).
type Lookup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Lookups bundles every reference table the order/post forms need.
// swagger:model
type Lookups struct {
	Users    []Lookup `json:"users"`
	Products []Lookup `json:"products"`
	Brands   []Lookup `json:"brands"`
	Sizes    []Lookup `json:"sizes"`
	Colors   []Lookup `json:"colors"`
}
