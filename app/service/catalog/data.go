package catalog

type Product struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock string `json:"stock"`
}

// Order fields carry omitempty so that the not-found tool payload stays
// {"type":"order_info","error":...} without empty status fields.
type Order struct {
	ID           string `json:"id,omitempty"`
	Status       string `json:"status,omitempty"`
	DeliveryDate string `json:"delivery_date,omitempty"`
}

type RefundPolicy struct {
	Policy string `json:"policy"`
}
