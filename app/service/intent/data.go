package intent

type Intent string

const (
	Product     Intent = "product"
	ProductList Intent = "product_list"
	Order       Intent = "order"
	Refund      Intent = "refund"
	Summary     Intent = "summary"
	Fallback    Intent = "fallback"
)

// Valid reports whether a string names a known intent. Used to vet
// model output before dispatching on it.
func Valid(s string) bool {
	switch Intent(s) {
	case Product, ProductList, Order, Refund, Summary, Fallback:
		return true
	}

	return false
}
