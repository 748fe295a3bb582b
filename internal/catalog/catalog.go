package catalog

// Product is one catalog entry. The catalog is static: there is no
// inventory, pricing happens at add-to-cart time.
type Product struct {
	ID    string  `json:"id"`
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

var products = []Product{
	{ID: "p1", SKU: "SKU-001", Name: "Mechanical Keyboard", Price: 129.99},
	{ID: "p2", SKU: "SKU-002", Name: "Desk Mat", Price: 19.95},
	{ID: "p3", SKU: "SKU-003", Name: "USB-C Hub", Price: 39.50},
	{ID: "p4", SKU: "SKU-004", Name: "Ergo Mouse", Price: 59.00},
}

// Products returns a copy of the catalog so callers cannot mutate it.
func Products() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}
