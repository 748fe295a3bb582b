package order

const (
	StatusOpen      = "open"
	StatusDelivered = "delivered"
)

const (
	DefaultTimeZone     = "Africa/Cairo"
	DefaultShippingDays = 3.5
)

// Item is one cart line. Duplicate SKUs stay as separate lines: the order
// keeps the raw append history, merging is presentation-layer business.
type Item struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
}

// Timestamps holds the lifecycle markers, all UTC milliseconds since epoch.
// Progression is encoded by presence: an order with PaidAtUtc set is paid.
type Timestamps struct {
	CreatedAtUtc   int64 `json:"createdAtUtc"`
	PaidAtUtc      int64 `json:"paidAtUtc,omitempty"`
	ShippedAtUtc   int64 `json:"shippedAtUtc,omitempty"`
	DeliveredAtUtc int64 `json:"deliveredAtUtc,omitempty"`
}

// Order is the single active purchase record of a session.
type Order struct {
	ID               string     `json:"id"`
	Items            []Item     `json:"items"`
	TS               Timestamps `json:"ts"`
	CustomerTimeZone string     `json:"customerTimeZone"`
	ShippingDays     float64    `json:"shippingDays"`
	Status           string     `json:"status"`
}
