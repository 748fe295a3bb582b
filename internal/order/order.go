package order

import (
	"errors"
	"fmt"
	"time"
)

// shipCutoffHourUTC is the daily dispatch cutoff. Orders shipped after it
// leave with the next day's dispatch.
const shipCutoffHourUTC = 17

var (
	ErrInvalidItem  = errors.New("order: qty must be >= 1 and unitPrice >= 0")
	ErrBadTimestamp = errors.New("order: timestamp must be positive epoch milliseconds")
)

// New returns a fresh open order stamped with now. The id is derived from
// the UTC wall clock, so two orders created within the same second share an
// id; archive filenames carry an extra suffix for that reason.
func New(now time.Time) *Order {
	now = now.UTC()
	return &Order{
		ID:               "PO-" + now.Format("20060102-150405"),
		Items:            []Item{},
		TS:               Timestamps{CreatedAtUtc: now.UnixMilli()},
		CustomerTimeZone: DefaultTimeZone,
		ShippingDays:     DefaultShippingDays,
		Status:           StatusOpen,
	}
}

// AddItem appends one line to the order. Lines are never merged.
func (o *Order) AddItem(sku, name string, unitPrice float64, qty int) error {
	if qty < 1 || unitPrice < 0 {
		return fmt.Errorf("%w: qty=%d unitPrice=%v", ErrInvalidItem, qty, unitPrice)
	}
	o.Items = append(o.Items, Item{SKU: sku, Name: name, Qty: qty, UnitPrice: unitPrice})
	return nil
}

// RemoveBySKU drops every line matching sku. An absent sku is a no-op.
func (o *Order) RemoveBySKU(sku string) {
	kept := make([]Item, 0, len(o.Items))
	for _, item := range o.Items {
		if item.SKU != sku {
			kept = append(kept, item)
		}
	}
	o.Items = kept
}

// CapturePayment stamps PaidAtUtc with now. Idempotent: paying again just
// overwrites the timestamp. An empty cart may be paid, matching the
// original behavior.
func (o *Order) CapturePayment(now time.Time) {
	o.TS.PaidAtUtc = now.UTC().UnixMilli()
}

// MarkShipped stamps ShippedAtUtc with the next dispatch cutoff after now.
func (o *Order) MarkShipped(now time.Time) {
	o.TS.ShippedAtUtc = ShipCutoff(now).UnixMilli()
}

// ShipCutoff returns the dispatch boundary for an order shipped at now:
// today's 17:00 UTC if now is at or before it, otherwise tomorrow's.
func ShipCutoff(now time.Time) time.Time {
	now = now.UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), shipCutoffHourUTC, 0, 0, 0, time.UTC)
	if now.After(cutoff) {
		cutoff = cutoff.AddDate(0, 0, 1)
	}
	return cutoff
}

// MarkDelivered stamps the terminal state. ms is the caller-supplied
// delivery time; values <= 0 are rejected.
func (o *Order) MarkDelivered(ms int64) error {
	if ms <= 0 {
		return fmt.Errorf("%w: got %d", ErrBadTimestamp, ms)
	}
	o.TS.DeliveredAtUtc = ms
	o.Status = StatusDelivered
	return nil
}
