package capgains

import (
	"fmt"
	"strings"
	"time"
)

// Side identifies the direction of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ParseSide parses a side string, case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown side: %q", s)
	}
}

// Order is one trade record of the processed instrument.
type Order struct {
	// ID is the unique trade identifier. Orders sharing a timestamp are
	// ordered by the raw id string.
	ID       string
	Product  string // instrument identifier, e.g. "ETH-USD"
	Side     Side
	Time     time.Time
	Quantity Quantity
	Price    Money // per unit, in the quote currency

	// extra holds the source record's columns untouched, so unpaired
	// orders round-trip through export with their original fields.
	extra map[string]string
}

// Year returns the calendar year the order executed in.
func (o Order) Year() int { return o.Time.Year() }

// compare orders by (time, id), the canonical processing order.
func compareOrders(a, b Order) int {
	if a.Time.Before(b.Time) {
		return -1
	}
	if a.Time.After(b.Time) {
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// checkOrders rejects malformed input before matching begins: non-positive
// quantities, negative prices, unknown sides, or more than one instrument.
func checkOrders(orders []Order) error {
	product := ""
	for _, o := range orders {
		if o.Side != Buy && o.Side != Sell {
			return &InvalidOrderError{ID: o.ID, Reason: fmt.Sprintf("unknown side %q", string(o.Side))}
		}
		if !o.Quantity.IsPositive() {
			return &InvalidOrderError{ID: o.ID, Reason: fmt.Sprintf("non-positive quantity %s", o.Quantity)}
		}
		if o.Price.IsNegative() {
			return &InvalidOrderError{ID: o.ID, Reason: fmt.Sprintf("negative price %s", o.Price)}
		}
		if o.Product != "" {
			if product == "" {
				product = o.Product
			} else if o.Product != product {
				return &InvalidOrderError{ID: o.ID, Reason: fmt.Sprintf("product %q does not match %q", o.Product, product)}
			}
		}
	}
	return nil
}

// QuoteCurrency extracts the quote currency from a product identifier like
// "ETH-USD". It returns "" when the product carries no currency suffix.
func QuoteCurrency(product string) string {
	if i := strings.LastIndex(product, "-"); i >= 0 {
		return product[i+1:]
	}
	return ""
}
