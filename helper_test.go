package capgains

import "time"

// USD is a helper for tests to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// on is a helper for tests to build a timestamp at midnight UTC.
func on(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func buy(id string, t time.Time, qty, price float64) Order {
	return Order{ID: id, Product: "ETH-USD", Side: Buy, Time: t, Quantity: Q(qty), Price: USD(price)}
}

func sell(id string, t time.Time, qty, price float64) Order {
	return Order{ID: id, Product: "ETH-USD", Side: Sell, Time: t, Quantity: Q(qty), Price: USD(price)}
}
