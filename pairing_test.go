package capgains

import (
	"errors"
	"testing"
	"time"
)

// The reference scenario: two buys at different prices, one sale under
// HIFO large enough to split the cheaper lot.
func TestMatch_HIFOSplitsCheapLot(t *testing.T) {
	orders := []Order{
		buy("1", on(2020, time.January, 1), 1.0, 100),
		buy("2", on(2020, time.June, 1), 1.0, 200),
		sell("3", on(2021, time.February, 1), 1.5, 300),
	}

	remaining, pairs, err := Match(orders, PolicyMap{2021: HIFO}, 2021)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}

	// First pair consumes the whole $200 lot, short-term.
	first := pairs[0]
	if first.BuyID != "2" || !first.Quantity.Equal(Q(1.0)) {
		t.Errorf("first pair = buy %s quantity %s, want buy 2 quantity 1", first.BuyID, first.Quantity)
	}
	if !first.Gain().Equal(USD(100)) {
		t.Errorf("first pair gain = %s, want $100", first.Gain())
	}
	if first.LongTerm() {
		t.Errorf("first pair held %d days but classified long-term", first.HoldingDays)
	}
	if !first.ShortTermGain.Equal(USD(100)) || !first.LongTermGain.IsZero() {
		t.Errorf("first pair gains = short %s long %s, want short $100 long 0", first.ShortTermGain, first.LongTermGain)
	}

	// Second pair takes half of the $100 lot, long-term.
	second := pairs[1]
	if second.BuyID != "1" || !second.Quantity.Equal(Q(0.5)) {
		t.Errorf("second pair = buy %s quantity %s, want buy 1 quantity 0.5", second.BuyID, second.Quantity)
	}
	if !second.Gain().Equal(USD(100)) {
		t.Errorf("second pair gain = %s, want $100", second.Gain())
	}
	if !second.LongTerm() {
		t.Errorf("second pair held %d days but classified short-term", second.HoldingDays)
	}
	if !second.LongTermGain.Equal(USD(100)) || !second.ShortTermGain.IsZero() {
		t.Errorf("second pair gains = short %s long %s, want short 0 long $100", second.ShortTermGain, second.LongTermGain)
	}

	// The $100 lot stays open with its remainder.
	if len(remaining) != 1 {
		t.Fatalf("got %d remaining orders, want 1", len(remaining))
	}
	if remaining[0].ID != "1" || !remaining[0].Quantity.Equal(Q(0.5)) {
		t.Errorf("remaining = %s quantity %s, want order 1 quantity 0.5", remaining[0].ID, remaining[0].Quantity)
	}
}

func TestMatch_FIFODrawsOldestFirst(t *testing.T) {
	orders := []Order{
		buy("1", on(2020, time.January, 1), 1.0, 100),
		buy("2", on(2020, time.June, 1), 1.0, 200),
		sell("3", on(2020, time.July, 1), 1.5, 300),
	}

	_, pairs, err := Match(orders, PolicyMap{2020: FIFO}, 2020)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if pairs[0].BuyID != "1" || pairs[1].BuyID != "2" {
		t.Errorf("FIFO drew lots %s then %s, want 1 then 2", pairs[0].BuyID, pairs[1].BuyID)
	}
}

func TestMatch_HoldingPeriodBoundary(t *testing.T) {
	tests := []struct {
		name     string
		saleDate time.Time
		longTerm bool
	}{
		{"exactly 365 days is short-term", on(2021, time.January, 1), false},
		{"366 days is long-term", on(2021, time.January, 2), true},
	}
	// 2020 is a leap year: from 2020-01-02, 2021-01-01 is 365 days away
	// and 2021-01-02 is 366.
	buyDate := on(2020, time.January, 2)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orders := []Order{
				buy("1", buyDate, 1.0, 100),
				sell("2", tc.saleDate, 1.0, 200),
			}
			_, pairs, err := Match(orders, PolicyMap{2021: FIFO}, 2021)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got := pairs[0].LongTerm(); got != tc.longTerm {
				t.Errorf("sale on %s: LongTerm() = %v (%d days), want %v",
					tc.saleDate.Format("2006-01-02"), got, pairs[0].HoldingDays, tc.longTerm)
			}
		})
	}
}

func TestMatch_InsufficientLots(t *testing.T) {
	orders := []Order{
		buy("1", on(2020, time.January, 1), 1.0, 100),
		sell("2", on(2020, time.June, 1), 2.0, 200),
	}

	remaining, pairs, err := Match(orders, PolicyMap{2020: FIFO}, 2020)

	var insufficient *InsufficientLotsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Match() error = %v, want InsufficientLotsError", err)
	}
	if insufficient.SaleID != "2" {
		t.Errorf("offending sale = %s, want 2", insufficient.SaleID)
	}
	if !errors.Is(err, ErrEmptyLedger) {
		t.Errorf("error does not unwrap to ErrEmptyLedger")
	}
	// no partial output on failure.
	if remaining != nil || pairs != nil {
		t.Errorf("partial output emitted on failure: %v, %v", remaining, pairs)
	}
}

func TestMatch_OrdersBeyondMaxYearPassThrough(t *testing.T) {
	future := sell("9", on(2022, time.March, 1), 5.0, 500)
	orders := []Order{
		buy("1", on(2020, time.January, 1), 1.0, 100),
		sell("2", on(2020, time.June, 1), 1.0, 200),
		future,
	}

	remaining, pairs, err := Match(orders, PolicyMap{2020: FIFO}, 2021)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	// The future sale is appended after remaining lots, untouched.
	if len(remaining) != 1 || remaining[0].ID != "9" {
		t.Fatalf("remaining = %v, want only the ignored order 9", remaining)
	}
	if !remaining[0].Quantity.Equal(Q(5.0)) {
		t.Errorf("ignored order quantity = %s, want 5 untouched", remaining[0].Quantity)
	}
}

func TestMatch_RemainingLotsInCanonicalOrder(t *testing.T) {
	// HIFO leaves lots in price order; output must be (time, id) order.
	orders := []Order{
		buy("2", on(2020, time.February, 1), 1.0, 300),
		buy("1", on(2020, time.January, 1), 1.0, 100),
		buy("3", on(2020, time.March, 1), 1.0, 200),
		sell("4", on(2020, time.June, 1), 0.5, 400),
	}

	remaining, _, err := Match(orders, PolicyMap{2020: HIFO}, 2020)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	want := []string{"1", "2", "3"}
	if len(remaining) != len(want) {
		t.Fatalf("got %d remaining orders, want %d", len(remaining), len(want))
	}
	for i := range want {
		if remaining[i].ID != want[i] {
			t.Fatalf("remaining order = %v, want %v", remaining, want)
		}
	}
}

func TestMatch_ProcessingOrderIndependentOfInputOrder(t *testing.T) {
	shuffled := []Order{
		sell("3", on(2020, time.June, 1), 1.0, 300),
		buy("1", on(2020, time.January, 1), 1.0, 100),
		buy("2", on(2020, time.February, 1), 1.0, 200),
	}
	_, pairs, err := Match(shuffled, PolicyMap{2020: FIFO}, 2020)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if pairs[0].BuyID != "1" {
		t.Errorf("drew lot %s, want 1: input order leaked into processing order", pairs[0].BuyID)
	}
}

func TestMatch_SameTimestampTieBrokenByID(t *testing.T) {
	same := on(2020, time.January, 1)
	orders := []Order{
		buy("b", same, 1.0, 200),
		buy("a", same, 1.0, 100),
		sell("c", on(2020, time.June, 1), 1.0, 300),
	}
	_, pairs, err := Match(orders, PolicyMap{2020: FIFO}, 2020)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if pairs[0].BuyID != "a" {
		t.Errorf("drew lot %s, want a (lowest id at equal time)", pairs[0].BuyID)
	}
}

func TestMatch_PolicyChangeAcrossYears(t *testing.T) {
	// 2020 sales use FIFO, 2021 sales use HIFO; the switch never reorders
	// already-emitted pairs.
	orders := []Order{
		buy("1", on(2019, time.January, 1), 1.0, 100),
		buy("2", on(2019, time.June, 1), 1.0, 300),
		buy("3", on(2019, time.July, 1), 1.0, 200),
		sell("4", on(2020, time.June, 1), 1.0, 400),
		sell("5", on(2021, time.June, 1), 1.0, 400),
	}

	_, pairs, err := Match(orders, PolicyMap{2020: FIFO, 2021: HIFO}, 2021)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if pairs[0].BuyID != "1" || pairs[0].Policy != FIFO {
		t.Errorf("2020 sale drew lot %s under %s, want 1 under fifo", pairs[0].BuyID, pairs[0].Policy)
	}
	if pairs[1].BuyID != "2" || pairs[1].Policy != HIFO {
		t.Errorf("2021 sale drew lot %s under %s, want 2 under hifo", pairs[1].BuyID, pairs[1].Policy)
	}
}

func TestMatch_MissingYearPolicy(t *testing.T) {
	orders := []Order{
		buy("1", on(2020, time.January, 1), 1.0, 100),
		sell("2", on(2021, time.June, 1), 1.0, 200),
	}
	_, _, err := Match(orders, PolicyMap{2020: FIFO}, 2021)
	var invalid *InvalidOrderError
	if !errors.As(err, &invalid) {
		t.Fatalf("Match() error = %v, want InvalidOrderError for unconfigured year", err)
	}
}

func TestMatch_RejectsMalformedOrders(t *testing.T) {
	base := []Order{buy("1", on(2020, time.January, 1), 1.0, 100)}

	tests := []struct {
		name string
		bad  Order
	}{
		{"unknown side", Order{ID: "x", Side: "HODL", Time: on(2020, time.June, 1), Quantity: Q(1.0), Price: USD(1)}},
		{"zero quantity", Order{ID: "x", Side: Buy, Time: on(2020, time.June, 1), Quantity: Q(0.0), Price: USD(1)}},
		{"negative quantity", Order{ID: "x", Side: Buy, Time: on(2020, time.June, 1), Quantity: Q(-1.0), Price: USD(1)}},
		{"negative price", Order{ID: "x", Side: Buy, Time: on(2020, time.June, 1), Quantity: Q(1.0), Price: USD(-1)}},
		{"mixed product", Order{ID: "x", Product: "BTC-USD", Side: Buy, Time: on(2020, time.June, 1), Quantity: Q(1.0), Price: USD(1)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Match(append(base, tc.bad), PolicyMap{2020: FIFO}, 2020)
			var invalid *InvalidOrderError
			if !errors.As(err, &invalid) {
				t.Fatalf("Match() error = %v, want InvalidOrderError", err)
			}
		})
	}
}

func TestMatch_SellAllThenRebuy(t *testing.T) {
	orders := []Order{
		buy("1", on(2020, time.January, 1), 1.0, 100),
		sell("2", on(2020, time.February, 1), 1.0, 200),
		buy("3", on(2020, time.March, 1), 2.0, 150),
		sell("4", on(2020, time.April, 1), 0.5, 250),
	}
	remaining, pairs, err := Match(orders, PolicyMap{2020: FIFO}, 2020)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if pairs[1].BuyID != "3" {
		t.Errorf("second sale drew lot %s, want 3", pairs[1].BuyID)
	}
	if len(remaining) != 1 || !remaining[0].Quantity.Equal(Q(1.5)) {
		t.Errorf("remaining = %v, want order 3 with quantity 1.5", remaining)
	}
}
