package capgains

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// longTermDays is the holding period threshold, in whole days, beyond which
// a gain is long-term. Exactly 365 days is still short-term.
const longTermDays = 365

// conservationTolerance bounds the acceptable imbalance between bought,
// remaining and matched quantities after a pass.
var conservationTolerance = decimal.New(1, -6)

// MatchedPair is the result of covering some quantity of a sale with the
// same quantity from one lot. It is immutable once created and independent
// of the lot and order it was derived from.
type MatchedPair struct {
	SaleID    string
	BuyID     string
	SaleTime  time.Time
	BuyTime   time.Time
	Quantity  Quantity
	SalePrice Money // per unit
	BuyPrice  Money // per unit

	NetProceeds   Money // Quantity * SalePrice
	CostBasis     Money // Quantity * BuyPrice
	ShortTermGain Money
	LongTermGain  Money
	HoldingDays   int
	Policy        Policy
}

// Gain returns the total realized gain or loss of the pair.
func (p MatchedPair) Gain() Money { return p.NetProceeds.Sub(p.CostBasis) }

// LongTerm reports whether the pair's holding period exceeds 365 whole days.
func (p MatchedPair) LongTerm() bool { return p.HoldingDays > longTermDays }

// newMatchedPair builds the pair covering quantity q of the sale with the
// given buy fragment.
func newMatchedPair(sale Order, buy Lot, q Quantity, policy Policy) MatchedPair {
	proceeds := sale.Price.Mul(q)
	basis := buy.Price.Mul(q)
	gain := proceeds.Sub(basis)
	days := int(sale.Time.Sub(buy.Time).Hours() / 24)

	p := MatchedPair{
		SaleID:      sale.ID,
		BuyID:       buy.ID,
		SaleTime:    sale.Time,
		BuyTime:     buy.Time,
		Quantity:    q,
		SalePrice:   sale.Price,
		BuyPrice:    buy.Price,
		NetProceeds: proceeds,
		CostBasis:   basis,
		HoldingDays: days,
		Policy:      policy,
	}
	if days > longTermDays {
		p.LongTermGain = gain
		p.ShortTermGain = gain.Zero()
	} else {
		p.ShortTermGain = gain
		p.LongTermGain = gain.Zero()
	}
	return p
}

// Match runs the full matching pass over the orders: BUY orders open lots,
// and each SELL order consumes open lots under the policy configured for
// its calendar year. Orders executed after maxYear are ignored and passed
// through untouched.
//
// It returns the unconsumed orders, that is the remaining lots in (time, id)
// order followed by the ignored orders, and the matched pairs in emission
// order. The pass is a pure function of its arguments.
func Match(orders []Order, policies PolicyMap, maxYear int) (remaining []Order, pairs []MatchedPair, err error) {
	if err := checkOrders(orders); err != nil {
		return nil, nil, err
	}

	// Partition into the processing window and the carried-forward tail.
	var window, ignored []Order
	for _, o := range orders {
		if o.Year() > maxYear {
			ignored = append(ignored, o)
		} else {
			window = append(window, o)
		}
	}

	// Processing order is fixed by (time, id), regardless of input order.
	slices.SortStableFunc(window, compareOrders)

	var totalBought Quantity
	byID := make(map[string]Order, len(window))

	ledger := &Ledger{}
	for _, o := range window {
		if o.Side == Buy {
			totalBought = totalBought.Add(o.Quantity)
			byID[o.ID] = o
			ledger.Add(Lot{ID: o.ID, Time: o.Time, Price: o.Price, Quantity: o.Quantity})
			continue
		}

		policy, ok := policies[o.Year()]
		if !ok {
			return nil, nil, &InvalidOrderError{ID: o.ID, Reason: fmt.Sprintf("no accounting policy configured for year %d", o.Year())}
		}
		// Reorder fresh before each sale: newly added lots must be
		// incorporated, and a later year may use a different policy.
		ledger.Reorder(policy)

		left := o.Quantity
		for left.IsPositive() {
			top, err := ledger.PeekTop()
			if err != nil {
				return nil, nil, &InsufficientLotsError{SaleID: o.ID, Time: o.Time}
			}
			q := left.Min(top.Quantity)
			fragment, err := ledger.Consume(q)
			if err != nil {
				return nil, nil, err
			}
			pairs = append(pairs, newMatchedPair(o, fragment, q, policy))
			left = left.Sub(q)
		}
	}

	ledger.sortCanonical()

	var matched Quantity
	for _, p := range pairs {
		matched = matched.Add(p.Quantity)
	}
	if err := checkConservation(totalBought, ledger.TotalQuantity(), matched); err != nil {
		return nil, nil, err
	}

	// Remaining lots go back out as orders with reduced quantities, keeping
	// their source record fields for round-trip export.
	for _, lot := range ledger.Lots() {
		o := byID[lot.ID]
		o.Quantity = lot.Quantity
		remaining = append(remaining, o)
	}
	remaining = append(remaining, ignored...)

	return remaining, pairs, nil
}

// checkConservation validates that quantity was only ever moved from open
// lots to matched fragments, never created or destroyed.
func checkConservation(bought, remaining, matched Quantity) error {
	diff := bought.Sub(remaining).Sub(matched).Abs()
	if diff.value.GreaterThan(conservationTolerance) {
		return &ConservationError{Bought: bought, Remaining: remaining, Matched: matched}
	}
	return nil
}
