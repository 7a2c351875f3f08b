package capgains

import (
	"fmt"
	"sort"
	"time"
)

// Lot is a purchase (or a fragment of one) still available to cover a
// future sale. A Lot is a plain value: consuming from the ledger returns a
// new value and never aliases ledger state.
type Lot struct {
	ID       string
	Time     time.Time
	Price    Money // per unit
	Quantity Quantity
}

// Ledger holds the open lots of a matching pass, in the order imposed by
// the last Reorder call.
type Ledger struct {
	open []Lot
}

// Add appends a new open lot.
func (l *Ledger) Add(lot Lot) {
	l.open = append(l.open, lot)
}

// Reorder re-sorts the open lots for the given policy.
//
// HIFO sorts by price descending; equal-price lots keep their prior
// relative order (stable sort), not a timestamp order. FIFO sorts by
// (time, id) ascending.
func (l *Ledger) Reorder(p Policy) {
	if p == HIFO {
		sort.SliceStable(l.open, func(i, j int) bool {
			return l.open[i].Price.GreaterThan(l.open[j].Price)
		})
		return
	}
	sort.SliceStable(l.open, func(i, j int) bool {
		return lotBefore(l.open[i], l.open[j])
	})
}

// sortCanonical orders the open lots by (time, id), the deterministic
// output order, regardless of which policy was last in force.
func (l *Ledger) sortCanonical() {
	sort.SliceStable(l.open, func(i, j int) bool {
		return lotBefore(l.open[i], l.open[j])
	})
}

func lotBefore(a, b Lot) bool {
	if !a.Time.Equal(b.Time) {
		return a.Time.Before(b.Time)
	}
	return a.ID < b.ID
}

// PeekTop returns the first lot in current order. It returns ErrEmptyLedger
// when no open lots remain, which means the purchase history cannot cover
// the requested sell quantity.
func (l *Ledger) PeekTop() (Lot, error) {
	if len(l.open) == 0 {
		return Lot{}, ErrEmptyLedger
	}
	return l.open[0], nil
}

// Consume removes q units from the top lot and returns the consumed
// fragment, an independent value carrying the lot's id, time and price with
// quantity q. When q equals the top lot's quantity the lot is removed
// entirely, otherwise the lot stays open with its quantity reduced by q.
func (l *Ledger) Consume(q Quantity) (Lot, error) {
	top, err := l.PeekTop()
	if err != nil {
		return Lot{}, err
	}
	if !q.IsPositive() {
		return Lot{}, fmt.Errorf("cannot consume non-positive quantity %s", q)
	}
	if q.GreaterThan(top.Quantity) {
		return Lot{}, fmt.Errorf("cannot consume %s from lot %s holding %s", q, top.ID, top.Quantity)
	}

	if q.Equal(top.Quantity) {
		l.open = l.open[1:]
	} else {
		l.open[0].Quantity = top.Quantity.Sub(q)
	}

	fragment := top
	fragment.Quantity = q
	return fragment, nil
}

// Len returns the number of open lots.
func (l *Ledger) Len() int { return len(l.open) }

// Lots returns a copy of the open lots in current order.
func (l *Ledger) Lots() []Lot {
	out := make([]Lot, len(l.open))
	copy(out, l.open)
	return out
}

// TotalQuantity sums the quantity over all open lots.
func (l *Ledger) TotalQuantity() Quantity {
	var total Quantity
	for _, lot := range l.open {
		total = total.Add(lot.Quantity)
	}
	return total
}
