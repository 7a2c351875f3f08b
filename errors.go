package capgains

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyLedger is returned when a lot is requested from a ledger with no
// open lots left.
var ErrEmptyLedger = errors.New("no open lots")

// InsufficientLotsError reports a sale whose quantity exceeds the total open
// lot quantity at that point of the pass. It is unrecoverable for the run.
type InsufficientLotsError struct {
	SaleID string
	Time   time.Time
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("open lots cannot cover sale %s of %s", e.SaleID, e.Time.Format(time.RFC3339))
}

func (e *InsufficientLotsError) Unwrap() error { return ErrEmptyLedger }

// ConservationError reports that post-pass quantity accounting does not
// balance within tolerance. It indicates an internal logic defect, never a
// user input error.
type ConservationError struct {
	Bought    Quantity // total in-window BUY quantity
	Remaining Quantity // total quantity left in open lots
	Matched   Quantity // total quantity of matched buy fragments
}

func (e *ConservationError) Error() string {
	return fmt.Sprintf("quantity not conserved: bought %s != remaining %s + matched %s",
		e.Bought, e.Remaining, e.Matched)
}

// InvalidOrderError reports a malformed order rejected before matching
// begins.
type InvalidOrderError struct {
	ID     string
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("invalid order %s: %s", e.ID, e.Reason)
}
