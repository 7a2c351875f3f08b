// Package capgains computes realized capital gains for a chronological
// stream of trades in a single instrument, using tax-lot accounting.
//
// The core of the package is the matching pass: BUY orders open tax lots,
// and each SELL order consumes open lots according to the accounting policy
// in force for its calendar year, either HIFO (highest-cost lot first) or
// FIFO (oldest lot first). Lots are split as needed, and every consumed
// fragment yields one MatchedPair classifying the gain as short-term or
// long-term at the 365-day holding threshold.
//
// The main functionalities are:
//   - Matching: Match runs the full deterministic pass over a list of
//     orders and returns the unconsumed lots (for carry-forward into a
//     future run) together with the matched-pair ledger.
//   - Lot Ledger: the ordered collection of open lots, reorderable per
//     policy, with quantity-preserving split and consume operations.
//   - Import/Export: reading fills from the Coinbase Pro CSV export or the
//     API JSON format, and writing back unpaired orders, paired orders and
//     the per-sale capital gains, in formats that round-trip.
//   - Configuration: a YAML file mapping each calendar year to its
//     accounting policy, plus the processing cutoff year.
//
// This package serves as the foundational logic for the `cgs` command-line
// tool. The whole pass is a pure function of its inputs: same orders, same
// policies and same cutoff always produce the same output, byte for byte.
package capgains
