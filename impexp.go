package capgains

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// this file contains functions to handle the fills import/export format.
// It round-trips: columns that the engine does not interpret are preserved
// untouched on each order and written back as-is.

// Core columns of a fills export. Any other column is carried through.
const (
	colTradeID   = "trade id"
	colProduct   = "product"
	colSide      = "side"
	colCreatedAt = "created at"
	colSize      = "size"
	colPrice     = "price"
)

// timeFormats accepted for the "created at" column, tried in order.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseFillTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, f := range timeFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ImportFills reads a fills CSV export (Coinbase Pro format). It returns
// the header columns in file order, for a faithful re-export, and the
// orders in file order. All orders must reference a single product.
func ImportFills(r io.Reader) ([]string, []Order, error) {
	cr := csv.NewReader(r)
	fields, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read fills header: %w", err)
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f] = i
	}
	for _, required := range []string{colTradeID, colSide, colCreatedAt, colSize, colPrice} {
		if _, ok := index[required]; !ok {
			return nil, nil, fmt.Errorf("fills file has no %q column", required)
		}
	}

	var orders []Order
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("cannot read fills line %d: %w", line, err)
		}

		o, err := orderFromRecord(fields, index, record)
		if err != nil {
			return nil, nil, fmt.Errorf("fills line %d: %w", line, err)
		}
		orders = append(orders, o)
	}

	if err := singleProduct(orders); err != nil {
		return nil, nil, err
	}
	return fields, orders, nil
}

func orderFromRecord(fields []string, index map[string]int, record []string) (Order, error) {
	if len(record) != len(fields) {
		return Order{}, fmt.Errorf("got %d columns, want %d", len(record), len(fields))
	}

	extra := make(map[string]string, len(fields))
	for i, f := range fields {
		extra[f] = record[i]
	}

	o := Order{
		ID:    record[index[colTradeID]],
		extra: extra,
	}
	if i, ok := index[colProduct]; ok {
		o.Product = record[i]
	}

	side, err := ParseSide(record[index[colSide]])
	if err != nil {
		return Order{}, err
	}
	o.Side = side

	if o.Time, err = parseFillTime(record[index[colCreatedAt]]); err != nil {
		return Order{}, err
	}
	if o.Quantity, err = ParseQuantity(record[index[colSize]]); err != nil {
		return Order{}, fmt.Errorf("invalid size: %w", err)
	}
	if o.Price, err = ParseMoney(record[index[colPrice]], QuoteCurrency(o.Product)); err != nil {
		return Order{}, fmt.Errorf("invalid price: %w", err)
	}
	return o, nil
}

func singleProduct(orders []Order) error {
	product := ""
	for _, o := range orders {
		if o.Product == "" {
			continue
		}
		if product == "" {
			product = o.Product
		} else if o.Product != product {
			return &InvalidOrderError{ID: o.ID, Reason: fmt.Sprintf("found more than one product: %q and %q", product, o.Product)}
		}
	}
	return nil
}

// ExportOrders writes orders back in the fills CSV format, with the given
// header columns. Source fields are written untouched except the size
// column, which reflects the order's current (possibly reduced) quantity.
func ExportOrders(w io.Writer, fields []string, orders []Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fields); err != nil {
		return fmt.Errorf("cannot write fills header: %w", err)
	}
	for _, o := range orders {
		record := make([]string, len(fields))
		for i, f := range fields {
			if f == colSize {
				record[i] = o.Quantity.String()
				continue
			}
			record[i] = o.extra[f]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write order %s: %w", o.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// pairFields is the header of the capital-gains-per-sale CSV.
var pairFields = []string{
	"buy_id", "sale_id", "buy_date", "sale_date", "size",
	"buy_price", "sale_price", "net_proceeds", "cost_basis",
	"short_term_gains", "long_term_gains", "accounting",
}

// ExportPairs writes the matched pairs as the capital-gains-per-sale CSV,
// one row per pair in emission order.
func ExportPairs(w io.Writer, pairs []MatchedPair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pairFields); err != nil {
		return fmt.Errorf("cannot write pairs header: %w", err)
	}
	for _, p := range pairs {
		record := []string{
			p.BuyID,
			p.SaleID,
			p.BuyTime.Format(time.RFC3339),
			p.SaleTime.Format(time.RFC3339),
			p.Quantity.String(),
			p.BuyPrice.value.String(),
			p.SalePrice.value.String(),
			p.NetProceeds.value.String(),
			p.CostBasis.value.String(),
			p.ShortTermGain.value.String(),
			p.LongTermGain.value.String(),
			p.Policy.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write pair %s/%s: %w", p.SaleID, p.BuyID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodePairs writes the matched pairs to 'w' as JSONL, one pair per line
// with a stable field order.
func EncodePairs(w io.Writer, pairs []MatchedPair) error {
	for _, p := range pairs {
		var jw jsonObjectWriter
		jw.Append("saleId", p.SaleID)
		jw.Append("buyId", p.BuyID)
		jw.Append("saleTime", p.SaleTime.Format(time.RFC3339))
		jw.Append("buyTime", p.BuyTime.Format(time.RFC3339))
		jw.Append("quantity", p.Quantity)
		jw.Append("salePrice", p.SalePrice)
		jw.Append("buyPrice", p.BuyPrice)
		jw.Append("netProceeds", p.NetProceeds)
		jw.Append("costBasis", p.CostBasis)
		jw.Append("shortTermGain", p.ShortTermGain)
		jw.Append("longTermGain", p.LongTermGain)
		jw.Append("holdingDays", p.HoldingDays)
		jw.Append("policy", p.Policy)

		data, err := json.Marshal(&jw)
		if err != nil {
			return fmt.Errorf("cannot marshal pair %s/%s: %w", p.SaleID, p.BuyID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write pair %s/%s: %w", p.SaleID, p.BuyID, err)
		}
	}
	return nil
}
