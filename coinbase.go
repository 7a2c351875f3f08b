package capgains

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

/*
	{
	    "fills": [
	        {
	            "trade_id": 586,
	            "product_id": "ETH-USD",
	            "side": "buy",
	            "created_at": "2020-01-01T00:00:00.000Z",
	            "size": "1.00000000",
	            "price": "100.00",
	            "fee": "0.50"
	        }
	    ]
	}
*/

// ImportFillsJSON reads fills from the API JSON export. The file is either
// an object with a "fills" property or a bare list of fill objects. All
// fills must reference a single product.
func ImportFillsJSON(r io.Reader) ([]Order, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read fills: %w", err)
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("cannot parse fills: %w", err)
	}

	jfills, err := jsonpath.Get("$.fills", jobj)
	if err != nil {
		// not an object with a fills property, accept a bare list.
		jfills = jobj
	}
	jlist, ok := jfills.([]any)
	if !ok {
		return nil, fmt.Errorf("fills is not a list, got %T", jfills)
	}

	var orders []Order
	for i := range jlist {
		o, err := fillFromJSON(jlist, i)
		if err != nil {
			return nil, fmt.Errorf("fill #%d: %w", i, err)
		}
		orders = append(orders, o)
	}

	if err := singleProduct(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func fillFromJSON(jlist []any, i int) (Order, error) {
	id, err := jstring(jlist, i, "$[%d].trade_id")
	if err != nil {
		return Order{}, err
	}
	product, err := jstring(jlist, i, "$[%d].product_id")
	if err != nil {
		return Order{}, err
	}
	rawSide, err := jstring(jlist, i, "$[%d].side")
	if err != nil {
		return Order{}, err
	}
	side, err := ParseSide(rawSide)
	if err != nil {
		return Order{}, err
	}
	createdAt, err := jstring(jlist, i, "$[%d].created_at")
	if err != nil {
		return Order{}, err
	}
	when, err := parseFillTime(createdAt)
	if err != nil {
		return Order{}, err
	}
	size, err := jstring(jlist, i, "$[%d].size")
	if err != nil {
		return Order{}, err
	}
	quantity, err := ParseQuantity(size)
	if err != nil {
		return Order{}, fmt.Errorf("invalid size: %w", err)
	}
	rawPrice, err := jstring(jlist, i, "$[%d].price")
	if err != nil {
		return Order{}, err
	}
	price, err := ParseMoney(rawPrice, QuoteCurrency(product))
	if err != nil {
		return Order{}, fmt.Errorf("invalid price: %w", err)
	}

	return Order{
		ID:       id,
		Product:  product,
		Side:     side,
		Time:     when,
		Quantity: quantity,
		Price:    price,
		// so that a JSON import can be re-exported as a fills CSV.
		extra: map[string]string{
			colTradeID:   id,
			colProduct:   product,
			colSide:      rawSide,
			colCreatedAt: createdAt,
			colSize:      size,
			colPrice:     rawPrice,
		},
	}, nil
}

// jstring extracts one field as a string. The API is not consistent about
// numbers: amounts come as strings, ids as numbers, so both are accepted.
func jstring(jobj any, i int, pathFmt string) (string, error) {
	path := fmt.Sprintf(pathFmt, i)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("missing %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%q is not a string, got %T", path, jval)
	}
}
