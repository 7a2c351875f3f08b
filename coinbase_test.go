package capgains

import (
	"strings"
	"testing"
)

const sampleFillsJSON = `{
  "fills": [
    {"trade_id": 101, "product_id": "ETH-USD", "side": "buy", "created_at": "2020-01-01T00:00:00.000Z", "size": "1.0", "price": "100.00"},
    {"trade_id": 102, "product_id": "ETH-USD", "side": "sell", "created_at": "2020-06-01T00:00:00.000Z", "size": "0.5", "price": "200.00"}
  ]
}`

func TestImportFillsJSON(t *testing.T) {
	orders, err := ImportFillsJSON(strings.NewReader(sampleFillsJSON))
	if err != nil {
		t.Fatalf("ImportFillsJSON() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}

	o := orders[0]
	// numeric trade ids come back as strings.
	if o.ID != "101" {
		t.Errorf("first order id = %q, want 101", o.ID)
	}
	if o.Side != Buy || orders[1].Side != Sell {
		t.Errorf("sides = %s, %s", o.Side, orders[1].Side)
	}
	if !o.Price.Equal(USD(100)) || o.Price.Currency() != "USD" {
		t.Errorf("first order price = %s %s", o.Price, o.Price.Currency())
	}
	if !orders[1].Quantity.Equal(Q(0.5)) {
		t.Errorf("second order quantity = %s, want 0.5", orders[1].Quantity)
	}
}

func TestImportFillsJSON_BareList(t *testing.T) {
	bare := `[{"trade_id": "1", "product_id": "ETH-USD", "side": "BUY", "created_at": "2020-01-01T00:00:00Z", "size": "1", "price": "100"}]`
	orders, err := ImportFillsJSON(strings.NewReader(bare))
	if err != nil {
		t.Fatalf("ImportFillsJSON() error = %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "1" {
		t.Fatalf("orders = %+v", orders)
	}
}

func TestImportFillsJSON_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "not json at all"},
		{"fills not a list", `{"fills": 42}`},
		{"missing field", `[{"trade_id": "1", "side": "BUY"}]`},
		{"unknown side", `[{"trade_id": "1", "product_id": "ETH-USD", "side": "HODL", "created_at": "2020-01-01T00:00:00Z", "size": "1", "price": "100"}]`},
		{"mixed products", `[
			{"trade_id": "1", "product_id": "ETH-USD", "side": "BUY", "created_at": "2020-01-01T00:00:00Z", "size": "1", "price": "100"},
			{"trade_id": "2", "product_id": "BTC-USD", "side": "BUY", "created_at": "2020-01-02T00:00:00Z", "size": "1", "price": "100"}
		]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportFillsJSON(strings.NewReader(tc.in)); err == nil {
				t.Fatal("ImportFillsJSON() accepted malformed input")
			}
		})
	}
}
