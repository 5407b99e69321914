package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, name := range []string{"Received", "Processing", "Cancelled"} {
		st, err := ParseStatus(name)
		assert.NoError(t, err)
		assert.Equal(t, Status(name), st)
	}
	_, err := ParseStatus("Shipped")
	assert.Error(t, err)
	_, err = ParseStatus("received")
	assert.Error(t, err, "status names are case sensitive")
}

func TestCancelIsTotal(t *testing.T) {
	for _, st := range []Status{StatusReceived, StatusProcessing, StatusCancelled} {
		assert.Equal(t, StatusCancelled, st.Cancel())
	}
}

func TestDecodeOrder(t *testing.T) {
	body := `{"cust_id":101,"status":"Received","order_items":[{"item_id":11,"item_name":"iphone13","item_qty":1,"item_price":999.0}]}`
	o, err := DecodeOrder([]byte(body))
	assert.NoError(t, err)
	assert.Equal(t, 101, o.CustID)
	assert.Equal(t, StatusReceived, o.Status)
	if assert.Len(t, o.Items, 1) {
		assert.Equal(t, 11, o.Items[0].ItemID)
		assert.Equal(t, "iphone13", o.Items[0].ItemName)
		assert.Equal(t, 1, o.Items[0].ItemQty)
		assert.Equal(t, 999.0, o.Items[0].ItemPrice)
	}
}

func TestDecodeOrderDefaultsStatus(t *testing.T) {
	o, err := DecodeOrder([]byte(`{"cust_id":101,"order_items":[]}`))
	assert.NoError(t, err)
	assert.Equal(t, StatusReceived, o.Status)
	assert.NotNil(t, o.Items)
}

func TestDecodeOrderRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing cust_id", `{"order_items":[]}`, "missing cust_id"},
		{"missing order_items", `{"cust_id":101}`, "missing order_items"},
		{"cust_id wrong type", `{"cust_id":"101","order_items":[]}`, "cust_id"},
		{"cust_id fractional", `{"cust_id":1.5,"order_items":[]}`, "cust_id"},
		{"unknown status", `{"cust_id":1,"status":"Placed","order_items":[]}`, "status"},
		{"status wrong type", `{"cust_id":1,"status":7,"order_items":[]}`, "status"},
		{"order_items not array", `{"cust_id":1,"order_items":{}}`, "order_items"},
		{"item missing name", `{"cust_id":1,"order_items":[{"item_id":1,"item_qty":1,"item_price":1.0}]}`, "missing item_name"},
		{"item qty wrong type", `{"cust_id":1,"order_items":[{"item_id":1,"item_name":"x","item_qty":1.5,"item_price":1.0}]}`, "item_qty"},
		{"item name wrong type", `{"cust_id":1,"order_items":[{"item_id":1,"item_name":3,"item_qty":1,"item_price":1.0}]}`, "item_name"},
		{"item price wrong type", `{"cust_id":1,"order_items":[{"item_id":1,"item_name":"x","item_qty":1,"item_price":"1.0"}]}`, "item_price"},
		{"empty item name", `{"cust_id":1,"order_items":[{"item_id":1,"item_name":"","item_qty":1,"item_price":1.0}]}`, "item_name"},
		{"non-object body", `[1,2,3]`, "bad or no data"},
		{"empty body", ``, "bad or no data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeOrder([]byte(tt.body))
			if assert.Error(t, err) {
				var ve *DataValidationError
				assert.ErrorAs(t, err, &ve)
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestDecodeOrderAcceptsWholeNumberPrice(t *testing.T) {
	// A JSON number without a fraction is still a valid float.
	o, err := DecodeOrder([]byte(`{"cust_id":1,"order_items":[{"item_id":1,"item_name":"x","item_qty":1,"item_price":999}]}`))
	assert.NoError(t, err)
	assert.Equal(t, 999.0, o.Items[0].ItemPrice)
}

func TestDecodeUpdate(t *testing.T) {
	u, err := DecodeUpdate([]byte(`{"cust_id":102}`))
	assert.NoError(t, err)
	assert.Equal(t, 102, u.CustID)
	assert.False(t, u.HasItems)

	u, err = DecodeUpdate([]byte(`{"cust_id":102,"order_items":[{"item_id":22,"item_name":"ipad","item_qty":2,"item_price":5.0}]}`))
	assert.NoError(t, err)
	assert.True(t, u.HasItems)
	assert.Len(t, u.Items, 1)

	_, err = DecodeUpdate([]byte(`{"order_items":[]}`))
	assert.ErrorContains(t, err, "missing cust_id")
}

func TestDecodeItem(t *testing.T) {
	it, err := DecodeItem([]byte(`{"item_id":22,"item_name":"ipad","item_qty":2,"item_price":5.0}`))
	assert.NoError(t, err)
	assert.Equal(t, 22, it.ItemID)
	assert.Equal(t, "ipad", it.ItemName)

	// id and order_id in the body are ignored; the path is authoritative.
	it, err = DecodeItem([]byte(`{"id":9,"order_id":9,"item_id":22,"item_name":"ipad","item_qty":2,"item_price":5.0}`))
	assert.NoError(t, err)
	assert.Zero(t, it.ID)
	assert.Zero(t, it.OrderID)

	_, err = DecodeItem([]byte(`{"item_id":22,"item_name":"ipad","item_qty":2}`))
	assert.ErrorContains(t, err, "missing item_price")

	_, err = DecodeItem([]byte(`{"item_id":"22","item_name":"ipad","item_qty":2,"item_price":5.0}`))
	assert.ErrorContains(t, err, "item_id")
}

func TestSerializeRoundTrip(t *testing.T) {
	src := Order{
		CustID: 101,
		Status: StatusProcessing,
		Items: []OrderItem{
			{ItemID: 11, ItemName: "iphone13", ItemQty: 1, ItemPrice: 999.0},
			{ItemID: 22, ItemName: "ipad", ItemQty: 2, ItemPrice: 888.0},
		},
	}
	raw, err := json.Marshal(src)
	assert.NoError(t, err)

	got, err := DecodeOrder(raw)
	assert.NoError(t, err)
	assert.Equal(t, src, got, "round trip must preserve every field of an unpersisted order")
}

func TestSerializedFieldNames(t *testing.T) {
	raw, err := json.Marshal(Order{ID: 1, CustID: 101, Status: StatusReceived, Items: []OrderItem{
		{ID: 2, OrderID: 1, ItemID: 11, ItemName: "iphone13", ItemQty: 1, ItemPrice: 999.0},
	}})
	assert.NoError(t, err)

	var m map[string]any
	assert.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"id", "cust_id", "order_items", "status"} {
		assert.Contains(t, m, key)
	}
	assert.Equal(t, "Received", m["status"], "status serializes as its symbolic name")

	item := m["order_items"].([]any)[0].(map[string]any)
	for _, key := range []string{"id", "order_id", "item_id", "item_name", "item_qty", "item_price"} {
		assert.Contains(t, item, key)
	}
}
