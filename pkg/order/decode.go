package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DataValidationError reports a malformed or mistyped request payload. The
// message names the offending field so handlers can surface it directly.
type DataValidationError struct {
	Message string
}

func (e *DataValidationError) Error() string { return e.Message }

func invalidf(format string, args ...any) error {
	return &DataValidationError{Message: fmt.Sprintf(format, args...)}
}

// orderPayload uses pointer fields so a missing key and a zero value can be
// told apart. Wrong primitive types are rejected by the decoder itself.
type orderPayload struct {
	CustID     *int           `json:"cust_id"`
	Status     *string        `json:"status"`
	OrderItems *[]itemPayload `json:"order_items"`
}

type itemPayload struct {
	ItemID    *int     `json:"item_id"`
	ItemName  *string  `json:"item_name"`
	ItemQty   *int     `json:"item_qty"`
	ItemPrice *float64 `json:"item_price"`
}

func (p itemPayload) toItem(entity string) (OrderItem, error) {
	switch {
	case p.ItemID == nil:
		return OrderItem{}, invalidf("Invalid %s: missing item_id", entity)
	case p.ItemName == nil:
		return OrderItem{}, invalidf("Invalid %s: missing item_name", entity)
	case p.ItemQty == nil:
		return OrderItem{}, invalidf("Invalid %s: missing item_qty", entity)
	case p.ItemPrice == nil:
		return OrderItem{}, invalidf("Invalid %s: missing item_price", entity)
	}
	if *p.ItemName == "" {
		return OrderItem{}, invalidf("Invalid %s: item_name must not be empty", entity)
	}
	return OrderItem{
		ItemID:    *p.ItemID,
		ItemName:  *p.ItemName,
		ItemQty:   *p.ItemQty,
		ItemPrice: *p.ItemPrice,
	}, nil
}

// strictUnmarshal decodes data into dst and converts decoder failures into
// DataValidationErrors that name the offending field.
func strictUnmarshal(data []byte, dst any, entity string) error {
	err := json.Unmarshal(data, dst)
	if err == nil {
		return nil
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		field := te.Field[strings.LastIndexByte(te.Field, '.')+1:]
		return invalidf("Invalid %s: %s must be of type %s", entity, field, te.Type.String())
	}
	return invalidf("Invalid %s: body of request contained bad or no data", entity)
}

// DecodeOrder parses an order create payload. cust_id and order_items are
// required; status is optional and defaults to Received.
func DecodeOrder(data []byte) (Order, error) {
	var p orderPayload
	if err := strictUnmarshal(data, &p, "Order"); err != nil {
		return Order{}, err
	}
	if p.CustID == nil {
		return Order{}, invalidf("Invalid Order: missing cust_id")
	}
	if p.OrderItems == nil {
		return Order{}, invalidf("Invalid Order: missing order_items")
	}
	st := StatusReceived
	if p.Status != nil {
		parsed, err := ParseStatus(*p.Status)
		if err != nil {
			return Order{}, invalidf("Invalid Order: status must be one of %s, %s, %s",
				StatusReceived, StatusProcessing, StatusCancelled)
		}
		st = parsed
	}
	items := make([]OrderItem, 0, len(*p.OrderItems))
	for _, ip := range *p.OrderItems {
		it, err := ip.toItem("Order")
		if err != nil {
			return Order{}, err
		}
		items = append(items, it)
	}
	return Order{CustID: *p.CustID, Status: st, Items: items}, nil
}

// Update is a decoded order update request: a full replace of cust_id and,
// when order_items was supplied, of the item set. A status key in an update
// body is ignored; the cancel operation is the only exposed transition.
type Update struct {
	CustID   int
	Items    []OrderItem
	HasItems bool
}

// DecodeUpdate parses an order update payload. cust_id is required.
func DecodeUpdate(data []byte) (Update, error) {
	var p orderPayload
	if err := strictUnmarshal(data, &p, "Order"); err != nil {
		return Update{}, err
	}
	if p.CustID == nil {
		return Update{}, invalidf("Invalid Order: missing cust_id")
	}
	u := Update{CustID: *p.CustID}
	if p.OrderItems != nil {
		u.HasItems = true
		u.Items = make([]OrderItem, 0, len(*p.OrderItems))
		for _, ip := range *p.OrderItems {
			it, err := ip.toItem("Order")
			if err != nil {
				return Update{}, err
			}
			u.Items = append(u.Items, it)
		}
	}
	return u, nil
}

// DecodeItem parses a standalone order item payload. All four item fields are
// required; id and order_id in the body are ignored in favor of the path.
func DecodeItem(data []byte) (OrderItem, error) {
	var p itemPayload
	if err := strictUnmarshal(data, &p, "OrderItem"); err != nil {
		return OrderItem{}, err
	}
	return p.toItem("OrderItem")
}
