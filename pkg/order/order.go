// Package order defines the order aggregate and its persistence contract.
package order

import (
	"context"
	"errors"
	"fmt"
)

// Order represents a customer purchase order together with the items it owns.
// An order's ID is zero until it has been persisted and never changes after.
type Order struct {
	ID     int         `json:"id"`
	CustID int         `json:"cust_id"`
	Items  []OrderItem `json:"order_items"`
	Status Status      `json:"status"`
}

// OrderItem is a single line of an order. OrderID is a back-reference to the
// owning order; the order holds the authoritative item collection.
type OrderItem struct {
	ID        int     `json:"id"`
	OrderID   int     `json:"order_id"`
	ItemID    int     `json:"item_id"`
	ItemName  string  `json:"item_name"`
	ItemQty   int     `json:"item_qty"`
	ItemPrice float64 `json:"item_price"`
}

// Status is the order lifecycle state. It serializes as its symbolic name.
type Status string

const (
	StatusReceived   Status = "Received"
	StatusProcessing Status = "Processing"
	StatusCancelled  Status = "Cancelled"
)

// ParseStatus converts a symbolic name into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusReceived, StatusProcessing, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Cancel is the only transition exposed by the service. It is total:
// cancelling an already-cancelled order stays Cancelled.
func (s Status) Cancel() Status {
	return StatusCancelled
}

// Repository defines behavior for persisting order aggregates. Every mutating
// call commits before returning.
type Repository interface {
	// Create assigns fresh IDs to the order and its items and inserts them
	// in one transaction. Any caller-supplied IDs are discarded.
	Create(ctx context.Context, o *Order) error

	// Update replaces the mutable fields of an already-persisted order:
	// cust_id, status, and the item set. Items with a zero ID are inserted,
	// items with a known ID are updated in place, and rows absent from the
	// set are removed. The order ID is never reassigned.
	Update(ctx context.Context, o *Order) error

	// Delete removes the order and all of its items in one transaction.
	// Deleting an absent order is a no-op.
	Delete(ctx context.Context, id int) error

	// Get returns the order with its items, or ErrNotFound.
	Get(ctx context.Context, id int) (Order, error)

	// List returns every order.
	List(ctx context.Context) ([]Order, error)

	// ListByCustomer returns all orders placed by the given customer.
	ListByCustomer(ctx context.Context, custID int) ([]Order, error)

	// ListByItem returns all orders containing at least one item with the
	// given product item ID.
	ListByItem(ctx context.Context, itemID int) ([]Order, error)

	// AddItem appends a single item to an existing order, populating the
	// item's ID and OrderID. Returns ErrNotFound if the order is absent.
	AddItem(ctx context.Context, orderID int, it *OrderItem) error

	// UpdateItem replaces the row identified by (it.OrderID, it.ID).
	UpdateItem(ctx context.Context, it *OrderItem) error

	// DeleteItem removes a single item. Absent order or item is a no-op.
	DeleteItem(ctx context.Context, orderID, itemID int) error
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")

// ErrItemNotFound indicates the requested item does not exist in the order.
var ErrItemNotFound = errors.New("order item not found")
