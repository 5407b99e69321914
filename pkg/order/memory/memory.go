// Package memory implements an in-memory order repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"ordersvc/pkg/order"
)

// Repository provides an in-memory implementation of order.Repository.
type Repository struct {
	mu         sync.RWMutex
	orders     map[int]order.Order
	nextID     int
	nextItemID int
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{orders: make(map[int]order.Order), nextID: 1, nextItemID: 1}
}

// Create stores the order, assigning fresh IDs to it and its items.
func (r *Repository) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	if o.Status == "" {
		o.Status = order.StatusReceived
	}
	for i := range o.Items {
		o.Items[i].ID = r.nextItemID
		o.Items[i].OrderID = o.ID
		r.nextItemID++
	}
	r.orders[o.ID] = clone(*o)
	return nil
}

// Update replaces an existing order's cust_id, status, and item set.
func (r *Repository) Update(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[o.ID]
	if !ok {
		return order.ErrNotFound
	}
	existing := make(map[int]bool, len(stored.Items))
	for _, it := range stored.Items {
		existing[it.ID] = true
	}
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		if it.ID == 0 {
			it.ID = r.nextItemID
			r.nextItemID++
		} else if !existing[it.ID] {
			return order.ErrItemNotFound
		}
	}
	r.orders[o.ID] = clone(*o)
	return nil
}

// Delete removes an order and its items. Absent orders are a no-op.
func (r *Repository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id int) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return clone(o), nil
}

// List returns all orders in ID order.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	return r.listMatching(func(order.Order) bool { return true }), nil
}

// ListByCustomer returns all orders placed by the given customer.
func (r *Repository) ListByCustomer(ctx context.Context, custID int) ([]order.Order, error) {
	return r.listMatching(func(o order.Order) bool { return o.CustID == custID }), nil
}

// ListByItem returns all orders containing an item with the given product ID.
func (r *Repository) ListByItem(ctx context.Context, itemID int) ([]order.Order, error) {
	return r.listMatching(func(o order.Order) bool {
		for _, it := range o.Items {
			if it.ItemID == itemID {
				return true
			}
		}
		return false
	}), nil
}

// AddItem appends a single item to an existing order.
func (r *Repository) AddItem(ctx context.Context, orderID int, it *order.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return order.ErrNotFound
	}
	it.ID = r.nextItemID
	it.OrderID = orderID
	r.nextItemID++
	o.Items = append(o.Items, *it)
	r.orders[orderID] = o
	return nil
}

// UpdateItem replaces the item identified by (it.OrderID, it.ID).
func (r *Repository) UpdateItem(ctx context.Context, it *order.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[it.OrderID]
	if !ok {
		return order.ErrItemNotFound
	}
	for i := range o.Items {
		if o.Items[i].ID == it.ID {
			o.Items[i] = *it
			r.orders[it.OrderID] = o
			return nil
		}
	}
	return order.ErrItemNotFound
}

// DeleteItem removes a single item. Absent order or item is a no-op.
func (r *Repository) DeleteItem(ctx context.Context, orderID, itemID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			r.orders[orderID] = o
			return nil
		}
	}
	return nil
}

func (r *Repository) listMatching(match func(order.Order) bool) []order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []order.Order{}
	for _, o := range r.orders {
		if match(o) {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// clone copies the order so stored state never aliases caller slices.
func clone(o order.Order) order.Order {
	items := make([]order.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
