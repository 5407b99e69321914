// Package rediscache decorates an order repository with a read-through Redis
// cache for single-order lookups. List queries always hit storage.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ordersvc/pkg/order"
)

// Repository wraps another order.Repository. Every write invalidates the
// cached entry for the affected order before the call returns.
type Repository struct {
	next order.Repository
	rdb  *redis.Client
	ttl  time.Duration
}

// New creates the caching decorator.
func New(next order.Repository, rdb *redis.Client, ttl time.Duration) *Repository {
	return &Repository{next: next, rdb: rdb, ttl: ttl}
}

func key(id int) string {
	return fmt.Sprintf("ordersvc:order:%d", id)
}

// Get returns the cached order if present, otherwise loads and caches it.
// Cache failures fall back to storage and are never surfaced.
func (r *Repository) Get(ctx context.Context, id int) (order.Order, error) {
	if raw, err := r.rdb.Get(ctx, key(id)).Result(); err == nil {
		var o order.Order
		if err := json.Unmarshal([]byte(raw), &o); err == nil {
			return o, nil
		}
	}
	o, err := r.next.Get(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	if raw, err := json.Marshal(o); err == nil {
		r.rdb.Set(ctx, key(id), raw, r.ttl)
	}
	return o, nil
}

// Create passes through; a fresh order has no cache entry to invalidate.
func (r *Repository) Create(ctx context.Context, o *order.Order) error {
	return r.next.Create(ctx, o)
}

// Update writes through and drops the cached entry.
func (r *Repository) Update(ctx context.Context, o *order.Order) error {
	if err := r.next.Update(ctx, o); err != nil {
		return err
	}
	r.rdb.Del(ctx, key(o.ID))
	return nil
}

// Delete writes through and drops the cached entry.
func (r *Repository) Delete(ctx context.Context, id int) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.rdb.Del(ctx, key(id))
	return nil
}

// List passes through to storage.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	return r.next.List(ctx)
}

// ListByCustomer passes through to storage.
func (r *Repository) ListByCustomer(ctx context.Context, custID int) ([]order.Order, error) {
	return r.next.ListByCustomer(ctx, custID)
}

// ListByItem passes through to storage.
func (r *Repository) ListByItem(ctx context.Context, itemID int) ([]order.Order, error) {
	return r.next.ListByItem(ctx, itemID)
}

// AddItem writes through and drops the cached entry for the owning order.
func (r *Repository) AddItem(ctx context.Context, orderID int, it *order.OrderItem) error {
	if err := r.next.AddItem(ctx, orderID, it); err != nil {
		return err
	}
	r.rdb.Del(ctx, key(orderID))
	return nil
}

// UpdateItem writes through and drops the cached entry for the owning order.
func (r *Repository) UpdateItem(ctx context.Context, it *order.OrderItem) error {
	if err := r.next.UpdateItem(ctx, it); err != nil {
		return err
	}
	r.rdb.Del(ctx, key(it.OrderID))
	return nil
}

// DeleteItem writes through and drops the cached entry for the owning order.
func (r *Repository) DeleteItem(ctx context.Context, orderID, itemID int) error {
	if err := r.next.DeleteItem(ctx, orderID, itemID); err != nil {
		return err
	}
	r.rdb.Del(ctx, key(orderID))
	return nil
}
