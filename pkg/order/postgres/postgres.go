// Package postgres implements the order repository on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"ordersvc/pkg/order"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id      SERIAL PRIMARY KEY,
	cust_id INTEGER NOT NULL,
	status  TEXT NOT NULL DEFAULT 'Received'
);
CREATE TABLE IF NOT EXISTS order_items (
	id         SERIAL PRIMARY KEY,
	order_id   INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	item_id    INTEGER NOT NULL,
	item_name  TEXT NOT NULL,
	item_qty   INTEGER NOT NULL,
	item_price DOUBLE PRECISION NOT NULL
);`

// Repository persists order aggregates in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the orders and order_items tables if they do not exist.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// Create inserts the order and its items in one transaction, populating the
// order ID and every item's ID and OrderID. A caller-supplied ID is ignored.
func (r *Repository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	o.ID = 0
	if o.Status == "" {
		o.Status = order.StatusReceived
	}
	err = tx.QueryRowContext(ctx,
		"INSERT INTO orders (cust_id, status) VALUES ($1, $2) RETURNING id",
		o.CustID, o.Status).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err = tx.QueryRowContext(ctx,
			"INSERT INTO order_items (order_id, item_id, item_name, item_qty, item_price) VALUES ($1, $2, $3, $4, $5) RETURNING id",
			it.OrderID, it.ItemID, it.ItemName, it.ItemQty, it.ItemPrice).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return tx.Commit()
}

// Update replaces the order's mutable fields and reconciles its item set in
// one transaction: items with a zero ID are inserted, known IDs are updated,
// and rows missing from the set are removed.
func (r *Repository) Update(ctx context.Context, o *order.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET cust_id = $2, status = $3 WHERE id = $1",
		o.ID, o.CustID, o.Status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return order.ErrNotFound
	}

	keep := make([]int64, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		if it.ID == 0 {
			err = tx.QueryRowContext(ctx,
				"INSERT INTO order_items (order_id, item_id, item_name, item_qty, item_price) VALUES ($1, $2, $3, $4, $5) RETURNING id",
				it.OrderID, it.ItemID, it.ItemName, it.ItemQty, it.ItemPrice).Scan(&it.ID)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		} else {
			res, err = tx.ExecContext(ctx,
				"UPDATE order_items SET item_id = $3, item_name = $4, item_qty = $5, item_price = $6 WHERE order_id = $1 AND id = $2",
				it.OrderID, it.ID, it.ItemID, it.ItemName, it.ItemQty, it.ItemPrice)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return order.ErrItemNotFound
			}
		}
		keep = append(keep, int64(it.ID))
	}
	if len(keep) == 0 {
		_, err = tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", o.ID)
	} else {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM order_items WHERE order_id = $1 AND id <> ALL($2)",
			o.ID, pq.Array(keep))
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes the order and its items in one transaction. Items go first
// so the cascade holds even without the foreign key in place.
func (r *Repository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id); err != nil {
		return err
	}
	return tx.Commit()
}

// Get retrieves an order and its items by ID.
func (r *Repository) Get(ctx context.Context, id int) (order.Order, error) {
	var o order.Order
	err := r.db.QueryRowContext(ctx,
		"SELECT id, cust_id, status FROM orders WHERE id = $1", id).
		Scan(&o.ID, &o.CustID, &o.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return order.Order{}, order.ErrNotFound
	}
	if err != nil {
		return order.Order{}, err
	}
	o.Items, err = r.loadItems(ctx, o.ID)
	return o, err
}

// List fetches all orders.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	return r.listWhere(ctx, "SELECT id, cust_id, status FROM orders ORDER BY id")
}

// ListByCustomer fetches all orders placed by one customer.
func (r *Repository) ListByCustomer(ctx context.Context, custID int) ([]order.Order, error) {
	return r.listWhere(ctx,
		"SELECT id, cust_id, status FROM orders WHERE cust_id = $1 ORDER BY id", custID)
}

// ListByItem fetches all orders containing at least one item with the given
// product item ID.
func (r *Repository) ListByItem(ctx context.Context, itemID int) ([]order.Order, error) {
	return r.listWhere(ctx, `
		SELECT DISTINCT o.id, o.cust_id, o.status
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.item_id = $1
		ORDER BY o.id`, itemID)
}

// AddItem inserts a single item row for an existing order.
func (r *Repository) AddItem(ctx context.Context, orderID int, it *order.OrderItem) error {
	var exists int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM orders WHERE id = $1", orderID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return order.ErrNotFound
	}
	if err != nil {
		return err
	}
	it.OrderID = orderID
	return r.db.QueryRowContext(ctx,
		"INSERT INTO order_items (order_id, item_id, item_name, item_qty, item_price) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		it.OrderID, it.ItemID, it.ItemName, it.ItemQty, it.ItemPrice).Scan(&it.ID)
}

// UpdateItem replaces the single row identified by (it.OrderID, it.ID).
func (r *Repository) UpdateItem(ctx context.Context, it *order.OrderItem) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE order_items SET item_id = $3, item_name = $4, item_qty = $5, item_price = $6 WHERE order_id = $1 AND id = $2",
		it.OrderID, it.ID, it.ItemID, it.ItemName, it.ItemQty, it.ItemPrice)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return order.ErrItemNotFound
	}
	return nil
}

// DeleteItem removes a single item row. Missing rows are not an error.
func (r *Repository) DeleteItem(ctx context.Context, orderID, itemID int) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM order_items WHERE order_id = $1 AND id = $2", orderID, itemID)
	return err
}

func (r *Repository) listWhere(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []order.Order{}
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.CustID, &o.Status); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Items, err = r.loadItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID int) ([]order.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, order_id, item_id, item_name, item_qty, item_price FROM order_items WHERE order_id = $1 ORDER BY id",
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []order.OrderItem{}
	for rows.Next() {
		var it order.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.ItemName, &it.ItemQty, &it.ItemPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
