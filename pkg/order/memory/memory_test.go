package memory

import (
	"context"
	"errors"
	"testing"

	"ordersvc/pkg/order"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()

	o := order.Order{CustID: 101, Items: []order.OrderItem{
		{ItemID: 11, ItemName: "iphone13", ItemQty: 1, ItemPrice: 999.0},
	}}
	if err := repo.Create(ctx, &o); err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID == 0 {
		t.Fatal("expected order ID to be assigned")
	}
	if o.Status != order.StatusReceived {
		t.Fatalf("expected default status Received, got %s", o.Status)
	}
	if o.Items[0].ID == 0 || o.Items[0].OrderID != o.ID {
		t.Fatalf("expected item IDs populated, got %+v", o.Items[0])
	}

	got, err := repo.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CustID != 101 || len(got.Items) != 1 {
		t.Fatalf("unexpected order: %+v", got)
	}

	got.CustID = 102
	if err := repo.Update(ctx, &got); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if list[0].CustID != 102 {
		t.Fatalf("expected cust 102, got %d", list[0].CustID)
	}

	if err := repo.Delete(ctx, o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, o.ID); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// Deleting again is a no-op.
	if err := repo.Delete(ctx, o.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestRepositoryQueries(t *testing.T) {
	ctx := context.Background()
	repo := New()

	for i := 0; i < 3; i++ {
		o := order.Order{CustID: 101, Items: []order.OrderItem{{ItemID: 11, ItemName: "iphone13", ItemQty: 1, ItemPrice: 999.0}}}
		if err := repo.Create(ctx, &o); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		o := order.Order{CustID: 102, Items: []order.OrderItem{{ItemID: 22, ItemName: "ipad", ItemQty: 1, ItemPrice: 888.0}}}
		if err := repo.Create(ctx, &o); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	byCust, err := repo.ListByCustomer(ctx, 101)
	if err != nil || len(byCust) != 3 {
		t.Fatalf("by customer: %v len=%d", err, len(byCust))
	}
	for _, o := range byCust {
		if o.CustID != 101 {
			t.Fatalf("expected cust 101, got %d", o.CustID)
		}
	}

	byItem, err := repo.ListByItem(ctx, 22)
	if err != nil || len(byItem) != 2 {
		t.Fatalf("by item: %v len=%d", err, len(byItem))
	}

	none, err := repo.ListByItem(ctx, 99)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no match, got %v len=%d", err, len(none))
	}
}

func TestRepositoryItems(t *testing.T) {
	ctx := context.Background()
	repo := New()

	o := order.Order{CustID: 101, Items: []order.OrderItem{{ItemID: 11, ItemName: "iphone13", ItemQty: 1, ItemPrice: 999.0}}}
	if err := repo.Create(ctx, &o); err != nil {
		t.Fatalf("create: %v", err)
	}

	it := order.OrderItem{ItemID: 22, ItemName: "ipad", ItemQty: 2, ItemPrice: 888.0}
	if err := repo.AddItem(ctx, o.ID, &it); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if it.ID == 0 || it.OrderID != o.ID {
		t.Fatalf("expected item IDs populated, got %+v", it)
	}
	if err := repo.AddItem(ctx, 999, &it); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing order, got %v", err)
	}

	it.ItemQty = 5
	if err := repo.UpdateItem(ctx, &it); err != nil {
		t.Fatalf("update item: %v", err)
	}
	got, err := repo.Get(ctx, o.ID)
	if err != nil || len(got.Items) != 2 {
		t.Fatalf("get: %v len=%d", err, len(got.Items))
	}
	if got.Items[1].ItemQty != 5 {
		t.Fatalf("expected qty 5, got %d", got.Items[1].ItemQty)
	}

	missing := order.OrderItem{ID: 777, OrderID: o.ID, ItemID: 1, ItemName: "x", ItemQty: 1, ItemPrice: 1}
	if err := repo.UpdateItem(ctx, &missing); !errors.Is(err, order.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	if err := repo.DeleteItem(ctx, o.ID, it.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	// Missing item and missing order are both no-ops.
	if err := repo.DeleteItem(ctx, o.ID, it.ID); err != nil {
		t.Fatalf("repeat delete item: %v", err)
	}
	if err := repo.DeleteItem(ctx, 999, 1); err != nil {
		t.Fatalf("delete item of missing order: %v", err)
	}
}

func TestUpdateReplacesItemSet(t *testing.T) {
	ctx := context.Background()
	repo := New()

	o := order.Order{CustID: 101, Items: []order.OrderItem{{ItemID: 11, ItemName: "iphone13", ItemQty: 1, ItemPrice: 999.0}}}
	if err := repo.Create(ctx, &o); err != nil {
		t.Fatalf("create: %v", err)
	}
	keptID := o.Items[0].ID

	// Items carrying their IDs are updated in place, IDs preserved.
	o.Items[0].ItemQty = 3
	if err := repo.Update(ctx, &o); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := repo.Get(ctx, o.ID)
	if got.Items[0].ID != keptID || got.Items[0].ItemQty != 3 {
		t.Fatalf("expected preserved item ID %d, got %+v", keptID, got.Items[0])
	}

	// A fresh item set (zero IDs) replaces the old one wholesale.
	o.Items = []order.OrderItem{{ItemID: 22, ItemName: "ipad", ItemQty: 1, ItemPrice: 888.0}}
	if err := repo.Update(ctx, &o); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.Get(ctx, o.ID)
	if len(got.Items) != 1 || got.Items[0].ItemID != 22 || got.Items[0].ID == keptID {
		t.Fatalf("expected replaced item set, got %+v", got.Items)
	}

	absent := order.Order{ID: 999, CustID: 1}
	if err := repo.Update(ctx, &absent); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
