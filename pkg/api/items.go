package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"ordersvc/pkg/order"
	"ordersvc/pkg/otel"
)

// listItems returns all items belonging to one order.
// @Summary List items in order
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {array} order.OrderItem
// @Failure 404 {object} errorResponse
// @Router /orders/{order_id}/items [get]
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listItems")
	defer span.End()

	id := pathInt(r, "order_id")
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		s.respondOrderError(ctx, w, id, err, "list items")
		return
	}
	items := o.Items
	if items == nil {
		items = []order.OrderItem{}
	}
	s.writeJSON(w, http.StatusOK, items)
}

// addItem appends an item to an existing order. The item's order_id always
// comes from the path, never from the body.
// @Summary Add item to order
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Param item body order.OrderItem true "Item"
// @Success 201 {object} order.OrderItem
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 415 {object} errorResponse
// @Router /orders/{order_id}/items [post]
func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addItem")
	defer span.End()

	if !hasJSONContentType(r) {
		s.writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	id := pathInt(r, "order_id")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid OrderItem: body of request contained bad or no data")
		return
	}
	it, err := order.DecodeItem(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.repo.AddItem(ctx, id, &it); err != nil {
		s.respondOrderError(ctx, w, id, err, "add item")
		return
	}
	s.log.Info("item added", zap.Int("order_id", id), zap.Int("item_id", it.ID))
	w.Header().Set("Location", fmt.Sprintf("/orders/%d/items/%d", id, it.ID))
	s.writeJSON(w, http.StatusCreated, it)
}

// getItem retrieves one item within an order.
// @Summary Get item
// @Produce json
// @Param order_id path int true "Order ID"
// @Param item_id path int true "Item ID"
// @Success 200 {object} order.OrderItem
// @Failure 404 {object} errorResponse
// @Router /orders/{order_id}/items/{item_id} [get]
func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getItem")
	defer span.End()

	orderID := pathInt(r, "order_id")
	itemID := pathInt(r, "item_id")
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		s.respondOrderError(ctx, w, orderID, err, "get item")
		return
	}
	for _, it := range o.Items {
		if it.ID == itemID {
			s.writeJSON(w, http.StatusOK, it)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, fmt.Sprintf("Item with id '%d' was not found.", itemID))
}

// updateItem replaces one item's fields within an order.
// @Summary Update item
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Param item_id path int true "Item ID"
// @Param item body order.OrderItem true "Item"
// @Success 200 {object} order.OrderItem
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 415 {object} errorResponse
// @Router /orders/{order_id}/items/{item_id} [put]
func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateItem")
	defer span.End()

	if !hasJSONContentType(r) {
		s.writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	orderID := pathInt(r, "order_id")
	itemID := pathInt(r, "item_id")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid OrderItem: body of request contained bad or no data")
		return
	}
	it, err := order.DecodeItem(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// A missing order must report as the order, not the item.
	if _, err := s.repo.Get(ctx, orderID); err != nil {
		s.respondOrderError(ctx, w, orderID, err, "update item")
		return
	}
	it.ID = itemID
	it.OrderID = orderID
	if err := s.repo.UpdateItem(ctx, &it); err != nil {
		if errors.Is(err, order.ErrItemNotFound) {
			s.writeError(w, http.StatusNotFound, fmt.Sprintf("Item with id '%d' was not found.", itemID))
			return
		}
		s.logError(ctx, "update item", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, it)
}

// deleteItem removes one item from an order. A missing order or item still
// returns 204: deletes are idempotent.
// @Summary Delete item
// @Param order_id path int true "Order ID"
// @Param item_id path int true "Item ID"
// @Success 204
// @Router /orders/{order_id}/items/{item_id} [delete]
func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteItem")
	defer span.End()

	orderID := pathInt(r, "order_id")
	itemID := pathInt(r, "item_id")
	err := s.repo.DeleteItem(ctx, orderID, itemID)
	if err != nil && !errors.Is(err, order.ErrNotFound) && !errors.Is(err, order.ErrItemNotFound) {
		s.logError(ctx, "delete item", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
