package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"ordersvc/pkg/order"
	"ordersvc/pkg/otel"
)

// listOrders lists orders, optionally filtered by customer or contained item.
// When both filters are supplied the customer filter takes precedence.
// @Summary List orders
// @Produce json
// @Param cust_id query int false "Customer ID filter"
// @Param item_id query int false "Product item ID filter"
// @Success 200 {array} order.Order
// @Router /orders [get]
func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrders")
	defer span.End()

	q := r.URL.Query()
	var orders []order.Order
	var err error
	switch {
	case q.Get("cust_id") != "":
		custID, perr := strconv.Atoi(q.Get("cust_id"))
		if perr != nil {
			s.writeError(w, http.StatusBadRequest, "cust_id must be of type int")
			return
		}
		orders, err = s.repo.ListByCustomer(ctx, custID)
	case q.Get("item_id") != "":
		itemID, perr := strconv.Atoi(q.Get("item_id"))
		if perr != nil {
			s.writeError(w, http.StatusBadRequest, "item_id must be of type int")
			return
		}
		orders, err = s.repo.ListByItem(ctx, itemID)
	default:
		orders, err = s.repo.List(ctx)
	}
	if err != nil {
		s.logError(ctx, "list orders", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	s.writeJSON(w, http.StatusOK, orders)
}

// createOrder creates a new order from the request body.
// @Summary Create order
// @Accept json
// @Produce json
// @Param order body order.Order true "Order"
// @Success 201 {object} order.Order
// @Failure 400 {object} errorResponse
// @Failure 415 {object} errorResponse
// @Router /orders [post]
func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrder")
	defer span.End()

	if !hasJSONContentType(r) {
		s.writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid Order: body of request contained bad or no data")
		return
	}
	o, err := order.DecodeOrder(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.repo.Create(ctx, &o); err != nil {
		s.logError(ctx, "create order", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.log.Info("order created", zap.Int("order_id", o.ID))
	w.Header().Set("Location", fmt.Sprintf("/orders/%d", o.ID))
	s.writeJSON(w, http.StatusCreated, o)
}

// getOrder retrieves a single order by ID.
// @Summary Get order
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {object} order.Order
// @Failure 404 {object} errorResponse
// @Router /orders/{order_id} [get]
func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrder")
	defer span.End()

	id := pathInt(r, "order_id")
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		s.respondOrderError(ctx, w, id, err, "get order")
		return
	}
	s.writeJSON(w, http.StatusOK, o)
}

// updateOrder replaces an order's mutable fields. A status key in the body is
// ignored; status only changes through the cancel endpoint.
// @Summary Update order
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Param order body order.Order true "Order"
// @Success 200 {object} order.Order
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 415 {object} errorResponse
// @Router /orders/{order_id} [put]
func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateOrder")
	defer span.End()

	if !hasJSONContentType(r) {
		s.writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	id := pathInt(r, "order_id")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid Order: body of request contained bad or no data")
		return
	}
	upd, err := order.DecodeUpdate(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		s.respondOrderError(ctx, w, id, err, "update order")
		return
	}
	o.CustID = upd.CustID
	if upd.HasItems {
		o.Items = upd.Items
	}
	if err := s.repo.Update(ctx, &o); err != nil {
		s.respondOrderError(ctx, w, id, err, "update order")
		return
	}
	s.writeJSON(w, http.StatusOK, o)
}

// deleteOrder removes an order and all of its items. Deleting an absent order
// still returns 204: deletes are idempotent.
// @Summary Delete order
// @Param order_id path int true "Order ID"
// @Success 204
// @Router /orders/{order_id} [delete]
func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteOrder")
	defer span.End()

	id := pathInt(r, "order_id")
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, order.ErrNotFound) {
		s.logError(ctx, "delete order", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cancelOrder transitions an order to Cancelled. Cancelling twice is
// idempotent and yields the same representation.
// @Summary Cancel order
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {object} order.Order
// @Failure 404 {object} errorResponse
// @Router /orders/{order_id}/cancel [put]
func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "cancelOrder")
	defer span.End()

	id := pathInt(r, "order_id")
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		s.respondOrderError(ctx, w, id, err, "cancel order")
		return
	}
	o.Status = o.Status.Cancel()
	if err := s.repo.Update(ctx, &o); err != nil {
		s.respondOrderError(ctx, w, id, err, "cancel order")
		return
	}
	s.log.Info("order cancelled", zap.Int("order_id", o.ID))
	s.writeJSON(w, http.StatusOK, o)
}

// respondOrderError maps a repository error for the given order to a response:
// ErrNotFound becomes a 404 naming the order, anything else a logged 500.
func (s *Server) respondOrderError(ctx context.Context, w http.ResponseWriter, id int, err error, op string) {
	if errors.Is(err, order.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("Order with id '%d' was not found.", id))
		return
	}
	s.logError(ctx, op, err)
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}
