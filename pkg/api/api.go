// Package api exposes the order service over REST.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ordersvc/pkg/order"
	"ordersvc/pkg/otel"
)

// Server bundles the storage handle and logger every handler needs. It is
// constructed once at process start and threaded through the router; no
// handler reaches for ambient global state.
type Server struct {
	repo   order.Repository
	log    *zap.Logger
	tracer trace.Tracer
}

// NewServer creates the handler set over the given repository.
func NewServer(repo order.Repository, log *zap.Logger, tracer trace.Tracer) *Server {
	return &Server{repo: repo, log: log, tracer: tracer}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.Use(s.requestIDMiddleware, s.traceMiddleware)

	r.HandleFunc("/", s.index).Methods(http.MethodGet)

	r.HandleFunc("/orders", s.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders", s.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{order_id:[0-9]+}", s.getOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{order_id:[0-9]+}", s.updateOrder).Methods(http.MethodPut)
	r.HandleFunc("/orders/{order_id:[0-9]+}", s.deleteOrder).Methods(http.MethodDelete)
	r.HandleFunc("/orders/{order_id:[0-9]+}/cancel", s.cancelOrder).Methods(http.MethodPut)

	r.HandleFunc("/orders/{order_id:[0-9]+}/items", s.listItems).Methods(http.MethodGet)
	r.HandleFunc("/orders/{order_id:[0-9]+}/items", s.addItem).Methods(http.MethodPost)
	r.HandleFunc("/orders/{order_id:[0-9]+}/items/{item_id:[0-9]+}", s.getItem).Methods(http.MethodGet)
	r.HandleFunc("/orders/{order_id:[0-9]+}/items/{item_id:[0-9]+}", s.updateItem).Methods(http.MethodPut)
	r.HandleFunc("/orders/{order_id:[0-9]+}/items/{item_id:[0-9]+}", s.deleteItem).Methods(http.MethodDelete)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

// index returns service metadata.
// @Summary Service metadata
// @Produce json
// @Success 200
// @Router / [get]
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"name":    "Orders REST API Service",
		"version": "1.0",
		"paths":   "/orders",
	})
}

func (s *Server) logError(ctx context.Context, msg string, err error) {
	s.log.Error(msg,
		zap.Error(err),
		zap.String("trace_id", otel.GetTraceID(ctx)),
		zap.String("request_id", RequestID(ctx)),
	)
}
