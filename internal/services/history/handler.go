package history

import (
	"net/http"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/httpx"
	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/davimluiz/copiacantinho-sub000/internal/printer"
	"github.com/davimluiz/copiacantinho-sub000/internal/services/order"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for the order history
type Handler struct {
	orders OrderBook
	layout printer.Layout
	logger *logger.Logger
	now    func() time.Time
}

// NewHandler creates a new history handler
func NewHandler(orders OrderBook, layout printer.Layout, log *logger.Logger) *Handler {
	return &Handler{
		orders: orders,
		layout: layout,
		logger: log,
		now:    time.Now,
	}
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type printResponse struct {
	OrderID     string `json:"orderId"`
	PrintQueued bool   `json:"printQueued"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Get("/{id}/receipt", h.GetReceipt)
		r.Post("/{id}/print", h.PrintOrder)
		r.Patch("/{id}/status", h.SetStatus)
	})
	r.Get("/reports", h.GetReport)
}

// ListOrders handles GET /orders, optionally filtered by ?status=
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	orders := h.orders.Orders()

	if status := models.OrderStatus(r.URL.Query().Get("status")); status != "" {
		if !status.Valid() {
			httpx.WriteFieldError(w, http.StatusBadRequest, "status", "invalid order status", requestID)
			return
		}
		filtered := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	h.logger.Debug("orders_listed", "Order history requested", requestID, map[string]interface{}{
		"count": len(orders),
	})
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Order(chi.URLParam(r, "id"))
	if err != nil {
		order.WriteError(w, h.logger, "order_lookup_failed", err, httpx.RequestID(r.Context()))
		return
	}
	h.writeJSON(w, r, http.StatusOK, o)
}

// GetReceipt handles GET /orders/{id}/receipt with the plain-text receipt
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	o, err := h.orders.Order(chi.URLParam(r, "id"))
	if err != nil {
		order.WriteError(w, h.logger, "order_lookup_failed", err, requestID)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(h.layout.Build(o).PlainText())); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to write receipt", requestID, err, nil)
	}
}

// PrintOrder handles POST /orders/{id}/print
func (h *Handler) PrintOrder(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	o, queued, err := h.orders.Reprint(r.Context(), chi.URLParam(r, "id"), requestID)
	if err != nil {
		order.WriteError(w, h.logger, "reprint_failed", err, requestID)
		return
	}

	h.logger.Info("reprint_requested", "Receipt reprint requested", requestID, map[string]interface{}{
		"order_id":     o.ID,
		"print_queued": queued,
	})
	h.writeJSON(w, r, http.StatusAccepted, printResponse{OrderID: o.ID, PrintQueued: queued})
}

// SetStatus handles PATCH /orders/{id}/status
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	o, err := h.orders.SetOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		order.WriteError(w, h.logger, "status_update_failed", err, requestID)
		return
	}

	h.logger.Info("order_status_changed", "Order status updated", requestID, map[string]interface{}{
		"order_id": o.ID,
		"status":   o.Status,
	})
	h.writeJSON(w, r, http.StatusOK, o)
}

// GetReport handles GET /reports
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, Build(h.orders.Orders(), h.now()))
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, v interface{}) {
	if err := httpx.WriteJSON(w, statusCode, v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", httpx.RequestID(r.Context()), err, nil)
	}
}
