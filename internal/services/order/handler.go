package order

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/configurator"
	"github.com/davimluiz/copiacantinho-sub000/internal/httpx"
	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/davimluiz/copiacantinho-sub000/internal/validation"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for catalog and draft orders
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

type stepRequest struct {
	Step models.Step `json:"step"`
}

type manualItemRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type finalizeResponse struct {
	Order       models.Order `json:"order"`
	PrintQueued bool         `json:"printQueued"`
}

type draftResponse struct {
	models.DraftOrder
	SubtotalAmount string `json:"subtotalAmount"`
}

func newDraftResponse(d models.DraftOrder) draftResponse {
	return draftResponse{DraftOrder: d, SubtotalAmount: d.Subtotal().StringFixed(2)}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/catalog", h.GetCatalog)

	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", h.CreateDraft)
		r.Get("/", h.ListDrafts)
		r.Get("/{id}", h.GetDraft)
		r.Delete("/{id}", h.DeleteDraft)
		r.Put("/{id}/customer", h.UpdateCustomer)
		r.Put("/{id}/step", h.SetStep)
		r.Post("/{id}/items", h.AddItem)
		r.Post("/{id}/items/manual", h.AddManualItem)
		r.Patch("/{id}/items/{cartID}", h.SetItemQuantity)
		r.Delete("/{id}/items/{cartID}", h.RemoveItem)
		r.Post("/{id}/finalize", h.Finalize)
	})
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pos-service",
	}
	_ = httpx.WriteJSON(w, http.StatusOK, response)
}

// GetCatalog handles GET /catalog requests
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.service.Catalog().View())
}

func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	draft, err := h.service.CreateDraft(ctx)
	if err != nil {
		h.writeServiceError(w, "draft_create_failed", err, requestID)
		return
	}

	h.logger.Debug("draft_created", "Draft order created", requestID, map[string]interface{}{
		"draft_id": draft.ID,
	})
	h.writeJSON(w, r, http.StatusCreated, newDraftResponse(draft))
}

func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts := h.service.Drafts()
	out := make([]draftResponse, len(drafts))
	for i, d := range drafts {
		out[i] = newDraftResponse(d)
	}
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{"drafts": out})
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Draft(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "draft_lookup_failed", err, httpx.RequestID(r.Context()))
		return
	}
	h.writeJSON(w, r, http.StatusOK, newDraftResponse(draft))
}

// DeleteDraft handles DELETE /drafts/{id}?confirm=true. Deleting a draft
// loses its cart, so the caller must confirm explicitly.
func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("confirm") != "true" {
		httpx.WriteError(w, http.StatusPreconditionRequired, "Deleting a draft requires confirm=true", requestID)
		return
	}

	if err := h.service.DeleteDraft(r.Context(), id); err != nil {
		h.writeServiceError(w, "draft_delete_failed", err, requestID)
		return
	}

	h.logger.Info("draft_deleted", "Draft order discarded", requestID, map[string]interface{}{
		"draft_id": id,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var customer models.CustomerInfo
	if !h.decode(w, r, &customer, requestID) {
		return
	}

	draft, err := h.service.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), customer)
	if err != nil {
		h.writeServiceError(w, "customer_update_failed", err, requestID)
		return
	}
	h.writeJSON(w, r, http.StatusOK, newDraftResponse(draft))
}

func (h *Handler) SetStep(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var req stepRequest
	if !h.decode(w, r, &req, requestID) {
		return
	}

	draft, err := h.service.SetStep(r.Context(), chi.URLParam(r, "id"), req.Step)
	if err != nil {
		h.writeServiceError(w, "step_change_failed", err, requestID)
		return
	}
	h.writeJSON(w, r, http.StatusOK, newDraftResponse(draft))
}

// AddItem handles POST /drafts/{id}/items with a product configuration
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var req configurator.Request
	if !h.decode(w, r, &req, requestID) {
		return
	}

	item, err := configurator.Configure(h.service.Catalog(), req)
	if err != nil {
		h.writeServiceError(w, "item_configuration_failed", err, requestID)
		return
	}

	draft, err := h.service.AddItem(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		h.writeServiceError(w, "item_add_failed", err, requestID)
		return
	}

	h.logger.Debug("item_added", "Item added to cart", requestID, map[string]interface{}{
		"draft_id":   draft.ID,
		"product_id": item.ID,
		"quantity":   item.Quantity,
		"unit_price": item.Price.StringFixed(2),
	})
	h.writeJSON(w, r, http.StatusCreated, newDraftResponse(draft))
}

// AddManualItem handles POST /drafts/{id}/items/manual
func (h *Handler) AddManualItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var req manualItemRequest
	if !h.decode(w, r, &req, requestID) {
		return
	}

	item, err := configurator.ManualItem(req.Name, req.Price)
	if err != nil {
		h.writeServiceError(w, "manual_item_rejected", err, requestID)
		return
	}

	draft, err := h.service.AddItem(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		h.writeServiceError(w, "item_add_failed", err, requestID)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, newDraftResponse(draft))
}

func (h *Handler) SetItemQuantity(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var req quantityRequest
	if !h.decode(w, r, &req, requestID) {
		return
	}

	draft, err := h.service.SetItemQuantity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cartID"), req.Quantity)
	if err != nil {
		h.writeServiceError(w, "item_update_failed", err, requestID)
		return
	}
	h.writeJSON(w, r, http.StatusOK, newDraftResponse(draft))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	draft, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cartID"))
	if err != nil {
		h.writeServiceError(w, "item_remove_failed", err, requestID)
		return
	}
	h.writeJSON(w, r, http.StatusOK, newDraftResponse(draft))
}

// Finalize handles POST /drafts/{id}/finalize
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, queued, err := h.service.Finalize(ctx, chi.URLParam(r, "id"), requestID)
	if err != nil {
		h.writeServiceError(w, "order_finalize_failed", err, requestID)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, finalizeResponse{Order: order, PrintQueued: queued})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, requestID string) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		if errors.Is(err, httpx.ErrUnsupportedMediaType) {
			httpx.WriteError(w, http.StatusUnsupportedMediaType, err.Error(), requestID)
			return false
		}
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, v interface{}) {
	if err := httpx.WriteJSON(w, statusCode, v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", httpx.RequestID(r.Context()), err, nil)
	}
}

// writeServiceError maps service and validation errors to HTTP responses
func (h *Handler) writeServiceError(w http.ResponseWriter, action string, err error, requestID string) {
	WriteError(w, h.logger, action, err, requestID)
}

// WriteError maps order errors to status codes. Unexpected errors are logged
// and reported as 500 without detail.
func WriteError(w http.ResponseWriter, log *logger.Logger, action string, err error, requestID string) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Debug(action, verr.Error(), requestID, nil)
		httpx.WriteFieldError(w, http.StatusUnprocessableEntity, verr.Field, verr.Message, requestID)
	case errors.Is(err, ErrDraftNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrItemNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error(), requestID)
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidStatusTransition),
		errors.Is(err, ErrAlreadyFinalized):
		httpx.WriteError(w, http.StatusConflict, err.Error(), requestID)
	case errors.Is(err, configurator.ErrUnknownProduct),
		errors.Is(err, configurator.ErrOptionNotAllowed),
		errors.Is(err, configurator.ErrSideLimitReached):
		httpx.WriteError(w, http.StatusUnprocessableEntity, err.Error(), requestID)
	default:
		log.Error(action, "Request failed", requestID, err, nil)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
}
