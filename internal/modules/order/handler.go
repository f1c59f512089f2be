package order

import (
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/vendors/{vendor_id}/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)                    // GET    ?status=pending
		r.Post("/", h.createOrder)                  // POST
		r.Get("/{order_id}", h.getOrder)            // GET
		r.Patch("/{order_id}", h.updateOrder)       // PATCH  {"status": "...", "notes": "..."}
		r.Delete("/{order_id}", h.deleteOrder)      // DELETE owners and staff, pending only
		r.Post("/{order_id}/cancel", h.cancelOrder) // POST
	})
}

func target(r *http.Request, withOrder bool) (actor, vendorID, orderID uuid.UUID, err error) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, uuid.Nil, common.ErrUnauthorized
	}
	if vendorID, err = httpx.URLParamUUID(r, "vendor_id"); err != nil {
		return
	}
	if withOrder {
		orderID, err = httpx.URLParamUUID(r, "order_id")
	}
	return
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, _, err := target(r, false)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	var req CreateOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	o, err := h.service.CreateOrder(r.Context(), actor, vendorID, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, _, err := target(r, false)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	var status Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		if status, err = ParseStatus(raw); err != nil {
			httpx.Error(w, err)
			return
		}
	}
	orders, err := h.service.ListVisibleOrders(r.Context(), actor, vendorID, status)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	httpx.Respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, orderID, err := target(r, true)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	o, err := h.service.GetOrder(r.Context(), actor, vendorID, orderID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, orderID, err := target(r, true)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	var req struct {
		Status *string `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	changes := OrderChanges{Notes: req.Notes}
	if req.Status != nil {
		st, err := ParseStatus(*req.Status)
		if err != nil {
			httpx.Error(w, err)
			return
		}
		changes.Status = &st
	}

	o, err := h.service.UpdateOrder(r.Context(), actor, vendorID, orderID, changes)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, orderID, err := target(r, true)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	o, outcome, err := h.service.CancelOrder(r.Context(), actor, vendorID, orderID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if outcome == OutcomeDeleted {
		httpx.Respond(w, http.StatusNoContent, nil)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, orderID, err := target(r, true)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if err := h.service.DeleteOrder(r.Context(), actor, vendorID, orderID); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusNoContent, nil)
}
