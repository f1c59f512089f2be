package roles

import (
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/modules/policy"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/api/v1/vendors/{vendor_id}/roles", func(r chi.Router) {
		r.Get("/", h.listRoles)
		r.Get("/me", h.getMyRole)
		r.Put("/{user_id}", h.assignRole)
	})
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		httpx.Error(w, common.ErrUnauthorized)
		return
	}
	vendorID, err := httpx.URLParamUUID(r, "vendor_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	userID, err := httpx.URLParamUUID(r, "user_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	role, err := policy.ParseRole(req.Role)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	uvr, err := h.service.AssignRole(r.Context(), actor, vendorID, userID, role)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, uvr)
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		httpx.Error(w, common.ErrUnauthorized)
		return
	}
	vendorID, err := httpx.URLParamUUID(r, "vendor_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	list, err := h.service.ListVendorRoles(r.Context(), actor, vendorID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, list)
}

func (h *Handler) getMyRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		httpx.Error(w, common.ErrUnauthorized)
		return
	}
	vendorID, err := httpx.URLParamUUID(r, "vendor_id")
	if err != nil {
		httpx.Error(w, err)
		return
	}

	uvr, err := h.service.GetMyRole(r.Context(), actor, vendorID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, uvr)
}
