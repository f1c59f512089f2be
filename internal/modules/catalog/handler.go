package catalog

import (
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/vendors/{vendor_id}/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{product_id}", h.getProduct)
		r.Patch("/{product_id}", h.updateProduct)
		r.Delete("/{product_id}", h.deleteProduct)
	})
}

// target resolves the actor and the vendor and, when withProduct is set, the
// product id from the request.
func target(r *http.Request, withProduct bool) (actor, vendorID, productID uuid.UUID, err error) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, uuid.Nil, common.ErrUnauthorized
	}
	if vendorID, err = httpx.URLParamUUID(r, "vendor_id"); err != nil {
		return
	}
	if withProduct {
		productID, err = httpx.URLParamUUID(r, "product_id")
	}
	return
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, _, err := target(r, false)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	products, err := h.service.ListVisibleProducts(r.Context(), actor, vendorID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	httpx.Respond(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, _, err := target(r, false)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	var req CreateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), actor, vendorID, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, productID, err := target(r, true)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.GetProduct(r.Context(), actor, vendorID, productID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, productID, err := target(r, true)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	var req UpdateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), actor, vendorID, productID, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	actor, vendorID, productID, err := target(r, true)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if err := h.service.DeleteProduct(r.Context(), actor, vendorID, productID); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusNoContent, nil)
}
