package user

import (
	"context"
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ActorFunc returns the authenticated user id of a request context.
type ActorFunc func(ctx context.Context) (uuid.UUID, bool)

type Handler struct {
	service Service
	actor   ActorFunc
}

func NewHandler(service Service, actor ActorFunc) *Handler {
	return &Handler{service: service, actor: actor}
}

// RegisterPublicRoutes mounts endpoints that need no credentials.
func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/api/v1/users/register", h.registerUser)
}

// RegisterRoutes mounts the caller's own profile. There is no lookup of other
// users by id.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/api/v1/users/me", h.getMe)
	router.Patch("/api/v1/users/me", h.updateMe)
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	var req request
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, user)
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.actor(r.Context())
	if !ok {
		httpx.Error(w, common.ErrUnauthorized)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, user)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.actor(r.Context())
	if !ok {
		httpx.Error(w, common.ErrUnauthorized)
		return
	}

	var req ProfileUpdate
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, user)
}
